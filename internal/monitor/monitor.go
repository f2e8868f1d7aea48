package monitor

import (
	"log"
	"time"

	"bot-itens/internal/database"
	"bot-itens/internal/extractor"
)

// Notifier entrega o relatório agregado para um chat. A entrega é
// fire-and-forget: falha é logada e não há retry.
type Notifier interface {
	Send(chatID int64, text string) error
}

// Monitor atualiza periodicamente todos os itens rastreados e envia um
// relatório de lucros ao administrador.
type Monitor struct {
	db          *database.DB
	notifier    Notifier
	openSession extractor.Factory
	interval    time.Duration
	pacing      time.Duration
	adminChatID int64
}

// New cria uma nova instância do monitor
func New(db *database.DB, notifier Notifier, openSession extractor.Factory, interval, pacing time.Duration, adminChatID int64) *Monitor {
	return &Monitor{
		db:          db,
		notifier:    notifier,
		openSession: openSession,
		interval:    interval,
		pacing:      pacing,
		adminChatID: adminChatID,
	}
}

// Start inicia as varreduras em background. Nenhuma falha de varredura
// encerra o loop: a próxima sempre acontece após o intervalo normal.
func (m *Monitor) Start() {
	log.Printf("Monitor iniciado. Atualizando itens a cada %v", m.interval)

	// Varrer imediatamente na primeira execução
	m.Sweep()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for range ticker.C {
		m.Sweep()
	}
}

// Sweep executa uma varredura completa: atualiza cada item rastreado com
// uma única sessão de renderização e envia o relatório ao final. A falha
// de um item nunca aborta a varredura dos demais.
func (m *Monitor) Sweep() {
	items, err := m.db.ListAll()
	if err != nil {
		log.Printf("Erro ao buscar itens: %v", err)
		return
	}

	if len(items) == 0 {
		log.Println("Nenhum item para atualizar")
		return
	}

	session, err := m.openSession()
	if err != nil {
		// Sem sessão não há varredura; o próximo tick tenta de novo
		log.Printf("Erro ao abrir sessão de renderização: %v", err)
		return
	}
	defer session.Close()

	for i, item := range items {
		log.Printf("Atualizando %s...", item.Title)

		data, err := extractor.Extract(session, item.URL)
		if err != nil {
			log.Printf("Erro ao atualizar item %d (%s): %v", item.ID, item.URL, err)
			continue
		}

		if data.Title == nil || *data.Title == "" {
			log.Printf("Não foi possível obter dados para %s", item.URL)
			continue
		}

		if err := m.db.Upsert(data); err != nil {
			log.Printf("Erro ao salvar item %d: %v", item.ID, err)
			continue
		}

		// Pequeno delay entre páginas para não sobrecarregar o site
		if i < len(items)-1 {
			time.Sleep(m.pacing)
		}
	}

	m.sendReport()
}

func (m *Monitor) sendReport() {
	if m.adminChatID == 0 {
		return
	}

	// Relatório montado a partir do estado atual do banco, já com os
	// preços desta varredura
	items, err := m.db.ListAll()
	if err != nil {
		log.Printf("Erro ao buscar itens para o relatório: %v", err)
		return
	}

	report := BuildReport(items)
	if report == "" {
		return
	}

	if err := m.notifier.Send(m.adminChatID, report); err != nil {
		log.Printf("Erro ao enviar relatório: %v", err)
		return
	}
	log.Println("Relatório enviado")
}
