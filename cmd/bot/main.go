package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"bot-itens/config"
	"bot-itens/internal/bot"
	"bot-itens/internal/database"
	"bot-itens/internal/extractor"
	"bot-itens/internal/monitor"

	"github.com/joho/godotenv"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Println("Arquivo .env não encontrado, usando variáveis de ambiente do sistema")
	}

	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configurações: %v", err)
	}
	if cfg.AdminChatID == 0 {
		log.Println("ADMIN_CHAT_ID não configurado, relatórios periódicos desativados")
	}

	// Inicializar banco de dados
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Erro ao inicializar banco de dados: %v", err)
	}
	defer db.Close()

	// Inicializar bot do Telegram
	api, err := bot.Init(cfg.TelegramBotToken)
	if err != nil {
		log.Fatalf("Erro ao inicializar bot do Telegram: %v", err)
	}

	// Sessões de renderização sob demanda (uma por varredura ou por adição)
	openSession := extractor.NewFactory(cfg.BrowserPath, cfg.RenderWait)

	// Criar o monitor de varreduras e iniciá-lo em background
	monitorInstance := monitor.New(db, bot.NewReportSender(api), openSession,
		cfg.UpdateInterval, cfg.RequestDelay, cfg.AdminChatID)
	go monitorInstance.Start()

	// Loop de mensagens do bot
	go bot.SetupHandlers(api, db, cfg, openSession)

	// Aguardar sinal de interrupção
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	api.StopReceivingUpdates()
	log.Println("Encerrando bot...")
}
