package bot

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"bot-itens/config"
	"bot-itens/internal/database"
	"bot-itens/internal/extractor"
	"bot-itens/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Passos dos diálogos interativos. Cada chat tem no máximo um diálogo em
// andamento; o botão de cancelar sempre volta ao menu principal.
type dialogStep int

const (
	stepAwaitingURL dialogStep = iota
	stepAwaitingPurchasePrice
	stepAwaitingEditChoice
	stepAwaitingNewPrice
	stepAwaitingDeleteChoice
	stepAwaitingDeleteConfirm
)

type dialog struct {
	step      dialogStep
	url       string
	items     []models.Item
	itemID    int64
	itemTitle string
}

type handler struct {
	api         *tgbotapi.BotAPI
	db          *database.DB
	cfg         *config.Config
	openSession extractor.Factory
	dialogs     map[int64]*dialog
}

// SetupHandlers processa as mensagens do bot em um único loop. O estado
// dos diálogos fica em um mapa por chat, então nenhum outro goroutine
// pode tocar nele.
func SetupHandlers(api *tgbotapi.BotAPI, db *database.DB, cfg *config.Config, openSession extractor.Factory) {
	h := &handler{
		api:         api,
		db:          db,
		cfg:         cfg,
		openSession: openSession,
		dialogs:     make(map[int64]*dialog),
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}
		h.handleMessage(update.Message)
	}
}

func (h *handler) handleMessage(message *tgbotapi.Message) {
	// Quando há administrador configurado, só ele usa o bot
	if h.cfg.AdminChatID != 0 {
		if message.From == nil || !h.cfg.IsAdmin(message.From.ID) {
			return
		}
	}

	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	if text == btnCancel {
		delete(h.dialogs, chatID)
		h.sendWithKeyboard(chatID, "Ação cancelada.", mainMenuKeyboard())
		return
	}

	// Diálogo em andamento tem prioridade sobre o menu
	if d, ok := h.dialogs[chatID]; ok {
		h.handleDialogStep(chatID, d, text)
		return
	}

	switch text {
	case "/start", "/help":
		h.sendWithKeyboard(chatID,
			"Olá! Eu rastreio os preços dos seus itens do mercado. Escolha uma ação:",
			mainMenuKeyboard())
	case btnAddItem:
		h.startAddItem(chatID)
	case btnRemoveItem:
		h.startDeleteItem(chatID)
	case btnStatistics:
		h.showStatistics(chatID)
	case btnEditPrice:
		h.startEditPrice(chatID)
	default:
		h.sendWithKeyboard(chatID, "Não entendi. Use o menu abaixo.", mainMenuKeyboard())
	}
}

func (h *handler) handleDialogStep(chatID int64, d *dialog, text string) {
	switch d.step {
	case stepAwaitingURL:
		h.handleURLStep(chatID, d, text)
	case stepAwaitingPurchasePrice:
		h.handlePurchasePriceStep(chatID, d, text)
	case stepAwaitingEditChoice:
		h.handleItemChoiceStep(chatID, d, text, stepAwaitingNewPrice)
	case stepAwaitingNewPrice:
		h.handleNewPriceStep(chatID, d, text)
	case stepAwaitingDeleteChoice:
		h.handleItemChoiceStep(chatID, d, text, stepAwaitingDeleteConfirm)
	case stepAwaitingDeleteConfirm:
		h.handleDeleteConfirmStep(chatID, d, text)
	}
}

// --- Fluxo de adição de item ---

func (h *handler) startAddItem(chatID int64) {
	h.dialogs[chatID] = &dialog{step: stepAwaitingURL}
	h.sendWithKeyboard(chatID, "Me envie o link do item:", cancelKeyboard())
}

func (h *handler) handleURLStep(chatID int64, d *dialog, text string) {
	if !h.cfg.IsAllowedURL(text) {
		h.sendWithKeyboard(chatID,
			"Esse domínio não é suportado. Envie um link de um dos domínios permitidos.",
			cancelKeyboard())
		return
	}

	d.url = text
	d.step = stepAwaitingPurchasePrice
	h.sendWithKeyboard(chatID, "Ótimo! Agora informe o preço de compra (ex: 15.55):", cancelKeyboard())
}

func (h *handler) handlePurchasePriceStep(chatID int64, d *dialog, text string) {
	purchasePrice, err := parseUserPrice(text)
	if err != nil {
		h.sendWithKeyboard(chatID, "Formato de preço inválido. Tente de novo, ex: 15.55", cancelKeyboard())
		return
	}

	url := d.url
	delete(h.dialogs, chatID)
	h.sendWithKeyboard(chatID, "⏳ Começando o processamento, isso pode demorar um pouco...", mainMenuKeyboard())

	data, err := h.extractItem(url)
	if err != nil {
		log.Printf("Erro ao extrair dados de %s: %v", url, err)
		h.send(chatID, "Ocorreu um erro ao processar a página. Tente de novo.")
		return
	}

	if data.Title == nil || *data.Title == "" {
		h.send(chatID, "Não consegui obter os dados do item. Confira o link e tente de novo.")
		return
	}

	// Inserir com preço de compra zerado e então defini-lo, recalculando
	// o lucro. URL repetida não é erro: só atualiza o preço de compra.
	if _, err := h.db.InsertIfAbsent(data); err != nil {
		log.Printf("Erro ao adicionar item: %v", err)
		h.send(chatID, "Erro ao salvar o item. Tente de novo.")
		return
	}
	if _, err := h.db.SetPurchasePrice(url, purchasePrice); err != nil {
		log.Printf("Erro ao definir preço de compra: %v", err)
		h.send(chatID, "Erro ao salvar o preço de compra. Tente de novo.")
		return
	}

	h.send(chatID, fmt.Sprintf("✅ Item '%s' adicionado com preço de compra $%.2f.",
		*data.Title, purchasePrice))
}

// extractItem abre uma sessão de renderização só para esta página e a
// fecha em qualquer saída.
func (h *handler) extractItem(url string) (*models.ItemData, error) {
	session, err := h.openSession()
	if err != nil {
		return nil, err
	}
	defer session.Close()

	return extractor.Extract(session, url)
}

// --- Fluxos de edição de preço e remoção ---

func (h *handler) startEditPrice(chatID int64) {
	items, err := h.db.ListAll()
	if err != nil {
		log.Printf("Erro ao listar itens: %v", err)
		h.send(chatID, "Erro ao buscar os itens. Tente de novo.")
		return
	}
	if len(items) == 0 {
		h.send(chatID, "Você ainda não tem itens para editar.")
		return
	}

	var b strings.Builder
	b.WriteString("<b>Qual item você quer editar?</b>\nEnvie o número dele (os 10 primeiros estão no teclado).\n")
	for i, item := range items {
		b.WriteString(fmt.Sprintf("\n<b>%d</b>. %s (preço de compra: $%.2f)",
			i+1, escapeHTML(item.Title), item.PurchasePrice))
	}

	h.dialogs[chatID] = &dialog{step: stepAwaitingEditChoice, items: items}
	h.sendHTMLWithKeyboard(chatID, b.String(), numericKeyboard(len(items)))
}

func (h *handler) startDeleteItem(chatID int64) {
	items, err := h.db.ListAll()
	if err != nil {
		log.Printf("Erro ao listar itens: %v", err)
		h.send(chatID, "Erro ao buscar os itens. Tente de novo.")
		return
	}
	if len(items) == 0 {
		h.send(chatID, "Você ainda não tem itens rastreados.")
		return
	}

	var b strings.Builder
	b.WriteString("<b>Qual item você quer remover?</b>\nEnvie o número dele (os 10 primeiros estão no teclado).\n")
	for i, item := range items {
		b.WriteString(fmt.Sprintf("\n<b>%d</b>. %s", i+1, escapeHTML(item.Title)))
	}

	h.dialogs[chatID] = &dialog{step: stepAwaitingDeleteChoice, items: items}
	h.sendHTMLWithKeyboard(chatID, b.String(), numericKeyboard(len(items)))
}

// handleItemChoiceStep valida o número escolhido e avança o diálogo para
// o próximo passo (novo preço ou confirmação de remoção).
func (h *handler) handleItemChoiceStep(chatID int64, d *dialog, text string, next dialogStep) {
	choice, err := strconv.Atoi(text)
	if err != nil {
		h.sendWithKeyboard(chatID, "Envie o número de um item da lista.", numericKeyboard(len(d.items)))
		return
	}
	if choice < 1 || choice > len(d.items) {
		h.sendWithKeyboard(chatID,
			fmt.Sprintf("Número inválido. Envie um número de 1 a %d.", len(d.items)),
			numericKeyboard(len(d.items)))
		return
	}

	selected := d.items[choice-1]
	d.itemID = selected.ID
	d.itemTitle = selected.Title
	d.step = next

	switch next {
	case stepAwaitingNewPrice:
		h.sendWithKeyboard(chatID,
			fmt.Sprintf("Informe o novo preço de compra para '%s':", selected.Title),
			cancelKeyboard())
	case stepAwaitingDeleteConfirm:
		h.sendWithKeyboard(chatID,
			fmt.Sprintf("Tem certeza de que quer remover '%s'?", selected.Title),
			confirmDeleteKeyboard())
	}
}

func (h *handler) handleNewPriceStep(chatID int64, d *dialog, text string) {
	newPrice, err := parseUserPrice(text)
	if err != nil {
		h.sendWithKeyboard(chatID, "Formato de preço inválido. Tente de novo, ex: 15.55", cancelKeyboard())
		return
	}

	itemID := d.itemID
	delete(h.dialogs, chatID)

	updated, err := h.db.SetPurchasePriceByID(itemID, newPrice)
	if err != nil {
		log.Printf("Erro ao alterar preço de compra: %v", err)
		h.sendWithKeyboard(chatID, "❌ Erro ao alterar o preço. Tente de novo.", mainMenuKeyboard())
		return
	}
	if !updated {
		h.sendWithKeyboard(chatID, "❌ Não foi possível alterar o preço. Item não encontrado.", mainMenuKeyboard())
		return
	}

	h.sendWithKeyboard(chatID,
		fmt.Sprintf("✅ Preço de compra alterado para $%.2f.", newPrice),
		mainMenuKeyboard())
}

func (h *handler) handleDeleteConfirmStep(chatID int64, d *dialog, text string) {
	if text != btnConfirmDelete {
		h.sendWithKeyboard(chatID,
			"Toque em '✅ Sim' para remover ou '❌ Cancelar' para desistir.",
			confirmDeleteKeyboard())
		return
	}

	itemID := d.itemID
	itemTitle := d.itemTitle
	delete(h.dialogs, chatID)

	deleted, err := h.db.Delete(itemID)
	if err != nil {
		log.Printf("Erro ao remover item: %v", err)
		h.sendWithKeyboard(chatID, "❌ Erro ao remover o item.", mainMenuKeyboard())
		return
	}
	if !deleted {
		h.sendWithKeyboard(chatID, "❌ Não foi possível remover o item.", mainMenuKeyboard())
		return
	}

	h.sendWithKeyboard(chatID,
		fmt.Sprintf("✅ Item '%s' removido com sucesso.", itemTitle),
		mainMenuKeyboard())
}

// --- Estatísticas ---

func (h *handler) showStatistics(chatID int64) {
	items, err := h.db.ListAll()
	if err != nil {
		log.Printf("Erro ao listar itens: %v", err)
		h.send(chatID, "Erro ao buscar os itens. Tente de novo.")
		return
	}
	if len(items) == 0 {
		h.send(chatID, "Você ainda não tem itens rastreados para as estatísticas.")
		return
	}

	var totalPurchase, totalCurrent float64
	var b strings.Builder
	b.WriteString("<b>📊 Estatísticas dos itens:</b>\n")

	for _, item := range items {
		currentPrice := 0.0
		if item.CurrentPrice != nil {
			currentPrice = *item.CurrentPrice
		}
		totalPurchase += item.PurchasePrice
		totalCurrent += currentPrice

		absolute, percent := item.Profit()
		sign := "🟢"
		if absolute < 0 {
			sign = "🔴"
		}

		b.WriteString(fmt.Sprintf(
			"\n<b>%s</b>\n"+
				"  - Preço de compra: $%.2f\n"+
				"  - Preço atual: $%.2f\n"+
				"  - Lucro: %s $%.2f (%.2f%%)",
			escapeHTML(item.Title), item.PurchasePrice, currentPrice, sign, absolute, percent))
	}

	totalAbsolute, totalPercent := models.Profit(&totalCurrent, totalPurchase)
	totalSign := "🟢"
	if totalAbsolute < 0 {
		totalSign = "🔴"
	}
	b.WriteString(fmt.Sprintf(
		"\n\n\n<b>📈 Total:</b>\n"+
			"  - Soma dos preços de compra: $%.2f\n"+
			"  - Valor atual da carteira: $%.2f\n"+
			"  - <b>Lucro total: %s $%.2f (%.2f%%)</b>",
		totalPurchase, totalCurrent, totalSign, totalAbsolute, totalPercent))

	h.sendLongHTML(chatID, b.String())
}

// --- Helpers de envio ---

// Limite de tamanho de mensagem do Telegram
const maxMessageLength = 4096

func (h *handler) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("Erro ao enviar mensagem: %v", err)
	}
}

func (h *handler) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("Erro ao enviar mensagem: %v", err)
	}
}

func (h *handler) sendHTMLWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	msg.ReplyMarkup = keyboard
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("Erro ao enviar mensagem com HTML: %v", err)
		// Tentar sem formatação se houver erro
		msg.ParseMode = ""
		h.api.Send(msg)
	}
}

// sendLongHTML divide a mensagem no limite do Telegram
func (h *handler) sendLongHTML(chatID int64, text string) {
	for len(text) > 0 {
		chunk := text
		if len(chunk) > maxMessageLength {
			chunk = chunk[:maxMessageLength]
		}
		text = text[len(chunk):]

		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = "HTML"
		if _, err := h.api.Send(msg); err != nil {
			log.Printf("Erro ao enviar mensagem com HTML: %v", err)
			msg.ParseMode = ""
			h.api.Send(msg)
		}
	}
}

// parseUserPrice aceita vírgula como separador decimal (ex: "15,55")
func parseUserPrice(text string) (float64, error) {
	price, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if price < 0 {
		return 0, fmt.Errorf("preço negativo: %s", text)
	}
	return price, nil
}

// escapeHTML escapa caracteres especiais do HTML
func escapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}
