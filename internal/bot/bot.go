package bot

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Init inicializa o bot do Telegram
func Init(token string) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN não configurado. Verifique o arquivo .env")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		if err.Error() == "Unauthorized" {
			return nil, fmt.Errorf("token do Telegram inválido ou expirado. Verifique o TELEGRAM_BOT_TOKEN no arquivo .env. Para obter um token, fale com @BotFather no Telegram")
		}
		return nil, fmt.Errorf("erro ao conectar com Telegram: %v", err)
	}

	api.Debug = false
	log.Printf("Bot autorizado como: %s", api.Self.UserName)
	return api, nil
}

// ReportSender entrega relatórios do monitor via Telegram.
// Implementa monitor.Notifier.
type ReportSender struct {
	api *tgbotapi.BotAPI
}

// NewReportSender cria um novo enviador de relatórios
func NewReportSender(api *tgbotapi.BotAPI) *ReportSender {
	return &ReportSender{api: api}
}

// Send envia o relatório como mensagem silenciosa em HTML
func (r *ReportSender) Send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	msg.DisableNotification = true
	_, err := r.api.Send(msg)
	return err
}
