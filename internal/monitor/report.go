package monitor

import (
	"fmt"
	"strings"

	"bot-itens/internal/models"
)

// BuildReport gera o resumo de lucros em HTML para o Telegram. Os valores
// por item e o total passam pelo mesmo motor de lucro usado pelo banco,
// então relatório e profit_percent armazenado nunca divergem.
func BuildReport(items []models.Item) string {
	if len(items) == 0 {
		return ""
	}

	var totalPurchase, totalCurrent float64
	var b strings.Builder
	b.WriteString("<b>📊 Resumo de lucros:</b>\n")

	for _, item := range items {
		totalPurchase += item.PurchasePrice
		if item.CurrentPrice != nil {
			totalCurrent += *item.CurrentPrice
		}

		absolute, percent := item.Profit()
		b.WriteString(fmt.Sprintf("\n<b>%s</b>: %s $%.2f (%.2f%%)",
			escapeHTML(item.Title), profitSign(absolute), absolute, percent))
	}

	totalAbsolute, totalPercent := models.Profit(&totalCurrent, totalPurchase)
	b.WriteString(fmt.Sprintf("\n\n<b>📈 Lucro total: %s $%.2f (%.2f%%)</b>",
		profitSign(totalAbsolute), totalAbsolute, totalPercent))

	return b.String()
}

func profitSign(absolute float64) string {
	if absolute >= 0 {
		return "🟢"
	}
	return "🔴"
}

func escapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}
