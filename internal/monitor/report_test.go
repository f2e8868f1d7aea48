package monitor

import (
	"testing"

	"bot-itens/internal/models"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuildReport(t *testing.T) {
	items := []models.Item{
		{Title: "AK-47 | Redline", CurrentPrice: floatPtr(150.00), PurchasePrice: 100.00},
		{Title: "AWP | Asiimov", CurrentPrice: floatPtr(80.00), PurchasePrice: 100.00},
	}

	report := BuildReport(items)

	assert.Contains(t, report, "📊 Resumo de lucros")
	assert.Contains(t, report, "<b>AK-47 | Redline</b>: 🟢 $50.00 (50.00%)")
	assert.Contains(t, report, "<b>AWP | Asiimov</b>: 🔴 $-20.00 (-20.00%)")
	// Total: 230 atual contra 200 de compra
	assert.Contains(t, report, "Lucro total: 🟢 $30.00 (15.00%)")
}

func TestBuildReportEscapesTitles(t *testing.T) {
	items := []models.Item{
		{Title: "StatTrak™ <special> & rare", CurrentPrice: floatPtr(10.00), PurchasePrice: 5.00},
	}

	report := BuildReport(items)
	assert.Contains(t, report, "StatTrak™ &lt;special&gt; &amp; rare")
}

func TestBuildReportItemWithoutPurchasePrice(t *testing.T) {
	// Sem preço de compra o item aparece zerado, mas seu valor atual
	// ainda entra no total
	items := []models.Item{
		{Title: "Item novo", CurrentPrice: floatPtr(10.00), PurchasePrice: 0},
		{Title: "Item antigo", CurrentPrice: floatPtr(150.00), PurchasePrice: 100.00},
	}

	report := BuildReport(items)
	assert.Contains(t, report, "<b>Item novo</b>: 🟢 $0.00 (0.00%)")
	assert.Contains(t, report, "Lucro total: 🟢 $60.00 (60.00%)")
}

func TestBuildReportEmpty(t *testing.T) {
	assert.Empty(t, BuildReport(nil))
}
