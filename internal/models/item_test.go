package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestProfit(t *testing.T) {
	t.Run("lucro positivo", func(t *testing.T) {
		absolute, percent := Profit(floatPtr(150.00), 100.00)
		assert.Equal(t, 50.00, absolute)
		assert.Equal(t, 50.00, percent)
	})

	t.Run("prejuizo", func(t *testing.T) {
		absolute, percent := Profit(floatPtr(80.00), 100.00)
		assert.Equal(t, -20.00, absolute)
		assert.Equal(t, -20.00, percent)
	})

	t.Run("preco de compra zerado", func(t *testing.T) {
		absolute, percent := Profit(floatPtr(150.00), 0)
		assert.Equal(t, 0.0, absolute)
		assert.Equal(t, 0.0, percent)
	})

	t.Run("preco de compra negativo", func(t *testing.T) {
		absolute, percent := Profit(floatPtr(150.00), -10)
		assert.Equal(t, 0.0, absolute)
		assert.Equal(t, 0.0, percent)
	})

	t.Run("preco atual ausente conta como zero", func(t *testing.T) {
		absolute, percent := Profit(nil, 100.00)
		assert.Equal(t, -100.00, absolute)
		assert.Equal(t, -100.00, percent)
	})
}

func TestItemProfit(t *testing.T) {
	item := Item{CurrentPrice: floatPtr(150.00), PurchasePrice: 100.00}
	absolute, percent := item.Profit()
	assert.Equal(t, 50.00, absolute)
	assert.Equal(t, 50.00, percent)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		input *string
		want  *float64
	}{
		{"preco simples", strPtr("$145.25"), floatPtr(145.25)},
		{"separador de milhar", strPtr("$1,234.50"), floatPtr(1234.50)},
		{"sem simbolo de moeda", strPtr("99.90"), floatPtr(99.90)},
		{"com espacos", strPtr(" $12.00 "), floatPtr(12.00)},
		{"inteiro", strPtr("$37"), floatPtr(37)},
		{"texto invalido", strPtr("abc"), nil},
		{"texto misturado", strPtr("R$ 15"), nil},
		{"vazio", strPtr(""), nil},
		{"nulo", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrice(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}
