package models

import (
	"strconv"
	"strings"
	"time"
)

// Item representa um item do mercado sendo rastreado.
// CurrentPrice, AvgPrice e SalesCount são opcionais: a extração pode
// não encontrar esses campos na página.
type Item struct {
	ID            int64
	URL           string
	Title         string
	CurrentPrice  *float64
	AvgPrice      *float64
	SalesCount    *int64
	PurchasePrice float64 // 0 significa "não definido"
	ProfitPercent float64 // derivado de CurrentPrice e PurchasePrice
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ItemData é o registro parcial produzido pelo extrator para uma página.
// Os preços permanecem como texto bruto (ex: "$145.25") até a normalização
// feita pelo banco via ParsePrice.
type ItemData struct {
	URL        string
	Title      *string
	Price      *string
	AvgPrice   *string
	SalesCount *int64
}

// Profit calcula o lucro absoluto e percentual de um item.
// Sem preço de compra válido (<= 0) o resultado é sempre (0, 0); um preço
// atual ausente conta como 0 na subtração.
//
// Esta função é o único caminho de cálculo de lucro: o banco a usa para o
// profit_percent armazenado e os relatórios a usam para exibição, então os
// dois nunca divergem.
func Profit(current *float64, purchase float64) (float64, float64) {
	if purchase <= 0 {
		return 0, 0
	}

	currentValue := 0.0
	if current != nil {
		currentValue = *current
	}

	absolute := currentValue - purchase
	percent := (absolute / purchase) * 100

	return absolute, percent
}

// Profit calcula o lucro do item com base nos campos atuais.
func (i *Item) Profit() (float64, float64) {
	return Profit(i.CurrentPrice, i.PurchasePrice)
}

// ParsePrice converte um texto de preço (ex: "$1,234.50") em número.
// Retorna nil para entrada ausente ou não numérica, nunca erro.
func ParsePrice(raw *string) *float64 {
	if raw == nil {
		return nil
	}

	// Remover símbolo de moeda e separadores de milhar
	cleaned := strings.ReplaceAll(*raw, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}

	return &value
}
