package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Botões do menu principal e das ações de diálogo
const (
	btnAddItem       = "➕ Adicionar item"
	btnRemoveItem    = "🗑️ Remover item"
	btnStatistics    = "📊 Estatísticas"
	btnEditPrice     = "✏️ Editar preço"
	btnCancel        = "❌ Cancelar"
	btnConfirmDelete = "✅ Sim"
)

// mainMenuKeyboard cria o teclado do menu principal
func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAddItem),
			tgbotapi.NewKeyboardButton(btnRemoveItem),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnStatistics),
			tgbotapi.NewKeyboardButton(btnEditPrice),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// cancelKeyboard cria o teclado com apenas o botão de cancelar
func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// numericKeyboard cria um teclado com números de 1 até count (máximo 10)
// e o botão de cancelar no final.
func numericKeyboard(count int) tgbotapi.ReplyKeyboardMarkup {
	limit := count
	if limit > 10 {
		limit = 10
	}

	var rows [][]tgbotapi.KeyboardButton
	var row []tgbotapi.KeyboardButton
	for i := 1; i <= limit; i++ {
		row = append(row, tgbotapi.NewKeyboardButton(fmt.Sprint(i)))
		// Cinco botões por linha
		if len(row) == 5 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)))

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// confirmDeleteKeyboard cria o teclado de confirmação de remoção
func confirmDeleteKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnConfirmDelete),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}
