package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/services/flow"
)

// renderKeyboard turns the engine's rendering instruction into a Telegram
// reply markup. Action buttons become an inline keyboard; a location
// request becomes a one-time reply keyboard with a share-location button.
func renderKeyboard(reply flow.Reply) (interface{}, bool) {
	if len(reply.Buttons) > 0 {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(reply.Buttons))
		for _, row := range reply.Buttons {
			btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, btn := range row {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Action))
			}
			rows = append(rows, btns)
		}
		return tgbotapi.NewInlineKeyboardMarkup(rows...), true
	}

	if reply.RequestLocation {
		kb := tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButtonLocation("📍 Enviar localização"),
			),
		)
		kb.OneTimeKeyboard = true
		kb.ResizeKeyboard = true
		return kb, true
	}

	return nil, false
}
