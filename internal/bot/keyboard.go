package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// adminReplyKeyboard builds the per-sender action keyboard attached to every
// forwarded message. Buttons are plain text in the admin command grammar, so
// pressing one goes through the same parser as a typed command.
func (b *Bot) adminReplyKeyboard(userID int64) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(fmt.Sprintf("Reply %d", userID)),
			tgbotapi.NewKeyboardButton(fmt.Sprintf("Who %d", userID)),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(fmt.Sprintf("Ban %d", userID)),
			tgbotapi.NewKeyboardButton(fmt.Sprintf("Unban %d", userID)),
		),
	}

	if len(b.config.Bot.QuickReplies) > 0 {
		var qr []tgbotapi.KeyboardButton
		for _, text := range b.config.Bot.QuickReplies {
			qr = append(qr, tgbotapi.NewKeyboardButton("QR: "+text))
		}
		rows = append(rows, qr)
	}

	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton("Cancel"),
	))

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = false
	return keyboard
}
