package service

import (
	"context"

	"relaybot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// TelegramService wraps the raw bot API behind domain.TelegramService and
// throttles outbound sends below Telegram's global flood limit. Every send
// is a single fallible call; retries are the transport's business, not ours.
type TelegramService struct {
	bot     domain.TelegramSender
	limiter *rate.Limiter
}

func NewTelegramService(bot domain.TelegramSender, sendRPS int) *TelegramService {
	if sendRPS <= 0 {
		sendRPS = 1
	}
	return &TelegramService{
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(sendRPS), sendRPS),
	}
}

func (s *TelegramService) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	_ = s.limiter.Wait(context.Background())
	return s.bot.Send(c)
}

func (s *TelegramService) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	return s.Send(tgbotapi.NewMessage(chatID, text))
}

func (s *TelegramService) SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	return s.Send(msg)
}

func (s *TelegramService) SendDocument(chatID int64, file tgbotapi.RequestFileData, caption string) (tgbotapi.Message, error) {
	doc := tgbotapi.NewDocument(chatID, file)
	doc.Caption = caption
	return s.Send(doc)
}

func (s *TelegramService) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return s.bot.GetUpdatesChan(config)
}

func (s *TelegramService) GetSelf() tgbotapi.User {
	return s.bot.GetSelf()
}

func (s *TelegramService) StopReceivingUpdates() {
	s.bot.StopReceivingUpdates()
}
