package bot

import (
	"context"

	"relaybot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// handleUserMessage relays a non-admin message to the admin chat. Persist
// first, forward second: the correlation link is recorded only after the
// forward succeeded, because its admin_msg_id is the id Telegram assigned to
// the forwarded copy. A failed forward therefore leaves no link and the
// admin's later replies to nothing; the stored message and file survive.
func (b *Bot) handleUserMessage(ctx context.Context, msg *tgbotapi.Message) {
	l := zerolog.Ctx(ctx)
	user := userFromTelegram(msg.From)

	if err := b.repo.UpsertUser(ctx, user); err != nil {
		l.Error().Err(err).Int64("user_id", user.UserID).Msg("Failed to upsert user")
		return
	}

	if msg.Text != "" {
		if _, err := b.repo.SaveMessage(ctx, user.UserID, msg.Text); err != nil {
			l.Error().Err(err).Int64("user_id", user.UserID).Msg("Failed to save message")
			return
		}
	}

	if ref := fileRefFromMessage(msg); ref != nil {
		ref.UserID = user.UserID
		if err := b.repo.SaveFileRef(ctx, ref); err != nil {
			l.Error().Err(err).Int64("user_id", user.UserID).Msg("Failed to save file ref")
			return
		}
	}

	header := relayHeader(msg.From)

	var (
		sent tgbotapi.Message
		err  error
	)
	switch {
	case msg.Text != "":
		sent, err = b.tgService.SendWithKeyboard(b.config.Bot.AdminID, header+"\n\n"+msg.Text, b.adminReplyKeyboard(user.UserID))
	default:
		out := mediaCopy(b.config.Bot.AdminID, msg, header+"\n\n"+msg.Caption)
		if out == nil {
			l.Debug().Int64("user_id", user.UserID).Msg("Unsupported inbound content, nothing to relay")
			return
		}
		sent, err = b.tgService.Send(out)
	}
	if err != nil {
		if b.metrics != nil {
			b.metrics.ErrorsTotal.Inc()
		}
		l.Error().Err(err).Int64("user_id", user.UserID).Msg("Failed to forward message to admin")
		return
	}

	link := &models.RelayLink{
		UserID:     user.UserID,
		Direction:  models.DirectionToAdmin,
		AdminMsgID: int64(sent.MessageID),
		PeerMsgID:  int64(msg.MessageID),
	}
	if err := b.repo.CreateRelayLink(ctx, link); err != nil {
		l.Error().Err(err).Int64("user_id", user.UserID).Msg("Failed to record relay link")
		return
	}

	if b.metrics != nil {
		b.metrics.MessagesRelayed.Inc()
	}

	// Delivery ack is best-effort; the relay already happened.
	if _, err := b.tgService.SendMessage(msg.Chat.ID, "Your message was delivered to the admin ✅"); err != nil {
		l.Warn().Err(err).Int64("user_id", user.UserID).Msg("Failed to ack delivery")
	}
}
