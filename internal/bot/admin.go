package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"relaybot/internal/database"
	"relaybot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Admin message precedence: slash commands, then reply-to resolution, then
// the text grammar (keyboard buttons speak it too), then the sticky reply
// target, then nothing.
func (b *Bot) handleAdminMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if msg.ReplyToMessage != nil {
		b.routeAdminReply(ctx, msg)
		return
	}

	if b.handleAdminGrammar(ctx, msg) {
		return
	}

	b.routeStickyReply(ctx, msg)
}

// routeAdminReply resolves a native reply against the correlation links and
// forwards the content to the resolved user. A reply to anything that is not
// a forwarded user message resolves to nothing and is ignored.
func (b *Bot) routeAdminReply(ctx context.Context, msg *tgbotapi.Message) {
	l := zerolog.Ctx(ctx)

	userID, err := b.repo.ResolveAdminReply(ctx, int64(msg.ReplyToMessage.MessageID))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			l.Debug().Int("admin_msg_id", msg.ReplyToMessage.MessageID).Msg("Reply target not found, ignoring")
			return
		}
		l.Error().Err(err).Msg("Failed to resolve admin reply")
		return
	}

	var sent tgbotapi.Message
	if msg.Text != "" {
		sent, err = b.tgService.SendMessage(userID, msg.Text)
	} else {
		out := mediaCopy(userID, msg, msg.Caption)
		if out == nil {
			return
		}
		sent, err = b.tgService.Send(out)
	}
	if err != nil {
		l.Error().Err(err).Int64("user_id", userID).Msg("Failed to route admin reply")
		return
	}

	b.recordOutboundLink(ctx, userID, int64(msg.MessageID), int64(sent.MessageID))
}

// Text grammar, English plus Persian aliases. Ordered; first match wins.
var (
	replyPattern  = regexp.MustCompile(`^(?i)(reply|پاسخ)\s+(\d+)$`)
	banPattern    = regexp.MustCompile(`^(?i)(ban|بن)\s+(\d+)(?:\s+(.+))?$`)
	unbanPattern  = regexp.MustCompile(`^(?i)(unban|رفع\s*بن|آنبن)\s+(\d+)$`)
	whoPattern    = regexp.MustCompile(`^(?i)(who|کی|اطلاعات)\s+(\d+)$`)
	statsPattern  = regexp.MustCompile(`^(?i)(stats|آمار)$`)
	cancelPattern = regexp.MustCompile(`^(?i)(cancel|لغو)$`)
	qrPattern     = regexp.MustCompile(`^(?i)(qr:|پاسخ\s*سریع:)\s*(.+)$`)
)

func (b *Bot) handleAdminGrammar(ctx context.Context, msg *tgbotapi.Message) bool {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return false
	}
	adminID := msg.From.ID

	if m := replyPattern.FindStringSubmatch(text); m != nil {
		userID, _ := strconv.ParseInt(m[2], 10, 64)
		if err := b.sessions.SetReplyTarget(ctx, adminID, userID); err != nil {
			b.replyError(ctx, msg, err)
			return true
		}
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("Reply mode on → %d. Your next message goes to them. Cancel to stop.", userID))
		return true
	}

	if m := banPattern.FindStringSubmatch(text); m != nil {
		userID, _ := strconv.ParseInt(m[2], 10, 64)
		reason := strings.TrimSpace(m[3])
		if err := b.repo.BanUser(ctx, userID, reason); err != nil {
			b.replyError(ctx, msg, err)
			return true
		}
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("User %d banned.", userID))
		return true
	}

	if m := unbanPattern.FindStringSubmatch(text); m != nil {
		userID, _ := strconv.ParseInt(m[2], 10, 64)
		if err := b.repo.UnbanUser(ctx, userID); err != nil {
			b.replyError(ctx, msg, err)
			return true
		}
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("User %d unbanned.", userID))
		return true
	}

	if m := whoPattern.FindStringSubmatch(text); m != nil {
		userID, _ := strconv.ParseInt(m[2], 10, 64)
		b.showUserInfo(ctx, msg.Chat.ID, userID)
		return true
	}

	if statsPattern.MatchString(text) {
		b.showStats(ctx, msg.Chat.ID)
		return true
	}

	if cancelPattern.MatchString(text) {
		if err := b.sessions.ClearReplyTarget(ctx, adminID); err != nil {
			b.replyError(ctx, msg, err)
			return true
		}
		b.sendMessage(msg.Chat.ID, "Reply mode off.")
		return true
	}

	if m := qrPattern.FindStringSubmatch(text); m != nil {
		b.sendQuickReply(ctx, msg, strings.TrimSpace(m[2]))
		return true
	}

	return false
}

// sendQuickReply routes a canned reply to the sticky target. Unlike free
// text, a quick reply keeps the target armed so several can be fired in a
// row.
func (b *Bot) sendQuickReply(ctx context.Context, msg *tgbotapi.Message, payload string) {
	l := zerolog.Ctx(ctx)

	target, err := b.sessions.ReplyTarget(ctx, msg.From.ID)
	if err != nil {
		b.replyError(ctx, msg, err)
		return
	}
	if target == 0 {
		b.sendMessage(msg.Chat.ID, "Pick a target first: Reply <id>.")
		return
	}

	sent, err := b.tgService.SendMessage(target, payload)
	if err != nil {
		l.Error().Err(err).Int64("user_id", target).Msg("Failed to send quick reply")
		return
	}

	b.recordOutboundLink(ctx, target, int64(msg.MessageID), int64(sent.MessageID))
	b.sendMessage(msg.Chat.ID, "Sent ✅")
}

// routeStickyReply forwards free admin text to the armed target, then clears
// it: the sticky target is good for exactly one message.
func (b *Bot) routeStickyReply(ctx context.Context, msg *tgbotapi.Message) {
	l := zerolog.Ctx(ctx)

	target, err := b.sessions.ReplyTarget(ctx, msg.From.ID)
	if err != nil || target == 0 {
		return
	}
	if msg.Text == "" {
		return
	}

	sent, err := b.tgService.SendMessage(target, msg.Text)
	if err != nil {
		l.Error().Err(err).Int64("user_id", target).Msg("Failed to route sticky reply")
		return
	}

	b.recordOutboundLink(ctx, target, int64(msg.MessageID), int64(sent.MessageID))
	b.sendMessage(msg.Chat.ID, "Sent ✅")

	if err := b.sessions.ClearReplyTarget(ctx, msg.From.ID); err != nil {
		l.Error().Err(err).Int64("admin_id", msg.From.ID).Msg("Failed to clear reply target")
	}
}

func (b *Bot) recordOutboundLink(ctx context.Context, userID, adminMsgID, peerMsgID int64) {
	link := &models.RelayLink{
		UserID:     userID,
		Direction:  models.DirectionToUser,
		AdminMsgID: adminMsgID,
		PeerMsgID:  peerMsgID,
	}
	if err := b.repo.CreateRelayLink(ctx, link); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", userID).Msg("Failed to record relay link")
		return
	}
	if b.metrics != nil {
		b.metrics.RepliesRouted.Inc()
	}
}

func (b *Bot) showUserInfo(ctx context.Context, chatID, userID int64) {
	user, err := b.repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			b.sendMessage(chatID, "Unknown user.")
			return
		}
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	banned, err := b.repo.IsBanned(ctx, userID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	info := fmt.Sprintf("ID: %d\nName: %s\nUsername: @%s\nLang: %s\nBanned: %t",
		user.UserID, user.DisplayName(), user.Username, user.LanguageCode, banned)
	b.sendMessage(chatID, info)
}

func (b *Bot) showStats(ctx context.Context, chatID int64) {
	stats, err := b.repo.GetStats(ctx)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.sendMessage(chatID, fmt.Sprintf("Users: %d\nBanned: %d\nMessages: %d", stats.Users, stats.Banned, stats.Messages))
}

func (b *Bot) replyError(ctx context.Context, msg *tgbotapi.Message, err error) {
	zerolog.Ctx(ctx).Error().Err(err).Msg("Admin command failed")
	b.sendMessage(msg.Chat.ID, b.getErrorMessage(err))
}
