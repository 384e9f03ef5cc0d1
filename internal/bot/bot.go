package bot

import (
	"context"
	"os"
	"time"

	"relaybot/internal/config"
	"relaybot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Bot struct {
	tgService domain.TelegramService
	config    *config.Config
	repo      domain.Repository
	sessions  domain.SessionManager
	access    domain.AccessGate
	scheduler domain.ReminderScheduler
	metrics   *Metrics
	logger    *zerolog.Logger
}

func NewBot(
	tgService domain.TelegramService,
	config *config.Config,
	repo domain.Repository,
	sessions domain.SessionManager,
	access domain.AccessGate,
	scheduler domain.ReminderScheduler,
	metrics *Metrics,
	logger *zerolog.Logger,
) (*Bot, error) {
	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	return &Bot{
		tgService: tgService,
		config:    config,
		repo:      repo,
		sessions:  sessions,
		access:    access,
		scheduler: scheduler,
		metrics:   metrics,
		logger:    logger,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		if b.metrics != nil {
			b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
		}
	}()

	updateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	requestID := uuid.New().String()
	l := b.logger.With().Str("request_id", requestID).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(func() {
		msg := update.Message
		if msg == nil || msg.From == nil {
			return
		}
		userID := msg.From.ID

		if b.access.IsAdmin(userID) {
			b.handleAdminMessage(updateCtx, msg)
			return
		}

		decision, err := b.access.Allowed(updateCtx, userID)
		if err != nil {
			l.Error().Err(err).Int64("user_id", userID).Msg("Access check failed")
			return
		}
		switch decision {
		case domain.DecisionDenySilent:
			// Banned senders get no reply at all, so a ban is
			// indistinguishable from silence.
			b.dropEvent("banned", userID)
			return
		case domain.DecisionDenyNotify:
			b.dropEvent("denied", userID)
			b.sendMessage(msg.Chat.ID, "Access denied.")
			return
		}

		allowed, err := b.sessions.CheckRateLimit(updateCtx, userID, b.config.Bot.RateLimitMessages, time.Duration(b.config.Bot.RateLimitWindow)*time.Second)
		if err != nil {
			l.Error().Err(err).Int64("user_id", userID).Msg("Rate limit check failed")
		} else if !allowed {
			b.dropEvent("rate_limited", userID)
			return
		}

		if msg.IsCommand() {
			switch msg.Command() {
			case "start", "help":
				b.sendMessage(msg.Chat.ID, userWelcome)
				return
			}
		}

		b.handleUserMessage(updateCtx, msg)
	})
}

const userWelcome = "Welcome.\n\n" +
	"Send me any message — it will be delivered to the admin.\n" +
	"Your identity is not shared; replies come via this bot."

const adminWelcome = "Admin panel ready.\n" +
	"- Reply to forwarded messages OR use keyboard: Reply <id>.\n" +
	"- Keyboard has Ban/Unban/Who/Stats and Quick Replies.\n" +
	"- Commands still available: /ban <id> [reason], /unban <id>, /who <id>, /stats"

func (b *Bot) dropEvent(reason string, userID int64) {
	if b.metrics != nil {
		b.metrics.EventsDropped.WithLabelValues(reason).Inc()
	}
	b.logger.Debug().Str("reason", reason).Int64("user_id", userID).Msg("Inbound message dropped")
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.tgService.SendMessage(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}
