package domain

import (
	"context"
	"time"

	"relaybot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Repository interface {
	UpsertUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	GetStats(ctx context.Context) (*models.Stats, error)

	BanUser(ctx context.Context, userID int64, reason string) error
	UnbanUser(ctx context.Context, userID int64) error
	IsBanned(ctx context.Context, userID int64) (bool, error)
	GetBan(ctx context.Context, userID int64) (*models.Ban, error)

	CreateRelayLink(ctx context.Context, link *models.RelayLink) error
	ResolveAdminReply(ctx context.Context, adminMsgID int64) (int64, error)
	GetRelayLinksByUser(ctx context.Context, userID int64, limit int) ([]models.RelayLink, error)

	CreateReminder(ctx context.Context, reminder *models.Reminder) error
	MarkReminderSent(ctx context.Context, id int64) error
	CancelReminder(ctx context.Context, id, userID int64) error
	GetReminder(ctx context.Context, id int64) (*models.Reminder, error)
	GetActiveReminders(ctx context.Context) ([]models.Reminder, error)
	GetActiveRemindersByUser(ctx context.Context, userID int64) ([]models.Reminder, error)

	CreateNote(ctx context.Context, userID int64, text string) (int64, error)
	GetNotes(ctx context.Context, userID int64, limit int) ([]models.Note, error)
	DeleteNote(ctx context.Context, id, userID int64) error

	CreateTask(ctx context.Context, userID int64, text string) (int64, error)
	GetTasks(ctx context.Context, userID int64, limit int) ([]models.Task, error)
	CompleteTask(ctx context.Context, id, userID int64) error
	DeleteTask(ctx context.Context, id, userID int64) error

	SaveMessage(ctx context.Context, userID int64, text string) (int64, error)
	GetMessagesByUser(ctx context.Context, userID int64, limit int) ([]models.StoredMessage, error)
	GetAllMessages(ctx context.Context) ([]models.StoredMessage, error)

	SaveFileRef(ctx context.Context, ref *models.FileRef) error
	GetFileRefs(ctx context.Context, userID int64, limit int) ([]models.FileRef, error)
	GetFileRef(ctx context.Context, id, userID int64) (*models.FileRef, error)

	Search(ctx context.Context, userID int64, query string, limit int) ([]models.SearchResult, error)
}

// SessionRepository keeps the ephemeral per-process state: the admin's
// sticky reply target and the inbound rate-limit windows. Lost on restart
// by design.
type SessionRepository interface {
	GetReplyTarget(ctx context.Context, adminID int64) (int64, error)
	SetReplyTarget(ctx context.Context, adminID, userID int64) error
	ClearReplyTarget(ctx context.Context, adminID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

// SessionManager is the service-level view of SessionRepository.
type SessionManager interface {
	ReplyTarget(ctx context.Context, adminID int64) (int64, error)
	SetReplyTarget(ctx context.Context, adminID, userID int64) error
	ClearReplyTarget(ctx context.Context, adminID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

// AccessGate decides whether an inbound sender may reach the admin.
type AccessGate interface {
	IsAdmin(userID int64) bool
	Allowed(ctx context.Context, userID int64) (Decision, error)
}

// Decision is the gate's verdict. Denials differ in visibility: a ban is
// dropped silently, an allow-list miss is answered explicitly.
type Decision int

const (
	DecisionAllow Decision = iota
	DecisionDenySilent
	DecisionDenyNotify
)

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error)
	SendDocument(chatID int64, file tgbotapi.RequestFileData, caption string) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

// ReminderScheduler is the durable one-shot timer registry.
type ReminderScheduler interface {
	Schedule(ctx context.Context, userID, chatID int64, text string, dueAt time.Time) (int64, error)
	Cancel(ctx context.Context, id, userID int64) error
	Rehydrate(ctx context.Context) error
}
