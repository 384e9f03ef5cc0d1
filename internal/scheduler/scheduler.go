package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"relaybot/internal/database"
	"relaybot/internal/domain"
	"relaybot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Notifier delivers a fired reminder. Satisfied by the telegram service.
type Notifier interface {
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
}

// Scheduler is the durable one-shot timer registry for reminders. Timers
// are in-memory; durability comes from the reminders table plus Rehydrate
// at startup. Correctness under concurrent cancel/fire does not depend on
// timer exactness: every transition is a conditional update in the store,
// and the loser of a race simply does nothing. Stopping a timer on cancel
// is only an optimization to avoid a wasted wakeup.
type Scheduler struct {
	repo     domain.Repository
	notifier Notifier
	logger   *zerolog.Logger

	mu     sync.Mutex
	timers map[int64]*time.Timer
}

func New(repo domain.Repository, notifier Notifier, logger *zerolog.Logger) *Scheduler {
	return &Scheduler{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		timers:   make(map[int64]*time.Timer),
	}
}

// Schedule validates, persists and arms a reminder. DueAt must be strictly
// in the future.
func (s *Scheduler) Schedule(ctx context.Context, userID, chatID int64, text string, dueAt time.Time) (int64, error) {
	if !dueAt.After(time.Now()) {
		return 0, database.ErrPastDue
	}

	reminder := &models.Reminder{
		UserID: userID,
		ChatID: chatID,
		Text:   text,
		DueAt:  dueAt,
	}
	if err := s.repo.CreateReminder(ctx, reminder); err != nil {
		return 0, fmt.Errorf("create reminder: %w", err)
	}

	s.arm(*reminder)
	return reminder.ID, nil
}

// Cancel transitions the reminder to cancelled if it is still active and
// owned by userID. The store decides the race against a concurrent fire;
// the timer is then stopped best-effort.
func (s *Scheduler) Cancel(ctx context.Context, id, userID int64) error {
	if err := s.repo.CancelReminder(ctx, id, userID); err != nil {
		return err
	}

	s.mu.Lock()
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	return nil
}

// Rehydrate rebuilds timers for every active reminder. Must run once at
// startup before new schedule requests. Overdue reminders fire immediately
// rather than being dropped.
func (s *Scheduler) Rehydrate(ctx context.Context) error {
	reminders, err := s.repo.GetActiveReminders(ctx)
	if err != nil {
		return fmt.Errorf("load active reminders: %w", err)
	}

	for _, reminder := range reminders {
		s.arm(reminder)
	}

	s.logger.Info().Int("count", len(reminders)).Msg("reminders rehydrated")
	return nil
}

// Stop cancels all pending timers. Pending reminders stay active in the
// store and come back on the next Rehydrate.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) arm(reminder models.Reminder) {
	delay := time.Until(reminder.DueAt)
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers[reminder.ID] = time.AfterFunc(delay, func() {
		s.fire(reminder)
	})
}

// fire delivers a due reminder at most once. The conditional active->sent
// transition in the store is the idempotency mechanism; a duplicate timer
// invocation or a lost race against cancel ends here. A failed delivery
// does not roll the transition back: delivery is at-most-once, no retry.
func (s *Scheduler) fire(reminder models.Reminder) {
	s.mu.Lock()
	delete(s.timers, reminder.ID)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.repo.MarkReminderSent(ctx, reminder.ID); err != nil {
		if errors.Is(err, database.ErrNotActive) {
			s.logger.Debug().Int64("reminder_id", reminder.ID).Msg("reminder already resolved, skipping")
			return
		}
		s.logger.Error().Err(err).Int64("reminder_id", reminder.ID).Msg("reminder transition failed")
		return
	}

	text := fmt.Sprintf("⏰ Reminder #%d: %s", reminder.ID, reminder.Text)
	if _, err := s.notifier.SendMessage(reminder.ChatID, text); err != nil {
		s.logger.Error().Err(err).Int64("reminder_id", reminder.ID).Int64("chat_id", reminder.ChatID).Msg("reminder delivery failed")
	}
}
