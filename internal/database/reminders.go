package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"relaybot/internal/models"
)

// CreateReminder persists a reminder in the active state and fills in its id.
func (db *DB) CreateReminder(ctx context.Context, reminder *models.Reminder) error {
	query := `
        INSERT INTO reminders (user_id, chat_id, text, due_at, status)
        VALUES (?, ?, ?, ?, ?)
    `

	result, err := db.db.ExecContext(ctx, query,
		reminder.UserID,
		reminder.ChatID,
		reminder.Text,
		reminder.DueAt.Unix(),
		models.ReminderActive,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	reminder.ID = id
	reminder.Status = models.ReminderActive
	return nil
}

// MarkReminderSent transitions active -> sent. The WHERE status='active'
// guard is the at-most-once firing mechanism: a concurrent cancel or a
// duplicate timer invocation loses the race and gets ErrNotActive.
func (db *DB) MarkReminderSent(ctx context.Context, id int64) error {
	query := `UPDATE reminders SET status = ? WHERE id = ? AND status = ?`

	result, err := db.db.ExecContext(ctx, query, models.ReminderSent, id, models.ReminderActive)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotActive
	}
	return nil
}

// CancelReminder transitions active -> cancelled for the owning user.
// Returns ErrNotActive whether the reminder already fired, was already
// cancelled, does not exist, or belongs to someone else; the caller cannot
// act differently on those, so they are not distinguished.
func (db *DB) CancelReminder(ctx context.Context, id, userID int64) error {
	query := `UPDATE reminders SET status = ? WHERE id = ? AND user_id = ? AND status = ?`

	result, err := db.db.ExecContext(ctx, query, models.ReminderCancelled, id, userID, models.ReminderActive)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotActive
	}
	return nil
}

// GetReminder returns a reminder by id or ErrNotFound.
func (db *DB) GetReminder(ctx context.Context, id int64) (*models.Reminder, error) {
	query := `
        SELECT id, user_id, chat_id, text, due_at, status, created_at
        FROM reminders WHERE id = ?
    `

	reminder, err := scanReminder(db.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

// GetActiveReminders returns every active reminder, overdue ones included.
// Used by the scheduler to rebuild timers after a restart.
func (db *DB) GetActiveReminders(ctx context.Context) ([]models.Reminder, error) {
	query := `
        SELECT id, user_id, chat_id, text, due_at, status, created_at
        FROM reminders WHERE status = ? ORDER BY due_at ASC
    `

	return db.queryReminders(ctx, query, models.ReminderActive)
}

// GetActiveRemindersByUser returns a user's pending reminders ordered by
// due time.
func (db *DB) GetActiveRemindersByUser(ctx context.Context, userID int64) ([]models.Reminder, error) {
	query := `
        SELECT id, user_id, chat_id, text, due_at, status, created_at
        FROM reminders WHERE status = ? AND user_id = ? ORDER BY due_at ASC
    `

	return db.queryReminders(ctx, query, models.ReminderActive, userID)
}

func (db *DB) queryReminders(ctx context.Context, query string, args ...interface{}) ([]models.Reminder, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, *reminder)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return reminders, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReminder(row rowScanner) (*models.Reminder, error) {
	var reminder models.Reminder
	var dueUnix int64
	err := row.Scan(
		&reminder.ID,
		&reminder.UserID,
		&reminder.ChatID,
		&reminder.Text,
		&dueUnix,
		&reminder.Status,
		&reminder.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	reminder.DueAt = time.Unix(dueUnix, 0)
	return &reminder, nil
}
