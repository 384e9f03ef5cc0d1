package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"relaybot/internal/models"
)

// UpsertUser inserts the user or refreshes the mutable profile fields and
// the last_seen timestamp. Single statement; safe under the serialized
// per-user event stream.
func (db *DB) UpsertUser(ctx context.Context, user *models.User) error {
	query := `
        INSERT INTO users (user_id, first_name, last_name, username, language_code, is_bot, last_seen)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(user_id) DO UPDATE SET
            first_name = excluded.first_name,
            last_name = excluded.last_name,
            username = excluded.username,
            language_code = excluded.language_code,
            is_bot = excluded.is_bot,
            last_seen = excluded.last_seen
    `

	_, err := db.db.ExecContext(ctx, query,
		user.UserID,
		user.FirstName,
		user.LastName,
		user.Username,
		user.LanguageCode,
		user.IsBot,
		time.Now(),
	)

	return err
}

// GetUser returns the stored profile or ErrNotFound.
func (db *DB) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	query := `
        SELECT user_id, first_name, last_name, username, language_code, is_bot, last_seen
        FROM users WHERE user_id = ?
    `

	var user models.User
	err := db.db.QueryRowContext(ctx, query, userID).Scan(
		&user.UserID,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.LanguageCode,
		&user.IsBot,
		&user.LastSeen,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetStats returns the aggregate counters for the stats command.
func (db *DB) GetStats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats

	if err := db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.Users); err != nil {
		return nil, err
	}
	if err := db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bans WHERE active = 1`).Scan(&stats.Banned); err != nil {
		return nil, err
	}
	if err := db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&stats.Messages); err != nil {
		return nil, err
	}

	return &stats, nil
}
