package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"relaybot/internal/models"
)

// BanUser activates a ban, overwriting the reason. One record per user;
// repeated bans are idempotent apart from the reason refresh.
func (db *DB) BanUser(ctx context.Context, userID int64, reason string) error {
	query := `
        INSERT INTO bans (user_id, reason, active, updated_at)
        VALUES (?, ?, 1, ?)
        ON CONFLICT(user_id) DO UPDATE SET
            reason = excluded.reason,
            active = 1,
            updated_at = excluded.updated_at
    `

	_, err := db.db.ExecContext(ctx, query, userID, reason, time.Now())
	return err
}

// UnbanUser flips the ban off. The record and its last reason are kept.
// Unbanning a user that was never banned is a no-op.
func (db *DB) UnbanUser(ctx context.Context, userID int64) error {
	query := `UPDATE bans SET active = 0, updated_at = ? WHERE user_id = ?`

	_, err := db.db.ExecContext(ctx, query, time.Now(), userID)
	return err
}

// IsBanned reports whether an active ban exists for the user.
func (db *DB) IsBanned(ctx context.Context, userID int64) (bool, error) {
	var active bool
	err := db.db.QueryRowContext(ctx, `SELECT active FROM bans WHERE user_id = ?`, userID).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return active, nil
}

// GetBan returns the ban record for the user, or ErrNotFound when the user
// was never banned.
func (db *DB) GetBan(ctx context.Context, userID int64) (*models.Ban, error) {
	query := `SELECT user_id, reason, active, created_at, COALESCE(updated_at, created_at) FROM bans WHERE user_id = ?`

	var ban models.Ban
	err := db.db.QueryRowContext(ctx, query, userID).Scan(
		&ban.UserID,
		&ban.Reason,
		&ban.Active,
		&ban.CreatedAt,
		&ban.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &ban, nil
}
