package database

import (
	"context"
	"database/sql"
	"errors"

	"relaybot/internal/models"
)

// CreateRelayLink records a forwarded message correlation. Links are
// immutable; history is kept and resolution picks the newest.
func (db *DB) CreateRelayLink(ctx context.Context, link *models.RelayLink) error {
	query := `
        INSERT INTO relay_links (user_id, direction, admin_msg_id, peer_msg_id)
        VALUES (?, ?, ?, ?)
    `

	result, err := db.db.ExecContext(ctx, query,
		link.UserID,
		link.Direction,
		link.AdminMsgID,
		link.PeerMsgID,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	link.ID = id
	return nil
}

// ResolveAdminReply maps the admin-chat message id being replied to back to
// the originating user. The external message id space can collide over
// time, so the newest to_admin link wins. Returns ErrNotFound when the
// reply targets a message that was never relayed.
func (db *DB) ResolveAdminReply(ctx context.Context, adminMsgID int64) (int64, error) {
	query := `
        SELECT user_id FROM relay_links
        WHERE direction = ? AND admin_msg_id = ?
        ORDER BY id DESC LIMIT 1
    `

	var userID int64
	err := db.db.QueryRowContext(ctx, query, models.DirectionToAdmin, adminMsgID).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	return userID, nil
}

// GetRelayLinksByUser returns the relay history for a user, newest first.
func (db *DB) GetRelayLinksByUser(ctx context.Context, userID int64, limit int) ([]models.RelayLink, error) {
	query := `
        SELECT id, user_id, direction, COALESCE(admin_msg_id, 0), COALESCE(peer_msg_id, 0), created_at
        FROM relay_links WHERE user_id = ?
        ORDER BY id DESC LIMIT ?
    `

	rows, err := db.db.QueryContext(ctx, query, userID, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.RelayLink
	for rows.Next() {
		var link models.RelayLink
		err := rows.Scan(
			&link.ID,
			&link.UserID,
			&link.Direction,
			&link.AdminMsgID,
			&link.PeerMsgID,
			&link.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return links, nil
}
