package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"relaybot/internal/models"
)

// Personal CRUD: notes, tasks, stored messages and file bookmarks. All
// reads and deletes are scoped to the owning user_id.

func (db *DB) CreateNote(ctx context.Context, userID int64, text string) (int64, error) {
	result, err := db.db.ExecContext(ctx, `INSERT INTO notes (user_id, text) VALUES (?, ?)`, userID, text)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (db *DB) GetNotes(ctx context.Context, userID int64, limit int) ([]models.Note, error) {
	query := `SELECT id, user_id, text, created_at FROM notes WHERE user_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := db.db.QueryContext(ctx, query, userID, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.UserID, &note.Text, &note.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (db *DB) DeleteNote(ctx context.Context, id, userID int64) error {
	result, err := db.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (db *DB) CreateTask(ctx context.Context, userID int64, text string) (int64, error) {
	result, err := db.db.ExecContext(ctx, `INSERT INTO tasks (user_id, text) VALUES (?, ?)`, userID, text)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (db *DB) GetTasks(ctx context.Context, userID int64, limit int) ([]models.Task, error) {
	query := `
        SELECT id, user_id, text, done, created_at, COALESCE(done_at, created_at)
        FROM tasks WHERE user_id = ? ORDER BY done, id DESC LIMIT ?
    `

	rows, err := db.db.QueryContext(ctx, query, userID, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.UserID, &task.Text, &task.Done, &task.CreatedAt, &task.DoneAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (db *DB) CompleteTask(ctx context.Context, id, userID int64) error {
	query := `UPDATE tasks SET done = 1, done_at = ? WHERE id = ? AND user_id = ?`
	result, err := db.db.ExecContext(ctx, query, time.Now(), id, userID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (db *DB) DeleteTask(ctx context.Context, id, userID int64) error {
	result, err := db.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// SaveMessage stores an inbound text body for later search.
func (db *DB) SaveMessage(ctx context.Context, userID int64, text string) (int64, error) {
	result, err := db.db.ExecContext(ctx, `INSERT INTO messages (user_id, text) VALUES (?, ?)`, userID, text)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (db *DB) GetMessagesByUser(ctx context.Context, userID int64, limit int) ([]models.StoredMessage, error) {
	query := `SELECT id, user_id, text, created_at FROM messages WHERE user_id = ? ORDER BY id DESC LIMIT ?`
	return db.queryMessages(ctx, query, userID, normalizeLimit(limit))
}

// GetAllMessages returns the whole inbound archive, oldest first. Feeds the
// xlsx export.
func (db *DB) GetAllMessages(ctx context.Context) ([]models.StoredMessage, error) {
	query := `SELECT id, user_id, text, created_at FROM messages ORDER BY id`
	return db.queryMessages(ctx, query)
}

func (db *DB) queryMessages(ctx context.Context, query string, args ...interface{}) ([]models.StoredMessage, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.StoredMessage
	for rows.Next() {
		var msg models.StoredMessage
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Text, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (db *DB) SaveFileRef(ctx context.Context, ref *models.FileRef) error {
	query := `INSERT INTO files (user_id, file_id, unique_id, kind, caption) VALUES (?, ?, ?, ?, ?)`

	result, err := db.db.ExecContext(ctx, query, ref.UserID, ref.FileID, ref.UniqueID, ref.Kind, ref.Caption)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	ref.ID = id
	return nil
}

func (db *DB) GetFileRefs(ctx context.Context, userID int64, limit int) ([]models.FileRef, error) {
	query := `
        SELECT id, user_id, file_id, COALESCE(unique_id, ''), COALESCE(kind, ''), COALESCE(caption, ''), created_at
        FROM files WHERE user_id = ? ORDER BY id DESC LIMIT ?
    `

	rows, err := db.db.QueryContext(ctx, query, userID, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []models.FileRef
	for rows.Next() {
		var ref models.FileRef
		if err := rows.Scan(&ref.ID, &ref.UserID, &ref.FileID, &ref.UniqueID, &ref.Kind, &ref.Caption, &ref.CreatedAt); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (db *DB) GetFileRef(ctx context.Context, id, userID int64) (*models.FileRef, error) {
	query := `
        SELECT id, user_id, file_id, COALESCE(unique_id, ''), COALESCE(kind, ''), COALESCE(caption, ''), created_at
        FROM files WHERE id = ? AND user_id = ?
    `

	var ref models.FileRef
	err := db.db.QueryRowContext(ctx, query, id, userID).Scan(
		&ref.ID, &ref.UserID, &ref.FileID, &ref.UniqueID, &ref.Kind, &ref.Caption, &ref.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// Search runs a substring match over the caller's notes, tasks and stored
// messages, up to limit hits per source.
func (db *DB) Search(ctx context.Context, userID int64, query string, limit int) ([]models.SearchResult, error) {
	like := "%" + query + "%"

	sources := []struct {
		name string
		sql  string
	}{
		{"note", `SELECT id, text, created_at FROM notes WHERE user_id = ? AND text LIKE ? ORDER BY id DESC LIMIT ?`},
		{"task", `SELECT id, text, created_at FROM tasks WHERE user_id = ? AND text LIKE ? ORDER BY id DESC LIMIT ?`},
		{"msg", `SELECT id, text, created_at FROM messages WHERE user_id = ? AND text LIKE ? ORDER BY id DESC LIMIT ?`},
	}

	var results []models.SearchResult
	for _, src := range sources {
		rows, err := db.db.QueryContext(ctx, src.sql, userID, like, limit)
		if err != nil {
			return nil, err
		}

		for rows.Next() {
			r := models.SearchResult{Source: src.name}
			if err := rows.Scan(&r.ID, &r.Text, &r.CreatedAt); err != nil {
				rows.Close()
				return nil, err
			}
			results = append(results, r)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	return results, nil
}

// normalizeLimit maps "no limit" to SQLite's unbounded LIMIT -1.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
