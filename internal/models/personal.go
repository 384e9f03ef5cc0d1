package models

import "time"

// Note is a free-text admin note.
type Note struct {
	ID        int64
	UserID    int64
	Text      string
	CreatedAt time.Time
}

// Task is a to-do item with a done flag.
type Task struct {
	ID        int64
	UserID    int64
	Text      string
	Done      bool
	CreatedAt time.Time
	DoneAt    time.Time
}

// StoredMessage is the text body of an inbound message, kept for search.
type StoredMessage struct {
	ID        int64
	UserID    int64
	Text      string
	CreatedAt time.Time
}

// FileRef is a bookmark for a media attachment seen by the bot. FileID is
// the transport-side identifier used to resend the file later.
type FileRef struct {
	ID        int64
	UserID    int64
	FileID    string
	UniqueID  string
	Kind      string
	Caption   string
	CreatedAt time.Time
}
