package models

import "time"

const (
	ReminderActive    = "active"
	ReminderSent      = "sent"
	ReminderCancelled = "cancelled"
)

// Reminder is a one-shot delayed notification. Status moves exactly once
// from active to sent or cancelled; both are terminal.
type Reminder struct {
	ID        int64
	UserID    int64
	ChatID    int64
	Text      string
	DueAt     time.Time
	Status    string
	CreatedAt time.Time
}
