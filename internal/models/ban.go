package models

import "time"

// Ban is at most one record per user. An unban keeps the record and flips
// Active off; the reason from the most recent ban action is retained.
type Ban struct {
	UserID    int64
	Reason    string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
