package models

import "time"

const (
	DirectionToAdmin = "to_admin"
	DirectionToUser  = "to_user"
)

// RelayLink correlates a forwarded copy of a message with the user it came
// from (or was sent to). Immutable once written. For to_admin links
// AdminMsgID is the join key used to resolve a later admin reply back to the
// user; resolution picks the highest id on collisions.
type RelayLink struct {
	ID         int64
	UserID     int64
	Direction  string
	AdminMsgID int64
	PeerMsgID  int64
	CreatedAt  time.Time
}
