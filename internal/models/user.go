package models

import "time"

// User is a Telegram account that has contacted the bot at least once.
// Identity is append-only; profile fields are refreshed on every inbound
// message.
type User struct {
	UserID       int64
	FirstName    string
	LastName     string
	Username     string
	LanguageCode string
	IsBot        bool
	LastSeen     time.Time
}

// DisplayName joins the first and last name the way Telegram shows them.
func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
