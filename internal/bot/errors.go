package bot

import (
	"errors"

	"relaybot/internal/database"
)

func (b *Bot) getErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, database.ErrNotFound) {
		return "Not found or not yours."
	}

	if errors.Is(err, database.ErrNotActive) {
		return "Not found/active or not yours."
	}

	if errors.Is(err, database.ErrPastDue) {
		return "Time is in the past."
	}

	// Default error message
	return "❌ Something went wrong. Please try again later."
}
