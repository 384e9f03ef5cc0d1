package models

import "time"

const (
	FileKindDocument = "document"
	FileKindPhoto    = "photo"
	FileKindAudio    = "audio"
	FileKindVideo    = "video"
	FileKindVoice    = "voice"
)

const (
	// DefaultRateLimitWindow окно между принятыми сообщениями одного
	// пользователя, секунды
	DefaultRateLimitWindow = 3

	// DefaultRateLimitMessages сообщений в окне
	DefaultRateLimitMessages = 1

	// DefaultSessionTTL время жизни sticky-сессии админа в Redis
	DefaultSessionTTL = 24 * 60 * 60 // 24 часа в секундах

	// DefaultListLimit размер выдачи списковых команд
	DefaultListLimit = 20

	// DefaultSearchLimit результатов поиска на источник
	DefaultSearchLimit = 10

	// DefaultSendRPS глобальный лимит исходящих сообщений в секунду
	DefaultSendRPS = 25
)

// Stats is the aggregate counters shown by the stats command.
type Stats struct {
	Users    int64
	Banned   int64
	Messages int64
}

// SearchResult is one hit from the cross-table text search.
type SearchResult struct {
	Source    string
	ID        int64
	Text      string
	CreatedAt time.Time
}
