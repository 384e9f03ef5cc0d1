package repository

import (
	"context"
	"sync"
	"time"
)

// MemorySessionRepository is the in-process fallback for sticky reply
// targets and rate-limit windows. Size is O(distinct senders), which is
// acceptable for a single-admin bot.
type MemorySessionRepository struct {
	targets    sync.Map
	rateLimits sync.Map
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{}
}

func (r *MemorySessionRepository) GetReplyTarget(ctx context.Context, adminID int64) (int64, error) {
	val, ok := r.targets.Load(adminID)
	if !ok {
		return 0, nil
	}
	return val.(int64), nil
}

func (r *MemorySessionRepository) SetReplyTarget(ctx context.Context, adminID, userID int64) error {
	r.targets.Store(adminID, userID)
	return nil
}

func (r *MemorySessionRepository) ClearReplyTarget(ctx context.Context, adminID int64) error {
	r.targets.Delete(adminID)
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemorySessionRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, ok := r.rateLimits.Load(userID)

	var entry *rateLimitEntry
	if !ok {
		entry = &rateLimitEntry{
			count:     1,
			expiresAt: now.Add(window),
		}
	} else {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) || now.Equal(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	r.rateLimits.Store(userID, entry)
	return entry.count <= limit, nil
}
