package repository

import (
	"context"
	"sync/atomic"
	"time"

	"relaybot/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverSessionRepository prefers the redis-backed repository and falls
// back to the in-memory one when redis errors, retrying the primary after
// a minute. Session state is ephemeral anyway, so losing it on failover is
// acceptable.
type FailoverSessionRepository struct {
	primary   domain.SessionRepository
	fallback  domain.SessionRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverSessionRepository(primary, fallback domain.SessionRepository, logger *zerolog.Logger) *FailoverSessionRepository {
	return &FailoverSessionRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverSessionRepository) primaryUsable() bool {
	if !r.isDown.Load() {
		return true
	}
	// Retry the primary after a cooldown
	last := time.Unix(r.lastCheck.Load(), 0)
	if time.Since(last) > time.Minute {
		r.isDown.Store(false)
		return true
	}
	return false
}

func (r *FailoverSessionRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary session repository failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().Unix())
}

func (r *FailoverSessionRepository) GetReplyTarget(ctx context.Context, adminID int64) (int64, error) {
	if r.primaryUsable() {
		target, err := r.primary.GetReplyTarget(ctx, adminID)
		if err == nil {
			return target, nil
		}
		r.markDown(err)
	}
	return r.fallback.GetReplyTarget(ctx, adminID)
}

func (r *FailoverSessionRepository) SetReplyTarget(ctx context.Context, adminID, userID int64) error {
	if r.primaryUsable() {
		err := r.primary.SetReplyTarget(ctx, adminID, userID)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.SetReplyTarget(ctx, adminID, userID)
}

func (r *FailoverSessionRepository) ClearReplyTarget(ctx context.Context, adminID int64) error {
	if r.primaryUsable() {
		err := r.primary.ClearReplyTarget(ctx, adminID)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.ClearReplyTarget(ctx, adminID)
}

func (r *FailoverSessionRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if r.primaryUsable() {
		allowed, err := r.primary.CheckRateLimit(ctx, userID, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.markDown(err)
	}
	return r.fallback.CheckRateLimit(ctx, userID, limit, window)
}
