package service

import (
	"context"
	"time"

	"relaybot/internal/domain"

	"github.com/rs/zerolog"
)

// SessionService fronts the session repository: the admin's sticky reply
// target and the per-sender rate-limit windows.
type SessionService struct {
	sessionRepo domain.SessionRepository
	logger      *zerolog.Logger
}

func NewSessionService(sessionRepo domain.SessionRepository, logger *zerolog.Logger) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

func (s *SessionService) ReplyTarget(ctx context.Context, adminID int64) (int64, error) {
	target, err := s.sessionRepo.GetReplyTarget(ctx, adminID)
	if err != nil {
		s.logger.Error().Err(err).Int64("admin_id", adminID).Msg("failed to get reply target")
		return 0, err
	}
	return target, nil
}

func (s *SessionService) SetReplyTarget(ctx context.Context, adminID, userID int64) error {
	return s.sessionRepo.SetReplyTarget(ctx, adminID, userID)
}

func (s *SessionService) ClearReplyTarget(ctx context.Context, adminID int64) error {
	return s.sessionRepo.ClearReplyTarget(ctx, adminID)
}

func (s *SessionService) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return s.sessionRepo.CheckRateLimit(ctx, userID, limit, window)
}
