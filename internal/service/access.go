package service

import (
	"context"

	"relaybot/internal/config"
	"relaybot/internal/domain"

	"github.com/rs/zerolog"
)

// AccessService gates inbound senders. Two independent checks:
//
//   - an active ban drops the event silently, so a banned user cannot tell
//     a ban from a rate limit or a transient failure;
//   - the configured allow-list (when non-empty) denies non-members with an
//     explicit notice.
//
// The admin bypasses both.
type AccessService struct {
	repo   domain.Repository
	config *config.Config
	logger *zerolog.Logger
}

func NewAccessService(repo domain.Repository, cfg *config.Config, logger *zerolog.Logger) *AccessService {
	return &AccessService{
		repo:   repo,
		config: cfg,
		logger: logger,
	}
}

func (s *AccessService) IsAdmin(userID int64) bool {
	return userID == s.config.Bot.AdminID
}

func (s *AccessService) Allowed(ctx context.Context, userID int64) (domain.Decision, error) {
	if s.IsAdmin(userID) {
		return domain.DecisionAllow, nil
	}

	if !s.config.IsAllowed(userID) {
		return domain.DecisionDenyNotify, nil
	}

	banned, err := s.repo.IsBanned(ctx, userID)
	if err != nil {
		return domain.DecisionDenySilent, err
	}
	if banned {
		return domain.DecisionDenySilent, nil
	}

	return domain.DecisionAllow, nil
}
