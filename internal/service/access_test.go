package service

import (
	"context"
	"errors"
	"testing"

	"relaybot/internal/config"
	"relaybot/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type banRepo struct {
	domain.Repository
	banned map[int64]bool
	err    error
}

func (r *banRepo) IsBanned(ctx context.Context, userID int64) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.banned[userID], nil
}

func newAccessService(cfg *config.Config, repo domain.Repository) *AccessService {
	logger := zerolog.Nop()
	return NewAccessService(repo, cfg, &logger)
}

func TestAccessAllowsCleanUser(t *testing.T) {
	cfg := &config.Config{Bot: config.BotConfig{AdminID: 1}}
	svc := newAccessService(cfg, &banRepo{banned: map[int64]bool{}})

	decision, err := svc.Allowed(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionAllow, decision)
}

func TestAccessDropsBannedSilently(t *testing.T) {
	cfg := &config.Config{Bot: config.BotConfig{AdminID: 1}}
	svc := newAccessService(cfg, &banRepo{banned: map[int64]bool{42: true}})

	decision, err := svc.Allowed(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionDenySilent, decision)
}

func TestAccessAdminBypassesBan(t *testing.T) {
	cfg := &config.Config{Bot: config.BotConfig{AdminID: 1}}
	svc := newAccessService(cfg, &banRepo{banned: map[int64]bool{1: true}})

	decision, err := svc.Allowed(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionAllow, decision)
	assert.True(t, svc.IsAdmin(1))
}

func TestAccessAllowListDeniesWithNotice(t *testing.T) {
	cfg := &config.Config{Bot: config.BotConfig{AdminID: 1, AllowedUserIDs: []int64{42}}}
	svc := newAccessService(cfg, &banRepo{banned: map[int64]bool{}})

	decision, err := svc.Allowed(context.Background(), 43)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionDenyNotify, decision)

	decision, err = svc.Allowed(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionAllow, decision)
}

func TestAccessStoreErrorPropagates(t *testing.T) {
	cfg := &config.Config{Bot: config.BotConfig{AdminID: 1}}
	svc := newAccessService(cfg, &banRepo{err: errors.New("db closed")})

	_, err := svc.Allowed(context.Background(), 42)
	assert.Error(t, err)
}
