// Package leaderboard serves the competitive rankings.
package leaderboard

import (
	"context"
	"fmt"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/repository"
)

const (
	// DefaultLimit is used when the caller passes a non-positive limit.
	DefaultLimit = 10
	// MaxLimit caps how many entries one request can fetch.
	MaxLimit = 100
)

// Service serves ranked standings
type Service interface {
	// Top returns the leaderboard for the given ordering
	// (domain.LeaderboardByLevel or domain.LeaderboardByDamage).
	Top(ctx context.Context, ordering string, limit int) ([]domain.LeaderboardEntry, error)
}

type service struct {
	repo repository.Leaderboard
}

// NewService creates the leaderboard service
func NewService(repo repository.Leaderboard) Service {
	return &service{repo: repo}
}

func (s *service) Top(ctx context.Context, ordering string, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	switch ordering {
	case domain.LeaderboardByLevel:
		return s.repo.TopByLevel(ctx, limit)
	case domain.LeaderboardByDamage:
		return s.repo.TopByDamage(ctx, limit)
	default:
		return nil, fmt.Errorf("%w: unknown leaderboard ordering %q", domain.ErrInvalidInput, ordering)
	}
}
