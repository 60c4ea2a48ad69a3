// Package character owns the one-to-one RPG stats record behind each wallet.
package character

import (
	"context"
	"fmt"
	"strings"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/event"
	"github.com/healthquest/healthquest/internal/logger"
	"github.com/healthquest/healthquest/internal/repository"
)

// DefaultClass is assigned when a mint request does not name one
const DefaultClass = "champion"

// Service manages character stats records
type Service interface {
	// GetStats returns the character with effective energy applied.
	GetStats(ctx context.Context, wallet string) (*domain.CharacterStats, error)
	// Mint creates the character record; at most one per wallet.
	Mint(ctx context.Context, wallet, name, class string) (*domain.CharacterStats, error)
	// AllocateStatPoints spends unspent points on named stats.
	AllocateStatPoints(ctx context.Context, wallet string, allocation map[string]int) (*domain.CharacterStats, error)
	// AdjustEnergy applies a delta clamped to [0, 100] and returns the result.
	AdjustEnergy(ctx context.Context, wallet string, delta int) (int, error)
}

type service struct {
	repo repository.Character
	bus  event.Bus
}

// NewService creates the character service
func NewService(repo repository.Character, bus event.Bus) Service {
	return &service{repo: repo, bus: bus}
}

func (s *service) GetStats(ctx context.Context, wallet string) (*domain.CharacterStats, error) {
	return s.repo.Get(ctx, wallet)
}

func (s *service) Mint(ctx context.Context, wallet, name, class string) (*domain.CharacterStats, error) {
	log := logger.FromContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: character name required", domain.ErrInvalidInput)
	}
	class = strings.ToLower(strings.TrimSpace(class))
	if class == "" {
		class = DefaultClass
	}

	stats := domain.NewCharacterStats(wallet, name, class)
	if err := s.repo.Create(ctx, stats); err != nil {
		return nil, err
	}

	log.Info("Character minted", "wallet", wallet, "name", name, "class", class)
	if err := s.bus.Publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.Type(domain.EventTypeCharacterMinted),
		Payload: map[string]interface{}{"wallet_address": wallet, "name": name, "class": class},
	}); err != nil {
		log.Warn("Failed to publish character minted event", "error", err)
	}

	return s.repo.Get(ctx, wallet)
}

func (s *service) AllocateStatPoints(ctx context.Context, wallet string, allocation map[string]int) (*domain.CharacterStats, error) {
	if len(allocation) == 0 {
		return nil, fmt.Errorf("%w: empty allocation", domain.ErrInvalidInput)
	}

	total := 0
	for stat, amount := range allocation {
		if !domain.ValidStats[stat] {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidStat, stat)
		}
		if amount <= 0 {
			return nil, fmt.Errorf("%w: allocation for %s must be positive", domain.ErrInvalidInput, stat)
		}
		total += amount
	}

	stats, err := s.repo.AllocateStatPoints(ctx, wallet, allocation, total)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Stat points allocated",
		"wallet", wallet,
		"spent", total,
		"remaining", stats.StatPoints)
	return stats, nil
}

func (s *service) AdjustEnergy(ctx context.Context, wallet string, delta int) (int, error) {
	return s.repo.AdjustEnergy(ctx, wallet, delta)
}
