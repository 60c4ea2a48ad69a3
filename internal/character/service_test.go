package character

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/event"
	"github.com/healthquest/healthquest/internal/repository"
	"github.com/healthquest/healthquest/internal/utils"
)

// fakeCharacterRepo is a stateful in-memory repository.Character
type fakeCharacterRepo struct {
	chars map[string]*domain.CharacterStats
}

func newFakeCharacterRepo() *fakeCharacterRepo {
	return &fakeCharacterRepo{chars: make(map[string]*domain.CharacterStats)}
}

// Create stores the record as given, rejecting values the character_stats
// CHECK constraints would reject. Defaults are the caller's job, as with the
// real table where the INSERT writes every column explicitly.
func (f *fakeCharacterRepo) Create(ctx context.Context, stats *domain.CharacterStats) error {
	if _, ok := f.chars[stats.WalletAddress]; ok {
		return domain.ErrCharacterExists
	}
	if stats.Level < 1 {
		return fmt.Errorf("violates check constraint character_stats_level_check (level=%d)", stats.Level)
	}
	if stats.XPToNext <= 0 {
		return fmt.Errorf("violates check constraint character_stats_xp_to_next_check (xp_to_next=%d)", stats.XPToNext)
	}
	if stats.Energy < domain.MinEnergy || stats.Energy > domain.MaxEnergy {
		return fmt.Errorf("violates check constraint character_stats_energy_check (energy=%d)", stats.Energy)
	}
	stored := *stats
	f.chars[stats.WalletAddress] = &stored
	return nil
}

func (f *fakeCharacterRepo) Get(ctx context.Context, wallet string) (*domain.CharacterStats, error) {
	stats, ok := f.chars[wallet]
	if !ok {
		return nil, domain.ErrCharacterNotFound
	}
	copied := *stats
	return &copied, nil
}

func (f *fakeCharacterRepo) AllocateStatPoints(ctx context.Context, wallet string, alloc map[string]int, total int) (*domain.CharacterStats, error) {
	stats, ok := f.chars[wallet]
	if !ok {
		return nil, domain.ErrCharacterNotFound
	}
	if stats.StatPoints < total {
		return nil, domain.ErrInsufficientPoints
	}
	stats.StatPoints -= total
	for name, delta := range alloc {
		stats.Stats.Add(name, delta)
	}
	copied := *stats
	return &copied, nil
}

func (f *fakeCharacterRepo) AdjustEnergy(ctx context.Context, wallet string, delta int) (int, error) {
	stats, ok := f.chars[wallet]
	if !ok {
		return 0, domain.ErrCharacterNotFound
	}
	stats.Energy = utils.Clamp(stats.Energy+delta, domain.MinEnergy, domain.MaxEnergy)
	return stats.Energy, nil
}

func (f *fakeCharacterRepo) BeginTx(ctx context.Context) (repository.CharacterTx, error) {
	panic("not used in these tests")
}

func newTestService(repo *fakeCharacterRepo) Service {
	return NewService(repo, event.NewMemoryBus())
}

func TestMint(t *testing.T) {
	repo := newFakeCharacterRepo()
	svc := newTestService(repo)

	stats, err := svc.Mint(context.Background(), "0xabc", "Alice", "")
	require.NoError(t, err)

	assert.Equal(t, "Alice", stats.Name)
	assert.Equal(t, DefaultClass, stats.Class)
	assert.Equal(t, domain.BaseLevel, stats.Level)
	assert.Equal(t, domain.BaseXPToNext, stats.XPToNext)
	assert.Equal(t, domain.MaxEnergy, stats.Energy)
	assert.Equal(t, domain.BaseStatValue, stats.Stats.Strength)
	assert.Equal(t, domain.BaseStatValue, stats.Stats.Luck)
}

func TestMint_Duplicate(t *testing.T) {
	repo := newFakeCharacterRepo()
	svc := newTestService(repo)

	_, err := svc.Mint(context.Background(), "0xabc", "Alice", "champion")
	require.NoError(t, err)

	_, err = svc.Mint(context.Background(), "0xabc", "Bob", "champion")
	assert.ErrorIs(t, err, domain.ErrCharacterExists)
}

func TestMint_EmptyName(t *testing.T) {
	svc := newTestService(newFakeCharacterRepo())

	_, err := svc.Mint(context.Background(), "0xabc", "  ", "champion")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAllocateStatPoints(t *testing.T) {
	repo := newFakeCharacterRepo()
	svc := newTestService(repo)

	_, err := svc.Mint(context.Background(), "0xabc", "Alice", "")
	require.NoError(t, err)
	repo.chars["0xabc"].StatPoints = 6

	tests := []struct {
		name       string
		allocation map[string]int
		wantErr    error
	}{
		{
			name:       "valid allocation",
			allocation: map[string]int{domain.StatStrength: 2, domain.StatLuck: 1},
		},
		{
			name:       "unknown stat",
			allocation: map[string]int{"charisma": 1},
			wantErr:    domain.ErrInvalidStat,
		},
		{
			name:       "negative amount",
			allocation: map[string]int{domain.StatStrength: -1},
			wantErr:    domain.ErrInvalidInput,
		},
		{
			name:       "empty allocation",
			allocation: map[string]int{},
			wantErr:    domain.ErrInvalidInput,
		},
		{
			name:       "exceeds pool",
			allocation: map[string]int{domain.StatVitality: 50},
			wantErr:    domain.ErrInsufficientPoints,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := svc.AllocateStatPoints(context.Background(), "0xabc", tt.allocation)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 7, stats.Stats.Strength)
			assert.Equal(t, 6, stats.Stats.Luck)
			assert.Equal(t, 3, stats.StatPoints)
		})
	}
}

func TestAdjustEnergy_Clamped(t *testing.T) {
	repo := newFakeCharacterRepo()
	svc := newTestService(repo)

	_, err := svc.Mint(context.Background(), "0xabc", "Alice", "")
	require.NoError(t, err)

	energy, err := svc.AdjustEnergy(context.Background(), "0xabc", -25)
	require.NoError(t, err)
	assert.Equal(t, 75, energy)

	energy, err = svc.AdjustEnergy(context.Background(), "0xabc", -200)
	require.NoError(t, err)
	assert.Equal(t, domain.MinEnergy, energy)

	energy, err = svc.AdjustEnergy(context.Background(), "0xabc", 500)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxEnergy, energy)
}

func TestGetStats_NotFound(t *testing.T) {
	svc := newTestService(newFakeCharacterRepo())

	_, err := svc.GetStats(context.Background(), "0xghost")
	assert.ErrorIs(t, err, domain.ErrCharacterNotFound)
}
