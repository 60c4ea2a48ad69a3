package reward

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/healthquest/healthquest/internal/domain"
)

func freshStats() *domain.CharacterStats {
	return &domain.CharacterStats{
		Level:    1,
		XP:       0,
		XPToNext: BaseXPToNext,
	}
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name       string
		stats      *domain.CharacterStats
		xp         int
		gold       int
		bonus      int
		wantLevel  int
		wantXP     int
		wantToNext int
		wantPoints int
		wantUps    int
	}{
		{
			name:       "no level up",
			stats:      freshStats(),
			xp:         50,
			gold:       25,
			wantLevel:  1,
			wantXP:     50,
			wantToNext: 100,
			wantPoints: 0,
			wantUps:    0,
		},
		{
			name:       "exact threshold levels up with zero remainder",
			stats:      freshStats(),
			xp:         100,
			wantLevel:  2,
			wantXP:     0,
			wantToNext: 150,
			wantPoints: 3,
			wantUps:    1,
		},
		{
			name:       "overshoot carries remainder",
			stats:      freshStats(),
			xp:         120,
			wantLevel:  2,
			wantXP:     20,
			wantToNext: 150,
			wantPoints: 3,
			wantUps:    1,
		},
		{
			name:       "oversized reward grants multiple levels",
			stats:      freshStats(),
			xp:         300, // 100 + 150 consumed, 50 left at level 3
			wantLevel:  3,
			wantXP:     50,
			wantToNext: 225,
			wantPoints: 6,
			wantUps:    2,
		},
		{
			name: "partial progress accumulates",
			stats: &domain.CharacterStats{
				Level:      2,
				XP:         140,
				XPToNext:   150,
				StatPoints: 4,
			},
			xp:         10,
			wantLevel:  3,
			wantXP:     0,
			wantToNext: 225,
			wantPoints: 7,
			wantUps:    1,
		},
		{
			name:       "bonus stat points granted without level up",
			stats:      freshStats(),
			xp:         10,
			bonus:      5,
			wantLevel:  1,
			wantXP:     10,
			wantToNext: 100,
			wantPoints: 5,
			wantUps:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Settle(tt.stats, tt.xp, tt.gold, tt.bonus)

			assert.Equal(t, tt.wantLevel, out.Level)
			assert.Equal(t, tt.wantXP, out.XP)
			assert.Equal(t, tt.wantToNext, out.XPToNext)
			assert.Equal(t, tt.wantPoints, out.StatPoints)
			assert.Equal(t, tt.wantUps, out.LevelsUp)
			assert.Equal(t, tt.gold, out.GoldGained)
			assert.Equal(t, tt.wantUps > 0, out.LeveledUp())
		})
	}
}

func TestNextThreshold(t *testing.T) {
	assert.Equal(t, 150, NextThreshold(100))
	assert.Equal(t, 225, NextThreshold(150))
	assert.Equal(t, 337, NextThreshold(225))
}
