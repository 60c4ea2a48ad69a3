// Package reward settles XP, gold, and stat point gains against a character.
// Settlement is pure math; callers persist the outcome and publish events.
package reward

import (
	"math"

	"github.com/healthquest/healthquest/internal/domain"
)

// Leveling constants
const (
	// BaseXPToNext is the XP threshold at level 1
	BaseXPToNext = 100

	// ThresholdGrowth is the multiplier applied to the threshold per level
	ThresholdGrowth = 1.5

	// StatPointsPerLevel is granted on every level gained
	StatPointsPerLevel = 3
)

// Outcome describes the result of applying a reward to a character
type Outcome struct {
	Level      int
	XP         int
	XPToNext   int
	StatPoints int
	LevelsUp   int
	GoldGained int
}

// LeveledUp reports whether the settlement crossed at least one threshold
func (o Outcome) LeveledUp() bool {
	return o.LevelsUp > 0
}

// Settle applies an XP and gold reward plus bonus stat points to the given
// character state. Thresholds are consumed in a loop so oversized rewards can
// grant several levels in one settlement.
func Settle(stats *domain.CharacterStats, xp, gold, bonusStatPoints int) Outcome {
	out := Outcome{
		Level:      stats.Level,
		XP:         stats.XP + xp,
		XPToNext:   stats.XPToNext,
		StatPoints: stats.StatPoints + bonusStatPoints,
		GoldGained: gold,
	}

	for out.XP >= out.XPToNext {
		out.XP -= out.XPToNext
		out.Level++
		out.LevelsUp++
		out.StatPoints += StatPointsPerLevel
		out.XPToNext = NextThreshold(out.XPToNext)
	}

	return out
}

// NextThreshold computes the XP requirement for the following level
func NextThreshold(current int) int {
	return int(math.Floor(float64(current) * ThresholdGrowth))
}
