package domain

import "time"

// Stat names recognized by stat allocation and equipment bonuses
const (
	StatStrength    = "strength"
	StatEndurance   = "endurance"
	StatAgility     = "agility"
	StatVitality    = "vitality"
	StatFlexibility = "flexibility"
	StatWillpower   = "willpower"
	StatLuck        = "luck"
)

// StatNames lists every recognized stat, in display order
var StatNames = []string{
	StatStrength,
	StatEndurance,
	StatAgility,
	StatVitality,
	StatFlexibility,
	StatWillpower,
	StatLuck,
}

// ValidStats is the allow-list used for stat allocation and equipment bonuses
var ValidStats = map[string]bool{
	StatStrength:    true,
	StatEndurance:   true,
	StatAgility:     true,
	StatVitality:    true,
	StatFlexibility: true,
	StatWillpower:   true,
	StatLuck:        true,
}

// Energy bounds. Energy is a per-user capped resource consumed by quest
// generation and boss attacks, replenished to MaxEnergy once per UTC day.
const (
	MinEnergy = 0
	MaxEnergy = 100
)

// Launch values for a freshly minted character. These mirror the column
// defaults and CHECK constraints on character_stats, which require level >= 1
// and xp_to_next > 0.
const (
	BaseLevel     = 1
	BaseXPToNext  = 100
	BaseStatValue = 5
)

// CharacterStats is the one-to-one RPG stats record for a user
type CharacterStats struct {
	WalletAddress string    `json:"wallet_address"`
	Name          string    `json:"name"`
	Class         string    `json:"class"`
	Level         int       `json:"level"`
	XP            int       `json:"xp"`
	XPToNext      int       `json:"xp_to_next"`
	StatPoints    int       `json:"stat_points"`
	Energy        int       `json:"energy"`
	EnergyReset   time.Time `json:"energy_last_reset"`
	Stats         StatBlock `json:"stats"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewCharacterStats returns a fresh stats record carrying the launch values
func NewCharacterStats(wallet, name, class string) *CharacterStats {
	return &CharacterStats{
		WalletAddress: wallet,
		Name:          name,
		Class:         class,
		Level:         BaseLevel,
		XPToNext:      BaseXPToNext,
		Energy:        MaxEnergy,
		Stats: StatBlock{
			Strength:    BaseStatValue,
			Endurance:   BaseStatValue,
			Agility:     BaseStatValue,
			Vitality:    BaseStatValue,
			Flexibility: BaseStatValue,
			Willpower:   BaseStatValue,
			Luck:        BaseStatValue,
		},
	}
}

// StatBlock holds the seven named attributes
type StatBlock struct {
	Strength    int `json:"strength"`
	Endurance   int `json:"endurance"`
	Agility     int `json:"agility"`
	Vitality    int `json:"vitality"`
	Flexibility int `json:"flexibility"`
	Willpower   int `json:"willpower"`
	Luck        int `json:"luck"`
}

// Get returns the value for a named stat, false if the name is unknown
func (b StatBlock) Get(name string) (int, bool) {
	switch name {
	case StatStrength:
		return b.Strength, true
	case StatEndurance:
		return b.Endurance, true
	case StatAgility:
		return b.Agility, true
	case StatVitality:
		return b.Vitality, true
	case StatFlexibility:
		return b.Flexibility, true
	case StatWillpower:
		return b.Willpower, true
	case StatLuck:
		return b.Luck, true
	}
	return 0, false
}

// Add applies a delta to a named stat. Unknown names are ignored; callers
// validate against ValidStats first.
func (b *StatBlock) Add(name string, delta int) {
	switch name {
	case StatStrength:
		b.Strength += delta
	case StatEndurance:
		b.Endurance += delta
	case StatAgility:
		b.Agility += delta
	case StatVitality:
		b.Vitality += delta
	case StatFlexibility:
		b.Flexibility += delta
	case StatWillpower:
		b.Willpower += delta
	case StatLuck:
		b.Luck += delta
	}
}
