package domain

import "time"

// Boss is the singleton shared enemy entity. At most one boss is active at
// a time, enforced by a partial unique index.
type Boss struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	MaxHealth     int            `json:"max_health"`
	CurrentHealth int            `json:"current_health"`
	Damage        int            `json:"damage"`
	Defense       int            `json:"defense"`
	Attributes    map[string]int `json:"attributes"`
	RewardXP      int            `json:"reward_xp"`
	RewardGold    int            `json:"reward_gold"`
	MinLevel      int            `json:"min_level"`
	Active        bool           `json:"active"`
	Defeated      bool           `json:"defeated"`
	DefeatedAt    *time.Time     `json:"defeated_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// BossDamageRecord is the append-only ledger of one attack's outcome
type BossDamageRecord struct {
	ID            string    `json:"id"`
	WalletAddress string    `json:"wallet_address"`
	BossID        string    `json:"boss_id"`
	Damage        int       `json:"damage"`
	XPAwarded     int       `json:"xp_awarded"`
	GoldAwarded   int       `json:"gold_awarded"`
	Narrative     string    `json:"narrative"`
	Critical      bool      `json:"critical"`
	CreatedAt     time.Time `json:"created_at"`
}

// Fixed costs charged per boss attack. Both are debited before damage
// resolution; the attempt itself is the chargeable event.
const (
	BossAttackEnergyCost = 10
	BossAttackGoldCost   = 100
)
