package domain

// LeaderboardEntry is a user's position in a ranking
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	WalletAddress string `json:"wallet_address"`
	Username      string `json:"username"`
	Level         int    `json:"level,omitempty"`
	XP            int    `json:"xp,omitempty"`
	TotalDamage   int    `json:"total_damage,omitempty"`
}

// Leaderboard orderings
const (
	LeaderboardByLevel  = "level"
	LeaderboardByDamage = "damage"
)
