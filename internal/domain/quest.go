package domain

import "time"

// QuestScope distinguishes personal quests from shared server quests
type QuestScope string

const (
	QuestScopePersonal QuestScope = "personal"
	QuestScopeServer   QuestScope = "server"
)

// Quest categories and difficulties. AI-generated values outside these
// allow-lists are replaced with defaults before persisting.
const (
	QuestCategoryCardio      = "cardio"
	QuestCategoryStrength    = "strength"
	QuestCategoryFlexibility = "flexibility"
	QuestCategoryEndurance   = "endurance"
	QuestCategoryBalance     = "balance"

	QuestDifficultyEasy   = "easy"
	QuestDifficultyMedium = "medium"
	QuestDifficultyHard   = "hard"
	QuestDifficultyEpic   = "epic"
)

// ValidQuestCategories is the category allow-list
var ValidQuestCategories = map[string]bool{
	QuestCategoryCardio:      true,
	QuestCategoryStrength:    true,
	QuestCategoryFlexibility: true,
	QuestCategoryEndurance:   true,
	QuestCategoryBalance:     true,
}

// ValidQuestUnits is the objective unit allow-list
var ValidQuestUnits = map[string]bool{
	"reps":     true,
	"minutes":  true,
	"seconds":  true,
	"meters":   true,
	"steps":    true,
	"calories": true,
}

// ValidQuestDifficulties is the difficulty allow-list
var ValidQuestDifficulties = map[string]bool{
	QuestDifficultyEasy:   true,
	QuestDifficultyMedium: true,
	QuestDifficultyHard:   true,
	QuestDifficultyEpic:   true,
}

// QuestObjective is the single numeric objective of a quest
type QuestObjective struct {
	Description string `json:"description"`
	Target      int    `json:"target"`
	Unit        string `json:"unit"`
}

// QuestRewards is the reward bundle granted on completion
type QuestRewards struct {
	XP    int      `json:"xp"`
	Gold  int      `json:"gold"`
	Items []string `json:"items,omitempty"`
}

// Quest is a single fitness task with lifecycle state.
// Personal quests: Created -> Active -> Completed (row deleted, history
// kept), or Created -> Expired. Server quests are shared definitions each
// user completes independently via QuestHistory.
type Quest struct {
	ID               string         `json:"id"`
	WalletAddress    string         `json:"wallet_address,omitempty"` // empty for server quests
	Scope            QuestScope     `json:"scope"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Category         string         `json:"category"`
	Difficulty       string         `json:"difficulty"`
	Objective        QuestObjective `json:"objective"`
	Rewards          QuestRewards   `json:"rewards"`
	EnergyCost       int            `json:"energy_cost,omitempty"` // server quests only
	EstimatedMinutes int            `json:"estimated_minutes"`
	Active           bool           `json:"active"`
	Completed        bool           `json:"completed"`
	StartedAt        *time.Time     `json:"started_at,omitempty"`
	ExpiresAt        *time.Time     `json:"expires_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// Expired reports whether the quest's expiry has passed at the given time
func (q Quest) IsExpired(now time.Time) bool {
	return q.ExpiresAt != nil && !q.ExpiresAt.After(now)
}

// QuestHistory is the append-only ledger of settled quests
type QuestHistory struct {
	ID            string    `json:"id"`
	WalletAddress string    `json:"wallet_address"`
	QuestID       string    `json:"quest_id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	Difficulty    string    `json:"difficulty"`
	XPAwarded     int       `json:"xp_awarded"`
	GoldAwarded   int       `json:"gold_awarded"`
	CompletedAt   time.Time `json:"completed_at"`
}
