package domain

// EventType identifies events published on the in-process bus
type EventType string

const (
	EventTypeUserRegistered     EventType = "user.registered"
	EventTypeCharacterMinted    EventType = "character.minted"
	EventTypeCharacterLeveledUp EventType = "character.leveled_up"
	EventTypeQuestGenerated     EventType = "quest.generated"
	EventTypeQuestCompleted     EventType = "quest.completed"
	EventTypeQuestsExpired      EventType = "quest.expired_sweep"
	EventTypeBossAttacked       EventType = "boss.attacked"
	EventTypeBossDefeated       EventType = "boss.defeated"
	EventTypeItemBought         EventType = "item.bought"
	EventTypeItemSold           EventType = "item.sold"
)

// QuestCompletedPayload is the typed payload for quest.completed events
type QuestCompletedPayload struct {
	WalletAddress string `json:"wallet_address"`
	QuestID       string `json:"quest_id"`
	Scope         string `json:"scope"`
	Category      string `json:"category"`
	XPAwarded     int    `json:"xp_awarded"`
	GoldAwarded   int    `json:"gold_awarded"`
	Timestamp     int64  `json:"timestamp"`
}

// BossAttackedPayload is the typed payload for boss.attacked events
type BossAttackedPayload struct {
	WalletAddress string `json:"wallet_address"`
	BossID        string `json:"boss_id"`
	Damage        int    `json:"damage"`
	Critical      bool   `json:"critical"`
	Defeated      bool   `json:"defeated"`
	Timestamp     int64  `json:"timestamp"`
}

// LevelUpPayload is the typed payload for character.leveled_up events
type LevelUpPayload struct {
	WalletAddress string `json:"wallet_address"`
	OldLevel      int    `json:"old_level"`
	NewLevel      int    `json:"new_level"`
	Source        string `json:"source"`
	Timestamp     int64  `json:"timestamp"`
}

// ItemTradePayload is the typed payload for item.bought / item.sold events
type ItemTradePayload struct {
	WalletAddress string `json:"wallet_address"`
	ItemKey       string `json:"item_key"`
	Gold          int    `json:"gold"`
	Timestamp     int64  `json:"timestamp"`
}
