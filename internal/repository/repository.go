// Package repository defines the persistence interfaces the services depend
// on. Implementations live in internal/database/postgres; stateful fakes for
// tests live alongside the services that use them.
package repository

import (
	"context"
	"time"

	"github.com/healthquest/healthquest/internal/domain"
)

// User handles the user record keyed by wallet address
type User interface {
	// GetOrCreate returns the user for a wallet, creating it on first sight.
	// Idempotent: the unique constraint on wallet_address is the source of
	// truth, and an existing record is returned without error.
	GetOrCreate(ctx context.Context, user *domain.User) (created bool, err error)
	Get(ctx context.Context, wallet string) (*domain.User, error)
	// GetGold reads just the current gold balance. Gold moves on every trade
	// and settlement, so cached user records must not serve it.
	GetGold(ctx context.Context, wallet string) (int, error)
	UpdateProfile(ctx context.Context, wallet, username string, profile map[string]string) (*domain.User, error)
}

// Character handles the one-to-one RPG stats record
type Character interface {
	Create(ctx context.Context, stats *domain.CharacterStats) error
	// Get returns the stats with effective energy: when the stored reset day
	// precedes the current UTC day the energy reads as full.
	Get(ctx context.Context, wallet string) (*domain.CharacterStats, error)
	// AllocateStatPoints decrements unspent points and increments stats in a
	// single conditional update; domain.ErrInsufficientPoints when the pool
	// is too small.
	AllocateStatPoints(ctx context.Context, wallet string, alloc map[string]int, total int) (*domain.CharacterStats, error)
	// AdjustEnergy applies a delta clamped to [0, MaxEnergy]; never fails on
	// bounds.
	AdjustEnergy(ctx context.Context, wallet string, delta int) (int, error)
	BeginTx(ctx context.Context) (CharacterTx, error)
}

// Quest handles quest rows and the history ledger
type Quest interface {
	// ListForWallet returns the user's un-expired personal quests plus all
	// active server quests.
	ListForWallet(ctx context.Context, wallet string, now time.Time) ([]domain.Quest, error)
	Get(ctx context.Context, questID string) (*domain.Quest, error)
	History(ctx context.Context, wallet string, limit int) ([]domain.QuestHistory, error)
	// StartQuest performs the Created -> Active transition as one conditional
	// update guarded by the one-active-quest-per-user invariant.
	StartQuest(ctx context.Context, wallet, questID string, now time.Time) (*domain.Quest, error)
	// DeleteExpired removes expired, never-completed personal quests.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	BeginTx(ctx context.Context) (QuestTx, error)
}

// Boss handles the shared boss entity and its damage ledger
type Boss interface {
	ActiveBoss(ctx context.Context) (*domain.Boss, error)
	Get(ctx context.Context, bossID string) (*domain.Boss, error)
	DamageRecords(ctx context.Context, bossID string, limit int) ([]domain.BossDamageRecord, error)
	BeginTx(ctx context.Context) (BossTx, error)
}

// Inventory handles owned items and equipment state
type Inventory interface {
	List(ctx context.Context, wallet string) ([]domain.InventoryItem, error)
	BeginTx(ctx context.Context) (InventoryTx, error)
}

// Leaderboard provides the ranking queries
type Leaderboard interface {
	TopByLevel(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	TopByDamage(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// Tx is the common transaction handle
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// CharacterTx carries the character and gold mutations every settlement
// needs. All precondition checks are expressed inside the updates themselves
// so concurrent requests cannot double-spend.
type CharacterTx interface {
	Tx
	GetCharacterForUpdate(ctx context.Context, wallet string) (*domain.CharacterStats, error)
	// UpdateProgress persists the outcome of a reward settlement.
	UpdateProgress(ctx context.Context, wallet string, level, xp, xpToNext, statPoints int) error
	// DeductEnergy rolls energy to full when the daily reset is due, then
	// deducts conditionally; domain.ErrInsufficientEnergy when short.
	DeductEnergy(ctx context.Context, wallet string, cost int) (int, error)
	// DebitGold deducts conditionally; domain.ErrInsufficientGold when short.
	DebitGold(ctx context.Context, wallet string, amount int) (int, error)
	CreditGold(ctx context.Context, wallet string, amount int) (int, error)
	// ApplyStatDeltas adjusts named stats in one update (equipment bonuses).
	ApplyStatDeltas(ctx context.Context, wallet string, deltas map[string]int) error
}

// QuestTx extends CharacterTx with the quest lifecycle writes
type QuestTx interface {
	CharacterTx
	GetQuestForUpdate(ctx context.Context, questID string) (*domain.Quest, error)
	CountUnexpiredPersonal(ctx context.Context, wallet string, now time.Time) (int, error)
	InsertQuest(ctx context.Context, quest *domain.Quest) error
	DeleteQuest(ctx context.Context, questID string) error
	InsertHistory(ctx context.Context, entry *domain.QuestHistory) error
	HasHistory(ctx context.Context, wallet, questID string) (bool, error)
}

// BossTx extends CharacterTx with the boss encounter writes
type BossTx interface {
	CharacterTx
	GetBoss(ctx context.Context, bossID string) (*domain.Boss, error)
	// ApplyDamage decrements boss health atomically with a floor of zero and
	// derives the defeat transition from the post-update value.
	ApplyDamage(ctx context.Context, bossID string, damage int) (health int, defeated bool, err error)
	InsertDamageRecord(ctx context.Context, record *domain.BossDamageRecord) error
}

// InventoryTx extends CharacterTx with the item writes
type InventoryTx interface {
	CharacterTx
	GetItemForUpdate(ctx context.Context, wallet, itemID string) (*domain.InventoryItem, error)
	GetEquippedInSlot(ctx context.Context, wallet string, slot domain.ItemSlot) (*domain.InventoryItem, error)
	InsertItem(ctx context.Context, item *domain.InventoryItem) error
	SetEquipped(ctx context.Context, itemID string, equipped bool) error
	DeleteItem(ctx context.Context, itemID string) error
}
