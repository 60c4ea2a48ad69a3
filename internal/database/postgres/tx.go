package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/healthquest/healthquest/internal/domain"
)

// gameTx is the shared transaction handle behind the feature Tx interfaces.
// Every precondition check is folded into the mutating statement itself, so
// two concurrent requests can never both pass a check and double-spend.
type gameTx struct {
	tx pgx.Tx
}

func (t *gameTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *gameTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// ---- character ----

func (t *gameTx) GetCharacterForUpdate(ctx context.Context, wallet string) (*domain.CharacterStats, error) {
	// FOR UPDATE variant cannot reuse the shared column list because the
	// effective-energy expression is not allowed with row locking on some
	// planner paths; the raw row is locked and the reset applied in Go terms
	// by DeductEnergy/AdjustEnergy which run in the same transaction.
	query := `
		SELECT wallet_address, character_name, class, level, xp, xp_to_next,
		       stat_points, energy, energy_last_reset,
		       strength, endurance, agility, vitality, flexibility, willpower, luck,
		       created_at, updated_at
		FROM character_stats
		WHERE wallet_address = $1
		FOR UPDATE
	`
	var stats domain.CharacterStats
	err := t.tx.QueryRow(ctx, query, wallet).Scan(
		&stats.WalletAddress, &stats.Name, &stats.Class, &stats.Level, &stats.XP, &stats.XPToNext,
		&stats.StatPoints, &stats.Energy, &stats.EnergyReset,
		&stats.Stats.Strength, &stats.Stats.Endurance, &stats.Stats.Agility, &stats.Stats.Vitality,
		&stats.Stats.Flexibility, &stats.Stats.Willpower, &stats.Stats.Luck,
		&stats.CreatedAt, &stats.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("failed to lock character: %w", err)
	}
	// Surface effective energy to the caller
	if stats.EnergyReset.UTC().Truncate(24*time.Hour).Before(time.Now().UTC().Truncate(24*time.Hour)) {
		stats.Energy = domain.MaxEnergy
	}
	return &stats, nil
}

func (t *gameTx) UpdateProgress(ctx context.Context, wallet string, level, xp, xpToNext, statPoints int) error {
	query := `
		UPDATE character_stats
		SET level = $2, xp = $3, xp_to_next = $4, stat_points = $5, updated_at = NOW()
		WHERE wallet_address = $1
	`
	tag, err := t.tx.Exec(ctx, query, wallet, level, xp, xpToNext, statPoints)
	if err != nil {
		return fmt.Errorf("failed to update character progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCharacterNotFound
	}
	return nil
}

func (t *gameTx) DeductEnergy(ctx context.Context, wallet string, cost int) (int, error) {
	query := `
		UPDATE character_stats
		SET energy = ` + effectiveEnergyExpr + ` - $2,
		    energy_last_reset = CASE
		        WHEN (energy_last_reset AT TIME ZONE 'utc')::date < (NOW() AT TIME ZONE 'utc')::date THEN NOW()
		        ELSE energy_last_reset
		    END,
		    updated_at = NOW()
		WHERE wallet_address = $1 AND ` + effectiveEnergyExpr + ` >= $2
		RETURNING energy
	`
	var energy int
	err := t.tx.QueryRow(ctx, query, wallet, cost).Scan(&energy)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, domain.ErrInsufficientEnergy
		}
		return 0, fmt.Errorf("failed to deduct energy: %w", err)
	}
	return energy, nil
}

func (t *gameTx) DebitGold(ctx context.Context, wallet string, amount int) (int, error) {
	query := `
		UPDATE users
		SET gold = gold - $2, updated_at = NOW()
		WHERE wallet_address = $1 AND gold >= $2
		RETURNING gold
	`
	var gold int
	err := t.tx.QueryRow(ctx, query, wallet, amount).Scan(&gold)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, domain.ErrInsufficientGold
		}
		return 0, fmt.Errorf("failed to debit gold: %w", err)
	}
	return gold, nil
}

func (t *gameTx) CreditGold(ctx context.Context, wallet string, amount int) (int, error) {
	query := `
		UPDATE users
		SET gold = gold + $2, updated_at = NOW()
		WHERE wallet_address = $1
		RETURNING gold
	`
	var gold int
	err := t.tx.QueryRow(ctx, query, wallet, amount).Scan(&gold)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, domain.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to credit gold: %w", err)
	}
	return gold, nil
}

func (t *gameTx) ApplyStatDeltas(ctx context.Context, wallet string, deltas map[string]int) error {
	if len(deltas) == 0 {
		return nil
	}
	sets := make([]string, 0, len(deltas)+1)
	args := []interface{}{wallet}
	for stat, delta := range deltas {
		if !domain.ValidStats[stat] {
			return fmt.Errorf("%w: %s", domain.ErrInvalidStat, stat)
		}
		args = append(args, delta)
		sets = append(sets, fmt.Sprintf("%s = GREATEST(%s + $%d, 0)", stat, stat, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE character_stats SET %s WHERE wallet_address = $1`, strings.Join(sets, ", "))
	tag, err := t.tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to apply stat deltas: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCharacterNotFound
	}
	return nil
}

// ---- quest ----

func (t *gameTx) GetQuestForUpdate(ctx context.Context, questID string) (*domain.Quest, error) {
	query := `SELECT ` + questColumns + ` FROM quests WHERE quest_id = $1 FOR UPDATE`
	return scanQuest(t.tx.QueryRow(ctx, query, questID))
}

func (t *gameTx) CountUnexpiredPersonal(ctx context.Context, wallet string, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM quests
		WHERE wallet_address = $1 AND scope = 'personal' AND NOT completed
		  AND (expires_at IS NULL OR expires_at > $2)
	`
	var count int
	if err := t.tx.QueryRow(ctx, query, wallet, now).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count personal quests: %w", err)
	}
	return count, nil
}

func (t *gameTx) InsertQuest(ctx context.Context, quest *domain.Quest) error {
	return insertQuest(ctx, t.tx, quest)
}

func (t *gameTx) DeleteQuest(ctx context.Context, questID string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM quests WHERE quest_id = $1`, questID)
	if err != nil {
		return fmt.Errorf("failed to delete quest: %w", err)
	}
	return nil
}

func (t *gameTx) InsertHistory(ctx context.Context, entry *domain.QuestHistory) error {
	query := `
		INSERT INTO quest_history (wallet_address, quest_id, title, category, difficulty, xp_awarded, gold_awarded)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING history_id, completed_at
	`
	err := t.tx.QueryRow(ctx, query,
		entry.WalletAddress, entry.QuestID, entry.Title, entry.Category, entry.Difficulty,
		entry.XPAwarded, entry.GoldAwarded,
	).Scan(&entry.ID, &entry.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to insert quest history: %w", err)
	}
	return nil
}

func (t *gameTx) HasHistory(ctx context.Context, wallet, questID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM quest_history WHERE wallet_address = $1 AND quest_id = $2)`
	var exists bool
	if err := t.tx.QueryRow(ctx, query, wallet, questID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check quest history: %w", err)
	}
	return exists, nil
}

// ---- boss ----

func (t *gameTx) GetBoss(ctx context.Context, bossID string) (*domain.Boss, error) {
	query := `SELECT ` + bossColumns + ` FROM bosses WHERE boss_id = $1 AND active AND NOT defeated`
	return scanBoss(t.tx.QueryRow(ctx, query, bossID))
}

func (t *gameTx) ApplyDamage(ctx context.Context, bossID string, damage int) (int, bool, error) {
	// Defeat is derived from the authoritative post-decrement value, and
	// defeated_at is stamped exactly once.
	query := `
		UPDATE bosses
		SET current_health = GREATEST(current_health - $2, 0),
		    defeated = (current_health - $2) <= 0,
		    defeated_at = CASE
		        WHEN (current_health - $2) <= 0 AND defeated_at IS NULL THEN NOW()
		        ELSE defeated_at
		    END
		WHERE boss_id = $1 AND active AND NOT defeated
		RETURNING current_health, defeated
	`
	var health int
	var defeated bool
	err := t.tx.QueryRow(ctx, query, bossID, damage).Scan(&health, &defeated)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, false, domain.ErrBossNotFound
		}
		return 0, false, fmt.Errorf("failed to apply boss damage: %w", err)
	}
	return health, defeated, nil
}

func (t *gameTx) InsertDamageRecord(ctx context.Context, record *domain.BossDamageRecord) error {
	query := `
		INSERT INTO boss_damage_records (wallet_address, boss_id, damage, xp_awarded, gold_awarded, narrative, critical)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING record_id, created_at
	`
	err := t.tx.QueryRow(ctx, query,
		record.WalletAddress, record.BossID, record.Damage,
		record.XPAwarded, record.GoldAwarded, record.Narrative, record.Critical,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert damage record: %w", err)
	}
	return nil
}

// ---- inventory ----

func (t *gameTx) GetItemForUpdate(ctx context.Context, wallet, itemID string) (*domain.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items
		WHERE wallet_address = $1 AND item_id = $2 FOR UPDATE`
	return scanItem(t.tx.QueryRow(ctx, query, wallet, itemID))
}

func (t *gameTx) GetEquippedInSlot(ctx context.Context, wallet string, slot domain.ItemSlot) (*domain.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items
		WHERE wallet_address = $1 AND slot = $2 AND equipped FOR UPDATE`
	item, err := scanItem(t.tx.QueryRow(ctx, query, wallet, slot))
	if err == domain.ErrItemNotFound {
		return nil, nil // empty slot is not an error
	}
	return item, err
}

func (t *gameTx) InsertItem(ctx context.Context, item *domain.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (wallet_address, item_key, item_name, slot, rarity, bonuses, equipped, purchase_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING item_id, acquired_at
	`
	err := t.tx.QueryRow(ctx, query,
		item.WalletAddress, item.ItemKey, item.Name, item.Slot, item.Rarity,
		item.Bonuses, item.Equipped, item.PurchasePrice,
	).Scan(&item.ID, &item.AcquiredAt)
	if err != nil {
		return fmt.Errorf("failed to insert inventory item: %w", err)
	}
	return nil
}

func (t *gameTx) SetEquipped(ctx context.Context, itemID string, equipped bool) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE inventory_items SET equipped = $2 WHERE item_id = $1`, itemID, equipped)
	if err != nil {
		return fmt.Errorf("failed to set equipped flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (t *gameTx) DeleteItem(ctx context.Context, itemID string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM inventory_items WHERE item_id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
