package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/repository"
)

const bossColumns = `boss_id, boss_name, description, max_health, current_health,
	damage, defense, attributes, reward_xp, reward_gold, min_level,
	active, defeated, defeated_at, created_at`

// BossRepository implements repository.Boss on PostgreSQL
type BossRepository struct {
	db *pgxpool.Pool
}

func NewBossRepository(db *pgxpool.Pool) *BossRepository {
	return &BossRepository{db: db}
}

func (r *BossRepository) ActiveBoss(ctx context.Context) (*domain.Boss, error) {
	query := `SELECT ` + bossColumns + ` FROM bosses WHERE active AND NOT defeated`
	return scanBoss(r.db.QueryRow(ctx, query))
}

func (r *BossRepository) Get(ctx context.Context, bossID string) (*domain.Boss, error) {
	query := `SELECT ` + bossColumns + ` FROM bosses WHERE boss_id = $1`
	return scanBoss(r.db.QueryRow(ctx, query, bossID))
}

func (r *BossRepository) DamageRecords(ctx context.Context, bossID string, limit int) ([]domain.BossDamageRecord, error) {
	query := `
		SELECT record_id, wallet_address, boss_id, damage, xp_awarded, gold_awarded,
		       narrative, critical, created_at
		FROM boss_damage_records
		WHERE boss_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, bossID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list damage records: %w", err)
	}
	defer rows.Close()

	var records []domain.BossDamageRecord
	for rows.Next() {
		var record domain.BossDamageRecord
		err := rows.Scan(
			&record.ID, &record.WalletAddress, &record.BossID, &record.Damage,
			&record.XPAwarded, &record.GoldAwarded, &record.Narrative, &record.Critical,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan damage record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *BossRepository) BeginTx(ctx context.Context) (repository.BossTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &gameTx{tx: tx}, nil
}

func scanBoss(row pgx.Row) (*domain.Boss, error) {
	var boss domain.Boss
	err := row.Scan(
		&boss.ID, &boss.Name, &boss.Description, &boss.MaxHealth, &boss.CurrentHealth,
		&boss.Damage, &boss.Defense, &boss.Attributes, &boss.RewardXP, &boss.RewardGold,
		&boss.MinLevel, &boss.Active, &boss.Defeated, &boss.DefeatedAt, &boss.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBossNotFound
		}
		return nil, fmt.Errorf("failed to scan boss: %w", err)
	}
	return &boss, nil
}
