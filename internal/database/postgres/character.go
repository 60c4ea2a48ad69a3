package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/repository"
)

const characterColumns = `wallet_address, character_name, class, level, xp, xp_to_next,
	stat_points, ` + effectiveEnergyExpr + ` AS energy, energy_last_reset,
	strength, endurance, agility, vitality, flexibility, willpower, luck,
	created_at, updated_at`

// CharacterRepository implements the character stats repository for PostgreSQL
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a new CharacterRepository
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create inserts the one-to-one stats record for a wallet
func (r *CharacterRepository) Create(ctx context.Context, stats *domain.CharacterStats) error {
	query := `
		INSERT INTO character_stats (
			wallet_address, character_name, class, level, xp, xp_to_next,
			stat_points, energy, strength, endurance, agility, vitality,
			flexibility, willpower, luck
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (wallet_address) DO NOTHING
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		stats.WalletAddress, stats.Name, stats.Class, stats.Level, stats.XP, stats.XPToNext,
		stats.StatPoints, stats.Energy,
		stats.Stats.Strength, stats.Stats.Endurance, stats.Stats.Agility, stats.Stats.Vitality,
		stats.Stats.Flexibility, stats.Stats.Willpower, stats.Stats.Luck,
	).Scan(&stats.CreatedAt)
	if err == pgx.ErrNoRows {
		return domain.ErrCharacterExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert character: %w", err)
	}
	return nil
}

// Get returns the stats record with effective (lazily reset) energy
func (r *CharacterRepository) Get(ctx context.Context, wallet string) (*domain.CharacterStats, error) {
	return scanCharacterErr(r.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM character_stats WHERE wallet_address = $1`, wallet))
}

// AllocateStatPoints spends unspent points on named stats as one conditional
// update keyed on the precondition stat_points >= total
func (r *CharacterRepository) AllocateStatPoints(ctx context.Context, wallet string, alloc map[string]int, total int) (*domain.CharacterStats, error) {
	sets := []string{"stat_points = stat_points - $2"}
	args := []interface{}{wallet, total}
	for stat, amount := range alloc {
		if !domain.ValidStats[stat] {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidStat, stat)
		}
		args = append(args, amount)
		sets = append(sets, fmt.Sprintf("%s = %s + $%d", stat, stat, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`
		UPDATE character_stats
		SET %s
		WHERE wallet_address = $1 AND stat_points >= $2
		RETURNING %s
	`, strings.Join(sets, ", "), characterColumns)

	stats, err := scanCharacterErr(r.db.QueryRow(ctx, query, args...))
	if err == domain.ErrCharacterNotFound {
		// Either the character is missing or the pool is short; disambiguate
		if _, getErr := r.Get(ctx, wallet); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrInsufficientPoints
	}
	return stats, err
}

// AdjustEnergy applies a delta clamped to [0, MaxEnergy], applying the lazy
// daily reset first so a stale row reads as fully rested
func (r *CharacterRepository) AdjustEnergy(ctx context.Context, wallet string, delta int) (int, error) {
	query := `
		UPDATE character_stats
		SET energy = LEAST(GREATEST(` + effectiveEnergyExpr + ` + $2, 0), 100),
		    energy_last_reset = CASE
		        WHEN (energy_last_reset AT TIME ZONE 'utc')::date < (NOW() AT TIME ZONE 'utc')::date THEN NOW()
		        ELSE energy_last_reset
		    END,
		    updated_at = NOW()
		WHERE wallet_address = $1
		RETURNING energy
	`
	var energy int
	err := r.db.QueryRow(ctx, query, wallet, delta).Scan(&energy)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, domain.ErrCharacterNotFound
		}
		return 0, fmt.Errorf("failed to adjust energy: %w", err)
	}
	return energy, nil
}

// BeginTx starts a transaction scoped to character mutations
func (r *CharacterRepository) BeginTx(ctx context.Context) (repository.CharacterTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &gameTx{tx: tx}, nil
}

// scanCharacterErr scans a character row, mapping ErrNoRows to the domain error
func scanCharacterErr(row pgx.Row) (*domain.CharacterStats, error) {
	var stats domain.CharacterStats
	err := row.Scan(
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
		return nil, fmt.Errorf("failed to scan character: %w", err)
	}
	return &stats, nil
}
