package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthquest/healthquest/internal/domain"
)

// LeaderboardRepository implements repository.Leaderboard on PostgreSQL
type LeaderboardRepository struct {
	db *pgxpool.Pool
}

func NewLeaderboardRepository(db *pgxpool.Pool) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func (r *LeaderboardRepository) TopByLevel(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	query := `
		SELECT RANK() OVER (ORDER BY c.level DESC, c.xp DESC),
		       c.wallet_address, u.username, c.level, c.xp
		FROM character_stats c
		JOIN users u ON u.wallet_address = c.wallet_address
		ORDER BY c.level DESC, c.xp DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query level leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var entry domain.LeaderboardEntry
		err := rows.Scan(&entry.Rank, &entry.WalletAddress, &entry.Username, &entry.Level, &entry.XP)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *LeaderboardRepository) TopByDamage(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	query := `
		SELECT RANK() OVER (ORDER BY SUM(d.damage) DESC),
		       d.wallet_address, u.username, SUM(d.damage)
		FROM boss_damage_records d
		JOIN users u ON u.wallet_address = d.wallet_address
		GROUP BY d.wallet_address, u.username
		ORDER BY SUM(d.damage) DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query damage leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var entry domain.LeaderboardEntry
		err := rows.Scan(&entry.Rank, &entry.WalletAddress, &entry.Username, &entry.TotalDamage)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
