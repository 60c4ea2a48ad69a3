package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/repository"
)

const questColumns = `quest_id, COALESCE(wallet_address, ''), scope, title, description,
	category, difficulty, objective_description, objective_target, objective_unit,
	reward_xp, reward_gold, reward_items, energy_cost, estimated_minutes,
	active, completed, started_at, expires_at, created_at`

// QuestRepository implements repository.Quest on PostgreSQL
type QuestRepository struct {
	db *pgxpool.Pool
}

func NewQuestRepository(db *pgxpool.Pool) *QuestRepository {
	return &QuestRepository{db: db}
}

func (r *QuestRepository) ListForWallet(ctx context.Context, wallet string, now time.Time) ([]domain.Quest, error) {
	query := `
		SELECT ` + questColumns + `
		FROM quests
		WHERE (scope = 'server' AND active)
		   OR (wallet_address = $1 AND NOT completed AND (expires_at IS NULL OR expires_at > $2))
		ORDER BY scope DESC, created_at DESC
	`
	rows, err := r.db.Query(ctx, query, wallet, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list quests: %w", err)
	}
	defer rows.Close()

	var quests []domain.Quest
	for rows.Next() {
		quest, err := scanQuest(rows)
		if err != nil {
			return nil, err
		}
		quests = append(quests, *quest)
	}
	return quests, rows.Err()
}

func (r *QuestRepository) Get(ctx context.Context, questID string) (*domain.Quest, error) {
	query := `SELECT ` + questColumns + ` FROM quests WHERE quest_id = $1`
	return scanQuest(r.db.QueryRow(ctx, query, questID))
}

func (r *QuestRepository) History(ctx context.Context, wallet string, limit int) ([]domain.QuestHistory, error) {
	query := `
		SELECT history_id, wallet_address, quest_id, title, category, difficulty,
		       xp_awarded, gold_awarded, completed_at
		FROM quest_history
		WHERE wallet_address = $1
		ORDER BY completed_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, wallet, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list quest history: %w", err)
	}
	defer rows.Close()

	var entries []domain.QuestHistory
	for rows.Next() {
		var entry domain.QuestHistory
		err := rows.Scan(
			&entry.ID, &entry.WalletAddress, &entry.QuestID, &entry.Title,
			&entry.Category, &entry.Difficulty, &entry.XPAwarded, &entry.GoldAwarded,
			&entry.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quest history: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// StartQuest flips a created personal quest to active. The single update
// carries all three preconditions: the quest belongs to the wallet and is
// startable, it is not expired, and the wallet has no other active quest.
func (r *QuestRepository) StartQuest(ctx context.Context, wallet, questID string, now time.Time) (*domain.Quest, error) {
	query := `
		UPDATE quests
		SET active = TRUE, started_at = $3
		WHERE quest_id = $1 AND wallet_address = $2
		  AND scope = 'personal' AND NOT active AND NOT completed
		  AND (expires_at IS NULL OR expires_at > $3)
		  AND NOT EXISTS (
		      SELECT 1 FROM quests q2
		      WHERE q2.wallet_address = $2 AND q2.active AND NOT q2.completed
		  )
		RETURNING ` + questColumns + `
	`
	quest, err := scanQuest(r.db.QueryRow(ctx, query, questID, wallet, now))
	if err == domain.ErrQuestNotFound {
		return nil, r.classifyStartFailure(ctx, wallet, questID, now)
	}
	if isUniqueViolation(err) {
		// Lost a concurrent start race: the partial unique index on
		// active quests backstops the NOT EXISTS guard.
		return nil, domain.ErrQuestAlreadyActive
	}
	return quest, err
}

// classifyStartFailure turns a no-row start into the precise domain error
func (r *QuestRepository) classifyStartFailure(ctx context.Context, wallet, questID string, now time.Time) error {
	quest, err := r.Get(ctx, questID)
	if err != nil {
		return err
	}
	switch {
	case quest.WalletAddress != wallet || quest.Scope != domain.QuestScopePersonal:
		return domain.ErrQuestNotFound
	case quest.Completed:
		return domain.ErrQuestCompleted
	case quest.Active:
		return domain.ErrQuestActive
	case quest.IsExpired(now):
		return domain.ErrQuestExpired
	default:
		return domain.ErrQuestAlreadyActive
	}
}

func (r *QuestRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM quests
		WHERE scope = 'personal' AND NOT completed
		  AND expires_at IS NOT NULL AND expires_at <= $1
	`
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired quests: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *QuestRepository) BeginTx(ctx context.Context) (repository.QuestTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &gameTx{tx: tx}, nil
}

func scanQuest(row pgx.Row) (*domain.Quest, error) {
	var quest domain.Quest
	err := row.Scan(
		&quest.ID, &quest.WalletAddress, &quest.Scope, &quest.Title, &quest.Description,
		&quest.Category, &quest.Difficulty,
		&quest.Objective.Description, &quest.Objective.Target, &quest.Objective.Unit,
		&quest.Rewards.XP, &quest.Rewards.Gold, &quest.Rewards.Items,
		&quest.EnergyCost, &quest.EstimatedMinutes,
		&quest.Active, &quest.Completed, &quest.StartedAt, &quest.ExpiresAt, &quest.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrQuestNotFound
		}
		return nil, fmt.Errorf("failed to scan quest: %w", err)
	}
	return &quest, nil
}

func insertQuest(ctx context.Context, q rowQuerier, quest *domain.Quest) error {
	query := `
		INSERT INTO quests (
			wallet_address, scope, title, description, category, difficulty,
			objective_description, objective_target, objective_unit,
			reward_xp, reward_gold, reward_items, energy_cost, estimated_minutes,
			active, expires_at
		)
		VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING quest_id, created_at
	`
	err := q.QueryRow(ctx, query,
		quest.WalletAddress, quest.Scope, quest.Title, quest.Description,
		quest.Category, quest.Difficulty,
		quest.Objective.Description, quest.Objective.Target, quest.Objective.Unit,
		quest.Rewards.XP, quest.Rewards.Gold, quest.Rewards.Items,
		quest.EnergyCost, quest.EstimatedMinutes, quest.Active, quest.ExpiresAt,
	).Scan(&quest.ID, &quest.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert quest: %w", err)
	}
	return nil
}
