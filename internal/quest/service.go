// Package quest drives the quest lifecycle: AI generation of personal
// quests, starting, and completion with reward settlement. Personal quests
// move Created -> Active -> Completed (the row is deleted, history is kept)
// or Created -> Expired. Server quests are shared definitions each wallet
// completes once, tracked in the history ledger.
package quest

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/event"
	"github.com/healthquest/healthquest/internal/logger"
	"github.com/healthquest/healthquest/internal/metrics"
	"github.com/healthquest/healthquest/internal/questgen"
	"github.com/healthquest/healthquest/internal/repository"
	"github.com/healthquest/healthquest/internal/reward"
	"github.com/healthquest/healthquest/internal/utils"
)

const (
	// GenerationEnergyCost is debited when a personal quest is generated.
	GenerationEnergyCost = 25
	// MaxPersonalQuests caps un-expired personal quests per wallet.
	MaxPersonalQuests = 5
	// PersonalQuestTTL is how long a generated personal quest stays claimable.
	PersonalQuestTTL = time.Hour

	// MinCompletionFraction is the share of the estimated duration that must
	// elapse before an active quest can be completed.
	MinCompletionFraction = 0.8

	// Bonus stat points rolled on every completion.
	MinBonusStatPoints = 1
	MaxBonusStatPoints = 5

	// DefaultHistoryLimit bounds history reads when the caller passes zero.
	DefaultHistoryLimit = 50
)

// CompletionResult is what a settled quest completion produced
type CompletionResult struct {
	History         *domain.QuestHistory `json:"history"`
	XPAwarded       int                  `json:"xp_awarded"`
	GoldAwarded     int                  `json:"gold_awarded"`
	BonusStatPoints int                  `json:"bonus_stat_points"`
	LeveledUp       bool                 `json:"leveled_up"`
	NewLevel        int                  `json:"new_level"`

	oldLevel int // pre-settlement level, kept for the level-up event
}

// Service manages the quest lifecycle
type Service interface {
	// List returns the wallet's visible quests: active server quests plus the
	// wallet's un-expired, un-completed personal quests.
	List(ctx context.Context, wallet string) ([]domain.Quest, error)
	// History returns the wallet's completion ledger, newest first.
	History(ctx context.Context, wallet string, limit int) ([]domain.QuestHistory, error)
	// GeneratePersonal creates a personal quest via the generation
	// collaborator. Costs energy; the debit and the insert share one
	// transaction so a failed generation call costs nothing.
	GeneratePersonal(ctx context.Context, wallet string, category string) (*domain.Quest, error)
	// Start transitions a personal quest to Active. Only one quest may be
	// active per wallet.
	Start(ctx context.Context, wallet, questID string) (*domain.Quest, error)
	// CompleteActive settles the wallet's active personal quest once at least
	// 80% of its estimated duration has elapsed.
	CompleteActive(ctx context.Context, wallet, questID string) (*CompletionResult, error)
	// CompleteServer settles a shared server quest for this wallet. Each
	// wallet can complete a given server quest once.
	CompleteServer(ctx context.Context, wallet, questID string) (*CompletionResult, error)
	// SweepExpired deletes expired, never-completed personal quests.
	// Returns the number of rows removed.
	SweepExpired(ctx context.Context) (int64, error)
}

type service struct {
	repo      repository.Quest
	generator questgen.Client
	bus       event.Bus
	now       func() time.Time
}

// NewService creates the quest service
func NewService(repo repository.Quest, generator questgen.Client, bus event.Bus) Service {
	return &service{repo: repo, generator: generator, bus: bus, now: time.Now}
}

func (s *service) List(ctx context.Context, wallet string) ([]domain.Quest, error) {
	return s.repo.ListForWallet(ctx, wallet, s.now())
}

func (s *service) History(ctx context.Context, wallet string, limit int) ([]domain.QuestHistory, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.repo.History(ctx, wallet, limit)
}

func (s *service) GeneratePersonal(ctx context.Context, wallet string, category string) (*domain.Quest, error) {
	log := logger.FromContext(ctx)

	if category != "" && !domain.ValidQuestCategories[category] {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, category)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	stats, err := tx.GetCharacterForUpdate(ctx, wallet)
	if err != nil {
		return nil, err
	}

	now := s.now()
	count, err := tx.CountUnexpiredPersonal(ctx, wallet, now)
	if err != nil {
		return nil, err
	}
	if count >= MaxPersonalQuests {
		return nil, fmt.Errorf("%w: %d of %d personal quests outstanding", domain.ErrQuestLimitReached, count, MaxPersonalQuests)
	}

	if _, err := tx.DeductEnergy(ctx, wallet, GenerationEnergyCost); err != nil {
		return nil, err
	}

	// The generation call runs inside the transaction on purpose: an
	// upstream failure rolls the energy debit back.
	payload, err := s.generator.GenerateQuest(ctx, questgen.QuestRequest{
		WalletAddress: wallet,
		Level:         stats.Level,
		Class:         stats.Class,
		Category:      category,
	})
	if err != nil {
		return nil, err
	}
	questgen.SanitizeQuest(payload)

	expires := now.Add(PersonalQuestTTL)
	quest := &domain.Quest{
		WalletAddress: wallet,
		Scope:         domain.QuestScopePersonal,
		Title:         payload.Title,
		Description:   payload.Description,
		Category:      payload.Category,
		Difficulty:    payload.Difficulty,
		Objective: domain.QuestObjective{
			Description: payload.Objective,
			Target:      payload.Target,
			Unit:        payload.Unit,
		},
		Rewards: domain.QuestRewards{
			XP:   payload.RewardXP,
			Gold: payload.RewardGold,
		},
		EstimatedMinutes: payload.EstimatedMinutes,
		ExpiresAt:        &expires,
	}
	if err := tx.InsertQuest(ctx, quest); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit quest generation: %w", err)
	}

	metrics.QuestsGenerated.WithLabelValues(string(quest.Scope), quest.Category, quest.Difficulty).Inc()
	log.Info("Personal quest generated",
		"wallet", wallet, "quest_id", quest.ID,
		"category", quest.Category, "difficulty", quest.Difficulty)

	if err := s.bus.Publish(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.Type(domain.EventTypeQuestGenerated),
		Payload: map[string]interface{}{
			"wallet_address": wallet,
			"quest_id":       quest.ID,
			"category":       quest.Category,
			"difficulty":     quest.Difficulty,
		},
	}); err != nil {
		log.Warn("Failed to publish quest generated event", "error", err)
	}

	return quest, nil
}

func (s *service) Start(ctx context.Context, wallet, questID string) (*domain.Quest, error) {
	quest, err := s.repo.StartQuest(ctx, wallet, questID, s.now())
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Quest started", "wallet", wallet, "quest_id", questID)
	return quest, nil
}

func (s *service) CompleteActive(ctx context.Context, wallet, questID string) (*CompletionResult, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	quest, err := tx.GetQuestForUpdate(ctx, questID)
	if err != nil {
		return nil, err
	}
	if quest.Scope != domain.QuestScopePersonal || quest.WalletAddress != wallet {
		return nil, fmt.Errorf("%w: %s", domain.ErrQuestNotFound, questID)
	}
	if quest.Completed {
		return nil, domain.ErrQuestCompleted
	}
	if !quest.Active || quest.StartedAt == nil {
		return nil, fmt.Errorf("%w: quest has not been started", domain.ErrInvalidInput)
	}

	now := s.now()
	if quest.IsExpired(now) {
		return nil, domain.ErrQuestExpired
	}
	required := time.Duration(MinCompletionFraction * float64(quest.EstimatedMinutes) * float64(time.Minute))
	if elapsed := now.Sub(*quest.StartedAt); elapsed < required {
		return nil, &domain.TooEarlyError{
			RemainingSeconds: int(math.Ceil((required - elapsed).Seconds())),
		}
	}

	// The surprise stat-point bonus belongs to the timed personal flow only
	bonus := utils.RandomInt(MinBonusStatPoints, MaxBonusStatPoints)
	result, err := s.settle(ctx, tx, wallet, quest, true, bonus)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit quest completion: %w", err)
	}

	s.announceCompletion(ctx, wallet, quest, result)
	return result, nil
}

func (s *service) CompleteServer(ctx context.Context, wallet, questID string) (*CompletionResult, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	quest, err := tx.GetQuestForUpdate(ctx, questID)
	if err != nil {
		return nil, err
	}
	if quest.Scope != domain.QuestScopeServer || !quest.Active {
		return nil, fmt.Errorf("%w: %s", domain.ErrQuestNotFound, questID)
	}

	done, err := tx.HasHistory(ctx, wallet, questID)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, domain.ErrQuestCompleted
	}

	if quest.EnergyCost > 0 {
		if _, err := tx.DeductEnergy(ctx, wallet, quest.EnergyCost); err != nil {
			return nil, err
		}
	}

	result, err := s.settle(ctx, tx, wallet, quest, false, 0)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit quest completion: %w", err)
	}

	s.announceCompletion(ctx, wallet, quest, result)
	return result, nil
}

// settle appends the history row, applies the reward settlement to the
// character, and deletes the quest row for personal quests. The caller
// decides the bonus stat points; server quests grant none. Runs inside the
// caller's transaction.
func (s *service) settle(ctx context.Context, tx repository.QuestTx, wallet string, quest *domain.Quest, deleteQuest bool, bonus int) (*CompletionResult, error) {
	stats, err := tx.GetCharacterForUpdate(ctx, wallet)
	if err != nil {
		return nil, err
	}

	entry := &domain.QuestHistory{
		WalletAddress: wallet,
		QuestID:       quest.ID,
		Title:         quest.Title,
		Category:      quest.Category,
		Difficulty:    quest.Difficulty,
		XPAwarded:     quest.Rewards.XP,
		GoldAwarded:   quest.Rewards.Gold,
	}
	if err := tx.InsertHistory(ctx, entry); err != nil {
		return nil, err
	}
	if deleteQuest {
		if err := tx.DeleteQuest(ctx, quest.ID); err != nil {
			return nil, err
		}
	}

	outcome := reward.Settle(stats, quest.Rewards.XP, quest.Rewards.Gold, bonus)

	if err := tx.UpdateProgress(ctx, wallet, outcome.Level, outcome.XP, outcome.XPToNext, outcome.StatPoints); err != nil {
		return nil, err
	}
	if outcome.GoldGained > 0 {
		if _, err := tx.CreditGold(ctx, wallet, outcome.GoldGained); err != nil {
			return nil, err
		}
	}

	result := &CompletionResult{
		History:         entry,
		XPAwarded:       quest.Rewards.XP,
		GoldAwarded:     quest.Rewards.Gold,
		BonusStatPoints: bonus,
		LeveledUp:       outcome.LeveledUp(),
		NewLevel:        outcome.Level,
	}
	if result.LeveledUp {
		result.oldLevel = stats.Level
	}
	return result, nil
}

func (s *service) announceCompletion(ctx context.Context, wallet string, quest *domain.Quest, result *CompletionResult) {
	log := logger.FromContext(ctx)
	log.Info("Quest completed",
		"wallet", wallet, "quest_id", quest.ID, "scope", quest.Scope,
		"xp", result.XPAwarded, "gold", result.GoldAwarded, "leveled_up", result.LeveledUp)

	if err := s.bus.Publish(ctx, event.NewQuestCompletedEvent(wallet, quest.ID, quest.Scope, quest.Category, result.XPAwarded, result.GoldAwarded)); err != nil {
		log.Warn("Failed to publish quest completed event", "error", err)
	}
	if result.LeveledUp {
		if err := s.bus.Publish(ctx, event.NewLevelUpEvent(wallet, result.oldLevel, result.NewLevel, "quest")); err != nil {
			log.Warn("Failed to publish level up event", "error", err)
		}
	}
}

func (s *service) SweepExpired(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		metrics.QuestsExpired.Add(float64(removed))
		logger.FromContext(ctx).Info("Expired quests swept", "removed", removed)
		if err := s.bus.Publish(ctx, event.Event{
			Version: event.EventSchemaVersion,
			Type:    event.Type(domain.EventTypeQuestsExpired),
			Payload: map[string]interface{}{"removed": removed},
		}); err != nil {
			logger.FromContext(ctx).Warn("Failed to publish expiry sweep event", "error", err)
		}
	}
	return removed, nil
}
