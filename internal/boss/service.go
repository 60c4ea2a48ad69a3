// Package boss runs the shared boss encounter: a single active boss all
// users attack, with collaborative defeat and per-attack proportional
// rewards.
package boss

import (
	"context"
	"fmt"
	"math"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/event"
	"github.com/healthquest/healthquest/internal/logger"
	"github.com/healthquest/healthquest/internal/questgen"
	"github.com/healthquest/healthquest/internal/repository"
	"github.com/healthquest/healthquest/internal/reward"
	"github.com/healthquest/healthquest/internal/utils"
)

const (
	// CritChance is the probability the fallback damage roll crits.
	CritChance = 0.2
	// CritMultiplier doubles damage on a crit.
	CritMultiplier = 2.0

	// DefaultDamageRecordLimit bounds damage ledger reads.
	DefaultDamageRecordLimit = 50
)

// AttackResult is the outcome of one attack
type AttackResult struct {
	Damage      int    `json:"damage"`
	Critical    bool   `json:"critical"`
	Narrative   string `json:"narrative,omitempty"`
	BossHealth  int    `json:"boss_health"`
	Defeated    bool   `json:"defeated"`
	XPAwarded   int    `json:"xp_awarded"`
	GoldAwarded int    `json:"gold_awarded"`
	LeveledUp   bool   `json:"leveled_up"`
	NewLevel    int    `json:"new_level"`
}

// Service manages boss encounters
type Service interface {
	// ActiveBoss returns the current attackable boss.
	ActiveBoss(ctx context.Context) (*domain.Boss, error)
	// DamageRecords returns a boss's attack ledger, newest first.
	DamageRecords(ctx context.Context, bossID string, limit int) ([]domain.BossDamageRecord, error)
	// Attack resolves one attack: preconditions, debits, damage roll,
	// health decrement, proportional rewards.
	Attack(ctx context.Context, wallet, bossID string) (*AttackResult, error)
}

type service struct {
	repo      repository.Boss
	generator questgen.Client
	bus       event.Bus
}

// NewService creates the boss service
func NewService(repo repository.Boss, generator questgen.Client, bus event.Bus) Service {
	return &service{repo: repo, generator: generator, bus: bus}
}

func (s *service) ActiveBoss(ctx context.Context) (*domain.Boss, error) {
	return s.repo.ActiveBoss(ctx)
}

func (s *service) DamageRecords(ctx context.Context, bossID string, limit int) ([]domain.BossDamageRecord, error) {
	if limit <= 0 {
		limit = DefaultDamageRecordLimit
	}
	return s.repo.DamageRecords(ctx, bossID, limit)
}

func (s *service) Attack(ctx context.Context, wallet, bossID string) (*AttackResult, error) {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	boss, err := tx.GetBoss(ctx, bossID)
	if err != nil {
		return nil, err
	}

	stats, err := tx.GetCharacterForUpdate(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if stats.Level < boss.MinLevel {
		return nil, fmt.Errorf("%w: level %d required, have %d", domain.ErrLevelTooLow, boss.MinLevel, stats.Level)
	}

	// Debits land before damage resolution: the attack attempt is the
	// chargeable event, even if the narrative collaborator fails.
	if _, err := tx.DeductEnergy(ctx, wallet, domain.BossAttackEnergyCost); err != nil {
		return nil, err
	}
	if _, err := tx.DebitGold(ctx, wallet, domain.BossAttackGoldCost); err != nil {
		return nil, err
	}

	damage, critical, narrative := s.resolveDamage(ctx, stats, boss)
	if damage > boss.MaxHealth {
		damage = boss.MaxHealth
	}

	health, defeated, err := tx.ApplyDamage(ctx, boss.ID, damage)
	if err != nil {
		return nil, err
	}

	xpAward := proportionalReward(boss.RewardXP, damage, boss.MaxHealth)
	goldAward := proportionalReward(boss.RewardGold, damage, boss.MaxHealth)

	if err := tx.InsertDamageRecord(ctx, &domain.BossDamageRecord{
		WalletAddress: wallet,
		BossID:        boss.ID,
		Damage:        damage,
		XPAwarded:     xpAward,
		GoldAwarded:   goldAward,
		Narrative:     narrative,
		Critical:      critical,
	}); err != nil {
		return nil, err
	}

	outcome := reward.Settle(stats, xpAward, goldAward, 0)
	if err := tx.UpdateProgress(ctx, wallet, outcome.Level, outcome.XP, outcome.XPToNext, outcome.StatPoints); err != nil {
		return nil, err
	}
	if outcome.GoldGained > 0 {
		if _, err := tx.CreditGold(ctx, wallet, outcome.GoldGained); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit attack: %w", err)
	}

	log.Info("Boss attacked",
		"wallet", wallet, "boss_id", boss.ID, "damage", damage,
		"critical", critical, "boss_health", health, "defeated", defeated)

	if err := s.bus.Publish(ctx, event.NewBossAttackedEvent(wallet, boss.ID, damage, critical, defeated)); err != nil {
		log.Warn("Failed to publish boss attacked event", "error", err)
	}
	if defeated {
		log.Info("Boss defeated", "boss_id", boss.ID, "name", boss.Name, "final_blow", wallet)
		if err := s.bus.Publish(ctx, event.Event{
			Version: event.EventSchemaVersion,
			Type:    event.Type(domain.EventTypeBossDefeated),
			Payload: map[string]interface{}{
				"boss_id":        boss.ID,
				"name":           boss.Name,
				"wallet_address": wallet,
			},
		}); err != nil {
			log.Warn("Failed to publish boss defeated event", "error", err)
		}
	}
	if outcome.LeveledUp() {
		if err := s.bus.Publish(ctx, event.NewLevelUpEvent(wallet, stats.Level, outcome.Level, "boss")); err != nil {
			log.Warn("Failed to publish level up event", "error", err)
		}
	}

	return &AttackResult{
		Damage:      damage,
		Critical:    critical,
		Narrative:   narrative,
		BossHealth:  health,
		Defeated:    defeated,
		XPAwarded:   xpAward,
		GoldAwarded: goldAward,
		LeveledUp:   outcome.LeveledUp(),
		NewLevel:    outcome.Level,
	}, nil
}

// resolveDamage asks the narrative collaborator first and falls back to the
// deterministic formula when it is unavailable or returns a useless roll.
func (s *service) resolveDamage(ctx context.Context, stats *domain.CharacterStats, boss *domain.Boss) (damage int, critical bool, narrative string) {
	payload, err := s.generator.GenerateBattle(ctx, questgen.BattleRequest{
		BossName:      boss.Name,
		CharacterName: stats.Name,
		Level:         stats.Level,
		Strength:      stats.Stats.Strength,
		Agility:       stats.Stats.Agility,
	})
	if err == nil {
		questgen.SanitizeBattle(payload)
		if payload.Damage > 0 {
			return payload.Damage, payload.Critical, payload.Narrative
		}
	} else {
		logger.FromContext(ctx).Warn("Battle narrative unavailable, using fallback roll", "error", err)
	}

	critical = utils.RandomFloat() < CritChance
	base := 5.0*float64(stats.Level) + float64(stats.Stats.Strength)*2.0 + float64(stats.Stats.Agility)*1.5
	if critical {
		base *= CritMultiplier
	}
	damage = int(math.Floor(base))
	if damage < 1 {
		damage = 1
	}
	return damage, critical, ""
}

// proportionalReward scales a boss reward by the share of max health this
// attack removed, rounded half away from zero.
func proportionalReward(total, damage, maxHealth int) int {
	if maxHealth <= 0 {
		return 0
	}
	return int(math.Round(float64(total) * float64(damage) / float64(maxHealth)))
}
