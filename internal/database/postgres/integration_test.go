package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/healthquest/healthquest/internal/database"
	"github.com/healthquest/healthquest/internal/database/migrations"
	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/repository"
)

const testWallet = "0xabc123abc123abc123abc123abc123abc123abc1"

func startTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	var container *pgcontainer.PostgresContainer
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("Skipping integration test due to panic (likely Docker issue): %v", r)
			}
		}()
		container, err = pgcontainer.Run(ctx,
			"postgres:15-alpine",
			pgcontainer.WithDatabase("testdb"),
			pgcontainer.WithUsername("testuser"),
			pgcontainer.WithPassword("testpass"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(5*time.Second)),
		)
	}()
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	if container == nil {
		t.Skip("container unavailable")
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := database.NewPool(connStr, 4, time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := applyMigrations(ctx, pool); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	return pool
}

// applyMigrations executes the embedded goose migrations in order, up
// sections only
func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		return fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := migrations.FS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		sql := string(content)
		if downIdx := strings.Index(sql, "-- +goose Down"); downIdx != -1 {
			sql = sql[:downIdx]
		}
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
	}
	return nil
}

func seedUserAndCharacter(ctx context.Context, t *testing.T, pool *pgxpool.Pool, wallet string, gold int) {
	t.Helper()
	users := NewUserRepository(pool)
	if _, err := users.GetOrCreate(ctx, &domain.User{WalletAddress: wallet, Username: "tester", Gold: gold}); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	chars := NewCharacterRepository(pool)
	if err := chars.Create(ctx, domain.NewCharacterStats(wallet, "Tester", "champion")); err != nil {
		t.Fatalf("failed to seed character: %v", err)
	}
}

func TestRepositories_Integration(t *testing.T) {
	pool := startTestDB(t)
	ctx := context.Background()

	users := NewUserRepository(pool)
	chars := NewCharacterRepository(pool)
	quests := NewQuestRepository(pool)

	t.Run("GetOrCreate is idempotent", func(t *testing.T) {
		created, err := users.GetOrCreate(ctx, &domain.User{WalletAddress: testWallet, Username: "alice", Gold: 500})
		if err != nil {
			t.Fatalf("GetOrCreate failed: %v", err)
		}
		if !created {
			t.Error("expected first call to create the user")
		}

		created, err = users.GetOrCreate(ctx, &domain.User{WalletAddress: testWallet, Username: "someone-else", Gold: 999})
		if err != nil {
			t.Fatalf("GetOrCreate failed: %v", err)
		}
		if created {
			t.Error("expected second call to return the existing user")
		}

		got, err := users.Get(ctx, testWallet)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Username != "alice" {
			t.Errorf("expected original username to survive, got %s", got.Username)
		}
		if got.Gold != 500 {
			t.Errorf("expected original gold to survive, got %d", got.Gold)
		}
	})

	t.Run("Character create and duplicate", func(t *testing.T) {
		stats := domain.NewCharacterStats(testWallet, "Alice", "champion")
		if err := chars.Create(ctx, stats); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		err := chars.Create(ctx, domain.NewCharacterStats(testWallet, "Alice2", "champion"))
		if !errors.Is(err, domain.ErrCharacterExists) {
			t.Errorf("expected ErrCharacterExists, got %v", err)
		}

		got, err := chars.Get(ctx, testWallet)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Level != domain.BaseLevel || got.Energy != domain.MaxEnergy {
			t.Errorf("unexpected fresh character state: level=%d energy=%d", got.Level, got.Energy)
		}
		if got.Stats.Strength != domain.BaseStatValue {
			t.Errorf("expected base strength %d, got %d", domain.BaseStatValue, got.Stats.Strength)
		}
	})

	t.Run("AllocateStatPoints guards the pool", func(t *testing.T) {
		_, err := chars.AllocateStatPoints(ctx, testWallet, map[string]int{domain.StatStrength: 1}, 1)
		if !errors.Is(err, domain.ErrInsufficientPoints) {
			t.Errorf("expected ErrInsufficientPoints with an empty pool, got %v", err)
		}
	})

	t.Run("Energy deduction and gold debit in tx", func(t *testing.T) {
		tx, err := chars.BeginTx(ctx)
		if err != nil {
			t.Fatalf("BeginTx failed: %v", err)
		}
		defer repository.SafeRollback(ctx, tx)

		energy, err := tx.DeductEnergy(ctx, testWallet, 25)
		if err != nil {
			t.Fatalf("DeductEnergy failed: %v", err)
		}
		if energy != 75 {
			t.Errorf("expected energy 75, got %d", energy)
		}

		_, err = tx.DeductEnergy(ctx, testWallet, 1000)
		if !errors.Is(err, domain.ErrInsufficientEnergy) {
			t.Fatalf("expected ErrInsufficientEnergy, got %v", err)
		}
	})

	t.Run("DebitGold refuses overdraft", func(t *testing.T) {
		tx, err := chars.BeginTx(ctx)
		if err != nil {
			t.Fatalf("BeginTx failed: %v", err)
		}
		defer repository.SafeRollback(ctx, tx)

		_, err = tx.DebitGold(ctx, testWallet, 10_000)
		if !errors.Is(err, domain.ErrInsufficientGold) {
			t.Errorf("expected ErrInsufficientGold, got %v", err)
		}
	})

	t.Run("Quest lifecycle", func(t *testing.T) {
		expires := time.Now().Add(time.Hour)
		quest := &domain.Quest{
			WalletAddress:    testWallet,
			Scope:            domain.QuestScopePersonal,
			Title:            "Morning run",
			Category:         domain.QuestCategoryCardio,
			Difficulty:       domain.QuestDifficultyEasy,
			Objective:        domain.QuestObjective{Description: "Run", Target: 20, Unit: "minutes"},
			Rewards:          domain.QuestRewards{XP: 50, Gold: 25},
			EstimatedMinutes: 20,
			ExpiresAt:        &expires,
		}
		tx, err := quests.BeginTx(ctx)
		if err != nil {
			t.Fatalf("BeginTx failed: %v", err)
		}
		if err := tx.InsertQuest(ctx, quest); err != nil {
			t.Fatalf("InsertQuest failed: %v", err)
		}
		if err := tx.Commit(ctx); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		if quest.ID == "" {
			t.Fatal("expected quest ID to be set")
		}

		started, err := quests.StartQuest(ctx, testWallet, quest.ID, time.Now())
		if err != nil {
			t.Fatalf("StartQuest failed: %v", err)
		}
		if !started.Active || started.StartedAt == nil {
			t.Error("expected quest to be active with a start time")
		}

		_, err = quests.StartQuest(ctx, testWallet, quest.ID, time.Now())
		if !errors.Is(err, domain.ErrQuestActive) {
			t.Errorf("expected ErrQuestActive on restart, got %v", err)
		}

		listed, err := quests.ListForWallet(ctx, testWallet, time.Now())
		if err != nil {
			t.Fatalf("ListForWallet failed: %v", err)
		}
		if len(listed) != 1 {
			t.Errorf("expected 1 quest, got %d", len(listed))
		}
	})

	t.Run("Second quest cannot start while one is active", func(t *testing.T) {
		quest := &domain.Quest{
			WalletAddress:    testWallet,
			Scope:            domain.QuestScopePersonal,
			Title:            "Evening stretch",
			Category:         domain.QuestCategoryFlexibility,
			Difficulty:       domain.QuestDifficultyEasy,
			Objective:        domain.QuestObjective{Description: "Stretch", Target: 10, Unit: "minutes"},
			Rewards:          domain.QuestRewards{XP: 30, Gold: 10},
			EstimatedMinutes: 10,
		}
		tx, err := quests.BeginTx(ctx)
		if err != nil {
			t.Fatalf("BeginTx failed: %v", err)
		}
		if err := tx.InsertQuest(ctx, quest); err != nil {
			t.Fatalf("InsertQuest failed: %v", err)
		}
		if err := tx.Commit(ctx); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}

		_, err = quests.StartQuest(ctx, testWallet, quest.ID, time.Now())
		if !errors.Is(err, domain.ErrQuestAlreadyActive) {
			t.Errorf("expected ErrQuestAlreadyActive, got %v", err)
		}
	})

	t.Run("DeleteExpired removes stale quests", func(t *testing.T) {
		past := time.Now().Add(-time.Minute)
		quest := &domain.Quest{
			WalletAddress:    testWallet,
			Scope:            domain.QuestScopePersonal,
			Title:            "Stale quest",
			Category:         domain.QuestCategoryCardio,
			Difficulty:       domain.QuestDifficultyEasy,
			Objective:        domain.QuestObjective{Description: "Walk", Target: 100, Unit: "steps"},
			EstimatedMinutes: 5,
			ExpiresAt:        &past,
		}
		tx, err := quests.BeginTx(ctx)
		if err != nil {
			t.Fatalf("BeginTx failed: %v", err)
		}
		if err := tx.InsertQuest(ctx, quest); err != nil {
			t.Fatalf("InsertQuest failed: %v", err)
		}
		if err := tx.Commit(ctx); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}

		deleted, err := quests.DeleteExpired(ctx, time.Now())
		if err != nil {
			t.Fatalf("DeleteExpired failed: %v", err)
		}
		if deleted < 1 {
			t.Errorf("expected at least 1 deleted quest, got %d", deleted)
		}

		_, err = quests.Get(ctx, quest.ID)
		if !errors.Is(err, domain.ErrQuestNotFound) {
			t.Errorf("expected ErrQuestNotFound after sweep, got %v", err)
		}
	})
}

func insertPersonalQuest(ctx context.Context, t *testing.T, quests *QuestRepository, wallet, title string) *domain.Quest {
	t.Helper()
	quest := &domain.Quest{
		WalletAddress:    wallet,
		Scope:            domain.QuestScopePersonal,
		Title:            title,
		Category:         domain.QuestCategoryCardio,
		Difficulty:       domain.QuestDifficultyEasy,
		Objective:        domain.QuestObjective{Description: "Run", Target: 10, Unit: "minutes"},
		EstimatedMinutes: 10,
	}
	tx, err := quests.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx failed: %v", err)
	}
	if err := tx.InsertQuest(ctx, quest); err != nil {
		t.Fatalf("InsertQuest failed: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	return quest
}

func TestStartQuest_ConcurrentStartLosesCleanly(t *testing.T) {
	pool := startTestDB(t)
	ctx := context.Background()

	const wallet = "0x0ace0000000000000000000000000000000000a2"
	seedUserAndCharacter(ctx, t, pool, wallet, 100)

	quests := NewQuestRepository(pool)
	questA := insertPersonalQuest(ctx, t, quests, wallet, "Track sprints")
	questB := insertPersonalQuest(ctx, t, quests, wallet, "Hill repeats")

	// Hold quest A's activation uncommitted so a parallel start of quest B
	// passes the NOT EXISTS guard and collides with the partial unique
	// index instead.
	tx, err := pool.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE quests SET active = TRUE, started_at = NOW() WHERE quest_id = $1`, questA.ID); err != nil {
		t.Fatalf("failed to activate quest A: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, startErr := quests.StartQuest(ctx, wallet, questB.ID, time.Now())
		done <- startErr
	}()

	time.Sleep(100 * time.Millisecond)
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if err := <-done; !errors.Is(err, domain.ErrQuestAlreadyActive) {
		t.Errorf("expected ErrQuestAlreadyActive from the losing start, got %v", err)
	}
}

func TestBossRepository_Integration(t *testing.T) {
	pool := startTestDB(t)
	ctx := context.Background()

	const wallet = "0xb055000000000000000000000000000000000001"
	seedUserAndCharacter(ctx, t, pool, wallet, 1000)

	bosses := NewBossRepository(pool)

	_, err := bosses.ActiveBoss(ctx)
	if !errors.Is(err, domain.ErrBossNotFound) {
		t.Fatalf("expected ErrBossNotFound with empty table, got %v", err)
	}

	var bossID string
	err = pool.QueryRow(ctx, `
		INSERT INTO bosses (boss_name, description, max_health, current_health, reward_xp, reward_gold, min_level, active)
		VALUES ('Couch Potato King', 'A sedentary tyrant', 1000, 1000, 500, 250, 1, TRUE)
		RETURNING boss_id
	`).Scan(&bossID)
	if err != nil {
		t.Fatalf("failed to seed boss: %v", err)
	}

	boss, err := bosses.ActiveBoss(ctx)
	if err != nil {
		t.Fatalf("ActiveBoss failed: %v", err)
	}
	if boss.Name != "Couch Potato King" {
		t.Errorf("unexpected boss name %s", boss.Name)
	}

	t.Run("ApplyDamage floors at zero and flips defeated once", func(t *testing.T) {
		tx, err := bosses.BeginTx(ctx)
		if err != nil {
			t.Fatalf("BeginTx failed: %v", err)
		}
		health, defeated, err := tx.ApplyDamage(ctx, bossID, 400)
		if err != nil {
			t.Fatalf("ApplyDamage failed: %v", err)
		}
		if health != 600 || defeated {
			t.Errorf("expected health 600 and alive, got health=%d defeated=%v", health, defeated)
		}

		health, defeated, err = tx.ApplyDamage(ctx, bossID, 9999)
		if err != nil {
			t.Fatalf("ApplyDamage failed: %v", err)
		}
		if health != 0 || !defeated {
			t.Errorf("expected health 0 and defeated, got health=%d defeated=%v", health, defeated)
		}
		if err := tx.Commit(ctx); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}

		// Defeated boss no longer accepts damage
		tx2, err := bosses.BeginTx(ctx)
		if err != nil {
			t.Fatalf("BeginTx failed: %v", err)
		}
		defer repository.SafeRollback(ctx, tx2)
		_, _, err = tx2.ApplyDamage(ctx, bossID, 10)
		if !errors.Is(err, domain.ErrBossNotFound) {
			t.Errorf("expected ErrBossNotFound for defeated boss, got %v", err)
		}
	})

	t.Run("Damage records accumulate", func(t *testing.T) {
		tx, err := bosses.BeginTx(ctx)
		if err != nil {
			t.Fatalf("BeginTx failed: %v", err)
		}
		record := &domain.BossDamageRecord{
			WalletAddress: wallet,
			BossID:        bossID,
			Damage:        400,
			XPAwarded:     200,
			GoldAwarded:   100,
			Narrative:     "A mighty blow",
		}
		if err := tx.InsertDamageRecord(ctx, record); err != nil {
			t.Fatalf("InsertDamageRecord failed: %v", err)
		}
		if err := tx.Commit(ctx); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}

		records, err := bosses.DamageRecords(ctx, bossID, 10)
		if err != nil {
			t.Fatalf("DamageRecords failed: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}
		if records[0].Damage != 400 {
			t.Errorf("expected damage 400, got %d", records[0].Damage)
		}
	})
}

func TestInventoryRepository_Integration(t *testing.T) {
	pool := startTestDB(t)
	ctx := context.Background()

	const wallet = "0x1e700000000000000000000000000000000000a1"
	seedUserAndCharacter(ctx, t, pool, wallet, 1000)

	inv := NewInventoryRepository(pool)

	t.Run("Equip invariant holds per slot", func(t *testing.T) {
		tx, err := inv.BeginTx(ctx)
		if err != nil {
			t.Fatalf("BeginTx failed: %v", err)
		}
		sword := &domain.InventoryItem{
			WalletAddress: wallet,
			ItemKey:       "iron_dumbbell",
			Name:          "Iron Dumbbell",
			Slot:          domain.SlotWeapon,
			Rarity:        domain.RarityCommon,
			Bonuses:       map[string]int{domain.StatStrength: 2},
			PurchasePrice: 100,
		}
		if err := tx.InsertItem(ctx, sword); err != nil {
			t.Fatalf("InsertItem failed: %v", err)
		}
		if err := tx.SetEquipped(ctx, sword.ID, true); err != nil {
			t.Fatalf("SetEquipped failed: %v", err)
		}

		equipped, err := tx.GetEquippedInSlot(ctx, wallet, domain.SlotWeapon)
		if err != nil {
			t.Fatalf("GetEquippedInSlot failed: %v", err)
		}
		if equipped == nil || equipped.ID != sword.ID {
			t.Error("expected the dumbbell to be equipped in the weapon slot")
		}

		empty, err := tx.GetEquippedInSlot(ctx, wallet, domain.SlotHelmet)
		if err != nil {
			t.Fatalf("GetEquippedInSlot failed: %v", err)
		}
		if empty != nil {
			t.Error("expected the helmet slot to be empty")
		}
		if err := tx.Commit(ctx); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
	})

	t.Run("List orders equipped first", func(t *testing.T) {
		tx, err := inv.BeginTx(ctx)
		if err != nil {
			t.Fatalf("BeginTx failed: %v", err)
		}
		band := &domain.InventoryItem{
			WalletAddress: wallet,
			ItemKey:       "resistance_band",
			Name:          "Resistance Band",
			Slot:          domain.SlotAccessory,
			Rarity:        domain.RarityCommon,
			Bonuses:       map[string]int{domain.StatFlexibility: 1},
			PurchasePrice: 50,
		}
		if err := tx.InsertItem(ctx, band); err != nil {
			t.Fatalf("InsertItem failed: %v", err)
		}
		if err := tx.Commit(ctx); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}

		items, err := inv.List(ctx, wallet)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if !items[0].Equipped {
			t.Error("expected equipped item first")
		}
	})
}
