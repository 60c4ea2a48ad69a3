// Command seed loads the initial shared content: the active boss and the
// standing server quests. Safe to run repeatedly; existing content is kept.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/healthquest/healthquest/internal/config"
)

type serverQuest struct {
	title       string
	description string
	category    string
	difficulty  string
	objective   string
	target      int
	unit        string
	rewardXP    int
	rewardGold  int
	energyCost  int
	estMinutes  int
}

var serverQuests = []serverQuest{
	{
		title:       "First Steps",
		description: "Every adventure starts with a single walk around the block.",
		category:    "cardio",
		difficulty:  "easy",
		objective:   "Walk for 15 minutes",
		target:      15,
		unit:        "minutes",
		rewardXP:    40,
		rewardGold:  20,
		energyCost:  10,
		estMinutes:  15,
	},
	{
		title:       "Iron Initiation",
		description: "Prove your strength with a full-body resistance session.",
		category:    "strength",
		difficulty:  "medium",
		objective:   "Complete 3 sets of 10 push-ups",
		target:      30,
		unit:        "reps",
		rewardXP:    80,
		rewardGold:  40,
		energyCost:  20,
		estMinutes:  20,
	},
	{
		title:       "Bend, Don't Break",
		description: "A guided stretching routine to keep the joints honest.",
		category:    "flexibility",
		difficulty:  "easy",
		objective:   "Stretch for 10 minutes",
		target:      10,
		unit:        "minutes",
		rewardXP:    35,
		rewardGold:  15,
		energyCost:  10,
		estMinutes:  10,
	},
	{
		title:       "The Long Haul",
		description: "Sustained effort is the only way past the plateau.",
		category:    "endurance",
		difficulty:  "hard",
		objective:   "Run or cycle for 45 minutes",
		target:      45,
		unit:        "minutes",
		rewardXP:    150,
		rewardGold:  75,
		energyCost:  30,
		estMinutes:  45,
	},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.GetDBConnString())
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	if err := seedBoss(ctx, conn); err != nil {
		log.Fatalf("Failed to seed boss: %v", err)
	}

	if err := seedServerQuests(ctx, conn); err != nil {
		log.Fatalf("Failed to seed server quests: %v", err)
	}

	fmt.Println("Seeding completed.")
}

// seedBoss inserts the launch boss unless an active one already exists.
func seedBoss(ctx context.Context, conn *pgx.Conn) error {
	var exists bool
	err := conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM bosses WHERE active AND NOT defeated)").Scan(&exists)
	if err != nil {
		return fmt.Errorf("check for active boss: %w", err)
	}
	if exists {
		fmt.Println("Active boss already present, skipping.")
		return nil
	}

	_, err = conn.Exec(ctx, `
		INSERT INTO bosses (boss_name, description, max_health, current_health,
			damage, defense, reward_xp, reward_gold, min_level, active)
		VALUES ($1, $2, $3, $3, $4, $5, $6, $7, $8, TRUE)`,
		"Couch Potato King",
		"A monarch of inactivity. Only collective sweat can topple his throne.",
		10000, 50, 20, 500, 200, 3)
	if err != nil {
		return fmt.Errorf("insert boss: %w", err)
	}

	fmt.Println("Seeded boss: Couch Potato King")
	return nil
}

// seedServerQuests inserts the standing server quests, keyed by title so
// reruns do not duplicate them.
func seedServerQuests(ctx context.Context, conn *pgx.Conn) error {
	for _, q := range serverQuests {
		tag, err := conn.Exec(ctx, `
			INSERT INTO quests (scope, title, description, category, difficulty,
				objective_description, objective_target, objective_unit,
				reward_xp, reward_gold, energy_cost, estimated_minutes, active)
			SELECT 'server', $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE
			WHERE NOT EXISTS (
				SELECT 1 FROM quests WHERE scope = 'server' AND title = $1
			)`,
			q.title, q.description, q.category, q.difficulty,
			q.objective, q.target, q.unit,
			q.rewardXP, q.rewardGold, q.energyCost, q.estMinutes)
		if err != nil {
			return fmt.Errorf("insert server quest %q: %w", q.title, err)
		}
		if tag.RowsAffected() > 0 {
			fmt.Printf("Seeded server quest: %s\n", q.title)
		}
	}
	return nil
}
