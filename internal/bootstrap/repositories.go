package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthquest/healthquest/internal/database/postgres"
	"github.com/healthquest/healthquest/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	User        repository.User
	Character   repository.Character
	Quest       repository.Quest
	Boss        repository.Boss
	Inventory   repository.Inventory
	Leaderboard repository.Leaderboard
}

// InitializeRepositories creates all repository implementations.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:        postgres.NewUserRepository(dbPool),
		Character:   postgres.NewCharacterRepository(dbPool),
		Quest:       postgres.NewQuestRepository(dbPool),
		Boss:        postgres.NewBossRepository(dbPool),
		Inventory:   postgres.NewInventoryRepository(dbPool),
		Leaderboard: postgres.NewLeaderboardRepository(dbPool),
	}
}
