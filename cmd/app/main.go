package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/healthquest/healthquest/internal/boss"
	"github.com/healthquest/healthquest/internal/bootstrap"
	"github.com/healthquest/healthquest/internal/character"
	"github.com/healthquest/healthquest/internal/config"
	"github.com/healthquest/healthquest/internal/database"
	"github.com/healthquest/healthquest/internal/handler"
	"github.com/healthquest/healthquest/internal/identity"
	"github.com/healthquest/healthquest/internal/inventory"
	"github.com/healthquest/healthquest/internal/leaderboard"
	"github.com/healthquest/healthquest/internal/quest"
	"github.com/healthquest/healthquest/internal/questgen"
	"github.com/healthquest/healthquest/internal/server"
	"github.com/healthquest/healthquest/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	handler.InitValidator()

	dbPool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxIdle, cfg.DBMaxLife)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// Services publish through the resilient wrapper rather than the raw bus
	_, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		slog.Error("Failed to initialize event system", "error", err)
		os.Exit(1)
	}

	repos := bootstrap.InitializeRepositories(dbPool)

	catalog, err := inventory.LoadCatalog()
	if err != nil {
		slog.Error("Failed to load item catalog", "error", err)
		os.Exit(1)
	}

	generator := questgen.NewHTTPClient(cfg.GenerationURL, cfg.GenerationAPIKey, cfg.GenerationTimeout)
	issuer := identity.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	services := server.Services{
		Identity:    identity.NewService(repos.User, issuer, publisher),
		Character:   character.NewService(repos.Character, publisher),
		Quest:       quest.NewService(repos.Quest, generator, publisher),
		Boss:        boss.NewService(repos.Boss, generator, publisher),
		Inventory:   inventory.NewService(repos.Inventory, catalog, publisher),
		Leaderboard: leaderboard.NewService(repos.Leaderboard),
	}

	sweeper := worker.NewQuestSweeper(services.Quest, cfg.SweepInterval)
	sweeper.Start()

	srv := server.NewServer(cfg.Port, cfg.TrustedProxies, dbPool, services)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case sig := <-quit:
		slog.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:             srv,
		QuestSweeper:       sweeper,
		ResilientPublisher: publisher,
	})
}
