package bootstrap

import (
	"context"
	"log/slog"

	"github.com/healthquest/healthquest/internal/event"
	"github.com/healthquest/healthquest/internal/server"
	"github.com/healthquest/healthquest/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	QuestSweeper       *worker.QuestSweeper
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in order:
// 1. HTTP server (stop accepting new requests)
// 2. Quest sweeper (cancel pending timers, wait for a running sweep)
// 3. Event publisher (release the dead-letter file)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.QuestSweeper != nil {
		if err := components.QuestSweeper.Shutdown(ctx); err != nil {
			slog.Error(LogMsgSweeperShutdownFailed, "error", err)
		}
	}

	slog.Info(LogMsgShuttingDownEventPublisher)
	if err := components.ResilientPublisher.Close(); err != nil {
		slog.Error(LogMsgPublisherCloseFailed, "error", err)
	}

	slog.Info(LogMsgServerStopped)
}
