// Package worker hosts background maintenance loops.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/healthquest/healthquest/internal/logger"
	"github.com/healthquest/healthquest/internal/quest"
)

// QuestSweeper periodically deletes expired, never-completed personal
// quests. Reads already filter expired quests, so a missed sweep is
// invisible to users.
type QuestSweeper struct {
	questService quest.Service
	interval     time.Duration
	timer        *time.Timer
	shutdown     chan struct{}
	wg           sync.WaitGroup
	mu           sync.Mutex
}

// NewQuestSweeper creates a QuestSweeper. A non-positive interval falls back
// to DefaultSweepInterval.
func NewQuestSweeper(questService quest.Service, interval time.Duration) *QuestSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &QuestSweeper{
		questService: questService,
		interval:     interval,
		shutdown:     make(chan struct{}),
	}
}

// Start schedules the first sweep
func (w *QuestSweeper) Start() {
	w.scheduleNext()
}

func (w *QuestSweeper) scheduleNext() {
	log := logger.FromContext(context.Background())

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.interval, func() {
		select {
		case <-w.shutdown:
			return
		default:
		}
		w.executeSweep()
		w.scheduleNext()
	})
	w.mu.Unlock()

	log.Info(LogMsgQuestSweepScheduled, "next_sweep_at", time.Now().UTC().Add(w.interval))
}

// executeSweep runs one sweep in a tracked goroutine
func (w *QuestSweeper) executeSweep() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ctx := context.Background()
		log := logger.FromContext(ctx)
		log.Info(LogMsgQuestSweepStarting)

		removed, err := w.questService.SweepExpired(ctx)
		if err != nil {
			log.Error(LogMsgQuestSweepFailed, "error", err)
			return
		}
		log.Info(LogMsgQuestSweepCompleted, "removed", removed)
	}()
}

// TriggerSweep runs a sweep immediately, outside the schedule
func (w *QuestSweeper) TriggerSweep(ctx context.Context) (int64, error) {
	return w.questService.SweepExpired(ctx)
}

// Shutdown stops the timer and waits for any in-flight sweep
func (w *QuestSweeper) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down quest sweeper")

	close(w.shutdown)

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("Quest sweeper shutdown complete")
		return nil
	case <-ctx.Done():
		log.Warn("Quest sweeper shutdown timeout")
		return ctx.Err()
	}
}
