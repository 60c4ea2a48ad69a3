package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/quest"
	"github.com/healthquest/healthquest/internal/testing/leaktest"
)

type fakeQuestService struct {
	quest.Service
	sweeps  atomic.Int64
	removed int64
	err     error
}

func (f *fakeQuestService) SweepExpired(_ context.Context) (int64, error) {
	f.sweeps.Add(1)
	if f.err != nil {
		return 0, f.err
	}
	return f.removed, nil
}

func TestQuestSweeper_RunsOnSchedule(t *testing.T) {
	svc := &fakeQuestService{removed: 3}
	sweeper := NewQuestSweeper(svc, 20*time.Millisecond)
	sweeper.Start()
	defer func() {
		require.NoError(t, sweeper.Shutdown(context.Background()))
	}()

	assert.Eventually(t, func() bool {
		return svc.sweeps.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestQuestSweeper_TriggerSweep(t *testing.T) {
	svc := &fakeQuestService{removed: 7}
	sweeper := NewQuestSweeper(svc, time.Hour)

	removed, err := sweeper.TriggerSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), removed)
	assert.Equal(t, int64(1), svc.sweeps.Load())
}

func TestQuestSweeper_ShutdownStopsScheduling(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)

	svc := &fakeQuestService{err: domain.ErrQuestNotFound}
	sweeper := NewQuestSweeper(svc, 10*time.Millisecond)
	sweeper.Start()

	require.NoError(t, sweeper.Shutdown(context.Background()))
	count := svc.sweeps.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, count, svc.sweeps.Load(), "no sweeps after shutdown")

	checker.Check(2)
}

func TestQuestSweeper_DefaultInterval(t *testing.T) {
	sweeper := NewQuestSweeper(&fakeQuestService{}, 0)
	assert.Equal(t, DefaultSweepInterval, sweeper.interval)
}
