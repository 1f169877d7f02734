package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/erp/invoicerobot/internal/application/invoicing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubRunner records run invocations and returns a canned result
type stubRunner struct {
	mu     sync.Mutex
	calls  int
	result *invoicing.RunResult
	err    error
}

func (r *stubRunner) Run(ctx context.Context) (*invoicing.RunResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.result, nil
}

func (r *stubRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func newTestScheduler(t *testing.T, runner RobotRunner, lock RunLock) *RobotScheduler {
	t.Helper()
	s, err := NewRobotScheduler(DefaultRobotSchedulerConfig(), runner, lock, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestParseCronSchedule(t *testing.T) {
	tests := []struct {
		name         string
		cronExpr     string
		expectedHour int
		expectedMin  int
	}{
		{
			name:         "Default 3am",
			cronExpr:     "0 3 * * *",
			expectedHour: 3,
			expectedMin:  0,
		},
		{
			name:         "Half past four",
			cronExpr:     "30 4 * * *",
			expectedHour: 4,
			expectedMin:  30,
		},
		{
			name:         "Midnight",
			cronExpr:     "0 0 * * *",
			expectedHour: 0,
			expectedMin:  0,
		},
		{
			name:         "Empty string defaults",
			cronExpr:     "",
			expectedHour: 3,
			expectedMin:  0,
		},
		{
			name:         "Extra whitespace",
			cronExpr:     "  15   4   *   *   *  ",
			expectedHour: 4,
			expectedMin:  15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute, err := ParseCronSchedule(tt.cronExpr)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedHour, hour, "hour mismatch")
			assert.Equal(t, tt.expectedMin, minute, "minute mismatch")
		})
	}
}

func TestParseCronSchedule_InvalidRanges(t *testing.T) {
	_, _, err := ParseCronSchedule("75 3 * * *")
	assert.Error(t, err)

	_, _, err = ParseCronSchedule("0 24 * * *")
	assert.Error(t, err)
}

func TestNewRobotScheduler_Validation(t *testing.T) {
	cfg := DefaultRobotSchedulerConfig()
	cfg.LockTTL = cfg.RunTimeout // TTL must exceed timeout

	_, err := NewRobotScheduler(cfg, &stubRunner{}, NewInMemoryRunLock(), zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestInMemoryRunLock(t *testing.T) {
	ctx := context.Background()
	lock := NewInMemoryRunLock()

	t.Run("acquire and contend", func(t *testing.T) {
		ok, err := lock.Acquire(ctx, "run", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = lock.Acquire(ctx, "run", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok, "second acquire should fail while lock is held")
	})

	t.Run("release frees the lock", func(t *testing.T) {
		require.NoError(t, lock.Release(ctx, "run"))

		ok, err := lock.Acquire(ctx, "run", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired lock can be retaken", func(t *testing.T) {
		ok, err := lock.Acquire(ctx, "expired", time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)

		time.Sleep(5 * time.Millisecond)

		ok, err = lock.Acquire(ctx, "expired", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestRobotScheduler_StartStop(t *testing.T) {
	ctx := context.Background()
	s := newTestScheduler(t, &stubRunner{result: &invoicing.RunResult{}}, NewInMemoryRunLock())

	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())

	// Idempotent start
	require.NoError(t, s.Start(ctx))

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))
	assert.False(t, s.IsRunning())

	// Idempotent stop
	require.NoError(t, s.Stop(stopCtx))
}

func TestRobotScheduler_DisabledDoesNotStart(t *testing.T) {
	cfg := DefaultRobotSchedulerConfig()
	cfg.Enabled = false

	s, err := NewRobotScheduler(cfg, &stubRunner{}, NewInMemoryRunLock(), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestRobotScheduler_TriggerImmediateRun(t *testing.T) {
	ctx := context.Background()
	runner := &stubRunner{result: &invoicing.RunResult{InvoicesCreated: 2}}
	s := newTestScheduler(t, runner, NewInMemoryRunLock())

	t.Run("not running", func(t *testing.T) {
		err := s.TriggerImmediateRun(ctx)
		assert.ErrorIs(t, err, ErrSchedulerNotRunning)
		assert.Equal(t, 0, runner.callCount())
	})

	require.NoError(t, s.Start(ctx))
	defer func() {
		stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = s.Stop(stopCtx)
	}()

	t.Run("runs and releases the lock", func(t *testing.T) {
		require.NoError(t, s.TriggerImmediateRun(ctx))
		assert.Equal(t, 1, runner.callCount())

		// Lock was released, a second trigger runs again
		require.NoError(t, s.TriggerImmediateRun(ctx))
		assert.Equal(t, 2, runner.callCount())
	})

	t.Run("held lock skips the run", func(t *testing.T) {
		lock := NewInMemoryRunLock()
		ok, err := lock.Acquire(ctx, runLockKey, time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		contended := newTestScheduler(t, runner, lock)
		require.NoError(t, contended.Start(ctx))
		defer func() {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			_ = contended.Stop(stopCtx)
		}()

		before := runner.callCount()
		err = contended.TriggerImmediateRun(ctx)
		assert.ErrorIs(t, err, ErrRunAlreadyInProgress)
		assert.Equal(t, before, runner.callCount())
	})

	t.Run("runner error surfaces and releases the lock", func(t *testing.T) {
		failing := &stubRunner{err: errors.New("database unavailable")}
		lock := NewInMemoryRunLock()
		s := newTestScheduler(t, failing, lock)
		require.NoError(t, s.Start(ctx))
		defer func() {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			_ = s.Stop(stopCtx)
		}()

		err := s.TriggerImmediateRun(ctx)
		assert.EqualError(t, err, "database unavailable")

		ok, lockErr := lock.Acquire(ctx, runLockKey, time.Minute)
		require.NoError(t, lockErr)
		assert.True(t, ok, "lock should be free after a failed run")
	})
}
