package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnScheduleRunsImmediately(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var runs atomic.Int32
	err := RunOnSchedule(ctx, "@every 1h", "test", func(context.Context) error {
		runs.Add(1)
		return nil
	})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, runs.Load(), int32(1), "first run must not wait for the first tick")
}

func TestRunOnScheduleWaitsForInFlightRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var finished atomic.Bool
	err := RunOnSchedule(ctx, "@every 1h", "test", func(context.Context) error {
		cancel()
		time.Sleep(100 * time.Millisecond)
		finished.Store(true)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, finished.Load(), "return must wait for the immediate run to complete")
}

func TestRunOnScheduleBadSpec(t *testing.T) {
	err := RunOnSchedule(context.Background(), "not a cron spec", "test", func(context.Context) error {
		return nil
	})
	assert.Error(t, err)
}

func TestRunOnScheduleTaskErrorIsNotFatal(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := RunOnSchedule(ctx, "@every 1h", "test", func(context.Context) error {
		return errors.New("boom")
	})
	assert.NoError(t, err, "task errors are logged, the schedule keeps going")
}
