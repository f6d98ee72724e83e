package jobs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fleet/internal/jobs"
)

type fakeSweeper struct {
	calls atomic.Int32
	err   error
}

func (f *fakeSweeper) SweepExpired(_ context.Context) (int, error) {
	f.calls.Add(1)

	if f.err != nil {
		return 0, f.err
	}

	return 1, nil
}

func TestAutoReturn_RunsImmediatelyAndPeriodically(t *testing.T) {
	sweeper := &fakeSweeper{}
	job := jobs.NewAutoReturn(sweeper, 20*time.Millisecond)

	job.Start(context.Background())

	assert.Eventually(t, func() bool {
		return sweeper.calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	job.Stop()
}

func TestAutoReturn_StopHaltsSweeping(t *testing.T) {
	sweeper := &fakeSweeper{}
	job := jobs.NewAutoReturn(sweeper, 10*time.Millisecond)

	job.Start(context.Background())
	job.Stop()

	settled := sweeper.calls.Load()
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, settled, sweeper.calls.Load())
}

func TestAutoReturn_SweepErrorsDoNotStopTheJob(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("store unavailable")}
	job := jobs.NewAutoReturn(sweeper, 10*time.Millisecond)

	job.Start(context.Background())

	assert.Eventually(t, func() bool {
		return sweeper.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	job.Stop()
}

func TestAutoReturn_ContextCancelStops(t *testing.T) {
	sweeper := &fakeSweeper{}
	job := jobs.NewAutoReturn(sweeper, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx)
	cancel()

	assert.Eventually(t, func() bool {
		settled := sweeper.calls.Load()
		time.Sleep(30 * time.Millisecond)

		return settled == sweeper.calls.Load()
	}, time.Second, time.Millisecond)
}

func TestAutoReturn_DefaultInterval(t *testing.T) {
	job := jobs.NewAutoReturn(&fakeSweeper{}, 0)

	assert.NotNil(t, job)
}
