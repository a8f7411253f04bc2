package roster_test

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pvf-engine/roster"
)

type countingRefresher struct {
	calls atomic.Int64
	err   error
}

func (c *countingRefresher) Refresh(context.Context) (*roster.Run, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &roster.Run{}, nil
}

func TestScheduler_RefreshesUntilCancelled(t *testing.T) {
	// GIVEN: A scheduler ticking every 5ms
	ref := &countingRefresher{}
	sched := &roster.Scheduler{Refresher: ref, Interval: 5 * time.Millisecond, Log: zerolog.New(io.Discard)}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	// WHEN: It has refreshed a few times and is cancelled
	require.Eventually(t, func() bool { return ref.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	// THEN: Run returns nil
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Zero(t, sched.Failures())
}

func TestScheduler_CountsFailures(t *testing.T) {
	ref := &countingRefresher{err: errors.New("feed down")}
	sched := &roster.Scheduler{Refresher: ref, Interval: 5 * time.Millisecond, Log: zerolog.New(io.Discard)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sched.Run(ctx)

	assert.Eventually(t, func() bool { return sched.Failures() >= 2 }, time.Second, time.Millisecond)
}

func TestScheduler_DisabledInterval(t *testing.T) {
	ref := &countingRefresher{}
	sched := &roster.Scheduler{Refresher: ref}

	err := sched.Run(context.Background())

	assert.NoError(t, err)
	assert.Zero(t, ref.calls.Load())
}
