package writer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayedTask_RescheduleKeepsOnlyLast(t *testing.T) {
	var runs atomic.Int32
	task := NewDelayedTask(func() { runs.Add(1) })

	for i := 0; i < 5; i++ {
		task.Reschedule(20 * time.Millisecond)
		time.Sleep(5 * time.Millisecond)
	}
	assert.True(t, task.Pending())

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
	assert.False(t, task.Pending())
}

func TestDelayedTask_Cancel(t *testing.T) {
	var runs atomic.Int32
	task := NewDelayedTask(func() { runs.Add(1) })

	task.Reschedule(10 * time.Millisecond)
	assert.True(t, task.Cancel())
	assert.False(t, task.Cancel())

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
}

func TestDelayedTask_Fire(t *testing.T) {
	var runs atomic.Int32
	task := NewDelayedTask(func() { runs.Add(1) })

	assert.False(t, task.Fire())
	task.Reschedule(time.Hour)
	assert.True(t, task.Fire())
	assert.Equal(t, int32(1), runs.Load())
	assert.False(t, task.Pending())
}

func TestDelayedTask_SettleWaitsForExpiredRun(t *testing.T) {
	entered := make(chan struct{})
	gate := make(chan struct{})
	var runs atomic.Int32
	task := NewDelayedTask(func() {
		close(entered)
		<-gate
		runs.Add(1)
	})

	require.NoError(t, task.Settle(context.Background()))

	task.Reschedule(time.Millisecond)
	<-entered
	assert.False(t, task.Pending())
	assert.False(t, task.Fire())

	settled := make(chan error, 1)
	go func() { settled <- task.Settle(context.Background()) }()
	select {
	case <-settled:
		t.Fatal("settle returned while the run was in progress")
	case <-time.After(20 * time.Millisecond):
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, task.Settle(ctx), context.Canceled)

	close(gate)
	require.NoError(t, <-settled)
	assert.Equal(t, int32(1), runs.Load())
}
