package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_Drain(t *testing.T) {
	loop := NewLoop()
	var order []int

	loop.Microtask(func() {
		order = append(order, 1)
		loop.Microtask(func() { order = append(order, 3) })
	})
	loop.Microtask(func() { order = append(order, 2) })

	require.Equal(t, 3, loop.Drain())
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Zero(t, loop.Drain())
}

func TestLoop_Frame(t *testing.T) {
	loop := NewLoop()
	calls := 0

	loop.RequestFrame(func() {
		calls++
		loop.RequestFrame(func() { calls++ })
	})

	assert.Equal(t, 1, loop.Frame())
	assert.Equal(t, 1, calls)

	_, frames := loop.Pending()
	assert.Equal(t, 1, frames)

	loop.Frame()
	assert.Equal(t, 2, calls)
}

func TestLoop_Run(t *testing.T) {
	loop := NewLoop()
	done := make(chan struct{})
	loop.RequestFrame(func() { close(done) })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	errs := make(chan error, 1)
	go func() { errs <- loop.Run(ctx, time.Millisecond) }()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("frame callback never ran")
	}
	cancel()
	require.ErrorIs(t, <-errs, context.Canceled)
}

func TestLiveness_Guard(t *testing.T) {
	var live Liveness
	ran := 0

	fn := live.Guard(func() { ran++ })
	fn()
	assert.Equal(t, 1, ran)

	stale := live.Guard(func() { ran++ })
	live.Bump()
	stale()
	assert.Equal(t, 1, ran)
	assert.False(t, live.Alive(0))
}
