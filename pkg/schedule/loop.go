// Package schedule provides the cooperative deferral points of the runtime:
// a microtask queue drained after each synchronous pass and a frame queue
// drained once per display refresh.
package schedule

import (
	"context"
	"sync"
	"time"
)

// Loop queues deferred callbacks. Callbacks run on the goroutine calling
// Drain, Frame or Run; callbacks may schedule further callbacks.
type Loop struct {
	sync.Mutex
	microtasks []func()
	frames     []func()
}

// NewLoop creates an empty loop
func NewLoop() *Loop {
	return &Loop{}
}

// Microtask defers fn until the current synchronous pass completes
func (l *Loop) Microtask(fn func()) {
	l.Lock()
	defer l.Unlock()
	l.microtasks = append(l.microtasks, fn)
}

// RequestFrame defers fn to the next display refresh
func (l *Loop) RequestFrame(fn func()) {
	l.Lock()
	defer l.Unlock()
	l.frames = append(l.frames, fn)
}

// Pending returns the number of queued microtasks and frame callbacks
func (l *Loop) Pending() (microtasks, frames int) {
	l.Lock()
	defer l.Unlock()
	return len(l.microtasks), len(l.frames)
}

// Drain runs microtasks until the queue is empty
func (l *Loop) Drain() int {
	ran := 0
	for {
		l.Lock()
		if len(l.microtasks) == 0 {
			l.Unlock()
			return ran
		}
		fn := l.microtasks[0]
		l.microtasks = l.microtasks[1:]
		l.Unlock()

		fn()
		ran++
	}
}

// Frame runs the callbacks queued before the call, then drains microtasks.
// Callbacks requested while the frame runs wait for the next frame.
func (l *Loop) Frame() int {
	l.Drain()

	l.Lock()
	frames := l.frames
	l.frames = nil
	l.Unlock()

	for _, fn := range frames {
		fn()
		l.Drain()
	}
	return len(frames)
}

// Run executes a frame every interval until ctx is done
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Frame()
		}
	}
}
