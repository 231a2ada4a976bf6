package schedule

import "sync/atomic"

// Liveness is a generation counter owned by a script instance or pane.
// Deferred callbacks capture the generation when scheduled and are skipped
// when the owner was disposed in between.
type Liveness struct {
	generation atomic.Uint64
}

// Current returns the live generation
func (l *Liveness) Current() uint64 {
	return l.generation.Load()
}

// Bump invalidates every token issued so far
func (l *Liveness) Bump() {
	l.generation.Add(1)
}

// Alive reports whether a token captured at generation gen is still valid
func (l *Liveness) Alive(gen uint64) bool {
	return l.generation.Load() == gen
}

// Guard wraps fn so it runs only if the owner is still at the current generation
func (l *Liveness) Guard(fn func()) func() {
	gen := l.Current()
	return func() {
		if l.Alive(gen) {
			fn()
		}
	}
}
