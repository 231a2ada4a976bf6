package script

import (
	"math"

	"github.com/raykavin/chartscript/pkg/axis"
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/draw"
	"github.com/raykavin/chartscript/pkg/schedule"
)

// AutoRange fits the value axis of a secondary pane to the values a script
// draws. Values fold into a running extent during a pass; the first value of
// a pass schedules a single microtask applying the bounds and rebuilding the
// axis labels.
type AutoRange struct {
	y        axis.Y
	loop     *schedule.Loop
	live     *schedule.Liveness
	override draw.Override
	measure  func(string) float64

	min, max float64
	pending  bool
	rebuilds int
}

// NewAutoRange creates the scheduler of one script on axis y
func NewAutoRange(y axis.Y, loop *schedule.Loop, live *schedule.Liveness, override draw.Override, measure func(string) float64) *AutoRange {
	a := &AutoRange{y: y, loop: loop, live: live, override: override, measure: measure}
	a.Reset()
	return a
}

// Reset starts a new pass
func (a *AutoRange) Reset() {
	a.min, a.max = math.Inf(1), math.Inf(-1)
}

// Observe folds values into the running extent
func (a *AutoRange) Observe(values ...float64) {
	for _, v := range values {
		if !core.Valid(v) {
			continue
		}
		a.min = math.Min(a.min, v)
		a.max = math.Max(a.max, v)
	}
	a.schedule()
}

// End closes a pass, scheduling a rebuild for override-only bounds
func (a *AutoRange) End() {
	if a.override.Min != nil || a.override.Max != nil {
		a.schedule()
	}
}

// Bounds returns the bounds to apply: the override where set, the running
// extent otherwise. Unknown bounds keep the current axis value; ok is false
// when neither bound is known.
func (a *AutoRange) Bounds() (min, max float64, ok bool) {
	min, max = a.y.Range()
	known := false

	if a.override.Min != nil {
		min, known = *a.override.Min, true
	} else if !math.IsInf(a.min, 0) {
		min, known = a.min, true
	}

	if a.override.Max != nil {
		max, known = *a.override.Max, true
	} else if !math.IsInf(a.max, 0) {
		max, known = a.max, true
	}
	return min, max, known
}

// Rebuilds returns the number of rebuilds executed
func (a *AutoRange) Rebuilds() int { return a.rebuilds }

func (a *AutoRange) schedule() {
	if a.pending {
		return
	}
	a.pending = true
	a.loop.Microtask(a.live.Guard(a.rebuild))
}

func (a *AutoRange) rebuild() {
	a.pending = false

	min, max, ok := a.Bounds()
	if !ok {
		return
	}
	a.y.SetRange(min, max)
	a.y.Rebuild(a.measure)
	a.rebuilds++
}
