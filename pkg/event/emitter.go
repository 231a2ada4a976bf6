package event

import (
	"time"

	"github.com/raykavin/chartscript/pkg/dedup"
	"github.com/raykavin/chartscript/pkg/logger"
)

// DefaultWindow is the wall clock window deduplicating order close and
// update requests
const DefaultWindow = time.Second

// Emitter emits the notifications of one script instance. Signals and order
// opens are suppressed on the bar they already fired on; order closes and
// updates within a wall clock window. All kinds share one bounded cache,
// created on first use.
type Emitter struct {
	script   string
	symbol   string
	capacity int
	window   time.Duration
	clock    func() time.Time
	sinks    []Sink
	log      logger.Logger

	cache *dedup.Cache
}

// EmitterOption configures an Emitter
type EmitterOption func(*Emitter)

// WithSink adds a sink receiving every emitted record
func WithSink(sink Sink) EmitterOption {
	return func(e *Emitter) {
		e.sinks = append(e.sinks, sink)
	}
}

// WithClock replaces the wall clock
func WithClock(clock func() time.Time) EmitterOption {
	return func(e *Emitter) {
		e.clock = clock
	}
}

// WithWindow sets the order close/update window
func WithWindow(window time.Duration) EmitterOption {
	return func(e *Emitter) {
		e.window = window
	}
}

// WithCapacity sets the dedup cache capacity
func WithCapacity(capacity int) EmitterOption {
	return func(e *Emitter) {
		e.capacity = capacity
	}
}

// WithSymbol stamps records with the instrument symbol
func WithSymbol(symbol string) EmitterOption {
	return func(e *Emitter) {
		e.symbol = symbol
	}
}

// WithLogger sets the emitter logger
func WithLogger(log logger.Logger) EmitterOption {
	return func(e *Emitter) {
		e.log = log
	}
}

// NewEmitter creates the emitter of script
func NewEmitter(script string, options ...EmitterOption) *Emitter {
	e := &Emitter{
		script:   script,
		capacity: dedup.DefaultCapacity,
		window:   DefaultWindow,
		clock:    time.Now,
		log:      logger.NewNop(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Cache returns the dedup cache, creating it on first use
func (e *Emitter) Cache() *dedup.Cache {
	if e.cache == nil {
		e.cache = dedup.New(e.capacity)
	}
	return e.cache
}

// Reset drops the dedup cache
func (e *Emitter) Reset() {
	e.cache = nil
}

// Signal emits message when the last element of trigger is valid and the
// message tag did not fire on bar yet
func (e *Emitter) Signal(bar time.Time, trigger any, message any) (Record, bool) {
	if !Triggered(trigger) {
		return Record{}, false
	}

	message = evaluate(message)
	tag := Tag(message)
	if e.Cache().SameBar(string(KindSignal)+":"+tag, bar) {
		return Record{}, false
	}

	r := e.record(KindSignal, tag, bar)
	switch m := message.(type) {
	case string:
		r.Message = m
	case map[string]any:
		r.Message = tag
		r.Payload = m
	default:
		r.Message = stable(m)
	}
	return r, e.emit(r)
}

// OrderOpen emits order when trigger is truthy, the order has a side and a
// positive size, and the same order did not open on bar yet
func (e *Emitter) OrderOpen(bar time.Time, trigger any, order Order) (Record, bool) {
	if !Truthy(trigger) {
		return Record{}, false
	}
	if !order.Valid() {
		e.log.WithFields(map[string]any{"script": e.script, "type": order.Type, "num": order.Num}).
			Debug("order open ignored: invalid order")
		return Record{}, false
	}

	tag := string(order.Type)
	if order.ID != "" {
		tag += ":" + order.ID
	}
	if e.Cache().SameBar(string(KindOrderOpen)+":"+tag, bar) {
		return Record{}, false
	}

	r := e.record(KindOrderOpen, tag, bar)
	r.Payload = order.payload()
	return r, e.emit(r)
}

// OrderClose emits a close of order id unless one was emitted within the window
func (e *Emitter) OrderClose(trigger any, id string, payload map[string]any) (Record, bool) {
	return e.orderChange(KindOrderClose, trigger, id, payload)
}

// OrderUpdate emits an update of order id unless one was emitted within the window
func (e *Emitter) OrderUpdate(trigger any, id string, payload map[string]any) (Record, bool) {
	return e.orderChange(KindOrderUpdate, trigger, id, payload)
}

func (e *Emitter) orderChange(kind Kind, trigger any, id string, payload map[string]any) (Record, bool) {
	if id == "" || !Truthy(trigger) {
		return Record{}, false
	}

	now := e.clock()
	if e.Cache().Within(string(kind)+":"+id, now, e.window) {
		return Record{}, false
	}

	r := e.record(kind, id, time.Time{})
	r.WallTime = now
	r.Payload = payload
	return r, e.emit(r)
}

func (e *Emitter) record(kind Kind, tag string, bar time.Time) Record {
	return Record{
		Kind:     kind,
		Tag:      tag,
		Script:   e.script,
		Symbol:   e.symbol,
		BarTime:  bar,
		WallTime: e.clock(),
	}
}

func (e *Emitter) emit(r Record) bool {
	e.log.WithFields(map[string]any{"script": r.Script, "kind": r.Kind, "tag": r.Tag}).Debug("event emitted")
	for _, sink := range e.sinks {
		sink.Emit(r)
	}
	return true
}

func evaluate(message any) any {
	switch m := message.(type) {
	case func() any:
		return m()
	case func() string:
		return m()
	}
	return message
}
