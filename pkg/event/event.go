// Package event emits signal and order lifecycle notifications from
// scripts, suppressing duplicates through a per-instance dedup cache.
package event

import (
	"time"
)

// Kind is the notification type; it also prefixes dedup tags
type Kind string

const (
	KindSignal      Kind = "signal"
	KindOrderOpen   Kind = "open"
	KindOrderClose  Kind = "close"
	KindOrderUpdate Kind = "update"
)

// Record is an emitted notification. BarTime is set for signals and order
// opens, WallTime always.
type Record struct {
	Kind     Kind           `json:"kind"`
	Tag      string         `json:"tag"`
	Script   string         `json:"script"`
	Symbol   string         `json:"symbol,omitempty"`
	BarTime  time.Time      `json:"bar_time"`
	WallTime time.Time      `json:"wall_time"`
	Message  string         `json:"message,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// Sink receives emitted records
type Sink interface {
	Emit(r Record)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(r Record)

func (f SinkFunc) Emit(r Record) { f(r) }

// Side is the direction of an order
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Order is the payload of an order open request
type Order struct {
	ID    string         `json:"id,omitempty"`
	Type  Side           `json:"type"`
	Num   float64        `json:"num"`
	Price float64        `json:"price,omitempty"`
	Extra map[string]any `json:"extra,omitempty"`
}

// Valid reports whether the order has a known side and a positive size
func (o Order) Valid() bool {
	return (o.Type == SideBuy || o.Type == SideSell) && o.Num > 0
}

func (o Order) payload() map[string]any {
	p := map[string]any{"type": string(o.Type), "num": o.Num}
	if o.ID != "" {
		p["id"] = o.ID
	}
	if o.Price != 0 {
		p["price"] = o.Price
	}
	for k, v := range o.Extra {
		p[k] = v
	}
	return p
}
