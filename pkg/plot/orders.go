package plot

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/StudioSol/set"
	"github.com/raykavin/chartscript/pkg/core"
	"github.com/raykavin/chartscript/pkg/event"
)

// Emit receives the events of every script. Order opens are kept to mark
// them on the main pane.
func (c *Chart) Emit(r event.Record) {
	if r.Kind != event.KindOrderOpen {
		return
	}

	c.Lock()
	defer c.Unlock()

	// Initialize order set for symbol if needed
	if c.ordersIDsBySymbol[r.Symbol] == nil {
		c.ordersIDsBySymbol[r.Symbol] = set.NewLinkedHashSetString()
	}

	id := fmt.Sprintf("%s@%d", r.Tag, r.BarTime.Unix())
	c.ordersIDsBySymbol[r.Symbol].Add(id)
	c.orderByID[id] = r
}

// Orders returns the order opens recorded for symbol in arrival order
func (c *Chart) Orders(symbol string) []event.Record {
	c.Lock()
	defer c.Unlock()

	ids, ok := c.ordersIDsBySymbol[symbol]
	if !ok {
		return nil
	}
	orders := make([]event.Record, 0, ids.Length())
	for id := range ids.Iter() {
		orders = append(orders, c.orderByID[id])
	}
	return orders
}

// markers returns buy and sell marker values aligned with df: the bar low
// under buys, the bar high over sells
func (c *Chart) markers(df *core.Dataframe) (buys, sells []float64) {
	if df == nil {
		return nil, nil
	}
	buys, sells = nan(df.Len()), nan(df.Len())

	ids, ok := c.ordersIDsBySymbol[df.Symbol]
	if !ok {
		return buys, sells
	}

	for id := range ids.Iter() {
		order := c.orderByID[id]
		i, found := slices.BinarySearchFunc(df.Time, order.BarTime, func(a, b time.Time) int {
			return a.Compare(b)
		})
		if !found {
			continue
		}

		switch order.Payload["type"] {
		case string(event.SideBuy):
			buys[i] = df.Low[i]
		case string(event.SideSell):
			sells[i] = df.High[i]
		}
	}
	return buys, sells
}

func nan(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = math.NaN()
	}
	return values
}
