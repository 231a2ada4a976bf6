// Package profile computes volume-at-price distributions with their point of
// control and value area.
package profile

import (
	"fmt"
	"math"

	"github.com/raykavin/chartscript/pkg/core"
	"gonum.org/v1/gonum/floats"
)

// ValueAreaShare is the share of the total volume inside the value area
const ValueAreaShare = 0.7

// Bin is a price interval and the volume traded inside it
type Bin struct {
	Low         float64
	High        float64
	Volume      float64
	InValueArea bool
}

// Mid returns the center price of the bin
func (b Bin) Mid() float64 { return (b.Low + b.High) / 2 }

// Profile is a volume distribution. Bins are ordered by ascending price.
type Profile struct {
	Bins  []Bin
	Total float64
	// POC is the center of the highest volume bin
	POC float64
	// VAH and VAL bound the value area
	VAH float64
	VAL float64
	// PocIndex is the index of the highest volume bin
	PocIndex int
}

// Calculate distributes the volume of every bar in r over bins price
// intervals, spreading each bar evenly across its high-low span
func Calculate(df *core.Dataframe, r core.Range, bins int) (Profile, error) {
	r = r.Clamp(df.Len())
	if r.Len() == 0 || bins <= 0 {
		return Profile{}, fmt.Errorf("profile over %d bars in %d bins: %w", r.Len(), bins, core.ErrInsufficientData)
	}

	low, high := math.Inf(1), math.Inf(-1)
	for i := r.From; i < r.To; i++ {
		if !core.Valid(df.Low[i]) || !core.Valid(df.High[i]) {
			continue
		}
		low = math.Min(low, df.Low[i])
		high = math.Max(high, df.High[i])
	}
	if math.IsInf(low, 0) {
		return Profile{}, fmt.Errorf("profile: no valid bars: %w", core.ErrInsufficientData)
	}
	if high == low {
		high = low + 1
	}

	step := (high - low) / float64(bins)
	volumes := make([]float64, bins)
	binOf := func(price float64) int {
		return min(int((price-low)/step), bins-1)
	}

	for i := r.From; i < r.To; i++ {
		v := df.Volume[i]
		if !core.Valid(v) || v <= 0 || !core.Valid(df.Low[i]) || !core.Valid(df.High[i]) {
			continue
		}
		from, to := binOf(df.Low[i]), binOf(df.High[i])
		share := v / float64(to-from+1)
		for b := from; b <= to; b++ {
			volumes[b] += share
		}
	}

	p := Profile{Bins: make([]Bin, bins), Total: floats.Sum(volumes)}
	for b := range volumes {
		p.Bins[b] = Bin{Low: low + float64(b)*step, High: low + float64(b+1)*step, Volume: volumes[b]}
	}
	p.valueArea(volumes)
	return p, nil
}

// valueArea grows the area from the POC toward the heavier neighbour until
// it holds ValueAreaShare of the volume
func (p *Profile) valueArea(volumes []float64) {
	poc := floats.MaxIdx(volumes)
	p.PocIndex = poc
	p.POC = p.Bins[poc].Mid()

	lo, hi := poc, poc
	inside := volumes[poc]
	for inside < p.Total*ValueAreaShare && (lo > 0 || hi < len(volumes)-1) {
		below, above := -1.0, -1.0
		if lo > 0 {
			below = volumes[lo-1]
		}
		if hi < len(volumes)-1 {
			above = volumes[hi+1]
		}
		if above >= below {
			hi++
			inside += above
		} else {
			lo--
			inside += below
		}
	}

	for b := lo; b <= hi; b++ {
		p.Bins[b].InValueArea = true
	}
	p.VAL = p.Bins[lo].Low
	p.VAH = p.Bins[hi].High
}

// MaxVolume returns the volume of the POC bin
func (p Profile) MaxVolume() float64 {
	if len(p.Bins) == 0 {
		return 0
	}
	return p.Bins[p.PocIndex].Volume
}

// Volumes returns the volume of every bin
func (p Profile) Volumes() []float64 {
	volumes := make([]float64, len(p.Bins))
	for i, b := range p.Bins {
		volumes[i] = b.Volume
	}
	return volumes
}
