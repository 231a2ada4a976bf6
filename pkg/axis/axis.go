// Package axis holds the host axis transforms consumed by renderers, plus
// linear reference implementations used by the chart host and tests.
package axis

// X converts bar indices to horizontal pixels
type X interface {
	IndexToPixel(index float64) float64
	PixelToIndex(px float64) float64
	BarWidth() float64
}

// Y converts values to vertical pixels. SetRange and Rebuild are the
// targets of the auto-range pass of secondary panes.
type Y interface {
	ValueToPixel(value float64) float64
	PixelToValue(px float64) float64
	Range() (min, max float64)
	SetRange(min, max float64)
	Rebuild(measure func(text string) float64)
}

// Tick is one labelled grid position of a value axis
type Tick struct {
	Value float64
	Pixel float64
	Label string
}
