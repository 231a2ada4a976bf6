// Package tooltip collects the named values a script exposes for hover
// inspection.
package tooltip

import (
	"fmt"
	"math"

	"github.com/raykavin/chartscript/pkg/core"
	"github.com/shopspring/decimal"
)

// Placeholder is displayed for values that cannot be shown
const Placeholder = "-"

// PrecisionSource selects where the display precision of a tool comes from
type PrecisionSource int

const (
	// PrecisionPrice inherits the instrument price precision
	PrecisionPrice PrecisionSource = iota
	// PrecisionVolume inherits the instrument volume precision
	PrecisionVolume
	// PrecisionExplicit uses ToolStyle.Precision
	PrecisionExplicit
)

// ToolStyle configures the display of a tool
type ToolStyle struct {
	Source    PrecisionSource
	Precision int
	Color     string
}

// Explicit returns a style displaying precision decimals
func Explicit(precision int) ToolStyle {
	return ToolStyle{Source: PrecisionExplicit, Precision: precision}
}

// Tool is a registered value. Data is a scalar (number or string) or a
// series aligned with the dataframe.
type Tool struct {
	Label string
	Data  any
	Style ToolStyle
}

// Row is a formatted tool at a bar
type Row struct {
	Label string
	Value string
	Color string
}

// Registry keeps tools in registration order. Registering an existing label
// replaces its data in place.
type Registry struct {
	tools []Tool
	index map[string]int
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Tools registers data under label
func (r *Registry) Tools(label string, data any, style ToolStyle) {
	tool := Tool{Label: label, Data: data, Style: style}
	if i, ok := r.index[label]; ok {
		r.tools[i] = tool
		return
	}
	r.index[label] = len(r.tools)
	r.tools = append(r.tools, tool)
}

// List returns the registered tools
func (r *Registry) List() []Tool { return r.tools }

// Len returns the number of tools
func (r *Registry) Len() int { return len(r.tools) }

// Reset drops every tool
func (r *Registry) Reset() {
	r.tools = r.tools[:0]
	clear(r.index)
}

// Rows formats every tool at bar index. Values that cannot be displayed are
// replaced by Placeholder so the row order never changes.
func (r *Registry) Rows(index int, df *core.Dataframe) []Row {
	rows := make([]Row, 0, len(r.tools))
	for _, tool := range r.tools {
		rows = append(rows, Row{
			Label: tool.Label,
			Value: Format(tool.Data, index, precision(tool.Style, df)),
			Color: tool.Style.Color,
		})
	}
	return rows
}

func precision(style ToolStyle, df *core.Dataframe) int {
	switch style.Source {
	case PrecisionExplicit:
		return style.Precision
	case PrecisionVolume:
		if df != nil {
			return df.VolumePrecision
		}
	default:
		if df != nil {
			return df.PricePrecision
		}
	}
	return 2
}

// Format renders data at index with precision decimals
func Format(data any, index int, precision int) string {
	switch v := data.(type) {
	case nil:
		return Placeholder
	case string:
		if v == "" {
			return Placeholder
		}
		return v
	case float64:
		return number(v, precision)
	case float32:
		return number(float64(v), precision)
	case int:
		return number(float64(v), precision)
	case int64:
		return number(float64(v), precision)
	case []float64:
		return number(core.At(v, index), precision)
	case core.Series[float64]:
		return number(core.At(v, index), precision)
	case []string:
		if index < 0 || index >= len(v) || v[index] == "" {
			return Placeholder
		}
		return v[index]
	case func(index int) float64:
		return number(v(index), precision)
	case fmt.Stringer:
		return v.String()
	}
	return Placeholder
}

func number(v float64, precision int) string {
	if !core.Valid(v) {
		return Placeholder
	}
	precision = int(math.Max(0, float64(precision)))
	return decimal.NewFromFloat(v).StringFixed(int32(precision))
}
