package event

import (
	"encoding/json"
	"fmt"

	"github.com/raykavin/chartscript/pkg/core"
)

// tagFields are the message fields naming a signal, by priority
var tagFields = []string{"type", "name", "action", "reason"}

// Tag derives the dedup tag of a signal message: strings are used as is,
// maps by their type, name, action or reason field, anything else by its
// JSON encoding. Functions are called first.
func Tag(message any) string {
	switch m := message.(type) {
	case nil:
		return ""
	case string:
		return m
	case func() any:
		return Tag(m())
	case func() string:
		return m()
	case map[string]any:
		for _, field := range tagFields {
			if v, ok := m[field]; ok && v != nil {
				return fmt.Sprint(v)
			}
		}
	case map[string]string:
		for _, field := range tagFields {
			if v, ok := m[field]; ok {
				return v
			}
		}
	}
	return stable(message)
}

// stable encodes v as JSON; map keys are sorted by the encoder
func stable(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// Triggered reports whether the last element of a trigger input is valid:
// a finite number or true. Supported inputs are float64, bool and slices of
// either.
func Triggered(trigger any) bool {
	v, ok := last(trigger)
	return ok && core.Valid(v)
}

// Truthy reports whether the last element is valid and non zero
func Truthy(trigger any) bool {
	v, ok := last(trigger)
	return ok && core.Valid(v) && v != 0
}

func last(trigger any) (float64, bool) {
	switch t := trigger.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case bool:
		return boolValue(t)
	case []float64:
		if len(t) == 0 {
			return 0, false
		}
		return t[len(t)-1], true
	case core.Series[float64]:
		if len(t) == 0 {
			return 0, false
		}
		return t[len(t)-1], true
	case []bool:
		if len(t) == 0 {
			return 0, false
		}
		return boolValue(t[len(t)-1])
	}
	return 0, false
}

func boolValue(b bool) (float64, bool) {
	if b {
		return 1, true
	}
	return 0, false
}
