package catalog

import (
	"math"
	"strconv"
	"strings"
)

// Value is a decoded JSON value kept as-is. Catalog fields are only checked
// for presence, so the renderer formats whatever shape the document carries.
type Value struct {
	raw any
}

// NewValue wraps a decoded JSON value (nil, bool, float64, string, []any or
// map[string]any).
func NewValue(raw any) Value {
	return Value{raw: raw}
}

// Raw returns the wrapped value.
func (v Value) Raw() any { return v.raw }

// IsNull reports whether the value is JSON null (or was never set).
func (v Value) IsNull() bool { return v.raw == nil }

// Truthy follows script truthiness: null, false, 0, NaN and "" are falsy.
func (v Value) Truthy() bool {
	switch t := v.raw.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		return t != ""
	default:
		return true
	}
}

// String follows script string conversion, so a price of 100 prints as "100"
// and a list prints comma-joined.
func (v Value) String() string {
	return stringify(v.raw)
}

func stringify(raw any) string {
	switch t := raw.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if t == 0 {
			return "0"
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			if item == nil {
				continue
			}
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	default:
		return ""
	}
}
