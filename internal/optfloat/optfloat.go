// Package optfloat provides the optional numeric boundary type used for all
// transport values that may be absent, null, or string-typed. Parsing and
// clamping happen here once, instead of ad hoc at every call site.
package optfloat

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is an optional float64. The zero value is "absent".
type Value struct {
	Float64 float64
	Valid   bool
}

// Some returns a present value.
func Some(v float64) Value {
	return Value{Float64: v, Valid: true}
}

// None returns an absent value.
func None() Value {
	return Value{}
}

// Parse converts a loosely-typed transport value into a Value. Supported
// inputs: nil, float64, float32, int variants, and numeric strings. Empty
// strings, unparseable strings, NaN and infinities map to absent.
func Parse(raw interface{}) Value {
	switch v := raw.(type) {
	case nil:
		return None()
	case float64:
		return fromFloat(v)
	case float32:
		return fromFloat(float64(v))
	case int:
		return Some(float64(v))
	case int32:
		return Some(float64(v))
	case int64:
		return Some(float64(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return None()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return None()
		}
		return fromFloat(f)
	default:
		return None()
	}
}

func fromFloat(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return None()
	}
	return Some(f)
}

// Or returns the contained value, or def when absent.
func (v Value) Or(def float64) float64 {
	if !v.Valid {
		return def
	}
	return v.Float64
}

// Clamp bounds a present value to [lo, hi]. Absent values stay absent.
func (v Value) Clamp(lo, hi float64) Value {
	if !v.Valid {
		return v
	}
	return Some(math.Max(lo, math.Min(hi, v.Float64)))
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if !v.Valid {
		return "none"
	}
	return strconv.FormatFloat(v.Float64, 'g', -1, 64)
}

// MarshalJSON encodes absent values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float64)
}

// UnmarshalJSON accepts numbers, numeric strings, and null.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("optfloat: %w", err)
	}
	*v = Parse(raw)
	return nil
}

// UnmarshalYAML accepts numbers, numeric strings, and null.
func (v *Value) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return fmt.Errorf("optfloat: %w", err)
	}
	*v = Parse(raw)
	return nil
}

// MarshalYAML encodes absent values as null.
func (v Value) MarshalYAML() (interface{}, error) {
	if !v.Valid {
		return nil, nil
	}
	return v.Float64, nil
}
