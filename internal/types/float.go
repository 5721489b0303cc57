package types

import (
	"encoding/json"
	"strconv"
)

// Float is a float64 that may be undefined. Rolling indicators are undefined
// until their window fills, and zero is a legal price, so absence has to be
// carried explicitly instead of being coerced to 0.
type Float struct {
	Value float64
	Valid bool
}

// F wraps a defined float64.
func F(v float64) Float {
	return Float{Value: v, Valid: true}
}

// Or returns the value when defined, otherwise def.
func (f Float) Or(def float64) float64 {
	if f.Valid {
		return f.Value
	}
	return def
}

// String formats the value with 8 decimal places, or an empty string when
// undefined. This is the representation used in exported CSV tables.
func (f Float) String() string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Value, 'f', 8, 64)
}

// MarshalJSON encodes undefined values as null.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// UnmarshalJSON decodes null as undefined.
func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Float{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = F(v)
	return nil
}

// ParseFloat parses a CSV cell, treating the empty string as undefined.
func ParseFloat(s string) (Float, error) {
	if s == "" {
		return Float{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Float{}, err
	}
	return F(v), nil
}
