package transform

import "time"

// Value is a parsed cell as seen by formatters. Raw is always the source text.
type Value struct {
	Raw     string
	Number  float64
	Numeric bool
	Time    time.Time
}

// HasTime reports whether a date parser produced this value.
func (v Value) HasTime() bool { return !v.Time.IsZero() }

// NumberValue wraps a computed number that has no source text.
func NumberValue(n float64) Value { return Value{Number: n, Numeric: true} }
