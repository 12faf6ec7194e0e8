package transform

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParserKind names how a raw cell is converted at parse time.
type ParserKind string

const (
	// ParseIdentity keeps the raw string. It is also what an empty kind means.
	ParseIdentity ParserKind = "identity"
	// ParseNumber converts to float64. Blank cells become 0.
	ParseNumber ParserKind = "number"
	// ParseYear reads a four digit year into a time.Time.
	ParseYear ParserKind = "year"
)

var parserKinds = map[ParserKind]bool{
	"":            true,
	ParseIdentity: true,
	ParseNumber:   true,
	ParseYear:     true,
}

// Valid reports whether k is a known parser.
func (k ParserKind) Valid() bool { return parserKinds[k] }

// IsIdentity reports whether the parser leaves values untouched.
func (k ParserKind) IsIdentity() bool { return k == "" || k == ParseIdentity }

// ParseCategory applies the parser to a category label.
func (k ParserKind) ParseCategory(raw string) (Value, error) {
	v := Value{Raw: raw}
	switch {
	case k.IsIdentity():
		return v, nil
	case k == ParseYear:
		t, err := ParseYearString(raw)
		if err != nil {
			return v, err
		}
		v.Time = t
		return v, nil
	case k == ParseNumber:
		n, err := ParseNumberString(raw)
		if err != nil {
			return v, err
		}
		v.Number, v.Numeric = n, true
		return v, nil
	}
	return v, fmt.Errorf("unknown parser %q", string(k))
}

// ParseValue applies the parser to a sub-group cell.
func (k ParserKind) ParseValue(raw string) (Value, error) {
	if k == ParseYear {
		v, err := k.ParseCategory(raw)
		if err != nil {
			return v, err
		}
		v.Number, v.Numeric = float64(v.Time.Year()), true
		return v, nil
	}
	return k.ParseCategory(raw)
}

// ParseNumberString converts text the way a unary plus does for well formed input:
// surrounding space is ignored and blank text is 0.
func ParseNumberString(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	return n, nil
}

// ParseYearString reads "YYYY".
func ParseYearString(raw string) (time.Time, error) {
	t, err := time.Parse("2006", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("not a year: %q", raw)
	}
	return t, nil
}
