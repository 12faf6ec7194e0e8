package transform

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatKind names how a value is displayed in ticks and tooltips.
type FormatKind string

const (
	FormatIdentity FormatKind = "identity"
	// FormatNumber groups thousands with no decimals: 100000 -> 100,000.
	FormatNumber FormatKind = "number"
	// FormatCurrency is FormatNumber with a dollar sign: $100,000.
	FormatCurrency FormatKind = "currency"
	// FormatSI uses an SI prefix with trailing zeros trimmed: 100000 -> 100k.
	FormatSI FormatKind = "si"
	// FormatCurrencySI is the compact currency used on small screens: $100k.
	FormatCurrencySI FormatKind = "currency_si"
	// FormatYear prints a four digit year.
	FormatYear FormatKind = "year"
	// FormatPercent treats 0.25 as 25%.
	FormatPercent FormatKind = "percent"
)

var formatKinds = map[FormatKind]bool{
	"":               true,
	FormatIdentity:   true,
	FormatNumber:     true,
	FormatCurrency:   true,
	FormatSI:         true,
	FormatCurrencySI: true,
	FormatYear:       true,
	FormatPercent:    true,
}

var siPrefixes = []string{"y", "z", "a", "f", "p", "n", "µ", "m", "", "k", "M", "G", "T", "P", "E", "Z", "Y"}

var printer = message.NewPrinter(language.English)

// Valid reports whether k is a known formatter.
func (k FormatKind) Valid() bool { return formatKinds[k] }

// IsIdentity reports whether the formatter falls back to the raw value.
func (k FormatKind) IsIdentity() bool { return k == "" || k == FormatIdentity }

// Format renders v. Values that do not fit the kind fall back to their raw text.
func (k FormatKind) Format(v Value) string {
	if k.IsIdentity() {
		return identity(v)
	}
	if k == FormatYear {
		if v.HasTime() {
			return v.Time.Format("2006")
		}
		if t, err := ParseYearString(v.Raw); err == nil {
			return t.Format("2006")
		}
		return identity(v)
	}

	n, ok := numeric(v)
	if !ok {
		return identity(v)
	}
	switch k {
	case FormatNumber:
		return grouped(n)
	case FormatCurrency:
		return "$" + grouped(n)
	case FormatSI:
		return si(n)
	case FormatCurrencySI:
		return "$" + si(n)
	case FormatPercent:
		return strconv.FormatFloat(math.Round(n*100), 'f', 0, 64) + "%"
	}
	return identity(v)
}

// FormatFloat is Format for a computed number such as a tick.
func (k FormatKind) FormatFloat(n float64) string {
	if k.IsIdentity() {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return k.Format(NumberValue(n))
}

func identity(v Value) string {
	if v.Raw != "" || !v.Numeric {
		return v.Raw
	}
	return strconv.FormatFloat(v.Number, 'f', -1, 64)
}

func numeric(v Value) (float64, bool) {
	if v.Numeric {
		return v.Number, true
	}
	if strings.TrimSpace(v.Raw) == "" {
		return 0, false
	}
	n, err := ParseNumberString(v.Raw)
	return n, err == nil
}

func grouped(n float64) string {
	r := math.Round(n)
	if r == 0 {
		r = 0 // drop negative zero
	}
	return printer.Sprintf("%.0f", r)
}

// si mirrors a "~s" format: six significant digits, SI prefix, insignificant zeros removed.
func si(n float64) string {
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	exp := int(math.Floor(math.Log10(math.Abs(n))))
	group := floorDiv(exp, 3)
	if group < -8 {
		group = -8
	} else if group > 8 {
		group = 8
	}
	scaled := n / math.Pow(10, float64(group*3))
	decimals := 6 - (exp - group*3 + 1)
	if decimals < 0 {
		decimals = 0
	}
	s := strconv.FormatFloat(scaled, 'f', decimals, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s + siPrefixes[group+8]
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
