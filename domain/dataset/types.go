package dataset

import (
	"encoding/json"
	"time"

	"barstack/domain/transform"
)

// RawRow is one source record as column name -> raw text.
type RawRow map[string]string

// RawTable is what a source reader produces. Headers keep column order: the first header
// is the category column, the rest are sub-groups.
type RawTable struct {
	Headers []string `json:"headers"`
	Rows    []RawRow `json:"rows"`
}

// CategoryColumn returns the first header, or "" for a table without headers.
func (t *RawTable) CategoryColumn() string {
	if len(t.Headers) == 0 {
		return ""
	}
	return t.Headers[0]
}

// SubGroupColumns returns every header after the category column.
func (t *RawTable) SubGroupColumns() []string {
	if len(t.Headers) < 2 {
		return []string{}
	}
	out := make([]string, len(t.Headers)-1)
	copy(out, t.Headers[1:])
	return out
}

// Category is a row's yVal: the raw label plus the date a year parser produced, if any.
type Category struct {
	Label string    `json:"label"`
	Time  time.Time `json:"time,omitempty"`
}

// Value adapts the category for formatters.
func (c Category) Value() transform.Value {
	return transform.Value{Raw: c.Label, Time: c.Time}
}

// MarshalJSON writes the category as its label, the form chart clients key bands by.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Label)
}

// Cell is one sub-group value. Raw always holds the source text; Number is set once a
// numeric parser ran.
type Cell struct {
	Raw     string
	Number  float64
	Numeric bool
}

// Value adapts the cell for formatters.
func (c Cell) Value() transform.Value {
	return transform.Value{Raw: c.Raw, Number: c.Number, Numeric: c.Numeric}
}

// MarshalJSON writes parsed cells as numbers and unparsed cells as strings.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Numeric {
		return json.Marshal(c.Number)
	}
	return json.Marshal(c.Raw)
}

// NormalizedRow is a parsed source row. Values never contains the category column.
type NormalizedRow struct {
	YVal   Category        `json:"yVal"`
	Values map[string]Cell `json:"values"`
}

// ParsedDataset is the chart-ready form of one source. Row order is bar order and
// SubGroups order is stacking and legend order.
type ParsedDataset struct {
	Rows      []NormalizedRow `json:"values"`
	SubGroups []string        `json:"xValSubGroups"`
}

// Labels returns each row's category label in row order.
func (d *ParsedDataset) Labels() []string {
	labels := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		labels[i] = row.YVal.Label
	}
	return labels
}

// Entry is a registered dataset.
type Entry struct {
	Metadata Metadata       `json:"metadata"`
	Data     *ParsedDataset `json:"data"`
}
