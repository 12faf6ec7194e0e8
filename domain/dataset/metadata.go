package dataset

import (
	"fmt"

	"barstack/domain/transform"
)

// SourceFormat tells the source reader how to decode a file.
type SourceFormat string

const (
	FormatAuto SourceFormat = ""
	FormatCSV  SourceFormat = "csv"
	FormatXLSX SourceFormat = "xlsx"
	FormatJSON SourceFormat = "json"
)

// Source locates a dataset's rows: a local path or an http(s) URL.
type Source struct {
	Path   string       `json:"path" yaml:"path"`
	Format SourceFormat `json:"format,omitempty" yaml:"format,omitempty"`
	// Sheet selects an XLSX worksheet; the first sheet is used when empty.
	Sheet string `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	// DataPath is a gjson path to the row array inside a JSON document.
	DataPath string `json:"data_path,omitempty" yaml:"data_path,omitempty"`
}

// Metadata configures how one dataset is parsed and displayed. Every zero value has a
// defined meaning: identity parsers and formatters, and source order for Sort.
type Metadata struct {
	Label      string `json:"label"`
	XAxisLabel string `json:"xAxisLabel,omitempty"`
	YAxisLabel string `json:"yAxisLabel,omitempty"`

	CategoryParser transform.ParserKind `json:"yValParser,omitempty"`
	ValueParser    transform.ParserKind `json:"xValParser,omitempty"`
	Sort           transform.SortSpec   `json:"-"`

	XAxisTickFormat       transform.FormatKind `json:"xAxisTickFormat,omitempty"`
	XAxisTickFormatMobile transform.FormatKind `json:"xAxisTickFormatMobile,omitempty"`
	XValDisplayFormat     transform.FormatKind `json:"xValDisplayFormat,omitempty"`
	YValDisplayFormat     transform.FormatKind `json:"yValDisplayFormat,omitempty"`
	YAxisTickFormat       transform.FormatKind `json:"yAxisTickFormat,omitempty"`

	// Notes is markdown shown under the chart (sources, caveats).
	Notes  string `json:"notes,omitempty"`
	Source Source `json:"-"`
}

// SortName is the sort spec as written in the manifest, for JSON clients.
func (m Metadata) SortName() string { return m.Sort.String() }

// Validate rejects unknown transform kinds.
func (m Metadata) Validate() error {
	if m.Label == "" {
		return fmt.Errorf("dataset label is required")
	}
	for name, k := range map[string]transform.ParserKind{
		"category parser": m.CategoryParser,
		"value parser":    m.ValueParser,
	} {
		if !k.Valid() {
			return fmt.Errorf("dataset %q: unknown %s %q", m.Label, name, k)
		}
	}
	for name, k := range map[string]transform.FormatKind{
		"x axis tick format":        m.XAxisTickFormat,
		"x axis mobile tick format": m.XAxisTickFormatMobile,
		"x value display format":    m.XValDisplayFormat,
		"y value display format":    m.YValDisplayFormat,
		"y axis tick format":        m.YAxisTickFormat,
	} {
		if !k.Valid() {
			return fmt.Errorf("dataset %q: unknown %s %q", m.Label, name, k)
		}
	}
	return nil
}

// TickFormat picks the x axis tick format for a viewport: the mobile format applies below
// the breakpoint when one is configured.
func (m Metadata) TickFormat(smallScreen bool) transform.FormatKind {
	if smallScreen && !m.XAxisTickFormatMobile.IsIdentity() {
		return m.XAxisTickFormatMobile
	}
	return m.XAxisTickFormat
}
