// Package source reads dataset sources (CSV, XLSX, JSON) from local files or http(s) URLs
// into header-ordered raw rows.
package source

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"barstack/domain/core"
	"barstack/domain/dataset"
)

// maxSourceBytes caps a single source download.
const maxSourceBytes = 32 << 20

// Reader implements ports.SourceReader.
type Reader struct {
	httpClient *http.Client
}

// NewReader creates a reader whose HTTP fetches give up after timeout.
func NewReader(timeout time.Duration) *Reader {
	return &Reader{httpClient: &http.Client{Timeout: timeout}}
}

// NewReaderWithClient lets callers supply their own HTTP client.
func NewReaderWithClient(client *http.Client) *Reader {
	return &Reader{httpClient: client}
}

// Read fetches src and decodes it according to its format.
func (r *Reader) Read(ctx context.Context, src dataset.Source) (*dataset.RawTable, error) {
	startTime := time.Now()
	body, err := r.fetch(ctx, src.Path)
	if err != nil {
		return nil, &core.FetchError{Source: src.Path, Err: err}
	}

	format := DetectFormat(src)
	var table *dataset.RawTable
	switch format {
	case dataset.FormatCSV:
		table, err = decodeCSV(body)
	case dataset.FormatXLSX:
		table, err = decodeXLSX(body, src.Sheet)
	case dataset.FormatJSON:
		table, err = decodeJSON(body, src.DataPath)
	default:
		err = fmt.Errorf("unsupported source format %q", format)
	}
	if err != nil {
		return nil, &core.MalformedInputError{Dataset: src.Path, Reason: err.Error()}
	}

	log.Printf("[SourceReader] %s read as %s in %.2fms (%d columns, %d rows)",
		src.Path, format, float64(time.Since(startTime).Nanoseconds())/1e6, len(table.Headers), len(table.Rows))
	return table, nil
}

func (r *Reader) fetch(ctx context.Context, location string) ([]byte, error) {
	if !isURL(location) {
		if _, err := os.Stat(location); err != nil {
			return nil, fmt.Errorf("source file not found: %w", err)
		}
		return os.ReadFile(location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source returned status %d", resp.StatusCode)
	}
	return body, nil
}

// DetectFormat returns the configured format, or guesses it from the file extension.
// Anything unrecognised is read as CSV.
func DetectFormat(src dataset.Source) dataset.SourceFormat {
	if src.Format != dataset.FormatAuto {
		return src.Format
	}
	name := src.Path
	if isURL(name) {
		if u, err := url.Parse(name); err == nil {
			name = path.Base(u.Path)
		}
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return dataset.FormatXLSX
	case ".json":
		return dataset.FormatJSON
	}
	return dataset.FormatCSV
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// tableFromRows turns a header row plus data rows into a RawTable. Headers and cells are
// trimmed and cells past the header width are dropped. Short rows keep only the cells
// they have, so the parser can report the missing column.
func tableFromRows(rows [][]string) (*dataset.RawTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("source has no header row")
	}
	headers := make([]string, len(rows[0]))
	seen := make(map[string]bool, len(headers))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
		if headers[i] == "" {
			return nil, fmt.Errorf("header %d is blank", i+1)
		}
		if seen[headers[i]] {
			return nil, fmt.Errorf("duplicate header %q", headers[i])
		}
		seen[headers[i]] = true
	}

	dataRows := make([]dataset.RawRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(dataset.RawRow, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}
	return &dataset.RawTable{Headers: headers, Rows: dataRows}, nil
}
