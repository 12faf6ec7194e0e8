// Package testkit provides in-memory fixtures shared by package tests.
package testkit

import (
	"context"
	"fmt"
	"sync"

	"barstack/domain/core"
	"barstack/domain/dataset"
	"barstack/domain/transform"
)

// FakeSourceReader serves tables from memory, keyed by source path.
type FakeSourceReader struct {
	mu     sync.Mutex
	tables map[string]*dataset.RawTable
	errs   map[string]error
	reads  map[string]int
	// Block, when set, makes every read wait for ctx cancellation.
	Block map[string]bool
}

// NewFakeSourceReader creates an empty reader.
func NewFakeSourceReader() *FakeSourceReader {
	return &FakeSourceReader{
		tables: make(map[string]*dataset.RawTable),
		errs:   make(map[string]error),
		reads:  make(map[string]int),
		Block:  make(map[string]bool),
	}
}

// Add registers a table for path.
func (f *FakeSourceReader) Add(path string, table *dataset.RawTable) *FakeSourceReader {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[path] = table
	return f
}

// Fail makes reads of path return err.
func (f *FakeSourceReader) Fail(path string, err error) *FakeSourceReader {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[path] = err
	return f
}

// Reads reports how many times path was read.
func (f *FakeSourceReader) Reads(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads[path]
}

func (f *FakeSourceReader) Read(ctx context.Context, src dataset.Source) (*dataset.RawTable, error) {
	f.mu.Lock()
	f.reads[src.Path]++
	table, ok := f.tables[src.Path]
	err := f.errs[src.Path]
	block := f.Block[src.Path]
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, &core.FetchError{Source: src.Path, Err: ctx.Err()}
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &core.FetchError{Source: src.Path, Err: fmt.Errorf("no fixture")}
	}
	return table, nil
}

// Table builds a RawTable from a header and rows given as cell slices.
// Cells past the header are dropped and short rows stay short, like the real readers.
func Table(headers []string, rows ...[]string) *dataset.RawTable {
	t := &dataset.RawTable{Headers: headers, Rows: make([]dataset.RawRow, 0, len(rows))}
	for _, cells := range rows {
		row := make(dataset.RawRow, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				row[h] = cells[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// RaisesTable is the two-row example used across tests: totals 30 and 70.
func RaisesTable() *dataset.RawTable {
	return Table([]string{"name", "pay", "raise"},
		[]string{"a", "10", "20"},
		[]string{"b", "30", "40"},
	)
}

// RaisesMetadata parses numbers and formats them as currency.
func RaisesMetadata(label, path string) dataset.Metadata {
	return dataset.Metadata{
		Label:             label,
		XAxisLabel:        "Salary",
		ValueParser:       transform.ParseNumber,
		XAxisTickFormat:   transform.FormatCurrencySI,
		XValDisplayFormat: transform.FormatCurrency,
		Source:            dataset.Source{Path: path},
	}
}
