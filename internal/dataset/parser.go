// Package dataset turns raw source tables into chart-ready datasets: parsing, summing,
// sorting, and the registry the chart reads from.
package dataset

import (
	"fmt"
	"sort"

	"barstack/domain/core"
	"barstack/domain/dataset"
	"barstack/domain/transform"
)

// Parse normalizes one table according to meta. The first header is the category column
// and every other header is a sub-group; each row becomes a yVal plus one cell per
// sub-group. A configured sort is applied here, once.
func Parse(table *dataset.RawTable, meta dataset.Metadata) (*dataset.ParsedDataset, error) {
	name := meta.Label
	if table == nil || len(table.Headers) == 0 {
		return nil, &core.MalformedInputError{Dataset: name, Reason: "no header row"}
	}
	categoryColumn := table.CategoryColumn()
	subGroups := table.SubGroupColumns()

	if meta.Sort.NeedsField() && !contains(subGroups, meta.Sort.Field) {
		return nil, &core.MalformedInputError{Dataset: name, Column: meta.Sort.Field, Reason: "sort field is not a sub-group column"}
	}

	rows := make([]dataset.NormalizedRow, len(table.Rows))
	for i, raw := range table.Rows {
		row, err := parseRow(name, i, raw, categoryColumn, subGroups, meta)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}

	parsed := &dataset.ParsedDataset{Rows: rows, SubGroups: subGroups}
	if err := sortRows(parsed, meta.Sort); err != nil {
		return nil, err
	}
	return parsed, nil
}

func parseRow(name string, index int, raw dataset.RawRow, categoryColumn string, subGroups []string, meta dataset.Metadata) (dataset.NormalizedRow, error) {
	if len(raw) != len(subGroups)+1 {
		if extra := unexpectedColumn(raw, categoryColumn, subGroups); extra != "" {
			return dataset.NormalizedRow{}, &core.MalformedInputError{Dataset: name, Row: index, Column: extra, Reason: "column not in header"}
		}
	}

	label, ok := raw[categoryColumn]
	if !ok {
		return dataset.NormalizedRow{}, &core.MalformedInputError{Dataset: name, Row: index, Column: categoryColumn, Reason: "missing category column"}
	}
	category, err := meta.CategoryParser.ParseCategory(label)
	if err != nil {
		return dataset.NormalizedRow{}, &core.ParseError{Dataset: name, Row: index, Column: categoryColumn, Value: label, Err: err}
	}

	values := make(map[string]dataset.Cell, len(subGroups))
	for _, column := range subGroups {
		text, ok := raw[column]
		if !ok {
			return dataset.NormalizedRow{}, &core.MalformedInputError{Dataset: name, Row: index, Column: column, Reason: "missing sub-group column"}
		}
		v, err := meta.ValueParser.ParseValue(text)
		if err != nil {
			return dataset.NormalizedRow{}, &core.ParseError{Dataset: name, Row: index, Column: column, Value: text, Err: err}
		}
		values[column] = dataset.Cell{Raw: v.Raw, Number: v.Number, Numeric: v.Numeric}
	}

	return dataset.NormalizedRow{
		YVal:   dataset.Category{Label: category.Raw, Time: category.Time},
		Values: values,
	}, nil
}

func unexpectedColumn(raw dataset.RawRow, categoryColumn string, subGroups []string) string {
	var extra []string
	for column := range raw {
		if column != categoryColumn && !contains(subGroups, column) {
			extra = append(extra, column)
		}
	}
	if len(extra) == 0 {
		return ""
	}
	sort.Strings(extra)
	return extra[0]
}

// sortRows orders rows by spec. Sort keys are computed up front so a bad value surfaces
// as an error instead of an inconsistent order.
func sortRows(data *dataset.ParsedDataset, spec transform.SortSpec) error {
	if spec.IsNone() || len(data.Rows) < 2 {
		return nil
	}

	var less func(i, j int) bool
	switch spec.Kind {
	case transform.SortCategoryAsc:
		less = func(i, j int) bool { return categoryLess(data.Rows[i].YVal, data.Rows[j].YVal) }
	case transform.SortTotalDesc, transform.SortTotalAsc, transform.SortFieldDesc, transform.SortFieldAsc:
		keys, err := sortKeys(data, spec)
		if err != nil {
			return err
		}
		desc := spec.Kind == transform.SortTotalDesc || spec.Kind == transform.SortFieldDesc
		perm := make([]int, len(data.Rows))
		for i := range perm {
			perm[i] = i
		}
		sort.SliceStable(perm, func(a, b int) bool {
			if desc {
				return keys[perm[a]] > keys[perm[b]]
			}
			return keys[perm[a]] < keys[perm[b]]
		})
		sorted := make([]dataset.NormalizedRow, len(perm))
		for i, p := range perm {
			sorted[i] = data.Rows[p]
		}
		data.Rows = sorted
		return nil
	default:
		return fmt.Errorf("unsupported sort %q", spec.Kind)
	}
	sort.SliceStable(data.Rows, less)
	return nil
}

func sortKeys(data *dataset.ParsedDataset, spec transform.SortSpec) ([]float64, error) {
	if spec.NeedsField() {
		keys := make([]float64, len(data.Rows))
		for i, row := range data.Rows {
			n, err := CellNumber(i, spec.Field, row.Values[spec.Field])
			if err != nil {
				return nil, err
			}
			keys[i] = n
		}
		return keys, nil
	}
	return Aggregate(data)
}

func categoryLess(a, b dataset.Category) bool {
	if !a.Time.IsZero() && !b.Time.IsZero() {
		return a.Time.Before(b.Time)
	}
	return a.Label < b.Label
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
