package dataset

import (
	"math"

	"barstack/domain/core"
	"barstack/domain/dataset"
	"barstack/domain/transform"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

// Summary describes the spread of row totals.
type Summary struct {
	Rows   int     `json:"rows"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Sum    float64 `json:"sum"`
}

// CellNumber coerces a sub-group cell to a number. Parsed cells use their number; raw
// cells are read from their text, where blank text counts as 0.
func CellNumber(row int, column string, cell dataset.Cell) (float64, error) {
	n := cell.Number
	if !cell.Numeric {
		var err error
		n, err = transform.ParseNumberString(cell.Raw)
		if err != nil {
			return 0, &core.InvalidNumericValueError{Row: row, Column: column, Value: cell.Raw}
		}
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, &core.InvalidNumericValueError{Row: row, Column: column, Value: cell.Raw}
	}
	return n, nil
}

// RowTotal sums the row's sub-group values in sub-group order. yVal is never part of the
// sum, and a dataset without sub-groups totals 0.
func RowTotal(index int, row dataset.NormalizedRow, subGroups []string) (float64, error) {
	values := make([]float64, len(subGroups))
	for i, column := range subGroups {
		n, err := CellNumber(index, column, row.Values[column])
		if err != nil {
			return 0, err
		}
		values[i] = n
	}
	return floats.Sum(values), nil
}

// Aggregate returns one total per row, in row order.
func Aggregate(data *dataset.ParsedDataset) ([]float64, error) {
	totals := make([]float64, len(data.Rows))
	for i, row := range data.Rows {
		total, err := RowTotal(i, row, data.SubGroups)
		if err != nil {
			return nil, err
		}
		totals[i] = total
	}
	return totals, nil
}

// Extent is the linear scale domain for the dataset: [0, largest row total].
// An empty dataset gives [0, 0].
func Extent(data *dataset.ParsedDataset) ([2]float64, error) {
	totals, err := Aggregate(data)
	if err != nil {
		return [2]float64{}, err
	}
	if len(totals) == 0 {
		return [2]float64{0, 0}, nil
	}
	return [2]float64{0, floats.Max(totals)}, nil
}

// Summarize reports min, max, mean, median and sum of the totals.
func Summarize(totals []float64) (Summary, error) {
	if len(totals) == 0 {
		return Summary{}, nil
	}
	data := stats.Float64Data(totals)
	min, err := data.Min()
	if err != nil {
		return Summary{}, err
	}
	max, err := data.Max()
	if err != nil {
		return Summary{}, err
	}
	mean, err := data.Mean()
	if err != nil {
		return Summary{}, err
	}
	median, err := data.Median()
	if err != nil {
		return Summary{}, err
	}
	sum, err := data.Sum()
	if err != nil {
		return Summary{}, err
	}
	return Summary{Rows: len(totals), Min: min, Max: max, Mean: mean, Median: median, Sum: sum}, nil
}
