package source

import (
	"bytes"
	"fmt"

	"barstack/domain/dataset"

	"github.com/xuri/excelize/v2"
)

// decodeXLSX reads one worksheet. Empty trailing cells are padded back because excelize
// drops them, and an empty spreadsheet cell is a value, not a missing column.
func decodeXLSX(body []byte, sheet string) (*dataset.RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) > 0 {
		width := len(rows[0])
		for i := 1; i < len(rows); i++ {
			for len(rows[i]) < width {
				rows[i] = append(rows[i], "")
			}
		}
	}
	return tableFromRows(rows)
}
