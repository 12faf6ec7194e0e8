package source

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"barstack/domain/dataset"
)

func decodeCSV(body []byte) (*dataset.RawTable, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return tableFromRows(rows)
}
