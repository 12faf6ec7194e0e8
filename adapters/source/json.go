package source

import (
	"fmt"

	"barstack/domain/dataset"

	"github.com/tidwall/gjson"
)

// decodeJSON reads an array of flat objects. Column order is the key order of the first
// object, so the first key is the category column.
func decodeJSON(body []byte, dataPath string) (*dataset.RawTable, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON document")
	}
	if dataPath == "" {
		dataPath = "@this"
	}
	result := gjson.GetBytes(body, dataPath)
	if !result.Exists() {
		return nil, fmt.Errorf("data path '%s' not found", dataPath)
	}
	if !result.IsArray() {
		return nil, fmt.Errorf("data path '%s' is not an array", dataPath)
	}

	var rows [][]string
	var headers []string
	index := map[string]int{}
	var decodeErr error
	result.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			decodeErr = fmt.Errorf("row %d is not an object", len(rows))
			return false
		}
		if headers == nil {
			headers = []string{}
			item.ForEach(func(key, _ gjson.Result) bool {
				index[key.String()] = len(headers)
				headers = append(headers, key.String())
				return true
			})
			rows = append(rows, headers)
		}
		cells := make([]string, len(headers))
		present := make([]bool, len(headers))
		item.ForEach(func(key, value gjson.Result) bool {
			if i, ok := index[key.String()]; ok {
				cells[i] = cellText(value)
				present[i] = true
			}
			return true
		})
		// Cut at the first missing key so the parser reports that column.
		for i, ok := range present {
			if !ok {
				cells = cells[:i]
				break
			}
		}
		rows = append(rows, cells)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("data path '%s' holds no rows", dataPath)
	}
	return tableFromRows(rows)
}

func cellText(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.Number:
		return v.Raw
	}
	return v.String()
}
