package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EncodeCSV renders flattened records as CSV text. The column set is
// the union of keys across all records in first-seen order, so every
// record contributes its columns even when only some records carry a
// field. Missing values render as empty cells. Returns "" for empty
// input.
func EncodeCSV(records []bson.D) string {
	if len(records) == 0 {
		return ""
	}

	var columns []string
	position := make(map[string]int)
	for _, rec := range records {
		for _, e := range rec {
			if _, ok := position[e.Key]; !ok {
				position[e.Key] = len(columns)
				columns = append(columns, e.Key)
			}
		}
	}

	rows := make([]string, 0, len(records)+1)
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = escapeCell(col)
	}
	rows = append(rows, strings.Join(header, ","))

	for _, rec := range records {
		cells := make([]string, len(columns))
		for _, e := range rec {
			cells[position[e.Key]] = escapeCell(cellString(e.Value))
		}
		rows = append(rows, strings.Join(cells, ","))
	}

	return strings.Join(rows, "\n")
}

// cellString converts a flattened scalar to its CSV text form.
func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// escapeCell applies standard CSV quoting: a cell containing a comma,
// double quote or newline is wrapped in quotes with inner quotes
// doubled.
func escapeCell(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
