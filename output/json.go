package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter outputs rows as JSON Lines format
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes one JSON object per row. Null values are written as null.
// Keys appear in sorted order; columns only restricts which are written.
func (j *JSONFormatter) Format(columns []string, rows []map[string]interface{}) error {
	encoder := json.NewEncoder(j.writer)
	for _, row := range rows {
		if columns != nil {
			picked := make(map[string]interface{}, len(columns))
			for _, col := range columns {
				picked[col] = row[col]
			}
			row = picked
		}
		if err := encoder.Encode(row); err != nil {
			return err
		}
	}
	return nil
}
