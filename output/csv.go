package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSVFormatter outputs rows as CSV format
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes a header row followed by one record per row. Null values
// are written as empty fields. Nothing is written when there are no
// columns.
func (c *CSVFormatter) Format(columns []string, rows []map[string]interface{}) error {
	csvWriter := csv.NewWriter(c.writer)

	columns = resolveColumns(columns, rows)
	if len(columns) > 0 {
		if err := csvWriter.Write(columns); err != nil {
			return err
		}

		for _, row := range rows {
			record := make([]string, len(columns))
			for i, col := range columns {
				record[i] = formatValue(row[col])
			}
			if err := csvWriter.Write(record); err != nil {
				return err
			}
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return nil
}

// formatValue converts a value to string for CSV output
func formatValue(v interface{}) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		// Prefix values a spreadsheet would evaluate as a formula
		if len(val) > 0 {
			switch val[0] {
			case '=', '+', '-', '@', '\t', '\r', '\n', '|':
				if isNumber(val) {
					return val
				}
				return "'" + strings.ReplaceAll(val, "'", "''")
			}
		}
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// isNumber reports whether s parses as a float
func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
