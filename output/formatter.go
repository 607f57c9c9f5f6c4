// Package output renders query results as JSON Lines, CSV or a text table.
package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/csvql/query"
)

// ErrUnsupportedFormat is returned by New for an unknown format name
var ErrUnsupportedFormat = errors.New("unsupported format")

// Formats lists the accepted format names
var Formats = []string{"jsonl", "json", "csv", "table"}

// Formatter defines the interface for output formatters.
type Formatter interface {
	// Format writes rows with columns in the given order. A nil columns
	// slice means every column found in rows, sorted by name.
	Format(columns []string, rows []map[string]interface{}) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// New returns the formatter for format writing to w
func New(format string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(format) {
	case "json", "jsonl":
		return NewJSONFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "table":
		return NewTableFormatter(w), nil
	default:
		return nil, fmt.Errorf("%w %q, supported formats: %s", ErrUnsupportedFormat, format, strings.Join(Formats, ", "))
	}
}

func resolveColumns(columns []string, rows []map[string]interface{}) []string {
	if columns != nil {
		return columns
	}
	return query.GetColumnNames(rows)
}
