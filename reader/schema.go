package reader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Source   string `json:"source"`
	Optional bool   `json:"optional"`
}

// Describe returns the columns of table without loading its rows. CSV
// columns are always STRING; parquet columns report the file's type, with
// nested fields named in dot notation.
func (l *FileLoader) Describe(ctx context.Context, table string) ([]ColumnInfo, error) {
	if err := ValidateTableName(table); err != nil {
		return nil, &LoadError{Table: table, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Table: table, Err: err}
	}

	path, format, err := l.locate(table)
	if err != nil {
		return nil, &LoadError{Table: table, Err: err}
	}

	var cols []ColumnInfo
	if format == formatParquet {
		cols, err = describeParquet(path)
	} else {
		cols, err = describeCSV(path)
	}
	if err != nil {
		return nil, &LoadError{Table: table, Err: err}
	}
	return cols, nil
}

func describeCSV(path string) ([]ColumnInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	header, err := csv.NewReader(f).Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []ColumnInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make([]ColumnInfo, len(header))
	for i, name := range header {
		cols[i] = ColumnInfo{
			Name:   cleanColumnName(name),
			Type:   "STRING",
			Source: formatCSV,
		}
	}
	return cols, nil
}

func describeParquet(path string) ([]ColumnInfo, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	var cols []ColumnInfo
	for _, field := range r.Schema().Fields() {
		cols = append(cols, leafColumns(field, "")...)
	}
	return cols, nil
}

// leafColumns flattens a parquet field into its leaf columns
func leafColumns(field parquet.Field, prefix string) []ColumnInfo {
	name := field.Name()
	if prefix != "" {
		name = prefix + "." + name
	}

	if children := field.Fields(); len(children) > 0 {
		var cols []ColumnInfo
		for _, child := range children {
			cols = append(cols, leafColumns(child, name)...)
		}
		return cols
	}

	return []ColumnInfo{{
		Name:     name,
		Type:     parquetTypeName(field),
		Source:   formatParquet,
		Optional: field.Optional(),
	}}
}

// parquetTypeName maps a parquet leaf to a short type name, preferring the
// logical type when it is more specific than the physical one.
func parquetTypeName(field parquet.Field) string {
	if field.Type() == nil {
		return "GROUP"
	}

	if logical := field.Type().LogicalType(); logical != nil {
		switch s := logical.String(); {
		case s == "STRING" || s == "UTF8":
			return "STRING"
		case strings.HasPrefix(s, "TIMESTAMP"):
			return "TIMESTAMP"
		case strings.HasPrefix(s, "DECIMAL"):
			return "DECIMAL"
		case s == "DATE", s == "UUID", s == "JSON", s == "ENUM":
			return s
		}
	}

	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT32"
	case parquet.Double:
		return "FLOAT64"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}
