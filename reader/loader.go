package reader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrTableNotFound is returned when no file or object backs a table
	ErrTableNotFound = errors.New("table not found")
	// ErrInvalidTableName is returned for names that could escape the data directory
	ErrInvalidTableName = errors.New("invalid table name")
)

// LoadError reports a failure to load a table.
type LoadError struct {
	Table string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load table %q: %v", e.Table, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ValidateTableName rejects empty names and names containing path
// separators or "..".
func ValidateTableName(table string) error {
	if table == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTableName)
	}
	if strings.ContainsAny(table, `/\`) || strings.Contains(table, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidTableName, table)
	}
	return nil
}

// FileLoader loads tables from a local directory. Table t is read from
// <Dir>/t.csv, or from <Dir>/t.parquet when no CSV file exists.
type FileLoader struct {
	Dir string
}

// NewFileLoader creates a loader reading tables from dir
func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{Dir: dir}
}

// Load reads every row of table. Values are strings keyed by column name.
func (l *FileLoader) Load(ctx context.Context, table string) ([]map[string]interface{}, error) {
	if err := ValidateTableName(table); err != nil {
		return nil, &LoadError{Table: table, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Table: table, Err: err}
	}

	rows, err := l.load(table)
	if err != nil {
		return nil, &LoadError{Table: table, Err: err}
	}
	return rows, nil
}

func (l *FileLoader) load(table string) ([]map[string]interface{}, error) {
	path, format, err := l.locate(table)
	if err != nil {
		return nil, err
	}

	if format == formatParquet {
		r, err := NewReader(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
		return r.ReadAll()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f)
}

const (
	formatCSV     = "csv"
	formatParquet = "parquet"
)

// locate finds the file backing table, preferring CSV
func (l *FileLoader) locate(table string) (string, string, error) {
	for _, format := range []string{formatCSV, formatParquet} {
		path := filepath.Join(l.Dir, table+"."+format)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, format, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", "", fmt.Errorf("failed to stat file: %w", err)
		}
	}
	return "", "", fmt.Errorf("%w: no %s.csv or %s.parquet in %s", ErrTableNotFound, table, table, l.Dir)
}

// ReadCSV reads a CSV stream whose first record is the header. Every
// record must have as many fields as the header.
func ReadCSV(r io.Reader) ([]map[string]interface{}, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return make([]map[string]interface{}, 0), nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = cleanColumnName(col)
	}

	rows := make([]map[string]interface{}, 0)
	for {
		record, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = record[i]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// cleanColumnName trims whitespace and a leading byte order mark
func cleanColumnName(name string) string {
	return strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
}
