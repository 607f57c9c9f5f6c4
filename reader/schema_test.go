package reader

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestFileLoader_DescribeCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "student.csv", "id, name ,age\n1,Al,20\n")

	cols, err := NewFileLoader(dir).Describe(context.Background(), "student")
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}

	want := []ColumnInfo{
		{Name: "id", Type: "STRING", Source: "csv"},
		{Name: "name", Type: "STRING", Source: "csv"},
		{Name: "age", Type: "STRING", Source: "csv"},
	}
	if !reflect.DeepEqual(cols, want) {
		t.Errorf("Describe() = %+v, want %+v", cols, want)
	}
}

func TestFileLoader_DescribeParquet(t *testing.T) {
	type address struct {
		City string `parquet:"city"`
	}
	type record struct {
		ID       int64   `parquet:"id"`
		Name     string  `parquet:"name"`
		Age      int32   `parquet:"age"`
		Score    float64 `parquet:"score"`
		Active   bool    `parquet:"active"`
		Nickname *string `parquet:"nickname,optional"`
		Address  address `parquet:"address"`
	}

	dir := t.TempDir()
	writeParquet(t, dir, "people.parquet", []record{{ID: 1, Name: "Al", Address: address{City: "Oslo"}}})

	cols, err := NewFileLoader(dir).Describe(context.Background(), "people")
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}

	got := make(map[string]ColumnInfo, len(cols))
	for _, c := range cols {
		got[c.Name] = c
	}

	wantTypes := map[string]string{
		"id":           "INT64",
		"name":         "STRING",
		"age":          "INT32",
		"score":        "FLOAT64",
		"active":       "BOOLEAN",
		"nickname":     "STRING",
		"address.city": "STRING",
	}
	if len(got) != len(wantTypes) {
		t.Errorf("Describe() returned %d columns, want %d: %+v", len(got), len(wantTypes), cols)
	}
	for name, typ := range wantTypes {
		col, ok := got[name]
		if !ok {
			t.Errorf("missing column %q", name)
			continue
		}
		if col.Type != typ {
			t.Errorf("%s: Type = %q, want %q", name, col.Type, typ)
		}
		if col.Source != "parquet" {
			t.Errorf("%s: Source = %q, want parquet", name, col.Source)
		}
	}
	if !got["nickname"].Optional {
		t.Error("nickname should be optional")
	}
	if got["id"].Optional {
		t.Error("id should not be optional")
	}
}

func TestFileLoader_DescribeErrors(t *testing.T) {
	l := NewFileLoader(t.TempDir())

	_, err := l.Describe(context.Background(), "missing")
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("expected ErrTableNotFound, got %v", err)
	}

	_, err = l.Describe(context.Background(), "../x")
	if !errors.Is(err, ErrInvalidTableName) {
		t.Errorf("expected ErrInvalidTableName, got %v", err)
	}
}
