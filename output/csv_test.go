package output

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"strings"
	"testing"
)

func readCSVOutput(t *testing.T, s string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(s)).ReadAll()
	if err != nil {
		t.Fatalf("Format() produced invalid CSV: %v", err)
	}
	return records
}

func TestCSVFormatter_Format(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		rows    []map[string]interface{}
		want    [][]string
	}{
		{
			name:    "no rows writes header",
			columns: []string{"name"},
			rows:    []map[string]interface{}{},
			want:    [][]string{{"name"}},
		},
		{
			name:    "select order",
			columns: []string{"student.name", "enrollment.course", "age"},
			rows: []map[string]interface{}{
				{"student.name": "Al", "enrollment.course": "CS", "age": "20"},
				{"student.name": "Bo", "enrollment.course": nil, "age": "17"},
			},
			want: [][]string{
				{"student.name", "enrollment.course", "age"},
				{"Al", "CS", "20"},
				{"Bo", "", "17"},
			},
		},
		{
			name: "nil columns are sorted",
			rows: []map[string]interface{}{
				{"z_last": "1", "a_first": "2"},
				{"m_middle": "3"},
			},
			want: [][]string{
				{"a_first", "m_middle", "z_last"},
				{"2", "", "1"},
				{"", "3", ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewCSVFormatter(&buf).Format(tt.columns, tt.rows); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			got := readCSVOutput(t, buf.String())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Format() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCSVFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(nil, nil); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestCSVFormatter_SpecialCharacters(t *testing.T) {
	rows := []map[string]interface{}{
		{"name": "Alice, Bob", "quote": `He said "hello"`, "newline": "line1\nline2"},
	}

	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format([]string{"name", "quote", "newline"}, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	records := readCSVOutput(t, buf.String())
	want := []string{"Alice, Bob", `He said "hello"`, "line1\nline2"}
	if !reflect.DeepEqual(records[1], want) {
		t.Errorf("data row = %q, want %q", records[1], want)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"alice", "alice"},
		{"=SUM(A1:A2)", "'=SUM(A1:A2)"},
		{"+cmd", "'+cmd"},
		{"@x", "'@x"},
		{"-x'y", "'-x''y"},
		{"-12.5", "-12.5"},
		{"+3", "+3"},
		{int64(42), "42"},
		{true, "true"},
	}

	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCSVFormatter_SetOutput(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	formatter := NewCSVFormatter(&buf1)
	rows := []map[string]interface{}{{"id": "1"}}

	if err := formatter.Format(nil, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	formatter.SetOutput(&buf2)
	if err := formatter.Format(nil, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if buf1.String() != "id\n1\n" || buf2.String() != "id\n1\n" {
		t.Errorf("unexpected output: %q / %q", buf1.String(), buf2.String())
	}
}
