package query

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParse_Select(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		fields []string
		table  string
	}{
		{"single field", "SELECT name FROM student", []string{"name"}, "student"},
		{"multiple fields", "SELECT id, name, age FROM student", []string{"id", "name", "age"}, "student"},
		{"lowercase keywords", "select name from student", []string{"name"}, "student"},
		{"surrounding whitespace", "  \n SELECT name FROM student \t", []string{"name"}, "student"},
		{"qualified fields", "SELECT student.name,student.age FROM student", []string{"student.name", "student.age"}, "student"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.query)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !reflect.DeepEqual(q.Fields, tt.fields) {
				t.Errorf("Fields = %v, want %v", q.Fields, tt.fields)
			}
			if q.TableName != tt.table {
				t.Errorf("TableName = %q, want %q", q.TableName, tt.table)
			}
			if q.JoinType != JoinNone {
				t.Errorf("JoinType = %v, want NONE", q.JoinType)
			}
			if q.JoinCondition != nil || q.JoinTable != "" {
				t.Errorf("unexpected join: %q %+v", q.JoinTable, q.JoinCondition)
			}
			if len(q.Conditions) != 0 {
				t.Errorf("unexpected conditions: %+v", q.Conditions)
			}
		})
	}
}

func TestParse_Distinct(t *testing.T) {
	q, err := Parse("select distinct name FROM student")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !q.Distinct {
		t.Error("expected Distinct to be set")
	}
	if !reflect.DeepEqual(q.Fields, []string{"name"}) {
		t.Errorf("Fields = %v", q.Fields)
	}
}

func TestParse_Where(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []Condition
	}{
		{
			name:  "number",
			query: "SELECT name FROM student WHERE age > 18",
			want:  []Condition{{Field: "age", Operator: OpGreater, Value: "18"}},
		},
		{
			name:  "quoted string",
			query: "SELECT name FROM student WHERE name = 'John'",
			want:  []Condition{{Field: "name", Operator: OpEqual, Value: "John"}},
		},
		{
			name:  "bare word value",
			query: "SELECT name FROM student WHERE name != John",
			want:  []Condition{{Field: "name", Operator: OpNotEqual, Value: "John"}},
		},
		{
			name:  "like",
			query: `SELECT name FROM student WHERE name LIKE "J%"`,
			want:  []Condition{{Field: "name", Operator: OpLike, Value: "J%"}},
		},
		{
			name:  "and or kept in order",
			query: "SELECT name FROM student WHERE age >= 18 AND name <= 'M' or id < 5",
			want: []Condition{
				{Field: "age", Operator: OpGreaterEqual, Value: "18"},
				{Field: "name", Operator: OpLessEqual, Value: "M", Connective: "AND"},
				{Field: "id", Operator: OpLess, Value: "5", Connective: "OR"},
			},
		},
		{
			name:  "qualified field after join",
			query: "SELECT student.name FROM student INNER JOIN enrollment ON student.id = enrollment.student_id WHERE enrollment.course = 'CS'",
			want:  []Condition{{Field: "enrollment.course", Operator: OpEqual, Value: "CS"}},
		},
		{
			name:  "unquoted date",
			query: "SELECT name FROM student WHERE joined = 2024-01-01",
			want:  []Condition{{Field: "joined", Operator: OpEqual, Value: "2024-01-01"}},
		},
		{
			name:  "unquoted multi-word value",
			query: "SELECT name FROM student WHERE name = Al B",
			want:  []Condition{{Field: "name", Operator: OpEqual, Value: "Al B"}},
		},
		{
			name:  "unquoted like pattern",
			query: "SELECT name FROM student WHERE name LIKE A%",
			want:  []Condition{{Field: "name", Operator: OpLike, Value: "A%"}},
		},
		{
			name:  "unquoted symbol",
			query: "SELECT name FROM student WHERE dept = R&D",
			want:  []Condition{{Field: "dept", Operator: OpEqual, Value: "R&D"}},
		},
		{
			name:  "connective only as whole word",
			query: "SELECT name FROM student WHERE name = Orson Band and dept = Android",
			want: []Condition{
				{Field: "name", Operator: OpEqual, Value: "Orson Band"},
				{Field: "dept", Operator: OpEqual, Value: "Android", Connective: "AND"},
			},
		},
		{
			name:  "embedded quotes stripped",
			query: `SELECT name FROM student WHERE name = "O'Brien"`,
			want:  []Condition{{Field: "name", Operator: OpEqual, Value: "OBrien"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.query)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !reflect.DeepEqual(q.Conditions, tt.want) {
				t.Errorf("Conditions = %+v, want %+v", q.Conditions, tt.want)
			}
		})
	}
}

func TestParse_HasOr(t *testing.T) {
	q, err := Parse("SELECT name FROM student WHERE age > 18 OR age < 10")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !q.HasOr() {
		t.Error("expected HasOr() to be true")
	}

	q, err = Parse("SELECT name FROM student WHERE age > 18 AND age < 30")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if q.HasOr() {
		t.Error("expected HasOr() to be false")
	}
}

func TestParse_Join(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		joinType JoinType
	}{
		{"inner", "SELECT student.name FROM student INNER JOIN enrollment ON student.id = enrollment.student_id", JoinInner},
		{"left", "SELECT student.name FROM student LEFT JOIN enrollment ON student.id=enrollment.student_id", JoinLeft},
		{"right lowercase", "select student.name from student right join enrollment on student.id = enrollment.student_id", JoinRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.query)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if q.JoinType != tt.joinType {
				t.Errorf("JoinType = %v, want %v", q.JoinType, tt.joinType)
			}
			if q.JoinTable != "enrollment" {
				t.Errorf("JoinTable = %q, want enrollment", q.JoinTable)
			}
			want := &JoinCondition{Left: "student.id", Right: "enrollment.student_id"}
			if !reflect.DeepEqual(q.JoinCondition, want) {
				t.Errorf("JoinCondition = %+v, want %+v", q.JoinCondition, want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantMsg string
	}{
		{"empty", "", "invalid SELECT format"},
		{"no select", "name FROM student", "invalid SELECT format"},
		{"no from", "SELECT name student", "invalid SELECT format"},
		{"no fields", "SELECT FROM student", "invalid SELECT format"},
		{"no table", "SELECT name FROM", "invalid SELECT format"},
		{"star", "SELECT * FROM student", "SELECT * is not supported"},
		{"trailing comma", "SELECT name, FROM student", "invalid SELECT format"},
		{"qualified table", "SELECT name FROM db.student", "invalid SELECT format"},
		{"where without condition", "SELECT name FROM student WHERE", "invalid WHERE clause format"},
		{"where without operator", "SELECT name FROM student WHERE age 18", "invalid WHERE clause format"},
		{"where without value", "SELECT name FROM student WHERE age >", "invalid WHERE clause format"},
		{"dangling and", "SELECT name FROM student WHERE age > 18 AND", "invalid WHERE clause format"},
		{"value missing before and", "SELECT name FROM student WHERE age > AND id = 1", "invalid WHERE clause format"},
		{"join without on", "SELECT name FROM student INNER JOIN enrollment", "missing ON clause"},
		{"join on without equals", "SELECT name FROM student LEFT JOIN enrollment ON student.id enrollment.student_id", "invalid JOIN format"},
		{"join on non-equality", "SELECT name FROM student LEFT JOIN enrollment ON student.id > enrollment.student_id", "invalid JOIN format"},
		{"bare join", "SELECT name FROM student JOIN enrollment ON student.id = enrollment.student_id", "invalid JOIN format"},
		{"outer keyword", "SELECT name FROM student LEFT OUTER JOIN enrollment ON student.id = enrollment.student_id", "invalid JOIN format"},
		{"two joins", "SELECT name FROM a INNER JOIN b ON a.id = b.id LEFT JOIN c ON a.id = c.id", "only one JOIN"},
		{"self join", "SELECT name FROM a INNER JOIN a ON a.id = a.id", "with itself"},
		{"invalid character", "SELECT name FROM student;", "invalid character"},
		{"trailing tokens", "SELECT name FROM student extra", "unexpected trailing tokens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.query)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParse_UnsupportedJoinType(t *testing.T) {
	for _, kind := range []string{"FULL", "cross"} {
		t.Run(kind, func(t *testing.T) {
			_, err := Parse("SELECT a.x FROM a " + kind + " JOIN b ON a.id = b.id")
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T (%v)", err, err)
			}
			var jerr *UnsupportedJoinTypeError
			if !errors.As(err, &jerr) {
				t.Fatalf("expected wrapped *UnsupportedJoinTypeError, got %v", err)
			}
			if jerr.JoinType != strings.ToUpper(kind) {
				t.Errorf("JoinType = %q, want %q", jerr.JoinType, strings.ToUpper(kind))
			}
		})
	}
}

func TestParse_Limits(t *testing.T) {
	t.Run("query too long", func(t *testing.T) {
		_, err := Parse("SELECT a FROM t WHERE a = '" + strings.Repeat("x", MaxQueryLength) + "'")
		if !errors.Is(err, ErrQueryTooLong) {
			t.Errorf("expected ErrQueryTooLong, got %v", err)
		}
	})

	t.Run("too many tokens", func(t *testing.T) {
		fields := strings.Repeat("a, ", MaxTokens) + "a"
		_, err := Parse("SELECT " + fields + " FROM t")
		if !errors.Is(err, ErrTooManyTokens) {
			t.Errorf("expected ErrTooManyTokens, got %v", err)
		}
	})

	t.Run("column name too long", func(t *testing.T) {
		_, err := Parse("SELECT " + strings.Repeat("c", MaxColumnNameLength+1) + " FROM t")
		if !errors.Is(err, ErrColumnNameTooLong) {
			t.Errorf("expected ErrColumnNameTooLong, got %v", err)
		}
	})

	t.Run("table name too long", func(t *testing.T) {
		_, err := Parse("SELECT a FROM " + strings.Repeat("t", MaxTableNameLength+1))
		if !errors.Is(err, ErrTableNameTooLong) {
			t.Errorf("expected ErrTableNameTooLong, got %v", err)
		}
	})
}
