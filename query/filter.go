package query

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Resolver looks up fields in canonical rows, whose keys are all
// table-qualified. Tables lists the tables in scope, base table first.
type Resolver struct {
	Tables []string
}

// Lookup returns the value of field in row. An exact key wins. A qualified
// name t.f falls back to the bare f. Otherwise field is tried as
// <table>.field for each table in scope, in order, which also finds
// columns whose own name contains a dot.
func (r Resolver) Lookup(row Row, field string) (interface{}, bool) {
	if v, ok := row[field]; ok {
		return v, true
	}
	if i := strings.Index(field, "."); i >= 0 {
		if v, ok := row[field[i+1:]]; ok {
			return v, true
		}
	}
	for _, table := range r.Tables {
		if v, ok := row[table+"."+field]; ok {
			return v, true
		}
	}
	return nil, false
}

// predicate is a condition compiled against a resolver
type predicate func(row Row) bool

// Evaluate reports whether row satisfies cond. The row is never modified.
func Evaluate(row Row, cond Condition, r Resolver) (bool, error) {
	pred, err := compile(cond, r)
	if err != nil {
		return false, err
	}
	return pred(row), nil
}

// ApplyFilter keeps the rows that satisfy every condition, in order.
// Conditions are AND-combined regardless of the connective they were
// written with.
func ApplyFilter(rows []Row, conds []Condition, r Resolver) ([]Row, error) {
	if len(conds) == 0 {
		return rows, nil
	}

	preds := make([]predicate, 0, len(conds))
	for _, cond := range conds {
		pred, err := compile(cond, r)
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}

	filtered := make([]Row, 0)
	for _, row := range rows {
		match := true
		for _, pred := range preds {
			if !pred(row) {
				match = false
				break
			}
		}
		if match {
			filtered = append(filtered, row)
		}
	}

	return filtered, nil
}

// compile turns a condition into a predicate, failing on unknown operators
func compile(cond Condition, r Resolver) (predicate, error) {
	literal := stripQuotes(cond.Value)

	var test func(value string) bool
	switch cond.Operator {
	case OpLike:
		re, err := likeToRegexp(literal)
		if err != nil {
			return nil, fmt.Errorf("invalid LIKE pattern %q: %w", cond.Value, err)
		}
		test = re.MatchString
	case OpEqual:
		test = func(v string) bool { return looseEqual(v, literal) }
	case OpNotEqual:
		test = func(v string) bool { return v != literal }
	case OpGreater, OpLess, OpGreaterEqual, OpLessEqual:
		op := cond.Operator
		test = func(v string) bool { return compareOrdered(v, op, literal) }
	default:
		return nil, &UnsupportedOperatorError{Operator: string(cond.Operator)}
	}

	return func(row Row) bool {
		raw, ok := r.Lookup(row, cond.Field)
		if !ok || raw == nil {
			// null is unequal to everything and fails every other test
			return cond.Operator == OpNotEqual
		}
		return test(stripQuotes(toString(raw)))
	}, nil
}

// stripQuotes removes every single and double quote character
func stripQuotes(s string) string {
	if !strings.ContainsAny(s, `'"`) {
		return s
	}
	return strings.NewReplacer(`'`, "", `"`, "").Replace(s)
}

// toString renders a row value as text
func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// toFloat64 parses s as a finite number
func toFloat64(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// looseEqual treats two values as equal when the strings match or when
// both are numbers of equal value ("20" and "20.0").
func looseEqual(left, right string) bool {
	if left == right {
		return true
	}
	leftNum, leftIsNum := toFloat64(left)
	rightNum, rightIsNum := toFloat64(right)
	return leftIsNum && rightIsNum && leftNum == rightNum
}

// compareOrdered compares numerically when both sides are numbers and
// lexicographically otherwise. The choice is made per pair of values.
func compareOrdered(left string, op Operator, right string) bool {
	var cmp int
	leftNum, leftIsNum := toFloat64(left)
	rightNum, rightIsNum := toFloat64(right)

	if leftIsNum && rightIsNum {
		switch {
		case leftNum < rightNum:
			cmp = -1
		case leftNum > rightNum:
			cmp = 1
		}
	} else {
		cmp = strings.Compare(left, right)
	}

	switch op {
	case OpGreater:
		return cmp > 0
	case OpLess:
		return cmp < 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpLessEqual:
		return cmp <= 0
	default:
		return false
	}
}

// likeToRegexp translates a SQL LIKE pattern into an anchored,
// case-insensitive regular expression: % matches any sequence, _ matches
// exactly one character, everything else is literal.
func likeToRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString(`(?is)^`)
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(`.*`)
		case '_':
			b.WriteString(`.`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`$`)
	return regexp.Compile(b.String())
}

// ApplyDistinct removes duplicate rows, keeping the first occurrence
func ApplyDistinct(rows []Row) []Row {
	if len(rows) == 0 {
		return rows
	}

	seen := make(map[string]bool)
	distinct := make([]Row, 0, len(rows))

	for _, row := range rows {
		key := rowToKey(row)
		if !seen[key] {
			seen[key] = true
			distinct = append(distinct, row)
		}
	}

	return distinct
}

// rowToKey creates a unique string key from a row for deduplication
func rowToKey(row Row) string {
	columns := make([]string, 0, len(row))
	for col := range row {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	var key strings.Builder
	for i, col := range columns {
		if i > 0 {
			key.WriteString("\x00||\x00")
		}
		key.WriteString(col)
		key.WriteString("\x00:\x00")
		key.WriteString(fmt.Sprintf("%#v", row[col]))
	}

	return key.String()
}
