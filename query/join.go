package query

import "strings"

// Qualify copies loader rows into canonical form, keying every value as
// table.column. The input rows are left untouched.
func Qualify(table string, rows []Row) []Row {
	qualified := make([]Row, len(rows))
	for i, row := range rows {
		q := make(Row, len(row))
		for col, val := range row {
			q[table+"."+col] = val
		}
		qualified[i] = q
	}
	return qualified
}

// Join correlates canonical base and join rows on cond using nested loops.
// The base table's fields are resolved against base rows and the join
// table's against join rows, whichever order the ON clause names them in.
func Join(baseTable string, baseRows []Row, joinTable string, joinRows []Row, cond JoinCondition, joinType JoinType) ([]Row, error) {
	cond = orient(cond, baseTable, joinTable)
	baseSide := Resolver{Tables: []string{baseTable}}
	joinSide := Resolver{Tables: []string{joinTable}}

	matches := func(baseRow, joinRow Row) bool {
		left, ok := baseSide.Lookup(baseRow, cond.Left)
		if !ok || left == nil {
			return false
		}
		right, ok := joinSide.Lookup(joinRow, cond.Right)
		if !ok || right == nil {
			return false
		}
		return toString(left) == toString(right)
	}

	switch joinType {
	case JoinInner:
		return executeInnerJoin(baseRows, joinRows, matches), nil
	case JoinLeft:
		return executeLeftJoin(baseRows, joinRows, matches), nil
	case JoinRight:
		return executeRightJoin(baseRows, joinRows, matches), nil
	default:
		return nil, &UnsupportedJoinTypeError{JoinType: joinType.String()}
	}
}

// orient swaps the sides of cond when it was written join-table first,
// as in ON enrollment.student_id = student.id.
func orient(cond JoinCondition, baseTable, joinTable string) JoinCondition {
	if tableOf(cond.Left) == joinTable && tableOf(cond.Right) == baseTable {
		return JoinCondition{Left: cond.Right, Right: cond.Left}
	}
	return cond
}

// tableOf returns the table qualifier of a field, or "" for a bare name
func tableOf(field string) string {
	if i := strings.Index(field, "."); i >= 0 {
		return field[:i]
	}
	return ""
}

// executeInnerJoin emits one merged row per matching pair
func executeInnerJoin(baseRows, joinRows []Row, matches func(Row, Row) bool) []Row {
	result := make([]Row, 0)

	for _, baseRow := range baseRows {
		for _, joinRow := range joinRows {
			if matches(baseRow, joinRow) {
				result = append(result, mergeRows(baseRow, joinRow))
			}
		}
	}

	return result
}

// executeLeftJoin emits every match for each base row, or the base row
// alone with the join columns set to null when nothing matches.
func executeLeftJoin(baseRows, joinRows []Row, matches func(Row, Row) bool) []Row {
	result := make([]Row, 0, len(baseRows))
	nullJoin := createNullRow(joinRows)

	for _, baseRow := range baseRows {
		matched := false

		for _, joinRow := range joinRows {
			if matches(baseRow, joinRow) {
				result = append(result, mergeRows(baseRow, joinRow))
				matched = true
			}
		}

		if !matched {
			result = append(result, mergeRows(baseRow, nullJoin))
		}
	}

	return result
}

// executeRightJoin emits exactly one row per join row: merged with the
// first matching base row, or with a null base row when none matches.
func executeRightJoin(baseRows, joinRows []Row, matches func(Row, Row) bool) []Row {
	result := make([]Row, 0, len(joinRows))
	nullBase := createNullRow(baseRows)

	for _, joinRow := range joinRows {
		baseRow := nullBase
		for _, candidate := range baseRows {
			if matches(candidate, joinRow) {
				baseRow = candidate
				break
			}
		}
		result = append(result, mergeRows(baseRow, joinRow))
	}

	return result
}

// mergeRows combines two canonical rows into a new row
func mergeRows(base, join Row) Row {
	merged := make(Row, len(base)+len(join))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range join {
		merged[k] = v
	}
	return merged
}

// createNullRow creates a row with NULL values for all columns of the
// first row. An empty table has no known shape and yields an empty row.
func createNullRow(rows []Row) Row {
	nullRow := make(Row)
	if len(rows) == 0 {
		return nullRow
	}
	for col := range rows[0] {
		nullRow[col] = nil
	}
	return nullRow
}
