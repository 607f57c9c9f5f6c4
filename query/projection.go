package query

import "sort"

// Project builds output rows holding exactly the requested fields, keyed as
// written in the SELECT list. Fields that do not resolve project to null.
func Project(rows []Row, fields []string, r Resolver) []Row {
	projected := make([]Row, 0, len(rows))

	for _, row := range rows {
		newRow := make(Row, len(fields))
		for _, field := range fields {
			value, _ := r.Lookup(row, field)
			newRow[field] = value
		}
		projected = append(projected, newRow)
	}

	return projected
}

// GetColumnNames returns all unique column names from rows, sorted
func GetColumnNames(rows []Row) []string {
	if len(rows) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	columns := make([]string, 0)

	for _, row := range rows {
		for col := range row {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}

	sort.Strings(columns)
	return columns
}
