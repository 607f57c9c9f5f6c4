// Package query parses and executes a restricted SQL SELECT dialect over
// in-memory tables.
//
// The accepted syntax is:
//
//	SELECT [DISTINCT] <field>[, <field>...] FROM <table>
//	  [ (INNER|LEFT|RIGHT) JOIN <table2> ON <table>.<f> = <table2>.<f> ]
//	  [ WHERE <field> <op> <value> ( (AND|OR) <field> <op> <value> )* ]
//
// where <op> is one of =, !=, >, <, >=, <=, LIKE. Keywords are
// case-insensitive and string literals may use single or double quotes.
//
// # Basic Usage
//
// Tables come from a Loader, typically one from the reader package:
//
//	exec := query.NewExecutor(reader.NewFileLoader("testdata"))
//	rows, err := exec.Execute(ctx, "SELECT name FROM student WHERE age > 18")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Parsing can be done on its own:
//
//	q, err := query.Parse("SELECT student.name, enrollment.course FROM student " +
//	    "LEFT JOIN enrollment ON student.id = enrollment.student_id")
//
// # Rows
//
// Loaded rows are copied into canonical form where every key is
// table-qualified (student.age). Field references resolve against that
// form: an exact key wins, a qualified name falls back to the bare column,
// and a bare name is looked up in the base table first, then the join
// table. Result rows are keyed by the field names exactly as written in
// the SELECT list.
//
// # Conditions
//
// All WHERE conditions are AND-combined, including those written with OR.
// The connective is recorded on each Condition and the executor logs a
// warning when OR appears.
//
//   - = is loose: equal strings, or numbers of equal value ("20" = 20.0)
//   - != is strict string inequality
//   - >, <, >=, <= compare numerically when both sides are numbers and
//     lexicographically otherwise
//   - LIKE is anchored and case-insensitive; % matches any sequence and
//     _ exactly one character
//
// Quote characters are stripped from both the literal and the row value
// before comparing. A missing or null field only satisfies !=.
//
// # Joins
//
// INNER, LEFT and RIGHT joins use nested loops on a single equality. LEFT
// keeps every base row, padding unmatched ones with nulls. RIGHT emits
// exactly one row per join-table row, paired with the first matching base
// row or with nulls.
//
// # DISTINCT
//
// DISTINCT is parsed and recorded but does not deduplicate unless the
// executor is created WithDistinct(true).
//
// # Errors
//
// Parse returns *ParseError. Execution failures of any kind come back as
// *ExecutionError, which unwraps to the cause: *ParseError,
// *UnsupportedOperatorError, *UnsupportedJoinTypeError, or the loader's
// error.
package query
