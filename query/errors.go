package query

import "fmt"

// ParseError is returned by Parse when the query does not match the
// accepted grammar.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("query parsing error: %s: %v", e.Msg, e.Err)
	}
	return "query parsing error: " + e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnsupportedOperatorError names a WHERE operator outside the supported set.
type UnsupportedOperatorError struct {
	Operator string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator: %s", e.Operator)
}

// UnsupportedJoinTypeError names a join keyword outside INNER, LEFT, RIGHT.
type UnsupportedJoinTypeError struct {
	JoinType string
}

func (e *UnsupportedJoinTypeError) Error() string {
	return fmt.Sprintf("unsupported JOIN type: %s", e.JoinType)
}

// ExecutionError wraps any failure raised while executing a query.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string {
	return "error executing query: " + e.Err.Error()
}

func (e *ExecutionError) Unwrap() error { return e.Err }
