package query

// TokenType represents the type of a token
type TokenType int

const (
	// Keywords
	TokenSelect TokenType = iota
	TokenDistinct
	TokenFrom
	TokenWhere
	TokenAnd
	TokenOr
	TokenLike
	TokenJoin
	TokenInner
	TokenLeft
	TokenRight
	TokenOn

	// Operators
	TokenEqual        // =
	TokenNotEqual     // !=
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=

	// Literals
	TokenString
	TokenNumber
	TokenIdent
	TokenValue // unquoted WHERE value, raw text

	// Delimiters
	TokenComma // ,
	TokenStar  // *

	// Special
	TokenEOF
	TokenError
)

var tokenNames = map[TokenType]string{
	TokenSelect:       "SELECT",
	TokenDistinct:     "DISTINCT",
	TokenFrom:         "FROM",
	TokenWhere:        "WHERE",
	TokenAnd:          "AND",
	TokenOr:           "OR",
	TokenLike:         "LIKE",
	TokenJoin:         "JOIN",
	TokenInner:        "INNER",
	TokenLeft:         "LEFT",
	TokenRight:        "RIGHT",
	TokenOn:           "ON",
	TokenEqual:        "=",
	TokenNotEqual:     "!=",
	TokenLess:         "<",
	TokenGreater:      ">",
	TokenLessEqual:    "<=",
	TokenGreaterEqual: ">=",
	TokenString:       "string",
	TokenNumber:       "number",
	TokenIdent:        "identifier",
	TokenValue:        "value",
	TokenComma:        ",",
	TokenStar:         "*",
	TokenEOF:          "end of query",
	TokenError:        "invalid character",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "unknown"
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
}

// Row is one record keyed by field name. Values are strings, or nil for
// the unmatched side of an outer join.
type Row = map[string]interface{}

// Operator is a WHERE comparison operator as written in the query.
type Operator string

const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpLike         Operator = "LIKE"
)

// JoinType represents the type of join operation
type JoinType int

const (
	JoinNone  JoinType = iota // no JOIN clause
	JoinInner                 // INNER JOIN
	JoinLeft                  // LEFT JOIN
	JoinRight                 // RIGHT JOIN
)

func (j JoinType) String() string {
	switch j {
	case JoinNone:
		return "NONE"
	case JoinInner:
		return "INNER"
	case JoinLeft:
		return "LEFT"
	case JoinRight:
		return "RIGHT"
	default:
		return "UNKNOWN"
	}
}

// Condition is a single WHERE predicate: field operator literal.
type Condition struct {
	Field    string
	Operator Operator
	Value    string // quote characters stripped

	// Connective is the keyword (AND or OR) that preceded this condition,
	// empty for the first one. Conditions are always AND-combined; it is
	// kept so callers can report an OR that had no effect.
	Connective string
}

// JoinCondition is the ON clause of a join: Left = Right.
type JoinCondition struct {
	Left  string
	Right string
}

// Query represents a parsed SQL query
type Query struct {
	Fields        []string // as written, possibly table-qualified
	TableName     string
	Conditions    []Condition
	JoinType      JoinType
	JoinTable     string
	JoinCondition *JoinCondition
	Distinct      bool // recognized, enforced only when the executor is asked to
}

// HasOr reports whether any condition was introduced with OR.
func (q *Query) HasOr() bool {
	for _, c := range q.Conditions {
		if c.Connective == "OR" {
			return true
		}
	}
	return false
}
