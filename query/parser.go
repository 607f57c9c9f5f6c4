package query

import (
	"fmt"
	"strings"
)

// Parser parses SQL queries into a Query descriptor
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens: tokens,
		pos:    0,
	}
}

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF, Value: ""}
	}
	return p.tokens[p.pos]
}

// peek returns the next token without advancing
func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Type: TokenEOF, Value: ""}
	}
	return p.tokens[p.pos+1]
}

// advance moves to the next token
func (p *Parser) advance() {
	p.pos++
}

// expect checks if current token matches expected type and advances
func (p *Parser) expect(tokType TokenType) error {
	if p.current().Type != tokType {
		return fmt.Errorf("expected %v, got %s", tokType, describe(p.current()))
	}
	p.advance()
	return nil
}

// describe renders a token for error messages
func describe(tok Token) string {
	switch tok.Type {
	case TokenEOF:
		return "end of query"
	case TokenError:
		return fmt.Sprintf("invalid character %q", tok.Value)
	default:
		return fmt.Sprintf("%q", tok.Value)
	}
}

// Parse parses a SQL query. Every failure is returned as a *ParseError,
// except that an unknown join keyword is a *ParseError wrapping an
// *UnsupportedJoinTypeError.
func Parse(query string) (*Query, error) {
	if err := ValidateQuery(query); err != nil {
		return nil, &ParseError{Msg: "invalid query", Err: err}
	}

	tokens := Tokenize(strings.TrimSpace(query))

	if err := ValidateTokens(tokens); err != nil {
		return nil, &ParseError{Msg: "invalid query", Err: err}
	}

	parser := NewParser(tokens)
	q, err := parser.parseQuery()
	if err != nil {
		return nil, err
	}

	if parser.current().Type == TokenError {
		return nil, &ParseError{Msg: fmt.Sprintf("invalid character in query: %s", parser.current().Value)}
	}
	if parser.current().Type != TokenEOF {
		return nil, &ParseError{Msg: fmt.Sprintf("unexpected trailing tokens after query: %s", parser.current().Value)}
	}

	return q, nil
}

// parseQuery parses: SELECT [DISTINCT] fields FROM table [join] [WHERE conditions]
func (p *Parser) parseQuery() (*Query, error) {
	if err := p.expect(TokenSelect); err != nil {
		return nil, &ParseError{Msg: "invalid SELECT format", Err: err}
	}

	q := &Query{}

	if p.current().Type == TokenDistinct {
		q.Distinct = true
		p.advance()
	}

	fields, err := p.parseFieldList()
	if err != nil {
		return nil, &ParseError{Msg: "invalid SELECT format", Err: err}
	}
	q.Fields = fields

	if err := p.expect(TokenFrom); err != nil {
		return nil, &ParseError{Msg: "invalid SELECT format", Err: err}
	}

	table, err := p.parseTableName()
	if err != nil {
		return nil, &ParseError{Msg: "invalid SELECT format", Err: err}
	}
	q.TableName = table

	if err := p.parseJoin(q); err != nil {
		return nil, err
	}

	if p.current().Type == TokenWhere {
		p.advance()
		conditions, err := p.parseConditions()
		if err != nil {
			return nil, &ParseError{Msg: "invalid WHERE clause format", Err: err}
		}
		q.Conditions = conditions
	}

	return q, nil
}

// parseFieldList parses a comma-separated list of field names
func (p *Parser) parseFieldList() ([]string, error) {
	var fields []string

	for {
		tok := p.current()
		if tok.Type == TokenStar {
			return nil, fmt.Errorf("SELECT * is not supported, list the fields explicitly")
		}
		if tok.Type != TokenIdent {
			return nil, fmt.Errorf("expected field name, got %s", describe(tok))
		}
		if err := ValidateColumnName(tok.Value); err != nil {
			return nil, err
		}
		fields = append(fields, tok.Value)
		p.advance()

		if p.current().Type != TokenComma {
			break
		}
		p.advance()
	}

	return fields, nil
}

// parseTableName parses a bare table name
func (p *Parser) parseTableName() (string, error) {
	tok := p.current()
	if tok.Type != TokenIdent {
		return "", fmt.Errorf("expected table name, got %s", describe(tok))
	}
	if err := ValidateTableName(tok.Value); err != nil {
		return "", err
	}
	p.advance()
	return tok.Value, nil
}

// parseJoin parses an optional (INNER|LEFT|RIGHT) JOIN table ON left = right.
// At most one join is supported.
func (p *Parser) parseJoin(q *Query) error {
	switch p.current().Type {
	case TokenInner:
		q.JoinType = JoinInner
	case TokenLeft:
		q.JoinType = JoinLeft
	case TokenRight:
		q.JoinType = JoinRight
	case TokenJoin:
		return &ParseError{Msg: "invalid JOIN format", Err: fmt.Errorf("JOIN must be preceded by INNER, LEFT or RIGHT")}
	case TokenIdent:
		// FULL JOIN, CROSS JOIN, ...
		if p.peek().Type == TokenJoin {
			return &ParseError{
				Msg: "invalid JOIN format",
				Err: &UnsupportedJoinTypeError{JoinType: strings.ToUpper(p.current().Value)},
			}
		}
		return nil
	default:
		return nil
	}
	p.advance()

	if err := p.expect(TokenJoin); err != nil {
		return &ParseError{Msg: "invalid JOIN format", Err: err}
	}

	table, err := p.parseTableName()
	if err != nil {
		return &ParseError{Msg: "invalid JOIN format", Err: err}
	}
	if table == q.TableName {
		return &ParseError{Msg: "invalid JOIN format", Err: fmt.Errorf("cannot join table %q with itself", table)}
	}
	q.JoinTable = table

	if err := p.expect(TokenOn); err != nil {
		return &ParseError{Msg: "invalid JOIN format: missing ON clause", Err: err}
	}

	left := p.current()
	if left.Type != TokenIdent {
		return &ParseError{Msg: "invalid JOIN format", Err: fmt.Errorf("expected field name after ON, got %s", describe(left))}
	}
	p.advance()

	if err := p.expect(TokenEqual); err != nil {
		return &ParseError{Msg: "invalid JOIN format", Err: err}
	}

	right := p.current()
	if right.Type != TokenIdent {
		return &ParseError{Msg: "invalid JOIN format", Err: fmt.Errorf("expected field name after '=', got %s", describe(right))}
	}
	p.advance()

	q.JoinCondition = &JoinCondition{Left: left.Value, Right: right.Value}

	if p.current().Type == TokenInner || p.current().Type == TokenLeft ||
		p.current().Type == TokenRight || p.current().Type == TokenJoin {
		return &ParseError{Msg: "invalid JOIN format", Err: fmt.Errorf("only one JOIN is supported")}
	}

	return nil
}

// parseConditions parses cond ((AND|OR) cond)* into a flat list. The
// connectives are recorded but not interpreted.
func (p *Parser) parseConditions() ([]Condition, error) {
	var conditions []Condition
	connective := ""

	for {
		cond, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		cond.Connective = connective
		conditions = append(conditions, cond)

		switch p.current().Type {
		case TokenAnd:
			connective = "AND"
		case TokenOr:
			connective = "OR"
		default:
			return conditions, nil
		}
		p.advance()
	}
}

// parseComparison parses field operator value. An unquoted value is the
// raw text up to the next connective, as scanned by the lexer.
func (p *Parser) parseComparison() (Condition, error) {
	tok := p.current()
	if tok.Type != TokenIdent {
		return Condition{}, fmt.Errorf("expected field name, got %s", describe(tok))
	}
	if err := ValidateColumnName(tok.Value); err != nil {
		return Condition{}, err
	}
	field := tok.Value
	p.advance()

	var op Operator
	switch p.current().Type {
	case TokenEqual:
		op = OpEqual
	case TokenNotEqual:
		op = OpNotEqual
	case TokenGreater:
		op = OpGreater
	case TokenLess:
		op = OpLess
	case TokenGreaterEqual:
		op = OpGreaterEqual
	case TokenLessEqual:
		op = OpLessEqual
	case TokenLike:
		op = OpLike
	default:
		return Condition{}, fmt.Errorf("expected comparison operator after %q, got %s", field, describe(p.current()))
	}
	p.advance()

	value := p.current()
	switch value.Type {
	case TokenString, TokenNumber, TokenIdent, TokenValue:
		p.advance()
	default:
		return Condition{}, fmt.Errorf("expected value after %s, got %s", op, describe(value))
	}

	return Condition{
		Field:    field,
		Operator: op,
		Value:    stripQuotes(value.Value),
	}, nil
}
