package query

import (
	"strings"
	"unicode"
)

// Lexer tokenizes SQL query strings
type Lexer struct {
	input []rune
	pos   int
	ch    rune

	inWhere  bool // past the WHERE keyword
	rawValue bool // next token is a WHERE value
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: []rune(input)}
	l.readChar()
	return l
}

// readChar reads the next character
func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
	l.pos++
}

// peekChar looks at the next character without advancing
func (l *Lexer) peekChar() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) skipWhitespace() {
	for unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// readString reads a quoted string. The quotes themselves are dropped; an
// unterminated string runs to the end of input.
func (l *Lexer) readString(quote rune) string {
	var result strings.Builder
	l.readChar() // skip opening quote

	for l.ch != quote && l.ch != 0 {
		if l.ch == '\\' && l.peekChar() == quote {
			l.readChar()
		}
		result.WriteRune(l.ch)
		l.readChar()
	}

	if l.ch == quote {
		l.readChar() // skip closing quote
	}

	return result.String()
}

// readNumber reads a number with an optional leading minus sign
func (l *Lexer) readNumber() string {
	var result strings.Builder

	if l.ch == '-' {
		result.WriteRune(l.ch)
		l.readChar()
	}

	for unicode.IsDigit(l.ch) || l.ch == '.' {
		result.WriteRune(l.ch)
		l.readChar()
	}
	return result.String()
}

// readIdentifier reads an identifier or keyword. Dots are allowed so that
// table-qualified names like student.age come back as one token.
func (l *Lexer) readIdentifier() string {
	var result strings.Builder
	for unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch) || l.ch == '_' || l.ch == '.' {
		result.WriteRune(l.ch)
		l.readChar()
	}
	return result.String()
}

// readValue reads an unquoted WHERE value: the raw text up to the next
// AND/OR connective or the end of input, trimmed.
func (l *Lexer) readValue() string {
	start := l.pos - 1
	for l.ch != 0 {
		if unicode.IsSpace(l.ch) && l.atConnective() {
			break
		}
		l.readChar()
	}
	return strings.TrimSpace(string(l.input[start : l.pos-1]))
}

// atConnective reports whether the whitespace at the current position is
// followed by AND or OR as a whole word.
func (l *Lexer) atConnective() bool {
	i := l.pos - 1
	for i < len(l.input) && unicode.IsSpace(l.input[i]) {
		i++
	}
	for _, kw := range []string{"AND", "OR"} {
		end := i + len(kw)
		if end > len(l.input) || !strings.EqualFold(string(l.input[i:end]), kw) {
			continue
		}
		if end == len(l.input) || unicode.IsSpace(l.input[end]) {
			return true
		}
	}
	return false
}

// NextToken returns the next token
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.rawValue {
		l.rawValue = false
		if l.ch != 0 && l.ch != '\'' && l.ch != '"' && !l.atConnective() {
			return Token{Type: TokenValue, Value: l.readValue()}
		}
	}

	var tok Token

	switch l.ch {
	case 0:
		tok = Token{Type: TokenEOF, Value: ""}
	case '=':
		tok = Token{Type: TokenEqual, Value: "="}
		l.readChar()
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenNotEqual, Value: "!="}
			l.readChar()
		} else {
			tok = Token{Type: TokenError, Value: "!"}
			l.readChar()
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenLessEqual, Value: "<="}
			l.readChar()
		} else {
			tok = Token{Type: TokenLess, Value: "<"}
			l.readChar()
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenGreaterEqual, Value: ">="}
			l.readChar()
		} else {
			tok = Token{Type: TokenGreater, Value: ">"}
			l.readChar()
		}
	case '\'', '"':
		tok = Token{Type: TokenString, Value: l.readString(l.ch)}
	case ',':
		tok = Token{Type: TokenComma, Value: ","}
		l.readChar()
	case '*':
		tok = Token{Type: TokenStar, Value: "*"}
		l.readChar()
	default:
		if unicode.IsDigit(l.ch) || (l.ch == '-' && unicode.IsDigit(l.peekChar())) {
			tok = Token{Type: TokenNumber, Value: l.readNumber()}
		} else if unicode.IsLetter(l.ch) || l.ch == '_' {
			value := l.readIdentifier()
			tok = Token{Type: identifierType(value), Value: value}
		} else {
			tok = Token{Type: TokenError, Value: string(l.ch)}
			l.readChar()
		}
	}

	switch tok.Type {
	case TokenWhere:
		l.inWhere = true
	case TokenEqual, TokenNotEqual, TokenLess, TokenGreater, TokenLessEqual, TokenGreaterEqual, TokenLike:
		l.rawValue = l.inWhere
	}

	return tok
}

var keywords = map[string]TokenType{
	"SELECT":   TokenSelect,
	"DISTINCT": TokenDistinct,
	"FROM":     TokenFrom,
	"WHERE":    TokenWhere,
	"AND":      TokenAnd,
	"OR":       TokenOr,
	"LIKE":     TokenLike,
	"JOIN":     TokenJoin,
	"INNER":    TokenInner,
	"LEFT":     TokenLeft,
	"RIGHT":    TokenRight,
	"ON":       TokenOn,
}

// identifierType determines if an identifier is a keyword, in any case
func identifierType(ident string) TokenType {
	if tokType, ok := keywords[strings.ToUpper(ident)]; ok {
		return tokType
	}
	return TokenIdent
}

// Tokenize returns all tokens from the input, ending with EOF or the first
// error token.
func Tokenize(input string) []Token {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok := lexer.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenError {
			break
		}
	}

	return tokens
}
