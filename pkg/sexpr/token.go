// Package sexpr implements the sexpq query language: a prefix S-expression
// syntax such as (and (> x 0) (not (< y 0))) that is parsed into a tree and
// evaluated against a record.
package sexpr

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenOpenParen  TokenType = iota // (
	TokenCloseParen                  // )
	TokenIdent                       // operator, method or field name
	TokenString                      // "quoted"
	TokenNumber                      // 42, 2.5
	TokenKeyword                     // true, false, null
)

// Token represents a single lexical token.
type Token struct {
	Type  TokenType
	Value string // raw text, quotes included for strings
	Pos   int    // byte offset in source
}

// String returns a debug-friendly representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenOpenParen:
		return "OPEN_PAREN"
	case TokenCloseParen:
		return "CLOSE_PAREN"
	case TokenIdent:
		return "IDENT"
	case TokenString:
		return "STRING"
	case TokenNumber:
		return "NUMBER"
	case TokenKeyword:
		return "KEYWORD"
	default:
		return "UNKNOWN"
	}
}

// IsScalar reports whether tokens of this type may appear as a bare term.
func (t TokenType) IsScalar() bool {
	switch t {
	case TokenIdent, TokenString, TokenNumber, TokenKeyword:
		return true
	}
	return false
}
