package sexpr

import (
	"unicode"
	"unicode/utf8"

	"github.com/lemonberrylabs/sexpq/pkg/types"
)

var keywords = map[string]bool{
	"true":  true,
	"false": true,
	"null":  true,
}

// Lexer tokenizes a query one token at a time. Current always holds the
// next unconsumed token until the input is exhausted.
type Lexer struct {
	input   string
	pos     int
	current Token
}

// NewLexer creates a lexer and reads the first token.
func NewLexer(input string) (*Lexer, error) {
	l := &Lexer{input: input}
	if err := l.Advance(); err != nil {
		return nil, err
	}
	return l, nil
}

// Current returns the lookahead token without consuming it.
func (l *Lexer) Current() Token {
	return l.current
}

// HasNext reports whether any unconsumed input remains after Current.
func (l *Lexer) HasNext() bool {
	l.skipWhitespace()
	return l.pos < len(l.input)
}

// Advance consumes the current token and reads the next one. It fails with
// EndOfInput when nothing is left to read.
func (l *Lexer) Advance() error {
	if !l.HasNext() {
		return types.NewError(types.KindEndOfInput, len(l.input), "Reached end of expression")
	}
	tok, err := l.next()
	if err != nil {
		return err
	}
	l.current = tok
	return nil
}

// next reads the token at the cursor. The caller has skipped whitespace and
// checked that input remains.
func (l *Lexer) next() (Token, error) {
	start := l.pos
	ch := l.input[l.pos]

	switch ch {
	case '(':
		l.pos++
		return Token{Type: TokenOpenParen, Value: "(", Pos: start}, nil
	case ')':
		l.pos++
		return Token{Type: TokenCloseParen, Value: ")", Pos: start}, nil
	case '"':
		return l.readString()
	}

	// A leading digit run is a number even when letters follow: 12abc
	// lexes as 12 and abc.
	if n := numberPrefix(l.input[l.pos:]); n > 0 {
		l.pos += n
		return Token{Type: TokenNumber, Value: l.input[start:l.pos], Pos: start}, nil
	}

	word := l.readWord()
	if keywords[word] {
		return Token{Type: TokenKeyword, Value: word, Pos: start}, nil
	}
	return Token{Type: TokenIdent, Value: word, Pos: start}, nil
}

// readString reads a double-quoted string. Backslash escapes are skipped
// over but left in place; the text is decoded as a JSON string later.
func (l *Lexer) readString() (Token, error) {
	start := l.pos
	l.pos++ // skip opening quote

	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case '"':
			l.pos++
			return Token{Type: TokenString, Value: l.input[start:l.pos], Pos: start}, nil
		}
		l.pos++
	}

	l.pos = len(l.input)
	return Token{}, types.NewError(types.KindLexError, start, "unterminated string starting at position %d", start)
}

// readWord reads a run of non-space characters, stopping before any
// parenthesis so that "x)" yields "x" and ")".
func (l *Lexer) readWord() string {
	start := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if unicode.IsSpace(r) || r == '(' || r == ')' {
			break
		}
		l.pos += size
	}
	return l.input[start:l.pos]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

// numberPrefix returns the length of the number at the start of s: digits
// with an optional fractional part, as in 7, 42 or 2.5. It is 0 when s does
// not start with a digit.
func numberPrefix(s string) int {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == 0 || i+1 >= len(s) || s[i] != '.' || !isDigit(s[i+1]) {
		return i
	}
	i++
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
