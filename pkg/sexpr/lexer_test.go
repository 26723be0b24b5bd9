package sexpr

import (
	"errors"
	"testing"

	"github.com/lemonberrylabs/sexpq/pkg/types"
)

// tokenize drains a lexer the way the parser drives it.
func tokenize(t *testing.T, input string) []Token {
	t.Helper()
	l, err := NewLexer(input)
	if err != nil {
		t.Fatalf("NewLexer(%q): %v", input, err)
	}
	toks := []Token{l.Current()}
	for l.HasNext() {
		if err := l.Advance(); err != nil {
			t.Fatalf("Advance: %v", err)
		}
		toks = append(toks, l.Current())
	}
	return toks
}

func TestLexerTokens(t *testing.T) {
	tests := []struct {
		input string
		want  []Token
	}{
		{"(= x 0)", []Token{
			{TokenOpenParen, "(", 0},
			{TokenIdent, "=", 1},
			{TokenIdent, "x", 3},
			{TokenNumber, "0", 5},
			{TokenCloseParen, ")", 6},
		}},
		{`(includes name "Doe")`, []Token{
			{TokenOpenParen, "(", 0},
			{TokenIdent, "includes", 1},
			{TokenIdent, "name", 10},
			{TokenString, `"Doe"`, 15},
			{TokenCloseParen, ")", 20},
		}},
		{"  (not true)  ", []Token{
			{TokenOpenParen, "(", 2},
			{TokenIdent, "not", 3},
			{TokenKeyword, "true", 7},
			{TokenCloseParen, ")", 11},
		}},
		{"(>= score 2.5)", []Token{
			{TokenOpenParen, "(", 0},
			{TokenIdent, ">=", 1},
			{TokenIdent, "score", 4},
			{TokenNumber, "2.5", 10},
			{TokenCloseParen, ")", 13},
		}},
		{"(= x 12abc)", []Token{
			{TokenOpenParen, "(", 0},
			{TokenIdent, "=", 1},
			{TokenIdent, "x", 3},
			{TokenNumber, "12", 5},
			{TokenIdent, "abc", 7},
			{TokenCloseParen, ")", 10},
		}},
		{"(= nullable null)", []Token{
			{TokenOpenParen, "(", 0},
			{TokenIdent, "=", 1},
			{TokenIdent, "nullable", 3},
			{TokenKeyword, "null", 12},
			{TokenCloseParen, ")", 16},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := tokenize(t, tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tokens %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLexerIdentifierStopsAtParenthesis(t *testing.T) {
	got := tokenize(t, "(f x)")
	if got[2].Type != TokenIdent || got[2].Value != "x" {
		t.Fatalf("got %+v, want identifier x", got[2])
	}
	if got[3].Type != TokenCloseParen {
		t.Fatalf("got %+v, want close paren", got[3])
	}
}

func TestLexerStringWithEscapedQuote(t *testing.T) {
	got := tokenize(t, `("a \" b" c)`)
	if got[1].Type != TokenString || got[1].Value != `"a \" b"` {
		t.Fatalf("got %+v", got[1])
	}
	if got[2].Value != "c" {
		t.Fatalf("got %+v, want c", got[2])
	}
}

func TestLexerStopsBetweenStrings(t *testing.T) {
	got := tokenize(t, `"a" "b"`)
	if len(got) != 2 || got[0].Value != `"a"` || got[1].Value != `"b"` {
		t.Fatalf("got %v", got)
	}
}

func TestLexerEmptyInput(t *testing.T) {
	_, err := NewLexer("   ")
	if !errors.Is(err, types.ErrEndOfInput) {
		t.Fatalf("got %v, want EndOfInput", err)
	}
}

func TestLexerAdvancePastEnd(t *testing.T) {
	l, err := NewLexer("x")
	if err != nil {
		t.Fatal(err)
	}
	if l.HasNext() {
		t.Fatal("expected no more input")
	}
	if err := l.Advance(); !errors.Is(err, types.ErrEndOfInput) {
		t.Fatalf("got %v, want EndOfInput", err)
	}
	if l.Current().Value != "x" {
		t.Errorf("current token changed to %+v", l.Current())
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	_, err := NewLexer(`"abc`)
	if types.KindOf(err) != types.KindLexError {
		t.Fatalf("got %v, want LexError", err)
	}
}

func TestNumberPrefix(t *testing.T) {
	tests := map[string]int{
		"0":     1,
		"42":    2,
		"2.5":   3,
		"2.":    1,
		".5":    0,
		"1a":    1,
		"12abc": 2,
		"-1":    0,
		"1.2.":  3,
		"3.x":   1,
	}
	for in, want := range tests {
		if got := numberPrefix(in); got != want {
			t.Errorf("numberPrefix(%q) = %d, want %d", in, got, want)
		}
	}
}
