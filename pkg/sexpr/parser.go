package sexpr

import (
	"errors"

	"github.com/valyala/fastjson"

	"github.com/lemonberrylabs/sexpq/pkg/types"
)

// MaxQueryLength is the maximum allowed length of a query in bytes.
const MaxQueryLength = 4096

// MaxDepth is the maximum parenthesis nesting depth.
const MaxDepth = 64

// Parser is a recursive descent parser with one token of lookahead.
type Parser struct {
	lexer *Lexer
	depth int
}

// Parse parses a query consisting of exactly one parenthesized expression.
func Parse(input string) (Node, error) {
	if len(input) > MaxQueryLength {
		return nil, types.NewError(types.KindResourceLimit, -1,
			"query exceeds maximum length of %d bytes", MaxQueryLength)
	}

	lexer, err := NewLexer(input)
	if err != nil {
		return nil, err
	}
	p := &Parser{lexer: lexer}

	first := lexer.Current()
	if first.Type != TokenOpenParen {
		// A lone scalar is an expression in the wrong place; anything longer
		// is a list that lost its opening parenthesis.
		if first.Type.IsScalar() && !lexer.HasNext() {
			return nil, invalidExpression(first)
		}
		return nil, types.NewError(types.KindMissingOpeningParenthesis, first.Pos,
			"Missing opening parenthesis before '%s'", first.Value)
	}

	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if lexer.HasNext() {
		if err := lexer.Advance(); err != nil {
			return nil, err
		}
		extra := lexer.Current()
		return nil, types.NewError(types.KindMissingOpeningParenthesis, extra.Pos,
			"Missing opening parenthesis: unexpected '%s' after end of expression", extra.Value)
	}

	return node, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level query constants.
func MustParse(input string) Node {
	node, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return node
}

// parseExpression parses the expression starting at the current token and
// leaves the lexer on its last token.
func (p *Parser) parseExpression() (Node, error) {
	tok := p.lexer.Current()

	switch {
	case tok.Type.IsScalar():
		if p.depth < 1 {
			return nil, invalidExpression(tok)
		}
		return newExpression(tok, nil)

	case tok.Type == TokenOpenParen:
		p.depth++
		if p.depth > MaxDepth {
			return nil, types.NewError(types.KindResourceLimit, tok.Pos,
				"expression nesting exceeds maximum depth of %d", MaxDepth)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}

		head := p.lexer.Current()
		if head.Type != TokenIdent {
			return nil, types.NewError(types.KindExpectedName, head.Pos,
				"Expected name, got '%s'", head.Value)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}

		var terms []Node
		for p.lexer.Current().Type != TokenCloseParen {
			term, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			terms = append(terms, term)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		p.depth--

		return newExpression(head, terms)

	default:
		return nil, invalidExpression(tok)
	}
}

// advance moves to the next token. Running out of input here always means
// an expression is still open.
func (p *Parser) advance() error {
	err := p.lexer.Advance()
	if errors.Is(err, types.ErrEndOfInput) {
		return types.NewError(types.KindMissingClosingParenthesis, len(p.lexer.input),
			"Missing closing parenthesis: %d expression(s) still open", p.depth)
	}
	return err
}

// newExpression builds the node for a head token and its parsed terms.
func newExpression(head Token, terms []Node) (Node, error) {
	if head.Type != TokenIdent {
		if len(terms) > 0 {
			return nil, types.NewError(types.KindExpectedName, head.Pos,
				"Expected name, got '%s'", head.Value)
		}
		value, err := decodeConstant(head)
		if err != nil {
			return nil, err
		}
		return &ConstantNode{Value: value}, nil
	}

	name := head.Value
	if _, ok := compareOps[name]; ok {
		return newComparison(head, terms)
	}

	switch name {
	case "and":
		if len(terms) == 0 {
			return nil, types.NewError(types.KindWrongArity, head.Pos, "'and' needs at least 1 term")
		}
		return &ConjunctionNode{Terms: terms}, nil
	case "or":
		if len(terms) == 0 {
			return nil, types.NewError(types.KindWrongArity, head.Pos, "'or' needs at least 1 term")
		}
		return &DisjunctionNode{Terms: terms}, nil
	case "not":
		if len(terms) != 1 {
			return nil, types.NewError(types.KindWrongArity, head.Pos,
				"'not' takes exactly 1 term, got %d", len(terms))
		}
		return &NegationNode{Term: terms[0]}, nil
	}

	if len(terms) == 0 {
		return &VariableNode{Name: name}, nil
	}
	return &MethodCallNode{Name: name, Terms: terms}, nil
}

func newComparison(head Token, terms []Node) (Node, error) {
	op, ok := compareOps[head.Value]
	if !ok {
		return nil, types.NewError(types.KindUnknownOperator, head.Pos, "Unknown operator '%s'", head.Value)
	}
	if len(terms) != 2 {
		return nil, types.NewError(types.KindWrongArity, head.Pos,
			"Comparisons should have only 2 terms: '%s' got %d", head.Value, len(terms))
	}
	return &ComparisonNode{Op: op, Left: terms[0], Right: terms[1]}, nil
}

// decodeConstant decodes a string, number or keyword token as a JSON literal.
func decodeConstant(tok Token) (types.Value, error) {
	v, err := fastjson.Parse(tok.Value)
	if err != nil {
		return types.Undefined, types.NewError(types.KindLexError, tok.Pos,
			"invalid literal '%s': %v", tok.Value, err)
	}
	return types.FromFastJSON(v), nil
}

func invalidExpression(tok Token) error {
	return types.NewError(types.KindInvalidExpression, tok.Pos,
		"Invalid expression: '%s' must be inside parentheses", tok.Value)
}
