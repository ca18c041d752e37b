// Package filter parses and evaluates boolean kind filters such as
//
//	Velocity & Position & !(Flying | Swimming)
//
// Leaves are kind names. '!' binds tighter than '&', which binds tighter
// than '|'; binary operators are left associative and '(' ')' group. Empty
// groups are ignored. Evaluation is generic over any result type through an
// Adapter.
package filter

import "fmt"

// SyntaxError reports a filter that does not reduce to a single expression.
type SyntaxError struct {
	Filter string
	Pos    int
	Reason string
}

func (e *SyntaxError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("filter %q: %s", e.Filter, e.Reason)
	}
	return fmt.Sprintf("filter %q: %s at offset %d", e.Filter, e.Reason, e.Pos)
}

const (
	precOr  = 1
	precAnd = 2
)

func precedence(k TokenKind) int {
	switch k {
	case TokenOr:
		return precOr
	case TokenAnd:
		return precAnd
	}
	return 0
}

type parser struct {
	src    string
	tokens []Token
	pos    int
}

// Parse parses src into an expression tree.
func Parse(src string) (Expr, error) {
	tokens := dropEmptyGroups(Tokenize(src))
	if len(tokens) == 0 {
		return nil, &SyntaxError{Filter: src, Pos: -1, Reason: "empty filter"}
	}
	p := &parser{src: src, tokens: tokens}
	e, err := p.parseBinary(precOr)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, p.errorf("unexpected %s", describe(p.tokens[p.pos]))
	}
	return e, nil
}

// MustParse is like Parse but panics on error.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *parser) parseBinary(minPrec int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.pos < len(p.tokens) {
		op := p.tokens[p.pos].Kind
		prec := precedence(op)
		if prec == 0 || prec < minPrec {
			break
		}
		p.pos++
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		if op == TokenAnd {
			left = &And{Left: left, Right: right}
		} else {
			left = &Or{Left: left, Right: right}
		}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.pos >= len(p.tokens) {
		return nil, &SyntaxError{Filter: p.src, Pos: len(p.src), Reason: "unexpected end of filter"}
	}
	tok := p.tokens[p.pos]
	switch tok.Kind {
	case TokenLeaf:
		p.pos++
		return &Leaf{Name: tok.Text}, nil
	case TokenNot:
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Not{Operand: operand}, nil
	case TokenOpen:
		p.pos++
		inner, err := p.parseBinary(precOr)
		if err != nil {
			return nil, err
		}
		if p.pos >= len(p.tokens) || p.tokens[p.pos].Kind != TokenClose {
			return nil, &SyntaxError{Filter: p.src, Pos: tok.Pos, Reason: "unbalanced '('"}
		}
		p.pos++
		return inner, nil
	}
	return nil, p.errorf("unexpected %s", describe(tok))
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Filter: p.src, Pos: p.tokens[p.pos].Pos, Reason: fmt.Sprintf(format, args...)}
}

func describe(tok Token) string {
	if tok.Kind == TokenLeaf {
		return fmt.Sprintf("leaf %q", tok.Text)
	}
	return fmt.Sprintf("'%s'", tok.Kind)
}
