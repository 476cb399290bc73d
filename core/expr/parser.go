// Package expr compiles derived-variable formulas.
//
// It provides the one capability the resolver needs from an expression
// language: turn text into a tree and report which variables the tree
// references. Evaluation lives elsewhere.
//
// Grammar, loosest binding first:
//
//	||  &&  == !=  < <= > >=  + -  * / %  ^ (right associative)
//
// Operands are numbers, identifiers, function calls and parenthesized
// expressions, optionally preceded by unary - or !. Identifiers holding
// operator characters are written in backticks: `IGHM_g_%`.
package expr

import "fmt"

// Compile parses formula text into a tree.
func Compile(source string) (*Expr, error) {
	tokens := NewLexer(source).Tokens()
	p := &parser{source: source, tokens: tokens}

	if p.at(EOF) {
		return nil, p.errorf("empty formula")
	}

	e := p.expression()
	if p.err != nil {
		return nil, p.err
	}
	if !p.at(EOF) {
		return nil, p.errorf("unexpected %s", tokenName(p.current().Type))
	}
	return e, nil
}

// MustCompile is like Compile but panics on error. For tests and static
// formulas.
func MustCompile(source string) *Expr {
	e, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	source string
	tokens []Token
	pos    int
	err    *ParseError
}

// expression parses an expression
func (p *parser) expression() *Expr {
	return p.binaryExpr(1) // Start with lowest precedence
}

// binaryExpr parses binary expressions by precedence climbing
func (p *parser) binaryExpr(minPrec int) *Expr {
	left := p.unary()
	for p.err == nil {
		prec := p.precedence()
		if prec == 0 || prec < minPrec {
			break
		}
		op := p.current()
		p.advance()

		// ^ is right associative; everything else groups left.
		next := prec + 1
		if op.Type == CARET {
			next = prec
		}
		right := p.binaryExpr(next)
		if p.err != nil {
			return nil
		}
		left = &Expr{
			Kind:  KindBinary,
			Op:    op.Text,
			Left:  left,
			Right: right,
			Span:  Span{Start: left.Span.Start, End: right.Span.End},
		}
	}
	return left
}

// unary parses prefix - and ! operators
func (p *parser) unary() *Expr {
	if p.at(MINUS) || p.at(NOT) {
		op := p.current()
		p.advance()
		operand := p.unary()
		if p.err != nil {
			return nil
		}
		return &Expr{
			Kind: KindUnary,
			Op:   op.Text,
			Left: operand,
			Span: Span{Start: op.Position.Offset, End: operand.Span.End},
		}
	}
	return p.primary()
}

// primary parses a number, identifier, call or parenthesized expression
func (p *parser) primary() *Expr {
	tok := p.current()
	switch tok.Type {
	case NUMBER:
		p.advance()
		return &Expr{Kind: KindNumber, Value: tok.Text, Span: p.span(tok)}

	case IDENTIFIER:
		p.advance()
		if p.at(LPAREN) {
			return p.call(tok)
		}
		return &Expr{Kind: KindIdent, Name: tok.Text, Span: p.span(tok)}

	case LPAREN:
		p.advance()
		inner := p.expression()
		if p.err != nil {
			return nil
		}
		end := p.current()
		if !p.expect(RPAREN) {
			return nil
		}
		return &Expr{
			Kind: KindParen,
			Left: inner,
			Span: Span{Start: tok.Position.Offset, End: end.Position.Offset + 1},
		}

	default:
		p.fail(tok, "unexpected %s", tokenName(tok.Type))
		return nil
	}
}

// call parses the argument list of name(...)
func (p *parser) call(name Token) *Expr {
	p.advance() // (
	e := &Expr{Kind: KindCall, Name: name.Text, Args: []*Expr{}}
	if !p.at(RPAREN) {
		for {
			arg := p.expression()
			if p.err != nil {
				return nil
			}
			e.Args = append(e.Args, arg)
			if !p.at(COMMA) {
				break
			}
			p.advance()
		}
	}
	end := p.current()
	if !p.expect(RPAREN) {
		return nil
	}
	e.Span = Span{Start: name.Position.Offset, End: end.Position.Offset + 1}
	return e
}

// precedence returns the precedence of the current token as a binary operator
func (p *parser) precedence() int {
	switch p.current().Type {
	case OR_OR:
		return 1
	case AND_AND:
		return 2
	case EQ_EQ, NOT_EQ:
		return 3
	case LT, LT_EQ, GT, GT_EQ:
		return 4
	case PLUS, MINUS:
		return 5
	case MULTIPLY, DIVIDE, MODULO:
		return 6
	case CARET:
		return 7
	default:
		return 0 // Not a binary operator
	}
}

func (p *parser) at(typ TokenType) bool {
	return p.current().Type == typ
}

func (p *parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF, Position: Position{Offset: len(p.source), Column: len(p.source) + 1}}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *parser) expect(expected TokenType) bool {
	if p.at(expected) {
		p.advance()
		return true
	}
	p.fail(p.current(), "missing %s", tokenName(expected))
	return false
}

func (p *parser) span(tok Token) Span {
	return Span{Start: tok.Position.Offset, End: tok.Position.Offset + len(tok.Text)}
}

// fail records the first error only.
func (p *parser) fail(tok Token, format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	p.err = p.newError(tok, format, args...)
}

func (p *parser) errorf(format string, args ...interface{}) *ParseError {
	return p.newError(p.current(), format, args...)
}

func (p *parser) newError(tok Token, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Position: tok.Position,
		Message:  fmt.Sprintf(format, args...),
		Source:   p.source,
		Got:      tok.Type,
	}
}
