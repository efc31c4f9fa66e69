// Package parser turns a token stream into a formula.ast expression tree
// via Pratt (operator-precedence) parsing, the same technique the
// teacher's language parser uses for its expression grammar.
package parser

import (
	"fmt"

	"gridsheet/formula/ast"
	"gridsheet/formula/lexer"
	"gridsheet/formula/token"
)

const (
	_ int = iota
	LOWEST
	COMPARISON // = <> < <= > >=
	CONCAT     // &
	SUM        // + -
	PRODUCT    // * /
	PREFIX     // unary -
	POWER      // ^
	POSTFIX    // %
	CALL
)

var precedences = map[token.Type]int{
	token.EQ:       COMPARISON,
	token.NE:       COMPARISON,
	token.LT:       COMPARISON,
	token.LE:       COMPARISON,
	token.GT:       COMPARISON,
	token.GE:       COMPARISON,
	token.AMPERSAND: CONCAT,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.CARET:    POWER,
	token.PERCENT:  POSTFIX,
}

// ParseError is a syntax error with the span it occurred at, surfaced by
// the caller as CellValue::Error(RunError{msg: Expected|Unexpected, ...}):
// Expected when Msg begins with "expected", Unexpected otherwise.
type ParseError struct {
	Msg   string
	Start int
	End   int
}

func (e *ParseError) Error() string { return e.Msg }

type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	errors []*ParseError
}

func New(input string) *Parser {
	p := &Parser{l: lexer.New(input)}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

// Errors returns every syntax error collected while parsing.
func (p *Parser) Errors() []*ParseError { return p.errors }

func (p *Parser) errorf(tok token.Token, format string, args ...any) {
	p.errors = append(p.errors, &ParseError{
		Msg:   fmt.Sprintf(format, args...),
		Start: tok.Start,
		End:   tok.End,
	})
}

// ParseExpression parses the whole input as a single expression,
// reporting a trailing-token error if input remains after it.
func ParseExpression(input string) (ast.Expression, []*ParseError) {
	p := New(input)
	expr := p.parseExpression(LOWEST)
	if p.cur.Type != token.EOF {
		p.errorf(p.cur, "unexpected token %q", p.cur.Literal)
	}
	return expr, p.errors
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for p.peek.Type != token.EOF && precedence < p.peekPrecedence() {
		switch p.peek.Type {
		case token.PERCENT:
			p.next()
			left = &ast.PostfixExpression{Token: p.cur, Operator: p.cur.Literal, Left: left}
		default:
			p.next()
			left = p.parseInfix(left)
		}
	}
	return left
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) parsePrefix() ast.Expression {
	switch p.cur.Type {
	case token.NUMBER:
		n := &ast.NumberLiteral{Token: p.cur, Value: p.cur.Literal}
		return n
	case token.STRING:
		n := &ast.StringLiteral{Token: p.cur, Value: p.cur.Literal}
		return n
	case token.MINUS, token.PLUS:
		tok := p.cur
		p.next()
		right := p.parseExpression(PREFIX)
		if right == nil {
			return nil
		}
		return &ast.PrefixExpression{Token: tok, Operator: tok.Literal, Right: right}
	case token.LPAREN:
		p.next()
		expr := p.parseExpression(LOWEST)
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return expr
	case token.IDENT:
		return p.parseIdentLike()
	default:
		p.errorf(p.cur, "unexpected token %q", p.cur.Literal)
		return nil
	}
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	tok := p.cur
	precedence := p.curPrecedence()
	p.next()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.InfixExpression{Token: tok, Left: left, Operator: tok.Literal, Right: right}
}

// parseIdentLike handles every grammar production that starts with an
// IDENT token: a function call, a sheet-qualified reference, a bare A1
// reference (possibly a range via ':'), or a named-range identifier.
func (p *Parser) parseIdentLike() ast.Expression {
	first := p.cur

	if p.peek.Type == token.LPAREN {
		return p.parseCall(first)
	}

	sheet := ""
	startTok := first
	refTok := first
	if p.peek.Type == token.BANG {
		sheet = first.Literal
		p.next() // consume BANG
		if !p.expectPeekIdentLike() {
			return nil
		}
		refTok = p.cur
	}

	if !isCellCoord(refTok.Literal) {
		if sheet != "" {
			p.errorf(refTok, "expected a cell reference after %q!", sheet)
			return nil
		}
		return &ast.NameExpression{Token: first, Value: first.Literal}
	}

	endTok := token.Token{}
	rangeA1 := refTok.Literal
	if p.peek.Type == token.COLON {
		p.next() // consume COLON
		if !p.expectPeekIdentLike() {
			return nil
		}
		endTok = p.cur
		if !isCellCoord(endTok.Literal) {
			p.errorf(endTok, "expected a cell reference, got %q", endTok.Literal)
			return nil
		}
		rangeA1 = refTok.Literal + ":" + endTok.Literal
	}

	return &ast.CellRangeLiteral{
		StartTok: startTok,
		EndTok:   endTok,
		Sheet:    sheet,
		RangeA1:  rangeA1,
	}
}

func (p *Parser) parseCall(nameTok token.Token) ast.Expression {
	p.next() // consume LPAREN, now cur == LPAREN
	call := &ast.CallExpression{Token: nameTok, Function: nameTok.Literal}

	if p.peek.Type == token.RPAREN {
		p.next()
		call.EndSpan = p.cur.End
		return call
	}

	p.next()
	call.Arguments = append(call.Arguments, p.parseExpression(LOWEST))
	for p.peek.Type == token.COMMA {
		p.next() // consume COMMA
		if p.peek.Type == token.COMMA || p.peek.Type == token.RPAREN {
			// elided argument, e.g. AVERAGE(3,,): treated as blank at eval time
			call.Arguments = append(call.Arguments, nil)
			continue
		}
		p.next()
		call.Arguments = append(call.Arguments, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	call.EndSpan = p.cur.End
	return call
}

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peek.Type == t {
		p.next()
		return true
	}
	p.errorf(p.peek, "expected %q, got %q", t, p.peek.Literal)
	return false
}

// expectPeekIdentLike advances onto the peek token if it is an IDENT,
// required because cell coordinates and sheet names lex as IDENT too.
func (p *Parser) expectPeekIdentLike() bool {
	if p.peek.Type == token.IDENT {
		p.next()
		return true
	}
	p.errorf(p.peek, "expected a reference, got %q", p.peek.Literal)
	return false
}

// isCellCoord reports whether s has the shape of an A1 cell coordinate:
// optional '$', one or more letters, optional '$', one or more digits.
func isCellCoord(s string) bool {
	i := 0
	n := len(s)
	if i < n && s[i] == '$' {
		i++
	}
	letters := 0
	for i < n && isAlpha(s[i]) {
		i++
		letters++
	}
	if letters == 0 {
		return false
	}
	if i < n && s[i] == '$' {
		i++
	}
	digits := 0
	for i < n && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	return digits > 0 && i == n
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
