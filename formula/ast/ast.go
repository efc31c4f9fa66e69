// Package ast defines the formula expression tree. Every node carries a
// source span so evaluation errors can be reported against the exact
// substring that caused them (spec.md §4.4/§7).
package ast

import "gridsheet/formula/token"

// Span is a byte range into the original formula source.
type Span struct {
	Start int
	End   int
}

type Node interface {
	TokenLiteral() string
	Span() Span
}

type Expression interface {
	Node
	expressionNode()
}

// NumberLiteral is a decimal numeric constant, e.g. "3.14".
type NumberLiteral struct {
	Token token.Token
	Value string // kept as text; formula.Eval parses it with decimal.NewFromString
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) Span() Span           { return Span{n.Token.Start, n.Token.End} }

// StringLiteral is a quoted text constant.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (n *StringLiteral) expressionNode()      {}
func (n *StringLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *StringLiteral) Span() Span           { return Span{n.Token.Start, n.Token.End} }

// CellRangeLiteral is a single-cell or cell:cell A1 reference, carried
// through as text and parsed by package a1 only when the evaluator
// resolves it against a sheet. Open ranges such as A:A are not parsed.
type CellRangeLiteral struct {
	StartTok token.Token
	EndTok   token.Token // zero value if the literal was a single cell
	Sheet    string      // "" means "the anchor's own sheet"
	RangeA1  string      // textual range, e.g. "A1:B3", fed to a1.ParseRange
}

func (n *CellRangeLiteral) expressionNode() {}
func (n *CellRangeLiteral) TokenLiteral() string {
	return n.RangeA1
}
func (n *CellRangeLiteral) Span() Span {
	end := n.StartTok.End
	if n.EndTok.End > end {
		end = n.EndTok.End
	}
	return Span{n.StartTok.Start, end}
}

// CallExpression is a function call, e.g. SUM(A1:A10, 3).
type CallExpression struct {
	Token     token.Token // the function name token
	Function  string
	Arguments []Expression
	EndSpan   int // position just past the closing paren
}

func (n *CallExpression) expressionNode()      {}
func (n *CallExpression) TokenLiteral() string { return n.Token.Literal }
func (n *CallExpression) Span() Span           { return Span{n.Token.Start, n.EndSpan} }

// PrefixExpression is a unary operator, e.g. -A1.
type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (n *PrefixExpression) expressionNode()      {}
func (n *PrefixExpression) TokenLiteral() string { return n.Token.Literal }
func (n *PrefixExpression) Span() Span {
	return Span{n.Token.Start, n.Right.Span().End}
}

// PostfixExpression is a unary operator written after its operand, e.g.
// 50%.
type PostfixExpression struct {
	Token    token.Token
	Operator string
	Left     Expression
}

func (n *PostfixExpression) expressionNode()      {}
func (n *PostfixExpression) TokenLiteral() string { return n.Token.Literal }
func (n *PostfixExpression) Span() Span {
	return Span{n.Left.Span().Start, n.Token.End}
}

// InfixExpression is a binary operator: arithmetic, comparison, or text
// concatenation (&).
type InfixExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (n *InfixExpression) expressionNode()      {}
func (n *InfixExpression) TokenLiteral() string { return n.Token.Literal }
func (n *InfixExpression) Span() Span {
	return Span{n.Left.Span().Start, n.Right.Span().End}
}

// NameExpression is a bare identifier that resolved to neither a cell
// reference nor a function call head — a named range or an unknown name.
type NameExpression struct {
	Token token.Token
	Value string
}

func (n *NameExpression) expressionNode()      {}
func (n *NameExpression) TokenLiteral() string { return n.Token.Literal }
func (n *NameExpression) Span() Span           { return Span{n.Token.Start, n.Token.End} }
