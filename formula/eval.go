package formula

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"gridsheet/a1"
	"gridsheet/cellvalue"
	"gridsheet/formula/ast"
	"gridsheet/formula/parser"
)

// Eval parses src (without its leading '=') and evaluates it against ctx
// anchored at pos. It never panics: every failure becomes a RunError,
// per spec.md §7's "parse failures are never fatal at the transaction
// level" rule — the caller installs the error as the cell's output.
func Eval(src string, ctx Ctx, anchor SheetPos) (Value, *cellvalue.RunError) {
	expr, errs := parser.ParseExpression(src)
	if len(errs) > 0 {
		e := errs[0]
		return Value{}, &cellvalue.RunError{
			Span: &cellvalue.Span{Start: e.Start, End: e.End},
			Msg:  cellvalue.RunErrorMsg{Kind: classifyParseError(e.Msg)},
		}
	}
	if expr == nil {
		return Value{}, &cellvalue.RunError{Msg: cellvalue.RunErrorMsg{Kind: cellvalue.ErrUnexpected}}
	}
	e := &evaluator{ctx: ctx, anchor: anchor}
	return e.eval(expr)
}

func classifyParseError(msg string) cellvalue.RunErrorKind {
	switch {
	case strings.HasPrefix(msg, "expected"):
		return cellvalue.ErrExpected
	default:
		return cellvalue.ErrUnexpected
	}
}

type evaluator struct {
	ctx    Ctx
	anchor SheetPos
}

func runErr(span ast.Span, kind cellvalue.RunErrorKind) *cellvalue.RunError {
	return &cellvalue.RunError{
		Span: &cellvalue.Span{Start: span.Start, End: span.End},
		Msg:  cellvalue.RunErrorMsg{Kind: kind},
	}
}

func (e *evaluator) eval(n ast.Expression) (Value, *cellvalue.RunError) {
	switch n := n.(type) {
	case *ast.NumberLiteral:
		d, err := decimal.NewFromString(n.Value)
		if err != nil {
			return Value{}, runErr(n.Span(), cellvalue.ErrBadNumber)
		}
		return Scalar(cellvalue.NewNumber(d)), nil
	case *ast.StringLiteral:
		return Scalar(cellvalue.NewText(n.Value)), nil
	case *ast.NameExpression:
		return Value{}, runErr(n.Span(), cellvalue.ErrName)
	case *ast.CellRangeLiteral:
		return e.evalRange(n)
	case *ast.PrefixExpression:
		return e.evalPrefix(n)
	case *ast.PostfixExpression:
		return e.evalPostfix(n)
	case *ast.InfixExpression:
		return e.evalInfix(n)
	case *ast.CallExpression:
		return e.evalCall(n)
	default:
		return Value{}, &cellvalue.RunError{Msg: cellvalue.RunErrorMsg{Kind: cellvalue.ErrUnexpected}}
	}
}

func (e *evaluator) evalRange(n *ast.CellRangeLiteral) (Value, *cellvalue.RunError) {
	sheetID := e.anchor.Sheet
	if n.Sheet != "" {
		id, ok := e.ctx.ResolveSheet(n.Sheet)
		if !ok {
			return Value{}, runErr(n.Span(), cellvalue.ErrBadCellReference)
		}
		sheetID = id
	}
	bounds, err := a1.ParseRange(n.RangeA1)
	if err != nil || !bounds.IsFinite() {
		return Value{}, runErr(n.Span(), cellvalue.ErrBadCellReference)
	}
	rect, ok := bounds.ToRect()
	if !ok {
		return Value{}, runErr(n.Span(), cellvalue.ErrBadCellReference)
	}
	e.ctx.ReportAccess(sheetID, rect)

	if bounds.IsSingleCell() {
		return Scalar(e.ctx.GetCellValue(sheetID, rect.Min)), nil
	}
	return Value{Cells: e.ctx.GetRangeValues(sheetID, rect)}, nil
}

func (e *evaluator) evalPrefix(n *ast.PrefixExpression) (Value, *cellvalue.RunError) {
	right, rerr := e.eval(n.Right)
	if rerr != nil {
		return Value{}, rerr
	}
	return mapUnary(right, func(v cellvalue.CellValue) (cellvalue.CellValue, *cellvalue.RunError) {
		if ev, ok := errorOf(v); ok {
			return cellvalue.CellValue{}, ev
		}
		d, ok := v.AsNumber()
		if !ok {
			return cellvalue.CellValue{}, runErr(n.Span(), cellvalue.ErrValue)
		}
		if n.Operator == "-" {
			d = d.Neg()
		}
		return cellvalue.NewNumber(d), nil
	})
}

func (e *evaluator) evalPostfix(n *ast.PostfixExpression) (Value, *cellvalue.RunError) {
	left, lerr := e.eval(n.Left)
	if lerr != nil {
		return Value{}, lerr
	}
	return mapUnary(left, func(v cellvalue.CellValue) (cellvalue.CellValue, *cellvalue.RunError) {
		if ev, ok := errorOf(v); ok {
			return cellvalue.CellValue{}, ev
		}
		d, ok := v.AsNumber()
		if !ok {
			return cellvalue.CellValue{}, runErr(n.Span(), cellvalue.ErrValue)
		}
		return cellvalue.NewNumber(d.Div(decimal.NewFromInt(100))), nil
	})
}

func (e *evaluator) evalInfix(n *ast.InfixExpression) (Value, *cellvalue.RunError) {
	left, lerr := e.eval(n.Left)
	if lerr != nil {
		return Value{}, lerr
	}
	right, rerr := e.eval(n.Right)
	if rerr != nil {
		return Value{}, rerr
	}
	op := n.Operator
	return broadcastBinary(left, right, func(a, b cellvalue.CellValue) (cellvalue.CellValue, *cellvalue.RunError) {
		if ev, ok := errorOf(a); ok {
			return cellvalue.CellValue{}, ev
		}
		if ev, ok := errorOf(b); ok {
			return cellvalue.CellValue{}, ev
		}
		if op == "&" {
			return cellvalue.NewText(a.AsText() + b.AsText()), nil
		}
		if isComparisonOp(op) {
			return evalComparison(op, a, b), nil
		}
		return evalArith(n.Span(), op, a, b)
	})
}

func isComparisonOp(op string) bool {
	switch op {
	case "=", "<>", "<", "<=", ">", ">=":
		return true
	}
	return false
}

func evalArith(span ast.Span, op string, a, b cellvalue.CellValue) (cellvalue.CellValue, *cellvalue.RunError) {
	da, ok := a.AsNumber()
	if !ok {
		return cellvalue.CellValue{}, runErr(span, cellvalue.ErrValue)
	}
	db, ok := b.AsNumber()
	if !ok {
		return cellvalue.CellValue{}, runErr(span, cellvalue.ErrValue)
	}
	switch op {
	case "+":
		return cellvalue.NewNumber(da.Add(db)), nil
	case "-":
		return cellvalue.NewNumber(da.Sub(db)), nil
	case "*":
		return cellvalue.NewNumber(da.Mul(db)), nil
	case "/":
		if db.IsZero() {
			return cellvalue.CellValue{}, runErr(span, cellvalue.ErrDivideByZero)
		}
		return cellvalue.NewNumber(da.Div(db)), nil
	case "^":
		f, _ := da.Float64()
		g, _ := db.Float64()
		r := powFloat(f, g)
		if math.IsInf(r, 0) || math.IsNaN(r) {
			return cellvalue.CellValue{}, runErr(span, cellvalue.ErrOverflow)
		}
		return cellvalue.NewNumber(decimal.NewFromFloat(r)), nil
	default:
		return cellvalue.CellValue{}, &cellvalue.RunError{Msg: cellvalue.RunErrorMsg{
			Kind: cellvalue.ErrBadOp, Op: op, Type1: a.Kind.String(), Type2: b.Kind.String(),
		}}
	}
}

func powFloat(base, exp float64) float64 {
	// Exponentiation is one of the few places spec.md §4.4 allows falling
	// back to float (transcendental/statistical intrinsics); result is
	// carried back as a decimal once computed.
	result := 1.0
	if exp == 0 {
		return 1
	}
	neg := exp < 0
	if neg {
		exp = -exp
	}
	whole := int64(exp)
	for i := int64(0); i < whole; i++ {
		result *= base
	}
	if neg {
		result = 1 / result
	}
	return result
}

func evalComparison(op string, a, b cellvalue.CellValue) cellvalue.CellValue {
	cmp := compareValues(a, b)
	switch op {
	case "=":
		return cellvalue.NewLogical(cmp == 0)
	case "<>":
		return cellvalue.NewLogical(cmp != 0)
	case "<":
		return cellvalue.NewLogical(cmp < 0)
	case "<=":
		return cellvalue.NewLogical(cmp <= 0)
	case ">":
		return cellvalue.NewLogical(cmp > 0)
	case ">=":
		return cellvalue.NewLogical(cmp >= 0)
	}
	return cellvalue.NewLogical(false)
}

// compareValues orders two cell values: numbers and blank-as-zero compare
// numerically when both sides are number-like, otherwise text comparison
// is used (matching common spreadsheet semantics for mixed-type compares).
func compareValues(a, b cellvalue.CellValue) int {
	da, okA := a.AsNumber()
	db, okB := b.AsNumber()
	if okA && okB && a.Kind != cellvalue.Text && b.Kind != cellvalue.Text {
		return da.Cmp(db)
	}
	ta, tb := a.AsText(), b.AsText()
	switch {
	case ta < tb:
		return -1
	case ta > tb:
		return 1
	default:
		return 0
	}
}

// errorOf reports whether v is an errored cell. Per spec.md §7, a cell
// referring to an errored cell produces NotAvailable — not the original
// error unchanged — unless the calling function explicitly tolerates
// errors (ISERROR/IFERROR/COUNT inspect Kind==Error directly and never
// go through this path).
func errorOf(v cellvalue.CellValue) (*cellvalue.RunError, bool) {
	if v.Kind == cellvalue.Error {
		return &cellvalue.RunError{Span: v.Error.Span, Msg: cellvalue.RunErrorMsg{Kind: cellvalue.ErrNotAvailable}}, true
	}
	return nil, false
}

// mapUnary applies f to every cell of v, preserving shape.
func mapUnary(v Value, f func(cellvalue.CellValue) (cellvalue.CellValue, *cellvalue.RunError)) (Value, *cellvalue.RunError) {
	out := make([][]cellvalue.CellValue, len(v.Cells))
	for r, row := range v.Cells {
		out[r] = make([]cellvalue.CellValue, len(row))
		for c, cell := range row {
			nv, err := f(cell)
			if err != nil {
				return Value{}, err
			}
			out[r][c] = nv
		}
	}
	return Value{Cells: out}, nil
}

// broadcastBinary implements the zip-map rule from spec.md §4.4: a
// function (here, an operator) marked to broadcast over arrays applies
// elementwise when both sides are arrays of matching shape, or broadcasts
// a scalar against every cell of the other side. Mismatched non-scalar
// shapes are an ExactArraySizeMismatch.
func broadcastBinary(a, b Value, f func(x, y cellvalue.CellValue) (cellvalue.CellValue, *cellvalue.RunError)) (Value, *cellvalue.RunError) {
	switch {
	case a.IsScalar() && b.IsScalar():
		v, err := f(a.AsScalar(), b.AsScalar())
		if err != nil {
			return Value{}, err
		}
		return Scalar(v), nil
	case a.IsScalar():
		return mapUnary(b, func(y cellvalue.CellValue) (cellvalue.CellValue, *cellvalue.RunError) {
			return f(a.AsScalar(), y)
		})
	case b.IsScalar():
		return mapUnary(a, func(x cellvalue.CellValue) (cellvalue.CellValue, *cellvalue.RunError) {
			return f(x, b.AsScalar())
		})
	case a.Width() == b.Width() && a.Height() == b.Height():
		out := make([][]cellvalue.CellValue, a.Height())
		for r := int64(0); r < a.Height(); r++ {
			out[r] = make([]cellvalue.CellValue, a.Width())
			for c := int64(0); c < a.Width(); c++ {
				v, err := f(a.At(c, r), b.At(c, r))
				if err != nil {
					return Value{}, err
				}
				out[r][c] = v
			}
		}
		return Value{Cells: out}, nil
	default:
		return Value{}, &cellvalue.RunError{Msg: cellvalue.RunErrorMsg{
			Kind:          cellvalue.ErrExactArraySizeMismatch,
			ExpectedShape: shapeString(a),
			GotShape:      shapeString(b),
		}}
	}
}

func shapeString(v Value) string {
	return decimal.NewFromInt(v.Width()).String() + "x" + decimal.NewFromInt(v.Height()).String()
}
