package formula

import (
	"strings"

	"github.com/shopspring/decimal"

	"gridsheet/cellvalue"
	"gridsheet/formula/ast"
)

type builtin struct {
	minArgs int
	maxArgs int // -1 for unbounded
	call    func(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError)
}

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"SUM":         {0, -1, fnSum},
		"AVERAGE":     {1, -1, fnAverage},
		"COUNT":       {0, -1, fnCount},
		"COUNTA":      {0, -1, fnCountA},
		"COUNTBLANK":  {1, -1, fnCountBlank},
		"IF":          {2, 3, fnIf},
		"AND":         {1, -1, fnAnd},
		"OR":          {1, -1, fnOr},
		"NOT":         {1, 1, fnNot},
		"CONCAT":      {1, -1, fnConcat},
		"CONCATENATE": {1, -1, fnConcat},
		"ABS":         {1, 1, fnAbs},
		"MIN":         {1, -1, fnMin},
		"MAX":         {1, -1, fnMax},
		"ROUND":       {1, 2, fnRound},
		"COUNTIF":     {2, 2, fnCountIf},
		"COUNTIFS":    {2, -1, fnCountIfs},
		"SUMIF":       {2, 3, fnSumIf},
		"AVERAGEIF":   {2, 3, fnAverageIf},
		"SUMIFS":      {3, -1, fnSumIfs},
		"AVERAGEIFS":  {3, -1, fnAverageIfs},
		"ISERROR":     {1, 1, fnIsError},
		"IFERROR":     {2, 2, fnIfError},
	}
}

func (e *evaluator) evalCall(call *ast.CallExpression) (Value, *cellvalue.RunError) {
	name := strings.ToUpper(call.Function)
	fn, ok := builtins[name]
	if !ok {
		return Value{}, runErr(call.Span(), cellvalue.ErrBadFunctionName)
	}
	if len(call.Arguments) < fn.minArgs {
		return Value{}, &cellvalue.RunError{
			Span: spanPtr(call.Span()),
			Msg:  cellvalue.RunErrorMsg{Kind: cellvalue.ErrMissingRequiredArgument, FuncName: name, ArgName: "arg"},
		}
	}
	if fn.maxArgs >= 0 && len(call.Arguments) > fn.maxArgs {
		return Value{}, &cellvalue.RunError{
			Span: spanPtr(call.Span()),
			Msg:  cellvalue.RunErrorMsg{Kind: cellvalue.ErrTooManyArguments, FuncName: name, MaxArgCount: fn.maxArgs},
		}
	}

	args := make([]Value, len(call.Arguments))
	for i, a := range call.Arguments {
		if a == nil {
			args[i] = Scalar(cellvalue.NewBlank())
			continue
		}
		v, err := e.eval(a)
		if err != nil {
			// IFERROR/ISERROR need the raw error, not a short-circuit;
			// everyone else propagates it immediately.
			if name == "IFERROR" && i == 0 {
				args[i] = Scalar(cellvalue.NewError(*err))
				continue
			}
			if name == "ISERROR" {
				args[i] = Scalar(cellvalue.NewError(*err))
				continue
			}
			return Value{}, err
		}
		args[i] = v
	}
	return fn.call(e, call, args)
}

func spanPtr(s ast.Span) *cellvalue.Span { return &cellvalue.Span{Start: s.Start, End: s.End} }

// numbersStrict flattens args (scalars and arrays alike), coercing each
// cell to a number and skipping blanks, but propagating the first errored
// cell as NotAvailable: SUM/AVERAGE/MIN/MAX do not appear in spec.md §7's
// "explicitly tolerates errors" list, so an error anywhere in their
// arguments must surface rather than be silently dropped.
func numbersStrict(args []Value) ([]decimal.Decimal, *cellvalue.RunError) {
	var out []decimal.Decimal
	for _, a := range args {
		for _, c := range a.Flatten() {
			if c.Kind == cellvalue.Blank {
				continue
			}
			if ev, ok := errorOf(c); ok {
				return nil, ev
			}
			if d, ok := c.AsNumber(); ok {
				out = append(out, d)
			}
		}
	}
	return out, nil
}

func fnSum(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	ns, err := numbersStrict(args)
	if err != nil {
		return Value{}, err
	}
	total := decimal.Zero
	for _, d := range ns {
		total = total.Add(d)
	}
	return Scalar(cellvalue.NewNumber(total)), nil
}

func fnAverage(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	ns, err := numbersStrict(args)
	if err != nil {
		return Value{}, err
	}
	if len(ns) == 0 {
		return Value{}, runErr(call.Span(), cellvalue.ErrDivideByZero)
	}
	total := decimal.Zero
	for _, d := range ns {
		total = total.Add(d)
	}
	return Scalar(cellvalue.NewNumber(total.Div(decimal.NewFromInt(int64(len(ns)))))), nil
}

// fnCount explicitly tolerates errors (spec.md §7's named example): it
// counts numeric cells and silently skips anything else, errors included.
func fnCount(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	n := int64(0)
	for _, a := range args {
		for _, c := range a.Flatten() {
			if c.Kind == cellvalue.Blank || c.Kind == cellvalue.Error {
				continue
			}
			if _, ok := c.AsNumber(); ok {
				n++
			}
		}
	}
	return Scalar(cellvalue.NewInt(n)), nil
}

func fnCountA(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	n := int64(0)
	for _, a := range args {
		for _, c := range a.Flatten() {
			if c.Kind != cellvalue.Blank {
				n++
			}
		}
	}
	return Scalar(cellvalue.NewInt(n)), nil
}

func fnCountBlank(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	n := int64(0)
	for _, a := range args {
		for _, c := range a.Flatten() {
			if c.Kind == cellvalue.Blank || (c.Kind == cellvalue.Text && c.Text == "") {
				n++
			}
		}
	}
	return Scalar(cellvalue.NewInt(n)), nil
}

func fnIf(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	cond, ok := args[0].AsScalar().AsLogical()
	if !ok {
		return Value{}, runErr(call.Span(), cellvalue.ErrValue)
	}
	if cond {
		return args[1], nil
	}
	if len(args) == 3 {
		return args[2], nil
	}
	return Scalar(cellvalue.NewLogical(false)), nil
}

func fnAnd(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	result := true
	for _, a := range args {
		for _, c := range a.Flatten() {
			b, ok := c.AsLogical()
			if !ok {
				return Value{}, runErr(call.Span(), cellvalue.ErrValue)
			}
			result = result && b
		}
	}
	return Scalar(cellvalue.NewLogical(result)), nil
}

func fnOr(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	result := false
	for _, a := range args {
		for _, c := range a.Flatten() {
			b, ok := c.AsLogical()
			if !ok {
				return Value{}, runErr(call.Span(), cellvalue.ErrValue)
			}
			result = result || b
		}
	}
	return Scalar(cellvalue.NewLogical(result)), nil
}

func fnNot(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	b, ok := args[0].AsScalar().AsLogical()
	if !ok {
		return Value{}, runErr(call.Span(), cellvalue.ErrValue)
	}
	return Scalar(cellvalue.NewLogical(!b)), nil
}

func fnConcat(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	var sb strings.Builder
	for _, a := range args {
		for _, c := range a.Flatten() {
			sb.WriteString(c.AsText())
		}
	}
	return Scalar(cellvalue.NewText(sb.String())), nil
}

func fnAbs(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	return mapUnary(args[0], func(c cellvalue.CellValue) (cellvalue.CellValue, *cellvalue.RunError) {
		d, ok := c.AsNumber()
		if !ok {
			return cellvalue.CellValue{}, runErr(call.Span(), cellvalue.ErrValue)
		}
		return cellvalue.NewNumber(d.Abs()), nil
	})
}

func fnMin(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	ns, err := numbersStrict(args)
	if err != nil {
		return Value{}, err
	}
	if len(ns) == 0 {
		return Scalar(cellvalue.NewInt(0)), nil
	}
	m := ns[0]
	for _, d := range ns[1:] {
		if d.LessThan(m) {
			m = d
		}
	}
	return Scalar(cellvalue.NewNumber(m)), nil
}

func fnMax(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	ns, err := numbersStrict(args)
	if err != nil {
		return Value{}, err
	}
	if len(ns) == 0 {
		return Scalar(cellvalue.NewInt(0)), nil
	}
	m := ns[0]
	for _, d := range ns[1:] {
		if d.GreaterThan(m) {
			m = d
		}
	}
	return Scalar(cellvalue.NewNumber(m)), nil
}

func fnRound(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	d, ok := args[0].AsScalar().AsNumber()
	if !ok {
		return Value{}, runErr(call.Span(), cellvalue.ErrValue)
	}
	places := int32(0)
	if len(args) == 2 {
		p, ok := args[1].AsScalar().AsNumber()
		if !ok {
			return Value{}, runErr(call.Span(), cellvalue.ErrValue)
		}
		places = int32(p.IntPart())
	}
	return Scalar(cellvalue.NewNumber(d.Round(places))), nil
}

func rangeCells(v Value) []cellvalue.CellValue { return v.Flatten() }

func fnCountIf(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	crit := ParseCriterion(args[1].AsScalar())
	n := int64(0)
	for _, c := range rangeCells(args[0]) {
		if crit.Matches(c) {
			n++
		}
	}
	return Scalar(cellvalue.NewInt(n)), nil
}

func fnCountIfs(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	if len(args)%2 != 0 {
		return Value{}, &cellvalue.RunError{
			Span: spanPtr(call.Span()),
			Msg:  cellvalue.RunErrorMsg{Kind: cellvalue.ErrMissingRequiredArgument, FuncName: "COUNTIFS", ArgName: "criteria"},
		}
	}
	pairs := len(args) / 2
	length := len(rangeCells(args[0]))
	n := int64(0)
	for i := 0; i < length; i++ {
		match := true
		for p := 0; p < pairs; p++ {
			cells := rangeCells(args[p*2])
			if i >= len(cells) {
				match = false
				break
			}
			crit := ParseCriterion(args[p*2+1].AsScalar())
			if !crit.Matches(cells[i]) {
				match = false
				break
			}
		}
		if match {
			n++
		}
	}
	return Scalar(cellvalue.NewInt(n)), nil
}

func fnSumIf(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	crit := ParseCriterion(args[1].AsScalar())
	sumRange := args[0]
	if len(args) == 3 {
		sumRange = args[2]
	}
	condCells := rangeCells(args[0])
	sumCells := rangeCells(sumRange)
	total := decimal.Zero
	for i, c := range condCells {
		if !crit.Matches(c) {
			continue
		}
		if i >= len(sumCells) {
			continue
		}
		if d, ok := sumCells[i].AsNumber(); ok {
			total = total.Add(d)
		}
	}
	return Scalar(cellvalue.NewNumber(total)), nil
}

func fnAverageIf(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	crit := ParseCriterion(args[1].AsScalar())
	avgRange := args[0]
	if len(args) == 3 {
		avgRange = args[2]
	}
	condCells := rangeCells(args[0])
	avgCells := rangeCells(avgRange)
	total := decimal.Zero
	count := int64(0)
	for i, c := range condCells {
		if !crit.Matches(c) {
			continue
		}
		if i >= len(avgCells) {
			continue
		}
		if d, ok := avgCells[i].AsNumber(); ok {
			total = total.Add(d)
			count++
		}
	}
	if count == 0 {
		return Value{}, runErr(call.Span(), cellvalue.ErrDivideByZero)
	}
	return Scalar(cellvalue.NewNumber(total.Div(decimal.NewFromInt(count)))), nil
}

// fnSumIfs and fnAverageIfs take Excel's SUMIFS/AVERAGEIFS argument
// order (sum_range, criteria_range1, criteria1, ...), unlike SUMIF/
// AVERAGEIF's single-pair (range, criteria, [sum_range]) order.
func fnSumIfs(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	if len(args)%2 != 1 {
		return Value{}, &cellvalue.RunError{
			Span: spanPtr(call.Span()),
			Msg:  cellvalue.RunErrorMsg{Kind: cellvalue.ErrMissingRequiredArgument, FuncName: "SUMIFS", ArgName: "criteria"},
		}
	}
	sumCells := rangeCells(args[0])
	pairs := (len(args) - 1) / 2
	total := decimal.Zero
	for i, c := range sumCells {
		match := true
		for p := 0; p < pairs; p++ {
			cells := rangeCells(args[1+p*2])
			if i >= len(cells) {
				match = false
				break
			}
			crit := ParseCriterion(args[1+p*2+1].AsScalar())
			if !crit.Matches(cells[i]) {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		if d, ok := c.AsNumber(); ok {
			total = total.Add(d)
		}
	}
	return Scalar(cellvalue.NewNumber(total)), nil
}

func fnAverageIfs(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	if len(args)%2 != 1 {
		return Value{}, &cellvalue.RunError{
			Span: spanPtr(call.Span()),
			Msg:  cellvalue.RunErrorMsg{Kind: cellvalue.ErrMissingRequiredArgument, FuncName: "AVERAGEIFS", ArgName: "criteria"},
		}
	}
	avgCells := rangeCells(args[0])
	pairs := (len(args) - 1) / 2
	total := decimal.Zero
	count := int64(0)
	for i, c := range avgCells {
		match := true
		for p := 0; p < pairs; p++ {
			cells := rangeCells(args[1+p*2])
			if i >= len(cells) {
				match = false
				break
			}
			crit := ParseCriterion(args[1+p*2+1].AsScalar())
			if !crit.Matches(cells[i]) {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		if d, ok := c.AsNumber(); ok {
			total = total.Add(d)
			count++
		}
	}
	if count == 0 {
		return Value{}, runErr(call.Span(), cellvalue.ErrDivideByZero)
	}
	return Scalar(cellvalue.NewNumber(total.Div(decimal.NewFromInt(count)))), nil
}

func fnIsError(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	return Scalar(cellvalue.NewLogical(args[0].AsScalar().Kind == cellvalue.Error)), nil
}

func fnIfError(e *evaluator, call *ast.CallExpression, args []Value) (Value, *cellvalue.RunError) {
	if args[0].AsScalar().Kind == cellvalue.Error {
		return args[1], nil
	}
	return args[0], nil
}
