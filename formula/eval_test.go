package formula

import (
	"testing"

	"gridsheet/a1"
	"gridsheet/cellvalue"
)

// memCtx is a trivial in-memory Ctx for evaluator tests.
type memCtx struct {
	sheets  map[string]a1.SheetID
	values  map[a1.SheetID]map[a1.Pos]cellvalue.CellValue
	accessed []a1.Rect
}

func newMemCtx() *memCtx {
	return &memCtx{
		sheets: map[string]a1.SheetID{"": "sheet1", "Sheet1": "sheet1"},
		values: map[a1.SheetID]map[a1.Pos]cellvalue.CellValue{"sheet1": {}},
	}
}

func (c *memCtx) set(pos a1.Pos, v cellvalue.CellValue) { c.values["sheet1"][pos] = v }

func (c *memCtx) ResolveSheet(name string) (a1.SheetID, bool) {
	id, ok := c.sheets[name]
	return id, ok
}

func (c *memCtx) GetCellValue(sheet a1.SheetID, pos a1.Pos) cellvalue.CellValue {
	if v, ok := c.values[sheet][pos]; ok {
		return v
	}
	return cellvalue.NewBlank()
}

func (c *memCtx) GetRangeValues(sheet a1.SheetID, rect a1.Rect) [][]cellvalue.CellValue {
	out := make([][]cellvalue.CellValue, 0, rect.Height())
	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		row := make([]cellvalue.CellValue, 0, rect.Width())
		for x := rect.Min.X; x <= rect.Max.X; x++ {
			row = append(row, c.GetCellValue(sheet, a1.Pos{X: x, Y: y}))
		}
		out = append(out, row)
	}
	return out
}

func (c *memCtx) ReportAccess(sheet a1.SheetID, rect a1.Rect) {
	c.accessed = append(c.accessed, rect)
}

func mustEval(t *testing.T, ctx Ctx, src string) Value {
	t.Helper()
	v, err := Eval(src, ctx, SheetPos{Sheet: "sheet1", Pos: a1.Pos{X: 1, Y: 2}})
	if err != nil {
		t.Fatalf("Eval(%q) error: %+v", src, err.Msg)
	}
	return v
}

func TestArithmetic(t *testing.T) {
	ctx := newMemCtx()
	v := mustEval(t, ctx, "1+2*3")
	d, _ := v.AsScalar().AsNumber()
	if got := d.String(); got != "7" {
		t.Fatalf("1+2*3 = %s, want 7", got)
	}
}

func TestCellReferenceAndDependency(t *testing.T) {
	ctx := newMemCtx()
	ctx.set(a1.Pos{X: 1, Y: 1}, cellvalue.NewInt(9))

	v, err := Eval("A1+1", ctx, SheetPos{Sheet: "sheet1", Pos: a1.Pos{X: 2, Y: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %+v", err.Msg)
	}
	d, _ := v.AsScalar().AsNumber()
	if got := d.String(); got != "10" {
		t.Fatalf("A1+1 = %s, want 10", got)
	}
	if len(ctx.accessed) != 1 {
		t.Fatalf("expected one reported access, got %d", len(ctx.accessed))
	}
}

func TestSumRange(t *testing.T) {
	ctx := newMemCtx()
	ctx.set(a1.Pos{X: 1, Y: 1}, cellvalue.NewInt(1))
	ctx.set(a1.Pos{X: 1, Y: 2}, cellvalue.NewInt(2))
	ctx.set(a1.Pos{X: 1, Y: 3}, cellvalue.NewInt(3))

	v := mustEval(t, ctx, "SUM(A1:A3)")
	d, _ := v.AsScalar().AsNumber()
	if got := d.String(); got != "6" {
		t.Fatalf("SUM(A1:A3) = %s, want 6", got)
	}
}

func TestAverageIfAndCountIf(t *testing.T) {
	ctx := newMemCtx()
	for i := int64(0); i <= 10; i++ {
		ctx.set(a1.Pos{X: 1, Y: i + 1}, cellvalue.NewInt(i))
	}
	v := mustEval(t, ctx, "AVERAGEIF(A1:A11,\"<=5\")")
	d, _ := v.AsScalar().AsNumber()
	if got := d.String(); got != "2.5" {
		t.Fatalf("AVERAGEIF = %s, want 2.5", got)
	}
	v2 := mustEval(t, ctx, "COUNTIF(A1:A11,\"<=5\")")
	d2, _ := v2.AsScalar().AsNumber()
	if got := d2.String(); got != "6" {
		t.Fatalf("COUNTIF = %s, want 6", got)
	}
}

func TestSumIfsAndAverageIfs(t *testing.T) {
	ctx := newMemCtx()
	// A: amount, B: region, C: status — SUMIFS/AVERAGEIFS over two criteria ranges.
	amounts := []int64{10, 20, 30, 40}
	regions := []string{"east", "east", "west", "east"}
	statuses := []string{"open", "closed", "open", "open"}
	for i := range amounts {
		y := int64(i + 1)
		ctx.set(a1.Pos{X: 1, Y: y}, cellvalue.NewInt(amounts[i]))
		ctx.set(a1.Pos{X: 2, Y: y}, cellvalue.NewText(regions[i]))
		ctx.set(a1.Pos{X: 3, Y: y}, cellvalue.NewText(statuses[i]))
	}

	v := mustEval(t, ctx, `SUMIFS(A1:A4,B1:B4,"east",C1:C4,"open")`)
	d, _ := v.AsScalar().AsNumber()
	if got := d.String(); got != "50" {
		t.Fatalf("SUMIFS = %s, want 50", got)
	}

	v2 := mustEval(t, ctx, `AVERAGEIFS(A1:A4,B1:B4,"east")`)
	d2, _ := v2.AsScalar().AsNumber()
	if got := d2.String(); got != "23.3333333333333333" {
		t.Fatalf("AVERAGEIFS = %s, want 23.3333333333333333", got)
	}
}

func TestDivideByZeroError(t *testing.T) {
	ctx := newMemCtx()
	_, err := Eval("1/0", ctx, SheetPos{Sheet: "sheet1", Pos: a1.Pos{X: 1, Y: 1}})
	if err == nil || err.Msg.Kind != cellvalue.ErrDivideByZero {
		t.Fatalf("expected DivideByZero, got %+v", err)
	}
}

func TestErrorPropagatesAsNotAvailable(t *testing.T) {
	ctx := newMemCtx()
	ctx.set(a1.Pos{X: 1, Y: 1}, cellvalue.NewError(cellvalue.RunError{Msg: cellvalue.RunErrorMsg{Kind: cellvalue.ErrDivideByZero}}))

	_, err := Eval("A1+1", ctx, SheetPos{Sheet: "sheet1", Pos: a1.Pos{X: 2, Y: 1}})
	if err == nil || err.Msg.Kind != cellvalue.ErrNotAvailable {
		t.Fatalf("expected NotAvailable, got %+v", err)
	}

	v := mustEval(t, ctx, "ISERROR(A1)")
	b, _ := v.AsScalar().AsLogical()
	if !b {
		t.Fatal("expected ISERROR(A1) = TRUE")
	}
}

func TestIfAndLogical(t *testing.T) {
	ctx := newMemCtx()
	v := mustEval(t, ctx, "IF(1<2, \"yes\", \"no\")")
	if v.AsScalar().Text != "yes" {
		t.Fatalf("IF = %q, want yes", v.AsScalar().Text)
	}
}
