package engine

import (
	"gridsheet/a1"
	"gridsheet/cellvalue"
	"gridsheet/formula"
	"gridsheet/sheet"
)

// evalCtx implements formula.Ctx over the controller's live sheets for
// the duration of one code cell's evaluation, collecting every rect it
// reads so the dependency index can be rebuilt afterward.
type evalCtx struct {
	c        *GridController
	accessed map[sheet.SheetID][]a1.Rect
}

func newEvalCtx(c *GridController) *evalCtx {
	return &evalCtx{c: c, accessed: map[sheet.SheetID][]a1.Rect{}}
}

func (ec *evalCtx) ResolveSheet(name string) (a1.SheetID, bool) {
	return ec.c.resolveSheetByName(name)
}

func (ec *evalCtx) GetCellValue(sh a1.SheetID, pos a1.Pos) cellvalue.CellValue {
	shObj, ok := ec.c.sheets[sh]
	if !ok {
		return cellvalue.NewError(cellvalue.RunError{Msg: cellvalue.RunErrorMsg{Kind: cellvalue.ErrBadCellReference}})
	}
	return resolveCellForRead(shObj, pos)
}

func (ec *evalCtx) GetRangeValues(sh a1.SheetID, rect a1.Rect) [][]cellvalue.CellValue {
	shObj, ok := ec.c.sheets[sh]
	if !ok {
		return nil
	}
	out := make([][]cellvalue.CellValue, 0, rect.Height())
	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		row := make([]cellvalue.CellValue, 0, rect.Width())
		for x := rect.Min.X; x <= rect.Max.X; x++ {
			row = append(row, resolveCellForRead(shObj, a1.Pos{X: x, Y: y}))
		}
		out = append(out, row)
	}
	return out
}

func (ec *evalCtx) ReportAccess(sh a1.SheetID, rect a1.Rect) {
	ec.accessed[sh] = append(ec.accessed[sh], rect)
}

// resolveCellForRead returns the value visible at pos: a spilled data
// table's cell if one covers pos (spec.md §4.3's read path), else the
// raw stored value.
func resolveCellForRead(sh *sheet.Sheet, pos a1.Pos) cellvalue.CellValue {
	anchor, ok := sh.DataTables.AnchorAt(pos)
	if !ok {
		return sh.GetValue(pos)
	}
	t, ok := sh.DataTables.Get(anchor)
	if !ok {
		return sh.GetValue(pos)
	}
	if t.SpillError {
		return cellvalue.NewError(cellvalue.RunError{Msg: cellvalue.RunErrorMsg{Kind: cellvalue.ErrSpill}})
	}
	dx := pos.X - anchor.X
	dy := pos.Y - anchor.Y
	if dy < 0 || dy >= int64(len(t.Value.Cells)) {
		return cellvalue.NewBlank()
	}
	row := t.Value.Cells[dy]
	if dx < 0 || dx >= int64(len(row)) {
		return cellvalue.NewBlank()
	}
	return row[dx]
}

// evalFormula runs code anchored at task through the formula evaluator.
func evalFormula(ec *evalCtx, code string, task runTask) ([][]cellvalue.CellValue, *cellvalue.RunError) {
	anchor := formula.SheetPos{Sheet: task.Sheet, Pos: task.Pos}
	val, runErr := formula.Eval(code, ec, anchor)
	if runErr != nil {
		return nil, runErr
	}
	return val.Cells, nil
}
