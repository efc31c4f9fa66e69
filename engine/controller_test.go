package engine

import (
	"testing"

	"gridsheet/a1"
	"gridsheet/cellvalue"
	"gridsheet/grid"
	"gridsheet/sheet"
)

const sheetID sheet.SheetID = "sheet1"

func pos(x, y int64) a1.Pos { return a1.Pos{X: x, Y: y} }

type noRuntime struct{}

func (noRuntime) Submit(CodeRunRequest) {}

func newTestController(t *testing.T) *GridController {
	t.Helper()
	c := NewGridController(noRuntime{})
	c.AddSheet(sheetID, "Sheet1")
	return c
}

func mustApply(t *testing.T, c *GridController, ops ...Operation) *TransactionResult {
	t.Helper()
	res, err := c.ApplyUserOperations(ops)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !res.Committed {
		t.Fatalf("expected transaction to commit, got suspended waiting on %s!%s", res.WaitingSheet, res.WaitingPos)
	}
	return res
}

func cellAt(t *testing.T, c *GridController, p a1.Pos) cellvalue.CellValue {
	t.Helper()
	sh, ok := c.Sheet(sheetID)
	if !ok {
		t.Fatalf("missing sheet")
	}
	return resolveCellForRead(sh, p)
}

func mustNumber(t *testing.T, v cellvalue.CellValue) int64 {
	t.Helper()
	if v.Kind != cellvalue.Number {
		t.Fatalf("expected number, got %v", v.Kind)
	}
	return v.Number.IntPart()
}

func TestSimpleFormulaEvaluation(t *testing.T) {
	c := newTestController(t)
	mustApply(t, c, SetCellValue(sheetID, pos(1, 1), cellvalue.NewInt(10)))
	mustApply(t, c, SetCodeCell(sheetID, pos(2, 1), cellvalue.CodeCellValue{Language: cellvalue.LanguageFormula, Code: "A1*2"}))

	got := mustNumber(t, cellAt(t, c, pos(2, 1)))
	if got != 20 {
		t.Errorf("expected B1 to be 20, got %d", got)
	}
}

func TestDependencyPropagation(t *testing.T) {
	c := newTestController(t)
	mustApply(t, c, SetCellValue(sheetID, pos(1, 1), cellvalue.NewInt(10)))
	mustApply(t, c, SetCodeCell(sheetID, pos(2, 1), cellvalue.CodeCellValue{Language: cellvalue.LanguageFormula, Code: "A1*2"}))

	if got := mustNumber(t, cellAt(t, c, pos(2, 1))); got != 20 {
		t.Fatalf("expected B1 to be 20, got %d", got)
	}

	mustApply(t, c, SetCellValue(sheetID, pos(1, 1), cellvalue.NewInt(5)))
	if got := mustNumber(t, cellAt(t, c, pos(2, 1))); got != 10 {
		t.Errorf("expected B1 to update to 10, got %d", got)
	}
}

func TestChainedDependencies(t *testing.T) {
	c := newTestController(t)
	mustApply(t, c, SetCellValue(sheetID, pos(1, 1), cellvalue.NewInt(1)))
	mustApply(t, c, SetCodeCell(sheetID, pos(2, 1), cellvalue.CodeCellValue{Language: cellvalue.LanguageFormula, Code: "A1+1"}))
	mustApply(t, c, SetCodeCell(sheetID, pos(3, 1), cellvalue.CodeCellValue{Language: cellvalue.LanguageFormula, Code: "B1*2"}))

	if got := mustNumber(t, cellAt(t, c, pos(3, 1))); got != 4 {
		t.Fatalf("expected C1 to be 4, got %d", got)
	}

	mustApply(t, c, SetCellValue(sheetID, pos(1, 1), cellvalue.NewInt(2)))
	if got := mustNumber(t, cellAt(t, c, pos(3, 1))); got != 6 {
		t.Errorf("expected C1 to update to 6, got %d", got)
	}
}

func TestCircularReferenceDetection(t *testing.T) {
	c := newTestController(t)
	mustApply(t, c, SetCodeCell(sheetID, pos(1, 1), cellvalue.CodeCellValue{Language: cellvalue.LanguageFormula, Code: "B1+1"}))
	mustApply(t, c, SetCodeCell(sheetID, pos(2, 1), cellvalue.CodeCellValue{Language: cellvalue.LanguageFormula, Code: "A1+1"}))

	v := cellAt(t, c, pos(2, 1))
	if v.Kind != cellvalue.Error || v.Error.Msg.Kind != cellvalue.ErrCircularReference {
		t.Errorf("expected B1 to be a CircularReference error, got %+v", v)
	}
}

type recordingRuntime struct {
	requests []CodeRunRequest
}

func (r *recordingRuntime) Submit(req CodeRunRequest) { r.requests = append(r.requests, req) }

func TestSpillBetweenTwoCodeCells(t *testing.T) {
	rt := &recordingRuntime{}
	c := NewGridController(rt)
	c.AddSheet(sheetID, "Sheet1")

	// A1 is a Python cell that returns a 1x2 array, spilling into A1:A2.
	res, err := c.ApplyUserOperations([]Operation{SetCodeCell(sheetID, pos(1, 1), cellvalue.CodeCellValue{Language: cellvalue.LanguagePython, Code: "[1, 2]"})})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if res.Committed {
		t.Fatalf("expected transaction to suspend for the external runtime")
	}
	res, err = c.CalculationComplete(res.TransactionID, JsCodeResult{
		TransactionID: res.TransactionID,
		Success:       true,
		OutputArray: [][]CellOutput{
			{{Value: "1", TypeName: "number"}},
			{{Value: "2", TypeName: "number"}},
		},
	})
	if err != nil {
		t.Fatalf("calculation complete failed: %v", err)
	}
	if !res.Committed {
		t.Fatalf("expected transaction to commit after the runtime result")
	}

	if got := mustNumber(t, cellAt(t, c, pos(1, 1))); got != 1 {
		t.Fatalf("expected A1 to be 1, got %d", got)
	}
	if got := mustNumber(t, cellAt(t, c, pos(1, 2))); got != 2 {
		t.Fatalf("expected A2 to read A1's spilled second row, got %d", got)
	}

	// A second code cell anchored at A2 collides with A1's spilled
	// footprint; it must report SpillError rather than overwrite A1's
	// output (spec.md §4.3's insertion-order spill precedence).
	res, err = c.ApplyUserOperations([]Operation{SetCodeCell(sheetID, pos(1, 2), cellvalue.CodeCellValue{Language: cellvalue.LanguagePython, Code: "99"})})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	res, err = c.CalculationComplete(res.TransactionID, JsCodeResult{
		TransactionID: res.TransactionID,
		Success:       true,
		OutputValue:   &CellOutput{Value: "99", TypeName: "number"},
	})
	if err != nil {
		t.Fatalf("calculation complete failed: %v", err)
	}
	if !res.Committed {
		t.Fatalf("expected second transaction to commit")
	}

	v := cellAt(t, c, pos(1, 2))
	if v.Kind != cellvalue.Error || v.Error.Msg.Kind != cellvalue.ErrSpill {
		t.Fatalf("expected A2 to report a spill error, got %+v", v)
	}
	if got := mustNumber(t, cellAt(t, c, pos(1, 1))); got != 1 {
		t.Errorf("expected A1 to keep its original spilled value, got %d", got)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	c := newTestController(t)
	mustApply(t, c, SetCellValue(sheetID, pos(1, 1), cellvalue.NewInt(10)))
	mustApply(t, c, SetCellValue(sheetID, pos(1, 1), cellvalue.NewInt(20)))

	if got := mustNumber(t, cellAt(t, c, pos(1, 1))); got != 20 {
		t.Fatalf("expected A1 to be 20, got %d", got)
	}

	if _, err := c.Undo(); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if got := mustNumber(t, cellAt(t, c, pos(1, 1))); got != 10 {
		t.Errorf("expected A1 to revert to 10 after undo, got %d", got)
	}

	if _, err := c.Redo(); err != nil {
		t.Fatalf("redo failed: %v", err)
	}
	if got := mustNumber(t, cellAt(t, c, pos(1, 1))); got != 20 {
		t.Errorf("expected A1 to return to 20 after redo, got %d", got)
	}
}

func TestInsertColumnShiftsValues(t *testing.T) {
	c := newTestController(t)
	mustApply(t, c, SetCellValue(sheetID, pos(1, 1), cellvalue.NewInt(7)))
	mustApply(t, c, InsertColumn(sheetID, 1, grid.CopyFormatsNone))

	// The original A1 write is now at B1.
	if got := mustNumber(t, cellAt(t, c, pos(2, 1))); got != 7 {
		t.Errorf("expected value to shift to B1, got %d at B1", got)
	}
}
