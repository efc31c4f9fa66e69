package sheet

import (
	"testing"

	"gridsheet/a1"
	"gridsheet/cellvalue"
	"gridsheet/grid"
)

func TestSetGetValueTracksHasCellValue(t *testing.T) {
	s := NewSheet("sheet1", "Sheet 1")
	p := a1.Pos{X: 1, Y: 1}

	s.SetValue(p, cellvalue.NewInt(9))
	if !s.HasCellValue.Get(p) {
		t.Fatal("expected has_cell_value true after SetValue")
	}
	if got := s.GetValue(p); got.Kind != cellvalue.Number {
		t.Fatalf("GetValue kind = %v, want Number", got.Kind)
	}

	s.SetValue(p, cellvalue.NewBlank())
	if s.HasCellValue.Get(p) {
		t.Fatal("expected has_cell_value false after clearing to blank")
	}
}

func TestFormatCascade(t *testing.T) {
	s := NewSheet("sheet1", "Sheet 1")
	yes := true
	red := "red"
	blue := "blue"

	s.FormatAll = Format{TextColor: &red}
	s.FormatsColumn[2] = Format{TextColor: &blue}
	s.SetCellFormat(a1.Pos{X: 2, Y: 5}, Format{Bold: &yes})

	f := s.EffectiveFormat(a1.Pos{X: 2, Y: 5})
	if f.Bold == nil || !*f.Bold {
		t.Fatal("expected cell-level Bold to win")
	}
	if f.TextColor == nil || *f.TextColor != "blue" {
		t.Fatal("expected column format to shadow sheet_all")
	}

	f2 := s.EffectiveFormat(a1.Pos{X: 3, Y: 5})
	if f2.TextColor == nil || *f2.TextColor != "red" {
		t.Fatal("expected sheet_all to apply outside the formatted column")
	}
}

func TestInsertRemoveColumnRoundTrip(t *testing.T) {
	s := NewSheet("sheet1", "Sheet 1")
	s.SetValue(a1.Pos{X: 3, Y: 1}, cellvalue.NewText("x"))

	s.InsertColumn(1, grid.CopyFormatsNone)
	if got := s.GetValue(a1.Pos{X: 4, Y: 1}); got.Text != "x" {
		t.Fatalf("after insert, value should shift to col 4, got %+v", got)
	}

	snap := s.RemoveColumn(1)
	if got := s.GetValue(a1.Pos{X: 3, Y: 1}); got.Text != "x" {
		t.Fatalf("after remove, value should shift back to col 3, got %+v", got)
	}
	_ = snap
}

func TestDataTableSpillPrecedence(t *testing.T) {
	dt := NewSheetDataTables()

	two := func(a, b int64) TableValue {
		return TableValue{Cells: [][]cellvalue.CellValue{{cellvalue.NewInt(a), cellvalue.NewInt(b)}}}
	}

	anchorA := a1.Pos{X: 1, Y: 1} // A1, outputs A1:B1
	anchorC := a1.Pos{X: 3, Y: 1} // C1, outputs C1:D1 (no overlap with A1:B1)
	anchorB := a1.Pos{X: 2, Y: 1} // B1, outputs B1:C1 (overlaps A1:B1)

	dt.InsertFull(anchorA, NewDataTable(KindCodeRun, "t1", two(1, 2)))
	dt.InsertFull(anchorC, NewDataTable(KindCodeRun, "t2", two(3, 4)))
	dt.InsertFull(anchorB, NewDataTable(KindCodeRun, "t3", two(7, 8)))

	tA, _ := dt.Get(anchorA)
	tB, _ := dt.Get(anchorB)
	tC, _ := dt.Get(anchorC)

	if !tB.SpillError {
		t.Fatal("t3 at B1 should spill: its range B1:C1 overlaps t1's A1:B1 and t1 was inserted first")
	}
	if tA.SpillError {
		t.Fatal("t1 at A1 is earliest-inserted and should never spill here")
	}
	if tC.SpillError {
		t.Fatal("t2 at C1 does not overlap t1's A1:B1 and should not spill")
	}
}
