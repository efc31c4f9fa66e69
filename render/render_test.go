package render

import (
	"testing"

	"gridsheet/a1"
	"gridsheet/cellvalue"
	"gridsheet/sheet"
)

func ptr(s string) *string { return &s }

func viewportRect() a1.Rect { return a1.NewRect(1, 1, 100, 100) }

func TestRenderFillsFiniteCell(t *testing.T) {
	sh := sheet.NewSheet("s1", "Sheet1")
	sh.SetCellFormat(a1.Pos{X: 2, Y: 3}, sheet.Format{FillColor: ptr("red")})

	fills := RenderFills(sh, viewportRect())
	if len(fills) != 1 {
		t.Fatalf("expected 1 fill, got %d", len(fills))
	}
	f := fills[0]
	if f.X != 2 || f.Y != 3 || f.W != 1 || f.H != 1 || f.Color != "red" {
		t.Errorf("unexpected fill: %+v", f)
	}
}

func TestSheetFillsColumnAndRow(t *testing.T) {
	sh := sheet.NewSheet("s1", "Sheet1")
	sh.FormatsColumn[2] = sheet.Format{FillColor: ptr("blue")}
	sh.FormatsRow[5] = sheet.Format{FillColor: ptr("green")}

	fills := SheetFills(sh)
	if len(fills) != 2 {
		t.Fatalf("expected 2 sheet fills, got %d", len(fills))
	}

	clipped := ClipSheetFills(fills, a1.NewRect(1, 1, 10, 10))
	for _, f := range clipped {
		if f.W == nil || f.H == nil {
			t.Errorf("expected clipped fill to have bounded W and H, got %+v", f)
		}
	}
}

func TestHorizontalBorderRunMerging(t *testing.T) {
	sh := sheet.NewSheet("s1", "Sheet1")
	style := &sheet.BorderStyle{Color: "black", Line: "solid", Timestamp: 1}
	for x := int64(1); x <= 3; x++ {
		sh.Borders.Top.Set(a1.Pos{X: x, Y: 2}, style)
	}

	runs := HorizontalBorders(sh, a1.NewRect(1, 1, 5, 5))
	if len(runs) != 1 {
		t.Fatalf("expected a single merged run, got %d: %+v", len(runs), runs)
	}
	r := runs[0]
	if r.X != 1 || r.Y != 2 || r.W != 3 || r.H != 1 {
		t.Errorf("unexpected run: %+v", r)
	}
}

func TestHorizontalBorderTimestampTiebreak(t *testing.T) {
	sh := sheet.NewSheet("s1", "Sheet1")
	older := &sheet.BorderStyle{Color: "black", Line: "solid", Timestamp: 1}
	newer := &sheet.BorderStyle{Color: "red", Line: "dashed", Timestamp: 2}
	sh.Borders.Top.Set(a1.Pos{X: 1, Y: 2}, older)
	sh.Borders.Bottom.Set(a1.Pos{X: 1, Y: 1}, newer)

	runs := HorizontalBorders(sh, a1.NewRect(1, 1, 1, 5))
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Style != *newer {
		t.Errorf("expected the newer-timestamped style to win, got %+v", runs[0].Style)
	}
}

func TestCodeCellPacketSpillError(t *testing.T) {
	sh := sheet.NewSheet("s1", "Sheet1")
	sh.SetValue(a1.Pos{X: 1, Y: 1}, cellvalue.NewCode(cellvalue.LanguagePython, "[1,2]"))
	sh.DataTables.InsertFull(a1.Pos{X: 1, Y: 1}, sheet.NewDataTable(sheet.KindCodeRun, "", sheet.TableValue{
		Cells: [][]cellvalue.CellValue{{cellvalue.NewInt(1)}, {cellvalue.NewInt(2)}},
	}))
	sh.SetValue(a1.Pos{X: 1, Y: 2}, cellvalue.NewCode(cellvalue.LanguagePython, "99"))
	sh.DataTables.InsertFull(a1.Pos{X: 1, Y: 2}, sheet.NewDataTable(sheet.KindCodeRun, "", sheet.SingleValue(cellvalue.NewInt(99))))

	packets := CodeCells(sh, viewportRect())
	if len(packets) != 2 {
		t.Fatalf("expected 2 code cell packets, got %d", len(packets))
	}

	var spilled *CodeCellPacket
	for i := range packets {
		if packets[i].X == 1 && packets[i].Y == 2 {
			spilled = &packets[i]
		}
	}
	if spilled == nil {
		t.Fatalf("missing packet for the colliding table")
	}
	if spilled.State != StateSpillError {
		t.Errorf("expected SpillError state, got %v", spilled.State)
	}
	if len(spilled.CollidingWith) != 1 || spilled.CollidingWith[0] != (Pos{X: 1, Y: 1}) {
		t.Errorf("expected collision pointing at A1, got %+v", spilled.CollidingWith)
	}
}

func TestCacheInvalidationTracksDirtyHashes(t *testing.T) {
	c := NewCache()
	c.Invalidate("s1", a1.SinglePos(a1.Pos{X: 1, Y: 1}))
	c.Invalidate("s1", a1.SinglePos(a1.Pos{X: 100, Y: 100}))

	hashes := c.DirtyHashes("s1")
	if len(hashes) != 2 {
		t.Fatalf("expected 2 distinct dirty hashes, got %d", len(hashes))
	}
	if more := c.DirtyHashes("s1"); len(more) != 0 {
		t.Errorf("expected dirty set to clear after retrieval, got %d", len(more))
	}
}

func TestHashGridCoords(t *testing.T) {
	h := PosToHash(a1.Pos{X: 1, Y: 1})
	if h != (HashCoord{X: 0, Y: 0}) {
		t.Errorf("expected (1,1) to hash to (0,0), got %+v", h)
	}
	h2 := PosToHash(a1.Pos{X: CellSheetWidth + 1, Y: 1})
	if h2 != (HashCoord{X: 1, Y: 0}) {
		t.Errorf("expected column %d to roll into the next hash, got %+v", CellSheetWidth+1, h2)
	}
}
