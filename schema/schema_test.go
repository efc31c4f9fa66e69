package schema

import (
	"reflect"
	"testing"

	"gridsheet/a1"
	"gridsheet/cellvalue"
	"gridsheet/sheet"
)

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

// cellValuesEqual compares two CellValues by their semantic content rather
// than Go's == operator: a Number cell's decimal.Decimal carries a *big.Int
// pointer, so two equal numbers built independently (e.g. one set directly,
// one parsed back out of a saved file) are never == even though they
// represent the same value.
func cellValuesEqual(a, b cellvalue.CellValue) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == cellvalue.Number {
		return a.Number.Equal(b.Number)
	}
	return a == b
}

func sampleSheet() *sheet.Sheet {
	sh := sheet.NewSheet("sheet1", "Sheet 1")
	sh.SetValue(a1.Pos{X: 1, Y: 1}, cellvalue.NewText("hello"))
	sh.SetValue(a1.Pos{X: 2, Y: 1}, cellvalue.NewInt(42))
	sh.SetValue(a1.Pos{X: 3, Y: 1}, cellvalue.NewLogical(true))
	sh.SetCellFormat(a1.Pos{X: 1, Y: 1}, sheet.Format{Bold: boolptr(true), FillColor: strptr("yellow")})
	sh.FormatsColumn[5] = sheet.Format{FillColor: strptr("blue")}
	sh.FormatsRow[9] = sheet.Format{FillColor: strptr("green")}
	sh.ColWidths[1] = 120
	sh.RowHeights[1] = 24
	sh.Borders.Top.Set(a1.Pos{X: 1, Y: 1}, &sheet.BorderStyle{Color: "black", Line: "solid", Timestamp: 7})

	sh.SetValue(a1.Pos{X: 1, Y: 10}, cellvalue.NewCode(cellvalue.LanguagePython, "[1,2,3]"))
	sh.DataTables.InsertFull(a1.Pos{X: 1, Y: 10}, sheet.NewDataTable(sheet.KindCodeRun, "my_table", sheet.TableValue{
		Cells: [][]cellvalue.CellValue{{cellvalue.NewInt(1)}, {cellvalue.NewInt(2)}, {cellvalue.NewInt(3)}},
	}))
	return sh
}

func TestSheetRoundTrip(t *testing.T) {
	sh := sampleSheet()
	d := SheetToWire(sh)
	back, err := WireToSheet(d)
	if err != nil {
		t.Fatalf("WireToSheet: %v", err)
	}

	for _, pos := range []a1.Pos{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}} {
		if got, want := back.GetValue(pos), sh.GetValue(pos); !cellValuesEqual(got, want) {
			t.Errorf("cell %+v: got %+v, want %+v", pos, got, want)
		}
	}
	if got, want := back.EffectiveFormat(a1.Pos{X: 1, Y: 1}), sh.EffectiveFormat(a1.Pos{X: 1, Y: 1}); !reflect.DeepEqual(got, want) {
		t.Errorf("effective format at A1: got %+v, want %+v", got, want)
	}
	if back.ColWidths[1] != 120 || back.RowHeights[1] != 24 {
		t.Errorf("column width/row height did not round trip: %+v %+v", back.ColWidths, back.RowHeights)
	}
	style := back.Borders.Top.Get(a1.Pos{X: 1, Y: 1})
	if style == nil || *style != (sheet.BorderStyle{Color: "black", Line: "solid", Timestamp: 7}) {
		t.Errorf("border did not round trip: %+v", style)
	}

	table, ok := back.DataTables.Get(a1.Pos{X: 1, Y: 10})
	if !ok {
		t.Fatalf("data table missing after round trip")
	}
	if table.Name != "my_table" || table.Value.Height() != 3 {
		t.Errorf("data table did not round trip: %+v", table)
	}
}

func TestFileRoundTrip(t *testing.T) {
	sh := sampleSheet()
	f := FromSheets([]*sheet.Sheet{sh}, "sheet1")

	data, err := Save(f)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Version != CurrentVersion {
		t.Errorf("expected version %d, got %d", CurrentVersion, loaded.Version)
	}
	if loaded.ActiveSheet != "sheet1" {
		t.Errorf("expected active sheet sheet1, got %q", loaded.ActiveSheet)
	}

	data2, err := Save(loaded)
	if err != nil {
		t.Fatalf("Save (second pass): %v", err)
	}
	if string(data) != string(data2) {
		t.Errorf("same-version round trip is not byte-identical:\n%s\nvs\n%s", data, data2)
	}
}

func TestUpgradeV1toCurrent(t *testing.T) {
	sh := sampleSheet()
	v1 := FileV1{Sheet: SheetToWire(sh)}

	f := UpgradeV2toV3(UpgradeV1toV2(v1))
	if f.Version != CurrentVersion {
		t.Errorf("expected upgraded version %d, got %d", CurrentVersion, f.Version)
	}
	if len(f.Sheets) != 1 || f.Sheets[0].ID != "sheet1" {
		t.Fatalf("unexpected sheets after upgrade: %+v", f.Sheets)
	}
	if f.ActiveSheet != "sheet1" {
		t.Errorf("expected upgraded file to default ActiveSheet to the first sheet, got %q", f.ActiveSheet)
	}
}

func TestLoadRejectsFutureVersion(t *testing.T) {
	_, err := Load([]byte(`{"version":999,"sheets":[]}`))
	if err == nil {
		t.Fatalf("expected an error loading a file from a newer version")
	}
}
