package formula

import (
	"gridsheet/a1"
	"gridsheet/cellvalue"
)

// SheetPos anchors a formula to the sheet and cell it was entered in;
// unqualified references resolve against it.
type SheetPos struct {
	Sheet a1.SheetID
	Pos   a1.Pos
}

// Ctx is the read-only view of the workbook the evaluator needs. package
// engine implements it over the live GridController state; tests
// implement it directly over an in-memory map. Keeping it an interface
// (rather than a concrete *sheet.Sheet) is what spec.md §4.4 calls the
// "Ctx contract" and is what lets the evaluator run during undo/redo
// replay against snapshots instead of only live sheets.
type Ctx interface {
	// ResolveSheet maps a sheet name (as written before '!' in a formula)
	// to its id. Unqualified references never reach it: the evaluator
	// reads them from the anchor's own sheet.
	ResolveSheet(name string) (a1.SheetID, bool)

	// GetCellValue returns the value stored at pos on sheet. Errored
	// upstream cells are returned as CellValue{Kind: Error}; the caller
	// decides whether that propagates as NotAvailable or is tolerated.
	GetCellValue(sheet a1.SheetID, pos a1.Pos) cellvalue.CellValue

	// GetRangeValues returns every cell in rect, row-major.
	GetRangeValues(sheet a1.SheetID, rect a1.Rect) [][]cellvalue.CellValue

	// ReportAccess records that the formula being evaluated reads rect on
	// sheet, feeding the dependency graph (spec.md §4.5's cells_accessed).
	ReportAccess(sheet a1.SheetID, rect a1.Rect)
}
