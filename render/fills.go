package render

import (
	"gridsheet/a1"
	"gridsheet/sheet"
)

// SheetFills returns every infinite row/column/sheet fill on sh: the
// FormatAll/FormatsRow/FormatsColumn layers, whichever of them set a
// FillColor (spec.md §4.6's JsSheetFill, grounded on
// quadratic-core/.../rendering/fills.rs get_all_sheet_fills). Per-cell
// fills are never infinite, so FormatsCell never contributes here.
func SheetFills(sh *sheet.Sheet) []SheetFill {
	var out []SheetFill
	if sh.FormatAll.FillColor != nil {
		out = append(out, SheetFill{X: 1, Y: 1, Color: *sh.FormatAll.FillColor})
	}
	for col, f := range sh.FormatsColumn {
		if f.FillColor == nil {
			continue
		}
		one := int64(1)
		out = append(out, SheetFill{X: col, Y: 1, W: &one, Color: *f.FillColor})
	}
	for row, f := range sh.FormatsRow {
		if f.FillColor == nil {
			continue
		}
		one := int64(1)
		out = append(out, SheetFill{X: 1, Y: row, H: &one, Color: *f.FillColor})
	}
	return out
}

// RenderFills returns every finite per-cell fill visible in rect: the
// explicit FillColor layer only (spec.md §4.6's JsRenderFill). A data
// table's own cells never contribute a fill here — this repository's
// DataTable has no per-cell format layer of its own (table-level formatting
// is out of scope; see DESIGN.md) — so DisplayOrder never needs projecting
// through a fill query the way the original's sorted-table formats do.
func RenderFills(sh *sheet.Sheet, rect a1.Rect) []RenderFill {
	var out []RenderFill
	for _, e := range sh.FormatsCell.NondefaultRectsInRect(rect) {
		if e.Value.FillColor == nil {
			continue
		}
		out = append(out, RenderFill{
			X: e.Rect.Min.X, Y: e.Rect.Min.Y,
			W: e.Rect.Width(), H: e.Rect.Height(),
			Color: *e.Value.FillColor,
		})
	}
	return out
}
