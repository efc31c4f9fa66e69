package render

import (
	"gridsheet/a1"
	"gridsheet/cellvalue"
	"gridsheet/sheet"
)

// CodeCells returns one CodeCellPacket per data table anchor whose
// effective footprint intersects rect (spec.md §4.6, grounded on
// quadratic-core/.../rendering/code.rs render_code_cell).
func CodeCells(sh *sheet.Sheet, rect a1.Rect) []CodeCellPacket {
	var out []CodeCellPacket
	for _, anchor := range sh.DataTables.Order() {
		t, ok := sh.DataTables.Get(anchor)
		if !ok {
			continue
		}
		effRect, ok := sh.DataTables.EffectiveRect(anchor)
		if !ok || !effRect.Intersects(rect) {
			continue
		}
		v := sh.GetValue(anchor)
		lang := ""
		if v.Kind == cellvalue.Code {
			lang = string(v.Code.Language)
		} else if v.Kind == cellvalue.Import {
			lang = "Import"
		}
		out = append(out, CodeCellPacket{
			X: anchor.X, Y: anchor.Y,
			W: t.EffectiveWidth(), H: t.EffectiveHeight(),
			Language:      lang,
			State:         codeCellState(t),
			CollidingWith: spillCollisions(sh, anchor, t),
		})
	}
	return out
}

func codeCellState(t *sheet.DataTable) CodeCellState {
	switch {
	case t.SpillError:
		return StateSpillError
	case hasOutputError(t):
		return StateRunError
	case outputKind(t) == cellvalue.Image:
		return StateImage
	case outputKind(t) == cellvalue.HTML:
		return StateHTML
	default:
		return StateSuccess
	}
}

func outputKind(t *sheet.DataTable) cellvalue.Kind {
	if len(t.Value.Cells) == 0 || len(t.Value.Cells[0]) == 0 {
		return cellvalue.Blank
	}
	return t.Value.Cells[0][0].Kind
}

func hasOutputError(t *sheet.DataTable) bool {
	return outputKind(t) == cellvalue.Error
}

// spillCollisions names the earlier-inserted tables whose un-spilled
// rectangle forced anchor into spill error, so the renderer can draw a
// link from the error to its cause (spec.md §4.6).
func spillCollisions(sh *sheet.Sheet, anchor a1.Pos, t *sheet.DataTable) []Pos {
	if !t.SpillError {
		return nil
	}
	unspilled := a1.NewRect(anchor.X, anchor.Y, anchor.X+t.UnspilledWidth()-1, anchor.Y+t.UnspilledHeight()-1)
	var out []Pos
	for _, other := range sh.DataTables.Order() {
		if other == anchor {
			break
		}
		r, ok := sh.DataTables.EffectiveRect(other)
		if ok && r.Intersects(unspilled) {
			out = append(out, Pos{X: other.X, Y: other.Y})
		}
	}
	return out
}

// HTMLPackets returns one HTMLPacket per data table anchor whose output is
// an Html value and whose footprint intersects rect.
func HTMLPackets(sh *sheet.Sheet, rect a1.Rect) []HTMLPacket {
	var out []HTMLPacket
	for _, anchor := range sh.DataTables.Order() {
		t, ok := sh.DataTables.Get(anchor)
		if !ok || t.SpillError || outputKind(t) != cellvalue.HTML {
			continue
		}
		effRect, ok := sh.DataTables.EffectiveRect(anchor)
		if !ok || !effRect.Intersects(rect) {
			continue
		}
		out = append(out, HTMLPacket{
			X: anchor.X, Y: anchor.Y,
			HTML: t.Value.Cells[0][0].HTML,
			W:    t.ChartOutputW, H: t.ChartOutputH,
		})
	}
	return out
}

// ImagePackets is HTMLPackets' Image-kind twin.
func ImagePackets(sh *sheet.Sheet, rect a1.Rect) []ImagePacket {
	var out []ImagePacket
	for _, anchor := range sh.DataTables.Order() {
		t, ok := sh.DataTables.Get(anchor)
		if !ok || t.SpillError || outputKind(t) != cellvalue.Image {
			continue
		}
		effRect, ok := sh.DataTables.EffectiveRect(anchor)
		if !ok || !effRect.Intersects(rect) {
			continue
		}
		out = append(out, ImagePacket{
			X: anchor.X, Y: anchor.Y,
			Bytes: t.Value.Cells[0][0].Image,
			W:     t.ChartOutputW, H: t.ChartOutputH,
		})
	}
	return out
}
