package wsserver

import "gridsheet/render"

// clientRequestWire is the one inbound shape a browser sends: an edit
// to a single cell, addressed the way a user types it (a bare A1
// reference) rather than raw x/y, mirroring spreadsheet/server.go's
// UpdateRequest{ID, Value}.
type clientRequestWire struct {
	Type    string `json:"type"`
	SheetID string `json:"sheet_id"`
	Cell    string `json:"cell"`
	Value   string `json:"value"`
}

const (
	reqEditCell = "edit_cell"
	reqUndo     = "undo"
	reqRedo     = "redo"
)

// posWire is the plain (x,y) pair used throughout the renderer channel,
// mirroring render.Pos's own JSON-shape role.
type posWire struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

func posWireFrom(p render.Pos) posWire { return posWire{X: p.X, Y: p.Y} }

// jsUpdateCodeCellWire is spec.md §6's jsUpdateCodeCell(sheet_id, x, y,
// edit_value?, render_packet?).
type jsUpdateCodeCellWire struct {
	Type         string               `json:"type"`
	SheetID      string               `json:"sheet_id"`
	X            int64                `json:"x"`
	Y            int64                `json:"y"`
	EditValue    *string              `json:"edit_value,omitempty"`
	RenderPacket *codeCellPacketWire  `json:"render_packet,omitempty"`
}

type codeCellPacketWire struct {
	X             int64      `json:"x"`
	Y             int64      `json:"y"`
	W             int64      `json:"w"`
	H             int64      `json:"h"`
	Language      string     `json:"language"`
	State         string     `json:"state"`
	CollidingWith []posWire  `json:"colliding_with,omitempty"`
}

func codeCellPacketToWire(p render.CodeCellPacket) codeCellPacketWire {
	w := codeCellPacketWire{X: p.X, Y: p.Y, W: p.W, H: p.H, Language: p.Language, State: string(p.State)}
	for _, c := range p.CollidingWith {
		w.CollidingWith = append(w.CollidingWith, posWireFrom(c))
	}
	return w
}

// jsSendImageWire is spec.md §6's jsSendImage(sheet_id, x, y, bytes?,
// w?, h?).
type jsSendImageWire struct {
	Type    string   `json:"type"`
	SheetID string   `json:"sheet_id"`
	X       int64    `json:"x"`
	Y       int64    `json:"y"`
	Bytes   *string  `json:"bytes,omitempty"`
	W       *int64   `json:"w,omitempty"`
	H       *int64   `json:"h,omitempty"`
}

// borderRunWire is one BorderRun on the wire.
type borderRunWire struct {
	X     int64  `json:"x"`
	Y     int64  `json:"y"`
	W     int64  `json:"w"`
	H     int64  `json:"h"`
	Color string `json:"color"`
	Line  string `json:"line"`
}

func borderRunsToWire(runs []render.BorderRun) []borderRunWire {
	out := make([]borderRunWire, 0, len(runs))
	for _, r := range runs {
		out = append(out, borderRunWire{X: r.X, Y: r.Y, W: r.W, H: r.H, Color: r.Style.Color, Line: r.Style.Line})
	}
	return out
}

// jsBordersHashWire is spec.md §6's jsBordersHash(sheet_id, json): the
// border runs touching one dirty hash tile.
type jsBordersHashWire struct {
	Type       string          `json:"type"`
	SheetID    string          `json:"sheet_id"`
	HashX      int64           `json:"hash_x"`
	HashY      int64           `json:"hash_y"`
	Horizontal []borderRunWire `json:"horizontal,omitempty"`
	Vertical   []borderRunWire `json:"vertical,omitempty"`
}

// jsBordersSheetWire is spec.md §6's jsBordersSheet(sheet_id, json): the
// full sheet-wide border set. The server never sends it; border changes,
// structural edits included, go out per hash tile as jsBordersHash.
type jsBordersSheetWire struct {
	Type       string          `json:"type"`
	SheetID    string          `json:"sheet_id"`
	Horizontal []borderRunWire `json:"horizontal,omitempty"`
	Vertical   []borderRunWire `json:"vertical,omitempty"`
}

// jsFillsHashWire is the fills analogue of jsBordersHash spec.md §6
// calls for ("a corresponding hash-dirty signal for fills"): which hash
// tile's fills changed, for the client to re-pull.
type jsFillsHashWire struct {
	Type    string `json:"type"`
	SheetID string `json:"sheet_id"`
	HashX   int64  `json:"hash_x"`
	HashY   int64  `json:"hash_y"`
}

// errorWire reports a rejected client request.
type errorWire struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
