package render

import "gridsheet/sheet"

// RenderFill is a finite per-cell background rectangle (spec.md §4.6,
// quadratic-core's JsRenderFill).
type RenderFill struct {
	X, Y int64
	W, H int64
	Color string
}

// SheetFill is an infinite row/column/sheet background: W/H nil means the
// fill runs unbounded in that axis (quadratic-core's JsSheetFill).
type SheetFill struct {
	X, Y  int64
	W, H  *int64
	Color string
}

// BorderRun is one maximal run of identical border style along a hash,
// merged across contiguous cells sharing it (spec.md §4.6).
type BorderRun struct {
	Style sheet.BorderStyle
	X, Y  int64
	W, H  int64
}

// CodeCellState mirrors quadratic-core's JsRenderCodeCellState.
type CodeCellState string

const (
	StateSuccess    CodeCellState = "Success"
	StateRunError   CodeCellState = "RunError"
	StateSpillError CodeCellState = "SpillError"
	StateImage      CodeCellState = "Image"
	StateHTML       CodeCellState = "HTML"
)

// CodeCellPacket describes one data table anchor for the renderer: its
// on-grid footprint, what state it's in, and — for a spill error — which
// earlier table's footprint it collided with (spec.md §4.6).
type CodeCellPacket struct {
	X, Y          int64
	W, H          int64
	Language      string
	State         CodeCellState
	CollidingWith []Pos
}

// Pos is a plain (x,y) pair, used in packets where importing package a1
// would pull in more than the JSON shape needs.
type Pos struct{ X, Y int64 }

// HTMLPacket/ImagePacket carry a data table's HTML or Image output,
// dedicated packets so the renderer doesn't have to parse CodeCellPacket's
// generic state to find the payload (spec.md §4.6).
type HTMLPacket struct {
	X, Y int64
	HTML string
	W, H *int64 // chart_pixel_output, when set
}

type ImagePacket struct {
	X, Y  int64
	Bytes string
	W, H  *int64
}
