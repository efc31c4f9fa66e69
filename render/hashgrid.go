// Package render turns sparse sheet state into hash-bucketed packets for
// incremental viewport rendering (spec.md §4.6). It never mutates a Sheet;
// it only reads it and tracks which hashes a committed transaction's dirty
// rectangles touched.
package render

import "gridsheet/a1"

// Tile dimensions for the render hash grid. 15x30 is the value the source
// renderer (quadratic-rust-renderer) actually ships with.
const (
	CellSheetWidth  int64 = 15
	CellSheetHeight int64 = 30
)

// HashPadding is the base number of hashes loaded beyond the visible
// viewport, grounded on quadratic-rust-renderer/src/fills/mod.rs's
// HASH_PADDING constant.
const HashPadding int64 = 2

// MaxHashPadding caps the padding computed for very zoomed-out viewports,
// grounded on the same file's MAX_HASH_PADDING.
const MaxHashPadding int64 = 10

// HashCoord identifies one tile of the hash grid.
type HashCoord struct {
	X, Y int64
}

// PosToHash returns the hash tile containing pos.
func PosToHash(pos a1.Pos) HashCoord {
	return HashCoord{X: floorDiv(pos.X-1, CellSheetWidth), Y: floorDiv(pos.Y-1, CellSheetHeight)}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// HashesInRect returns every hash tile rect intersects, in row-major order.
func HashesInRect(rect a1.Rect) []HashCoord {
	min := PosToHash(rect.Min)
	max := PosToHash(rect.Max)
	var out []HashCoord
	for y := min.Y; y <= max.Y; y++ {
		for x := min.X; x <= max.X; x++ {
			out = append(out, HashCoord{X: x, Y: y})
		}
	}
	return out
}

// PaddingForZoom scales HashPadding as the viewport zooms out: zoom is the
// renderer's scale factor (1.0 == 100%); a smaller zoom sees more of the
// sheet at once and needs more preloaded hashes around the visible edge.
// Clamped to MaxHashPadding so an extreme zoom-out never schedules an
// unbounded number of packet loads.
func PaddingForZoom(zoom float64) int64 {
	if zoom <= 0 {
		return MaxHashPadding
	}
	padding := HashPadding
	if zoom < 1 {
		padding = int64(float64(HashPadding) / zoom)
	}
	if padding > MaxHashPadding {
		return MaxHashPadding
	}
	if padding < HashPadding {
		return HashPadding
	}
	return padding
}

// HashRect returns the cell rectangle one hash tile covers, the inverse of
// PosToHash. The renderer channel (wsserver) uses this to turn a dirty
// HashCoord back into the rect it re-pushes a Viewport for.
func HashRect(h HashCoord) a1.Rect {
	return a1.NewRect(
		h.X*CellSheetWidth+1, h.Y*CellSheetHeight+1,
		(h.X+1)*CellSheetWidth, (h.Y+1)*CellSheetHeight,
	)
}

// ExpandedViewport grows visible (a cell rectangle) by padding hashes in
// every direction, converted back to a cell rectangle.
func ExpandedViewport(visible a1.Rect, padding int64) a1.Rect {
	minHash := PosToHash(visible.Min)
	maxHash := PosToHash(visible.Max)
	minHash.X -= padding
	minHash.Y -= padding
	maxHash.X += padding
	maxHash.Y += padding
	return a1.NewRect(
		minHash.X*CellSheetWidth+1, minHash.Y*CellSheetHeight+1,
		(maxHash.X+1)*CellSheetWidth, (maxHash.Y+1)*CellSheetHeight,
	)
}
