package sheet

import "gridsheet/grid"

// BorderStyle is one edge's line style, timestamped so that the same
// logical edge set from both neighboring cells can be deduplicated at
// render time by keeping the newer write (spec.md §3 BordersA1).
type BorderStyle struct {
	Color     string
	Line      string
	Timestamp int64
}

// BordersA1 stores the four edges of every cell as independent sparse
// layers, matching spec.md §3's description exactly rather than folding
// them into a single per-cell struct: most edges are unset, and keeping
// them separate lets a horizontal border run merge independently from a
// vertical one in the render cache (spec.md §4.6).
type BordersA1 struct {
	Left   *grid.Contiguous2D[*BorderStyle]
	Right  *grid.Contiguous2D[*BorderStyle]
	Top    *grid.Contiguous2D[*BorderStyle]
	Bottom *grid.Contiguous2D[*BorderStyle]
}

// NewBordersA1 returns an empty border set.
func NewBordersA1() BordersA1 {
	return BordersA1{
		Left:   grid.New[*BorderStyle](nil),
		Right:  grid.New[*BorderStyle](nil),
		Top:    grid.New[*BorderStyle](nil),
		Bottom: grid.New[*BorderStyle](nil),
	}
}
