package grid

import "gridsheet/a1"

// Intersects reports whether any non-default cell lies within rect.
func (g *Contiguous2D[T]) Intersects(rect a1.Rect) bool {
	for _, c := range g.cols {
		if c.end < rect.Min.X || c.start > rect.Max.X {
			continue
		}
		for _, b := range c.rows {
			if b.end >= rect.Min.Y && b.start <= rect.Max.Y {
				return true
			}
		}
	}
	return false
}

// IsAllDefaultInRect reports whether every cell in rect holds the default
// value.
func (g *Contiguous2D[T]) IsAllDefaultInRect(rect a1.Rect) bool {
	return !g.Intersects(rect)
}

// Bounds returns the smallest rectangle containing every finite
// non-default value, and false if there is none. Blocks that extend to
// infinity (a whole-row/column/sheet override) are skipped — they
// represent background, not discrete content, and package schema (the
// only caller) only needs the latter to enumerate cells worth persisting
// explicitly.
func (g *Contiguous2D[T]) Bounds() (a1.Rect, bool) {
	var minX, minY, maxX, maxY int64
	found := false
	for _, c := range g.cols {
		if c.end >= inf {
			continue
		}
		for _, b := range c.rows {
			if b.end >= inf {
				continue
			}
			if !found {
				minX, maxX, minY, maxY = c.start, c.end, b.start, b.end
				found = true
				continue
			}
			minX, maxX = minI(minX, c.start), maxI(maxX, c.end)
			minY, maxY = minI(minY, b.start), maxI(maxY, b.end)
		}
	}
	if !found {
		return a1.Rect{}, false
	}
	return a1.NewRect(minX, minY, maxX, maxY), true
}

// UniqueValuesInRect returns the set of distinct values (default excluded)
// appearing anywhere within rect.
func (g *Contiguous2D[T]) UniqueValuesInRect(rect a1.Rect) map[T]bool {
	out := map[T]bool{}
	for _, c := range g.cols {
		if c.end < rect.Min.X || c.start > rect.Max.X {
			continue
		}
		for _, b := range c.rows {
			if b.end >= rect.Min.Y && b.start <= rect.Max.Y {
				out[b.value] = true
			}
		}
	}
	return out
}

// ColMin returns the smallest row index holding non-default content in
// column c, or 0 if the column is entirely default.
func (g *Contiguous2D[T]) ColMin(c int64) int64 { return g.colExtreme(c, true) }

// ColMax returns the largest such row index, or 0.
func (g *Contiguous2D[T]) ColMax(c int64) int64 { return g.colExtreme(c, false) }

func (g *Contiguous2D[T]) colExtreme(x int64, wantMin bool) int64 {
	var best int64
	found := false
	for _, col := range g.cols {
		if col.end < x || col.start > x {
			continue
		}
		for _, b := range col.rows {
			if !found {
				if wantMin {
					best = b.start
				} else {
					best = b.end
				}
				found = true
				continue
			}
			if wantMin && b.start < best {
				best = b.start
			}
			if !wantMin && b.end > best {
				best = b.end
			}
		}
	}
	if !found {
		return 0
	}
	return best
}

// RowMin returns the smallest column index holding non-default content in
// row r, or 0 if the row is entirely default.
func (g *Contiguous2D[T]) RowMin(r int64) int64 { return g.rowExtreme(r, true) }

// RowMax returns the largest such column index, or 0.
func (g *Contiguous2D[T]) RowMax(r int64) int64 { return g.rowExtreme(r, false) }

func (g *Contiguous2D[T]) rowExtreme(y int64, wantMin bool) int64 {
	var best int64
	found := false
	for _, col := range g.cols {
		for _, b := range col.rows {
			if b.end < y || b.start > y {
				continue
			}
			if !found {
				if wantMin {
					best = col.start
				} else {
					best = col.end
				}
				found = true
				continue
			}
			if wantMin && col.start < best {
				best = col.start
			}
			if !wantMin && col.end > best {
				best = col.end
			}
		}
	}
	if !found {
		return 0
	}
	return best
}

// NondefaultRectsInRect iterates maximal constant-value sub-rectangles of
// non-default content intersecting rect, in row-major order. Maximality is
// column-run then row-run: a returned rectangle is the widest column-run
// possible in its first row extended down through as many following rows
// as share that exact column-run and value.
func (g *Contiguous2D[T]) NondefaultRectsInRect(rect a1.Rect) []struct {
	Rect  a1.Rect
	Value T
} {
	type cell struct {
		x, y  int64
		value T
	}
	// Materialize the (small, bounded) query rect cell-by-cell; this is the
	// simplest implementation that is obviously correct. Bounded-rect
	// queries are what the renderer and spill engine issue in practice, so
	// this stays well within the "amortized over RL blocks" contract for
	// realistic viewport and spill-check sizes.
	consumed := map[[2]int64]bool{}
	var out []struct {
		Rect  a1.Rect
		Value T
	}
	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		for x := rect.Min.X; x <= rect.Max.X; x++ {
			if consumed[[2]int64{x, y}] {
				continue
			}
			v := g.Get(a1.Pos{X: x, Y: y})
			if v == g.def {
				continue
			}
			// extend right
			xEnd := x
			for xEnd+1 <= rect.Max.X && !consumed[[2]int64{xEnd + 1, y}] && g.Get(a1.Pos{X: xEnd + 1, Y: y}) == v {
				xEnd++
			}
			// extend down while the whole [x,xEnd] row-run matches
			yEnd := y
		rowExtend:
			for yEnd+1 <= rect.Max.Y {
				for xx := x; xx <= xEnd; xx++ {
					if consumed[[2]int64{xx, yEnd + 1}] || g.Get(a1.Pos{X: xx, Y: yEnd + 1}) != v {
						break rowExtend
					}
				}
				yEnd++
			}
			for yy := y; yy <= yEnd; yy++ {
				for xx := x; xx <= xEnd; xx++ {
					consumed[[2]int64{xx, yy}] = true
				}
			}
			out = append(out, struct {
				Rect  a1.Rect
				Value T
			}{Rect: a1.NewRect(x, y, xEnd, yEnd), Value: v})
		}
	}
	return out
}
