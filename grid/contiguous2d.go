// Package grid implements Contiguous2D, a sparse map from every (possibly
// unbounded) 2D cell coordinate to a value, backed by run-length-encoded
// column and row blocks rather than a per-cell map. See spec.md §4.2.
package grid

import (
	"math"
	"sort"

	"gridsheet/a1"
)

// inf stands in for "unbounded" in internal arithmetic. Real sheets never
// approach it, so treating it as a very large finite bound keeps every
// comparison simple without a separate infinite/finite branch at each site.
const inf = math.MaxInt64 / 4

// block is one run of consecutive row (or column) coordinates sharing the
// same value. end is inclusive; end == inf means "extends to infinity".
type block[T comparable] struct {
	start int64
	end   int64
	value T
}

func (b block[T]) contains(pos int64) bool { return pos >= b.start && pos <= b.end }

// col holds the row-run blocks for a run of one or more columns that all
// currently carry identical row content.
type col[T comparable] struct {
	start int64
	end   int64 // inf means unbounded
	rows  []block[T]
}

func (c col[T]) contains(x int64) bool { return x >= c.start && x <= c.end }

// Contiguous2D is a dense-over-sparse 2D map with a distinguished default
// value. Column blocks are kept sorted and non-overlapping; within a column
// block, row blocks are sorted and non-overlapping. Adjacent blocks on
// either axis never share a value (the invariant spec.md §8 requires).
type Contiguous2D[T comparable] struct {
	def  T
	cols []col[T]
}

// New returns an empty Contiguous2D whose default value is def.
func New[T comparable](def T) *Contiguous2D[T] {
	return &Contiguous2D[T]{def: def}
}

// Default returns the map's default value.
func (g *Contiguous2D[T]) Default() T { return g.def }

// Get returns the value at pos, or the default if unmapped.
func (g *Contiguous2D[T]) Get(pos a1.Pos) T {
	ci := findCol(g.cols, pos.X)
	if ci < 0 {
		return g.def
	}
	ri := findBlock(g.cols[ci].rows, pos.Y)
	if ri < 0 {
		return g.def
	}
	return g.cols[ci].rows[ri].value
}

func findCol[T comparable](cols []col[T], x int64) int {
	i := sort.Search(len(cols), func(i int) bool { return cols[i].start > x }) - 1
	if i < 0 || i >= len(cols) || !cols[i].contains(x) {
		return -1
	}
	return i
}

func findBlock[T comparable](rows []block[T], y int64) int {
	i := sort.Search(len(rows), func(i int) bool { return rows[i].start > y }) - 1
	if i < 0 || i >= len(rows) || !rows[i].contains(y) {
		return -1
	}
	return i
}

// Set sets a single point.
func (g *Contiguous2D[T]) Set(pos a1.Pos, value T) {
	x2, y2 := pos.X, pos.Y
	g.SetRect(pos.X, pos.Y, &x2, &y2, value)
}

// SetRect sets every cell in [x1,x2]x[y1,y2] to value. A nil x2 or y2 means
// "to infinity" on that axis.
func (g *Contiguous2D[T]) SetRect(x1, y1 int64, x2, y2 *int64, value T) {
	xEnd, yEnd := int64(inf), int64(inf)
	if x2 != nil {
		xEnd = *x2
	}
	if y2 != nil {
		yEnd = *y2
	}
	if xEnd < x1 || yEnd < y1 {
		return
	}

	rebuilt := make([]col[T], 0, len(g.cols)+2)
	// Columns entirely to the left of the band pass through untouched.
	for _, c := range g.cols {
		if c.end < x1 {
			rebuilt = append(rebuilt, c)
		}
	}

	// Walk the band [x1,xEnd] left to right, alternating between existing
	// column content (updated in place) and synthetic gaps (default
	// content, i.e. no prior block).
	cursor := x1
	for _, c := range g.cols {
		if c.end < x1 || c.start > xEnd {
			continue
		}
		segStart, segEnd := maxI(c.start, x1), minI(c.end, xEnd)
		// The parts of a straddling column block outside the band keep
		// their rows unchanged.
		if c.start < x1 {
			rebuilt = append(rebuilt, col[T]{start: c.start, end: x1 - 1, rows: c.rows})
		}
		if c.end > xEnd {
			rebuilt = append(rebuilt, col[T]{start: xEnd + 1, end: c.end, rows: c.rows})
		}
		if segStart > cursor {
			rebuilt = append(rebuilt, col[T]{
				start: cursor, end: segStart - 1,
				rows: setRowRange(nil, y1, yEnd, g.def, value),
			})
		}
		rebuilt = append(rebuilt, col[T]{
			start: segStart, end: segEnd,
			rows: setRowRange(c.rows, y1, yEnd, g.def, value),
		})
		cursor = segEnd + 1
	}
	if cursor <= xEnd {
		rebuilt = append(rebuilt, col[T]{
			start: cursor, end: xEnd,
			rows: setRowRange(nil, y1, yEnd, g.def, value),
		})
	}

	// Columns entirely to the right of the band pass through untouched.
	for _, c := range g.cols {
		if c.start > xEnd {
			rebuilt = append(rebuilt, c)
		}
	}

	sort.Slice(rebuilt, func(i, j int) bool { return rebuilt[i].start < rebuilt[j].start })
	g.cols = mergeCols(dropEmptyCols(rebuilt))
}

// setRowRange returns a copy of rows with [y1,yEnd] set to value (removing
// blocks where the result equals def), merged with adjacent equal blocks.
func setRowRange[T comparable](rows []block[T], y1, yEnd int64, def, value T) []block[T] {
	out := make([]block[T], 0, len(rows)+2)
	for _, b := range rows {
		if b.end < y1 || b.start > yEnd {
			out = append(out, b)
			continue
		}
		if b.start < y1 {
			out = append(out, block[T]{start: b.start, end: y1 - 1, value: b.value})
		}
		if b.end > yEnd {
			out = append(out, block[T]{start: yEnd + 1, end: b.end, value: b.value})
		}
	}
	if value != def {
		out = append(out, block[T]{start: y1, end: yEnd, value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return mergeBlocks(out)
}

func mergeBlocks[T comparable](rows []block[T]) []block[T] {
	var out []block[T]
	for _, b := range rows {
		if n := len(out); n > 0 && out[n-1].value == b.value && out[n-1].end+1 == b.start {
			out[n-1].end = b.end
			continue
		}
		out = append(out, b)
	}
	return out
}

func mergeCols[T comparable](cols []col[T]) []col[T] {
	var out []col[T]
	for _, c := range cols {
		if n := len(out); n > 0 && out[n-1].end+1 == c.start && sameRows(out[n-1].rows, c.rows) {
			out[n-1].end = c.end
			continue
		}
		out = append(out, c)
	}
	return out
}

func dropEmptyCols[T comparable](cols []col[T]) []col[T] {
	out := cols[:0:0]
	for _, c := range cols {
		if len(c.rows) == 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}

func sameRows[T comparable](a, b []block[T]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func maxI(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minI(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
