package grid

import "gridsheet/a1"

// CopyFormats controls what content the newly exposed line inherits when a
// row or column is inserted.
type CopyFormats int

const (
	CopyFormatsNone CopyFormats = iota
	CopyFormatsBefore
	CopyFormatsAfter
)

// LineUpdate is an opaque snapshot of a removed line's content, sufficient
// to reinstate it via Restore.
type LineUpdate[T comparable] struct {
	blocks []col[T]
	isCol  bool
}

// InsertColumn shifts all content with x >= c right by one and, per
// policy, duplicates the adjacent column's content into the newly exposed
// column c.
func (g *Contiguous2D[T]) InsertColumn(c int64, policy CopyFormats) {
	g.cols = shiftCols(g.cols, c, 1)
	g.applyCopyPolicyColumn(c, policy)
}

// RemoveColumn removes column c, shifting all content with x > c left by
// one, and returns a snapshot of what was at c (for undo).
func (g *Contiguous2D[T]) RemoveColumn(c int64) LineUpdate[T] {
	removed := g.extractColumn(c)
	g.SetRect(c, 1, &c, nil, g.def)
	g.cols = shiftCols(g.cols, c+1, -1)
	return LineUpdate[T]{blocks: removed, isCol: true}
}

// InsertRow shifts all content with y >= r down by one and, per policy,
// duplicates the adjacent row's content into the newly exposed row r.
func (g *Contiguous2D[T]) InsertRow(r int64, policy CopyFormats) {
	for i := range g.cols {
		g.cols[i].rows = shiftBlocks(g.cols[i].rows, r, 1)
	}
	g.mergeAfterShift()
	g.applyCopyPolicyRow(r, policy)
}

// RemoveRow removes row r, shifting all content with y > r up by one, and
// returns a snapshot of what was at r.
func (g *Contiguous2D[T]) RemoveRow(r int64) LineUpdate[T] {
	removed := g.extractRow(r)
	g.SetRect(1, r, nil, &r, g.def)
	for i := range g.cols {
		g.cols[i].rows = shiftBlocks(g.cols[i].rows, r+1, -1)
	}
	g.mergeAfterShift()
	return LineUpdate[T]{blocks: removed, isCol: false}
}

// Restore reinstates a LineUpdate snapshot at the given line, used by undo
// of an insert/remove.
func (g *Contiguous2D[T]) Restore(line int64, u LineUpdate[T]) {
	for _, c := range u.blocks {
		for _, b := range c.rows {
			if u.isCol {
				x1, y1 := line, b.start
				var x2p, y2p *int64
				x2, y2 := line, b.end
				x2p, y2p = &x2, &y2
				g.SetRect(x1, y1, x2p, y2p, b.value)
			} else {
				x1, y1 := c.start, line
				x2, y2 := c.end, line
				g.SetRect(x1, y1, &x2, &y2, b.value)
			}
		}
	}
}

func shiftCols[T comparable](cols []col[T], from int64, delta int64) []col[T] {
	out := make([]col[T], 0, len(cols))
	for _, c := range cols {
		switch {
		case c.end < from:
			out = append(out, c)
		case c.start >= from:
			c.start += delta
			if c.end != inf {
				c.end += delta
			}
			out = append(out, c)
		default:
			// straddles the boundary: split
			left := c
			left.end = from - 1
			out = append(out, left)
			right := c
			right.start = from + delta
			if c.end != inf {
				right.end = c.end + delta
			}
			out = append(out, right)
		}
	}
	return mergeCols(out)
}

func shiftBlocks[T comparable](rows []block[T], from int64, delta int64) []block[T] {
	out := make([]block[T], 0, len(rows))
	for _, b := range rows {
		switch {
		case b.end < from:
			out = append(out, b)
		case b.start >= from:
			b.start += delta
			if b.end != inf {
				b.end += delta
			}
			out = append(out, b)
		default:
			left := b
			left.end = from - 1
			out = append(out, left)
			right := b
			right.start = from + delta
			if b.end != inf {
				right.end = b.end + delta
			}
			out = append(out, right)
		}
	}
	return mergeBlocks(out)
}

func (g *Contiguous2D[T]) mergeAfterShift() {
	g.cols = mergeCols(dropEmptyCols(g.cols))
}

func (g *Contiguous2D[T]) extractColumn(c int64) []col[T] {
	var out []col[T]
	for _, cc := range g.cols {
		if c < cc.start || c > cc.end {
			continue
		}
		out = append(out, col[T]{start: c, end: c, rows: cc.rows})
	}
	return out
}

func (g *Contiguous2D[T]) extractRow(r int64) []col[T] {
	var out []col[T]
	for _, c := range g.cols {
		for _, b := range c.rows {
			if r < b.start || r > b.end {
				continue
			}
			out = append(out, col[T]{start: c.start, end: c.end, rows: []block[T]{{start: r, end: r, value: b.value}}})
		}
	}
	return out
}

func (g *Contiguous2D[T]) applyCopyPolicyColumn(c int64, policy CopyFormats) {
	if policy == CopyFormatsNone {
		return
	}
	src := c - 1
	if policy == CopyFormatsAfter {
		src = c + 1
	}
	if src < 1 {
		return
	}
	for y := g.ColMin(src); y != 0 && y <= g.ColMax(src); {
		v := g.Get(a1.Pos{X: src, Y: y})
		yEnd := y
		for yEnd+1 <= g.ColMax(src) && g.Get(a1.Pos{X: src, Y: yEnd + 1}) == v {
			yEnd++
		}
		if v != g.def {
			x2, y2 := c, yEnd
			g.SetRect(c, y, &x2, &y2, v)
		}
		y = yEnd + 1
	}
}

func (g *Contiguous2D[T]) applyCopyPolicyRow(r int64, policy CopyFormats) {
	if policy == CopyFormatsNone {
		return
	}
	src := r - 1
	if policy == CopyFormatsAfter {
		src = r + 1
	}
	if src < 1 {
		return
	}
	for x := g.RowMin(src); x != 0 && x <= g.RowMax(src); {
		v := g.Get(a1.Pos{X: x, Y: src})
		xEnd := x
		for xEnd+1 <= g.RowMax(src) && g.Get(a1.Pos{X: xEnd + 1, Y: src}) == v {
			xEnd++
		}
		if v != g.def {
			x2, y2 := xEnd, r
			g.SetRect(x, r, &x2, &y2, v)
		}
		x = xEnd + 1
	}
}
