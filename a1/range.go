package a1

// Coord is a single row or column coordinate carrying the relative/absolute
// flag used by formula addressing ($-prefixed). Selection semantics ignore
// Absolute entirely; it exists so a Coord round-trips through formula
// references without losing information.
type Coord struct {
	Value    int64
	Absolute bool
}

// CellRefRangeEnd is one endpoint of a RefRangeBounds. A nil Col or Row
// means "unbounded on that axis".
type CellRefRangeEnd struct {
	Col *Coord
	Row *Coord
}

// unboundedEnd is a fully unbounded endpoint (both axes nil).
func unboundedEnd() CellRefRangeEnd { return CellRefRangeEnd{} }

func cellEnd(col, row int64) CellRefRangeEnd {
	c, r := col, row
	return CellRefRangeEnd{Col: &Coord{Value: c}, Row: &Coord{Value: r}}
}

func colEnd(col int64) CellRefRangeEnd {
	return CellRefRangeEnd{Col: &Coord{Value: col}}
}

func rowEnd(row int64) CellRefRangeEnd {
	return CellRefRangeEnd{Row: &Coord{Value: row}}
}

func (e CellRefRangeEnd) isUnbounded() bool { return e.Col == nil && e.Row == nil }

func (e CellRefRangeEnd) equal(o CellRefRangeEnd) bool {
	return coordEqual(e.Col, o.Col) && coordEqual(e.Row, o.Row)
}

func coordEqual(a, b *Coord) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return a.Value == b.Value
}

func (e CellRefRangeEnd) clone() CellRefRangeEnd {
	out := CellRefRangeEnd{}
	if e.Col != nil {
		c := *e.Col
		out.Col = &c
	}
	if e.Row != nil {
		r := *e.Row
		out.Row = &r
	}
	return out
}

// RefRangeBounds is the core range type: a pair of endpoints, each of which
// may be unbounded on either axis independently. See spec.md §3 for the
// full invariant list.
type RefRangeBounds struct {
	Start CellRefRangeEnd
	End   CellRefRangeEnd
}

// ALL is the sentinel selection meaning "the whole sheet".
var ALL = RefRangeBounds{Start: unboundedEnd(), End: unboundedEnd()}

// SingleCell returns the range consisting of exactly the one cell p.
func SingleCell(p Pos) RefRangeBounds {
	e := cellEnd(p.X, p.Y)
	return RefRangeBounds{Start: e, End: e}
}

// NewFiniteRange builds a rectangular range between two fully-specified
// corners. Endpoints are stored exactly as given (not reordered); ordering
// is resolved lazily by consumers that need a Rect.
func NewFiniteRange(x1, y1, x2, y2 int64) RefRangeBounds {
	start := cellEnd(x1, y1)
	end := cellEnd(x2, y2)
	if start.equal(end) {
		return RefRangeBounds{Start: start, End: start}
	}
	return RefRangeBounds{Start: start, End: end}
}

// ColumnRange returns the range spanning columns [c1,c2] (order preserved),
// unbounded in the row axis.
func ColumnRange(c1, c2 int64) RefRangeBounds {
	if c1 == c2 {
		e := colEnd(c1)
		return RefRangeBounds{Start: e, End: e}
	}
	return RefRangeBounds{Start: colEnd(c1), End: colEnd(c2)}
}

// RowRange returns the range spanning rows [r1,r2] (order preserved),
// unbounded in the column axis.
func RowRange(r1, r2 int64) RefRangeBounds {
	if r1 == r2 {
		e := rowEnd(r1)
		return RefRangeBounds{Start: e, End: e}
	}
	return RefRangeBounds{Start: rowEnd(r1), End: rowEnd(r2)}
}

// IsValid reports whether the range could be represented by a nonempty
// selection string: start has at least one bounded component, or end
// differs from start.
func (r RefRangeBounds) IsValid() bool {
	if r.Start.Col != nil || r.Start.Row != nil {
		return true
	}
	return !r.End.isUnbounded() && !r.End.equal(r.Start)
}

// IsAll reports whether r is the ALL sentinel.
func (r RefRangeBounds) IsAll() bool {
	return r.Start.isUnbounded() && r.End.isUnbounded()
}

// IsSingleCell reports whether r addresses exactly one cell.
func (r RefRangeBounds) IsSingleCell() bool {
	return r.Start.Col != nil && r.Start.Row != nil && r.End.equal(r.Start)
}

// IsColumnOnly reports whether both endpoints leave the row axis unbounded.
func (r RefRangeBounds) IsColumnOnly() bool {
	return r.Start.Row == nil && r.End.Row == nil && (r.Start.Col != nil || r.End.Col != nil)
}

// IsRowOnly reports whether both endpoints leave the column axis unbounded.
func (r RefRangeBounds) IsRowOnly() bool {
	return r.Start.Col == nil && r.End.Col == nil && (r.Start.Row != nil || r.End.Row != nil)
}

// IsFinite reports whether both axes are bounded on both endpoints.
func (r RefRangeBounds) IsFinite() bool {
	return r.Start.Col != nil && r.Start.Row != nil && r.End.Col != nil && r.End.Row != nil
}

// ToRect returns the bounding rectangle of a finite range. Ok is false if
// the range is not finite.
func (r RefRangeBounds) ToRect() (Rect, bool) {
	if !r.IsFinite() {
		return Rect{}, false
	}
	return NewRect(r.Start.Col.Value, r.Start.Row.Value, r.End.Col.Value, r.End.Row.Value), true
}

// MightContainPos treats unbounded axes as matching anything: it is the
// cheap, data-bounds-agnostic containment check.
func (r RefRangeBounds) MightContainPos(p Pos) bool {
	if r.IsAll() {
		return true
	}
	colOK := axisContains(r.Start.Col, r.End.Col, p.X)
	rowOK := axisContains(r.Start.Row, r.End.Row, p.Y)
	return colOK && rowOK
}

// ContainsPos checks explicit bounds; unbounded axes still match (there is
// no finite bound to violate), but this is the full rectangular-closure
// containment check used once both axes are resolved.
func (r RefRangeBounds) ContainsPos(p Pos) bool {
	return r.MightContainPos(p)
}

func axisContains(start, end *Coord, v int64) bool {
	switch {
	case start == nil && end == nil:
		return true
	case start != nil && end != nil:
		lo, hi := start.Value, end.Value
		if lo > hi {
			lo, hi = hi, lo
		}
		return v >= lo && v <= hi
	case start != nil:
		return start.Value == v
	default:
		return end.Value == v
	}
}

func (r RefRangeBounds) clone() RefRangeBounds {
	return RefRangeBounds{Start: r.Start.clone(), End: r.End.clone()}
}

// Intersect produces the largest range contained in both r and other, or
// false if they are disjoint. See spec.md §4.1 for the case breakdown this
// implements: single-cell fast paths, rect∩rect, rect vs column/row, and
// finally column∩row (which yields the rectangle where the column span and
// the row span cross; a single cell when both are one line wide).
func (r RefRangeBounds) Intersect(other RefRangeBounds) (RefRangeBounds, bool) {
	if r.IsAll() {
		return other, true
	}
	if other.IsAll() {
		return r, true
	}

	rRect, rFinite := r.ToRect()
	oRect, oFinite := other.ToRect()

	switch {
	case rFinite && oFinite:
		rect, ok := rRect.Intersection(oRect)
		if !ok {
			return RefRangeBounds{}, false
		}
		return rectToRange(rect), true

	case rFinite && other.IsColumnOnly():
		return intersectRectAxis(rRect, other, true)
	case rFinite && other.IsRowOnly():
		return intersectRectAxis(rRect, other, false)
	case oFinite && r.IsColumnOnly():
		return intersectRectAxis(oRect, r, true)
	case oFinite && r.IsRowOnly():
		return intersectRectAxis(oRect, r, false)

	case r.IsColumnOnly() && other.IsColumnOnly():
		return intersectSpans(r, other, true)
	case r.IsRowOnly() && other.IsRowOnly():
		return intersectSpans(r, other, false)

	case r.IsColumnOnly() && other.IsRowOnly():
		return intersectColRow(r, other)
	case r.IsRowOnly() && other.IsColumnOnly():
		return intersectColRow(other, r)
	}
	return RefRangeBounds{}, false
}

func rectToRange(rect Rect) RefRangeBounds {
	return NewFiniteRange(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y)
}

// intersectRectAxis intersects a finite rectangle against a column-only (if
// col==true) or row-only range by clipping on that single axis.
func intersectRectAxis(rect Rect, axisRange RefRangeBounds, col bool) (RefRangeBounds, bool) {
	lo, hi, ok := axisSpan(axisRange, col)
	if !ok {
		return RefRangeBounds{}, false
	}
	if col {
		minX, maxX := max64(rect.Min.X, lo), min64(rect.Max.X, hi)
		if minX > maxX {
			return RefRangeBounds{}, false
		}
		return rectToRange(NewRect(minX, rect.Min.Y, maxX, rect.Max.Y)), true
	}
	minY, maxY := max64(rect.Min.Y, lo), min64(rect.Max.Y, hi)
	if minY > maxY {
		return RefRangeBounds{}, false
	}
	return rectToRange(NewRect(rect.Min.X, minY, rect.Max.X, maxY)), true
}

// axisSpan returns the [lo,hi] span of a column-only or row-only range. If
// the range is unbounded on that axis it returns ok=false (caller should
// treat it as unconstrained, which never happens for column-only/row-only
// ranges by construction).
func axisSpan(r RefRangeBounds, col bool) (lo, hi int64, ok bool) {
	var s, e *Coord
	if col {
		s, e = r.Start.Col, r.End.Col
	} else {
		s, e = r.Start.Row, r.End.Row
	}
	switch {
	case s != nil && e != nil:
		lo, hi = s.Value, e.Value
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo, hi, true
	case s != nil:
		return s.Value, s.Value, true
	case e != nil:
		return e.Value, e.Value, true
	default:
		return 0, 0, false
	}
}

func intersectSpans(a, b RefRangeBounds, col bool) (RefRangeBounds, bool) {
	aLo, aHi, _ := axisSpan(a, col)
	bLo, bHi, _ := axisSpan(b, col)
	lo, hi := max64(aLo, bLo), min64(aHi, bHi)
	if lo > hi {
		return RefRangeBounds{}, false
	}
	if col {
		return ColumnRange(lo, hi), true
	}
	return RowRange(lo, hi), true
}

func intersectColRow(colRange, rowRange RefRangeBounds) (RefRangeBounds, bool) {
	cLo, cHi, _ := axisSpan(colRange, true)
	rLo, rHi, _ := axisSpan(rowRange, false)
	if cLo != cHi || rLo != rHi {
		// A multi-column or multi-row span crossed against the other axis
		// yields a rectangle, not a single cell.
		return rectToRange(NewRect(cLo, rLo, cHi, rHi)), true
	}
	return SingleCell(Pos{X: cLo, Y: rLo}), true
}
