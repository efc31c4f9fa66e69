package a1

// SheetID identifies a sheet. Kept as a string (rather than an integer
// index) so selections survive sheet reordering.
type SheetID string

// CellRefRange is sum-typed so that future table- or name-based ranges can
// be added without touching every caller that pattern-matches on it today.
// The only variant implemented is SheetRange.
type CellRefRange struct {
	SheetRange RefRangeBounds
}

func SheetCellRange(r RefRangeBounds) CellRefRange { return CellRefRange{SheetRange: r} }

// A1Selection is a cursor plus zero or more ranges on one sheet.
type A1Selection struct {
	SheetID SheetID
	Cursor  Pos
	Ranges  []CellRefRange
}

// ParseSelection parses a full selection string ("A1:C3,E1:G3") into an
// A1Selection anchored at the given sheet. The cursor defaults to the
// top-left corner of the first range, or (1,1) if the selection is empty.
func ParseSelection(sheet SheetID, s string) (A1Selection, error) {
	ranges, err := ParseSelectionRanges(s)
	if err != nil {
		return A1Selection{}, err
	}
	sel := A1Selection{SheetID: sheet, Cursor: Pos{X: 1, Y: 1}}
	for _, r := range ranges {
		sel.Ranges = append(sel.Ranges, SheetCellRange(r))
	}
	if len(ranges) > 0 {
		if rect, ok := ranges[0].ToRect(); ok {
			sel.Cursor = rect.Min
		} else if ranges[0].Start.Col != nil || ranges[0].Start.Row != nil {
			sel.Cursor = Pos{X: coordOr(ranges[0].Start.Col, 1), Y: coordOr(ranges[0].Start.Row, 1)}
		}
	}
	return sel, nil
}

func coordOr(c *Coord, def int64) int64 {
	if c == nil {
		return def
	}
	return c.Value
}

// String renders the selection's ranges as a comma-separated A1 string
// (the cursor and sheet id are not part of the textual grammar).
func (s A1Selection) String() string {
	rs := make([]RefRangeBounds, len(s.Ranges))
	for i, r := range s.Ranges {
		rs[i] = r.SheetRange
	}
	return FormatRanges(rs)
}

func (s A1Selection) clone() A1Selection {
	out := A1Selection{SheetID: s.SheetID, Cursor: s.Cursor}
	out.Ranges = make([]CellRefRange, len(s.Ranges))
	for i, r := range s.Ranges {
		out.Ranges[i] = CellRefRange{SheetRange: r.SheetRange.clone()}
	}
	return out
}

// Equal reports byte-for-byte equivalent selections, used by the §8
// "no-op mutation leaves the selection untouched" invariant.
func (s A1Selection) Equal(o A1Selection) bool {
	if s.SheetID != o.SheetID || s.Cursor != o.Cursor || len(s.Ranges) != len(o.Ranges) {
		return false
	}
	for i := range s.Ranges {
		a, b := s.Ranges[i].SheetRange, o.Ranges[i].SheetRange
		if !a.Start.equal(b.Start) || !a.End.equal(b.End) {
			return false
		}
	}
	return true
}

// IsSingleSelection reports whether the selection is exactly one range.
func (s A1Selection) IsSingleSelection() bool { return len(s.Ranges) == 1 }

// IsMultiCursor reports a multi-cell selection: either a single range
// spanning more than one cell, or more than one range.
func (s A1Selection) IsMultiCursor() bool {
	if len(s.Ranges) > 1 {
		return true
	}
	if len(s.Ranges) == 1 {
		r := s.Ranges[0].SheetRange
		return !r.IsSingleCell()
	}
	return false
}

// IsAllSelected reports whether any range in the selection is the ALL
// sentinel.
func (s A1Selection) IsAllSelected() bool {
	for _, r := range s.Ranges {
		if r.SheetRange.IsAll() {
			return true
		}
	}
	return false
}

// HasOneColumnRowSelection reports whether the selection is exactly one
// column-only or row-only range (or, if oneCell is true, exactly one
// single-cell range).
func (s A1Selection) HasOneColumnRowSelection(oneCell bool) bool {
	if len(s.Ranges) != 1 {
		return false
	}
	r := s.Ranges[0].SheetRange
	if oneCell {
		return r.IsSingleCell()
	}
	return r.IsColumnOnly() || r.IsRowOnly()
}

// MightContainPos reports whether any range in the selection might contain
// p (unbounded axes count as matching).
func (s A1Selection) MightContainPos(p Pos) bool {
	for _, r := range s.Ranges {
		if r.SheetRange.MightContainPos(p) {
			return true
		}
	}
	return false
}

// ContainsPos reports whether any range in the selection explicitly
// contains p.
func (s A1Selection) ContainsPos(p Pos) bool {
	for _, r := range s.Ranges {
		if r.SheetRange.ContainsPos(p) {
			return true
		}
	}
	return false
}

// LargestRectFinite returns the bounding rectangle of the finite ranges in
// the selection, unioned with the cursor. Ranges unbounded on an axis are
// excluded from the union on that axis (they contribute nothing, since
// they have no finite extent to report).
func (s A1Selection) LargestRectFinite() Rect {
	rect := Rect{Min: s.Cursor, Max: s.Cursor}
	any := false
	for _, r := range s.Ranges {
		rr, ok := r.SheetRange.ToRect()
		if !ok {
			continue
		}
		if !any {
			rect = rr
			any = true
			continue
		}
		rect = rect.Union(rr)
	}
	if !any {
		return rect
	}
	return rect.Union(Rect{Min: s.Cursor, Max: s.Cursor})
}

// SelectedColumnsFinite enumerates the finite column coordinates the
// selection covers; it is empty iff the selection is unbounded in the
// column axis.
func (s A1Selection) SelectedColumnsFinite() []int64 {
	seen := map[int64]bool{}
	var out []int64
	for _, r := range s.Ranges {
		sr := r.SheetRange
		if !sr.IsFinite() && !sr.IsColumnOnly() {
			continue
		}
		lo, hi, ok := axisSpan(sr, true)
		if !ok {
			continue
		}
		for c := lo; c <= hi; c++ {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	sortInt64s(out)
	return out
}

// SelectedRowsFinite enumerates the finite row coordinates the selection
// covers; it is empty iff the selection is unbounded in the row axis.
func (s A1Selection) SelectedRowsFinite() []int64 {
	seen := map[int64]bool{}
	var out []int64
	for _, r := range s.Ranges {
		sr := r.SheetRange
		if !sr.IsFinite() && !sr.IsRowOnly() {
			continue
		}
		lo, hi, ok := axisSpan(sr, false)
		if !ok {
			continue
		}
		for row := lo; row <= hi; row++ {
			if !seen[row] {
				seen[row] = true
				out = append(out, row)
			}
		}
	}
	sortInt64s(out)
	return out
}

// SelectedColumns clips unbounded column ranges to [from,to] and returns
// the ascending union of covered columns.
func (s A1Selection) SelectedColumns(from, to int64) []int64 {
	seen := map[int64]bool{}
	var out []int64
	for _, r := range s.Ranges {
		sr := r.SheetRange
		lo, hi := from, to
		if sr.Start.Col != nil || sr.End.Col != nil {
			l, h, ok := axisSpan(sr, true)
			if ok {
				lo, hi = max64(from, l), min64(to, h)
			}
		} else if !sr.IsRowOnly() && !sr.IsAll() {
			continue
		}
		for c := lo; c <= hi; c++ {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	sortInt64s(out)
	return out
}

// SelectedRows clips unbounded row ranges to [from,to] and returns the
// ascending union of covered rows.
func (s A1Selection) SelectedRows(from, to int64) []int64 {
	seen := map[int64]bool{}
	var out []int64
	for _, r := range s.Ranges {
		sr := r.SheetRange
		lo, hi := from, to
		if sr.Start.Row != nil || sr.End.Row != nil {
			l, h, ok := axisSpan(sr, false)
			if ok {
				lo, hi = max64(from, l), min64(to, h)
			}
		} else if !sr.IsColumnOnly() && !sr.IsAll() {
			continue
		}
		for row := lo; row <= hi; row++ {
			if !seen[row] {
				seen[row] = true
				out = append(out, row)
			}
		}
	}
	sortInt64s(out)
	return out
}

func sortInt64s(s []int64) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// --- Mutation operations ---

// RemovedColumn removes column c: a range covering only that column is
// dropped; other ranges have endpoints greater than c shifted down by one.
// The cursor shifts identically. Returns true iff anything changed.
func (s *A1Selection) RemovedColumn(c int64) bool {
	return s.removedLine(c, true)
}

// RemovedRow removes row r with the same semantics as RemovedColumn.
func (s *A1Selection) RemovedRow(r int64) bool {
	return s.removedLine(r, false)
}

func (s *A1Selection) removedLine(line int64, col bool) bool {
	changed := false
	kept := s.Ranges[:0:0]
	for _, cr := range s.Ranges {
		sr := cr.SheetRange
		if coversOnlyLine(sr, line, col) {
			changed = true
			continue
		}
		newRange, didChange := shiftDown(sr, line, col)
		if didChange {
			changed = true
		}
		kept = append(kept, CellRefRange{SheetRange: newRange})
	}
	s.Ranges = kept
	if shiftCursorPastLine(&s.Cursor, line, col, -1) {
		changed = true
	}
	return changed
}

func coversOnlyLine(sr RefRangeBounds, line int64, col bool) bool {
	if col && sr.IsColumnOnly() {
		lo, hi, _ := axisSpan(sr, true)
		return lo == line && hi == line
	}
	if !col && sr.IsRowOnly() {
		lo, hi, _ := axisSpan(sr, false)
		return lo == line && hi == line
	}
	if sr.IsSingleCell() {
		if col {
			return sr.Start.Col.Value == line
		}
		return sr.Start.Row.Value == line
	}
	// A finite range one line wide on this axis, e.g. B1:B3 for column 2.
	s, e := sr.Start.Row, sr.End.Row
	if col {
		s, e = sr.Start.Col, sr.End.Col
	}
	return s != nil && e != nil && s.Value == line && e.Value == line
}

// shiftDown shifts any endpoint component strictly greater than line down
// by one (a deletion at line).
func shiftDown(sr RefRangeBounds, line int64, col bool) (RefRangeBounds, bool) {
	changed := false
	start := sr.Start.clone()
	end := sr.End.clone()
	if shiftCoordPastLine(coordFor(&start, col), line, -1) {
		changed = true
	}
	if shiftCoordPastLine(coordFor(&end, col), line, -1) {
		changed = true
	}
	return RefRangeBounds{Start: start, End: end}, changed
}

func coordFor(e *CellRefRangeEnd, col bool) **Coord {
	if col {
		return &e.Col
	}
	return &e.Row
}

func shiftCoordPastLine(c **Coord, line int64, delta int64) bool {
	if *c == nil {
		return false
	}
	if (*c).Value > line {
		(*c).Value += delta
		return true
	}
	return false
}

func shiftCursorPastLine(p *Pos, line int64, col bool, delta int64) bool {
	if col {
		if p.X > line {
			p.X += delta
			if p.X < 1 {
				p.X = 1
			}
			return true
		}
		return false
	}
	if p.Y > line {
		p.Y += delta
		if p.Y < 1 {
			p.Y = 1
		}
		return true
	}
	return false
}

// InsertedColumn shifts endpoints >= c up by one (an insertion at c).
// Returns true iff any endpoint or the cursor moved.
func (s *A1Selection) InsertedColumn(c int64) bool {
	return s.insertedLine(c, true)
}

// InsertedRow shifts endpoints >= r up by one.
func (s *A1Selection) InsertedRow(r int64) bool {
	return s.insertedLine(r, false)
}

func (s *A1Selection) insertedLine(line int64, col bool) bool {
	changed := false
	for i, cr := range s.Ranges {
		sr := cr.SheetRange
		start := sr.Start.clone()
		end := sr.End.clone()
		if shiftCoordAtOrAfter(coordFor(&start, col), line, 1) {
			changed = true
		}
		if shiftCoordAtOrAfter(coordFor(&end, col), line, 1) {
			changed = true
		}
		s.Ranges[i] = CellRefRange{SheetRange: RefRangeBounds{Start: start, End: end}}
	}
	if col {
		if s.Cursor.X >= line {
			s.Cursor.X++
			changed = true
		}
	} else {
		if s.Cursor.Y >= line {
			s.Cursor.Y++
			changed = true
		}
	}
	return changed
}

func shiftCoordAtOrAfter(c **Coord, line int64, delta int64) bool {
	if *c == nil {
		return false
	}
	if (*c).Value >= line {
		(*c).Value += delta
		return true
	}
	return false
}

// TranslateInPlace adds (dx,dy) to every endpoint and the cursor, clamping
// each axis to a minimum of 1.
func (s *A1Selection) TranslateInPlace(dx, dy int64) {
	for i, cr := range s.Ranges {
		sr := cr.SheetRange
		s.Ranges[i] = CellRefRange{SheetRange: RefRangeBounds{
			Start: translateEnd(sr.Start, dx, dy),
			End:   translateEnd(sr.End, dx, dy),
		}}
	}
	s.Cursor = s.Cursor.Translate(dx, dy)
}

func translateEnd(e CellRefRangeEnd, dx, dy int64) CellRefRangeEnd {
	out := e.clone()
	if out.Col != nil {
		out.Col.Value += dx
		if out.Col.Value < 1 {
			out.Col.Value = 1
		}
	}
	if out.Row != nil {
		out.Row.Value += dy
		if out.Row.Value < 1 {
			out.Row.Value = 1
		}
	}
	return out
}

// AdjustColumnRowInPlace shifts endpoints strictly greater than the given
// pivot column and/or row by delta; used when a line is inserted/removed
// at a specific position. Either pivot may be nil to skip that axis.
func (s *A1Selection) AdjustColumnRowInPlace(col, row *int64, delta int64) {
	for i, cr := range s.Ranges {
		sr := cr.SheetRange
		start := sr.Start.clone()
		end := sr.End.clone()
		if col != nil {
			shiftCoordPastLineDelta(start.Col, *col, delta)
			shiftCoordPastLineDelta(end.Col, *col, delta)
		}
		if row != nil {
			shiftCoordPastLineDelta(start.Row, *row, delta)
			shiftCoordPastLineDelta(end.Row, *row, delta)
		}
		s.Ranges[i] = CellRefRange{SheetRange: RefRangeBounds{Start: start, End: end}}
	}
}

func shiftCoordPastLineDelta(c *Coord, pivot int64, delta int64) {
	if c == nil {
		return
	}
	if c.Value > pivot {
		c.Value += delta
	}
}

// FilterEmpty drops ranges that are no longer valid (e.g. after a
// destructive mutation collapsed them); the spec allows Ranges to be empty
// after such a mutation.
func (s *A1Selection) FilterEmpty() {
	kept := s.Ranges[:0:0]
	for _, r := range s.Ranges {
		if r.SheetRange.IsValid() {
			kept = append(kept, r)
		}
	}
	s.Ranges = kept
}
