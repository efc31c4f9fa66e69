package sheet

import "gridsheet/a1"
import "gridsheet/grid"

// SheetDataTables tracks every DataTable on a sheet plus the caches that
// make spill detection and the "cell -> owning table" lookup fast
// (spec.md §3/§4.3). Insertion order is spill precedence: data_tables in
// the original is an IndexMap for this reason; here that's a parallel
// order slice plus a map, which gives the same "stable order + O(1)
// anchor lookup" contract spec.md §9 says is an acceptable realization.
type SheetDataTables struct {
	order  []a1.Pos
	tables map[a1.Pos]*DataTable

	hasDataTable       *grid.Contiguous2D[bool]
	spilledOutputRects *grid.Contiguous2D[*a1.Pos]

	// un_spilled_output_rects and the effective (post-spill) rect actually
	// installed into the caches above. Keyed by anchor rather than queried
	// geometrically: every consumer of these needs "the rect for this
	// anchor", never "which anchor is near this rect" (that's what
	// spilledOutputRects answers), so a plain map is simpler than routing
	// through grid.RegionMap here and no less correct.
	unspilledRects map[a1.Pos]a1.Rect
	effectiveRects map[a1.Pos]a1.Rect
}

// NewSheetDataTables returns an empty table set.
func NewSheetDataTables() *SheetDataTables {
	return &SheetDataTables{
		tables:             map[a1.Pos]*DataTable{},
		hasDataTable:       grid.New(false),
		spilledOutputRects: grid.New[*a1.Pos](nil),
		unspilledRects:     map[a1.Pos]a1.Rect{},
		effectiveRects:     map[a1.Pos]a1.Rect{},
	}
}

func (dt *SheetDataTables) indexOf(anchor a1.Pos) (int, bool) {
	for i, p := range dt.order {
		if p == anchor {
			return i, true
		}
	}
	return -1, false
}

// Get returns the table anchored at pos, if any.
func (dt *SheetDataTables) Get(anchor a1.Pos) (*DataTable, bool) {
	t, ok := dt.tables[anchor]
	return t, ok
}

// AnchorAt returns the anchor of the table whose display rectangle covers
// pos, if any.
func (dt *SheetDataTables) AnchorAt(pos a1.Pos) (a1.Pos, bool) {
	if p := dt.spilledOutputRects.Get(pos); p != nil {
		return *p, true
	}
	return a1.Pos{}, false
}

// EffectiveRect returns the on-grid footprint actually installed for
// anchor (collapsed to the single anchor cell if it is currently
// spilled), if a table is anchored there.
func (dt *SheetDataTables) EffectiveRect(anchor a1.Pos) (a1.Rect, bool) {
	r, ok := dt.effectiveRects[anchor]
	return r, ok
}

// Order returns anchors in spill-precedence (insertion) order.
func (dt *SheetDataTables) Order() []a1.Pos {
	out := make([]a1.Pos, len(dt.order))
	copy(out, dt.order)
	return out
}

func rectFor(anchor a1.Pos, w, h int64) a1.Rect {
	return a1.NewRect(anchor.X, anchor.Y, anchor.X+w-1, anchor.Y+h-1)
}

// InsertFull installs (or replaces) the table anchored at pos and
// recomputes spill state for it and every table it affects. Returns the
// set of dirty rectangles for render invalidation (spec.md §4.3/§4.6).
func (dt *SheetDataTables) InsertFull(anchor a1.Pos, t *DataTable) []a1.Rect {
	idx, existed := dt.indexOf(anchor)
	if !existed {
		idx = len(dt.order)
		dt.order = append(dt.order, anchor)
	}
	dt.tables[anchor] = t
	return dt.recompute(idx)
}

// Remove deletes the table anchored at pos and recomputes spill state for
// every later-indexed table that may now be able to un-spill.
func (dt *SheetDataTables) Remove(anchor a1.Pos) []a1.Rect {
	idx, ok := dt.indexOf(anchor)
	if !ok {
		return nil
	}
	var dirty []a1.Rect
	if r, ok := dt.effectiveRects[anchor]; ok {
		dt.clearFootprint(anchor, r)
		dirty = append(dirty, r)
	}
	delete(dt.tables, anchor)
	delete(dt.unspilledRects, anchor)
	delete(dt.effectiveRects, anchor)
	dt.order = append(dt.order[:idx], dt.order[idx+1:]...)

	for i := idx; i < len(dt.order); i++ {
		dirty = append(dirty, dt.recompute(i)...)
	}
	return dirty
}

// recompute implements spec.md §4.3's update_spill_and_cache for the
// table at order index idx: clear its prior footprint, determine whether
// an earlier-indexed table's un-spilled rectangle collides with this
// one's, install the resulting effective footprint, then recurse on
// every later-indexed table (whose spill state can only ever depend on
// earlier ones, so this always terminates after len(order)-idx steps).
func (dt *SheetDataTables) recompute(idx int) []a1.Rect {
	if idx < 0 || idx >= len(dt.order) {
		return nil
	}
	anchor := dt.order[idx]
	t := dt.tables[anchor]
	if t == nil {
		return nil
	}

	var dirty []a1.Rect
	if oldRect, ok := dt.effectiveRects[anchor]; ok {
		dt.clearFootprint(anchor, oldRect)
		dirty = append(dirty, oldRect)
	}

	unspilled := rectFor(anchor, t.UnspilledWidth(), t.UnspilledHeight())
	dt.unspilledRects[anchor] = unspilled

	spillCurrent := false
	for i := 0; i < idx; i++ {
		other := dt.order[i]
		if r, ok := dt.unspilledRects[other]; ok && r.Intersects(unspilled) {
			spillCurrent = true
			break
		}
	}
	t.SpillError = spillCurrent

	effRect := rectFor(anchor, t.EffectiveWidth(), t.EffectiveHeight())
	dt.effectiveRects[anchor] = effRect
	dt.installFootprint(anchor, effRect)
	dirty = append(dirty, effRect)

	for i := idx + 1; i < len(dt.order); i++ {
		dirty = append(dirty, dt.recompute(i)...)
	}
	return dirty
}

// ShiftColumns reshapes every cache when column c is inserted (delta=1)
// or removed (delta=-1) on the owning Sheet, keeping anchors and the
// spill caches aligned with the physical geometry (spec.md §4.3 implies
// SheetDataTables tracks the same columns as Sheet; this was missed in
// an earlier pass and is filled in here). A table anchored exactly on a
// removed column is dropped outright rather than partially clipped —
// documented as an accepted simplification in DESIGN.md.
func (dt *SheetDataTables) ShiftColumns(c int64, delta int64) {
	if delta > 0 {
		dt.hasDataTable.InsertColumn(c, grid.CopyFormatsNone)
		dt.spilledOutputRects.InsertColumn(c, grid.CopyFormatsNone)
	} else {
		dt.hasDataTable.RemoveColumn(c)
		dt.spilledOutputRects.RemoveColumn(c)
	}
	dt.order = dt.shiftAnchorsX(dt.order, c, delta)
	dt.tables = shiftPosMapX(dt.tables, c, delta)
	dt.unspilledRects = shiftRectMapX(dt.unspilledRects, c, delta)
	dt.effectiveRects = shiftRectMapX(dt.effectiveRects, c, delta)
	for _, p := range dt.order {
		dt.installFootprint(p, dt.effectiveRects[p])
	}
}

// ShiftRows is ShiftColumns' row-axis twin.
func (dt *SheetDataTables) ShiftRows(r int64, delta int64) {
	if delta > 0 {
		dt.hasDataTable.InsertRow(r, grid.CopyFormatsNone)
		dt.spilledOutputRects.InsertRow(r, grid.CopyFormatsNone)
	} else {
		dt.hasDataTable.RemoveRow(r)
		dt.spilledOutputRects.RemoveRow(r)
	}
	dt.order = dt.shiftAnchorsY(dt.order, r, delta)
	dt.tables = shiftPosMapY(dt.tables, r, delta)
	dt.unspilledRects = shiftRectMapY(dt.unspilledRects, r, delta)
	dt.effectiveRects = shiftRectMapY(dt.effectiveRects, r, delta)
	for _, p := range dt.order {
		dt.installFootprint(p, dt.effectiveRects[p])
	}
}

// shiftAnchorsX drops anchors sitting exactly on a removed column and
// shifts the rest, preserving dt.order's precedence ordering.
func (dt *SheetDataTables) shiftAnchorsX(order []a1.Pos, c int64, delta int64) []a1.Pos {
	out := make([]a1.Pos, 0, len(order))
	for _, p := range order {
		if delta < 0 && p.X == c {
			delete(dt.tables, p)
			delete(dt.unspilledRects, p)
			delete(dt.effectiveRects, p)
			continue
		}
		out = append(out, shiftPosX(p, c, delta))
	}
	return out
}

func (dt *SheetDataTables) shiftAnchorsY(order []a1.Pos, r int64, delta int64) []a1.Pos {
	out := make([]a1.Pos, 0, len(order))
	for _, p := range order {
		if delta < 0 && p.Y == r {
			delete(dt.tables, p)
			delete(dt.unspilledRects, p)
			delete(dt.effectiveRects, p)
			continue
		}
		out = append(out, shiftPosY(p, r, delta))
	}
	return out
}

func shiftPosX(p a1.Pos, c int64, delta int64) a1.Pos {
	if p.X >= c {
		return a1.Pos{X: p.X + delta, Y: p.Y}
	}
	return p
}

func shiftPosY(p a1.Pos, r int64, delta int64) a1.Pos {
	if p.Y >= r {
		return a1.Pos{X: p.X, Y: p.Y + delta}
	}
	return p
}

func shiftPosMapX[V any](m map[a1.Pos]V, c int64, delta int64) map[a1.Pos]V {
	out := make(map[a1.Pos]V, len(m))
	for p, v := range m {
		if delta < 0 && p.X == c {
			continue
		}
		out[shiftPosX(p, c, delta)] = v
	}
	return out
}

func shiftPosMapY[V any](m map[a1.Pos]V, r int64, delta int64) map[a1.Pos]V {
	out := make(map[a1.Pos]V, len(m))
	for p, v := range m {
		if delta < 0 && p.Y == r {
			continue
		}
		out[shiftPosY(p, r, delta)] = v
	}
	return out
}

func shiftRectMapX(m map[a1.Pos]a1.Rect, c int64, delta int64) map[a1.Pos]a1.Rect {
	out := make(map[a1.Pos]a1.Rect, len(m))
	for p, rect := range m {
		if delta < 0 && p.X == c {
			continue
		}
		np := shiftPosX(p, c, delta)
		if np != p {
			rect = a1.NewRect(rect.Min.X+delta, rect.Min.Y, rect.Max.X+delta, rect.Max.Y)
		}
		out[np] = rect
	}
	return out
}

func shiftRectMapY(m map[a1.Pos]a1.Rect, r int64, delta int64) map[a1.Pos]a1.Rect {
	out := make(map[a1.Pos]a1.Rect, len(m))
	for p, rect := range m {
		if delta < 0 && p.Y == r {
			continue
		}
		np := shiftPosY(p, r, delta)
		if np != p {
			rect = a1.NewRect(rect.Min.X, rect.Min.Y+delta, rect.Max.X, rect.Max.Y+delta)
		}
		out[np] = rect
	}
	return out
}

func (dt *SheetDataTables) installFootprint(anchor a1.Pos, rect a1.Rect) {
	dt.hasDataTable.Set(anchor, true)
	a := anchor
	dt.spilledOutputRects.SetRect(rect.Min.X, rect.Min.Y, &rect.Max.X, &rect.Max.Y, &a)
}

func (dt *SheetDataTables) clearFootprint(anchor a1.Pos, rect a1.Rect) {
	dt.hasDataTable.Set(anchor, false)
	dt.spilledOutputRects.SetRect(rect.Min.X, rect.Min.Y, &rect.Max.X, &rect.Max.Y, nil)
}
