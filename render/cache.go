package render

import (
	"gridsheet/a1"
	"gridsheet/sheet"
)

// Cache tracks which hash tiles, per sheet, have been touched since the
// renderer last pulled them — spec.md §4.6's invalidation step. It holds
// no packet data itself; a dirty hash just means "the next Viewport call
// for a rect covering this hash must not be served from a stale cache
// upstream of this package" (the actual packet cache lives in the
// renderer process on the other side of wsserver).
type Cache struct {
	dirty map[sheet.SheetID]map[HashCoord]bool
}

// NewCache returns an empty invalidation tracker.
func NewCache() *Cache {
	return &Cache{dirty: map[sheet.SheetID]map[HashCoord]bool{}}
}

// Invalidate marks every hash rect touches as dirty on sh. Called once per
// dirty rectangle a committed transaction reports (spec.md §4.5's
// TransactionResult.Dirty feeds directly into this).
func (c *Cache) Invalidate(sh sheet.SheetID, rect a1.Rect) {
	hashes, ok := c.dirty[sh]
	if !ok {
		hashes = map[HashCoord]bool{}
		c.dirty[sh] = hashes
	}
	for _, h := range HashesInRect(rect) {
		hashes[h] = true
	}
}

// DirtyHashes returns and clears the set of hashes marked dirty on sh since
// the last call, in no particular order. The renderer channel (wsserver)
// calls this once per commit to decide which packets to re-push.
func (c *Cache) DirtyHashes(sh sheet.SheetID) []HashCoord {
	hashes, ok := c.dirty[sh]
	if !ok {
		return nil
	}
	out := make([]HashCoord, 0, len(hashes))
	for h := range hashes {
		out = append(out, h)
	}
	delete(c.dirty, sh)
	return out
}

// Viewport bundles every packet kind visible in rect (already expanded by
// the caller via ExpandedViewport, if desired) — the renderer's single
// "give me everything I need to draw this region" query.
type Viewport struct {
	Fills       []RenderFill
	SheetFills  []SheetFill
	Horizontal  []BorderRun
	Vertical    []BorderRun
	CodeCells   []CodeCellPacket
	HTML        []HTMLPacket
	Images      []ImagePacket
}

// BuildViewport assembles a Viewport for sh clipped to rect. Meta (sheet
// row/column/whole-sheet) fills are returned unclipped by SheetFills; the
// caller is responsible for clipping them to rect on retrieval so an
// unbounded fill never materializes a giant vertex buffer (spec.md §4.6's
// "meta-fill clipping").
func BuildViewport(sh *sheet.Sheet, rect a1.Rect) Viewport {
	return Viewport{
		Fills:      RenderFills(sh, rect),
		SheetFills: ClipSheetFills(SheetFills(sh), rect),
		Horizontal: HorizontalBorders(sh, rect),
		Vertical:   VerticalBorders(sh, rect),
		CodeCells:  CodeCells(sh, rect),
		HTML:       HTMLPackets(sh, rect),
		Images:     ImagePackets(sh, rect),
	}
}

// ClipSheetFills clips every infinite fill's unbounded axis to rect so the
// renderer never has to handle an unbounded width/height itself.
func ClipSheetFills(fills []SheetFill, rect a1.Rect) []SheetFill {
	out := make([]SheetFill, 0, len(fills))
	for _, f := range fills {
		w, h := f.W, f.H
		if w == nil {
			bounded := rect.Max.X - f.X + 1
			if bounded < 1 {
				continue
			}
			w = &bounded
		}
		if h == nil {
			bounded := rect.Max.Y - f.Y + 1
			if bounded < 1 {
				continue
			}
			h = &bounded
		}
		out = append(out, SheetFill{X: f.X, Y: f.Y, W: w, H: h, Color: f.Color})
	}
	return out
}
