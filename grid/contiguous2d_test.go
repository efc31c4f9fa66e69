package grid

import (
	"testing"

	"gridsheet/a1"
)

func TestSetRectAndGet(t *testing.T) {
	g := New(0)
	x2, y2 := int64(3), int64(3)
	g.SetRect(1, 1, &x2, &y2, 5)

	if got := g.Get(a1.Pos{X: 2, Y: 2}); got != 5 {
		t.Fatalf("Get(2,2) = %d, want 5", got)
	}
	if got := g.Get(a1.Pos{X: 4, Y: 4}); got != 0 {
		t.Fatalf("Get(4,4) = %d, want default 0", got)
	}
}

func TestSetRectOverwriteShrinks(t *testing.T) {
	g := New(0)
	x2, y2 := int64(5), int64(5)
	g.SetRect(1, 1, &x2, &y2, 1)

	ox2, oy2 := int64(2), int64(2)
	g.SetRect(1, 1, &ox2, &oy2, 0) // reset a corner back to default

	if got := g.Get(a1.Pos{X: 1, Y: 1}); got != 0 {
		t.Fatalf("Get(1,1) = %d, want 0", got)
	}
	if got := g.Get(a1.Pos{X: 3, Y: 3}); got != 1 {
		t.Fatalf("Get(3,3) = %d, want 1", got)
	}
}

func TestSetRectUnboundedAxis(t *testing.T) {
	g := New("")
	g.SetRect(2, 2, nil, nil, "v")

	if got := g.Get(a1.Pos{X: 2, Y: 2}); got != "v" {
		t.Fatalf("Get(2,2) = %q, want v", got)
	}
	if got := g.Get(a1.Pos{X: 1_000_000, Y: 1_000_000}); got != "v" {
		t.Fatalf("unbounded cell = %q, want v", got)
	}
	if got := g.Get(a1.Pos{X: 1, Y: 1}); got != "" {
		t.Fatalf("Get(1,1) = %q, want default", got)
	}
}

func TestNoAdjacentBlocksShareValue(t *testing.T) {
	g := New(0)
	for _, op := range []struct{ x1, y1, x2, y2 int64; v int }{
		{1, 1, 5, 5, 1},
		{3, 3, 8, 8, 1}, // overlapping, same value: should merge, not duplicate
		{6, 1, 6, 10, 2},
	} {
		x2, y2 := op.x2, op.y2
		g.SetRect(op.x1, op.y1, &x2, &y2, op.v)
	}
	for _, c := range g.cols {
		for i := 1; i < len(c.rows); i++ {
			if c.rows[i-1].value == c.rows[i].value && c.rows[i-1].end+1 == c.rows[i].start {
				t.Fatalf("adjacent row blocks share a value: %+v, %+v", c.rows[i-1], c.rows[i])
			}
		}
	}
	for i := 1; i < len(g.cols); i++ {
		if g.cols[i-1].end+1 == g.cols[i].start && sameRows(g.cols[i-1].rows, g.cols[i].rows) {
			t.Fatalf("adjacent columns share identical content: %+v, %+v", g.cols[i-1], g.cols[i])
		}
	}
}

func TestColRowMinMax(t *testing.T) {
	g := New(0)
	x2, y2 := int64(4), int64(6)
	g.SetRect(4, 3, &x2, &y2, 9)

	if got := g.ColMin(4); got != 3 {
		t.Fatalf("ColMin(4) = %d, want 3", got)
	}
	if got := g.ColMax(4); got != 6 {
		t.Fatalf("ColMax(4) = %d, want 6", got)
	}
	if got := g.ColMin(5); got != 0 {
		t.Fatalf("ColMin(5) = %d, want 0 (empty column)", got)
	}
	if got := g.RowMin(3); got != 4 {
		t.Fatalf("RowMin(3) = %d, want 4", got)
	}
}

func TestInsertRemoveColumnRoundTrip(t *testing.T) {
	g := New(0)
	x2, y2 := int64(3), int64(3)
	g.SetRect(1, 1, &x2, &y2, 7)

	g.InsertColumn(2, CopyFormatsNone)
	if got := g.Get(a1.Pos{X: 3, Y: 1}); got != 7 {
		t.Fatalf("after insert, Get(3,1) = %d, want 7 (shifted)", got)
	}
	if got := g.Get(a1.Pos{X: 2, Y: 1}); got != 0 {
		t.Fatalf("newly exposed column should be default, got %d", got)
	}

	g.RemoveColumn(2)
	if got := g.Get(a1.Pos{X: 3, Y: 1}); got != 7 {
		t.Fatalf("after remove, Get(3,1) = %d, want 7 (shifted back)", got)
	}
}

func TestNondefaultRectsInRect(t *testing.T) {
	g := New(0)
	x2, y2 := int64(2), int64(2)
	g.SetRect(1, 1, &x2, &y2, 5)

	rects := g.NondefaultRectsInRect(a1.NewRect(1, 1, 10, 10))
	if len(rects) != 1 {
		t.Fatalf("got %d rects, want 1", len(rects))
	}
	if rects[0].Rect != a1.NewRect(1, 1, 2, 2) {
		t.Fatalf("rect = %+v, want (1,1)-(2,2)", rects[0].Rect)
	}
	if rects[0].Value != 5 {
		t.Fatalf("value = %v, want 5", rects[0].Value)
	}
}

func TestIntersects(t *testing.T) {
	g := New(0)
	x2, y2 := int64(6), int64(6)
	g.SetRect(5, 5, &x2, &y2, 1)

	if !g.Intersects(a1.NewRect(1, 1, 10, 10)) {
		t.Fatal("expected intersection with a rect covering the block")
	}
	if g.Intersects(a1.NewRect(100, 100, 200, 200)) {
		t.Fatal("did not expect intersection far from the block")
	}
}
