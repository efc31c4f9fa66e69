package a1

import "testing"

func TestParseRangeRoundTrip(t *testing.T) {
	cases := []string{"A1", "A1:B2", "A1:", ":B2", "A:C", "2:5", "*"}
	for _, s := range cases {
		r, err := ParseRange(s)
		if err != nil {
			t.Fatalf("ParseRange(%q) error: %v", s, err)
		}
		if got := r.String(); got != s {
			t.Errorf("ParseRange(%q).String() = %q, want %q", s, got, s)
		}
	}
}

func TestParseRangeCollapsesXX(t *testing.T) {
	r, err := ParseRange("A1:A1")
	if err != nil {
		t.Fatal(err)
	}
	if got := r.String(); got != "A1" {
		t.Errorf("A1:A1 collapsed to %q, want A1", got)
	}
	if !r.IsSingleCell() {
		t.Errorf("expected single-cell range")
	}
}

func TestParseRangeUnordered(t *testing.T) {
	r, err := ParseRange("B2:A1")
	if err != nil {
		t.Fatal(err)
	}
	if got := r.String(); got != "B2:A1" {
		t.Errorf("unordered range re-serialized as %q, want B2:A1 (order preserved)", got)
	}
	rect, ok := r.ToRect()
	if !ok {
		t.Fatal("expected finite rect")
	}
	if rect != NewRect(1, 1, 2, 2) {
		t.Errorf("rect = %+v, want normalized 1,1,2,2", rect)
	}
}

func TestIntersectRectRect(t *testing.T) {
	a, _ := ParseRange("A1:C3")
	b, _ := ParseRange("B2:D4")
	got, ok := a.Intersect(b)
	if !ok {
		t.Fatal("expected intersection")
	}
	if got.String() != "B2:C3" {
		t.Errorf("intersect = %s, want B2:C3", got.String())
	}
}

func TestIntersectDisjoint(t *testing.T) {
	a, _ := ParseRange("A1:B2")
	b, _ := ParseRange("D4:E5")
	if _, ok := a.Intersect(b); ok {
		t.Fatal("expected disjoint ranges to not intersect")
	}
}

func TestIntersectColumnRow(t *testing.T) {
	col, _ := ParseRange("B:B")
	row, _ := ParseRange("3:3")
	got, ok := col.Intersect(row)
	if !ok {
		t.Fatal("expected intersection")
	}
	if got.String() != "B3" {
		t.Errorf("intersect = %s, want B3", got.String())
	}
}

func TestAllIsAll(t *testing.T) {
	r, err := ParseRange("*")
	if err != nil {
		t.Fatal(err)
	}
	if !r.IsAll() {
		t.Fatal("expected ALL sentinel")
	}
	if !r.MightContainPos(Pos{X: 999, Y: 999}) {
		t.Fatal("ALL must match any position")
	}
}

func TestContainsVsMightContain(t *testing.T) {
	r, _ := ParseRange("A1:B2")
	if !r.ContainsPos(Pos{X: 1, Y: 1}) {
		t.Fatal("expected contains (1,1)")
	}
	if r.ContainsPos(Pos{X: 3, Y: 3}) {
		t.Fatal("did not expect contains (3,3)")
	}
	colRange, _ := ParseRange("C:C")
	if !colRange.MightContainPos(Pos{X: 3, Y: 500}) {
		t.Fatal("column range should match any row")
	}
}
