// Package a1 implements the cell-reference algebra: parsing, normalizing,
// and mutating A1-notation ranges and selections over an effectively
// unbounded 2D grid.
package a1

import "fmt"

// Pos is a 1-based cell coordinate. (1,1) is the top-left cell.
type Pos struct {
	X int64
	Y int64
}

// String renders the position in A1 notation, e.g. "B3".
func (p Pos) String() string {
	return fmt.Sprintf("%s%d", columnName(p.X), p.Y)
}

// Translate returns p shifted by (dx,dy), clamped so neither axis drops
// below 1.
func (p Pos) Translate(dx, dy int64) Pos {
	x, y := p.X+dx, p.Y+dy
	if x < 1 {
		x = 1
	}
	if y < 1 {
		y = 1
	}
	return Pos{X: x, Y: y}
}

// Rect is an ordered, bounded rectangle: Min.X <= Max.X and Min.Y <= Max.Y.
type Rect struct {
	Min Pos
	Max Pos
}

// NewRect builds a Rect from two arbitrary corners, normalizing order.
func NewRect(x1, y1, x2, y2 int64) Rect {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Rect{Min: Pos{X: x1, Y: y1}, Max: Pos{X: x2, Y: y2}}
}

// SinglePos returns the 1x1 rectangle containing only p.
func SinglePos(p Pos) Rect {
	return Rect{Min: p, Max: p}
}

// Contains reports whether p lies within the rectangle (inclusive).
func (r Rect) Contains(p Pos) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Intersects reports whether r and other share at least one cell.
func (r Rect) Intersects(other Rect) bool {
	return r.Min.X <= other.Max.X && r.Max.X >= other.Min.X &&
		r.Min.Y <= other.Max.Y && r.Max.Y >= other.Min.Y
}

// Intersection returns the overlapping rectangle of r and other, or false
// if they are disjoint.
func (r Rect) Intersection(other Rect) (Rect, bool) {
	if !r.Intersects(other) {
		return Rect{}, false
	}
	minX, minY := max64(r.Min.X, other.Min.X), max64(r.Min.Y, other.Min.Y)
	maxX, maxY := min64(r.Max.X, other.Max.X), min64(r.Max.Y, other.Max.Y)
	return Rect{Min: Pos{X: minX, Y: minY}, Max: Pos{X: maxX, Y: maxY}}, true
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Min: Pos{X: min64(r.Min.X, other.Min.X), Y: min64(r.Min.Y, other.Min.Y)},
		Max: Pos{X: max64(r.Max.X, other.Max.X), Y: max64(r.Max.Y, other.Max.Y)},
	}
}

// Width returns the number of columns spanned.
func (r Rect) Width() int64 { return r.Max.X - r.Min.X + 1 }

// Height returns the number of rows spanned.
func (r Rect) Height() int64 { return r.Max.Y - r.Min.Y + 1 }

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// columnName converts a 1-based column index to its letter name: 1->A,
// 26->Z, 27->AA.
func columnName(n int64) string {
	if n < 1 {
		return ""
	}
	var buf []byte
	for n > 0 {
		n--
		buf = append([]byte{byte('A' + n%26)}, buf...)
		n /= 26
	}
	return string(buf)
}

// columnIndex converts a column letter name (case-insensitive) to its
// 1-based index. Returns 0 if name is not a valid column name.
func columnIndex(name string) int64 {
	var n int64
	for _, ch := range name {
		switch {
		case ch >= 'A' && ch <= 'Z':
			n = n*26 + int64(ch-'A'+1)
		case ch >= 'a' && ch <= 'z':
			n = n*26 + int64(ch-'a'+1)
		default:
			return 0
		}
	}
	return n
}
