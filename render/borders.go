package render

import (
	"gridsheet/a1"
	"gridsheet/sheet"
)

// resolveEdge picks which of two BorderStyle pointers describing the same
// logical edge (one cell's Top vs. its upstairs neighbor's Bottom, or one
// cell's Left vs. its neighbor's Right) wins: the newer write, by
// Timestamp (spec.md §4.6, grounded on
// quadratic-core/.../borders/borders_render.rs's horizontal/vertical
// merge).
func resolveEdge(a, b *sheet.BorderStyle) *sheet.BorderStyle {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.Timestamp >= b.Timestamp:
		return a
	default:
		return b
	}
}

// HorizontalBorders returns run-length-merged horizontal border segments
// (one cell's Top style resolved against the cell above's Bottom style)
// visible in rect.
func HorizontalBorders(sh *sheet.Sheet, rect a1.Rect) []BorderRun {
	var out []BorderRun
	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		x := rect.Min.X
		for x <= rect.Max.X {
			edge := resolveEdge(
				sh.Borders.Top.Get(a1.Pos{X: x, Y: y}),
				sh.Borders.Bottom.Get(a1.Pos{X: x, Y: y - 1}),
			)
			if edge == nil {
				x++
				continue
			}
			width := int64(1)
			for x+width <= rect.Max.X {
				next := resolveEdge(
					sh.Borders.Top.Get(a1.Pos{X: x + width, Y: y}),
					sh.Borders.Bottom.Get(a1.Pos{X: x + width, Y: y - 1}),
				)
				if next == nil || *next != *edge {
					break
				}
				width++
			}
			out = append(out, BorderRun{Style: *edge, X: x, Y: y, W: width, H: 1})
			x += width
		}
	}
	return out
}

// VerticalBorders is HorizontalBorders' axis twin: one cell's Left style
// resolved against its left neighbor's Right style, run-length merged down
// a column.
func VerticalBorders(sh *sheet.Sheet, rect a1.Rect) []BorderRun {
	var out []BorderRun
	for x := rect.Min.X; x <= rect.Max.X; x++ {
		y := rect.Min.Y
		for y <= rect.Max.Y {
			edge := resolveEdge(
				sh.Borders.Left.Get(a1.Pos{X: x, Y: y}),
				sh.Borders.Right.Get(a1.Pos{X: x - 1, Y: y}),
			)
			if edge == nil {
				y++
				continue
			}
			height := int64(1)
			for y+height <= rect.Max.Y {
				next := resolveEdge(
					sh.Borders.Left.Get(a1.Pos{X: x, Y: y + height}),
					sh.Borders.Right.Get(a1.Pos{X: x - 1, Y: y + height}),
				)
				if next == nil || *next != *edge {
					break
				}
				height++
			}
			out = append(out, BorderRun{Style: *edge, X: x, Y: y, W: 1, H: height})
			y += height
		}
	}
	return out
}
