// Package formula implements the spreadsheet formula language: lexing
// and parsing (sub-packages token/lexer/ast/parser) plus the evaluator
// itself (spec.md §4.4), grounded on the teacher's tree-walking
// interpreter (package interpreter) but operating over spreadsheet Value
// shapes instead of scripting-language values.
package formula

import "gridsheet/cellvalue"

// Value is a formula result: either a single cell or a rectangular 2D
// array, matching spec.md §4.4's "Value (single cell or 2D array)".
type Value struct {
	Cells [][]cellvalue.CellValue // row-major; always at least 1x1
}

// Scalar wraps a single CellValue as a 1x1 Value.
func Scalar(v cellvalue.CellValue) Value {
	return Value{Cells: [][]cellvalue.CellValue{{v}}}
}

// IsScalar reports whether v is exactly 1x1.
func (v Value) IsScalar() bool { return v.Height() == 1 && v.Width() == 1 }

// AsScalar returns the top-left cell of v. Callers that need strict
// scalar-only semantics should check IsScalar first.
func (v Value) AsScalar() cellvalue.CellValue {
	if len(v.Cells) == 0 || len(v.Cells[0]) == 0 {
		return cellvalue.NewBlank()
	}
	return v.Cells[0][0]
}

// Width returns the number of columns.
func (v Value) Width() int64 {
	if len(v.Cells) == 0 {
		return 0
	}
	return int64(len(v.Cells[0]))
}

// Height returns the number of rows.
func (v Value) Height() int64 { return int64(len(v.Cells)) }

// At returns the cell at (col,row), both 0-based, clamped to the nearest
// edge — broadcasting a 1-row or 1-column array over a larger shape is
// common enough in zip-map contexts that callers rely on this instead of
// bounds-checking themselves.
func (v Value) At(col, row int64) cellvalue.CellValue {
	if v.Height() == 0 || v.Width() == 0 {
		return cellvalue.NewBlank()
	}
	r := row
	if r >= v.Height() {
		r = v.Height() - 1
	}
	c := col
	if c >= v.Width() {
		c = v.Width() - 1
	}
	return v.Cells[r][c]
}

// Flatten returns every cell in row-major order, for aggregator functions
// that don't care about shape (SUM, COUNT, ...).
func (v Value) Flatten() []cellvalue.CellValue {
	out := make([]cellvalue.CellValue, 0, v.Width()*v.Height())
	for _, row := range v.Cells {
		out = append(out, row...)
	}
	return out
}
