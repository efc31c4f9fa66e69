// Package engine drives transactional mutation over one or more sheets:
// applying user operations, running code cells to completion (formulas
// inline, other languages via an external runtime), installing results
// into the spill-aware sheet storage, and recording undo/redo history.
// Grounded on the teacher's spreadsheet.Sheet.SetCell pipeline
// (dependency bookkeeping + propagateUpdates), generalized from a single
// map-of-cells to the full operation/transaction/spill model spec.md
// §4.5 and §5 describe.
package engine

import (
	"gridsheet/a1"
	"gridsheet/cellvalue"
	"gridsheet/grid"
	"gridsheet/sheet"
)

// OpKind tags which mutation an Operation performs.
type OpKind int

const (
	OpSetCellValue OpKind = iota
	OpSetCodeCell
	OpSetFormat
	OpSetBorder
	OpInsertColumn
	OpInsertRow
	OpDeleteColumn
	OpDeleteRow

	// Undo-machinery-only kinds: never constructed by callers, only ever
	// produced as the compensating half of one of the kinds above, so
	// that running them back through applyOp naturally yields the next
	// compensating op (undo of an undo is a redo, built the same way).
	opRestoreCell
	opReplaceFormat
	opRestoreBorder
	opRestoreColumn
	opRestoreRow
)

func (k OpKind) String() string {
	switch k {
	case OpSetCellValue:
		return "SetCellValue"
	case OpSetCodeCell:
		return "SetCodeCell"
	case OpSetFormat:
		return "SetFormat"
	case OpSetBorder:
		return "SetBorder"
	case OpInsertColumn:
		return "InsertColumn"
	case OpInsertRow:
		return "InsertRow"
	case OpDeleteColumn:
		return "DeleteColumn"
	case OpDeleteRow:
		return "DeleteRow"
	default:
		return "Unknown"
	}
}

// BorderSide picks which of the four border layers an OpSetBorder touches.
type BorderSide int

const (
	BorderLeft BorderSide = iota
	BorderRight
	BorderTop
	BorderBottom
)

// Operation is the sum type the transaction pipeline consumes (spec.md
// §4.5's "SetCellValue, SetCodeCell, SetFormats, SetBorders,
// InsertColumn, …"). Only the fields relevant to Kind are populated;
// everything else is zero, the same convention package cellvalue uses
// for CellValue.
type Operation struct {
	Kind  OpKind
	Sheet sheet.SheetID
	Pos   a1.Pos // anchor: the single cell a cell-shaped op applies to

	Value cellvalue.CellValue     // OpSetCellValue
	Code  cellvalue.CodeCellValue // OpSetCodeCell

	Format sheet.Format // OpSetFormat, merged onto whatever is already there

	BorderSide  BorderSide     // OpSetBorder
	BorderStyle *sheet.BorderStyle
	BorderRect  a1.Rect

	Line       int64            // OpInsertColumn/Row, OpDeleteColumn/Row
	CopyPolicy grid.CopyFormats // OpInsertColumn/Row

	// Compensating-op payloads: populated only on ops produced internally
	// as the inverse of a just-applied forward op (see transaction.go).
	snapVal     cellvalue.CellValue
	snapTable   *sheet.DataTable
	borderSnap  []borderRectValue
	colSnapshot *sheet.ColumnSnapshot
	rowSnapshot *sheet.RowSnapshot
}

type borderRectValue struct {
	Rect  a1.Rect
	Value *sheet.BorderStyle
}

// SetCellValue builds a literal-value write.
func SetCellValue(sh sheet.SheetID, pos a1.Pos, v cellvalue.CellValue) Operation {
	return Operation{Kind: OpSetCellValue, Sheet: sh, Pos: pos, Value: v}
}

// SetCodeCell builds a code-cell install; the engine enqueues a
// RunCodeCell task for it during apply.
func SetCodeCell(sh sheet.SheetID, pos a1.Pos, code cellvalue.CodeCellValue) Operation {
	return Operation{Kind: OpSetCodeCell, Sheet: sh, Pos: pos, Code: code}
}

// SetFormat builds a format-patch merge at pos.
func SetFormat(sh sheet.SheetID, pos a1.Pos, f sheet.Format) Operation {
	return Operation{Kind: OpSetFormat, Sheet: sh, Pos: pos, Format: f}
}

// SetBorder builds a border write over rect on one side.
func SetBorder(sh sheet.SheetID, rect a1.Rect, side BorderSide, style *sheet.BorderStyle) Operation {
	return Operation{Kind: OpSetBorder, Sheet: sh, BorderRect: rect, BorderSide: side, BorderStyle: style}
}

// InsertColumn/InsertRow/DeleteColumn/DeleteRow build the corresponding
// structural operations.
func InsertColumn(sh sheet.SheetID, c int64, policy grid.CopyFormats) Operation {
	return Operation{Kind: OpInsertColumn, Sheet: sh, Line: c, CopyPolicy: policy}
}

func InsertRow(sh sheet.SheetID, r int64, policy grid.CopyFormats) Operation {
	return Operation{Kind: OpInsertRow, Sheet: sh, Line: r, CopyPolicy: policy}
}

func DeleteColumn(sh sheet.SheetID, c int64) Operation {
	return Operation{Kind: OpDeleteColumn, Sheet: sh, Line: c}
}

func DeleteRow(sh sheet.SheetID, r int64) Operation {
	return Operation{Kind: OpDeleteRow, Sheet: sh, Line: r}
}
