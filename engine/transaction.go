package engine

import (
	"fmt"

	"gridsheet/a1"
	"gridsheet/cellvalue"
	"gridsheet/grid"
	"gridsheet/sheet"
)

// unbounded stands in for "to the edge of the grid" in dirty-rect
// reporting for structural ops, mirroring package grid's internal `inf`
// sentinel (spec.md §9 treats the exact bound as an implementation
// detail; render invalidation only needs "large enough to cover
// everything downstream of the insert/remove point").
const unbounded int64 = 1 << 40

type runTask struct {
	Sheet sheet.SheetID
	Pos   a1.Pos
}

type posKey struct {
	Sheet sheet.SheetID
	Pos   a1.Pos
}

// txnKind says which history stack (if any) a transaction's compensating
// ops belong on once it commits (spec.md §5): a user edit goes on the
// undo stack and clears redo; replaying the undo stack's top produces a
// fresh entry for redo, and vice versa.
type txnKind int

const (
	txnUser txnKind = iota
	txnUndoReplay
	txnRedoReplay
)

// PendingTransaction accumulates one atomic batch of operations: the
// compensating ops built so far (already in correct reverse-apply
// order), the run queue of code cells still to execute, the
// already-queued and already-completed sets used for circular-reference
// detection, and the accumulated render-dirty rectangles. Mirrors
// spec.md §4.5's PendingTransaction; fields are unexported because
// callers only ever see the finished TransactionResult.
//
// Circular references are detected with two sets rather than one: a
// position can legitimately be enqueued by more than one completed
// dependency within the same transaction (a diamond in the dependency
// graph) — `queued` dedupes that without error. But a position that has
// already *completed* this transaction and is asked to run again is, by
// construction, on a cycle: the only way a write's propagation revisits
// an already-finished cell is a dependency loop back to it. `done`
// catches that case.
type PendingTransaction struct {
	id      string
	kind    txnKind
	inverse []Operation
	queue   []runTask
	queued  map[posKey]bool
	done    map[posKey]bool
	dirty   []a1.Rect

	waitTask runTask // the task a suspended transaction is waiting on
}

func newTransaction(id string, kind txnKind) *PendingTransaction {
	return &PendingTransaction{id: id, kind: kind, queued: map[posKey]bool{}, done: map[posKey]bool{}}
}

func (txn *PendingTransaction) prependInverse(op Operation) {
	txn.inverse = append([]Operation{op}, txn.inverse...)
}

// enqueue adds task to the run queue unless it is already waiting there
// or has already completed this transaction.
func (txn *PendingTransaction) enqueue(task runTask) {
	key := posKey{task.Sheet, task.Pos}
	if txn.queued[key] || txn.done[key] {
		return
	}
	txn.queued[key] = true
	txn.queue = append(txn.queue, task)
}

// TransactionResult reports what a transaction did: either it committed
// (spec.md §4.5 step 6) or it suspended awaiting a non-formula runtime
// response (step 5's "Non-formula" branch).
type TransactionResult struct {
	TransactionID string
	Committed     bool
	Dirty         []a1.Rect

	WaitingLanguage cellvalue.Language
	WaitingSheet    sheet.SheetID
	WaitingPos      a1.Pos
}

// applyOperations runs ops as one transaction: apply each op (recording
// its compensating op), then drain the run queue. kind controls which
// history stack (if any) the transaction's compensating ops land on
// once it commits (spec.md §4.5/§5).
func (c *GridController) applyOperations(id string, ops []Operation, kind txnKind) (*TransactionResult, error) {
	txn := newTransaction(id, kind)
	for _, op := range ops {
		if err := c.applyOp(txn, op); err != nil {
			return nil, err
		}
	}
	return c.drain(txn)
}

func (c *GridController) applyOp(txn *PendingTransaction, op Operation) error {
	sh, ok := c.sheets[op.Sheet]
	if !ok {
		return fmt.Errorf("engine: unknown sheet %q", op.Sheet)
	}

	switch op.Kind {
	case OpSetCellValue:
		oldVal, oldTable := snapshotCell(sh, op.Pos)
		txn.dirty = append(txn.dirty, restoreCellSnapshot(sh, op.Pos, op.Value, nil)...)
		txn.prependInverse(Operation{Kind: opRestoreCell, Sheet: op.Sheet, Pos: op.Pos, snapVal: oldVal, snapTable: oldTable})
		c.enqueueDependents(txn, op.Sheet, a1.SinglePos(op.Pos))

	case OpSetCodeCell:
		oldVal, oldTable := snapshotCell(sh, op.Pos)
		txn.dirty = append(txn.dirty, restoreCellSnapshot(sh, op.Pos, cellvalue.NewCode(op.Code.Language, op.Code.Code), nil)...)
		txn.enqueue(runTask{op.Sheet, op.Pos})
		txn.prependInverse(Operation{Kind: opRestoreCell, Sheet: op.Sheet, Pos: op.Pos, snapVal: oldVal, snapTable: oldTable})

	case opRestoreCell:
		oldVal, oldTable := snapshotCell(sh, op.Pos)
		txn.dirty = append(txn.dirty, restoreCellSnapshot(sh, op.Pos, op.snapVal, op.snapTable)...)
		if op.snapVal.Kind == cellvalue.Code && op.snapTable == nil {
			txn.enqueue(runTask{op.Sheet, op.Pos})
		}
		txn.prependInverse(Operation{Kind: opRestoreCell, Sheet: op.Sheet, Pos: op.Pos, snapVal: oldVal, snapTable: oldTable})
		c.enqueueDependents(txn, op.Sheet, a1.SinglePos(op.Pos))

	case OpSetFormat:
		old := sh.FormatsCell.Get(op.Pos)
		sh.SetCellFormat(op.Pos, op.Format)
		txn.dirty = append(txn.dirty, a1.SinglePos(op.Pos))
		txn.prependInverse(Operation{Kind: opReplaceFormat, Sheet: op.Sheet, Pos: op.Pos, Format: old})

	case opReplaceFormat:
		old := sh.FormatsCell.Get(op.Pos)
		sh.FormatsCell.Set(op.Pos, op.Format)
		txn.dirty = append(txn.dirty, a1.SinglePos(op.Pos))
		txn.prependInverse(Operation{Kind: opReplaceFormat, Sheet: op.Sheet, Pos: op.Pos, Format: old})

	case OpSetBorder:
		layer := borderLayer(sh, op.BorderSide)
		prev := snapshotBorderRect(layer, op.BorderRect)
		setBorderRect(layer, op.BorderRect, op.BorderStyle)
		txn.dirty = append(txn.dirty, op.BorderRect)
		txn.prependInverse(Operation{Kind: opRestoreBorder, Sheet: op.Sheet, BorderRect: op.BorderRect, BorderSide: op.BorderSide, borderSnap: prev})

	case opRestoreBorder:
		layer := borderLayer(sh, op.BorderSide)
		cur := snapshotBorderRect(layer, op.BorderRect)
		setBorderRect(layer, op.BorderRect, nil)
		for _, e := range op.borderSnap {
			setBorderRect(layer, e.Rect, e.Value)
		}
		txn.dirty = append(txn.dirty, op.BorderRect)
		txn.prependInverse(Operation{Kind: opRestoreBorder, Sheet: op.Sheet, BorderRect: op.BorderRect, BorderSide: op.BorderSide, borderSnap: cur})

	case OpInsertColumn:
		sh.InsertColumn(op.Line, op.CopyPolicy)
		txn.dirty = append(txn.dirty, columnDirtyRect(op.Line))
		txn.prependInverse(Operation{Kind: OpDeleteColumn, Sheet: op.Sheet, Line: op.Line})

	case OpDeleteColumn:
		snap := sh.RemoveColumn(op.Line)
		txn.dirty = append(txn.dirty, columnDirtyRect(op.Line))
		txn.prependInverse(Operation{Kind: opRestoreColumn, Sheet: op.Sheet, Line: op.Line, colSnapshot: &snap})

	case opRestoreColumn:
		sh.RestoreColumn(op.Line, *op.colSnapshot)
		txn.dirty = append(txn.dirty, columnDirtyRect(op.Line))
		txn.prependInverse(Operation{Kind: OpDeleteColumn, Sheet: op.Sheet, Line: op.Line})

	case OpInsertRow:
		sh.InsertRow(op.Line, op.CopyPolicy)
		txn.dirty = append(txn.dirty, rowDirtyRect(op.Line))
		txn.prependInverse(Operation{Kind: OpDeleteRow, Sheet: op.Sheet, Line: op.Line})

	case OpDeleteRow:
		snap := sh.RemoveRow(op.Line)
		txn.dirty = append(txn.dirty, rowDirtyRect(op.Line))
		txn.prependInverse(Operation{Kind: opRestoreRow, Sheet: op.Sheet, Line: op.Line, rowSnapshot: &snap})

	case opRestoreRow:
		sh.RestoreRow(op.Line, *op.rowSnapshot)
		txn.dirty = append(txn.dirty, rowDirtyRect(op.Line))
		txn.prependInverse(Operation{Kind: OpDeleteRow, Sheet: op.Sheet, Line: op.Line})

	default:
		return fmt.Errorf("engine: unhandled operation kind %v", op.Kind)
	}
	return nil
}

func columnDirtyRect(c int64) a1.Rect { return a1.NewRect(c, 1, unbounded, unbounded) }
func rowDirtyRect(r int64) a1.Rect    { return a1.NewRect(1, r, unbounded, unbounded) }

func snapshotCell(sh *sheet.Sheet, pos a1.Pos) (cellvalue.CellValue, *sheet.DataTable) {
	v := sh.GetValue(pos)
	if t, ok := sh.DataTables.Get(pos); ok {
		cp := *t
		return v, &cp
	}
	return v, nil
}

// restoreCellSnapshot installs v (and, if non-nil, reinstalls t as the
// DataTable anchored at pos), removing whatever table currently sits
// there first. Returns the dirty rectangles touched.
func restoreCellSnapshot(sh *sheet.Sheet, pos a1.Pos, v cellvalue.CellValue, t *sheet.DataTable) []a1.Rect {
	var dirty []a1.Rect
	if _, ok := sh.DataTables.Get(pos); ok {
		dirty = append(dirty, sh.DataTables.Remove(pos)...)
	}
	sh.SetValue(pos, v)
	if t != nil {
		tcopy := *t
		dirty = append(dirty, sh.DataTables.InsertFull(pos, &tcopy)...)
	}
	dirty = append(dirty, a1.SinglePos(pos))
	return dirty
}

func borderLayer(sh *sheet.Sheet, side BorderSide) *grid.Contiguous2D[*sheet.BorderStyle] {
	switch side {
	case BorderLeft:
		return sh.Borders.Left
	case BorderRight:
		return sh.Borders.Right
	case BorderTop:
		return sh.Borders.Top
	default:
		return sh.Borders.Bottom
	}
}

func snapshotBorderRect(layer *grid.Contiguous2D[*sheet.BorderStyle], rect a1.Rect) []borderRectValue {
	var out []borderRectValue
	for _, e := range layer.NondefaultRectsInRect(rect) {
		out = append(out, borderRectValue{Rect: e.Rect, Value: e.Value})
	}
	return out
}

func setBorderRect(layer *grid.Contiguous2D[*sheet.BorderStyle], rect a1.Rect, style *sheet.BorderStyle) {
	x2, y2 := rect.Max.X, rect.Max.Y
	layer.SetRect(rect.Min.X, rect.Min.Y, &x2, &y2, style)
}
