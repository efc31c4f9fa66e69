package engine

import (
	"fmt"
	"strconv"

	"gridsheet/a1"
	"gridsheet/cellvalue"
	"gridsheet/grid"
	"gridsheet/sheet"
)

// GridController owns every sheet in a file plus the machinery spec.md
// §4.5 describes for turning a user's operations into committed state:
// the dependency index, the undo/redo stacks, and the set of
// transactions currently suspended waiting on an external runtime
// response. Grounded on the teacher's spreadsheet.Engine (one map of
// cells plus a propagateUpdates walk); generalized here to many sheets,
// spill-aware storage, and async code cells.
type GridController struct {
	sheets     map[sheet.SheetID]*sheet.Sheet
	sheetOrder []sheet.SheetID
	sheetNames map[string]sheet.SheetID

	// depIndex[S] tracks, for every code cell anywhere in the file that
	// has read from sheet S, the union rectangle of what it read on S.
	// Keyed by the dependent's own (sheet, pos) rather than by the
	// region it reads, since a write always needs "who depends on this
	// rectangle", never the reverse.
	depIndex map[sheet.SheetID]*regionIndex

	undoStack [][]Operation
	redoStack [][]Operation

	pending map[string]*PendingTransaction
	runtime ExternalRuntime

	nextTxnID int
}

type regionIndex = grid.RegionMap[posKey, []a1.Rect]

func newRegionIndex() *regionIndex { return grid.NewRegionMap[posKey, []a1.Rect]() }

// NewGridController returns an empty controller with no sheets.
func NewGridController(runtime ExternalRuntime) *GridController {
	return &GridController{
		sheets:     map[sheet.SheetID]*sheet.Sheet{},
		sheetNames: map[string]sheet.SheetID{},
		depIndex:   map[sheet.SheetID]*regionIndex{},
		pending:    map[string]*PendingTransaction{},
		runtime:    runtime,
	}
}

// AddSheet registers a new sheet and returns it.
func (c *GridController) AddSheet(id sheet.SheetID, name string) *sheet.Sheet {
	sh := sheet.NewSheet(id, name)
	c.sheets[id] = sh
	c.sheetOrder = append(c.sheetOrder, id)
	c.sheetNames[name] = id
	return sh
}

// Sheet returns the sheet registered under id, if any.
func (c *GridController) Sheet(id sheet.SheetID) (*sheet.Sheet, bool) {
	sh, ok := c.sheets[id]
	return sh, ok
}

// resolveSheetByName backs evalCtx.ResolveSheet: it looks a sheet id up by
// name; "" is not a sheet name and resolves to nothing.
func (c *GridController) resolveSheetByName(name string) (a1.SheetID, bool) {
	if name == "" {
		return "", false
	}
	id, ok := c.sheetNames[name]
	return id, ok
}

// DisplayValue returns the value visible at pos on sh: a spilled data
// table's cell if one covers pos, else the raw stored value. Exported
// for front doors like cmd/gridctl that need to show a cell's current
// contents without reimplementing the spill-read path resolveCellForRead
// already owns.
func (c *GridController) DisplayValue(sh sheet.SheetID, pos a1.Pos) (cellvalue.CellValue, bool) {
	shObj, ok := c.sheets[sh]
	if !ok {
		return cellvalue.CellValue{}, false
	}
	return resolveCellForRead(shObj, pos), true
}

func (c *GridController) nextTransactionID() string {
	c.nextTxnID++
	return "txn-" + strconv.Itoa(c.nextTxnID)
}

// ApplyUserOperations runs ops as one user-initiated transaction. Once it
// (eventually — possibly after a suspend/resume round trip through an
// external runtime) commits, its compensating ops are pushed onto the
// undo stack and the redo stack is cleared (spec.md §5's "new user edit
// invalidates any pending redo").
func (c *GridController) ApplyUserOperations(ops []Operation) (*TransactionResult, error) {
	return c.applyOperations(c.nextTransactionID(), ops, txnUser)
}

// Undo replays the most recent user transaction's compensating ops as a
// fresh transaction; once that replay commits, what it produces is
// pushed onto the redo stack (spec.md §5: "undo replays the reverse op
// list... result is reapplied onto the redo stack").
func (c *GridController) Undo() (*TransactionResult, error) {
	if len(c.undoStack) == 0 {
		return nil, fmt.Errorf("engine: nothing to undo")
	}
	ops := c.undoStack[len(c.undoStack)-1]
	c.undoStack = c.undoStack[:len(c.undoStack)-1]
	return c.applyOperations(c.nextTransactionID(), ops, txnUndoReplay)
}

// Redo is Undo's mirror image.
func (c *GridController) Redo() (*TransactionResult, error) {
	if len(c.redoStack) == 0 {
		return nil, fmt.Errorf("engine: nothing to redo")
	}
	ops := c.redoStack[len(c.redoStack)-1]
	c.redoStack = c.redoStack[:len(c.redoStack)-1]
	return c.applyOperations(c.nextTransactionID(), ops, txnRedoReplay)
}

// commit finalizes a transaction with an empty run queue: route its
// compensating op list onto whichever history stack its kind calls for,
// and return the accumulated dirty rects.
func (c *GridController) commit(txn *PendingTransaction) (*TransactionResult, error) {
	switch txn.kind {
	case txnUser:
		c.undoStack = append(c.undoStack, txn.inverse)
		c.redoStack = nil
	case txnUndoReplay:
		c.redoStack = append(c.redoStack, txn.inverse)
	case txnRedoReplay:
		c.undoStack = append(c.undoStack, txn.inverse)
	}
	return &TransactionResult{TransactionID: txn.id, Committed: true, Dirty: txn.dirty}, nil
}

// enqueueDependents finds every code cell that has previously read from
// rect on sheet sh and either enqueues it to re-run or, if it already
// completed earlier in this same transaction, installs an immediate
// CircularReference error for it instead of re-running it (spec.md
// §4.5's cycle rule: revisiting an already-finished cell within one
// transaction is only possible via a dependency loop back to it).
func (c *GridController) enqueueDependents(txn *PendingTransaction, sh sheet.SheetID, rect a1.Rect) {
	idx, ok := c.depIndex[sh]
	if !ok {
		return
	}
	for _, dep := range idx.Query(rect) {
		if txn.done[dep] {
			c.installError(txn, dep.Sheet, dep.Pos, cellvalue.ErrCircularReference)
			continue
		}
		txn.enqueue(runTask{dep.Sheet, dep.Pos})
	}
}

// updateDependencyIndex replaces dependent's recorded reads with
// accessedBySheet, one union rectangle per sheet it touched.
func (c *GridController) updateDependencyIndex(dependent posKey, accessedBySheet map[sheet.SheetID][]a1.Rect) {
	for _, idx := range c.depIndex {
		idx.Remove(dependent)
	}
	for sh, rects := range accessedBySheet {
		if len(rects) == 0 {
			continue
		}
		union := rects[0]
		for _, r := range rects[1:] {
			union = union.Union(r)
		}
		idx, ok := c.depIndex[sh]
		if !ok {
			idx = newRegionIndex()
			c.depIndex[sh] = idx
		}
		idx.Insert(dependent, union, rects)
	}
}

// installError replaces whatever is anchored at pos with a 1x1 error
// table, leaving the cell's stored Code value untouched.
func (c *GridController) installError(txn *PendingTransaction, sh sheet.SheetID, pos a1.Pos, kind cellvalue.RunErrorKind) {
	shObj, ok := c.sheets[sh]
	if !ok {
		return
	}
	errVal := cellvalue.NewError(cellvalue.RunError{Msg: cellvalue.RunErrorMsg{Kind: kind}})
	table := sheet.NewDataTable(sheet.KindCodeRun, "", sheet.SingleValue(errVal))
	dirty := shObj.DataTables.InsertFull(pos, table)
	txn.dirty = append(txn.dirty, dirty...)
}

// drain runs queued code cells to completion or until one of them
// requires the external runtime, in which case the transaction is
// parked in c.pending and a non-committed TransactionResult is
// returned immediately (spec.md §4.5 step 5/6).
func (c *GridController) drain(txn *PendingTransaction) (*TransactionResult, error) {
	for len(txn.queue) > 0 {
		task := txn.queue[0]
		txn.queue = txn.queue[1:]

		key := posKey{task.Sheet, task.Pos}
		delete(txn.queued, key)
		if txn.done[key] {
			continue
		}
		shObj, ok := c.sheets[task.Sheet]
		if !ok {
			continue
		}
		cv := shObj.GetValue(task.Pos)
		if cv.Kind != cellvalue.Code {
			continue // overwritten by a later op in the same transaction
		}

		txn.done[key] = true
		if cv.Code.Language == cellvalue.LanguageFormula {
			c.runFormula(txn, task, cv.Code.Code)
			continue
		}

		txn.waitTask = task
		c.pending[txn.id] = txn
		c.runtime.Submit(CodeRunRequest{
			TransactionID: txn.id,
			Sheet:         task.Sheet,
			X:             task.Pos.X,
			Y:             task.Pos.Y,
			Code:          cv.Code.Code,
		})
		return &TransactionResult{
			TransactionID:   txn.id,
			Committed:       false,
			Dirty:           txn.dirty,
			WaitingLanguage: cv.Code.Language,
			WaitingSheet:    task.Sheet,
			WaitingPos:      task.Pos,
		}, nil
	}
	return c.commit(txn)
}

func (c *GridController) runFormula(txn *PendingTransaction, task runTask, code string) {
	shObj := c.sheets[task.Sheet]
	ec := newEvalCtx(c)

	val, runErr := evalFormula(ec, code, task)

	var table *sheet.DataTable
	if runErr != nil {
		table = sheet.NewDataTable(sheet.KindCodeRun, "", sheet.SingleValue(cellvalue.NewError(*runErr)))
	} else {
		table = sheet.NewDataTable(sheet.KindCodeRun, "", sheet.TableValue{Cells: val})
	}
	dirty := shObj.DataTables.InsertFull(task.Pos, table)
	txn.dirty = append(txn.dirty, dirty...)

	key := posKey{task.Sheet, task.Pos}
	c.updateDependencyIndex(key, ec.accessed)
	if rect, ok := shObj.DataTables.EffectiveRect(task.Pos); ok {
		c.enqueueDependents(txn, task.Sheet, rect)
	}
}

// CalculationComplete resumes a transaction that was suspended awaiting
// a non-formula runtime result, installs the result, and continues
// draining (spec.md §6's run_code_cell_completed pipeline).
func (c *GridController) CalculationComplete(txnID string, result JsCodeResult) (*TransactionResult, error) {
	txn, ok := c.pending[txnID]
	if !ok {
		return nil, fmt.Errorf("engine: no suspended transaction %q", txnID)
	}
	delete(c.pending, txnID)

	task := txn.waitTask
	key := posKey{task.Sheet, task.Pos}
	shObj, ok := c.sheets[task.Sheet]
	if !ok {
		return nil, fmt.Errorf("engine: unknown sheet %q", task.Sheet)
	}

	switch {
	case result.CancelCompute:
		table := sheet.NewDataTable(sheet.KindCodeRun, "", sheet.SingleValue(cellvalue.NewBlank()))
		dirty := shObj.DataTables.InsertFull(task.Pos, table)
		txn.dirty = append(txn.dirty, dirty...)

	case !result.Success:
		table := sheet.NewDataTable(sheet.KindCodeRun, "", sheet.SingleValue(cellvalue.NewError(cellvalue.RunError{Msg: cellvalue.RunErrorMsg{Kind: cellvalue.ErrUnexpected}})))
		dirty := shObj.DataTables.InsertFull(task.Pos, table)
		txn.dirty = append(txn.dirty, dirty...)

	default:
		tv := tableValueFromResult(result)
		table := sheet.NewDataTable(sheet.KindCodeRun, "", tv)
		dirty := shObj.DataTables.InsertFull(task.Pos, table)
		txn.dirty = append(txn.dirty, dirty...)

		accessed := map[sheet.SheetID][]a1.Rect{}
		for _, ca := range result.CellsAccessed {
			accessed[ca.Sheet] = append(accessed[ca.Sheet], ca.Rect)
		}
		c.updateDependencyIndex(key, accessed)
		if rect, ok := shObj.DataTables.EffectiveRect(task.Pos); ok {
			c.enqueueDependents(txn, task.Sheet, rect)
		}
	}

	return c.drain(txn)
}

// GetCells answers a running external-runtime task's get_cells callback
// against the sheet state as it stands mid-transaction.
func (c *GridController) GetCells(txnID string, sh sheet.SheetID, rect a1.Rect) (CellA1Response, error) {
	if _, ok := c.pending[txnID]; !ok {
		return CellA1Response{}, fmt.Errorf("engine: no suspended transaction %q", txnID)
	}
	shObj, ok := c.sheets[sh]
	if !ok {
		return CellA1Response{}, fmt.Errorf("engine: unknown sheet %q", sh)
	}
	var cells []CellA1Value
	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		for x := rect.Min.X; x <= rect.Max.X; x++ {
			pos := a1.Pos{X: x, Y: y}
			v := resolveCellForRead(shObj, pos)
			cells = append(cells, CellA1Value{X: x, Y: y, Value: v.AsText(), TypeName: v.Kind.String()})
		}
	}
	return CellA1Response{
		Rect:           rect,
		TwoDimensional: rect.Width() > 1 || rect.Height() > 1,
		W:              rect.Width(),
		H:              rect.Height(),
		Cells:          cells,
	}, nil
}
