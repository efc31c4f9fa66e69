package engine

import (
	"github.com/shopspring/decimal"

	"gridsheet/a1"
	"gridsheet/cellvalue"
	"gridsheet/sheet"
)

// ExternalRuntime dispatches a non-formula code cell to whatever process
// actually runs it (package extruntime's zeromq client, in production).
// Submit must not block; the result comes back later through
// GridController.CalculationComplete, matching spec.md §6's async
// run_code_cell contract.
type ExternalRuntime interface {
	Submit(req CodeRunRequest)
}

// CodeRunRequest is everything the runtime needs to execute one code
// cell: its source, its language-implied position, and the transaction
// id to echo back so the result can be matched to the right
// PendingTransaction.
type CodeRunRequest struct {
	TransactionID string
	Sheet         sheet.SheetID
	X, Y          int64
	Code          string
}

// CellOutput is one typed scalar coming back from the runtime: a string
// rendering of the value plus a type tag telling us how to parse it.
type CellOutput struct {
	Value    string
	TypeName string
}

// CellAccess is one get_cells callback the runtime made while running,
// echoed back in the final result so the dependency index can be
// rebuilt without the engine having to track every callback live.
type CellAccess struct {
	Sheet sheet.SheetID
	Rect  a1.Rect
}

// JsCodeResult is the runtime's answer to a CodeRunRequest (spec.md §6's
// JsCodeResult / run_code_cell_completed payload).
type JsCodeResult struct {
	TransactionID string

	Success bool
	StdOut  string
	StdErr  string

	OutputValue *CellOutput
	OutputArray [][]CellOutput

	CancelCompute bool
	CellsAccessed []CellAccess
}

// CellA1Value is one cell in a get_cells response.
type CellA1Value struct {
	X, Y     int64
	Value    string
	TypeName string
}

// CellA1Response answers a runtime's get_cells callback (spec.md §6).
type CellA1Response struct {
	Rect           a1.Rect
	TwoDimensional bool
	W, H           int64
	Cells          []CellA1Value
}

func tableValueFromResult(result JsCodeResult) sheet.TableValue {
	if result.OutputArray != nil {
		cells := make([][]cellvalue.CellValue, len(result.OutputArray))
		for i, row := range result.OutputArray {
			cells[i] = make([]cellvalue.CellValue, len(row))
			for j, out := range row {
				cells[i][j] = cellValueFromTyped(out.Value, out.TypeName)
			}
		}
		return sheet.TableValue{Cells: cells}
	}
	if result.OutputValue != nil {
		return sheet.SingleValue(cellValueFromTyped(result.OutputValue.Value, result.OutputValue.TypeName))
	}
	return sheet.SingleValue(cellvalue.NewBlank())
}

// cellValueFromTyped coerces one runtime scalar (string value + type
// tag) into a CellValue, the inbound half of the boundary spec.md §6
// draws between the runtime's native types and the grid's value model.
func cellValueFromTyped(value, typeName string) cellvalue.CellValue {
	switch typeName {
	case "number":
		d, err := decimal.NewFromString(value)
		if err != nil {
			return cellvalue.NewError(cellvalue.RunError{Msg: cellvalue.RunErrorMsg{Kind: cellvalue.ErrBadNumber}})
		}
		return cellvalue.NewNumber(d)
	case "logical":
		return cellvalue.NewLogical(value == "true" || value == "TRUE" || value == "True")
	case "html":
		return cellvalue.CellValue{Kind: cellvalue.HTML, HTML: value}
	case "image":
		return cellvalue.CellValue{Kind: cellvalue.Image, Image: value}
	case "blank":
		return cellvalue.NewBlank()
	default:
		return cellvalue.NewText(value)
	}
}
