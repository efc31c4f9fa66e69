package extruntime

import (
	"gridsheet/a1"
	"gridsheet/engine"
	"gridsheet/sheet"
)

// codeRunRequestWire is spec.md §6's exact request shape for a
// non-formula code cell: {transaction_id, x, y, sheet_id, code}.
type codeRunRequestWire struct {
	TransactionID string `json:"transaction_id"`
	X             int64  `json:"x"`
	Y             int64  `json:"y"`
	SheetID       string `json:"sheet_id"`
	Code          string `json:"code"`
}

func toCodeRunRequestWire(req engine.CodeRunRequest) codeRunRequestWire {
	return codeRunRequestWire{
		TransactionID: req.TransactionID,
		X:             req.X, Y: req.Y,
		SheetID: string(req.Sheet), Code: req.Code,
	}
}

// cellOutputWire is one [value, type_name] pair.
type cellOutputWire struct {
	Value    string `json:"value"`
	TypeName string `json:"type_name"`
}

func cellOutputFromWire(w *cellOutputWire) *engine.CellOutput {
	if w == nil {
		return nil
	}
	return &engine.CellOutput{Value: w.Value, TypeName: w.TypeName}
}

// sheetRangeWire is one entry of JsCodeResult.cells_accessed.
type sheetRangeWire struct {
	SheetID string `json:"sheet_id"`
	X1      int64  `json:"x1"`
	Y1      int64  `json:"y1"`
	X2      int64  `json:"x2"`
	Y2      int64  `json:"y2"`
}

// jsCodeResultWire is spec.md §6's JsCodeResult.
type jsCodeResultWire struct {
	TransactionID string             `json:"transaction_id"`
	Success       bool               `json:"success"`
	OutputValue   *cellOutputWire    `json:"output_value,omitempty"`
	OutputArray   [][]cellOutputWire `json:"output_array,omitempty"`
	StdOut        string             `json:"std_out,omitempty"`
	StdErr        string             `json:"std_err,omitempty"`
	LineNumber    *int               `json:"line_number,omitempty"`
	CancelCompute bool               `json:"cancel_compute,omitempty"`
	CellsAccessed []sheetRangeWire   `json:"cells_accessed,omitempty"`
}

func jsCodeResultFromWire(w jsCodeResultWire) engine.JsCodeResult {
	result := engine.JsCodeResult{
		TransactionID: w.TransactionID,
		Success:       w.Success,
		StdOut:        w.StdOut,
		StdErr:        w.StdErr,
		CancelCompute: w.CancelCompute,
		OutputValue:   cellOutputFromWire(w.OutputValue),
	}
	if w.OutputArray != nil {
		result.OutputArray = make([][]engine.CellOutput, len(w.OutputArray))
		for i, row := range w.OutputArray {
			result.OutputArray[i] = make([]engine.CellOutput, len(row))
			for j, c := range row {
				result.OutputArray[i][j] = engine.CellOutput{Value: c.Value, TypeName: c.TypeName}
			}
		}
	}
	for _, r := range w.CellsAccessed {
		result.CellsAccessed = append(result.CellsAccessed, engine.CellAccess{
			Sheet: sheet.SheetID(r.SheetID),
			Rect:  a1.NewRect(r.X1, r.Y1, r.X2, r.Y2),
		})
	}
	return result
}

// getCellsRequestWire is spec.md §6's get_cells(transaction_id, a1_query,
// sheet_id?) callback. A nil SheetID means "the sheet the calling code
// cell lives on", resolved by the Client from the request it dispatched.
type getCellsRequestWire struct {
	TransactionID string  `json:"transaction_id"`
	A1Query       string  `json:"a1_query"`
	SheetID       *string `json:"sheet_id,omitempty"`
}

// cellA1ValueWire is one cell of a get_cells response.
type cellA1ValueWire struct {
	X        int64  `json:"x"`
	Y        int64  `json:"y"`
	Value    string `json:"value"`
	TypeName string `json:"type_name"`
}

// cellA1ResponseWire is spec.md §6's CellA1Response.
type cellA1ResponseWire struct {
	X1             int64             `json:"x1"`
	Y1             int64             `json:"y1"`
	X2             int64             `json:"x2"`
	Y2             int64             `json:"y2"`
	TwoDimensional bool              `json:"two_dimensional"`
	W              int64             `json:"w"`
	H              int64             `json:"h"`
	Cells          []cellA1ValueWire `json:"cells"`
}

func cellA1ResponseToWire(resp engine.CellA1Response) cellA1ResponseWire {
	out := cellA1ResponseWire{
		X1: resp.Rect.Min.X, Y1: resp.Rect.Min.Y,
		X2: resp.Rect.Max.X, Y2: resp.Rect.Max.Y,
		TwoDimensional: resp.TwoDimensional, W: resp.W, H: resp.H,
	}
	for _, c := range resp.Cells {
		out.Cells = append(out.Cells, cellA1ValueWire{X: c.X, Y: c.Y, Value: c.Value, TypeName: c.TypeName})
	}
	return out
}

func cellA1ResponseFromWire(w cellA1ResponseWire) engine.CellA1Response {
	resp := engine.CellA1Response{
		Rect:           a1.NewRect(w.X1, w.Y1, w.X2, w.Y2),
		TwoDimensional: w.TwoDimensional,
		W:              w.W, H: w.H,
	}
	for _, c := range w.Cells {
		resp.Cells = append(resp.Cells, engine.CellA1Value{X: c.X, Y: c.Y, Value: c.Value, TypeName: c.TypeName})
	}
	return resp
}

// errorWire is an error envelope's body.
type errorWire struct {
	Message string `json:"message"`
}
