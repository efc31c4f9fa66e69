package sheet

import "gridsheet/cellvalue"

// DataTableKind distinguishes a code cell's computed output from an
// imported dataset's content.
type DataTableKind int

const (
	KindCodeRun DataTableKind = iota
	KindImport
)

// TableValue is a DataTable's output: either a single cell or a 2D array,
// matching the evaluator's Value shape (spec.md §4.4) without importing
// package formula here (formula depends on sheet for Ctx, not vice versa).
type TableValue struct {
	Cells [][]cellvalue.CellValue // row-major; len(Cells) == Height, len(Cells[0]) == Width
}

// SingleValue wraps one cell as a 1x1 TableValue.
func SingleValue(v cellvalue.CellValue) TableValue {
	return TableValue{Cells: [][]cellvalue.CellValue{{v}}}
}

// Width returns the array's column count, 0 if empty.
func (v TableValue) Width() int64 {
	if len(v.Cells) == 0 {
		return 0
	}
	return int64(len(v.Cells[0]))
}

// Height returns the array's row count.
func (v TableValue) Height() int64 { return int64(len(v.Cells)) }

// DataTable is the output of a code cell or an imported dataset, anchored
// at the top-left cell of its display rectangle (spec.md §3).
type DataTable struct {
	Kind  DataTableKind
	Value TableValue
	Name  string

	ShowName         bool
	ShowColumns      bool
	ShowUI           bool
	HeaderIsFirstRow bool
	AlternatingColors bool
	ReadOnly         bool

	ColumnHeaders []string
	DisplayOrder  []int // permutation of row indices after a user sort; nil means identity

	SpillError bool // set when another table's output region intersects this one
	SpillValue bool // intrinsic error from the evaluator itself

	ChartOutputW *int
	ChartOutputH *int
}

// NewDataTable returns a DataTable with the UI defaults the engine installs
// for a freshly computed code cell.
func NewDataTable(kind DataTableKind, name string, value TableValue) *DataTable {
	return &DataTable{
		Kind:        kind,
		Value:       value,
		Name:        name,
		ShowName:    true,
		ShowColumns: value.Height() > 1,
		ShowUI:      true,
	}
}

// UnspilledWidth/UnspilledHeight are the dimensions the table would occupy
// were it not collapsed into spill_error.
func (t *DataTable) UnspilledWidth() int64 {
	if t.Value.Width() == 0 {
		return 1
	}
	return t.Value.Width()
}

func (t *DataTable) UnspilledHeight() int64 {
	if t.Value.Height() == 0 {
		return 1
	}
	return t.Value.Height()
}

// EffectiveWidth/EffectiveHeight are the table's actual on-grid footprint:
// a single cell when spilled, else the full array.
func (t *DataTable) EffectiveWidth() int64 {
	if t.SpillError {
		return 1
	}
	return t.UnspilledWidth()
}

func (t *DataTable) EffectiveHeight() int64 {
	if t.SpillError {
		return 1
	}
	return t.UnspilledHeight()
}
