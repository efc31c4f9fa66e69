package sheet

import (
	"gridsheet/a1"
	"gridsheet/cellvalue"
	"gridsheet/grid"
)

// SheetID identifies a sheet within a file.
type SheetID = a1.SheetID

// Sheet owns one spreadsheet tab's entire interior: values, formatting,
// borders, and data tables. spec.md §3 describes this split into a
// separate SheetColumns (BTreeMap<i64,Column> + has_cell_value) wrapped
// by Sheet; here has_cell_value and the values themselves are both plain
// Contiguous2D layers directly on Sheet; a Column-per-index map buys
// nothing once Contiguous2D already amortizes sparse storage over RL
// blocks, and spec.md §9 explicitly allows realizing the column storage
// with any structure that preserves the public contract.
type Sheet struct {
	ID   SheetID
	Name string

	Values       *grid.Contiguous2D[cellvalue.CellValue]
	HasCellValue *grid.Contiguous2D[bool]

	FormatsCell   *grid.Contiguous2D[Format]
	FormatsRow    map[int64]Format
	FormatsColumn map[int64]Format
	FormatAll     Format

	Borders    BordersA1
	DataTables *SheetDataTables

	ColWidths  map[int64]float64
	RowHeights map[int64]float64
}

// NewSheet returns an empty sheet.
func NewSheet(id SheetID, name string) *Sheet {
	return &Sheet{
		ID:            id,
		Name:          name,
		Values:        grid.New(cellvalue.NewBlank()),
		HasCellValue:  grid.New(false),
		FormatsCell:   grid.New(Format{}),
		FormatsRow:    map[int64]Format{},
		FormatsColumn: map[int64]Format{},
		Borders:       NewBordersA1(),
		DataTables:    NewSheetDataTables(),
		ColWidths:     map[int64]float64{},
		RowHeights:    map[int64]float64{},
	}
}

// GetValue returns the cell value at pos (Blank if unset).
func (s *Sheet) GetValue(pos a1.Pos) cellvalue.CellValue { return s.Values.Get(pos) }

// SetValue installs v at pos and keeps HasCellValue in lockstep, the
// invariant spec.md §8 requires: has_cell_value.get(p).is_some() iff
// get_value(p).is_some().
func (s *Sheet) SetValue(pos a1.Pos, v cellvalue.CellValue) {
	x2, y2 := pos.X, pos.Y
	if v.IsBlank() {
		s.Values.SetRect(pos.X, pos.Y, &x2, &y2, cellvalue.NewBlank())
		s.HasCellValue.Set(pos, false)
		return
	}
	s.Values.SetRect(pos.X, pos.Y, &x2, &y2, v)
	s.HasCellValue.Set(pos, true)
}

// EffectiveFormat resolves the format cascade at pos: cell -> row ->
// column -> sheet_all, taking the topmost non-nil value per field
// (spec.md §4.3).
func (s *Sheet) EffectiveFormat(pos a1.Pos) Format {
	f := s.FormatAll
	if col, ok := s.FormatsColumn[pos.X]; ok {
		f = MergeFormat(col, f)
	}
	if row, ok := s.FormatsRow[pos.Y]; ok {
		f = MergeFormat(row, f)
	}
	if cell := s.FormatsCell.Get(pos); !cell.IsEmpty() {
		f = MergeFormat(cell, f)
	}
	return f
}

// SetCellFormat merges patch onto whatever format is already set at pos.
func (s *Sheet) SetCellFormat(pos a1.Pos, patch Format) {
	cur := s.FormatsCell.Get(pos)
	merged := MergeFormat(patch, cur)
	x2, y2 := pos.X, pos.Y
	s.FormatsCell.SetRect(pos.X, pos.Y, &x2, &y2, merged)
}

// InsertColumn shifts every layer's content at x >= c right by one,
// following spec.md §4.3's three-step description: values/has_cell_value,
// then every formatting layer and the borders/data-table caches.
func (s *Sheet) InsertColumn(c int64, policy grid.CopyFormats) {
	s.Values.InsertColumn(c, policy)
	s.HasCellValue.InsertColumn(c, policy)
	s.FormatsCell.InsertColumn(c, policy)
	s.Borders.Left.InsertColumn(c, policy)
	s.Borders.Right.InsertColumn(c, policy)
	s.Borders.Top.InsertColumn(c, policy)
	s.Borders.Bottom.InsertColumn(c, policy)
	s.DataTables.ShiftColumns(c, 1)
	s.shiftColumnKeyedMaps(c, 1)
}

// RemoveColumn is InsertColumn's inverse; it returns enough state to
// reinstate the column on undo.
func (s *Sheet) RemoveColumn(c int64) ColumnSnapshot {
	snap := ColumnSnapshot{
		Values:       s.Values.RemoveColumn(c),
		HasCellValue: s.HasCellValue.RemoveColumn(c),
		Formats:      s.FormatsCell.RemoveColumn(c),
		BorderLeft:   s.Borders.Left.RemoveColumn(c),
		BorderRight:  s.Borders.Right.RemoveColumn(c),
		BorderTop:    s.Borders.Top.RemoveColumn(c),
		BorderBottom: s.Borders.Bottom.RemoveColumn(c),
		ColumnFormat: s.FormatsColumn[c],
		ColWidth:     s.ColWidths[c],
	}
	s.DataTables.ShiftColumns(c, -1)
	s.shiftColumnKeyedMaps(c+1, -1)
	return snap
}

// InsertRow is InsertColumn's row-axis twin.
func (s *Sheet) InsertRow(r int64, policy grid.CopyFormats) {
	s.Values.InsertRow(r, policy)
	s.HasCellValue.InsertRow(r, policy)
	s.FormatsCell.InsertRow(r, policy)
	s.Borders.Left.InsertRow(r, policy)
	s.Borders.Right.InsertRow(r, policy)
	s.Borders.Top.InsertRow(r, policy)
	s.Borders.Bottom.InsertRow(r, policy)
	s.DataTables.ShiftRows(r, 1)
	s.shiftRowKeyedMaps(r, 1)
}

// RemoveRow is RemoveColumn's row-axis twin.
func (s *Sheet) RemoveRow(r int64) RowSnapshot {
	snap := RowSnapshot{
		Values:       s.Values.RemoveRow(r),
		HasCellValue: s.HasCellValue.RemoveRow(r),
		Formats:      s.FormatsCell.RemoveRow(r),
		BorderLeft:   s.Borders.Left.RemoveRow(r),
		BorderRight:  s.Borders.Right.RemoveRow(r),
		BorderTop:    s.Borders.Top.RemoveRow(r),
		BorderBottom: s.Borders.Bottom.RemoveRow(r),
		RowFormat:    s.FormatsRow[r],
		RowHeight:    s.RowHeights[r],
	}
	s.DataTables.ShiftRows(r, -1)
	s.shiftRowKeyedMaps(r+1, -1)
	return snap
}

func (s *Sheet) shiftColumnKeyedMaps(from int64, delta int64) {
	s.FormatsColumn = shiftInt64Map(s.FormatsColumn, from, delta)
	s.ColWidths = shiftFloatMap(s.ColWidths, from, delta)
}

func (s *Sheet) shiftRowKeyedMaps(from int64, delta int64) {
	s.FormatsRow = shiftInt64Map(s.FormatsRow, from, delta)
	s.RowHeights = shiftFloatMap(s.RowHeights, from, delta)
}

// shiftInt64Map/shiftFloatMap rebuild a line-keyed map after an insert
// (from==the new line, delta==1) or a remove (from==the line after the
// removed one, delta==-1). On removal the line actually being deleted is
// from-1; its entry is dropped here rather than left to collide with the
// neighbor shifting into its place (the caller has already captured it
// into a snapshot for undo before calling this).
func shiftInt64Map(m map[int64]Format, from, delta int64) map[int64]Format {
	out := make(map[int64]Format, len(m))
	for k, v := range m {
		if delta < 0 && k == from-1 {
			continue
		}
		out[shiftKey(k, from, delta)] = v
	}
	return out
}

func shiftFloatMap(m map[int64]float64, from, delta int64) map[int64]float64 {
	out := make(map[int64]float64, len(m))
	for k, v := range m {
		if delta < 0 && k == from-1 {
			continue
		}
		out[shiftKey(k, from, delta)] = v
	}
	return out
}

func shiftKey(k, from, delta int64) int64 {
	if k >= from {
		return k + delta
	}
	return k
}

// ColumnSnapshot is what RemoveColumn captures to support undo.
type ColumnSnapshot struct {
	Values       grid.LineUpdate[cellvalue.CellValue]
	HasCellValue grid.LineUpdate[bool]
	Formats      grid.LineUpdate[Format]
	BorderLeft   grid.LineUpdate[*BorderStyle]
	BorderRight  grid.LineUpdate[*BorderStyle]
	BorderTop    grid.LineUpdate[*BorderStyle]
	BorderBottom grid.LineUpdate[*BorderStyle]
	ColumnFormat Format
	ColWidth     float64
}

// RowSnapshot is what RemoveRow captures to support undo.
type RowSnapshot struct {
	Values       grid.LineUpdate[cellvalue.CellValue]
	HasCellValue grid.LineUpdate[bool]
	Formats      grid.LineUpdate[Format]
	BorderLeft   grid.LineUpdate[*BorderStyle]
	BorderRight  grid.LineUpdate[*BorderStyle]
	BorderTop    grid.LineUpdate[*BorderStyle]
	BorderBottom grid.LineUpdate[*BorderStyle]
	RowFormat    Format
	RowHeight    float64
}

// RestoreColumn reinstates a ColumnSnapshot at c, the inverse of
// RemoveColumn, used to replay undo.
func (s *Sheet) RestoreColumn(c int64, snap ColumnSnapshot) {
	s.InsertColumn(c, grid.CopyFormatsNone)
	s.Values.Restore(c, snap.Values)
	s.HasCellValue.Restore(c, snap.HasCellValue)
	s.FormatsCell.Restore(c, snap.Formats)
	s.Borders.Left.Restore(c, snap.BorderLeft)
	s.Borders.Right.Restore(c, snap.BorderRight)
	s.Borders.Top.Restore(c, snap.BorderTop)
	s.Borders.Bottom.Restore(c, snap.BorderBottom)
	if !snap.ColumnFormat.IsEmpty() {
		s.FormatsColumn[c] = snap.ColumnFormat
	}
	if snap.ColWidth != 0 {
		s.ColWidths[c] = snap.ColWidth
	}
}

// RestoreRow reinstates a RowSnapshot at r, the inverse of RemoveRow.
func (s *Sheet) RestoreRow(r int64, snap RowSnapshot) {
	s.InsertRow(r, grid.CopyFormatsNone)
	s.Values.Restore(r, snap.Values)
	s.HasCellValue.Restore(r, snap.HasCellValue)
	s.FormatsCell.Restore(r, snap.Formats)
	s.Borders.Left.Restore(r, snap.BorderLeft)
	s.Borders.Right.Restore(r, snap.BorderRight)
	s.Borders.Top.Restore(r, snap.BorderTop)
	s.Borders.Bottom.Restore(r, snap.BorderBottom)
	if !snap.RowFormat.IsEmpty() {
		s.FormatsRow[r] = snap.RowFormat
	}
	if snap.RowHeight != 0 {
		s.RowHeights[r] = snap.RowHeight
	}
}
