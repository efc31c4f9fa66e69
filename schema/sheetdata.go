package schema

import (
	"fmt"

	"gridsheet/a1"
	"gridsheet/cellvalue"
	"gridsheet/grid"
	"gridsheet/sheet"
)

// Format is sheet.Format's wire shape. Fields stay pointers so "unset"
// (fall through the format cascade) round-trips as "absent from the
// JSON", not as a zero value indistinguishable from an explicit one.
type Format struct {
	Bold          *bool    `json:"bold,omitempty"`
	Italic        *bool    `json:"italic,omitempty"`
	Underline     *bool    `json:"underline,omitempty"`
	StrikeThrough *bool    `json:"strike_through,omitempty"`
	WrapText      *string  `json:"wrap_text,omitempty"`
	NumericFormat *string  `json:"numeric_format,omitempty"`
	TextColor     *string  `json:"text_color,omitempty"`
	FillColor     *string  `json:"fill_color,omitempty"`
	RenderSizeW   *float64 `json:"render_size_w,omitempty"`
	RenderSizeH   *float64 `json:"render_size_h,omitempty"`
}

func formatToWire(f sheet.Format) Format {
	out := Format{
		Bold: f.Bold, Italic: f.Italic, Underline: f.Underline,
		StrikeThrough: f.StrikeThrough, NumericFormat: f.NumericFormat,
		TextColor: f.TextColor, FillColor: f.FillColor,
	}
	if f.WrapText != nil {
		s := string(*f.WrapText)
		out.WrapText = &s
	}
	if f.RenderSize != nil {
		w, h := f.RenderSize.W, f.RenderSize.H
		out.RenderSizeW, out.RenderSizeH = &w, &h
	}
	return out
}

func wireToFormat(w Format) sheet.Format {
	out := sheet.Format{
		Bold: w.Bold, Italic: w.Italic, Underline: w.Underline,
		StrikeThrough: w.StrikeThrough, NumericFormat: w.NumericFormat,
		TextColor: w.TextColor, FillColor: w.FillColor,
	}
	if w.WrapText != nil {
		m := sheet.WrapMode(*w.WrapText)
		out.WrapText = &m
	}
	if w.RenderSizeW != nil && w.RenderSizeH != nil {
		out.RenderSize = &sheet.RenderSize{W: *w.RenderSizeW, H: *w.RenderSizeH}
	}
	return out
}

// FormatEntry is one rectangle of a uniform Format layer.
type FormatEntry struct {
	X1     int64  `json:"x1"`
	Y1     int64  `json:"y1"`
	X2     int64  `json:"x2"`
	Y2     int64  `json:"y2"`
	Format Format `json:"format"`
}

// LineFormatEntry is one row's or column's explicit Format.
type LineFormatEntry struct {
	Line   int64  `json:"line"`
	Format Format `json:"format"`
}

// LineFloatEntry is one row's height or column's width.
type LineFloatEntry struct {
	Line  int64   `json:"line"`
	Value float64 `json:"value"`
}

// CellEntry is one non-blank cell.
type CellEntry struct {
	X     int64     `json:"x"`
	Y     int64     `json:"y"`
	Value CellValue `json:"value"`
}

// BorderStyle is sheet.BorderStyle's wire shape, broken out as its own
// type so a future wire-only field never leaks into the in-memory one.
type BorderStyle struct {
	Color     string `json:"color"`
	Line      string `json:"line"`
	Timestamp int64  `json:"timestamp"`
}

// BorderEntry is one rectangle of a uniform border style on one side.
type BorderEntry struct {
	Side  string      `json:"side"` // "left", "right", "top", "bottom"
	X1    int64       `json:"x1"`
	Y1    int64       `json:"y1"`
	X2    int64       `json:"x2"`
	Y2    int64       `json:"y2"`
	Style BorderStyle `json:"style"`
}

// DataTable is sheet.DataTable's wire shape, anchor included since
// SheetData.DataTables is a flat list rather than a map: a list preserves
// spill-precedence (insertion) order directly, rather than needing a
// separate order field alongside a map.
type DataTable struct {
	AnchorX int64         `json:"anchor_x"`
	AnchorY int64         `json:"anchor_y"`
	Kind    string        `json:"kind"`
	Cells   [][]CellValue `json:"cells"`
	Name    string        `json:"name,omitempty"`

	ShowName          bool `json:"show_name,omitempty"`
	ShowColumns       bool `json:"show_columns,omitempty"`
	ShowUI            bool `json:"show_ui,omitempty"`
	HeaderIsFirstRow  bool `json:"header_is_first_row,omitempty"`
	AlternatingColors bool `json:"alternating_colors,omitempty"`
	ReadOnly          bool `json:"read_only,omitempty"`

	ColumnHeaders []string `json:"column_headers,omitempty"`
	DisplayOrder  []int    `json:"display_order,omitempty"`

	SpillError bool `json:"spill_error,omitempty"`
	SpillValue bool `json:"spill_value,omitempty"`

	ChartOutputW *int `json:"chart_output_w,omitempty"`
	ChartOutputH *int `json:"chart_output_h,omitempty"`
}

// SheetData is one sheet's full wire representation.
type SheetData struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Cells []CellEntry `json:"cells,omitempty"`

	CellFormats   []FormatEntry     `json:"cell_formats,omitempty"`
	RowFormats    []LineFormatEntry `json:"row_formats,omitempty"`
	ColumnFormats []LineFormatEntry `json:"column_formats,omitempty"`
	SheetFormat   Format            `json:"sheet_format"`

	Borders []BorderEntry `json:"borders,omitempty"`

	DataTables []DataTable `json:"data_tables,omitempty"`

	ColWidths  []LineFloatEntry `json:"col_widths,omitempty"`
	RowHeights []LineFloatEntry `json:"row_heights,omitempty"`
}

// SheetToWire projects a live Sheet into its wire form.
func SheetToWire(sh *sheet.Sheet) SheetData {
	d := SheetData{ID: string(sh.ID), Name: sh.Name, SheetFormat: formatToWire(sh.FormatAll)}

	if bounds, ok := sh.Values.Bounds(); ok {
		for _, e := range sh.Values.NondefaultRectsInRect(bounds) {
			for y := e.Rect.Min.Y; y <= e.Rect.Max.Y; y++ {
				for x := e.Rect.Min.X; x <= e.Rect.Max.X; x++ {
					d.Cells = append(d.Cells, CellEntry{X: x, Y: y, Value: cellValueToWire(e.Value)})
				}
			}
		}
	}

	if bounds, ok := sh.FormatsCell.Bounds(); ok {
		for _, e := range sh.FormatsCell.NondefaultRectsInRect(bounds) {
			d.CellFormats = append(d.CellFormats, FormatEntry{
				X1: e.Rect.Min.X, Y1: e.Rect.Min.Y, X2: e.Rect.Max.X, Y2: e.Rect.Max.Y,
				Format: formatToWire(e.Value),
			})
		}
	}
	for line, f := range sh.FormatsColumn {
		d.ColumnFormats = append(d.ColumnFormats, LineFormatEntry{Line: line, Format: formatToWire(f)})
	}
	for line, f := range sh.FormatsRow {
		d.RowFormats = append(d.RowFormats, LineFormatEntry{Line: line, Format: formatToWire(f)})
	}
	for line, w := range sh.ColWidths {
		d.ColWidths = append(d.ColWidths, LineFloatEntry{Line: line, Value: w})
	}
	for line, h := range sh.RowHeights {
		d.RowHeights = append(d.RowHeights, LineFloatEntry{Line: line, Value: h})
	}

	d.Borders = append(d.Borders, borderEntries("left", sh.Borders.Left)...)
	d.Borders = append(d.Borders, borderEntries("right", sh.Borders.Right)...)
	d.Borders = append(d.Borders, borderEntries("top", sh.Borders.Top)...)
	d.Borders = append(d.Borders, borderEntries("bottom", sh.Borders.Bottom)...)

	for _, anchor := range sh.DataTables.Order() {
		t, ok := sh.DataTables.Get(anchor)
		if !ok {
			continue
		}
		d.DataTables = append(d.DataTables, dataTableToWire(anchor, t))
	}

	return d
}

func borderEntries(side string, layer *grid.Contiguous2D[*sheet.BorderStyle]) []BorderEntry {
	bounds, ok := layer.Bounds()
	if !ok {
		return nil
	}
	var out []BorderEntry
	for _, e := range layer.NondefaultRectsInRect(bounds) {
		if e.Value == nil {
			continue
		}
		out = append(out, BorderEntry{
			Side: side,
			X1:   e.Rect.Min.X, Y1: e.Rect.Min.Y, X2: e.Rect.Max.X, Y2: e.Rect.Max.Y,
			Style: BorderStyle{Color: e.Value.Color, Line: e.Value.Line, Timestamp: e.Value.Timestamp},
		})
	}
	return out
}

func dataTableToWire(anchor a1.Pos, t *sheet.DataTable) DataTable {
	cells := make([][]CellValue, len(t.Value.Cells))
	for i, row := range t.Value.Cells {
		cells[i] = make([]CellValue, len(row))
		for j, v := range row {
			cells[i][j] = cellValueToWire(v)
		}
	}
	return DataTable{
		AnchorX: anchor.X, AnchorY: anchor.Y,
		Kind:  dataTableKindToWire(t.Kind),
		Cells: cells,
		Name:  t.Name,

		ShowName: t.ShowName, ShowColumns: t.ShowColumns, ShowUI: t.ShowUI,
		HeaderIsFirstRow: t.HeaderIsFirstRow, AlternatingColors: t.AlternatingColors,
		ReadOnly: t.ReadOnly,

		ColumnHeaders: t.ColumnHeaders, DisplayOrder: t.DisplayOrder,

		SpillError: t.SpillError, SpillValue: t.SpillValue,
		ChartOutputW: t.ChartOutputW, ChartOutputH: t.ChartOutputH,
	}
}

func dataTableKindToWire(k sheet.DataTableKind) string {
	if k == sheet.KindImport {
		return "Import"
	}
	return "CodeRun"
}

func dataTableKindFromWire(s string) sheet.DataTableKind {
	if s == "Import" {
		return sheet.KindImport
	}
	return sheet.KindCodeRun
}

// WireToSheet reconstructs a live Sheet from its wire form.
func WireToSheet(d SheetData) (*sheet.Sheet, error) {
	sh := sheet.NewSheet(sheet.SheetID(d.ID), d.Name)
	sh.FormatAll = wireToFormat(d.SheetFormat)

	for _, c := range d.Cells {
		v, err := wireToCellValue(c.Value)
		if err != nil {
			return nil, fmt.Errorf("schema: sheet %q cell (%d,%d): %w", d.ID, c.X, c.Y, err)
		}
		sh.SetValue(a1.Pos{X: c.X, Y: c.Y}, v)
	}

	for _, e := range d.CellFormats {
		x2, y2 := e.X2, e.Y2
		sh.FormatsCell.SetRect(e.X1, e.Y1, &x2, &y2, wireToFormat(e.Format))
	}
	for _, e := range d.ColumnFormats {
		sh.FormatsColumn[e.Line] = wireToFormat(e.Format)
	}
	for _, e := range d.RowFormats {
		sh.FormatsRow[e.Line] = wireToFormat(e.Format)
	}
	for _, e := range d.ColWidths {
		sh.ColWidths[e.Line] = e.Value
	}
	for _, e := range d.RowHeights {
		sh.RowHeights[e.Line] = e.Value
	}

	for _, e := range d.Borders {
		layer, ok := borderLayerByName(sh, e.Side)
		if !ok {
			return nil, fmt.Errorf("schema: sheet %q unknown border side %q", d.ID, e.Side)
		}
		x2, y2 := e.X2, e.Y2
		style := &sheet.BorderStyle{Color: e.Style.Color, Line: e.Style.Line, Timestamp: e.Style.Timestamp}
		layer.SetRect(e.X1, e.Y1, &x2, &y2, style)
	}

	for _, dtw := range d.DataTables {
		table, err := wireToDataTable(dtw)
		if err != nil {
			return nil, fmt.Errorf("schema: sheet %q data table at (%d,%d): %w", d.ID, dtw.AnchorX, dtw.AnchorY, err)
		}
		sh.DataTables.InsertFull(a1.Pos{X: dtw.AnchorX, Y: dtw.AnchorY}, table)
	}

	return sh, nil
}

func borderLayerByName(sh *sheet.Sheet, side string) (*grid.Contiguous2D[*sheet.BorderStyle], bool) {
	switch side {
	case "left":
		return sh.Borders.Left, true
	case "right":
		return sh.Borders.Right, true
	case "top":
		return sh.Borders.Top, true
	case "bottom":
		return sh.Borders.Bottom, true
	default:
		return nil, false
	}
}

func wireToDataTable(dtw DataTable) (*sheet.DataTable, error) {
	rows := make([][]cellvalue.CellValue, len(dtw.Cells))
	for i, row := range dtw.Cells {
		rows[i] = make([]cellvalue.CellValue, len(row))
		for j, w := range row {
			v, err := wireToCellValue(w)
			if err != nil {
				return nil, fmt.Errorf("cell[%d][%d]: %w", i, j, err)
			}
			rows[i][j] = v
		}
	}
	return &sheet.DataTable{
		Kind:  dataTableKindFromWire(dtw.Kind),
		Value: sheet.TableValue{Cells: rows},
		Name:  dtw.Name,

		ShowName: dtw.ShowName, ShowColumns: dtw.ShowColumns, ShowUI: dtw.ShowUI,
		HeaderIsFirstRow: dtw.HeaderIsFirstRow, AlternatingColors: dtw.AlternatingColors,
		ReadOnly: dtw.ReadOnly,

		ColumnHeaders: dtw.ColumnHeaders, DisplayOrder: dtw.DisplayOrder,

		SpillError: dtw.SpillError, SpillValue: dtw.SpillValue,
		ChartOutputW: dtw.ChartOutputW, ChartOutputH: dtw.ChartOutputH,
	}, nil
}
