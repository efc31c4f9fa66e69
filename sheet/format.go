// Package sheet implements the spreadsheet storage layer: per-cell values
// and formatting, borders, and data tables, layered over package grid's
// Contiguous2D. See spec.md §3/§4.3.
package sheet

// WrapMode is the text-wrap setting of a cell's format.
type WrapMode string

const (
	WrapOverflow WrapMode = "Overflow"
	WrapWrap     WrapMode = "Wrap"
	WrapClip     WrapMode = "Clip"
)

// RenderSize overrides the rendered pixel size of a cell (used by chart
// and image outputs).
type RenderSize struct {
	W float64
	H float64
}

// Format holds the fields a user may explicitly set on a cell, row,
// column, or the whole sheet. Every field is a pointer so "unset" (fall
// through the cascade) is distinguishable from "explicitly false/empty".
type Format struct {
	Bold          *bool
	Italic        *bool
	Underline     *bool
	StrikeThrough *bool
	WrapText      *WrapMode
	NumericFormat *string
	TextColor     *string
	FillColor     *string
	RenderSize    *RenderSize
}

// IsEmpty reports whether every field of f is unset.
func (f Format) IsEmpty() bool {
	return f.Bold == nil && f.Italic == nil && f.Underline == nil &&
		f.StrikeThrough == nil && f.WrapText == nil && f.NumericFormat == nil &&
		f.TextColor == nil && f.FillColor == nil && f.RenderSize == nil
}

// MergeFormat combines top over base, field by field: a set field in top
// wins, an unset field falls through to base. Used to build the
// cell -> row -> column -> sheet_all cascade (spec.md §4.3).
func MergeFormat(top, base Format) Format {
	out := base
	if top.Bold != nil {
		out.Bold = top.Bold
	}
	if top.Italic != nil {
		out.Italic = top.Italic
	}
	if top.Underline != nil {
		out.Underline = top.Underline
	}
	if top.StrikeThrough != nil {
		out.StrikeThrough = top.StrikeThrough
	}
	if top.WrapText != nil {
		out.WrapText = top.WrapText
	}
	if top.NumericFormat != nil {
		out.NumericFormat = top.NumericFormat
	}
	if top.TextColor != nil {
		out.TextColor = top.TextColor
	}
	if top.FillColor != nil {
		out.FillColor = top.FillColor
	}
	if top.RenderSize != nil {
		out.RenderSize = top.RenderSize
	}
	return out
}
