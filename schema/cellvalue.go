// Package schema implements the on-disk file format: a versioned JSON
// projection of the in-memory sheet model, with explicit upgrade functions
// covering every field that has ever existed (spec.md §6 "Persistence
// format"). Modeled on the teacher's own precedent for "a stable JSON
// projection of an internal type, kept independent of the type's Go
// representation" (ast/json.go's FormatJSON), generalized here to a
// multi-version migration chain rather than a single fixed projection.
package schema

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"gridsheet/cellvalue"
)

// CellValue is cellvalue.CellValue's wire shape. Kind is stored as a
// string tag rather than the in-memory int enum so a future reordering of
// cellvalue.Kind's iota never reinterprets an old file's cells as the
// wrong kind — the whole reason a persistence format exists separately
// from the in-memory type.
type CellValue struct {
	Kind string `json:"kind"`

	Text     string  `json:"text,omitempty"`
	Number   *string `json:"number,omitempty"`
	Logical  bool    `json:"logical,omitempty"`
	Date     *string `json:"date,omitempty"`
	Time     *string `json:"time,omitempty"`
	DateTime *string `json:"date_time,omitempty"`
	Duration *int64  `json:"duration_ns,omitempty"`
	HTML     string  `json:"html,omitempty"`
	Image    string  `json:"image,omitempty"`
	Code     *CodeCellValue `json:"code,omitempty"`
	Import   *ImportRef     `json:"import,omitempty"`
	Error    *RunError      `json:"error,omitempty"`
}

// CodeCellValue is cellvalue.CodeCellValue's wire shape.
type CodeCellValue struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// ImportRef is cellvalue.ImportRef's wire shape.
type ImportRef struct {
	FileName string `json:"file_name"`
}

// RunError is cellvalue.RunError's wire shape.
type RunError struct {
	SpanStart *int   `json:"span_start,omitempty"`
	SpanEnd   *int   `json:"span_end,omitempty"`
	Kind      string `json:"kind"`

	FuncName           string `json:"func_name,omitempty"`
	ArgName            string `json:"arg_name,omitempty"`
	MaxArgCount        int    `json:"max_arg_count,omitempty"`
	ExpectedShape      string `json:"expected_shape,omitempty"`
	GotShape           string `json:"got_shape,omitempty"`
	Op                 string `json:"op,omitempty"`
	Type1              string `json:"type1,omitempty"`
	Type2              string `json:"type2,omitempty"`
	UseDurationInstead bool   `json:"use_duration_instead,omitempty"`
}

const timeLayout = time.RFC3339Nano

// cellValueToWire converts a live CellValue into its wire shape.
func cellValueToWire(v cellvalue.CellValue) CellValue {
	out := CellValue{Kind: v.Kind.String()}
	switch v.Kind {
	case cellvalue.Text:
		out.Text = v.Text
	case cellvalue.Number:
		s := v.Number.String()
		out.Number = &s
	case cellvalue.Logical:
		out.Logical = v.Logical
	case cellvalue.Date:
		s := v.Date.Format(timeLayout)
		out.Date = &s
	case cellvalue.Time:
		s := v.TimeOfDay.Format(timeLayout)
		out.Time = &s
	case cellvalue.DateTime:
		s := v.DateTime.Format(timeLayout)
		out.DateTime = &s
	case cellvalue.Duration:
		d := int64(v.Duration)
		out.Duration = &d
	case cellvalue.HTML:
		out.HTML = v.HTML
	case cellvalue.Image:
		out.Image = v.Image
	case cellvalue.Code:
		out.Code = &CodeCellValue{Language: string(v.Code.Language), Code: v.Code.Code}
	case cellvalue.Import:
		out.Import = &ImportRef{FileName: v.Import.FileName}
	case cellvalue.Error:
		out.Error = runErrorToWire(v.Error)
	}
	return out
}

func runErrorToWire(e cellvalue.RunError) *RunError {
	out := &RunError{
		Kind:               string(e.Msg.Kind),
		FuncName:           e.Msg.FuncName,
		ArgName:            e.Msg.ArgName,
		MaxArgCount:        e.Msg.MaxArgCount,
		ExpectedShape:      e.Msg.ExpectedShape,
		GotShape:           e.Msg.GotShape,
		Op:                 e.Msg.Op,
		Type1:              e.Msg.Type1,
		Type2:              e.Msg.Type2,
		UseDurationInstead: e.Msg.UseDurationInstead,
	}
	if e.Span != nil {
		start, end := e.Span.Start, e.Span.End
		out.SpanStart, out.SpanEnd = &start, &end
	}
	return out
}

// wireToCellValue is cellValueToWire's inverse.
func wireToCellValue(w CellValue) (cellvalue.CellValue, error) {
	kind := kindFromString(w.Kind)
	switch kind {
	case cellvalue.Blank:
		return cellvalue.NewBlank(), nil
	case cellvalue.Text:
		return cellvalue.NewText(w.Text), nil
	case cellvalue.Number:
		if w.Number == nil {
			return cellvalue.CellValue{}, fmt.Errorf("schema: Number cell missing its value")
		}
		d, err := decimal.NewFromString(*w.Number)
		if err != nil {
			return cellvalue.CellValue{}, fmt.Errorf("schema: bad number %q: %w", *w.Number, err)
		}
		return cellvalue.NewNumber(d), nil
	case cellvalue.Logical:
		return cellvalue.NewLogical(w.Logical), nil
	case cellvalue.Date:
		t, err := parseWireTime(w.Date)
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		return cellvalue.CellValue{Kind: cellvalue.Date, Date: t}, nil
	case cellvalue.Time:
		t, err := parseWireTime(w.Time)
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		return cellvalue.CellValue{Kind: cellvalue.Time, TimeOfDay: t}, nil
	case cellvalue.DateTime:
		t, err := parseWireTime(w.DateTime)
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		return cellvalue.CellValue{Kind: cellvalue.DateTime, DateTime: t}, nil
	case cellvalue.Duration:
		if w.Duration == nil {
			return cellvalue.CellValue{}, fmt.Errorf("schema: Duration cell missing its value")
		}
		return cellvalue.CellValue{Kind: cellvalue.Duration, Duration: time.Duration(*w.Duration)}, nil
	case cellvalue.HTML:
		return cellvalue.CellValue{Kind: cellvalue.HTML, HTML: w.HTML}, nil
	case cellvalue.Image:
		return cellvalue.CellValue{Kind: cellvalue.Image, Image: w.Image}, nil
	case cellvalue.Code:
		if w.Code == nil {
			return cellvalue.CellValue{}, fmt.Errorf("schema: Code cell missing its payload")
		}
		return cellvalue.NewCode(cellvalue.Language(w.Code.Language), w.Code.Code), nil
	case cellvalue.Import:
		if w.Import == nil {
			return cellvalue.CellValue{}, fmt.Errorf("schema: Import cell missing its payload")
		}
		return cellvalue.CellValue{Kind: cellvalue.Import, Import: cellvalue.ImportRef{FileName: w.Import.FileName}}, nil
	case cellvalue.Error:
		if w.Error == nil {
			return cellvalue.CellValue{}, fmt.Errorf("schema: Error cell missing its payload")
		}
		return cellvalue.NewError(wireToRunError(*w.Error)), nil
	default:
		return cellvalue.CellValue{}, fmt.Errorf("schema: unknown cell kind %q", w.Kind)
	}
}

func wireToRunError(w RunError) cellvalue.RunError {
	e := cellvalue.RunError{Msg: cellvalue.RunErrorMsg{
		Kind:               cellvalue.RunErrorKind(w.Kind),
		FuncName:           w.FuncName,
		ArgName:            w.ArgName,
		MaxArgCount:        w.MaxArgCount,
		ExpectedShape:      w.ExpectedShape,
		GotShape:           w.GotShape,
		Op:                 w.Op,
		Type1:              w.Type1,
		Type2:              w.Type2,
		UseDurationInstead: w.UseDurationInstead,
	}}
	if w.SpanStart != nil && w.SpanEnd != nil {
		e.Span = &cellvalue.Span{Start: *w.SpanStart, End: *w.SpanEnd}
	}
	return e
}

func parseWireTime(s *string) (time.Time, error) {
	if s == nil {
		return time.Time{}, fmt.Errorf("schema: date/time cell missing its value")
	}
	t, err := time.Parse(timeLayout, *s)
	if err != nil {
		return time.Time{}, fmt.Errorf("schema: bad timestamp %q: %w", *s, err)
	}
	return t, nil
}

func kindFromString(s string) cellvalue.Kind {
	switch s {
	case "Blank":
		return cellvalue.Blank
	case "Text":
		return cellvalue.Text
	case "Number":
		return cellvalue.Number
	case "Logical":
		return cellvalue.Logical
	case "Date":
		return cellvalue.Date
	case "Time":
		return cellvalue.Time
	case "DateTime":
		return cellvalue.DateTime
	case "Duration":
		return cellvalue.Duration
	case "Html":
		return cellvalue.HTML
	case "Image":
		return cellvalue.Image
	case "Code":
		return cellvalue.Code
	case "Import":
		return cellvalue.Import
	case "Error":
		return cellvalue.Error
	default:
		return cellvalue.Kind(-1)
	}
}
