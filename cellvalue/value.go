// Package cellvalue defines CellValue, the sum type stored in sheet cells,
// and the small value types it carries (dates/times, code-cell source,
// import references, and run errors). It is split out from package sheet
// so that formula and engine can depend on the value model without pulling
// in the storage layer, mirroring how the teacher's ast package is
// consumed by both parser and interpreter without either owning it.
package cellvalue

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags which variant of CellValue is populated.
type Kind int

const (
	Blank Kind = iota
	Text
	Number
	Logical
	Date
	Time
	DateTime
	Duration
	HTML
	Image
	Code
	Import
	Error
)

func (k Kind) String() string {
	switch k {
	case Blank:
		return "Blank"
	case Text:
		return "Text"
	case Number:
		return "Number"
	case Logical:
		return "Logical"
	case Date:
		return "Date"
	case Time:
		return "Time"
	case DateTime:
		return "DateTime"
	case Duration:
		return "Duration"
	case HTML:
		return "Html"
	case Image:
		return "Image"
	case Code:
		return "Code"
	case Import:
		return "Import"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Language tags the source language of a Code cell. Formula is evaluated
// synchronously in-process (package formula); every other language is
// delegated to the external runtime (package extruntime).
type Language string

const (
	LanguageFormula    Language = "Formula"
	LanguagePython     Language = "Python"
	LanguageJavascript Language = "Javascript"
)

// CodeCellValue is the payload of a Code variant: the source the user
// typed plus its language tag.
type CodeCellValue struct {
	Language Language
	Code     string
}

// ImportRef references a previously imported dataset by name.
type ImportRef struct {
	FileName string
}

// RunError is the taxonomy of evaluation failures described in spec.md
// §4.4 and §7. It is itself a CellValue variant (stratum 1: "value errors
// inside cells").
type RunError struct {
	Span *Span
	Msg  RunErrorMsg
}

func (e RunError) Error() string { return e.Msg.String() }

// Span marks the source range (in a formula string) a RunError or
// diagnostic applies to.
type Span struct {
	Start int
	End   int
}

// RunErrorMsg enumerates the specific failure, with structured payloads
// where the spec calls for one (spec.md §4.4).
type RunErrorMsg struct {
	Kind RunErrorKind

	// Populated only for the kinds that carry structured data.
	FuncName        string
	ArgName         string
	MaxArgCount      int
	ExpectedShape    string
	GotShape         string
	Op               string
	Type1            string
	Type2            string
	UseDurationInstead bool
}

type RunErrorKind string

const (
	ErrSpill                  RunErrorKind = "Spill"
	ErrCircularReference      RunErrorKind = "CircularReference"
	ErrDivideByZero           RunErrorKind = "DivideByZero"
	ErrOverflow               RunErrorKind = "Overflow"
	ErrBadCellReference       RunErrorKind = "BadCellReference"
	ErrBadFunctionName        RunErrorKind = "BadFunctionName"
	ErrBadOp                  RunErrorKind = "BadOp"
	ErrMissingRequiredArgument RunErrorKind = "MissingRequiredArgument"
	ErrTooManyArguments       RunErrorKind = "TooManyArguments"
	ErrExactArraySizeMismatch RunErrorKind = "ExactArraySizeMismatch"
	ErrNotAvailable           RunErrorKind = "NotAvailable"
	ErrValue                  RunErrorKind = "Value"
	ErrNum                    RunErrorKind = "Num"
	ErrName                   RunErrorKind = "Name"
	ErrNull                   RunErrorKind = "Null"
	ErrUnterminated           RunErrorKind = "Unterminated"
	ErrExpected               RunErrorKind = "Expected"
	ErrUnexpected             RunErrorKind = "Unexpected"
	ErrBadNumber              RunErrorKind = "BadNumber"
)

func (m RunErrorMsg) String() string {
	switch m.Kind {
	case ErrBadOp:
		s := fmt.Sprintf("bad operand types for %s: %s, %s", m.Op, m.Type1, m.Type2)
		if m.UseDurationInstead {
			s += " (use a duration instead)"
		}
		return s
	case ErrMissingRequiredArgument:
		return fmt.Sprintf("%s: missing required argument %s", m.FuncName, m.ArgName)
	case ErrTooManyArguments:
		return fmt.Sprintf("%s: too many arguments (max %d)", m.FuncName, m.MaxArgCount)
	case ErrExactArraySizeMismatch:
		return fmt.Sprintf("array size mismatch: expected %s, got %s", m.ExpectedShape, m.GotShape)
	default:
		return string(m.Kind)
	}
}

// CellValue is the sum type stored in every grid cell. Exactly one of the
// fields matching Kind is meaningful; the rest are zero. A struct (rather
// than an interface) is used so the type is directly JSON/gob friendly for
// package schema's persistence layer.
type CellValue struct {
	Kind Kind

	Text     string
	Number   decimal.Decimal
	Logical  bool
	Date     time.Time // Date-only: only the Y/M/D fields are meaningful.
	TimeOfDay time.Time // Time-only: only H/M/S/ns are meaningful.
	DateTime time.Time
	Duration time.Duration
	HTML     string
	Image    string // opaque image bytes; string (not []byte) keeps CellValue comparable
	Code     CodeCellValue
	Import   ImportRef
	Error    RunError
}

// NewBlank returns the blank cell value.
func NewBlank() CellValue { return CellValue{Kind: Blank} }

// NewText returns a text cell value.
func NewText(s string) CellValue { return CellValue{Kind: Text, Text: s} }

// NewNumber returns a numeric cell value.
func NewNumber(d decimal.Decimal) CellValue { return CellValue{Kind: Number, Number: d} }

// NewInt is a convenience constructor for integer numeric literals.
func NewInt(n int64) CellValue { return NewNumber(decimal.NewFromInt(n)) }

// NewLogical returns a boolean cell value.
func NewLogical(b bool) CellValue { return CellValue{Kind: Logical, Logical: b} }

// NewError returns an error cell value.
func NewError(err RunError) CellValue { return CellValue{Kind: Error, Error: err} }

// NewCode returns a code cell value (unevaluated; its output lives in a
// DataTable, not here).
func NewCode(lang Language, code string) CellValue {
	return CellValue{Kind: Code, Code: CodeCellValue{Language: lang, Code: code}}
}

// IsBlank reports whether v is the blank value.
func (v CellValue) IsBlank() bool { return v.Kind == Blank }

// AsNumber coerces v to a number following spec.md §4.4's blank/condition
// rules: blank is 0, logical true/false are 1/0, a parseable text number
// parses, anything else is an error.
func (v CellValue) AsNumber() (decimal.Decimal, bool) {
	switch v.Kind {
	case Blank:
		return decimal.Zero, true
	case Number:
		return v.Number, true
	case Logical:
		if v.Logical {
			return decimal.NewFromInt(1), true
		}
		return decimal.Zero, true
	case Text:
		d, err := decimal.NewFromString(v.Text)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// AsLogical coerces v to a boolean: blank is false, 0 is false, any other
// number is true, "true"/"false" text (case-insensitive) parse, anything
// else is an error.
func (v CellValue) AsLogical() (bool, bool) {
	switch v.Kind {
	case Blank:
		return false, true
	case Logical:
		return v.Logical, true
	case Number:
		return !v.Number.IsZero(), true
	case Text:
		switch {
		case strings.EqualFold(v.Text, "true"):
			return true, true
		case strings.EqualFold(v.Text, "false"):
			return false, true
		}
		return false, false
	default:
		return false, false
	}
}

// AsText coerces v to its display text: blank is "".
func (v CellValue) AsText() string {
	switch v.Kind {
	case Blank:
		return ""
	case Text:
		return v.Text
	case Number:
		return v.Number.String()
	case Logical:
		if v.Logical {
			return "TRUE"
		}
		return "FALSE"
	case Error:
		return v.Error.Error()
	default:
		return ""
	}
}
