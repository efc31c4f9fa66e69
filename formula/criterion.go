package formula

import (
	"strings"

	"gridsheet/cellvalue"
)

// Criterion is a parsed COUNTIF/SUMIF-style predicate: spec.md §4.4
// describes "<=5", "<>X", ">0", or a bare value (equality) sharing one
// matcher across the whole *IF/*IFS function family.
type Criterion struct {
	op  string // "=", "<>", "<", "<=", ">", ">=" — "=" for bare-value equality
	raw cellvalue.CellValue
}

// ParseCriterion interprets a criteria argument cell.
func ParseCriterion(v cellvalue.CellValue) Criterion {
	if v.Kind != cellvalue.Text {
		return Criterion{op: "=", raw: v}
	}
	s := v.Text
	for _, op := range []string{"<=", ">=", "<>", "<", ">", "="} {
		if strings.HasPrefix(s, op) {
			rest := strings.TrimPrefix(s, op)
			return Criterion{op: op, raw: coerceLiteral(rest)}
		}
	}
	return Criterion{op: "=", raw: v}
}

func coerceLiteral(s string) cellvalue.CellValue {
	v := cellvalue.NewText(s)
	if d, ok := v.AsNumber(); ok && s != "" {
		return cellvalue.NewNumber(d)
	}
	return v
}

// Matches reports whether cell satisfies the criterion. Blank cells never
// satisfy a relational (non-equality-to-blank) comparison: spec.md §4.4
// singles this out as the one place blank is NOT treated as 0.
func (c Criterion) Matches(cell cellvalue.CellValue) bool {
	if cell.Kind == cellvalue.Blank {
		if c.op == "=" && c.raw.Kind == cellvalue.Text && c.raw.Text == "" {
			return true
		}
		if c.op == "<>" {
			return !(c.raw.Kind == cellvalue.Text && c.raw.Text == "")
		}
		return false
	}
	switch c.op {
	case "=":
		return compareValues(cell, c.raw) == 0
	case "<>":
		return compareValues(cell, c.raw) != 0
	case "<":
		return compareValues(cell, c.raw) < 0
	case "<=":
		return compareValues(cell, c.raw) <= 0
	case ">":
		return compareValues(cell, c.raw) > 0
	case ">=":
		return compareValues(cell, c.raw) >= 0
	}
	return false
}
