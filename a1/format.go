package a1

import "strings"

// String renders r back to A1 notation following spec.md §4.1
// canonicalization: "*" for ALL, a bare endpoint when End is unset or equal
// to Start, otherwise "start:end". Endpoint pairs are never reordered.
func (r RefRangeBounds) String() string {
	if r.IsAll() {
		return "*"
	}
	startStr := formatEnd(r.Start)
	if r.End.equal(r.Start) {
		return startStr
	}
	// Open endpoints (formatEnd of an unbounded end is "") fall out of the
	// general case naturally: "A1:" and ":B2" both render correctly.
	return startStr + ":" + formatEnd(r.End)
}

func formatEnd(e CellRefRangeEnd) string {
	var sb strings.Builder
	if e.Col != nil {
		if e.Col.Absolute {
			sb.WriteByte('$')
		}
		sb.WriteString(columnName(e.Col.Value))
	}
	if e.Row != nil {
		if e.Row.Absolute {
			sb.WriteByte('$')
		}
		sb.WriteString(itoa(e.Row.Value))
	}
	return sb.String()
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// FormatRanges renders a list of ranges as a comma-separated selection
// string.
func FormatRanges(ranges []RefRangeBounds) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}
