package a1

import (
	"fmt"
	"strings"
)

// ParseError reports a failure to parse an A1 selection or range string.
type ParseError struct {
	Input string
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("a1: %s: %q", e.Msg, e.Input)
}

// ParseSelectionRanges parses a comma-separated A1 selection string (the
// grammar in spec.md §4.1) into the list of ranges it denotes. It does not
// resolve a sheet or cursor; callers build an A1Selection around the
// result.
func ParseSelectionRanges(s string) ([]RefRangeBounds, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := splitTopLevelCommas(s)
	ranges := make([]RefRangeBounds, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, err := ParseRange(part)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

func splitTopLevelCommas(s string) []string {
	// Ranges never contain commas themselves (commas only separate ranges
	// at the selection level; function-call unions live in the formula
	// grammar, not here), so a plain split is exact.
	return strings.Split(s, ",")
}

// ParseRange parses a single A1 range token: "*", "A1", "A1:B2", "A1:",
// ":B2", "A:C", "2:5", "A1:C", "1:C3".
func ParseRange(s string) (RefRangeBounds, error) {
	s = strings.TrimSpace(s)
	if s == "*" {
		return ALL, nil
	}
	if s == "" {
		return RefRangeBounds{}, &ParseError{Input: s, Msg: "empty range"}
	}

	colonIdx := strings.IndexByte(s, ':')
	if colonIdx < 0 {
		end, err := parseEndpoint(s)
		if err != nil {
			return RefRangeBounds{}, err
		}
		return RefRangeBounds{Start: end, End: end}, nil
	}

	startStr, endStr := s[:colonIdx], s[colonIdx+1:]
	var start, end CellRefRangeEnd
	var err error
	if startStr == "" {
		start = unboundedEnd()
	} else {
		start, err = parseEndpoint(startStr)
		if err != nil {
			return RefRangeBounds{}, err
		}
	}
	if endStr == "" {
		end = unboundedEnd()
	} else {
		end, err = parseEndpoint(endStr)
		if err != nil {
			return RefRangeBounds{}, err
		}
	}

	if start.equal(end) {
		return RefRangeBounds{Start: start, End: start}, nil
	}
	return RefRangeBounds{Start: start, End: end}, nil
}

// parseEndpoint parses one endpoint token such as "A1", "$A$1", "A", "3".
func parseEndpoint(s string) (CellRefRangeEnd, error) {
	colPart, rowPart, err := splitColRow(s)
	if err != nil {
		return CellRefRangeEnd{}, &ParseError{Input: s, Msg: err.Error()}
	}
	var end CellRefRangeEnd
	if colPart != "" {
		col, absolute := parseCoordToken(colPart)
		idx := columnIndex(strings.TrimPrefix(col, "$"))
		if idx == 0 {
			return CellRefRangeEnd{}, &ParseError{Input: s, Msg: "bad column"}
		}
		end.Col = &Coord{Value: idx, Absolute: absolute}
	}
	if rowPart != "" {
		row, absolute := parseCoordToken(rowPart)
		row = strings.TrimPrefix(row, "$")
		var n int64
		if _, err := fmt.Sscanf(row, "%d", &n); err != nil || n < 1 {
			return CellRefRangeEnd{}, &ParseError{Input: s, Msg: "bad row"}
		}
		end.Row = &Coord{Value: n, Absolute: absolute}
	}
	if end.Col == nil && end.Row == nil {
		return CellRefRangeEnd{}, &ParseError{Input: s, Msg: "empty endpoint"}
	}
	return end, nil
}

// parseCoordToken strips nothing but reports whether the token carries a
// leading "$" absolute marker.
func parseCoordToken(s string) (token string, absolute bool) {
	if strings.HasPrefix(s, "$") {
		return s, true
	}
	return s, false
}

// splitColRow splits a token like "$A$1" or "A1" or "A" or "12" into its
// column-letter run and row-digit run, each possibly "$"-prefixed.
func splitColRow(s string) (col string, row string, err error) {
	i := 0
	n := len(s)
	// Optional leading '$' before column letters.
	start := i
	if i < n && s[i] == '$' {
		i++
	}
	letterStart := i
	for i < n && isAlpha(s[i]) {
		i++
	}
	if i > letterStart {
		col = s[start:i]
	}
	if i >= n {
		if col == "" {
			return "", "", fmt.Errorf("empty token")
		}
		return col, "", nil
	}
	rowStart := i
	if s[i] == '$' {
		i++
	}
	digitStart := i
	for i < n && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i != n || i == digitStart {
		return "", "", fmt.Errorf("malformed token %q", s)
	}
	row = s[rowStart:i]
	return col, row, nil
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
