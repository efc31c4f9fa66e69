package sqlconn

import (
	"bytes"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/parquet-go/parquet-go"
)

// encodeParquet drains rows into a Parquet byte stream, one optional
// UTF8 string column per query column. Every value is stringified
// rather than type-mapped column-by-column: the result set's column
// types are only known at query time, and spec.md §6 only promises the
// core a byte stream it can hand to a viewer, not a strongly-typed
// schema it has to interpret itself. Encoding stops (and over_the_limit
// is reported) as soon as the buffered output would exceed maxBytes,
// mirroring max_response_bytes.
func encodeParquet(rows pgx.Rows, maxBytes int64) ([]byte, bool, error) {
	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	group := make(parquet.Group, len(fields))
	for i, f := range fields {
		names[i] = f.Name
		group[f.Name] = parquet.Optional(parquet.String())
	}
	schema := parquet.NewSchema("row", group)

	var buf bytes.Buffer
	writer := parquet.NewGenericWriter[map[string]string](&buf, schema)

	overLimit := false
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, false, fmt.Errorf("sqlconn: reading row values: %w", err)
		}
		record := make(map[string]string, len(names))
		for i, n := range names {
			if vals[i] != nil {
				record[n] = fmt.Sprintf("%v", vals[i])
			}
		}
		if _, err := writer.Write([]map[string]string{record}); err != nil {
			return nil, false, fmt.Errorf("sqlconn: encoding row: %w", err)
		}
		if maxBytes > 0 && int64(buf.Len()) > maxBytes {
			overLimit = true
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("sqlconn: reading rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, false, fmt.Errorf("sqlconn: closing parquet writer: %w", err)
	}
	return buf.Bytes(), overLimit, nil
}
