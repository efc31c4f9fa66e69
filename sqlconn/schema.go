package sqlconn

import (
	"context"
	"fmt"
)

// Column is one {name, type, is_nullable} entry of spec.md §6's schema
// introspection shape.
type Column struct {
	Name       string
	Type       string
	IsNullable bool
}

// Table is one entry of DatabaseSchema.Tables.
type Table struct {
	Name    string
	Schema  string
	Columns []Column
}

// DatabaseSchema is spec.md §6's {database, tables: {name: {...}}}.
type DatabaseSchema struct {
	Database string
	Tables   map[string]Table
}

const schemaIntrospectionQuery = `
SELECT table_schema, table_name, column_name, data_type, is_nullable
FROM information_schema.columns
WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY table_schema, table_name, ordinal_position`

// Schema introspects every user table visible on connectionID.
func (c *Connector) Schema(ctx context.Context, connectionID string) (DatabaseSchema, error) {
	pool, err := c.pool(ctx, connectionID)
	if err != nil {
		return DatabaseSchema{}, err
	}
	rows, err := pool.Query(ctx, schemaIntrospectionQuery)
	if err != nil {
		return DatabaseSchema{}, fmt.Errorf("sqlconn: introspecting schema for %q: %w", connectionID, err)
	}
	defer rows.Close()

	out := DatabaseSchema{Database: connectionID, Tables: map[string]Table{}}
	for rows.Next() {
		var tableSchema, tableName, columnName, dataType, isNullable string
		if err := rows.Scan(&tableSchema, &tableName, &columnName, &dataType, &isNullable); err != nil {
			return DatabaseSchema{}, fmt.Errorf("sqlconn: scanning schema row: %w", err)
		}
		t, ok := out.Tables[tableName]
		if !ok {
			t = Table{Name: tableName, Schema: tableSchema}
		}
		t.Columns = append(t.Columns, Column{Name: columnName, Type: dataType, IsNullable: isNullable == "YES"})
		out.Tables[tableName] = t
	}
	if err := rows.Err(); err != nil {
		return DatabaseSchema{}, fmt.Errorf("sqlconn: reading schema rows: %w", err)
	}
	return out, nil
}
