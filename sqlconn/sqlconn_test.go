package sqlconn

import "testing"

func TestSchemaToWire(t *testing.T) {
	s := DatabaseSchema{
		Database: "analytics",
		Tables: map[string]Table{
			"orders": {
				Name:   "orders",
				Schema: "public",
				Columns: []Column{
					{Name: "id", Type: "bigint", IsNullable: false},
					{Name: "customer", Type: "text", IsNullable: true},
				},
			},
		},
	}

	w := schemaToWire(s)
	if w.Database != "analytics" {
		t.Errorf("expected database %q, got %q", "analytics", w.Database)
	}
	table, ok := w.Tables["orders"]
	if !ok {
		t.Fatalf("expected table %q in wire schema, got %+v", "orders", w.Tables)
	}
	if table.Schema != "public" || len(table.Columns) != 2 {
		t.Fatalf("unexpected table: %+v", table)
	}
	if table.Columns[0].Name != "id" || table.Columns[0].IsNullable {
		t.Errorf("unexpected column 0: %+v", table.Columns[0])
	}
	if table.Columns[1].Name != "customer" || !table.Columns[1].IsNullable {
		t.Errorf("unexpected column 1: %+v", table.Columns[1])
	}
}

func TestNewConnectorUnknownConnectionID(t *testing.T) {
	c := NewConnector(Config{Connections: []Connection{{ID: "primary", DSN: "postgres://localhost/db"}}})
	if _, ok := c.dsn["primary"]; !ok {
		t.Fatalf("expected connection %q to be registered", "primary")
	}
	if _, ok := c.dsn["missing"]; ok {
		t.Errorf("did not expect connection %q to be registered", "missing")
	}
}
