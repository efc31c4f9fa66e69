// Package sqlconn is the pgx-backed client side of spec.md §6's SQL
// connector surface. The connector proper (a database proxy service) is
// explicitly out of scope for the core; this package is the piece of it
// that actually talks to Postgres, runs a query, and hands back a
// Parquet byte stream plus an over_the_limit flag, the exact shape the
// core expects from that collaborator. Grounded on
// interpreter/builtins_sql.go's sqlOpen/sqlQuery builtins, generalized
// from database/sql driver-agnostic access to a dedicated pgx
// connection pool per configured connection.
package sqlconn

// Connection describes one configured upstream Postgres database,
// addressed by its ID in a Query or Schema call.
type Connection struct {
	ID  string
	DSN string
}

// Config is the set of connections a Connector can serve, plus the
// response-size ceiling spec.md §6 calls max_response_bytes.
type Config struct {
	Connections      []Connection
	MaxResponseBytes int64
}
