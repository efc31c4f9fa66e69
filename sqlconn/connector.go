package sqlconn

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connector owns one lazily-created pgxpool.Pool per configured
// connection and answers spec.md §6's two SQL connector operations:
// Query (SqlQuery -> Parquet bytes + over_the_limit) and Schema
// (introspect a database's tables and columns).
type Connector struct {
	cfg Config

	mu    sync.Mutex
	pools map[string]*pgxpool.Pool
	dsn   map[string]string
}

func NewConnector(cfg Config) *Connector {
	dsn := make(map[string]string, len(cfg.Connections))
	for _, c := range cfg.Connections {
		dsn[c.ID] = c.DSN
	}
	return &Connector{cfg: cfg, pools: map[string]*pgxpool.Pool{}, dsn: dsn}
}

func (c *Connector) pool(ctx context.Context, connectionID string) (*pgxpool.Pool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pools[connectionID]; ok {
		return p, nil
	}
	dsn, ok := c.dsn[connectionID]
	if !ok {
		return nil, fmt.Errorf("sqlconn: unknown connection_id %q", connectionID)
	}
	p, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlconn: opening connection %q: %w", connectionID, err)
	}
	c.pools[connectionID] = p
	return p, nil
}

// Close closes every pool this Connector has opened so far.
func (c *Connector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, p := range c.pools {
		p.Close()
		delete(c.pools, id)
	}
}

// SqlQuery is spec.md §6's SqlQuery request: raw query text plus which
// configured connection to run it against.
type SqlQuery struct {
	Query        string
	ConnectionID string
}

// QueryResult is spec.md §6's connector response: a Parquet-encoded
// result set and whether Config.MaxResponseBytes cut it short.
type QueryResult struct {
	Parquet      []byte
	OverTheLimit bool
}

func (c *Connector) Query(ctx context.Context, q SqlQuery) (QueryResult, error) {
	pool, err := c.pool(ctx, q.ConnectionID)
	if err != nil {
		return QueryResult{}, err
	}
	rows, err := pool.Query(ctx, q.Query)
	if err != nil {
		return QueryResult{}, fmt.Errorf("sqlconn: query on %q: %w", q.ConnectionID, err)
	}
	defer rows.Close()

	data, overLimit, err := encodeParquet(rows, c.cfg.MaxResponseBytes)
	if err != nil {
		return QueryResult{}, err
	}
	return QueryResult{Parquet: data, OverTheLimit: overLimit}, nil
}
