package dialect

import "context"

// Dialect names. They double as database/sql driver names.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// ExecQuerier wraps the Exec and Query methods.
type ExecQuerier interface {
	// Exec executes a query that does not return records.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query that returns rows, scanned into v.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all necessary operations for a
// metadata connection.
type Driver interface {
	ExecQuerier
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}
