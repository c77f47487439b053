// Package sql provides the database/sql backed driver used by the data
// stores to read schema metadata.
//
// # Driver
//
// Driver wraps a *sql.DB and implements dialect.Driver. Statements go
// through Exec and Query, which take their arguments as []any. Query scans
// into *Rows:
//
//	drv, err := sql.Open(dialect.SQLite, "catalog.db")
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//	if err := drv.Ping(ctx); err != nil {
//	    return err
//	}
//	tables, err := sql.QueryStrings(ctx, drv, "SELECT name FROM sqlite_master WHERE type = ?", "table")
//
// An existing handle can be wrapped with OpenDB, which is how tests plug
// in go-sqlmock.
//
// # Debugging
//
// DebugDriver logs every statement through log/slog before running it:
//
//	debug := sql.NewDebugDriver(drv)
//
// # Error classification
//
// IsAccessDenied and IsUnknownDatabase recognise the MySQL and PostgreSQL
// error codes for rejected credentials and missing databases.
package sql
