// Package dialect provides the database dialect abstraction used by the
// data stores.
//
// # Supported Dialects
//
//   - MySQL: MySQL/MariaDB database
//   - SQLite: SQLite database file
//   - Postgres: PostgreSQL database
//
// Each dialect is identified by a constant string that is also the name
// the database/sql driver registers under:
//
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//	dialect.Postgres = "postgres"
//
// # Driver Interface
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Close() error
//	    Dialect() string
//	}
//
// # Usage
//
//	import (
//	    "github.com/syssam/ormgen/dialect"
//	    "github.com/syssam/ormgen/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.MySQL, dsn)
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//
// The dialect/sql sub-package holds the database/sql backed driver, a
// debug driver that logs every statement, and helpers that classify
// driver errors.
package dialect
