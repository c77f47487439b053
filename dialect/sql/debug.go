package sql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/syssam/ormgen/dialect"
)

// DebugDriver wraps a Driver with debug logging.
type DebugDriver struct {
	*Driver
	log func(context.Context, ...any)
}

// DebugOption configures the DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLog sets a custom log function.
func DebugWithLog(logFunc func(context.Context, ...any)) DebugOption {
	return func(d *DebugDriver) {
		d.log = logFunc
	}
}

// DebugWithLogger logs statements at debug level on the given logger.
func DebugWithLogger(l *slog.Logger) DebugOption {
	return DebugWithLog(func(ctx context.Context, v ...any) {
		l.DebugContext(ctx, fmt.Sprint(v...))
	})
}

// NewDebugDriver wraps a Driver with debug logging.
//
// Example:
//
//	drv, _ := sql.Open("mysql", dsn)
//	debug := sql.NewDebugDriver(drv, sql.DebugWithLog(func(ctx context.Context, v ...any) {
//	    log.Println(v...)
//	}))
func NewDebugDriver(drv *Driver, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Driver: drv,
		log: func(ctx context.Context, v ...any) {
			slog.DebugContext(ctx, fmt.Sprint(v...))
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Query executes a query and logs it with its duration.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Query(ctx, query, args, v)
	d.log(ctx, fmt.Sprintf("query: %s args: %v duration: %s", query, args, time.Since(start)))
	return err
}

// Exec executes a statement and logs it with its duration.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Exec(ctx, query, args, v)
	d.log(ctx, fmt.Sprintf("exec: %s args: %v duration: %s", query, args, time.Since(start)))
	return err
}

// Querier returns the underlying ExecQuerier with the same logging, for
// callers such as schema inspectors that use the database/sql methods.
func (d *DebugDriver) Querier() ExecQuerier {
	return debugQuerier{ExecQuerier: d.Driver.Conn.ExecQuerier, log: d.log}
}

type debugQuerier struct {
	ExecQuerier
	log func(context.Context, ...any)
}

func (q debugQuerier) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := q.ExecQuerier.QueryContext(ctx, query, args...)
	q.log(ctx, fmt.Sprintf("query: %s args: %v duration: %s", query, args, time.Since(start)))
	return rows, err
}

func (q debugQuerier) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := q.ExecQuerier.ExecContext(ctx, query, args...)
	q.log(ctx, fmt.Sprintf("exec: %s args: %v duration: %s", query, args, time.Since(start)))
	return res, err
}

var _ dialect.Driver = (*DebugDriver)(nil)
