package datastore

import (
	"context"
	"net"
	"net/url"
	"strconv"

	_ "github.com/lib/pq"

	"github.com/syssam/ormgen/dialect/sql"
)

const (
	defaultPostgresPort   = 5432
	defaultPostgresSchema = "public"
)

// Postgres is a DataStore backed by a PostgreSQL server. Metadata is read
// from information_schema for a single schema.
type Postgres struct {
	conn
	database string
	schema   string
}

// NewPostgres returns an unconnected PostgreSQL store. The schema defaults
// to "public" and sslmode to "disable" unless set through options.
func NewPostgres(host, user, password, database string, opts ...Option) *Postgres {
	cfg := newConfig(opts)
	port := cfg.port
	if port == 0 {
		port = defaultPostgresPort
	}
	schema := cfg.schema
	if schema == "" {
		schema = defaultPostgresSchema
	}
	q := url.Values{}
	for k, v := range cfg.params {
		q.Set(k, v)
	}
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "disable")
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     addr,
		Path:     "/" + database,
		RawQuery: q.Encode(),
	}
	return &Postgres{
		conn: conn{
			kind:   KindPostgres,
			dsn:    u.String(),
			target: addr + "/" + database,
			cfg:    cfg,
			params: Params{
				Host:     host,
				Port:     cfg.port,
				User:     user,
				Password: password,
				Database: database,
				Schema:   cfg.schema,
				Options:  cfg.params,
			},
		},
		database: database,
		schema:   schema,
	}
}

// Connect opens the connection and verifies the credentials.
func (p *Postgres) Connect(ctx context.Context) error {
	return p.connect(ctx, nil)
}

// Schema returns the schema name, "public" unless configured.
func (p *Postgres) Schema() string { return p.schema }

// Tables returns the base tables of the schema.
func (p *Postgres) Tables(ctx context.Context) ([]string, error) {
	ex, err := p.querier()
	if err != nil {
		return nil, err
	}
	return sql.QueryStrings(ctx, ex,
		"SELECT table_name FROM information_schema.tables WHERE table_schema = $1 AND table_type = 'BASE TABLE' ORDER BY table_name",
		p.schema,
	)
}

// Relation returns the canonical name of table.
func (p *Postgres) Relation(ctx context.Context, table string) (string, error) {
	tables, err := p.Tables(ctx)
	if err != nil {
		return "", err
	}
	return resolve(tables, table)
}

// PrimaryKey returns the primary key columns in key order.
func (p *Postgres) PrimaryKey(ctx context.Context, table string) ([]string, error) {
	rel, err := p.Relation(ctx, table)
	if err != nil {
		return nil, err
	}
	ex, err := p.querier()
	if err != nil {
		return nil, err
	}
	return sql.QueryStrings(ctx, ex, `SELECT kcu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
	ON tc.constraint_name = kcu.constraint_name
	AND tc.table_schema = kcu.table_schema
	AND tc.table_name = kcu.table_name
WHERE tc.constraint_type = 'PRIMARY KEY'
	AND tc.table_schema = $1
	AND tc.table_name = $2
ORDER BY kcu.ordinal_position`,
		p.schema, rel,
	)
}

var _ DataStore = (*Postgres)(nil)
