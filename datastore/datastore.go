package datastore

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/syssam/ormgen"
	"github.com/syssam/ormgen/dialect"
	"github.com/syssam/ormgen/dialect/sql"
)

var (
	// ErrNotConnected is returned by metadata queries issued before Connect.
	ErrNotConnected = errors.New("datastore: not connected")

	// ErrTableNotFound is returned when a table does not exist in the store.
	ErrTableNotFound = errors.New("datastore: table not found")
)

// DataStore is a connection to a relational database that exposes the
// schema metadata needed to generate a model.
//
// A DataStore is not safe for concurrent use.
type DataStore interface {
	// Kind returns the backend kind.
	Kind() Kind
	// Params returns the connection parameters the store was built with.
	Params() Params
	// Connect opens the connection. It is a no-op on an open store.
	Connect(ctx context.Context) error
	// Close releases the connection. It is a no-op on a closed store.
	Close() error
	// Schema returns the name of the schema the store reads from.
	Schema() string
	// Tables returns the sorted names of all base tables in the schema.
	Tables(ctx context.Context) ([]string, error)
	// Relation returns the canonical name of the given table.
	Relation(ctx context.Context, table string) (string, error)
	// PrimaryKey returns the ordered primary-key columns of the given table.
	// A table without a primary key yields an empty, non-nil slice.
	PrimaryKey(ctx context.Context, table string) ([]string, error)
}

// Kind identifies a DataStore backend.
type Kind uint8

// Supported backends.
const (
	KindInvalid Kind = iota
	KindMySQL
	KindSQLite
	KindPostgres
)

var kindNames = [...]string{
	KindInvalid:  "invalid",
	KindMySQL:    dialect.MySQL,
	KindSQLite:   dialect.SQLite,
	KindPostgres: dialect.Postgres,
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Dialect returns the dialect (and database/sql driver) name of the kind.
func (k Kind) Dialect() string {
	return k.String()
}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mysql", "mariadb":
		return KindMySQL, nil
	case "sqlite", "sqlite3":
		return KindSQLite, nil
	case "postgres", "postgresql", "pg":
		return KindPostgres, nil
	default:
		return KindInvalid, ormgen.NewConfigError("kind", s, "unknown data store kind; use mysql, sqlite or postgres")
	}
}

// Params holds the connection parameters of a DataStore.
type Params struct {
	Host     string            `json:"host,omitempty" yaml:"host,omitempty"`
	Port     int               `json:"port,omitempty" yaml:"port,omitempty"`
	User     string            `json:"user,omitempty" yaml:"user,omitempty"`
	Password string            `json:"password,omitempty" yaml:"password,omitempty"`
	Database string            `json:"database,omitempty" yaml:"database,omitempty"`
	Path     string            `json:"path,omitempty" yaml:"path,omitempty"`
	Schema   string            `json:"schema,omitempty" yaml:"schema,omitempty"`
	Options  map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
}

// validate checks that p carries the fields the kind requires.
func (p Params) validate(k Kind) error {
	var missing []string
	switch k {
	case KindMySQL, KindPostgres:
		if p.Host == "" {
			missing = append(missing, "host")
		}
		if p.User == "" {
			missing = append(missing, "user")
		}
		if p.Database == "" {
			missing = append(missing, "database")
		}
	case KindSQLite:
		if p.Path == "" {
			missing = append(missing, "path")
		}
	default:
		return ormgen.NewConfigError("kind", k.String(), "unknown data store kind")
	}
	if p.Port < 0 || p.Port > 65535 {
		return ormgen.NewConfigError("port", p.Port, "port out of range")
	}
	if len(missing) > 0 {
		return ormgen.NewConfigError(k.String(), nil, "missing "+strings.Join(missing, ", "))
	}
	return nil
}

// options returns the constructor options p implies.
func (p Params) options() []Option {
	var opts []Option
	if p.Port != 0 {
		opts = append(opts, WithPort(p.Port))
	}
	if len(p.Options) > 0 {
		opts = append(opts, WithParams(p.Options))
	}
	if p.Schema != "" {
		opts = append(opts, WithSchema(p.Schema))
	}
	return opts
}

// constructors maps each Kind to the function building its DataStore.
var constructors = map[Kind]func(Params, ...Option) DataStore{
	KindMySQL: func(p Params, opts ...Option) DataStore {
		return NewMySQL(p.Host, p.User, p.Password, p.Database, opts...)
	},
	KindSQLite: func(p Params, opts ...Option) DataStore {
		return NewSQLite(p.Path, opts...)
	},
	KindPostgres: func(p Params, opts ...Option) DataStore {
		return NewPostgres(p.Host, p.User, p.Password, p.Database, opts...)
	},
}

// New constructs the DataStore variant selected by kind. The store is
// returned unconnected.
func New(kind Kind, p Params, opts ...Option) (DataStore, error) {
	build, ok := constructors[kind]
	if !ok {
		return nil, ormgen.NewConfigError("kind", kind.String(), "unknown data store kind")
	}
	if err := p.validate(kind); err != nil {
		return nil, err
	}
	return build(p, append(p.options(), opts...)...), nil
}

// Option configures a DataStore.
type Option func(*config)

type config struct {
	port   int
	params map[string]string
	schema string
	db     *stdsql.DB
	logger *slog.Logger
	debug  bool
}

func newConfig(opts []Option) *config {
	c := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithPort sets the server port. Ignored by SQLite.
func WithPort(port int) Option {
	return func(c *config) {
		c.port = port
	}
}

// WithParams adds extra DSN parameters. Ignored by SQLite.
func WithParams(params map[string]string) Option {
	return func(c *config) {
		if c.params == nil {
			c.params = make(map[string]string, len(params))
		}
		maps.Copy(c.params, params)
	}
}

// WithSchema sets the schema to read from. Only PostgreSQL has
// schemas distinct from the database; the default is "public".
func WithSchema(schema string) Option {
	return func(c *config) {
		c.schema = schema
	}
}

// WithDB makes Connect use an already opened handle instead of dialing.
// Close still closes the handle.
func WithDB(db *stdsql.DB) Option {
	return func(c *config) {
		c.db = db
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDebug logs every metadata query at debug level.
func WithDebug() Option {
	return func(c *config) {
		c.debug = true
	}
}

// conn holds the connection state shared by all variants.
type conn struct {
	kind   Kind
	params Params
	dsn    string
	target string // printable location, never includes credentials
	cfg    *config

	drv *sql.Driver
	ex  dialect.ExecQuerier
}

func (c *conn) Kind() Kind     { return c.kind }
func (c *conn) Params() Params { return c.params }

// connect opens and pings the database. check runs before dialing.
func (c *conn) connect(ctx context.Context, check func() error) error {
	if c.drv != nil {
		return nil
	}
	if check != nil {
		if err := check(); err != nil {
			return ormgen.NewConnectionError(c.kind.String(), c.target, "", err)
		}
	}
	var drv *sql.Driver
	if c.cfg.db != nil {
		drv = sql.OpenDB(c.kind.Dialect(), c.cfg.db)
	} else {
		var err error
		if drv, err = sql.Open(c.kind.Dialect(), c.dsn); err != nil {
			return ormgen.NewConnectionError(c.kind.String(), c.target, "open", err)
		}
	}
	if err := drv.Ping(ctx); err != nil {
		_ = drv.Close()
		return ormgen.NewConnectionError(c.kind.String(), c.target, reason(err), err)
	}
	c.drv = drv
	c.ex = drv
	if c.cfg.debug {
		c.ex = sql.NewDebugDriver(drv, sql.DebugWithLogger(c.cfg.logger))
	}
	c.cfg.logger.Debug("data store connected", "kind", c.kind.String(), "target", c.target)
	return nil
}

func reason(err error) string {
	switch {
	case sql.IsAccessDenied(err):
		return "access denied"
	case sql.IsUnknownDatabase(err):
		return "unknown database"
	default:
		return "ping"
	}
}

// Close releases the connection.
func (c *conn) Close() error {
	if c.drv == nil {
		return nil
	}
	err := c.drv.Close()
	c.drv, c.ex = nil, nil
	c.cfg.logger.Debug("data store closed", "kind", c.kind.String(), "target", c.target)
	return err
}

// querier returns the open connection or a ConnectionError.
func (c *conn) querier() (dialect.ExecQuerier, error) {
	if c.ex == nil {
		return nil, ormgen.NewConnectionError(c.kind.String(), c.target, "", ErrNotConnected)
	}
	return c.ex, nil
}

// resolve finds table among tables, exactly first and then ignoring case.
func resolve(tables []string, table string) (string, error) {
	if slices.Contains(tables, table) {
		return table, nil
	}
	for _, t := range tables {
		if strings.EqualFold(t, table) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrTableNotFound, table)
}
