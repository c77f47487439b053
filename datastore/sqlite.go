package datastore

import (
	"context"
	"fmt"
	"os"
	"slices"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"
	_ "modernc.org/sqlite"

	"github.com/syssam/ormgen"
	"github.com/syssam/ormgen/dialect/sql"
)

// sqliteMain is the schema name SQLite gives the primary database file.
const sqliteMain = "main"

// SQLite is a DataStore backed by an existing SQLite database file.
// Tables are read with the atlas SQLite inspector; primary keys come from
// pragma_table_info, which reports key order.
type SQLite struct {
	conn
	path      string
	inspector migrate.Driver
}

// NewSQLite returns an unconnected store for the database file at path.
func NewSQLite(path string, opts ...Option) *SQLite {
	cfg := newConfig(opts)
	return &SQLite{
		conn: conn{
			kind:   KindSQLite,
			dsn:    path,
			target: path,
			cfg:    cfg,
			params: Params{Path: path},
		},
		path: path,
	}
}

// Connect opens the database file. The file must exist; opening a missing
// path would otherwise create an empty database.
func (s *SQLite) Connect(ctx context.Context) error {
	return s.connect(ctx, func() error {
		if s.cfg.db != nil {
			return nil
		}
		info, err := os.Stat(s.path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", s.path)
		}
		return nil
	})
}

// Close releases the database file.
func (s *SQLite) Close() error {
	s.inspector = nil
	return s.conn.Close()
}

// Schema returns "main".
func (s *SQLite) Schema() string { return sqliteMain }

// inspect returns the atlas schema of the main database.
func (s *SQLite) inspect(ctx context.Context) (*schema.Schema, error) {
	ex, err := s.querier()
	if err != nil {
		return nil, err
	}
	if s.inspector == nil {
		var db sql.ExecQuerier = s.drv.DB()
		if d, ok := ex.(*sql.DebugDriver); ok {
			db = d.Querier()
		}
		drv, err := sqlite.Open(db)
		if err != nil {
			return nil, ormgen.NewConnectionError(s.kind.String(), s.target, "open inspector", err)
		}
		s.inspector = drv
	}
	s.cfg.logger.Debug("inspecting sqlite schema", "path", s.path)
	return s.inspector.InspectSchema(ctx, sqliteMain, &schema.InspectOptions{
		Mode: schema.InspectTables,
	})
}

// Tables returns the tables of the database, excluding SQLite internals.
func (s *SQLite) Tables(ctx context.Context) ([]string, error) {
	sch, err := s.inspect(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(sch.Tables))
	for _, t := range sch.Tables {
		names = append(names, t.Name)
	}
	slices.Sort(names)
	return names, nil
}

// Relation returns the canonical name of table.
func (s *SQLite) Relation(ctx context.Context, table string) (string, error) {
	tables, err := s.Tables(ctx)
	if err != nil {
		return "", err
	}
	return resolve(tables, table)
}

// PrimaryKey returns the primary key columns in key order, which may
// differ from column order.
func (s *SQLite) PrimaryKey(ctx context.Context, table string) ([]string, error) {
	rel, err := s.Relation(ctx, table)
	if err != nil {
		return nil, err
	}
	ex, err := s.querier()
	if err != nil {
		return nil, err
	}
	return sql.QueryStrings(ctx, ex, "SELECT name FROM pragma_table_info(?) WHERE pk > 0 ORDER BY pk", rel)
}

var _ DataStore = (*SQLite)(nil)
