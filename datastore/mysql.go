package datastore

import (
	"context"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"github.com/syssam/ormgen/dialect/sql"
)

const defaultMySQLPort = 3306

// MySQL is a DataStore backed by a MySQL or MariaDB server. Metadata is
// read from information_schema.
type MySQL struct {
	conn
	database string
}

// NewMySQL returns an unconnected MySQL store for the given database.
func NewMySQL(host, user, password, database string, opts ...Option) *MySQL {
	cfg := newConfig(opts)
	port := cfg.port
	if port == 0 {
		port = defaultMySQLPort
	}
	mc := mysql.NewConfig()
	mc.User = user
	mc.Passwd = password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	mc.DBName = database
	mc.Params = cfg.params
	return &MySQL{
		conn: conn{
			kind:   KindMySQL,
			dsn:    mc.FormatDSN(),
			target: mc.Addr + "/" + database,
			cfg:    cfg,
			params: Params{
				Host:     host,
				Port:     cfg.port,
				User:     user,
				Password: password,
				Database: database,
				Options:  cfg.params,
			},
		},
		database: database,
	}
}

// Connect opens the connection and verifies the credentials.
func (m *MySQL) Connect(ctx context.Context) error {
	return m.connect(ctx, nil)
}

// Schema returns the database name.
func (m *MySQL) Schema() string { return m.database }

// Tables returns the base tables of the database.
func (m *MySQL) Tables(ctx context.Context) ([]string, error) {
	ex, err := m.querier()
	if err != nil {
		return nil, err
	}
	return sql.QueryStrings(ctx, ex,
		"SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME",
		m.database,
	)
}

// Relation returns the canonical name of table.
func (m *MySQL) Relation(ctx context.Context, table string) (string, error) {
	tables, err := m.Tables(ctx)
	if err != nil {
		return "", err
	}
	return resolve(tables, table)
}

// PrimaryKey returns the columns of the PRIMARY constraint in key order.
func (m *MySQL) PrimaryKey(ctx context.Context, table string) ([]string, error) {
	rel, err := m.Relation(ctx, table)
	if err != nil {
		return nil, err
	}
	ex, err := m.querier()
	if err != nil {
		return nil, err
	}
	return sql.QueryStrings(ctx, ex,
		"SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND CONSTRAINT_NAME = 'PRIMARY' ORDER BY ORDINAL_POSITION",
		m.database, rel,
	)
}

var _ DataStore = (*MySQL)(nil)
