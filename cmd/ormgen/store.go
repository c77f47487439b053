package main

import (
	"github.com/spf13/cobra"

	"github.com/syssam/ormgen/compiler"
	"github.com/syssam/ormgen/compiler/load"
	"github.com/syssam/ormgen/datastore"
)

// adhocStore is the name of the store declared with command line flags.
const adhocStore = "default"

// storeFlags declare a data store on the command line.
type storeFlags struct {
	kind string
	p    datastore.Params
}

func (f *storeFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.kind, "kind", "", "data store kind (mysql, sqlite, postgres) used when the config declares none")
	fl.StringVar(&f.p.Host, "host", "", "database host")
	fl.IntVar(&f.p.Port, "port", 0, "database port")
	fl.StringVar(&f.p.User, "user", "", "database user")
	fl.StringVar(&f.p.Password, "password", "", "database password")
	fl.StringVar(&f.p.Database, "database", "", "database name")
	fl.StringVar(&f.p.Path, "path", "", "SQLite database file")
	fl.StringVar(&f.p.Schema, "schema", "", "PostgreSQL schema")
}

// apply declares the flag store in cfg unless cfg declares stores itself.
func (f *storeFlags) apply(cfg *load.Config) {
	if f.kind == "" || len(cfg.DataStores) > 0 {
		return
	}
	cfg.DataStores = append(cfg.DataStores, &load.DataStore{
		Name:   adhocStore,
		Kind:   f.kind,
		Params: f.p,
	})
}

// compilerOptions returns the options shared by every command.
func (g *globals) compilerOptions() []compiler.Option {
	opts := []compiler.Option{compiler.WithLogger(g.logger)}
	if g.debug {
		opts = append(opts, compiler.WithStoreOptions(datastore.WithDebug(), datastore.WithLogger(g.logger)))
	}
	return opts
}
