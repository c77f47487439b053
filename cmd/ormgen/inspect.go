package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/syssam/ormgen/compiler"
	"github.com/syssam/ormgen/compiler/load"
	"github.com/syssam/ormgen/datastore"
)

func newInspectCmd(g *globals) *cobra.Command {
	var (
		config string
		name   string
		store  storeFlags
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List the tables of a data store with their primary keys",
		Example: `  ormgen inspect --datastore catalog
  ormgen inspect --kind sqlite --path catalog.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg := &load.Config{}
			if fileExists(config) || cmd.Flags().Changed("config") {
				if cfg, err = load.Load(config); err != nil {
					return err
				}
			}
			store.apply(cfg)

			ropts := []datastore.RegistryOption{datastore.WithRegistryLogger(g.logger)}
			if g.debug {
				ropts = append(ropts, datastore.WithStoreOptions(datastore.WithDebug(), datastore.WithLogger(g.logger)))
			}
			r := datastore.NewRegistry(ropts...)
			defer func() {
				err = errors.Join(err, r.Close())
			}()
			if err := compiler.Register(r, cfg); err != nil {
				return err
			}
			s, err := r.Get(name)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := s.Connect(ctx); err != nil {
				return err
			}
			tables, err := s.Tables(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "schema %s (%s)\n", s.Schema(), s.Kind())
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TABLE\tPRIMARY KEY")
			for _, t := range tables {
				pk, err := s.PrimaryKey(ctx, t)
				if err != nil {
					return err
				}
				key := strings.Join(pk, ", ")
				if key == "" {
					key = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\n", t, key)
			}
			return tw.Flush()
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&config, "config", "c", load.DefaultConfigFile, "configuration file declaring data stores")
	fl.StringVarP(&name, "datastore", "d", "", "data store to inspect (default: the first declared)")
	store.register(cmd)
	return cmd
}
