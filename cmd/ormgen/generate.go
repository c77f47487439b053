package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/syssam/ormgen/compiler"
	"github.com/syssam/ormgen/compiler/gen"
	"github.com/syssam/ormgen/compiler/load"
)

type generateFlags struct {
	config   string
	out      string
	lang     string
	template string
	pkg      string
	header   []string
	cont     bool
	dryRun   bool
	watch    bool
	store    storeFlags
}

func newGenerateCmd(g *globals) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one file per configured model",
		Example: `  ormgen generate
  ormgen generate --config orm.yaml --out models --continue-on-error
  ormgen generate --kind sqlite --path catalog.db --lang go --package models`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			run := func(ctx context.Context) error {
				cfg, err := f.load(cmd)
				if err != nil {
					return err
				}
				opts := g.compilerOptions()
				if f.dryRun {
					opts = append(opts, compiler.WithGenOptions(gen.WithDryRun()))
				}
				report, err := compiler.Generate(ctx, cfg, opts...)
				if report != nil {
					printReport(cmd.OutOrStdout(), report)
				}
				return err
			}
			if !f.watch {
				return run(cmd.Context())
			}
			var extra []string
			if f.template != "" {
				extra = append(extra, f.template)
			}
			return compiler.Watch(cmd.Context(), f.config, run,
				compiler.WatchFiles(extra...),
				compiler.WatchLogger(g.logger),
			)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", load.DefaultConfigFile, "configuration file (JSON or YAML)")
	fl.StringVarP(&f.out, "out", "o", "", "output directory for relative output paths")
	fl.StringVar(&f.lang, "lang", "", "output language (php or go)")
	fl.StringVar(&f.template, "template", "", "custom template file")
	fl.StringVar(&f.pkg, "package", "", "package name of Go output")
	fl.StringArrayVar(&f.header, "header", nil, "header comment line (repeatable)")
	fl.BoolVar(&f.cont, "continue-on-error", false, "generate the remaining models after a failure")
	fl.BoolVar(&f.dryRun, "dry-run", false, "render without writing files")
	fl.BoolVarP(&f.watch, "watch", "w", false, "regenerate when the configuration changes")
	f.store.register(cmd)
	return cmd
}

// load reads the configuration and applies the command line overrides.
func (f *generateFlags) load(cmd *cobra.Command) (*load.Config, error) {
	cfg, err := load.Load(f.config)
	if err != nil {
		return nil, err
	}
	o := &cfg.Options
	if f.out != "" {
		o.Out = f.out
	}
	if f.lang != "" {
		o.Lang = f.lang
	}
	if f.template != "" {
		o.Template = f.template
	}
	if f.pkg != "" {
		o.Package = f.pkg
	}
	if cmd.Flags().Changed("header") {
		o.Header = f.header
	}
	if f.cont {
		o.Policy = load.PolicyContinue
	}
	f.store.apply(cfg)
	return cfg, cfg.Validate()
}

func printReport(w io.Writer, r *gen.Report) {
	for _, f := range r.Files {
		if f.Written {
			fmt.Fprintf(w, "wrote %s (%d bytes)\n", f.Path, f.Bytes)
		} else {
			fmt.Fprintf(w, "rendered %s (%d bytes, not written)\n", f.Path, f.Bytes)
		}
	}
	fmt.Fprintf(w, "%d generated, %d failed\n", len(r.Files), len(r.Failed))
}
