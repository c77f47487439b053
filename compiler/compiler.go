// Package compiler wires configuration, data stores and the generator
// together.
package compiler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/syssam/ormgen"
	"github.com/syssam/ormgen/compiler/gen"
	"github.com/syssam/ormgen/compiler/load"
	"github.com/syssam/ormgen/datastore"
)

// Option configures Generate.
type Option func(*options)

type options struct {
	registry  *datastore.Registry
	storeOpts []datastore.Option
	genOpts   []gen.Option
	logger    *slog.Logger
}

// WithRegistry makes Generate register the configured stores into r
// instead of a fresh registry. Stores already in r can be referenced by
// the models. r is closed when Generate returns.
func WithRegistry(r *datastore.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithStoreOptions sets options applied to every configured data store.
// It is ignored when WithRegistry is given.
func WithStoreOptions(opts ...datastore.Option) Option {
	return func(o *options) {
		o.storeOpts = append(o.storeOpts, opts...)
	}
}

// WithGenOptions sets generator options applied after those derived from
// the configuration, so they take precedence.
func WithGenOptions(opts ...gen.Option) Option {
	return func(o *options) {
		o.genOpts = append(o.genOpts, opts...)
	}
}

// WithLogger sets the logger of the registry and the generator.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Generate registers the data stores declared by cfg, generates every
// model and closes all stores before returning, on success and failure
// alike. Close errors are joined into the returned error.
func Generate(ctx context.Context, cfg *load.Config, opts ...Option) (report *gen.Report, err error) {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	reg := o.registry
	if reg == nil {
		reg = datastore.NewRegistry(
			datastore.WithStoreOptions(o.storeOpts...),
			datastore.WithRegistryLogger(o.logger),
		)
	}
	defer func() {
		if cerr := reg.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	if err := Register(reg, cfg); err != nil {
		return nil, err
	}
	genOpts, err := GenOptions(cfg)
	if err != nil {
		return nil, err
	}
	genOpts = append(genOpts, gen.WithLogger(o.logger))
	g, err := gen.NewGenerator(append(genOpts, o.genOpts...)...)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, reg, cfg.Models)
}

// Register adds the data stores declared by cfg to r. Stores are built
// with the store options of r but not connected.
func Register(r *datastore.Registry, cfg *load.Config) error {
	for _, s := range cfg.DataStores {
		kind, err := datastore.ParseKind(s.Kind)
		if err != nil {
			return err
		}
		if _, err := r.Register(s.Name, kind, s.Params); err != nil {
			return err
		}
	}
	return nil
}

// GenOptions returns the generator options implied by the configuration
// file options.
func GenOptions(cfg *load.Config) ([]gen.Option, error) {
	var opts []gen.Option
	r, err := Renderer(cfg.Options)
	if err != nil {
		return nil, err
	}
	opts = append(opts, gen.WithRenderer(r))
	if cfg.Options.Out != "" {
		opts = append(opts, gen.WithOutputDir(cfg.Options.Out))
	}
	if len(cfg.Options.Header) > 0 {
		opts = append(opts, gen.WithHeader(cfg.Options.Header...))
	}
	policy, err := load.ParsePolicy(cfg.Options.Policy)
	if err != nil {
		return nil, err
	}
	if policy == load.PolicyContinue {
		opts = append(opts, gen.WithFailurePolicy(gen.ContinueOnError))
	}
	return opts, nil
}

// Renderer returns the renderer selected by the options. A template file
// takes precedence over the language.
func Renderer(o load.Options) (gen.Renderer, error) {
	if o.Template != "" {
		t, err := gen.ParseTemplateFile(o.Template)
		if err != nil {
			return nil, ormgen.WrapConfigError("template", o.Template, err)
		}
		return t, nil
	}
	switch strings.ToLower(o.Lang) {
	case "", load.LangPHP:
		return gen.PHP(), nil
	case load.LangGo:
		return gen.Go(o.Package), nil
	default:
		return nil, ormgen.NewConfigError("lang", o.Lang, "unknown language; use php or go")
	}
}
