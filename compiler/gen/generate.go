package gen

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/syssam/ormgen"
	"github.com/syssam/ormgen/compiler/load"
	"github.com/syssam/ormgen/datastore"
)

// Resolver returns the data store registered under a name. The empty
// name selects the default store. *datastore.Registry implements it.
type Resolver interface {
	Get(name string) (datastore.DataStore, error)
}

// Generator renders and writes model files.
type Generator struct {
	cfg *Config
}

// NewGenerator returns a Generator configured by opts.
func NewGenerator(opts ...Option) (*Generator, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg}, nil
}

// Report summarizes a generation run.
type Report struct {
	// Files lists the generated files in model order.
	Files []File
	// Failed lists the models that failed.
	Failed []string
	// Metrics holds the run totals.
	Metrics WriterMetrics
}

// File describes one generated file.
type File struct {
	Model string
	Path  string
	Bytes int
	// Written is false on dry runs.
	Written bool
}

// Generate generates the models in order. Stores are resolved through
// stores and connected on first use; closing them is left to the caller.
//
// The returned Report is never nil. The error is a *ormgen.GenerationError
// for a single failure and the errors.Join of all failures otherwise.
func (g *Generator) Generate(ctx context.Context, stores Resolver, models []*load.Model) (*Report, error) {
	var (
		report = &Report{}
		errs   []error
		log    = g.cfg.Logger
		w      = &writer{
			dir:     g.cfg.OutputDir,
			ext:     g.cfg.Renderer.Ext(),
			dryRun:  g.cfg.DryRun,
			metrics: &report.Metrics,
		}
	)
	log.Info("generating models", "models", len(models), "renderer", g.cfg.Renderer.Name(), "policy", g.cfg.Policy.String())
	for _, spec := range models {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		f, err := g.generate(ctx, stores, w, spec)
		if err != nil {
			log.Error("model generation failed", "model", spec.Name, "error", err)
			report.Failed = append(report.Failed, spec.Name)
			errs = append(errs, err)
			if g.cfg.Policy == FailFast {
				break
			}
			continue
		}
		report.Files = append(report.Files, *f)
		report.Metrics.FilesGenerated++
		report.Metrics.TotalBytes += int64(f.Bytes)
		log.Debug("model generated", "model", f.Model, "path", f.Path, "bytes", f.Bytes, "written", f.Written)
	}
	log.Info("generation finished", "files", len(report.Files), "failed", len(report.Failed), "dry_run", g.cfg.DryRun)
	switch len(errs) {
	case 0:
		return report, nil
	case 1:
		return report, errs[0]
	default:
		return report, errors.Join(errs...)
	}
}

// generate runs the four phases for one model.
func (g *Generator) generate(ctx context.Context, stores Resolver, w *writer, spec *load.Model) (*File, error) {
	path := w.path(spec.Output)
	if ext := filepath.Ext(path); ext != w.ext {
		g.cfg.Logger.Warn("output extension does not match renderer",
			"model", spec.Name, "path", path, "renderer", g.cfg.Renderer.Name(), "ext", w.ext)
	}
	fail := func(phase string, err error) (*File, error) {
		return nil, ormgen.NewGenerationError(spec.Name, phase, path, err)
	}
	store, err := stores.Get(spec.DataStore)
	if err != nil {
		return fail(ormgen.PhaseResolve, err)
	}
	if err := store.Connect(ctx); err != nil {
		return fail(ormgen.PhaseResolve, err)
	}
	m, err := NewModel(ctx, store, spec)
	if err != nil {
		return fail(ormgen.PhaseInspect, err)
	}
	m.Header = g.cfg.Header

	start := time.Now()
	out, err := g.cfg.Renderer.Render(m)
	w.metrics.RenderTime += time.Since(start)
	if err != nil {
		return fail(ormgen.PhaseRender, err)
	}
	if err := w.write(path, out); err != nil {
		return fail(ormgen.PhaseWrite, err)
	}
	return &File{Model: spec.Name, Path: path, Bytes: len(out), Written: !w.dryRun}, nil
}

// single resolves every name to one store.
type single struct{ store datastore.DataStore }

func (s single) Get(string) (datastore.DataStore, error) { return s.store, nil }

// GenerateModels generates every model from a single store, which is
// connected if needed and left open.
func GenerateModels(ctx context.Context, store datastore.DataStore, models []*load.Model, opts ...Option) (*Report, error) {
	g, err := NewGenerator(opts...)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, single{store}, models)
}
