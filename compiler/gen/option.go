package gen

import (
	"log/slog"

	"github.com/syssam/ormgen"
)

// DefaultHeader is the header written at the top of every generated file.
const DefaultHeader = "Code generated by ormgen. DO NOT EDIT."

// FailurePolicy decides whether a failed model stops the run.
type FailurePolicy uint8

const (
	// FailFast stops at the first failed model.
	FailFast FailurePolicy = iota
	// ContinueOnError generates every model and reports all failures.
	ContinueOnError
)

// String implements fmt.Stringer.
func (p FailurePolicy) String() string {
	switch p {
	case FailFast:
		return "failfast"
	case ContinueOnError:
		return "continue"
	default:
		return "invalid"
	}
}

// Config holds the generator configuration.
type Config struct {
	// Renderer renders every model. Defaults to PHP().
	Renderer Renderer
	// OutputDir is joined onto relative output paths. Defaults to ".".
	OutputDir string
	// Header holds the header comment lines.
	Header []string
	// Policy is the failure policy. Defaults to FailFast.
	Policy FailurePolicy
	// DryRun renders without writing files.
	DryRun bool
	// Logger receives progress logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// Option configures code generation.
type Option func(*Config) error

// NewConfig returns a Config with the options applied over the defaults.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Renderer:  PHP(),
		OutputDir: ".",
		Header:    []string{DefaultHeader},
		Logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithRenderer sets the renderer.
func WithRenderer(r Renderer) Option {
	return func(c *Config) error {
		if r == nil {
			return ormgen.NewConfigError("Renderer", nil, "renderer cannot be nil")
		}
		c.Renderer = r
		return nil
	}
}

// WithOutputDir sets the directory relative output paths are joined onto.
func WithOutputDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return ormgen.NewConfigError("OutputDir", nil, "output directory cannot be empty")
		}
		c.OutputDir = dir
		return nil
	}
}

// WithHeader replaces the header comment lines.
// Calling it without lines removes the header.
func WithHeader(lines ...string) Option {
	return func(c *Config) error {
		c.Header = append([]string(nil), lines...)
		return nil
	}
}

// WithFailurePolicy sets the failure policy.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(c *Config) error {
		switch p {
		case FailFast, ContinueOnError:
			c.Policy = p
			return nil
		default:
			return ormgen.NewConfigError("Policy", uint8(p), "unknown failure policy")
		}
	}
}

// WithDryRun renders every model without writing any file.
func WithDryRun() Option {
	return func(c *Config) error {
		c.DryRun = true
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return ormgen.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}
