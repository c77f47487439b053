package ormgen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the four failure classes.
var (
	// ErrConnection indicates a data store could not be reached or opened.
	ErrConnection = errors.New("ormgen: connection failed")

	// ErrConfig indicates malformed or missing configuration.
	ErrConfig = errors.New("ormgen: invalid configuration")

	// ErrLookup indicates a data store name that was never registered.
	ErrLookup = errors.New("ormgen: data store not registered")

	// ErrGeneration indicates a failure while fetching metadata for,
	// rendering, or writing a model.
	ErrGeneration = errors.New("ormgen: generation failed")
)

// ConnectionError represents a failure to connect to a data store, or a
// metadata query issued against a store that is not connected.
type ConnectionError struct {
	Store   string // data store kind or name
	Target  string // host, database or file path
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	var b strings.Builder
	b.WriteString("ormgen: connection error")
	if e.Store != "" {
		b.WriteString(" on ")
		b.WriteString(e.Store)
	}
	if e.Target != "" {
		fmt.Fprintf(&b, " (%s)", e.Target)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrConnection.
func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

// NewConnectionError returns a new ConnectionError.
func NewConnectionError(store, target, message string, cause error) *ConnectionError {
	return &ConnectionError{
		Store:   store,
		Target:  target,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ormgen: config error for %q", e.Option)
	if e.Value != nil {
		fmt.Fprintf(&b, " (value: %v)", e.Value)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// NewConfigError returns a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// WrapConfigError returns a new ConfigError caused by err.
func WrapConfigError(option string, message string, err error) *ConfigError {
	return &ConfigError{
		Option:  option,
		Message: message,
		Cause:   err,
	}
}

// LookupError is returned when a data store name was never registered.
type LookupError struct {
	Name string
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	if e.Name == "" {
		return "ormgen: no default data store registered"
	}
	return fmt.Sprintf("ormgen: data store %q not registered", e.Name)
}

// Is reports whether the target matches ErrLookup.
func (e *LookupError) Is(target error) bool {
	return target == ErrLookup
}

// NewLookupError returns a new LookupError for the given name.
func NewLookupError(name string) *LookupError {
	return &LookupError{Name: name}
}

// Generation phases reported by GenerationError.
const (
	PhaseResolve = "resolve"
	PhaseInspect = "inspect"
	PhaseRender  = "render"
	PhaseWrite   = "write"
)

// GenerationError represents a failure while generating a single model.
type GenerationError struct {
	Model string
	Phase string // one of the Phase constants
	File  string
	Cause error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("ormgen: generation error")
	if e.Model != "" {
		b.WriteString(" on model ")
		b.WriteString(e.Model)
	}
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrGeneration.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

// NewGenerationError returns a new GenerationError.
func NewGenerationError(model, phase, file string, cause error) *GenerationError {
	return &GenerationError{
		Model: model,
		Phase: phase,
		File:  file,
		Cause: cause,
	}
}

// IsConnectionError reports whether the error chain contains a ConnectionError.
func IsConnectionError(err error) bool {
	var e *ConnectionError
	return errors.As(err, &e)
}

// IsConfigError reports whether the error chain contains a ConfigError.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsLookupError reports whether the error chain contains a LookupError.
func IsLookupError(err error) bool {
	var e *LookupError
	return errors.As(err, &e)
}

// IsGenerationError reports whether the error chain contains a GenerationError.
func IsGenerationError(err error) bool {
	var e *GenerationError
	return errors.As(err, &e)
}
