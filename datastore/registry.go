package datastore

import (
	"errors"
	"log/slog"

	"github.com/syssam/ormgen"
)

// DuplicatePolicy decides what Register does with a name that is
// already taken.
type DuplicatePolicy uint8

const (
	// RejectDuplicates fails with a ConfigError.
	RejectDuplicates DuplicatePolicy = iota
	// OverwriteDuplicates replaces the previous store and closes it. A
	// failed close is logged, not returned.
	OverwriteDuplicates
)

// Registry maps logical names to data stores. It is created per run and
// passed explicitly to the generator; there is no process-wide instance.
type Registry struct {
	stores map[string]DataStore
	names  []string
	policy DuplicatePolicy
	opts   []Option
	logger *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithDuplicatePolicy sets the duplicate name policy.
// The default is RejectDuplicates.
func WithDuplicatePolicy(p DuplicatePolicy) RegistryOption {
	return func(r *Registry) {
		r.policy = p
	}
}

// WithStoreOptions sets options applied to every store built by Register.
func WithStoreOptions(opts ...Option) RegistryOption {
	return func(r *Registry) {
		r.opts = append(r.opts, opts...)
	}
}

// WithRegistryLogger sets the registry logger.
func WithRegistryLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		stores: make(map[string]DataStore),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register constructs the store variant selected by kind and stores it
// under name. The store is returned unconnected.
func (r *Registry) Register(name string, kind Kind, p Params) (DataStore, error) {
	if name == "" {
		return nil, ormgen.NewConfigError("name", nil, "data store name cannot be empty")
	}
	if err := r.checkDuplicate(name); err != nil {
		return nil, err
	}
	s, err := New(kind, p, r.opts...)
	if err != nil {
		return nil, err
	}
	r.put(name, s)
	return s, nil
}

// Add stores an already constructed store under name.
func (r *Registry) Add(name string, s DataStore) error {
	if name == "" {
		return ormgen.NewConfigError("name", nil, "data store name cannot be empty")
	}
	if s == nil {
		return ormgen.NewConfigError(name, nil, "data store cannot be nil")
	}
	if err := r.checkDuplicate(name); err != nil {
		return err
	}
	r.put(name, s)
	return nil
}

func (r *Registry) checkDuplicate(name string) error {
	if _, ok := r.stores[name]; ok && r.policy == RejectDuplicates {
		return ormgen.NewConfigError(name, nil, "data store already registered")
	}
	return nil
}

func (r *Registry) put(name string, s DataStore) {
	prev, ok := r.stores[name]
	r.stores[name] = s
	if !ok {
		r.names = append(r.names, name)
		r.logger.Debug("data store registered", "name", name, "kind", s.Kind().String())
		return
	}
	r.logger.Warn("data store replaced", "name", name, "kind", s.Kind().String())
	if prev != s {
		if err := prev.Close(); err != nil {
			r.logger.Warn("closing replaced data store failed", "name", name, "error", err)
		}
	}
}

// Get returns the store registered under name. The empty name selects
// the default store, which is the first one registered.
func (r *Registry) Get(name string) (DataStore, error) {
	if name == "" {
		if len(r.names) == 0 {
			return nil, ormgen.NewLookupError("")
		}
		name = r.names[0]
	}
	s, ok := r.stores[name]
	if !ok {
		return nil, ormgen.NewLookupError(name)
	}
	return s, nil
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Len returns the number of registered stores.
func (r *Registry) Len() int { return len(r.names) }

// Close closes every registered store and returns the joined errors.
// Stores stay registered and may be reconnected.
func (r *Registry) Close() error {
	var errs []error
	for _, name := range r.names {
		if err := r.stores[name].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
