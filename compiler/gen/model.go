package gen

import (
	"context"
	"errors"

	"github.com/syssam/ormgen/compiler/load"
	"github.com/syssam/ormgen/datastore"
)

// Model is the metadata of one table, read from a data store and handed
// to a Renderer. It lives for a single render.
type Model struct {
	// Name is the configured model name.
	Name string
	// ClassName is the generated class name without the Base suffix.
	ClassName string
	// Schema is the schema the table belongs to.
	Schema string
	// Relation is the canonical table name.
	Relation string
	// PrimaryKey holds the primary key columns in key order.
	PrimaryKey []string
	// Header holds the lines of the file header comment.
	Header []string
}

// BaseClassName returns the name of the generated class.
func (m *Model) BaseClassName() string {
	return m.ClassName + "Base"
}

// NewModel reads the metadata of the table described by spec from store.
// The store must be connected.
func NewModel(ctx context.Context, store datastore.DataStore, spec *load.Model) (*Model, error) {
	rel, err := store.Relation(ctx, spec.Table)
	if err != nil {
		return nil, err
	}
	pk, err := store.PrimaryKey(ctx, rel)
	if err != nil {
		return nil, err
	}
	return &Model{
		Name:       spec.Name,
		ClassName:  spec.Class,
		Schema:     store.Schema(),
		Relation:   rel,
		PrimaryKey: pk,
	}, nil
}

var (
	errNoClass    = errors.New("model has no class name")
	errNoRelation = errors.New("model has no relation")
)

// check reports metadata a renderer cannot do without.
func (m *Model) check() error {
	switch {
	case m == nil:
		return errors.New("nil model")
	case m.ClassName == "":
		return errNoClass
	case m.Relation == "":
		return errNoRelation
	}
	return nil
}
