package gen

import (
	"bytes"
	"fmt"
	"go/token"

	"github.com/dave/jennifer/jen"
)

// GoRenderer renders a model as a Go struct with Schema, Relation and
// PrimaryKey methods.
type GoRenderer struct {
	pkg string
}

// Go returns a renderer producing Go files in package pkg.
func Go(pkg string) *GoRenderer {
	if pkg == "" {
		pkg = "models"
	}
	return &GoRenderer{pkg: pkg}
}

// Name returns "go".
func (*GoRenderer) Name() string { return "go" }

// Ext returns ".go".
func (*GoRenderer) Ext() string { return ".go" }

// Render returns the formatted Go source for m.
func (r *GoRenderer) Render(m *Model) ([]byte, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	name := m.BaseClassName()
	if !token.IsIdentifier(name) {
		return nil, fmt.Errorf("%q is not a valid Go identifier", name)
	}
	f := jen.NewFile(r.pkg)
	for _, line := range m.Header {
		f.HeaderComment(commentLine(line))
	}
	recv := jen.Id(name)

	f.Commentf("%s describes the table %s.", name, m.Relation)
	f.Type().Id(name).Struct()

	f.Comment("Schema returns the schema the table belongs to.")
	f.Func().Params(recv.Clone()).Id("Schema").Params().String().Block(
		jen.Return(jen.Lit(m.Schema)),
	)

	f.Comment("Relation returns the table name.")
	f.Func().Params(recv.Clone()).Id("Relation").Params().String().Block(
		jen.Return(jen.Lit(m.Relation)),
	)

	f.Comment("PrimaryKey returns the primary key columns in key order.")
	f.Func().Params(recv.Clone()).Id("PrimaryKey").Params().Index().String().Block(
		jen.Return(jen.Index().String().ValuesFunc(func(g *jen.Group) {
			for _, c := range m.PrimaryKey {
				g.Lit(c)
			}
		})),
	)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

var _ Renderer = (*GoRenderer)(nil)
