package compiler

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ormgen"
	"github.com/syssam/ormgen/compiler/gen"
	"github.com/syssam/ormgen/compiler/load"
	"github.com/syssam/ormgen/datastore"
)

// newCatalog creates a SQLite database with a widget and an order_item
// table and returns its path.
func newCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	for _, stmt := range []string{
		"CREATE TABLE widget (id INTEGER PRIMARY KEY, name TEXT)",
		"CREATE TABLE order_item (order_id INTEGER NOT NULL, product_id INTEGER NOT NULL, PRIMARY KEY (order_id, product_id))",
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return path
}

func parseConfig(t *testing.T, format string, args ...any) *load.Config {
	t.Helper()
	cfg, err := load.Parse([]byte(fmt.Sprintf(format, args...)), load.FormatJSON)
	require.NoError(t, err)
	return cfg
}

func TestGenerate(t *testing.T) {
	db := newCatalog(t)
	out := t.TempDir()
	cfg := parseConfig(t, `{
  "datastores": {"local": {"kind": "sqlite", "path": %q}},
  "options": {"out": %q, "header": ["Copyright Skinit, Inc."]},
  "models": {
    "Widget": {"output": "Widget.php"},
    "OrderItem": {"output": "OrderItem.php", "datastore": "local"}
  }
}`, db, out)

	r := datastore.NewRegistry()
	report, err := Generate(context.Background(), cfg, WithRegistry(r))
	require.NoError(t, err)
	require.Len(t, report.Files, 2)

	widget, err := os.ReadFile(filepath.Join(out, "Widget.php"))
	require.NoError(t, err)
	assert.Contains(t, string(widget), " * Copyright Skinit, Inc.\n")
	assert.Contains(t, string(widget), "class WidgetBase")
	assert.Contains(t, string(widget), "            'id',\n")

	orderItem, err := os.ReadFile(filepath.Join(out, "OrderItem.php"))
	require.NoError(t, err)
	assert.Contains(t, string(orderItem), "            'order_id',\n            'product_id',\n")

	// Every store is released once Generate returns.
	s, err := r.Get("local")
	require.NoError(t, err)
	_, err = s.Tables(context.Background())
	assert.ErrorIs(t, err, datastore.ErrNotConnected)
}

func TestGenerateReleasesOnFailure(t *testing.T) {
	db := newCatalog(t)
	cfg := parseConfig(t, `{
  "datastores": {"local": {"kind": "sqlite", "path": %q}},
  "options": {"out": %q},
  "models": {"Widget": {"output": "Widget.php"}, "Gadget": {"output": "Gadget.php"}}
}`, db, t.TempDir())

	r := datastore.NewRegistry()
	report, err := Generate(context.Background(), cfg, WithRegistry(r))
	require.Error(t, err)
	assert.True(t, ormgen.IsGenerationError(err))
	assert.ErrorIs(t, err, datastore.ErrTableNotFound)
	assert.Equal(t, []string{"Gadget"}, report.Failed)

	s, err := r.Get("local")
	require.NoError(t, err)
	_, err = s.Tables(context.Background())
	assert.ErrorIs(t, err, datastore.ErrNotConnected)
}

func TestGenerateUsesRegisteredStores(t *testing.T) {
	r := datastore.NewRegistry()
	require.NoError(t, r.Add("catalog", datastore.NewSQLite(newCatalog(t))))
	out := t.TempDir()
	cfg := parseConfig(t, `{"Widget": {"output": "Widget.go"}}`)
	cfg.Options.Lang = load.LangGo
	cfg.Options.Package = "catalog"

	report, err := Generate(context.Background(), cfg, WithRegistry(r), WithGenOptions(gen.WithOutputDir(out)))
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	src, err := os.ReadFile(filepath.Join(out, "Widget.go"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(src), "// Code generated by ormgen. DO NOT EDIT.\n\npackage catalog\n"))
}

func TestGenerateConfigErrors(t *testing.T) {
	t.Run("missing store", func(t *testing.T) {
		cfg := parseConfig(t, `{"Widget": {"output": "Widget.php"}}`)
		_, err := Generate(context.Background(), cfg, WithGenOptions(gen.WithOutputDir(t.TempDir())))
		require.Error(t, err)
		assert.True(t, ormgen.IsLookupError(err))
	})

	t.Run("invalid store params", func(t *testing.T) {
		cfg := parseConfig(t, `{"datastores": {"dev": {"kind": "mysql"}}, "models": {"Widget": {"output": "Widget.php"}}}`)
		_, err := Generate(context.Background(), cfg)
		require.Error(t, err)
		assert.True(t, ormgen.IsConfigError(err))
	})

	t.Run("missing template", func(t *testing.T) {
		cfg := parseConfig(t, `{"options": {"template": %q}, "models": {"Widget": {"output": "Widget.php"}}}`,
			filepath.Join(t.TempDir(), "missing.tmpl"))
		_, err := Generate(context.Background(), cfg)
		require.Error(t, err)
		assert.True(t, ormgen.IsConfigError(err))
	})

	t.Run("missing sqlite file", func(t *testing.T) {
		cfg := parseConfig(t, `{"datastores": {"local": {"kind": "sqlite", "path": %q}}, "models": {"Widget": {"output": "Widget.php"}}}`,
			filepath.Join(t.TempDir(), "missing.db"))
		_, err := Generate(context.Background(), cfg, WithGenOptions(gen.WithOutputDir(t.TempDir())))
		require.Error(t, err)
		assert.True(t, ormgen.IsConnectionError(err))
		assert.True(t, ormgen.IsGenerationError(err))
	})
}

func TestGenOptions(t *testing.T) {
	cfg := &load.Config{Options: load.Options{
		Lang:   "go",
		Out:    "models",
		Header: []string{"Copyright Skinit, Inc."},
		Policy: "continue",
	}}
	opts, err := GenOptions(cfg)
	require.NoError(t, err)
	c, err := gen.NewConfig(opts...)
	require.NoError(t, err)
	assert.Equal(t, "go", c.Renderer.Name())
	assert.Equal(t, "models", c.OutputDir)
	assert.Equal(t, []string{"Copyright Skinit, Inc."}, c.Header)
	assert.Equal(t, gen.ContinueOnError, c.Policy)

	opts, err = GenOptions(&load.Config{})
	require.NoError(t, err)
	c, err = gen.NewConfig(opts...)
	require.NoError(t, err)
	assert.Equal(t, "php", c.Renderer.Name())
	assert.Equal(t, ".", c.OutputDir)
	assert.Equal(t, []string{gen.DefaultHeader}, c.Header)
	assert.Equal(t, gen.FailFast, c.Policy)
}

func TestRenderer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.php.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("class {{ .BaseClassName }} {}\n"), 0o644))

	r, err := Renderer(load.Options{Lang: "go", Template: path})
	require.NoError(t, err)
	assert.Equal(t, "model.php", r.Name())

	r, err = Renderer(load.Options{Lang: "GO"})
	require.NoError(t, err)
	assert.Equal(t, ".go", r.Ext())

	_, err = Renderer(load.Options{Lang: "cobol"})
	assert.True(t, ormgen.IsConfigError(err))
}
