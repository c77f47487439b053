package load

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ormgen"
	"github.com/syssam/ormgen/datastore"
)

func modelNames(c *Config) []string {
	names := make([]string, len(c.Models))
	for i, m := range c.Models {
		names[i] = m.Name
	}
	return names
}

func TestLoadFlat(t *testing.T) {
	cfg, err := Load("testdata/flat.json")
	require.NoError(t, err)
	assert.Equal(t, "testdata/flat.json", cfg.Path)
	assert.Empty(t, cfg.DataStores)
	assert.Equal(t, []string{"Widget", "OrderItem", "Account"}, modelNames(cfg))

	assert.Equal(t, &Model{Name: "Widget", Output: "Widget.php", Class: "Widget", Table: "widget"}, cfg.Models[0])
	assert.Equal(t, "OrderItem", cfg.Models[1].Class)
	assert.Equal(t, "order_item", cfg.Models[1].Table)
	assert.Equal(t, &Model{Name: "Account", Output: "models/Account.php", Class: "CustomerAccount", Table: "accounts"}, cfg.Models[2])
}

func TestLoadStructuredJSON(t *testing.T) {
	t.Setenv("ORMGEN_TEST_PASSWORD", "s3cret")
	cfg, err := Load("testdata/structured.json")
	require.NoError(t, err)

	require.Len(t, cfg.DataStores, 2)
	assert.Equal(t, &DataStore{
		Name: "catalog",
		Kind: "mysql",
		Params: datastore.Params{
			Host:     "db-dev",
			User:     "dba_user",
			Password: "s3cret",
			Database: "catalog",
		},
	}, cfg.DataStores[0])
	assert.Equal(t, &DataStore{Name: "local", Kind: "sqlite", Params: datastore.Params{Path: "catalog.db"}}, cfg.DataStores[1])

	assert.Equal(t, Options{
		Lang:   "php",
		Out:    "models",
		Header: []string{"Copyright Skinit, Inc."},
		Policy: "continue",
	}, cfg.Options)
	assert.Equal(t, []string{"Widget", "Gadget"}, modelNames(cfg))
	assert.Equal(t, "catalog", cfg.Models[0].DataStore)
	assert.Equal(t, "local", cfg.Models[1].DataStore)
}

func TestLoadStructuredYAML(t *testing.T) {
	cfg, err := Load("testdata/structured.yaml")
	require.NoError(t, err)

	require.Len(t, cfg.DataStores, 2)
	assert.Equal(t, "local", cfg.DataStores[0].Name)
	assert.Equal(t, &DataStore{
		Name: "warehouse",
		Kind: "postgres",
		Params: datastore.Params{
			Host:     "pg",
			Port:     6432,
			User:     "app",
			Password: "secret",
			Database: "warehouse",
			Schema:   "inventory",
			Options:  map[string]string{"sslmode": "require"},
		},
	}, cfg.DataStores[1])
	assert.Equal(t, LangGo, cfg.Options.Lang)
	assert.Equal(t, "models", cfg.Options.Package)
	assert.Equal(t, []string{"Widget", "StockLevel"}, modelNames(cfg))
	assert.Equal(t, "stock_level", cfg.Models[1].Table)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	const key = "ORMGEN_TEST_DOTENV_PATH"
	t.Cleanup(func() { os.Unsetenv(key) })
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=from-dotenv.db\n"), 0o644))
	path := filepath.Join(dir, "orm_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "datastores": {"local": {"kind": "sqlite", "path": "${`+key+`}"}},
  "models": {"Widget": {"output": "Widget.php"}}
}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.db", cfg.DataStores[0].Params.Path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "orm_config.json"))
	require.Error(t, err)
	assert.True(t, ormgen.IsConfigError(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		doc    string
	}{
		{"syntax", FormatJSON, `{"Widget": {"output": `},
		{"not an object", FormatJSON, `["Widget"]`},
		{"trailing data", FormatJSON, `{"Widget": {"output": "a.php"}} {}`},
		{"duplicate model", FormatJSON, `{"Widget": {"output": "a.php"}, "Widget": {"output": "b.php"}}`},
		{"no models", FormatJSON, `{}`},
		{"missing output", FormatJSON, `{"Widget": {}}`},
		{"model not an object", FormatJSON, `{"Widget": "Widget.php"}`},
		{"invalid class", FormatJSON, `{"Widget": {"output": "a.php", "class": "9Widget"}}`},
		{"shared output", FormatJSON, `{"Widget": {"output": "out/a.php"}, "Gadget": {"output": "out/./a.php"}}`},
		{"unknown top-level key", FormatJSON, `{"models": {"Widget": {"output": "a.php"}}, "extra": 1}`},
		{"unknown kind", FormatJSON, `{"datastores": {"x": {"kind": "oracle"}}, "models": {"Widget": {"output": "a.php"}}}`},
		{"undeclared datastore", FormatJSON, `{"datastores": {"x": {"kind": "sqlite", "path": "x.db"}}, "models": {"Widget": {"output": "a.php", "datastore": "y"}}}`},
		{"unknown lang", FormatJSON, `{"options": {"lang": "ruby"}, "models": {"Widget": {"output": "a.php"}}}`},
		{"unknown policy", FormatJSON, `{"options": {"policy": "retry"}, "models": {"Widget": {"output": "a.php"}}}`},
		{"yaml sequence", FormatYAML, "- Widget\n"},
		{"yaml empty", FormatYAML, ""},
		{"yaml duplicate", FormatYAML, "models:\n  Widget:\n    output: a.php\n  Widget:\n    output: b.php\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), tt.format)
			require.Error(t, err)
			assert.True(t, ormgen.IsConfigError(err), "got %v", err)
		})
	}
}

func TestParseModelsWithoutDataStores(t *testing.T) {
	cfg, err := Parse([]byte(`{"models": {"Widget": {"output": "a.php", "datastore": "anything"}}}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "anything", cfg.Models[0].DataStore)
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]string{
		"":                  PolicyFailFast,
		"failfast":          PolicyFailFast,
		"Fail-Fast":         PolicyFailFast,
		"abort":             PolicyFailFast,
		"continue":          PolicyContinue,
		"continue-on-error": PolicyContinue,
	} {
		got, err := ParsePolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParsePolicy("sometimes")
	assert.True(t, ormgen.IsConfigError(err))
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatOf("orm_config.json"))
	assert.Equal(t, FormatYAML, FormatOf("orm.yaml"))
	assert.Equal(t, FormatYAML, FormatOf("ORM.YML"))
	assert.Equal(t, FormatJSON, FormatOf("orm_config"))
}
