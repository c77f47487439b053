package load

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"

	"github.com/syssam/ormgen"
	"github.com/syssam/ormgen/datastore"
)

// DefaultConfigFile is the configuration file read when none is given.
const DefaultConfigFile = "orm_config.json"

// Config is a loaded generation configuration.
type Config struct {
	// Path is the file the configuration was loaded from, if any.
	Path string
	// DataStores are the declared data stores in declared order.
	DataStores []*DataStore
	// Models are the models to generate in declared order.
	Models []*Model
	// Options are the generation options.
	Options Options
}

// DataStore declares a named data store.
type DataStore struct {
	Name   string
	Kind   string
	Params datastore.Params
}

// Model describes one model file to generate.
type Model struct {
	// Name is the model name, the key of the model entry.
	Name string `json:"-" yaml:"-"`
	// Output is the file path the model is written to.
	Output string `json:"output" yaml:"output"`
	// Class is the generated class name. Defaults to Name.
	Class string `json:"class,omitempty" yaml:"class,omitempty"`
	// Table is the table the model is read from. Defaults to the
	// underscored Name.
	Table string `json:"table,omitempty" yaml:"table,omitempty"`
	// DataStore names the data store holding Table. Empty selects the
	// default store.
	DataStore string `json:"datastore,omitempty" yaml:"datastore,omitempty"`
}

// Options holds the generation options of a configuration file.
type Options struct {
	Lang     string   `json:"lang,omitempty" yaml:"lang,omitempty"`
	Out      string   `json:"out,omitempty" yaml:"out,omitempty"`
	Header   []string `json:"header,omitempty" yaml:"header,omitempty"`
	Policy   string   `json:"policy,omitempty" yaml:"policy,omitempty"`
	Package  string   `json:"package,omitempty" yaml:"package,omitempty"`
	Template string   `json:"template,omitempty" yaml:"template,omitempty"`
}

// Languages accepted by Options.Lang.
const (
	LangPHP = "php"
	LangGo  = "go"
)

// Policies accepted by Options.Policy.
const (
	PolicyFailFast = "failfast"
	PolicyContinue = "continue"
)

// Format is a configuration file format.
type Format uint8

// Supported formats.
const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatOf returns the format implied by the extension of path.
// Anything other than .yaml and .yml is read as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads the configuration file at path. A .env file in the same
// directory is loaded first, so datastore params may refer to the
// variables it sets.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ormgen.WrapConfigError("config", "read "+path, err)
	}
	if err := LoadEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}
	cfg, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// Parse parses and validates a configuration document.
//
// A document holding a "models" key is structured: "models" maps model
// names to entries and the optional "datastores" and "options" keys sit
// beside it. Any other document is flat and every top-level key names a
// model.
func Parse(data []byte, format Format) (*Config, error) {
	root, err := parseNode(data, format)
	if err != nil {
		return nil, ormgen.WrapConfigError("config", "malformed document", err)
	}
	top, err := root.fields()
	if err != nil {
		return nil, ormgen.WrapConfigError("config", "malformed document", err)
	}
	cfg := &Config{}
	if !structured(top) {
		if cfg.Models, err = parseModels(top); err != nil {
			return nil, err
		}
	} else if err := cfg.parseStructured(top); err != nil {
		return nil, err
	}
	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func structured(top []field) bool {
	for _, f := range top {
		if f.key == "models" {
			return true
		}
	}
	return false
}

func (c *Config) parseStructured(top []field) error {
	for _, f := range top {
		switch f.key {
		case "models":
			fs, err := f.value.fields()
			if err != nil {
				return ormgen.WrapConfigError("models", "malformed models", err)
			}
			if c.Models, err = parseModels(fs); err != nil {
				return err
			}
		case "datastores":
			fs, err := f.value.fields()
			if err != nil {
				return ormgen.WrapConfigError("datastores", "malformed datastores", err)
			}
			if c.DataStores, err = parseDataStores(fs); err != nil {
				return err
			}
		case "options":
			if err := f.value.decode(&c.Options); err != nil {
				return ormgen.WrapConfigError("options", "malformed options", err)
			}
		default:
			return ormgen.NewConfigError(f.key, nil, "unknown top-level key; expected models, datastores or options")
		}
	}
	return nil
}

func parseModels(fs []field) ([]*Model, error) {
	models := make([]*Model, 0, len(fs))
	for _, f := range fs {
		m := &Model{}
		if err := f.value.decode(m); err != nil {
			return nil, ormgen.WrapConfigError(f.key, "malformed model entry", err)
		}
		m.Name = f.key
		models = append(models, m)
	}
	return models, nil
}

// dataStoreEntry is the file representation of a DataStore.
type dataStoreEntry struct {
	Kind             string `json:"kind" yaml:"kind"`
	datastore.Params `yaml:",inline"`
}

func parseDataStores(fs []field) ([]*DataStore, error) {
	stores := make([]*DataStore, 0, len(fs))
	for _, f := range fs {
		var e dataStoreEntry
		if err := f.value.decode(&e); err != nil {
			return nil, ormgen.WrapConfigError(f.key, "malformed datastore entry", err)
		}
		stores = append(stores, &DataStore{
			Name:   f.key,
			Kind:   e.Kind,
			Params: expandParams(e.Params),
		})
	}
	return stores, nil
}

// defaults fills in the class and table names left empty.
func (c *Config) defaults() {
	for _, m := range c.Models {
		if m.Class == "" {
			m.Class = m.Name
		}
		if m.Table == "" {
			m.Table = inflect.Underscore(m.Name)
		}
	}
}

// Validate checks the configuration for errors that would otherwise
// surface halfway through a generation run.
func (c *Config) Validate() error {
	if len(c.Models) == 0 {
		return ormgen.NewConfigError("models", nil, "no models declared")
	}
	declared := make(map[string]bool, len(c.DataStores))
	for _, s := range c.DataStores {
		if s.Name == "" {
			return ormgen.NewConfigError("datastores", nil, "data store name cannot be empty")
		}
		if declared[s.Name] {
			return ormgen.NewConfigError(s.Name, nil, "data store declared twice")
		}
		declared[s.Name] = true
		if _, err := datastore.ParseKind(s.Kind); err != nil {
			return err
		}
	}
	outputs := make(map[string]string, len(c.Models))
	for _, m := range c.Models {
		if m.Name == "" {
			return ormgen.NewConfigError("models", nil, "model name cannot be empty")
		}
		if strings.TrimSpace(m.Output) == "" {
			return ormgen.NewConfigError(m.Name, nil, "missing output path")
		}
		if !isIdent(m.Class) {
			return ormgen.NewConfigError(m.Name, m.Class, "class is not a valid identifier")
		}
		out := filepath.Clean(m.Output)
		if prev, ok := outputs[out]; ok {
			return ormgen.NewConfigError(m.Name, m.Output, fmt.Sprintf("output path already used by model %s", prev))
		}
		outputs[out] = m.Name
		if m.DataStore != "" && len(c.DataStores) > 0 && !declared[m.DataStore] {
			return ormgen.NewConfigError(m.Name, m.DataStore, "model references an undeclared data store")
		}
	}
	switch strings.ToLower(c.Options.Lang) {
	case "", LangPHP, LangGo:
	default:
		return ormgen.NewConfigError("lang", c.Options.Lang, "unknown language; use php or go")
	}
	if _, err := ParsePolicy(c.Options.Policy); err != nil {
		return err
	}
	return nil
}

// ParsePolicy normalizes a failure policy name. The empty string selects
// PolicyFailFast.
func ParsePolicy(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", PolicyFailFast, "fail-fast", "abort":
		return PolicyFailFast, nil
	case PolicyContinue, "continue-on-error":
		return PolicyContinue, nil
	default:
		return "", ormgen.NewConfigError("policy", s, "unknown failure policy; use failfast or continue")
	}
}

// isIdent reports whether s is a valid class identifier.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
