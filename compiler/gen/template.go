package gen

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Renderer turns a Model into the contents of one source file.
type Renderer interface {
	// Name identifies the renderer in logs.
	Name() string
	// Ext is the file extension of the output, including the dot.
	Ext() string
	// Render returns the file contents for m.
	Render(m *Model) ([]byte, error)
}

//go:embed template/php/model.tmpl
var phpModel string

// Funcs are the functions available to model templates. None of them
// performs I/O.
var Funcs = template.FuncMap{
	"quote":   phpQuote,
	"comment": commentLine,
	"join":    strings.Join,
	"lower":   strings.ToLower,
	"upper":   strings.ToUpper,
}

// Template is a Renderer backed by a text/template.
type Template struct {
	name string
	ext  string
	tmpl *template.Template
}

var phpTemplate = MustParse(NewTemplate("php.tmpl", phpModel))

// PHP returns the default renderer, producing a PHP class per model.
func PHP() *Template {
	return &Template{name: "php", ext: ".php", tmpl: phpTemplate.tmpl}
}

// NewTemplate parses text as a model template. The output extension is
// taken from name with any .tmpl suffix removed, so "model.php.tmpl"
// renders .php files. It defaults to .php.
func NewTemplate(name, text string) (*Template, error) {
	t, err := template.New(name).Funcs(Funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	ext := filepath.Ext(strings.TrimSuffix(name, ".tmpl"))
	if ext == "" {
		ext = ".php"
	}
	return &Template{name: strings.TrimSuffix(name, filepath.Ext(name)), ext: ext, tmpl: t}, nil
}

// ParseTemplateFile reads and parses the template file at path.
func ParseTemplateFile(path string) (*Template, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return NewTemplate(filepath.Base(path), string(text))
}

// MustParse panics if err is non-nil.
func MustParse(t *Template, err error) *Template {
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the template name.
func (t *Template) Name() string { return t.name }

// Ext returns the output extension.
func (t *Template) Ext() string { return t.ext }

// Render executes the template against m.
func (t *Template) Render(m *Model) ([]byte, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, m); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", t.name, err)
	}
	return buf.Bytes(), nil
}

// phpQuote returns s as a single-quoted PHP string literal.
func phpQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}

// commentLine makes s safe inside a block comment.
func commentLine(s string) string {
	s = strings.ReplaceAll(s, "*/", "* /")
	return strings.TrimRight(strings.ReplaceAll(s, "\n", " "), " \t")
}

var _ Renderer = (*Template)(nil)
