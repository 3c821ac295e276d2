package generator

import (
	"bytes"
	_ "embed"
	"os"
	"text/template"

	"github.com/pkg/errors"
)

//go:embed templates/module.py.tmpl
var defaultTemplate string

// Module holds the rendered parts of one generated module. Fields other
// than Name and Operation hold YAML or Python source text.
type Module struct {
	Name          string
	Operation     string
	Documentation string
	Examples      string
	Imports       string
	UserCheck     string
	ArgumentSpec  string
	KeyList       string
	LeafInfo      string
	Namespaces    string
	BusinessTags  string
	XMLHead       string
	XMLTail       string

	// Leaves counts the leaf options of the parameter spec.
	Leaves int

	// Source is the module text rendered from the template.
	Source []byte
}

// LoadTemplate parses the module template at path, or the built-in
// template when path is empty.
func LoadTemplate(path string) (*template.Template, error) {
	text := defaultTemplate
	name := "module.py.tmpl"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "reading template")
		}
		text, name = string(b), path
	}
	t, err := template.New(name).Option("missingkey=error").Parse(text)
	return t, errors.Wrapf(err, "parsing template %s", name)
}

func render(t *template.Template, m *Module) ([]byte, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, m); err != nil {
		return nil, errors.Wrapf(err, "rendering %s", m.Name)
	}
	return b.Bytes(), nil
}
