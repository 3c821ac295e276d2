package generator

import (
	"bytes"
	"strings"

	"github.com/andaru/ncgen/argspec"
	"github.com/andaru/ncgen/instance"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// guardNote documents options guarded by when or must statements.
const guardNote = "The configuration of this object takes effect only when certain conditions are met. For details, check the definition in the YANG model."

const operationTypeNote = "This is a helper node, choose from config, get, get-config or input_action."

// docHeader is the module level part of a documentation block.
type docHeader struct {
	Module       string
	VersionAdded string
	Description  string
	Author       string
}

// documentation renders the documentation block of spec as YAML.
func documentation(h docHeader, spec *argspec.Spec) (string, error) {
	paras := paragraphs(h.Description)
	short := ""
	if len(paras) > 0 {
		short = paras[0]
	}
	doc := argspec.NewMap().
		Set("module", h.Module).
		Set("version_added", h.VersionAdded).
		Set("short_description", short).
		Set("description", paras).
		Set("author", h.Author)

	choices, err := flow(instance.OperationTypes)
	if err != nil {
		return "", err
	}
	opts := argspec.NewMap().Set("operation_type", argspec.NewMap().
		Set("description", []string{operationTypeNote}).
		Set("type", argspec.TypeStr).
		Set("required", true).
		Set("choices", choices))
	if err := docOptions(opts, spec.Options); err != nil {
		return "", err
	}
	doc.Set("options", opts)
	return marshalYAML(doc)
}

func docOptions(m *argspec.Map, opts []*argspec.Option) error {
	for _, o := range opts {
		d, err := docOption(o)
		if err != nil {
			return errors.Wrapf(err, "option %s", o.Path)
		}
		m.Set(o.Name, d)
	}
	return nil
}

func docOption(o *argspec.Option) (*argspec.Map, error) {
	d := argspec.NewMap().Set("description", paragraphs(o.Description))
	if o.When {
		d.Set("when", guardNote)
	}
	if o.Must {
		d.Set("must", guardNote)
	}
	d.Set("required", o.Required)
	if o.Nested {
		if o.ListValued {
			d.Set("type", "list").Set("elements", "dict")
		} else {
			d.Set("type", "dict")
		}
		sub := argspec.NewMap()
		if err := docOptions(sub, o.Options); err != nil {
			return nil, err
		}
		return d.Set("suboptions", sub), nil
	}

	if o.Key {
		d.Set("key", true)
	}
	if o.Mandatory {
		d.Set("mandatory", true)
	}
	if o.Filterable {
		d.Set("support-filter", true)
	}
	if o.Default != nil {
		d.Set("default", o.Default)
	}
	if len(o.Patterns) > 0 {
		d.Set("pattern", o.Patterns)
	}
	d.Set("type", o.Type)

	key, restriction := restrictionOf(o)
	if restriction != nil {
		n, err := flow(restriction)
		if err != nil {
			return nil, err
		}
		d.Set(key, n)
	}
	return d, nil
}

// restrictionOf returns the documentation key and value restricting o's
// values, or a nil value when o is unrestricted.
func restrictionOf(o *argspec.Option) (string, interface{}) {
	switch o.Type {
	case argspec.TypeStr:
		if o.Length != nil {
			return "length", o.Length.Pairs()
		}
	case argspec.TypeInt:
		if o.Range != nil {
			return "range", o.Range.Pairs()
		}
	case argspec.TypeEnum:
		return "choices", o.Choices
	case argspec.TypeBool:
		return "choices", []bool{true, false}
	}
	return "", nil
}

// flow encodes v as a YAML node rendered in flow style.
func flow(v interface{}) (*yaml.Node, error) {
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, errors.WithStack(err)
	}
	setFlow(n)
	return n, nil
}

func setFlow(n *yaml.Node) {
	if n.Kind == yaml.SequenceNode || n.Kind == yaml.MappingNode {
		n.Style = yaml.FlowStyle
	}
	for _, c := range n.Content {
		setFlow(c)
	}
}

// paragraphs splits text into its non-blank lines, each with runs of
// whitespace folded to one space.
func paragraphs(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// marshalYAML renders v as a YAML document with four space indentation,
// led by a document start marker.
func marshalYAML(v interface{}) (string, error) {
	var b bytes.Buffer
	b.WriteString("---\n")
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(4)
	if err := enc.Encode(v); err != nil {
		return "", errors.Wrap(err, "encoding yaml")
	}
	if err := enc.Close(); err != nil {
		return "", errors.Wrap(err, "encoding yaml")
	}
	return b.String(), nil
}
