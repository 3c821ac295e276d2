package argspec

import (
	"github.com/andaru/ncgen/instance"
	"github.com/andaru/ncgen/schema"
)

// Simple types of leaf options.
const (
	TypeInt  = "int"
	TypeStr  = "str"
	TypeBool = "bool"
	TypeEnum = "enum"
)

// Option is one node of a parameter spec.
type Option struct {
	Name string
	// Path is the prefix-free instance path, e.g. /interfaces/interface.
	Path string
	// Nested is set for containers and lists; Options then holds the
	// children in instance document order.
	Nested  bool
	Options []*Option
	// IsList marks a nested option whose path is a list path.
	IsList bool
	// ListValued marks a nested option with a list among its children;
	// it renders as a list of dicts.
	ListValued bool

	// Type is the simple type of a leaf: int, str, bool or enum.
	Type     string
	Required bool
	Key      bool
	Default  interface{}
	Choices  []string
	Range    schema.Intervals
	Length   schema.Intervals

	Description string
	Patterns    []string
	Mandatory   bool
	When        bool
	Must        bool
	Filterable  bool
}

// Spec is the parameter spec built from one instance document.
type Spec struct {
	Mode    instance.Mode
	Options []*Option
}

// Walk calls fn for every option in depth-first document order.
func (s *Spec) Walk(fn func(o *Option, depth int)) { walk(s.Options, 0, fn) }

func walk(opts []*Option, depth int, fn func(*Option, int)) {
	for _, o := range opts {
		fn(o, depth)
		walk(o.Options, depth+1, fn)
	}
}

// ListPaths returns the paths of the list options.
func (s *Spec) ListPaths() []string {
	var out []string
	s.Walk(func(o *Option, _ int) {
		if o.Nested && o.IsList {
			out = append(out, o.Path)
		}
	})
	return out
}

// KeyPaths returns the paths of the key leaf options.
func (s *Spec) KeyPaths() []string {
	var out []string
	s.Walk(func(o *Option, _ int) {
		if !o.Nested && o.Key {
			out = append(out, o.Path)
		}
	})
	return out
}

// Option returns the option at path, or nil.
func (s *Spec) Option(path string) *Option {
	var found *Option
	s.Walk(func(o *Option, _ int) {
		if found == nil && o.Path == path {
			found = o
		}
	})
	return found
}

// ArgumentSpec renders the spec in argument validation form. Config and
// rpc specs describe values to send; query specs offer get_all and
// get_value selectors on every node.
func (s *Spec) ArgumentSpec() *Map {
	if s.Mode == instance.ModeQuery {
		return queryOptions(s.Options)
	}
	return configOptions(s.Options)
}

func configOptions(opts []*Option) *Map {
	m := NewMap()
	for _, o := range opts {
		if o.Nested {
			m.Set(o.Name, nested(o).Set("options", configOptions(o.Options)))
			continue
		}
		m.Set(o.Name, leafArgument(o, o.Required))
	}
	return m
}

func queryOptions(opts []*Option) *Map {
	m := NewMap()
	for _, o := range opts {
		if o.Nested {
			m.Set(o.Name, nested(o).Set("options", queryOptions(o.Options)))
			continue
		}
		m.Set(o.Name, NewMap().
			Set("type", "dict").
			Set("options", NewMap().
				Set("get_all", getAll()).
				Set("get_value", leafArgument(o, false))))
	}
	return m.Set("get_all", getAll())
}

func getAll() *Map { return NewMap().Set("type", TypeBool).Set("default", false) }

func nested(o *Option) *Map {
	if o.ListValued {
		return NewMap().Set("type", "list").Set("elements", "dict")
	}
	return NewMap().Set("type", "dict")
}

// leafArgument renders a leaf descriptor. Enumerations carry their
// choices in place of a type.
func leafArgument(o *Option, required bool) *Map {
	m := NewMap()
	if o.Type != TypeEnum {
		m.Set("type", o.Type)
	}
	m.Set("required", required)
	if o.Default != nil {
		m.Set("default", o.Default)
	}
	switch o.Type {
	case TypeEnum:
		m.Set("choices", o.Choices)
	case TypeBool:
		m.Set("choices", []bool{true, false})
	case TypeInt:
		if o.Range != nil {
			m.Set("range", o.Range)
		}
	case TypeStr:
		if o.Length != nil {
			m.Set("length", o.Length)
		}
	}
	if o.Key {
		m.Set("key", true)
	}
	return m
}

// SimpleType maps a YANG builtin type name to a leaf option type.
func SimpleType(yangType string) string {
	switch yangType {
	case "int8", "int16", "int32", "int64", "uint8", "uint16", "uint32", "uint64":
		return TypeInt
	case "enumeration":
		return TypeEnum
	case "boolean":
		return TypeBool
	}
	return TypeStr
}
