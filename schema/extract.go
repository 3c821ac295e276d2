package schema

import (
	"sort"
	"strconv"

	"github.com/golang/glog"
	"github.com/openconfig/goyang/pkg/yang"
	"github.com/samber/lo"
)

// FilterExtension is the local name of the extension marking a node as
// usable in subtree filters.
const FilterExtension = "support-filter"

// Constraints is everything a parameter descriptor needs from one schema
// node.
type Constraints struct {
	Keyword string
	// Type is the YANG builtin type name after leafref resolution, e.g.
	// uint32, string or enumeration. Empty for non-leaf nodes.
	Type string
	// Range is the effective value range of an integer leaf.
	Range Intervals
	// Length is the effective length of a string leaf; nil when
	// unrestricted.
	Length Intervals
	// EmptyRestriction is set when the restriction layers of the type do
	// not intersect; Range and Length are then nil.
	EmptyRestriction bool
	// Enum holds the enumeration symbols in declaration order.
	Enum     []string
	Patterns []string
	// Default is the coerced default: bool, int or string. Nil when no
	// default statement exists.
	Default     interface{}
	Required    bool
	Key         bool
	Config      bool
	Mandatory   bool
	When        bool
	Must        bool
	Filterable  bool
	Description string
}

// Extract reads the constraints of st.
func Extract(st *Statement) Constraints {
	c := Constraints{
		Keyword:     st.Keyword(),
		Key:         st.IsKey(),
		Config:      st.Config(),
		Mandatory:   st.Mandatory(),
		Must:        len(st.Must()) > 0,
		Description: st.Description(),
	}
	_, c.When = st.When()
	_, c.Filterable = st.Extension(FilterExtension)
	c.Required = required(st)

	if st.Type() == nil {
		return c
	}
	target := st.e
	if st.set != nil {
		target = st.set.resolveLeafref(st.e)
	}
	t := target.Type
	c.Type = t.Kind.String()
	if ps := append(patterns(st.e.Type), patterns(t)...); len(ps) > 0 {
		c.Patterns = lo.Uniq(ps)
	}

	switch {
	case IsInteger(t.Kind):
		c.Range, c.EmptyRestriction = emptyCheck(restriction(t, false))
	case t.Kind == yang.Ystring:
		c.Length, c.EmptyRestriction = emptyCheck(restriction(t, true))
	case t.Kind == yang.Yenum:
		c.Enum = enumSymbols(target, t)
	}
	if c.EmptyRestriction {
		glog.V(1).Infof("schema: %s: restriction layers do not intersect", st.Path())
	}
	if def, ok := st.Default(); ok {
		c.Default = coerce(t.Kind, def)
	}
	return c
}

func emptyCheck(is Intervals, ok bool) (Intervals, bool) { return is, !ok }

// required is true for list keys, mandatory nodes and nodes whose
// enclosing choice is mandatory.
func required(st *Statement) bool {
	if st.IsKey() || st.Mandatory() {
		return true
	}
	p := st.Parent()
	if p == nil {
		return false
	}
	switch p.Keyword() {
	case "choice":
		return p.Mandatory()
	case "case":
		if gp := p.Parent(); p.Name() == st.Name() && gp != nil && gp.Keyword() == "choice" {
			return gp.Mandatory()
		}
	}
	return false
}

func patterns(t *yang.YangType) []string {
	var out []string
	for _, yt := range typeChain(t) {
		out = append(out, yt.Pattern...)
	}
	return out
}

// enumSymbols returns enum names in declaration order, read from the
// type statement that declares them.
func enumSymbols(e *yang.Entry, t *yang.YangType) []string {
	if t.Enum == nil {
		return nil
	}
	for _, ts := range typeStatements(e, t) {
		if len(ts.Enum) == 0 {
			continue
		}
		names := make([]string, 0, len(ts.Enum))
		for _, en := range ts.Enum {
			if t.Enum.IsDefined(en.Name) {
				names = append(names, en.Name)
			}
		}
		if len(names) == len(t.Enum.NameMap()) {
			return names
		}
	}
	// no declaring statement; fall back to value order
	vm := t.Enum.ValueMap()
	values := make([]int64, 0, len(vm))
	for v := range vm {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = vm[v]
	}
	return out
}

// typeStatements returns the type statement of leaf e followed by the
// statements behind each typedef t is derived from.
func typeStatements(e *yang.Entry, t *yang.YangType) []*yang.Type {
	var out []*yang.Type
	switch n := e.Node.(type) {
	case *yang.Leaf:
		out = append(out, n.Type)
	case *yang.LeafList:
		out = append(out, n.Type)
	}
	for _, yt := range typeChain(t) {
		if yt.Base != nil {
			out = append(out, yt.Base)
		}
	}
	return lo.Compact(out)
}

// coerce converts a default to bool for booleans and to an integer for
// integer types: int, or uint64 above the int64 range. Anything else, or a
// value that does not parse, stays a string.
func coerce(kind yang.TypeKind, def string) interface{} {
	switch {
	case kind == yang.Ybool:
		if b, err := strconv.ParseBool(def); err == nil {
			return b
		}
	case IsInteger(kind):
		if n, err := strconv.ParseInt(def, 10, 64); err == nil {
			return int(n)
		}
		if n, err := strconv.ParseUint(def, 10, 64); err == nil {
			return n
		}
	}
	return def
}
