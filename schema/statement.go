package schema

import (
	"sort"
	"strings"

	"github.com/openconfig/goyang/pkg/yang"
)

// Statement is a read-only view of one schema node. Each accessor answers
// for one substatement and reports absence explicitly.
type Statement struct {
	e   *yang.Entry
	set *ModuleSet
}

func wrap(set *ModuleSet, e *yang.Entry) *Statement {
	if e == nil {
		return nil
	}
	return &Statement{e: e, set: set}
}

func (s *Statement) wrap(e *yang.Entry) *Statement { return wrap(s.set, e) }

// Entry returns the underlying goyang entry.
func (s *Statement) Entry() *yang.Entry { return s.e }

// Keyword returns the YANG keyword of the statement, e.g. leaf or list.
// Implicit cases of shorthand choices report case.
func (s *Statement) Keyword() string {
	e := s.e
	switch {
	case e.IsCase():
		return "case"
	case e.IsChoice():
		return "choice"
	case e.Kind == yang.InputEntry:
		return "input"
	case e.Kind == yang.OutputEntry:
		return "output"
	case e.RPC != nil:
		return "rpc"
	case e.Node != nil:
		return e.Node.Kind()
	}
	return ""
}

// Name returns the statement's identifier.
func (s *Statement) Name() string { return s.e.Name }

// Parent returns the enclosing statement, wrappers included, or nil at
// the module.
func (s *Statement) Parent() *Statement { return s.wrap(s.e.Parent) }

// DataParent returns the closest ancestor that appears in instance
// documents, or nil.
func (s *Statement) DataParent() *Statement {
	for p := s.e.Parent; p != nil; p = p.Parent {
		if p.Parent == nil {
			return nil
		}
		if !transparent(p) {
			return s.wrap(p)
		}
	}
	return nil
}

// Children returns the statement's direct children in name order; the
// input and output of an rpc come first.
func (s *Statement) Children() []*Statement {
	var out []*Statement
	if s.e.RPC != nil {
		for _, e := range []*yang.Entry{s.e.RPC.Input, s.e.RPC.Output} {
			if e != nil {
				out = append(out, s.wrap(e))
			}
		}
	}
	for _, name := range sortedNames(s.e.Dir) {
		out = append(out, s.wrap(s.e.Dir[name]))
	}
	return out
}

// Child returns the data child called name, looking through choice, case,
// input and output statements, or nil.
func (s *Statement) Child(name string) *Statement { return s.wrap(dataChild(s.e, name)) }

// Namespace returns the namespace URI of the module defining the node.
func (s *Statement) Namespace() string {
	if ns := s.e.Namespace(); ns != nil {
		return ns.Name
	}
	return ""
}

// Module returns the module the statement was written in.
func (s *Statement) Module() *yang.Module {
	if s.e.Node == nil {
		return nil
	}
	return yang.RootNode(s.e.Node)
}

// Path returns the prefix-free instance path of the node.
func (s *Statement) Path() string { return dataPath(s.e) }

// IsList reports whether the statement is a list.
func (s *Statement) IsList() bool { return s.e.IsList() }

// IsLeaf reports whether the statement is a leaf or leaf-list.
func (s *Statement) IsLeaf() bool { return s.e.IsLeaf() || s.e.IsLeafList() }

// Default returns the argument of the default statement.
func (s *Statement) Default() (string, bool) {
	if st := s.sub("default"); len(st) > 0 {
		return st[0].Argument, true
	}
	return "", false
}

// HasMandatory reports whether a mandatory statement is present.
func (s *Statement) HasMandatory() bool { return len(s.sub("mandatory")) > 0 }

// Mandatory reports whether the node carries mandatory true.
func (s *Statement) Mandatory() bool {
	st := s.sub("mandatory")
	return len(st) > 0 && st[0].Argument == "true"
}

// Keys returns the key leaf names of a list.
func (s *Statement) Keys() []string { return strings.Fields(s.e.Key) }

// IsKey reports whether the node is a key leaf of its parent list.
func (s *Statement) IsKey() bool {
	p := s.DataParent()
	if p == nil || !p.IsList() {
		return false
	}
	for _, k := range p.Keys() {
		if k == s.e.Name {
			return true
		}
	}
	return false
}

// When returns the when condition.
func (s *Statement) When() (string, bool) {
	if st := s.sub("when"); len(st) > 0 {
		return st[0].Argument, true
	}
	return "", false
}

// Must returns every must expression.
func (s *Statement) Must() []string {
	var out []string
	for _, st := range s.sub("must") {
		out = append(out, st.Argument)
	}
	return out
}

// Description returns the description text, or "".
func (s *Statement) Description() string { return strings.TrimSpace(s.e.Description) }

// Config reports whether the node is configuration data, after
// inheritance from its ancestors.
func (s *Statement) Config() bool { return !s.e.ReadOnly() }

// Extension returns the argument of the first extension statement whose
// local name is name, whatever module defines it.
func (s *Statement) Extension(name string) (string, bool) {
	for _, st := range s.subAll() {
		i := strings.IndexByte(st.Keyword, ':')
		if i >= 0 && st.Keyword[i+1:] == name {
			return st.Argument, true
		}
	}
	for _, st := range s.e.Exts {
		i := strings.IndexByte(st.Keyword, ':')
		if i >= 0 && st.Keyword[i+1:] == name {
			return st.Argument, true
		}
	}
	return "", false
}

// Type returns the resolved type of a leaf, or nil.
func (s *Statement) Type() *yang.YangType { return s.e.Type }

// subAll returns the raw substatements written on the node itself. An
// implicit case shares its node with the shorthand child and has none.
func (s *Statement) subAll() []*yang.Statement {
	if s.e.Node == nil || s.e.Node.Kind() != s.Keyword() {
		return nil
	}
	st := s.e.Node.Statement()
	if st == nil {
		return nil
	}
	return st.SubStatements()
}

func (s *Statement) sub(keyword string) []*yang.Statement {
	var out []*yang.Statement
	for _, st := range s.subAll() {
		if st.Keyword == keyword {
			out = append(out, st)
		}
	}
	return out
}

// transparent reports whether e is absent from instance paths.
func transparent(e *yang.Entry) bool {
	return e.IsChoice() || e.IsCase() || e.Kind == yang.InputEntry || e.Kind == yang.OutputEntry
}

func sortedNames(dir map[string]*yang.Entry) []string {
	names := make([]string, 0, len(dir))
	for name := range dir {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// dataChild finds the data node name below e, stepping through wrappers.
func dataChild(e *yang.Entry, name string) *yang.Entry {
	if e == nil {
		return nil
	}
	if e.RPC != nil {
		for _, io := range []*yang.Entry{e.RPC.Input, e.RPC.Output} {
			if c := dataChild(io, name); c != nil {
				return c
			}
		}
	}
	if c := e.Dir[name]; c != nil && !transparent(c) {
		return c
	}
	for _, n := range sortedNames(e.Dir) {
		if c := e.Dir[n]; transparent(c) {
			if found := dataChild(c, name); found != nil {
				return found
			}
		}
	}
	return nil
}

// schemaChild follows one schema node identifier of an augment target,
// where input and output are spelled out.
func schemaChild(e *yang.Entry, name string) *yang.Entry {
	if e == nil {
		return nil
	}
	if e.RPC != nil {
		switch name {
		case "input":
			return e.RPC.Input
		case "output":
			return e.RPC.Output
		}
	}
	if c := e.Dir[name]; c != nil {
		return c
	}
	return dataChild(e, name)
}

// dataPath returns the instance path of e below its module.
func dataPath(e *yang.Entry) string {
	var names []string
	for ; e != nil && e.Parent != nil; e = e.Parent {
		if !transparent(e) {
			names = append([]string{e.Name}, names...)
		}
	}
	return "/" + strings.Join(names, "/")
}
