package instance

import (
	"path"
	"sort"
	"strings"

	"github.com/andaru/ncgen/xmlutil"
)

// BaseNamespace is the NETCONF base namespace. The root path always
// resolves to it.
const BaseNamespace = "urn:ietf:params:xml:ns:netconf:base:1.0"

// Entry is one row of the XMLNS info table.
type Entry struct {
	// Path is the prefix-free path, e.g. /interfaces/interface.
	Path string
	// Text is the node's text (first occurrence).
	Text string
	// Decls are the namespace declarations made on the node.
	Decls xmlutil.PrefixMap
	// Prefixed is the path as written, e.g. /if:interfaces/if:interface.
	Prefixed string
}

// Decl returns the raw declaration text of the entry.
func (e *Entry) Decl() string { return e.Decls.Decl() }

// Prefix returns the prefix the node was written with.
func (e *Entry) Prefix() string {
	prefix, _ := xmlutil.SplitName(path.Base(e.Prefixed))
	return prefix
}

// Table is the XMLNS info table of one instance document. Entries are
// sorted by depth, shallowest first.
type Table struct {
	entries []*Entry
	index   map[string]*Entry
	scope   xmlutil.PrefixMap
}

// NewTable builds the table for every node below root.
func NewTable(root *Node) *Table { return newTable(root, nil) }

// newTable builds the table below root. scope holds the declarations in
// force above root, root's own declarations included.
func newTable(root *Node, outer xmlutil.PrefixMap) *Table {
	t := &Table{index: map[string]*Entry{}, scope: mergeScope(outer, root.Decls)}
	root.Walk(func(p, prefixed string, n *Node) {
		if e, ok := t.index[p]; ok {
			e.Decls.Merge(n.Decls)
			return
		}
		decls := xmlutil.PrefixMap{}
		decls.Merge(n.Decls)
		e := &Entry{Path: p, Text: n.Text, Decls: decls, Prefixed: prefixed}
		t.index[p] = e
		t.entries = append(t.entries, e)
	})
	sort.SliceStable(t.entries, func(i, j int) bool { return depth(t.entries[i].Path) < depth(t.entries[j].Path) })
	return t
}

func depth(p string) int { return strings.Count(p, "/") }

// Entries returns the table rows, shallowest first.
func (t *Table) Entries() []*Entry { return t.entries }

// Lookup returns the entry for a prefix-free path, or nil.
func (t *Table) Lookup(p string) *Entry { return t.index[p] }

// Resolve returns the namespace URI governing the prefix-free path p.
func (t *Table) Resolve(p string) string { return t.resolve(p, "") }

func (t *Table) resolve(p, carried string) string {
	if p == "" || p == "/" {
		if carried != "" {
			if ns, ok := t.scope.Lookup(carried); ok {
				return ns
			}
		}
		return BaseNamespace
	}
	parent := parentPath(p)
	e := t.index[p]
	if e == nil {
		return t.resolve(parent, carried)
	}
	prefix := e.Prefix()
	if carried != "" && carried != prefix {
		prefix = carried
	}
	if len(e.Decls) > 0 {
		if ns, ok := e.Decls.Lookup(prefix); ok {
			return ns
		}
		if prefix == "" {
			return t.resolve(parent, "")
		}
	} else if prefix == "" {
		return t.resolve(parent, "")
	}
	return t.resolve(parent, prefix)
}

func parentPath(p string) string {
	if i := strings.LastIndexByte(p, '/'); i > 0 {
		return p[:i]
	}
	return ""
}

// Namespaces maps every path in the table to its resolved namespace.
func (t *Table) Namespaces() map[string]string {
	out := make(map[string]string, len(t.entries))
	for _, e := range t.entries {
		out[e.Path] = t.Resolve(e.Path)
	}
	return out
}
