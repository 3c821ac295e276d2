package instance

import (
	"encoding/xml"
	"fmt"

	"github.com/andaru/ncgen/xmlutil"
)

// Kind is the shape of an instance tree node
type Kind int

const (
	// Leaf holds text only (possibly empty)
	Leaf Kind = iota
	// Container holds ordered, uniquely named children
	Container
	// Repeated holds sibling occurrences sharing one name
	Repeated
)

func (k Kind) String() string {
	switch k {
	case Leaf:
		return "leaf"
	case Container:
		return "container"
	case Repeated:
		return "repeated"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is one element of an instance tree.
type Node struct {
	Kind Kind
	// Name is the element's local name.
	Name string
	// Prefix is the raw prefix the element was written with.
	Prefix string
	// Text is the trimmed character data of a Leaf.
	Text string
	// Attrs are the raw attributes other than namespace declarations.
	Attrs []xml.Attr
	// Decls are the namespace declarations made on this element.
	Decls xmlutil.PrefixMap
	// Items are the occurrences of a Repeated node, each a Leaf or Container.
	Items []*Node

	names    []string
	children map[string]*Node
}

func newElement(se xml.StartElement) *Node {
	n := &Node{
		Kind:   Leaf,
		Name:   se.Name.Local,
		Prefix: se.Name.Space,
		Decls:  xmlutil.NewPrefixMap(se.Attr...),
	}
	for _, a := range se.Attr {
		if !xmlutil.IsDecl(a) {
			n.Attrs = append(n.Attrs, a)
		}
	}
	return n
}

// QName returns the element name as written, prefix included.
func (n *Node) QName() string {
	return xmlutil.QName(xml.Name{Space: n.Prefix, Local: n.Name})
}

func (n *Node) add(c *Node) {
	if n.children == nil {
		n.children = map[string]*Node{}
	}
	n.Kind = Container
	prev, ok := n.children[c.Name]
	switch {
	case !ok:
		n.names = append(n.names, c.Name)
		n.children[c.Name] = c
	case prev.Kind == Repeated:
		prev.Items = append(prev.Items, c)
	default:
		n.children[c.Name] = &Node{Kind: Repeated, Name: c.Name, Prefix: prev.Prefix, Items: []*Node{prev, c}}
	}
}

// Children returns the child slots of a Container in document order.
// A slot is either a single occurrence or a Repeated node.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.names))
	for _, name := range n.names {
		out = append(out, n.children[name])
	}
	return out
}

// Child returns the child slot named name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil || n.children == nil {
		return nil
	}
	return n.children[name]
}

// Occurrences returns the Items of a Repeated node, or n itself.
func (n *Node) Occurrences() []*Node {
	if n.Kind == Repeated {
		return n.Items
	}
	return []*Node{n}
}

// Attr returns the value of the first attribute with the given local
// name, regardless of its prefix.
func (n *Node) Attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// WalkFunc is called for every occurrence below a node. path is the
// prefix-free path, prefixed the path as written.
type WalkFunc func(path, prefixed string, n *Node)

// Walk visits every element occurrence below n in document order.
func (n *Node) Walk(fn WalkFunc) { n.walk("", "", fn) }

func (n *Node) walk(path, prefixed string, fn WalkFunc) {
	for _, slot := range n.Children() {
		for _, occ := range slot.Occurrences() {
			p, pp := path+"/"+occ.Name, prefixed+"/"+occ.QName()
			fn(p, pp, occ)
			occ.walk(p, pp, fn)
		}
	}
}
