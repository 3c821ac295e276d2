package generator

import (
	"github.com/andaru/ncgen/argspec"
	"github.com/andaru/ncgen/instance"
)

// envelope returns the XML text a generated module wraps its request
// body in.
func envelope(m instance.Mode) (head, tail string) {
	switch m {
	case instance.ModeConfig:
		return "<config>", "</config>"
	case instance.ModeQuery:
		return `<filter type="subtree">`, "</filter>"
	}
	return "", ""
}

// businessTags returns the element names directly below the business
// root.
func businessTags(doc *instance.Document) []string {
	var out []string
	for _, slot := range doc.Root.Children() {
		out = append(out, slot.Name)
	}
	return out
}

// namespaceMap maps every instance path to its namespace in table order.
func namespaceMap(t *instance.Table) *argspec.Map {
	m := argspec.NewMap()
	for _, e := range t.Entries() {
		m.Set(e.Path, t.Resolve(e.Path))
	}
	return m
}
