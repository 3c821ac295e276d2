package xmlutil

import (
	"encoding/xml"
	"sort"
	"strconv"
	"strings"
)

// PrefixMap is a prefix to namespace URI map. The default namespace
// is stored under the empty prefix.
type PrefixMap map[string]string

// NewPrefixMap returns a PrefixMap containing the namespace declarations
// found in the passed raw XML attributes. Other attributes are ignored.
func NewPrefixMap(attrs ...xml.Attr) PrefixMap {
	pmap := PrefixMap{}
	for _, attr := range attrs {
		switch {
		case attr.Name.Space == "xmlns":
			pmap[attr.Name.Local] = attr.Value
		case attr.Name.Space == "" && attr.Name.Local == "xmlns":
			pmap[""] = attr.Value
		}
	}
	return pmap
}

// Attr returns the prefix map contents as a series of xmlns:<prefix>=<nsuri>
// attributes (xmlns=<nsuri> for the default namespace), sorted lexically by prefix.
func (m PrefixMap) Attr() (a []xml.Attr) {
	for k, v := range m {
		name := xml.Name{Space: "xmlns", Local: k}
		if k == "" {
			name = xml.Name{Local: "xmlns"}
		}
		a = append(a, xml.Attr{Name: name, Value: v})
	}
	if len(a) > 0 {
		sort.Slice(a, func(i int, j int) bool { return declPrefix(a[i]) < declPrefix(a[j]) })
	}
	return a
}

func declPrefix(a xml.Attr) string {
	if a.Name.Space == "" {
		return ""
	}
	return a.Name.Local
}

// Decl renders the declarations as raw attribute text, for example
// `xmlns="urn:a" xmlns:b="urn:b"`.
func (m PrefixMap) Decl() string {
	var parts []string
	for _, a := range m.Attr() {
		parts = append(parts, QName(a.Name)+"="+strconv.Quote(a.Value))
	}
	return strings.Join(parts, " ")
}

// Namespace returns the namespace URI for the given prefix
func (m PrefixMap) Namespace(prefix string) string { return m[prefix] }

// Lookup returns the namespace URI for prefix and whether it is declared.
func (m PrefixMap) Lookup(prefix string) (string, bool) {
	ns, ok := m[prefix]
	return ns, ok
}

// Prefix returns any prefixes found for the namespace URI, sorted.
func (m PrefixMap) Prefix(nsURI string) (pfxes []string) {
	for k, v := range m {
		if nsURI == v {
			pfxes = append(pfxes, k)
		}
	}
	sort.Strings(pfxes)
	return pfxes
}

// Merge copies declarations from o that m does not already declare.
func (m PrefixMap) Merge(o PrefixMap) {
	for k, v := range o {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
}
