package xmlutil

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
)

type strPair struct{ a, b string }

func TestPrefixMap(t *testing.T) {
	for _, tc := range []struct {
		attrs     []xml.Attr
		nsTest    []strPair
		pfxTest   []strPair
		sortAttrs []xml.Attr
		decl      string
	}{
		// #00: identity check
		{},

		// #01
		{
			attrs: []xml.Attr{
				{Name: XMLName("pfx-b", "xmlns"), Value: "val-b"},
				{Name: XMLName("pfx-a", "xmlns"), Value: "val-a"},
				{Name: XMLName("operation", "nc"), Value: "merge"},
			},
			nsTest: []strPair{
				{a: "pfx-a", b: "val-a"},
				{a: "pfx-b", b: "val-b"},
				{a: "nc", b: ""},
			},
			pfxTest: []strPair{
				{b: "pfx-a", a: "val-a"},
				{b: "pfx-b", a: "val-b"},
			},
			sortAttrs: []xml.Attr{
				{Name: XMLName("pfx-a", "xmlns"), Value: "val-a"},
				{Name: XMLName("pfx-b", "xmlns"), Value: "val-b"},
			},
			decl: `xmlns:pfx-a="val-a" xmlns:pfx-b="val-b"`,
		},

		// #02: default namespace sorts first
		{
			attrs: []xml.Attr{
				{Name: XMLName("ip", "xmlns"), Value: "urn:ip"},
				{Name: XMLName("xmlns"), Value: "urn:if"},
			},
			nsTest: []strPair{
				{a: "", b: "urn:if"},
				{a: "ip", b: "urn:ip"},
			},
			pfxTest: []strPair{
				{a: "urn:if", b: ""},
				{a: "urn:ip", b: "ip"},
			},
			sortAttrs: []xml.Attr{
				{Name: XMLName("xmlns"), Value: "urn:if"},
				{Name: XMLName("ip", "xmlns"), Value: "urn:ip"},
			},
			decl: `xmlns="urn:if" xmlns:ip="urn:ip"`,
		},
	} {
		t.Run("", func(t *testing.T) {
			a := assert.New(t)
			pmap := NewPrefixMap(tc.attrs...)
			for _, tt := range tc.nsTest {
				a.Equal(tt.b, pmap.Namespace(tt.a))
			}
			for _, tt := range tc.pfxTest {
				var pfx string
				if pfxes := pmap.Prefix(tt.a); pfxes != nil {
					pfx = pfxes[0]
				}
				a.Equal(tt.b, pfx)
			}
			a.Equal(tc.sortAttrs, pmap.Attr())
			a.Equal(tc.decl, pmap.Decl())
		})
	}
}

func TestPrefixMapMerge(t *testing.T) {
	a := assert.New(t)
	m := PrefixMap{"if": "urn:if"}
	m.Merge(PrefixMap{"if": "urn:other", "ip": "urn:ip"})
	a.Equal(PrefixMap{"if": "urn:if", "ip": "urn:ip"}, m)

	ns, ok := m.Lookup("ip")
	a.True(ok)
	a.Equal("urn:ip", ns)
	_, ok = m.Lookup("")
	a.False(ok)
}
