package xmlutil

import (
	"encoding/xml"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXMLName(t *testing.T) {
	for _, tc := range []struct {
		local  string
		spaces []string
		want   xml.Name
	}{
		{local: "foo", want: xml.Name{Local: "foo"}},
		{local: "foo", spaces: []string{"bar"}, want: xml.Name{Local: "foo", Space: "bar"}},
		{local: "foo", spaces: []string{"bar", "baz"}, want: xml.Name{Local: "foo", Space: "bar"}},
		{want: xml.Name{}},
	} {
		t.Run(fmt.Sprintf("%v", tc.want), func(t *testing.T) { assert.New(t).Equal(tc.want, XMLName(tc.local, tc.spaces...)) })
	}
}

func TestSplitName(t *testing.T) {
	for _, tc := range []struct {
		qname, prefix, local string
	}{
		{qname: "if:interface", prefix: "if", local: "interface"},
		{qname: "interface", local: "interface"},
		{qname: ":x", local: "x"},
		{},
	} {
		t.Run(tc.qname, func(t *testing.T) {
			a := assert.New(t)
			prefix, local := SplitName(tc.qname)
			a.Equal(tc.prefix, prefix)
			a.Equal(tc.local, local)
		})
	}
}

func TestQNameAndDecl(t *testing.T) {
	a := assert.New(t)
	a.Equal("if:name", QName(XMLName("name", "if")))
	a.Equal("name", QName(XMLName("name")))

	a.True(IsDecl(xml.Attr{Name: XMLName("if", "xmlns")}))
	a.True(IsDecl(xml.Attr{Name: XMLName("xmlns")}))
	a.False(IsDecl(xml.Attr{Name: XMLName("operation", "nc")}))
	a.False(IsDecl(xml.Attr{Name: XMLName("type")}))
}
