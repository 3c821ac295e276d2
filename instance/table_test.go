package instance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultNamespaceDoc = `<config>
  <interfaces xmlns="urn:if" xmlns:ip="urn:ip">
    <interface>
      <name>x</name>
      <ip:ipv4><ip:enabled>true</ip:enabled></ip:ipv4>
      <mtu>1500</mtu>
    </interface>
  </interfaces>
</config>`

func TestResolve(t *testing.T) {
	for _, tc := range []struct {
		doc  string
		path string
		want string
	}{
		{doc: editConfigDoc, path: "", want: BaseNamespace},
		{doc: editConfigDoc, path: "/interfaces", want: nsIf},
		{doc: editConfigDoc, path: "/interfaces/interface/name", want: nsIf},
		{doc: editConfigDoc, path: "/interfaces/interface/ipv4", want: nsIP},
		{doc: editConfigDoc, path: "/interfaces/interface/ipv4/address/ip", want: nsIP},
		{doc: editConfigDoc, path: "/interfaces/interface/unknown", want: nsIf},

		{doc: defaultNamespaceDoc, path: "/interfaces", want: "urn:if"},
		{doc: defaultNamespaceDoc, path: "/interfaces/interface", want: "urn:if"},
		{doc: defaultNamespaceDoc, path: "/interfaces/interface/ipv4", want: "urn:ip"},
		{doc: defaultNamespaceDoc, path: "/interfaces/interface/ipv4/enabled", want: "urn:ip"},
		{doc: defaultNamespaceDoc, path: "/interfaces/interface/mtu", want: "urn:if"},

		// prefix declared on the envelope above the business root
		{doc: `<rpc xmlns:s="urn:sys"><edit-config><config><s:system><s:name>a</s:name></s:system></config></edit-config></rpc>`, path: "/system/name", want: "urn:sys"},
		{doc: rpcDoc, path: "/reset/delay", want: "urn:sys"},
	} {
		t.Run(tc.path, func(t *testing.T) {
			doc, err := Parse(strings.NewReader(tc.doc))
			require.NoError(t, err)
			table := doc.Table()
			first := table.Resolve(tc.path)
			assert.Equal(t, tc.want, first)
			// resolution does not change the table
			assert.Equal(t, first, table.Resolve(tc.path))
		})
	}
}

func TestTableEntries(t *testing.T) {
	doc, err := Parse(strings.NewReader(editConfigDoc))
	require.NoError(t, err)
	a := assert.New(t)
	table := doc.Table()

	entries := table.Entries()
	require.NotEmpty(t, entries)
	a.Equal("/interfaces", entries[0].Path)
	for i := 1; i < len(entries); i++ {
		a.LessOrEqual(depth(entries[i-1].Path), depth(entries[i].Path))
	}

	e := table.Lookup("/interfaces/interface/ipv4")
	require.NotNil(t, e)
	a.Equal("/if:interfaces/if:interface/ip:ipv4", e.Prefixed)
	a.Equal("ip", e.Prefix())
	a.Equal(`xmlns:ip="`+nsIP+`"`, e.Decl())

	name := table.Lookup("/interfaces/interface/name")
	require.NotNil(t, name)
	// repeated occurrences share the first occurrence's text
	a.Equal("GE0/0/1", name.Text)
	a.Nil(table.Lookup("/nope"))

	ns := table.Namespaces()
	a.Equal(nsIP, ns["/interfaces/interface/ipv4/address/prefix-length"])
	a.Equal(nsIf, ns["/interfaces"])
}
