package generator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/andaru/ncgen/argspec"
	"github.com/andaru/ncgen/config"
	"github.com/andaru/ncgen/instance"
	"github.com/andaru/ncgen/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testModule = `module test-interfaces {
  namespace "urn:test:if";
  prefix if;

  description
    "Interface management.
     Second paragraph.";

  container interfaces {
    list interface {
      key "name";
      leaf name {
        type string;
        description "Interface name.";
      }
      leaf mtu {
        type uint16 {
          range "68..9216";
        }
        default 1500;
      }
      leaf enabled {
        type boolean;
      }
      leaf type {
        type enumeration {
          enum ethernet;
          enum loopback;
        }
      }
      leaf oper-status {
        config false;
        type string;
      }
    }
  }
}`

const (
	fullDoc = `<rpc><edit-config><config>
<if:interfaces xmlns:if="urn:test:if">
  <if:interface>
    <if:name>GE0/0/1</if:name>
    <if:mtu>1500</if:mtu>
    <if:enabled>true</if:enabled>
    <if:type>ethernet</if:type>
    <if:oper-status>up</if:oper-status>
  </if:interface>
</if:interfaces>
</config></edit-config></rpc>`

	mergeExample = `<config xmlns:nc="urn:ietf:params:xml:ns:netconf:base:1.0">
<if:interfaces xmlns:if="urn:test:if">
  <if:interface nc:operation="merge">
    <if:name>GE0/0/1</if:name>
    <if:mtu>9000</if:mtu>
  </if:interface>
  <if:interface>
    <if:name>GE0/0/2</if:name>
  </if:interface>
</if:interfaces>
</config>`

	strayExample = `<config><if:interfaces xmlns:if="urn:test:if"><if:bogus/></if:interfaces></config>`

	queryDoc = `<rpc><get><filter type="subtree">
<if:interfaces xmlns:if="urn:test:if">
  <if:interface>
    <if:name>GE0/0/1</if:name>
    <if:mtu/>
  </if:interface>
</if:interfaces>
</filter></get></rpc>`
)

func writeFile(t *testing.T, path, text string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func testSet(t *testing.T) *schema.ModuleSet {
	set, diags := schema.LoadSources([]schema.Source{{Name: "test-interfaces.yang", Text: testModule}}, nil)
	require.Zero(t, diags.Len())
	return set
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{
		"grp/ifm/ifm_full.xml",
		"grp/ifm/ifm_10_example.xml",
		"grp/ifm/ifm_2_example.xml",
		"grp/ifm/notes.txt",
		"solo/solo.xml",
		"orphan/only_example.xml",
	} {
		writeFile(t, filepath.Join(root, p), "<config/>")
	}

	jobs, err := Discover(root)
	require.NoError(t, err)
	assert.Equal(t, []Job{
		{
			Name:  "ifm",
			Group: "grp",
			Full:  filepath.Join(root, "grp/ifm/ifm_full.xml"),
			Examples: []string{
				filepath.Join(root, "grp/ifm/ifm_2_example.xml"),
				filepath.Join(root, "grp/ifm/ifm_10_example.xml"),
			},
		},
		{
			Name:     "solo",
			Full:     filepath.Join(root, "solo/solo.xml"),
			Examples: []string{filepath.Join(root, "solo/solo.xml")},
		},
	}, jobs)

	_, err = Discover(filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestRequiredNamespaces(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, filepath.Join(root, "a/a.xml"), `<config xmlns="urn:b"><x xmlns:p='urn:a'/></config>`)
	b := writeFile(t, filepath.Join(root, "b/b.xml"), `<config xmlns:q="urn:b"/>`)
	assert.Equal(t, []string{"urn:a", "urn:b"}, RequiredNamespaces([]Job{
		{Full: a}, {Full: b}, {Full: filepath.Join(root, "gone.xml")},
	}))
}

func TestPyLiteral(t *testing.T) {
	for _, tc := range []struct {
		in   interface{}
		want string
	}{
		{in: nil, want: "None"},
		{in: true, want: "True"},
		{in: false, want: "False"},
		{in: 42, want: "42"},
		{in: int64(-3), want: "-3"},
		{in: `it's a \ "test"` + "\n", want: `'it\'s a \\ "test"\n'`},
		{in: []string{"a", "b"}, want: "['a', 'b']"},
		{in: []bool{true, false}, want: "[True, False]"},
		{in: []string(nil), want: "[]"},
		{in: schema.Intervals{schema.Span(1, 5), schema.Span(10, 20)}, want: "[(1, 5), (10, 20)]"},
		{
			in:   argspec.NewMap().Set("type", "str").Set("required", true).Set("options", argspec.NewMap()),
			want: "{'type': 'str', 'required': True, 'options': {}}",
		},
		{
			in:   []instance.OperationSpec{{Path: "/config/a", Operation: "merge"}},
			want: "[{'path': '/config/a', 'operation': 'merge'}]",
		},
	} {
		t.Run(tc.want, func(t *testing.T) {
			got, err := pyLiteral(tc.in)
			if assert.NoError(t, err) {
				assert.Equal(t, tc.want, got)
			}
		})
	}

	_, err := pyLiteral(struct{}{})
	assert.Error(t, err)
}

func TestReadUserCheck(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, filepath.Join(dir, "ifm.py"), `#!/usr/bin/env python
import re
from ansible.module_utils.network.ne.ne import get_nc_config, \
    set_nc_config

LIMIT = 10


class UserCheck(object):
    def __init__(self, params, infos):
        self.params = params

    def check_mtu(self):
        return 1

def helper():
    pass
`)

	for _, tc := range []struct {
		name string
		path string
		want UserCheck
	}{
		{
			name: "script",
			path: script,
			want: UserCheck{
				Imports: "import re\nfrom ansible.module_utils.network.ne.ne import get_nc_config, \\\n    set_nc_config",
				Class: "class UserCheck(object):\n" +
					"    def __init__(self, params, infos):\n" +
					"        self.params = params\n" +
					"\n" +
					"    def check_mtu(self):\n" +
					"        return 1\n",
			},
		},
		{name: "missing", path: filepath.Join(dir, "none.py"), want: UserCheck{Class: DefaultUserCheck}},
		{name: "unset", want: UserCheck{Class: DefaultUserCheck}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			uc, err := ReadUserCheck(tc.path)
			if assert.NoError(t, err) {
				assert.Equal(t, tc.want, uc)
			}
		})
	}
}

func TestWriter(t *testing.T) {
	a := assert.New(t)
	path := filepath.Join(t.TempDir(), "out", "ifm.py")

	w := &Writer{}
	changed, err := w.Write(path, []byte("a\nb\n"))
	a.NoError(err)
	a.True(changed)
	changed, err = w.Write(path, []byte("a\nb\n"))
	a.NoError(err)
	a.False(changed)

	var out bytes.Buffer
	dw := &Writer{Diff: true, Out: &out}
	changed, err = dw.Write(path, []byte("a\nc\n"))
	a.NoError(err)
	a.True(changed)
	a.Contains(out.String(), "-b\n")
	a.Contains(out.String(), "+c\n")
	b, err := os.ReadFile(path)
	a.NoError(err)
	a.Equal("a\nb\n", string(b))

	entries, err := os.ReadDir(filepath.Dir(path))
	a.NoError(err)
	a.Len(entries, 1)
}

func TestEnvelope(t *testing.T) {
	for _, tc := range []struct {
		mode       instance.Mode
		head, tail string
	}{
		{mode: instance.ModeConfig, head: "<config>", tail: "</config>"},
		{mode: instance.ModeQuery, head: `<filter type="subtree">`, tail: "</filter>"},
		{mode: instance.ModeRPC},
	} {
		t.Run(tc.mode.String(), func(t *testing.T) {
			head, tail := envelope(tc.mode)
			assert.Equal(t, tc.head, head)
			assert.Equal(t, tc.tail, tail)
		})
	}
}

// unyaml decodes a rendered YAML block for structural checks.
func unyaml(t *testing.T, text string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, yaml.Unmarshal([]byte(text), &v))
	return v
}

func dig(v interface{}, keys ...interface{}) interface{} {
	for _, k := range keys {
		switch k := k.(type) {
		case string:
			m, _ := v.(map[string]interface{})
			v = m[k]
		case int:
			s, _ := v.([]interface{})
			if k >= len(s) {
				return nil
			}
			v = s[k]
		}
	}
	return v
}

func TestGenerate(t *testing.T) {
	root := t.TempDir()
	job := Job{
		Name:  "ifm",
		Group: "grp",
		Full:  writeFile(t, filepath.Join(root, "xml/grp/ifm/ifm.xml"), fullDoc),
		Examples: []string{
			writeFile(t, filepath.Join(root, "xml/grp/ifm/ifm_merge_example.xml"), mergeExample),
			writeFile(t, filepath.Join(root, "xml/grp/ifm/ifm_stray_example.xml"), strayExample),
		},
	}
	writeFile(t, filepath.Join(root, "scripts/grp/ifm.py"), "import re\n\nclass UserCheck(object):\n    pass\n")

	tmpl, err := LoadTemplate("")
	require.NoError(t, err)
	g := New(testSet(t), tmpl, Options{
		Author:       "netops",
		VersionAdded: "2.6",
		Hosts:        "ne_test",
		ScriptDir:    filepath.Join(root, "scripts"),
	})
	m, diags := g.Generate(context.Background(), job)
	require.NotNil(t, m)

	a := assert.New(t)
	var tags []string
	for _, e := range diags.All() {
		tags = append(tags, e.Tag+" "+filepath.Base(e.File)+" "+e.Path)
	}
	a.Equal([]string{
		"not-configurable ifm.xml /interfaces/interface/oper-status",
		"not-subset ifm_stray_example.xml ",
	}, tags)

	a.Equal("config", m.Operation)
	a.Equal("<config>", m.XMLHead)
	a.Equal("</config>", m.XMLTail)
	a.Equal("['interfaces']", m.BusinessTags)
	a.Equal("['/interfaces/interface/name']", m.KeyList)
	a.Equal("{'/interfaces': 'urn:test:if', '/interfaces/interface': 'urn:test:if', "+
		"'/interfaces/interface/name': 'urn:test:if', '/interfaces/interface/mtu': 'urn:test:if', "+
		"'/interfaces/interface/enabled': 'urn:test:if', '/interfaces/interface/type': 'urn:test:if', "+
		"'/interfaces/interface/oper-status': 'urn:test:if'}", m.Namespaces)
	a.Equal("{'interfaces': {'type': 'list', 'elements': 'dict', 'options': {'interface': {'type': 'dict', 'options': {"+
		"'name': {'type': 'str', 'required': True, 'key': True}, "+
		"'mtu': {'type': 'int', 'required': False, 'default': 1500, 'range': [(68, 9216)]}, "+
		"'enabled': {'type': 'bool', 'required': False, 'choices': [True, False]}, "+
		"'type': {'required': False, 'choices': ['ethernet', 'loopback']}}}}}}", m.ArgumentSpec)
	a.Equal(4, m.Leaves)
	a.Equal("import re", m.Imports)
	a.Equal("class UserCheck(object):\n    pass\n", m.UserCheck)

	source := string(m.Source)
	for _, want := range []string{
		"# This file is part of Ansible",
		"DOCUMENTATION = '''\n---\nmodule: ifm\n",
		"MESSAGE_TYPE = 'config'",
		"KEY_LIST = ['/interfaces/interface/name']",
		"XML_HEAD = '''<config>'''",
		"import re\n",
		"argument_spec = {'interfaces': ",
	} {
		a.Contains(source, want)
	}

	doc := unyaml(t, m.Documentation)
	a.Equal("ifm", dig(doc, "module"))
	a.Equal("2.6", dig(doc, "version_added"))
	a.Equal("Interface management.", dig(doc, "short_description"))
	a.Equal([]interface{}{"Interface management.", "Second paragraph."}, dig(doc, "description"))
	a.Equal("netops", dig(doc, "author"))
	a.Equal([]interface{}{"config", "get", "get-config", "input_action"}, dig(doc, "options", "operation_type", "choices"))
	iface := dig(doc, "options", "interfaces", "suboptions", "interface", "suboptions")
	a.Equal("list", dig(doc, "options", "interfaces", "type"))
	a.Equal([]interface{}{"Interface name."}, dig(iface, "name", "description"))
	a.Equal(true, dig(iface, "name", "key"))
	a.Equal(true, dig(iface, "name", "required"))
	a.Equal(1500, dig(iface, "mtu", "default"))
	a.Equal([]interface{}{[]interface{}{68, 9216}}, dig(iface, "mtu", "range"))
	a.Equal([]interface{}{true, false}, dig(iface, "enabled", "choices"))
	a.Equal("enum", dig(iface, "type", "type"))
	a.Nil(dig(iface, "oper-status"))

	ex := unyaml(t, m.Examples)
	a.Equal("ifm", dig(ex, 0, "name"))
	a.Equal("ne_test", dig(ex, 0, "hosts"))
	a.Equal(false, dig(ex, 0, "gather_facts"))
	a.Equal("{{ inventory_hostname }}", dig(ex, 0, "vars", "netconf", "host"))
	task := dig(ex, 0, "tasks", 0)
	a.Equal("ifm_merge_example", dig(task, "name"))
	a.Equal("config", dig(task, "ifm", "operation_type"))
	a.Equal([]interface{}{map[string]interface{}{"path": "/config/interfaces/interface", "operation": "merge"}},
		dig(task, "ifm", "operation_specs"))
	a.Equal("GE0/0/1", dig(task, "ifm", "interfaces", 0, "interface", "name"))
	a.Equal(9000, dig(task, "ifm", "interfaces", 0, "interface", "mtu"))
	a.Equal("GE0/0/2", dig(task, "ifm", "interfaces", 1, "interface", "name"))
	a.Equal("{{ netconf }}", dig(task, "ifm", "provider"))
	a.Nil(dig(ex, 0, "tasks", 1))
}

func TestGenerateQuery(t *testing.T) {
	root := t.TempDir()
	full := writeFile(t, filepath.Join(root, "ifm/ifm.xml"), queryDoc)
	tmpl, err := LoadTemplate("")
	require.NoError(t, err)
	g := New(testSet(t), tmpl, Options{Hosts: "lab"})

	m, diags := g.Generate(context.Background(), Job{Name: "ifm", Full: full, Examples: []string{full}})
	require.NotNil(t, m)
	a := assert.New(t)
	a.Zero(diags.Len())
	a.Equal("get", m.Operation)
	a.Equal(`<filter type="subtree">`, m.XMLHead)

	task := dig(unyaml(t, m.Examples), 0, "tasks", 0, "ifm")
	a.Equal("get", dig(task, "operation_type"))
	a.Nil(dig(task, "operation_specs"))
	a.Equal("GE0/0/1", dig(task, "interfaces", 0, "interface", "name", "get_value"))
	a.Equal(true, dig(task, "interfaces", 0, "interface", "mtu", "get_all"))
}

func TestGenerateSkips(t *testing.T) {
	root := t.TempDir()
	tmpl, err := LoadTemplate("")
	require.NoError(t, err)
	g := New(testSet(t), tmpl, Options{})

	bad := writeFile(t, filepath.Join(root, "bad/bad.xml"), "<config><unclosed></config>")
	m, diags := g.Generate(context.Background(), Job{Name: "bad", Full: bad})
	assert.Nil(t, m)
	if assert.Len(t, diags.Errors(), 1) {
		assert.Equal(t, "malformed-message", diags.Errors()[0].Tag)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m, diags = g.Generate(ctx, Job{Name: "bad", Full: bad})
	assert.Nil(t, m)
	if assert.Len(t, diags.Errors(), 1) {
		assert.Equal(t, "operation-failed", diags.Errors()[0].Tag)
	}
}

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()
	tmpl, err := LoadTemplate(writeFile(t, filepath.Join(dir, "t.tmpl"), "{{ .Name }}={{ .Operation }}"))
	require.NoError(t, err)
	out, err := render(tmpl, &Module{Name: "ifm", Operation: "get"})
	require.NoError(t, err)
	assert.Equal(t, "ifm=get", string(out))

	_, err = LoadTemplate(writeFile(t, filepath.Join(dir, "bad.tmpl"), "{{ .Name "))
	assert.Error(t, err)
	_, err = LoadTemplate(filepath.Join(dir, "none.tmpl"))
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	cfg := (&config.Config{
		YangDir:   filepath.Join(root, "yang"),
		XMLDir:    filepath.Join(root, "xml"),
		LogDir:    root,
		OutputDir: filepath.Join(root, "out"),
	}).Init()
	writeFile(t, filepath.Join(cfg.YangDir, "test-interfaces.yang"), testModule)
	writeFile(t, filepath.Join(cfg.YangDir, "unrelated.yang"), "module unrelated { namespace \"urn:x\"; prefix x; bogus }")
	writeFile(t, filepath.Join(cfg.XMLDir, "grp/ifm/ifm.xml"), fullDoc)
	writeFile(t, filepath.Join(cfg.XMLDir, "grp/bad/bad.xml"), "<config>")

	sum, err := Run(context.Background(), cfg, false, nil)
	require.NoError(t, err)
	a := assert.New(t)
	a.Empty(sum.Schema)
	require.Len(t, sum.Results, 2)

	bad, ifm := sum.Results[0], sum.Results[1]
	a.True(bad.Skipped())
	a.False(ifm.Skipped())
	a.Equal(filepath.Join(cfg.OutputDir, "grp", "ifm.py"), ifm.Output)
	a.True(ifm.Changed)
	a.FileExists(ifm.Output)
	a.True(sum.Failed())
	a.Len(sum.Diagnostics().Warnings(), 1)

	var table bytes.Buffer
	a.NoError(sum.Table(&table))
	a.Contains(table.String(), "ifm.xml")
	a.Contains(table.String(), "skipped")

	report, err := sum.Report()
	a.NoError(err)
	a.Contains(string(report), "tag: malformed-message")

	// a second run leaves the module untouched
	sum, err = Run(context.Background(), cfg, false, nil)
	require.NoError(t, err)
	a.False(sum.Results[1].Changed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, cfg, false, nil)
	a.Error(err)
}
