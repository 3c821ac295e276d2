package generator

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andaru/ncgen/argspec"
	"github.com/andaru/ncgen/instance"
	"github.com/andaru/ncgen/ncerr"
	"github.com/golang/glog"
)

// example is one example document accepted for a module.
type example struct {
	File string
	Doc  *instance.Document
}

// loadExamples parses the example files of job. Examples that do not
// parse, or are not a structural subset of full, are reported as
// not-subset warnings and left out.
func loadExamples(job Job, full *instance.Document) ([]example, *ncerr.List) {
	diags := &ncerr.List{}
	var out []example
	for _, f := range job.Examples {
		doc := full
		if f != job.Full {
			var err error
			if doc, err = instance.ParseFile(f); err != nil {
				diags.Add(ncerr.NotSubset(f, ncerr.WithMessage(err.Error())))
				continue
			}
		}
		if !instance.IsSubset(doc, full) {
			diags.Add(ncerr.NotSubset(f,
				ncerr.WithMessage("example is not a subset of "+filepath.Base(job.Full))))
			continue
		}
		out = append(out, example{File: f, Doc: doc})
	}
	return out, diags
}

// playbook renders the examples block: one play running one task per
// example document against the generated module.
func playbook(module, hosts string, spec *argspec.Spec, examples []example) (string, error) {
	netconf := argspec.NewMap().
		Set("host", "{{ inventory_hostname }}").
		Set("port", "{{ ansible_ssh_port }}").
		Set("username", "{{ ansible_user }}").
		Set("password", "{{ ansible_ssh_pass }}").
		Set("transport", "netconf")

	tasks := []interface{}{}
	for _, ex := range examples {
		tasks = append(tasks, argspec.NewMap().
			Set("name", strings.TrimSuffix(filepath.Base(ex.File), filepath.Ext(ex.File))).
			Set(module, exampleTask(spec, ex.Doc)))
	}

	play := argspec.NewMap().
		Set("name", module).
		Set("hosts", hosts).
		Set("connection", "netconf").
		Set("gather_facts", false).
		Set("vars", argspec.NewMap().Set("netconf", netconf)).
		Set("tasks", tasks)
	return marshalYAML([]interface{}{play})
}

func exampleTask(spec *argspec.Spec, doc *instance.Document) *argspec.Map {
	task := argspec.NewMap().Set("operation_type", doc.Operation)
	if doc.Mode == instance.ModeConfig {
		if ops := doc.Operations(); len(ops) > 0 {
			specs := make([]interface{}, len(ops))
			for i, op := range ops {
				specs[i] = argspec.NewMap().Set("path", op.Path).Set("operation", op.Operation)
			}
			task.Set("operation_specs", specs)
		}
	}
	ev := exampleValues{query: doc.Mode == instance.ModeQuery}
	values := ev.container(spec.Options, doc.Root)
	for _, k := range values.Keys() {
		v, _ := values.Get(k)
		task.Set(k, v)
	}
	return task.Set("provider", "{{ netconf }}")
}

// exampleValues renders instance values as module parameters.
type exampleValues struct {
	query bool
}

func (ev exampleValues) value(o *argspec.Option, n *instance.Node) interface{} {
	switch {
	case !o.Nested:
		return ev.leaf(o, n.Text)
	case o.ListValued:
		return ev.items(o.Options, n)
	}
	return ev.container(o.Options, n)
}

// container maps each child of n onto its option. Only the first
// occurrence of a repeated child is used.
func (ev exampleValues) container(opts []*argspec.Option, n *instance.Node) *argspec.Map {
	m := argspec.NewMap()
	for _, slot := range n.Children() {
		o := optionNamed(opts, slot.Name)
		if o == nil {
			glog.V(2).Infof("example: no option for %s", slot.Name)
			continue
		}
		m.Set(o.Name, ev.value(o, slot.Occurrences()[0]))
	}
	if m.Len() == 0 && ev.query {
		m.Set("get_all", true)
	}
	return m
}

// items renders every child occurrence of n as a list item of its own.
func (ev exampleValues) items(opts []*argspec.Option, n *instance.Node) interface{} {
	items := []interface{}{}
	for _, slot := range n.Children() {
		o := optionNamed(opts, slot.Name)
		if o == nil {
			continue
		}
		for _, occ := range slot.Occurrences() {
			items = append(items, argspec.NewMap().Set(o.Name, ev.value(o, occ)))
		}
	}
	if len(items) == 0 && ev.query {
		return argspec.NewMap().Set("get_all", true)
	}
	return items
}

func (ev exampleValues) leaf(o *argspec.Option, text string) interface{} {
	if ev.query {
		if text == "" {
			return argspec.NewMap().Set("get_all", true)
		}
		return argspec.NewMap().Set("get_value", coerce(o.Type, text))
	}
	if text == "" {
		return ""
	}
	return coerce(o.Type, text)
}

// coerce converts instance text to the option's simple type, leaving it
// as text when it does not convert.
func coerce(typ, text string) interface{} {
	switch typ {
	case argspec.TypeInt:
		if v, err := strconv.ParseInt(text, 10, 64); err == nil {
			return v
		}
	case argspec.TypeBool:
		if v, err := strconv.ParseBool(text); err == nil {
			return v
		}
	}
	return text
}

func optionNamed(opts []*argspec.Option, name string) *argspec.Option {
	for _, o := range opts {
		if o.Name == name {
			return o
		}
	}
	return nil
}
