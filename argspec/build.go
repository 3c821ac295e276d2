package argspec

import (
	"github.com/andaru/ncgen/instance"
	"github.com/andaru/ncgen/ncerr"
	"github.com/andaru/ncgen/schema"
	"github.com/golang/glog"
	"github.com/samber/lo"
)

// Request is the input of Build.
type Request struct {
	Document *instance.Document
	Binder   *schema.Binder
	// KeyPaths and ListPaths are the results of the discovery passes.
	KeyPaths  []string
	ListPaths []string
	// File names the instance document in diagnostics.
	File string
}

type builder struct {
	mode  instance.Mode
	b     *schema.Binder
	keys  map[string]bool
	lists map[string]bool
	diags *ncerr.List
	file  string
}

// Build binds every node of the request's document and returns its
// parameter spec. Nodes the schema does not declare, and in config mode
// nodes that are not configuration, are left out with a warning.
func Build(req Request) (*Spec, *ncerr.List) {
	bl := &builder{
		mode:  req.Document.Mode,
		b:     req.Binder,
		keys:  lo.SliceToMap(req.KeyPaths, func(p string) (string, bool) { return p, true }),
		lists: lo.SliceToMap(req.ListPaths, func(p string) (string, bool) { return p, true }),
		diags: &ncerr.List{},
		file:  req.File,
	}
	spec := &Spec{
		Mode:    req.Document.Mode,
		Options: bl.options([]*instance.Node{req.Document.Root}, ""),
	}
	return spec, bl.diags
}

// options builds the child options of a node from all of its occurrences,
// so that children seen in any occurrence are described once.
func (bl *builder) options(parents []*instance.Node, path string) []*Option {
	var names []string
	occs := map[string][]*instance.Node{}
	for _, p := range parents {
		for _, slot := range p.Children() {
			if _, ok := occs[slot.Name]; !ok {
				names = append(names, slot.Name)
			}
			occs[slot.Name] = append(occs[slot.Name], slot.Occurrences()...)
		}
	}

	var out []*Option
	for _, name := range names {
		if o := bl.option(name, path+"/"+name, occs[name]); o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (bl *builder) option(name, path string, occs []*instance.Node) *Option {
	st, _ := bl.b.Bind(path)
	if st == nil {
		if ns := bl.b.Namespace(path); bl.b.Set().ByNamespace(ns) == nil {
			glog.V(1).Infof("argspec: %s: no module for namespace %q", path, ns)
			bl.warn(ncerr.UnknownNamespace(path, ns))
			return nil
		}
		glog.V(1).Infof("argspec: %s is not declared in any module", path)
		bl.warn(ncerr.UnknownElement(path))
		return nil
	}
	c := schema.Extract(st)
	if bl.mode == instance.ModeConfig && !c.Config {
		glog.V(1).Infof("argspec: %s is config false, ignored", path)
		bl.warn(ncerr.NotConfigurable(path))
		return nil
	}

	o := &Option{
		Name:        name,
		Path:        path,
		Description: c.Description,
		Patterns:    c.Patterns,
		Mandatory:   c.Mandatory,
		When:        c.When,
		Must:        c.Must,
		Filterable:  c.Filterable,
	}
	if !st.IsLeaf() || lo.ContainsBy(occs, func(n *instance.Node) bool { return n.Kind == instance.Container }) {
		o.Nested = true
		o.IsList = bl.lists[path]
		o.Options = bl.options(occs, path)
		for _, n := range occs {
			for _, slot := range n.Children() {
				o.ListValued = o.ListValued || bl.lists[path+"/"+slot.Name]
			}
		}
		o.Required = c.Required
		return o
	}

	o.Type = SimpleType(c.Type)
	o.Key = bl.keys[path]
	o.Required = c.Required || o.Key
	o.Default = c.Default
	o.Range = c.Range
	o.Length = c.Length
	switch o.Type {
	case TypeEnum:
		o.Choices = c.Enum
	case TypeBool:
		o.Choices = []string{"true", "false"}
	}
	if c.EmptyRestriction {
		bl.warn(ncerr.EmptyRestriction(path))
	}
	return o
}

func (bl *builder) warn(e *ncerr.Error) {
	if bl.file != "" {
		e.File = bl.file
	}
	bl.diags.Add(e)
}
