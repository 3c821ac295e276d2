package generator

import (
	"context"
	"path/filepath"
	"text/template"

	"github.com/andaru/ncgen/argspec"
	"github.com/andaru/ncgen/instance"
	"github.com/andaru/ncgen/ncerr"
	"github.com/andaru/ncgen/schema"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Options carry the per-run settings of a Generator.
type Options struct {
	Author       string
	VersionAdded string
	// Hosts is the inventory group the example playbook targets.
	Hosts string
	// ScriptDir holds user check scripts, one <name>.py per module,
	// below the job's group directory. Empty disables the merge.
	ScriptDir string
}

// Generator turns instance documents into module source against one
// loaded schema.
type Generator struct {
	set  *schema.ModuleSet
	tmpl *template.Template
	opts Options
}

// New returns a Generator rendering with tmpl.
func New(set *schema.ModuleSet, tmpl *template.Template, opts Options) *Generator {
	return &Generator{set: set, tmpl: tmpl, opts: opts}
}

// Generate produces the module for job. A nil Module means the file was
// skipped; the returned list says why.
func (g *Generator) Generate(ctx context.Context, job Job) (*Module, *ncerr.List) {
	diags := &ncerr.List{}
	if err := ctx.Err(); err != nil {
		diags.Add(ncerr.OperationFailed(ncerr.WithFile(job.Full), ncerr.WithMessage(err.Error())))
		return nil, diags
	}

	doc, err := instance.ParseFile(job.Full)
	if err != nil {
		diags.Add(ncerr.MalformedMessage(ncerr.WithFile(job.Full), ncerr.WithMessage(err.Error())))
		return nil, diags
	}
	glog.V(1).Infof("%s: %s document, operation %s", job.Full, doc.Mode, doc.Operation)

	b := schema.NewBinder(g.set, doc.Table())
	spec, warns := argspec.Build(argspec.Request{
		Document:  doc,
		Binder:    b,
		KeyPaths:  argspec.KeyPaths(doc, b),
		ListPaths: argspec.ListPaths(doc, b),
		File:      job.Full,
	})
	diags.Extend(warns)

	desc, warns := g.set.Description(doc.Features)
	diags.Extend(warns.WithFile(job.Full))

	examples, warns := loadExamples(job, doc)
	diags.Extend(warns)

	m, err := g.module(job, doc, spec, desc, examples)
	if err != nil {
		diags.Add(ncerr.OperationFailed(ncerr.WithFile(job.Full), ncerr.WithMessage(err.Error())))
		return nil, diags
	}
	return m, diags
}

func (g *Generator) module(job Job, doc *instance.Document, spec *argspec.Spec, desc string, examples []example) (*Module, error) {
	m := &Module{Name: job.Name, Operation: doc.Operation}
	m.XMLHead, m.XMLTail = envelope(doc.Mode)

	var err error
	if m.Documentation, err = documentation(docHeader{
		Module:       job.Name,
		VersionAdded: g.opts.VersionAdded,
		Description:  desc,
		Author:       g.opts.Author,
	}, spec); err != nil {
		return nil, errors.Wrap(err, "documentation")
	}
	if m.Examples, err = playbook(job.Name, g.opts.Hosts, spec, examples); err != nil {
		return nil, errors.Wrap(err, "examples")
	}

	for dst, v := range map[*string]interface{}{
		&m.ArgumentSpec: spec.ArgumentSpec(),
		&m.KeyList:      spec.KeyPaths(),
		&m.LeafInfo:     leafInfo(spec),
		&m.Namespaces:   namespaceMap(doc.Table()),
		&m.BusinessTags: businessTags(doc),
	} {
		if *dst, err = pyLiteral(v); err != nil {
			return nil, err
		}
	}

	uc, err := ReadUserCheck(g.userCheckPath(job))
	if err != nil {
		return nil, errors.Wrap(err, "user check")
	}
	m.Imports, m.UserCheck = uc.Imports, uc.Class
	spec.Walk(func(o *argspec.Option, _ int) {
		if !o.Nested {
			m.Leaves++
		}
	})

	if m.Source, err = render(g.tmpl, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (g *Generator) userCheckPath(job Job) string {
	if g.opts.ScriptDir == "" {
		return ""
	}
	return filepath.Join(g.opts.ScriptDir, job.Group, job.Name+".py")
}

// leafInfo maps every leaf path to the facts a user check may consult.
func leafInfo(spec *argspec.Spec) *argspec.Map {
	out := argspec.NewMap()
	spec.Walk(func(o *argspec.Option, _ int) {
		if o.Nested {
			return
		}
		info := argspec.NewMap().
			Set("type", o.Type).
			Set("required", o.Required).
			Set("key", o.Key).
			Set("mandatory", o.Mandatory).
			Set("default", o.Default)
		if len(o.Patterns) > 0 {
			info.Set("pattern", o.Patterns)
		}
		switch {
		case o.Type == argspec.TypeInt && o.Range != nil:
			info.Set("range", o.Range)
		case o.Type == argspec.TypeStr && o.Length != nil:
			info.Set("length", o.Length)
		case o.Type == argspec.TypeEnum:
			info.Set("choices", o.Choices)
		}
		out.Set(o.Path, info)
	})
	return out
}
