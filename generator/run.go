package generator

import (
	"context"
	"io"
	"path/filepath"

	"github.com/andaru/ncgen/config"
	"github.com/andaru/ncgen/ncerr"
	"github.com/andaru/ncgen/schema"
	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pkg/errors"
	kyaml "sigs.k8s.io/yaml"
)

// Result is the outcome of one job.
type Result struct {
	Job Job `json:"job"`
	// Output is the path written, empty when the job was skipped.
	Output  string `json:"output,omitempty"`
	Size    int    `json:"size,omitempty"`
	Changed bool   `json:"changed,omitempty"`
	Leaves  int    `json:"leaves,omitempty"`
	// Operation is the generated module's operation discriminator.
	Operation string        `json:"operation,omitempty"`
	Diags     []*ncerr.Error `json:"diagnostics,omitempty"`
}

// Skipped reports whether no module was produced.
func (r *Result) Skipped() bool { return r.Output == "" }

// Summary is the outcome of a run.
type Summary struct {
	// Schema holds the diagnostics of loading the schema.
	Schema  []*ncerr.Error `json:"schema,omitempty"`
	Results []*Result      `json:"results"`
}

// Diagnostics returns every diagnostic of the run, schema first.
func (s *Summary) Diagnostics() *ncerr.List {
	l := &ncerr.List{}
	l.Add(s.Schema...)
	for _, r := range s.Results {
		l.Add(r.Diags...)
	}
	return l
}

// Failed reports whether any error severity diagnostic was raised.
func (s *Summary) Failed() bool { return s.Diagnostics().HasErrors() }

// Run generates a module for every full instance document below
// cfg.XMLDir. Jobs run in order; cancelling ctx stops the run between
// jobs. Module output goes to cfg.OutputDir, diffs to out when diff is set.
func Run(ctx context.Context, cfg *config.Config, diff bool, out io.Writer) (*Summary, error) {
	jobs, err := Discover(cfg.XMLDir)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("discovered %d instance documents below %s", len(jobs), cfg.XMLDir)
	sum := &Summary{}
	if len(jobs) == 0 {
		return sum, nil
	}

	set, diags, err := schema.Load(cfg.YangDir, RequiredNamespaces(jobs))
	if err != nil {
		return nil, errors.Wrap(err, "loading schema")
	}
	sum.Schema = diags.All()

	tmpl, err := LoadTemplate(cfg.Template)
	if err != nil {
		return nil, err
	}
	g := New(set, tmpl, Options{
		Author:       cfg.Author,
		VersionAdded: cfg.VersionAdded,
		Hosts:        cfg.Hosts,
		ScriptDir:    cfg.ScriptDir,
	})
	w := &Writer{Diff: diff, Out: out}

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return sum, errors.Wrap(err, "run interrupted")
		}
		sum.Results = append(sum.Results, runJob(ctx, g, w, cfg.OutputDir, job))
	}
	return sum, nil
}

func runJob(ctx context.Context, g *Generator, w *Writer, outDir string, job Job) *Result {
	res := &Result{Job: job}
	m, diags := g.Generate(ctx, job)
	if m != nil {
		path := filepath.Join(outDir, job.Group, job.Name+".py")
		changed, err := w.Write(path, m.Source)
		if err != nil {
			diags.Add(ncerr.OperationFailed(ncerr.WithFile(job.Full), ncerr.WithMessage(err.Error())))
		} else {
			res.Output, res.Size, res.Changed, res.Operation = path, len(m.Source), changed, m.Operation
			res.Leaves = m.Leaves
		}
	}
	res.Diags = diags.All()
	glog.V(1).Infof("%s: %d diagnostics", job.Full, len(res.Diags))
	return res
}

// Table renders the per-file results as a text table.
func (s *Summary) Table(out io.Writer) error {
	table := tablewriter.NewTable(out,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Borders:  tw.BorderNone,
			Settings: tw.Settings{Lines: tw.LinesNone, Separators: tw.SeparatorsNone},
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{Alignment: tw.AlignLeft},
				Padding:    tw.CellPadding{Global: tw.Padding{Right: "  "}},
			},
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{Alignment: tw.AlignLeft},
				Padding:    tw.CellPadding{Global: tw.Padding{Right: "  "}},
			},
		}),
	)
	table.Header([]string{"File", "Module", "Operation", "Leaves", "Warnings", "Errors", "Size", "Status"})

	var rows [][]string
	for _, r := range s.Results {
		l := &ncerr.List{}
		l.Add(r.Diags...)
		rows = append(rows, []string{
			r.Job.Full,
			r.Job.Name,
			r.Operation,
			humanize.Comma(int64(r.Leaves)),
			humanize.Comma(int64(len(l.Warnings()))),
			humanize.Comma(int64(len(l.Errors()))),
			humanize.IBytes(uint64(r.Size)),
			r.status(),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return errors.Wrap(err, "adding summary rows")
	}
	return errors.Wrap(table.Render(), "rendering summary")
}

func (r *Result) status() string {
	switch {
	case r.Skipped():
		return "skipped"
	case r.Changed:
		return "updated"
	}
	return "unchanged"
}

// Report renders the summary as YAML.
func (s *Summary) Report() ([]byte, error) {
	b, err := kyaml.Marshal(s)
	return b, errors.Wrap(err, "marshalling report")
}
