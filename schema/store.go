package schema

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andaru/ncgen/ncerr"
	"github.com/golang/glog"
	"github.com/maruel/natural"
	"github.com/openconfig/goyang/pkg/yang"
	"github.com/pkg/errors"
)

// Source is one YANG source text and the name it is reported under.
type Source struct {
	Name string
	Text string
}

// ModuleSet is a processed set of YANG modules. It is read-only once
// built and safe to share between instance documents.
type ModuleSet struct {
	ms      *yang.Modules
	modules []*yang.Module
	byName  map[string]*yang.Module
	byNS    map[string]*yang.Module
}

// Load parses the modules in dir whose namespace is in required, plus the
// modules they import or include. A nil required loads every module.
// Unreadable or unparsable files are reported as parse-failed warnings; the
// error return is reserved for an unreadable directory.
func Load(dir string, required []string) (*ModuleSet, *ncerr.List, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	diags := &ncerr.List{}
	var sources []Source
	for _, de := range dirents {
		if de.IsDir() || filepath.Ext(de.Name()) != ".yang" {
			continue
		}
		path := filepath.Join(dir, de.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			glog.Warningf("schema: %v", err)
			diags.Add(ncerr.ParseFailed(path, ncerr.WithMessage(err.Error())))
			continue
		}
		sources = append(sources, Source{Name: path, Text: string(data)})
	}
	set, more := load(sources, required, dir)
	diags.Extend(more)
	return set, diags, nil
}

// LoadSources is Load for in-memory sources.
func LoadSources(sources []Source, required []string) (*ModuleSet, *ncerr.List) {
	return load(sources, required, "")
}

func load(sources []Source, required []string, dir string) (*ModuleSet, *ncerr.List) {
	diags := &ncerr.List{}
	sort.SliceStable(sources, func(i, j int) bool { return natural.Less(sources[i].Name, sources[j].Name) })

	want := map[string]bool{}
	for _, ns := range required {
		want[ns] = true
	}
	headers := make([]header, len(sources))
	byName := map[string]int{}
	var queue []int
	for i, src := range sources {
		headers[i] = scan(src.Text)
		if headers[i].name != "" {
			if _, dup := byName[headers[i].name]; !dup {
				byName[headers[i].name] = i
			}
		}
		if required == nil || (headers[i].namespace != "" && want[headers[i].namespace]) {
			queue = append(queue, i)
		}
	}

	ms := yang.NewModules()
	if dir != "" {
		ms.AddPath(dir)
	}
	parsed := map[int]bool{}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		if parsed[i] {
			continue
		}
		parsed[i] = true
		if err := ms.Parse(sources[i].Text, sources[i].Name); err != nil {
			glog.Warningf("schema: %s: %v", sources[i].Name, err)
			diags.Add(ncerr.ParseFailed(sources[i].Name, ncerr.WithMessage(err.Error())))
			continue
		}
		glog.V(2).Infof("schema: parsed %s %s", headers[i].keyword, headers[i].name)
		for _, name := range headers[i].imports {
			if j, ok := byName[name]; ok && !parsed[j] {
				queue = append(queue, j)
			}
		}
	}
	for _, err := range ms.Process() {
		glog.Warningf("schema: %v", err)
		diags.Add(ncerr.ParseFailed("", ncerr.WithMessage(err.Error())))
	}
	return newModuleSet(ms), diags
}

func newModuleSet(ms *yang.Modules) *ModuleSet {
	s := &ModuleSet{ms: ms, byName: map[string]*yang.Module{}, byNS: map[string]*yang.Module{}}
	seen := map[*yang.Module]bool{}
	for _, m := range ms.Modules {
		if seen[m] {
			continue
		}
		seen[m] = true
		s.modules = append(s.modules, m)
	}
	sort.Slice(s.modules, func(i, j int) bool { return natural.Less(s.modules[i].Name, s.modules[j].Name) })
	for _, m := range s.modules {
		if _, ok := s.byName[m.Name]; !ok {
			s.byName[m.Name] = m
		}
		if m.Namespace == nil {
			continue
		}
		if _, ok := s.byNS[m.Namespace.Name]; !ok {
			s.byNS[m.Namespace.Name] = m
		}
	}
	return s
}

// Modules returns the loaded modules sorted by name.
func (s *ModuleSet) Modules() []*yang.Module { return s.modules }

// Module returns the module called name, or nil.
func (s *ModuleSet) Module(name string) *yang.Module { return s.byName[name] }

// ByNamespace returns the module declaring uri, or nil.
func (s *ModuleSet) ByNamespace(uri string) *yang.Module { return s.byNS[uri] }

// Root returns the schema tree of m.
func (s *ModuleSet) Root(m *yang.Module) *Statement {
	if m == nil {
		return nil
	}
	return wrap(s, yang.ToEntry(m))
}

// Description joins the descriptions of the modules declaring the given
// namespaces, in module name order. Namespaces no loaded module declares
// are reported as missing-module warnings.
func (s *ModuleSet) Description(namespaces []string) (string, *ncerr.List) {
	diags := &ncerr.List{}
	var mods []*yang.Module
	for _, ns := range namespaces {
		m := s.ByNamespace(ns)
		if m == nil {
			diags.Add(ncerr.MissingModule(ns))
			continue
		}
		mods = append(mods, m)
	}
	sort.SliceStable(mods, func(i, j int) bool { return natural.Less(mods[i].Name, mods[j].Name) })
	var parts []string
	seen := map[*yang.Module]bool{}
	for _, m := range mods {
		if seen[m] || m.Description == nil {
			continue
		}
		seen[m] = true
		parts = append(parts, strings.TrimSpace(m.Description.Name))
	}
	return strings.Join(parts, "\n"), diags
}

// moduleByPrefix resolves prefix in the context of m: its own prefix or
// one of its imports.
func (s *ModuleSet) moduleByPrefix(m *yang.Module, prefix string) *yang.Module {
	if m == nil {
		return nil
	}
	if prefix == "" || (m.Prefix != nil && m.Prefix.Name == prefix) {
		return s.owner(m)
	}
	if m.BelongsTo != nil && m.BelongsTo.Prefix != nil && m.BelongsTo.Prefix.Name == prefix {
		return s.owner(m)
	}
	for _, imp := range m.Import {
		if imp.Prefix != nil && imp.Prefix.Name == prefix {
			return s.byName[imp.Name]
		}
	}
	return nil
}

// owner returns the module a submodule belongs to, or m itself.
func (s *ModuleSet) owner(m *yang.Module) *yang.Module {
	if m.Kind() == "submodule" && m.BelongsTo != nil {
		if o := s.byName[m.BelongsTo.Name]; o != nil {
			return o
		}
	}
	return m
}
