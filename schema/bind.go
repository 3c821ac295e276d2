package schema

import (
	"strings"

	"github.com/andaru/ncgen/xmlutil"
	"github.com/golang/glog"
	"github.com/openconfig/goyang/pkg/yang"
)

// NamespaceResolver maps a prefix-free instance path to the namespace URI
// governing it.
type NamespaceResolver interface {
	Resolve(path string) string
}

// Binder binds instance paths of one document to schema statements.
type Binder struct {
	set *ModuleSet
	ns  NamespaceResolver
}

// NewBinder returns a Binder over set using ns for namespace lookups.
func NewBinder(set *ModuleSet, ns NamespaceResolver) *Binder {
	return &Binder{set: set, ns: ns}
}

// Set returns the module set bound against.
func (b *Binder) Set() *ModuleSet { return b.set }

// Namespace returns the namespace URI governing path.
func (b *Binder) Namespace(path string) string { return b.ns.Resolve(path) }

// Bind returns the statement declaring path, such as
// /interfaces/interface/name, and whether the node was reached through an
// augment. A nil statement means the node is undeclared.
func (b *Binder) Bind(path string) (*Statement, bool) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return nil, false
	}
	homeNS := b.ns.Resolve("/" + segs[0])
	targetNS := b.ns.Resolve(path)
	augmented := homeNS != targetNS

	if augmented {
		if e := b.bindAugment(segs, targetNS); e != nil {
			return wrap(b.set, e), true
		}
		glog.V(2).Infof("bind: %s: no augment of %s matches, trying %s", path, targetNS, homeNS)
	}
	m := b.set.ByNamespace(homeNS)
	if m == nil {
		glog.V(2).Infof("bind: %s: no module for namespace %s", path, homeNS)
		return nil, augmented
	}
	e := yang.ToEntry(m)
	for _, seg := range segs {
		if e = dataChild(e, seg); e == nil {
			return nil, augmented
		}
	}
	return wrap(b.set, e), augmented
}

// bindAugment searches the augment targets of the module declaring ns for
// one that prefixes segs and walks the rest of the path from it.
func (b *Binder) bindAugment(segs []string, ns string) *yang.Entry {
	m := b.set.ByNamespace(ns)
	if m == nil {
		return nil
	}
	for _, aug := range m.Augment {
		target := b.augmentTarget(m, aug.Name)
		if target == nil {
			continue
		}
		base := splitPath(dataPath(target))
		if len(base) >= len(segs) || !hasPrefix(segs, base) {
			continue
		}
		e := target
		for _, seg := range segs[len(base):] {
			if e = dataChild(e, seg); e == nil {
				break
			}
		}
		if e != nil && e.Namespace().Name == ns {
			return e
		}
	}
	return nil
}

// augmentTarget resolves an absolute schema node identifier written in m.
func (b *Binder) augmentTarget(m *yang.Module, target string) *yang.Entry {
	segs := splitPath(target)
	if len(segs) == 0 {
		return nil
	}
	prefix, _ := xmlutil.SplitName(segs[0])
	tm := b.set.moduleByPrefix(m, prefix)
	if tm == nil {
		glog.V(2).Infof("bind: augment %q of %s: unknown prefix %q", target, m.Name, prefix)
		return nil
	}
	e := yang.ToEntry(tm)
	for _, seg := range segs {
		_, name := xmlutil.SplitName(seg)
		if e = schemaChild(e, name); e == nil {
			return nil
		}
	}
	return e
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func hasPrefix(segs, prefix []string) bool {
	for i := range prefix {
		if segs[i] != prefix[i] {
			return false
		}
	}
	return true
}
