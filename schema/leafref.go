package schema

import (
	"regexp"
	"strings"

	"github.com/andaru/ncgen/xmlutil"
	"github.com/golang/glog"
	"github.com/openconfig/goyang/pkg/yang"
)

// maxLeafrefDepth bounds leafref chains; a longer chain is a cycle.
const maxLeafrefDepth = 16

var predicate = regexp.MustCompile(`\[[^\]]*\]`)

// leafrefTarget returns the leaf a leafref path of e points to, or nil.
func (s *ModuleSet) leafrefTarget(e *yang.Entry, path string) *yang.Entry {
	path = strings.TrimSpace(predicate.ReplaceAllString(path, ""))
	if path == "" {
		return nil
	}
	var mod *yang.Module
	if e.Node != nil {
		mod = yang.RootNode(e.Node)
	}

	cur := e
	segs := strings.Split(path, "/")
	if strings.HasPrefix(path, "/") {
		segs = segs[1:]
		if len(segs) == 0 {
			return nil
		}
		prefix, _ := xmlutil.SplitName(segs[0])
		m := s.moduleByPrefix(mod, prefix)
		if m == nil {
			glog.V(2).Infof("schema: leafref %q: unknown prefix %q", path, prefix)
			return nil
		}
		cur = yang.ToEntry(m)
	}
	for _, seg := range segs {
		switch seg {
		case "", ".":
		case "..":
			cur = dataParentEntry(cur)
		default:
			_, name := xmlutil.SplitName(seg)
			cur = dataChild(cur, name)
		}
		if cur == nil {
			glog.V(2).Infof("schema: leafref %q of %s does not resolve", path, dataPath(e))
			return nil
		}
	}
	return cur
}

// resolveLeafref follows leafref indirection from e to the final leaf.
func (s *ModuleSet) resolveLeafref(e *yang.Entry) *yang.Entry {
	for i := 0; i < maxLeafrefDepth; i++ {
		if e.Type == nil || e.Type.Kind != yang.Yleafref {
			return e
		}
		t := s.leafrefTarget(e, e.Type.Path)
		if t == nil {
			return e
		}
		e = t
	}
	return e
}

// dataParentEntry returns the closest ancestor of e present in data
// paths; the module entry above top level nodes.
func dataParentEntry(e *yang.Entry) *yang.Entry {
	for p := e.Parent; p != nil; p = p.Parent {
		if !transparent(p) {
			return p
		}
	}
	return nil
}
