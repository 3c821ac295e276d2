package argspec

import (
	"github.com/andaru/ncgen/instance"
	"github.com/andaru/ncgen/schema"
	"github.com/golang/glog"
)

// KeyPaths returns the path of every instance leaf that is a key of its
// enclosing list, in document order.
func KeyPaths(doc *instance.Document, b *schema.Binder) []string {
	// keys holds list key paths learned so far in this pass. A list is
	// always visited before its leaves.
	keys := map[string]bool{}
	var out []string
	for _, p := range doc.Paths() {
		if keys[p] {
			out = append(out, p)
			continue
		}
		st, _ := b.Bind(p)
		if st == nil || !st.IsList() {
			continue
		}
		for _, k := range st.Keys() {
			keys[p+"/"+k] = true
		}
	}
	glog.V(2).Infof("argspec: key paths %v", out)
	return out
}

// ListPaths returns the path of every instance node bound to a list, in
// document order.
func ListPaths(doc *instance.Document, b *schema.Binder) []string {
	var out []string
	for _, p := range doc.Paths() {
		if st, _ := b.Bind(p); st != nil && st.IsList() {
			out = append(out, p)
		}
	}
	glog.V(2).Infof("argspec: list paths %v", out)
	return out
}
