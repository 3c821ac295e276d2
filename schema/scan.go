package schema

import (
	"github.com/golang/glog"
	"github.com/openconfig/goyang/pkg/yang"
)

// header is what a syntax-only parse learns about a YANG source before
// any module is built from it.
type header struct {
	// keyword is module or submodule
	keyword   string
	name      string
	namespace string
	// imports holds imported and included module names.
	imports []string
}

// ScanNamespace returns the argument of the top level namespace statement
// in a YANG source, or "" when there is none or the source does not parse.
func ScanNamespace(text string) string { return scan(text).namespace }

func scan(text string) header {
	var h header
	stmts, err := yang.Parse(text, "")
	if err != nil {
		glog.V(2).Infof("schema: header scan: %v", err)
		return h
	}
	if len(stmts) == 0 {
		return h
	}
	top := stmts[0]
	if top.Keyword != "module" && top.Keyword != "submodule" {
		return h
	}
	h.keyword, h.name = top.Keyword, top.Argument
	for _, s := range top.SubStatements() {
		switch s.Keyword {
		case "namespace":
			if h.namespace == "" {
				h.namespace = s.Argument
			}
		case "import", "include":
			h.imports = append(h.imports, s.Argument)
		}
	}
	return h
}
