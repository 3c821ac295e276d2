package instance

// OperationSpec is an operation attribute lifted from an instance
// document, e.g. nc:operation="merge".
type OperationSpec struct {
	Path      string `json:"path"`
	Operation string `json:"operation"`
}

// Operations returns every operation attribute below the business root in
// document order. Paths are prefix-free and start with the root's name,
// e.g. /config/interfaces/interface.
func (d *Document) Operations() []OperationSpec {
	var out []OperationSpec
	d.Root.Walk(func(p, _ string, n *Node) {
		if op, ok := n.Attr("operation"); ok {
			out = append(out, OperationSpec{Path: "/" + d.Root.Name + p, Operation: op})
		}
	})
	return out
}

// Paths returns every distinct prefix-free element path below the business
// root in document order.
func (d *Document) Paths() []string {
	var out []string
	seen := map[string]bool{}
	d.Root.Walk(func(p, _ string, _ *Node) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	})
	return out
}

// IsSubset reports whether example is a structural subset of full: both
// select the same operation and every element path of example also occurs
// in full. Attributes and text are ignored.
func IsSubset(example, full *Document) bool {
	if example == nil || full == nil || example.Operation != full.Operation {
		return false
	}
	have := map[string]bool{}
	for _, p := range full.Paths() {
		have[p] = true
	}
	for _, p := range example.Paths() {
		if !have[p] {
			return false
		}
	}
	return true
}
