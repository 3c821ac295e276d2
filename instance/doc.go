// Package instance reads NETCONF instance documents: an edit-config
// <config>, a get or get-config <filter>, or a bare <rpc> body.
//
// The document is decoded once into a tree whose node kind (leaf,
// container or repeated) is fixed at parse time. Element names keep the
// raw prefix they were written with, so the XMLNS info table built from
// the tree can answer which namespace governs every prefix-free path:
//
//   doc, err := instance.Parse(r)
//   ns := doc.Table().Resolve("/interfaces/interface/name")
//
// Resolution walks towards the root. A node without its own declaration
// inherits from its parent, and a node written with a prefix carries that
// prefix upward until an ancestor declares it. The root path always
// resolves to the NETCONF base namespace.
package instance
