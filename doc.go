/*
Package ncgen generates NETCONF client modules from a YANG schema corpus
and sample instance documents.

Each instance document (an edit-config <config>, a get or get-config
<filter>, or an <rpc>) names a subset of schema nodes. The generator
resolves every node's namespace from the document's declarations, binds
it to its schema statement, across augmentations and through choice,
case, input and output wrappers, and extracts the node's type and
constraints. The results fold into a parameter spec from which the
module's documentation, examples and argument validation schema are
rendered.

Packages, leaves first: xmlutil and ncerr (XML names, diagnostics),
instance (instance trees and namespace resolution), schema (module
loading, binding and constraint extraction), argspec (parameter specs)
and generator (module rendering and batch runs). The ncgen command
lives in cmd/ncgen.
*/
package ncgen
