// Copyright 2018 Andrew Fort

// Package schema is the YANG side of ncgen: it loads the modules an
// instance document needs, binds prefix-free instance paths to schema
// statements and extracts the constraints a parameter spec is built from.
//
// Loading
//
// Load scans every *.yang file in a directory for its namespace statement
// without parsing it. Only modules whose namespace some instance document
// declares are parsed, together with the modules they import or include.
// The parsed set is then processed as a whole so that typedef chains,
// groupings and augmentations are resolved. A file that cannot be read or
// parsed is reported as a parse-failed warning and is simply absent from
// the set.
//
// Binding
//
// A Binder resolves a path such as /interfaces/interface/name against the
// set. The namespace of the first path segment selects the home module;
// when the namespace of the full path differs, the node was injected by an
// augment and the augmenting module's augment targets are searched first.
// choice, case, input and output statements never appear in instance
// paths and are stepped through transparently.
//
// Extraction
//
//   Extract(st)
//       Follows leafref indirection to the target type, intersects the
//       range or length restrictions of the type and all of its base
//       types, collects enum symbols in declaration order and coerces
//       the declared default.
package schema
