// Package argspec turns an instance document bound to YANG into the
// parameter spec of a generated module: an ordered tree of options, each
// either a nested dict or list of dicts or a typed leaf.
package argspec
