// Package generator turns instance documents into generated client
// modules.
//
// Discover finds the full instance documents below an XML directory and
// pairs each with its examples. A Generator binds one document against a
// loaded schema, builds its parameter spec and renders the module text
// from a template: documentation and examples as YAML, the argument spec
// and lookup tables as Python literals. Run drives a whole directory and
// summarises the results.
package generator
