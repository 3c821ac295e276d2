package ncerr

import (
	"bytes"
	"errors"
	"fmt"
)

// Type is the pipeline stage a diagnostic was raised in
type Type int

const (
	// TypeSchema is raised while loading the YANG schema corpus
	TypeSchema Type = iota
	// TypeInstance is raised while reading an instance document
	TypeInstance
	// TypeBinding is raised while binding instance paths to schema nodes
	TypeBinding
	// TypeOutput is raised while rendering or writing a generated module
	TypeOutput
)

func (t Type) String() string {
	switch t {
	case TypeSchema:
		return "schema"
	case TypeInstance:
		return "instance"
	case TypeBinding:
		return "binding"
	case TypeOutput:
		return "output"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

func (t *Type) UnmarshalText(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "schema":
		*t = TypeSchema
	case "instance":
		*t = TypeInstance
	case "binding":
		*t = TypeBinding
	case "output":
		*t = TypeOutput
	default:
		return errors.New("unknown value")
	}
	return nil
}

func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Severity of a diagnostic
type Severity int

const (
	// SeverityError fails generation of the file it was raised for
	SeverityError Severity = iota
	// SeverityWarning drops a node or an example and generation continues
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return errors.New("unknown value")
	}
	return nil
}

// Error is a single generator diagnostic.
type Error struct {
	Type     Type       `json:"type"`
	Tag      string     `json:"tag"`
	Severity Severity   `json:"severity"`
	File     string     `json:"file,omitempty"`
	Path     string     `json:"path,omitempty"`
	Message  string     `json:"message,omitempty"`
	Info     *errorInfo `json:"info,omitempty"`
}

type errorInfo struct {
	BadElement   string `json:"bad-element,omitempty"`
	BadNamespace string `json:"bad-namespace,omitempty"`
}

func (e Error) Error() string {
	s := fmt.Sprintf("%s %s tag:%s", e.Type, e.Severity, e.Tag)
	if e.File != "" {
		s += " file:" + e.File
	}
	if e.Path != "" {
		s += " path:" + e.Path
	}
	if info := e.Info; info != nil {
		if info.BadElement != "" {
			s += " bad-element:" + info.BadElement
		}
		if info.BadNamespace != "" {
			s += " bad-namespace:" + info.BadNamespace
		}
	}
	if e.Message != "" {
		s += " " + e.Message
	}
	return s
}

// newError applies the constructor's defaults and then the caller's
// options to a new Error.
func newError(tag string, defaults []Option, opts []Option) *Error {
	e := &Error{Tag: tag}
	for _, opt := range append(defaults, opts...) {
		opt(e)
	}
	return e
}

// UnknownElement reports an instance node that no loaded module declares.
func UnknownElement(path string, opts ...Option) *Error {
	return newError("unknown-element",
		[]Option{WithType(TypeBinding), WithSeverity(SeverityWarning), WithPath(path)}, opts)
}

// UnknownNamespace reports an instance path whose namespace cannot be resolved
// to a loaded module.
func UnknownNamespace(path, namespace string, opts ...Option) *Error {
	return newError("unknown-namespace",
		[]Option{WithType(TypeBinding), WithSeverity(SeverityWarning), WithPath(path), WithBadNamespace(namespace)}, opts)
}

// NotConfigurable reports a config false node found in a config instance.
func NotConfigurable(path string, opts ...Option) *Error {
	return newError("not-configurable",
		[]Option{WithType(TypeBinding), WithSeverity(SeverityWarning), WithPath(path)}, opts)
}

// MalformedMessage reports an instance document that is not well formed or
// has no recognised envelope.
func MalformedMessage(opts ...Option) *Error {
	e := newError("malformed-message", []Option{WithType(TypeInstance)}, opts)
	// severity must be error for malformed-message
	e.Severity = SeverityError
	return e
}

// NotSubset reports an example document that is not a structural subset
// of its full instance document.
func NotSubset(example string, opts ...Option) *Error {
	return newError("not-subset",
		[]Option{WithType(TypeInstance), WithSeverity(SeverityWarning), WithFile(example), WithBadElement(example)}, opts)
}

// MissingModule reports a namespace with no loaded module.
func MissingModule(namespace string, opts ...Option) *Error {
	return newError("missing-module",
		[]Option{WithType(TypeSchema), WithSeverity(SeverityWarning), WithBadNamespace(namespace)}, opts)
}

// ParseFailed reports a schema file that could not be read or parsed.
func ParseFailed(file string, opts ...Option) *Error {
	return newError("parse-failed",
		[]Option{WithType(TypeSchema), WithSeverity(SeverityWarning), WithFile(file)}, opts)
}

// EmptyRestriction reports restriction layers with no common value.
func EmptyRestriction(path string, opts ...Option) *Error {
	return newError("empty-restriction",
		[]Option{WithType(TypeBinding), WithSeverity(SeverityWarning), WithPath(path)}, opts)
}

// OperationFailed reports a module that could not be produced.
func OperationFailed(opts ...Option) *Error {
	return newError("operation-failed", []Option{WithType(TypeOutput), WithSeverity(SeverityError)}, opts)
}
