package ncerr

// Option is an Error option function
type Option func(*Error)

func WithMessage(msg string) Option  { return func(e *Error) { e.Message = msg } }
func WithType(t Type) Option         { return func(e *Error) { e.Type = t } }
func WithFile(file string) Option    { return func(e *Error) { e.File = file } }
func WithPath(path string) Option    { return func(e *Error) { e.Path = path } }
func WithSeverity(s Severity) Option { return func(e *Error) { e.Severity = s } }

func WithBadElement(elem string) Option {
	return func(e *Error) {
		if e.Info == nil {
			e.Info = &errorInfo{}
		}
		e.Info.BadElement = elem
	}
}

func WithBadNamespace(ns string) Option {
	return func(e *Error) {
		if e.Info == nil {
			e.Info = &errorInfo{}
		}
		e.Info.BadNamespace = ns
	}
}
