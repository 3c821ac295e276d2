package ncerr

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Markers bracketing diagnostics in text logs.
const (
	ErrorStart   = "##########NCGEN_ERROR_START##########"
	ErrorEnd     = "###########NCGEN_ERROR_END###########"
	WarningStart = "##########USER_OPERATION_WARNING_START##########"
	WarningEnd   = "###########USER_OPERATION_WARNING_END###########"
)

// List collects diagnostics in the order they were raised. The zero
// value is ready to use and read methods accept a nil *List.
type List struct {
	items []*Error
}

// Add appends errs, skipping nil values.
func (l *List) Add(errs ...*Error) {
	for _, e := range errs {
		if e != nil {
			l.items = append(l.items, e)
		}
	}
}

// Extend appends every diagnostic of o.
func (l *List) Extend(o *List) {
	if o != nil {
		l.items = append(l.items, o.items...)
	}
}

// All returns every diagnostic.
func (l *List) All() []*Error {
	if l == nil {
		return nil
	}
	return l.items
}

func (l *List) Len() int { return len(l.All()) }

// Errors returns the error severity diagnostics.
func (l *List) Errors() []*Error { return l.filter(SeverityError) }

// Warnings returns the warning severity diagnostics.
func (l *List) Warnings() []*Error { return l.filter(SeverityWarning) }

func (l *List) filter(s Severity) (out []*Error) {
	for _, e := range l.All() {
		if e.Severity == s {
			out = append(out, e)
		}
	}
	return out
}

// HasErrors reports whether any error severity diagnostic was raised.
func (l *List) HasErrors() bool { return len(l.Errors()) > 0 }

// Err returns the first error severity diagnostic, or nil.
func (l *List) Err() error {
	if errs := l.Errors(); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// WithFile sets File on every diagnostic that has none.
func (l *List) WithFile(file string) *List {
	for _, e := range l.All() {
		if e.File == "" {
			e.File = file
		}
	}
	return l
}

// WriteBlocks writes each diagnostic to w inside its severity's markers.
func (l *List) WriteBlocks(w io.Writer) error {
	for _, e := range l.All() {
		start, end := ErrorStart, ErrorEnd
		if e.Severity == SeverityWarning {
			start, end = WarningStart, WarningEnd
		}
		if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n", start, e.Error(), end); err != nil {
			return err
		}
	}
	return nil
}

var (
	errorBlock   = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(ErrorStart) + `\n?(.*?)\n?` + regexp.QuoteMeta(ErrorEnd))
	warningBlock = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(WarningStart) + `\n?(.*?)\n?` + regexp.QuoteMeta(WarningEnd))
)

// ScanBlocks recovers the bracketed error and warning texts from a log,
// dropping duplicates while keeping first-seen order.
func ScanBlocks(r io.Reader) (errs, warnings []string, err error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	return scan(errorBlock, string(b)), scan(warningBlock, string(b)), nil
}

func scan(re *regexp.Regexp, text string) (out []string) {
	seen := map[string]bool{}
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		s := strings.TrimSpace(m[1])
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
