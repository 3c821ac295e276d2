package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andaru/ncgen/argspec"
	"github.com/andaru/ncgen/instance"
	"github.com/andaru/ncgen/schema"
	"github.com/pkg/errors"
)

// pyLiteral renders v as a Python literal. Maps keep their key order.
func pyLiteral(v interface{}) (string, error) {
	var b strings.Builder
	if err := writePy(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writePy(b *strings.Builder, v interface{}) error {
	switch v := v.(type) {
	case nil:
		b.WriteString("None")
	case *argspec.Map:
		b.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(pyString(k))
			b.WriteString(": ")
			val, _ := v.Get(k)
			if err := writePy(b, val); err != nil {
				return errors.Wrapf(err, "key %s", k)
			}
		}
		b.WriteByte('}')
	case string:
		b.WriteString(pyString(v))
	case bool:
		if v {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case int:
		b.WriteString(strconv.Itoa(v))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case uint64:
		b.WriteString(strconv.FormatUint(v, 10))
	case schema.Intervals:
		b.WriteString(v.String())
	case []string:
		return writePyList(b, len(v), func(i int) interface{} { return v[i] })
	case []bool:
		return writePyList(b, len(v), func(i int) interface{} { return v[i] })
	case []interface{}:
		return writePyList(b, len(v), func(i int) interface{} { return v[i] })
	case []instance.OperationSpec:
		return writePyList(b, len(v), func(i int) interface{} {
			return argspec.NewMap().Set("path", v[i].Path).Set("operation", v[i].Operation)
		})
	default:
		return errors.Errorf("no Python literal for %T", v)
	}
	return nil
}

func writePyList(b *strings.Builder, n int, at func(int) interface{}) error {
	b.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := writePy(b, at(i)); err != nil {
			return errors.Wrapf(err, "item %d", i)
		}
	}
	b.WriteByte(']')
	return nil
}

// pyString quotes s the way Python's repr does for plain text.
func pyString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('\'')
	return b.String()
}
