package schema

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/openconfig/goyang/pkg/yang"
	"github.com/pkg/errors"
)

// Bound is one end of a restriction interval. Integer restrictions span
// int64 and uint64, so the magnitude and sign are kept apart.
type Bound struct {
	Neg bool
	Abs uint64
}

// Int returns a Bound for v.
func Int(v int64) Bound {
	if v < 0 {
		return Bound{Neg: true, Abs: uint64(-(v + 1)) + 1}
	}
	return Bound{Abs: uint64(v)}
}

// Uint returns a Bound for v.
func Uint(v uint64) Bound { return Bound{Abs: v} }

// ParseBound parses a decimal integer such as -128 or 18446744073709551615.
func ParseBound(s string) (Bound, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	abs, err := strconv.ParseUint(strings.TrimPrefix(s, "-"), 10, 64)
	if err != nil {
		return Bound{}, errors.Wrapf(err, "bad bound %q", s)
	}
	return Bound{Neg: neg && abs != 0, Abs: abs}, nil
}

func (b Bound) String() string {
	if b.Neg {
		return "-" + strconv.FormatUint(b.Abs, 10)
	}
	return strconv.FormatUint(b.Abs, 10)
}

// Cmp returns -1, 0 or +1 as b is less than, equal to or greater than o.
func (b Bound) Cmp(o Bound) int {
	switch {
	case b.Neg && !o.Neg:
		return -1
	case !b.Neg && o.Neg:
		return 1
	case b.Abs == o.Abs:
		return 0
	case (b.Abs < o.Abs) != b.Neg:
		return -1
	}
	return 1
}

// next returns b+1; ok is false at the uint64 ceiling.
func (b Bound) next() (Bound, bool) {
	switch {
	case b.Neg && b.Abs == 1:
		return Bound{}, true
	case b.Neg:
		return Bound{Neg: true, Abs: b.Abs - 1}, true
	case b.Abs == math.MaxUint64:
		return b, false
	}
	return Bound{Abs: b.Abs + 1}, true
}

// Interval is a closed interval [Min, Max].
type Interval struct {
	Min, Max Bound
}

// Span returns the interval [lo, hi].
func Span(lo, hi int64) Interval { return Interval{Min: Int(lo), Max: Int(hi)} }

func (i Interval) String() string { return "(" + i.Min.String() + ", " + i.Max.String() + ")" }

// Intervals is a sorted union of disjoint closed intervals.
type Intervals []Interval

func (is Intervals) String() string {
	parts := make([]string, len(is))
	for n, i := range is {
		parts[n] = i.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Union returns is normalised: sorted, with overlapping or adjacent
// intervals merged and inverted ones dropped.
func Union(is ...Interval) Intervals {
	var in []Interval
	for _, i := range is {
		if i.Min.Cmp(i.Max) <= 0 {
			in = append(in, i)
		}
	}
	if len(in) == 0 {
		return nil
	}
	sort.Slice(in, func(a, b int) bool { return in[a].Min.Cmp(in[b].Min) < 0 })
	out := Intervals{in[0]}
	for _, i := range in[1:] {
		last := &out[len(out)-1]
		if next, ok := last.Max.next(); !ok || i.Min.Cmp(next) <= 0 {
			if i.Max.Cmp(last.Max) > 0 {
				last.Max = i.Max
			}
			continue
		}
		out = append(out, i)
	}
	return out
}

// Intersect intersects every interval given, each taken as its own layer.
// The result is independent of argument order.
func Intersect(is ...Interval) Intervals {
	layers := make([]Intervals, len(is))
	for n, i := range is {
		layers[n] = Intervals{i}
	}
	out, _ := IntersectLayers(layers...)
	return out
}

// IntersectLayers intersects restriction layers, each a union of
// intervals. ok is false when the layers have no value in common.
func IntersectLayers(layers ...Intervals) (out Intervals, ok bool) {
	if len(layers) == 0 {
		return nil, true
	}
	out = Union(layers[0]...)
	for _, layer := range layers[1:] {
		var next []Interval
		for _, a := range out {
			for _, b := range Union(layer...) {
				lo, hi := a.Min, a.Max
				if b.Min.Cmp(lo) > 0 {
					lo = b.Min
				}
				if b.Max.Cmp(hi) < 0 {
					hi = b.Max
				}
				if lo.Cmp(hi) <= 0 {
					next = append(next, Interval{Min: lo, Max: hi})
				}
			}
		}
		if out = Union(next...); out == nil {
			return nil, false
		}
	}
	return out, true
}

// builtinRange is the value space of each YANG integer type.
var builtinRange = map[yang.TypeKind]Interval{
	yang.Yint8:   {Min: Int(math.MinInt8), Max: Int(math.MaxInt8)},
	yang.Yint16:  {Min: Int(math.MinInt16), Max: Int(math.MaxInt16)},
	yang.Yint32:  {Min: Int(math.MinInt32), Max: Int(math.MaxInt32)},
	yang.Yint64:  {Min: Int(math.MinInt64), Max: Int(math.MaxInt64)},
	yang.Yuint8:  {Min: Uint(0), Max: Uint(math.MaxUint8)},
	yang.Yuint16: {Min: Uint(0), Max: Uint(math.MaxUint16)},
	yang.Yuint32: {Min: Uint(0), Max: Uint(math.MaxUint32)},
	yang.Yuint64: {Min: Uint(0), Max: Uint(math.MaxUint64)},
}

// lengthRange is the value space of a length restriction.
var lengthRange = Interval{Min: Uint(0), Max: Uint(math.MaxUint64)}

// IsInteger reports whether k is one of the eight YANG integer types.
func IsInteger(k yang.TypeKind) bool {
	_, ok := builtinRange[k]
	return ok
}

// layer converts a goyang range to intervals. Unparsable ends, such as
// decimal64 values, make the whole layer unusable.
func layer(r yang.YangRange, kind yang.TypeKind) (Intervals, bool) {
	var out []Interval
	full, ok := builtinRange[kind]
	if !ok {
		full = lengthRange
	}
	for _, yr := range r {
		lo, err := rangeBound(yr.Min.String(), full)
		if err != nil {
			return nil, false
		}
		hi, err := rangeBound(yr.Max.String(), full)
		if err != nil {
			return nil, false
		}
		out = append(out, Interval{Min: lo, Max: hi})
	}
	return Union(out...), len(out) > 0
}

func rangeBound(s string, full Interval) (Bound, error) {
	switch s {
	case "min":
		return full.Min, nil
	case "max":
		return full.Max, nil
	}
	return ParseBound(s)
}

// typeChain returns t followed by the types it derives from.
func typeChain(t *yang.YangType) []*yang.YangType {
	var out []*yang.YangType
	seen := map[*yang.YangType]bool{}
	for t != nil && !seen[t] {
		seen[t] = true
		out = append(out, t)
		if t.Base == nil {
			break
		}
		t = t.Base.YangType
	}
	return out
}

// restriction intersects the range (integers) or length (strings) layers
// of t and its base types. ok is false for an empty intersection.
func restriction(t *yang.YangType, length bool) (Intervals, bool) {
	var layers []Intervals
	if !length {
		layers = append(layers, Intervals{builtinRange[t.Kind]})
	}
	for _, yt := range typeChain(t) {
		r := yt.Range
		if length {
			r = yt.Length
		}
		l, ok := layer(r, t.Kind)
		if !ok || (length && len(l) == 1 && l[0] == lengthRange) {
			continue
		}
		layers = append(layers, l)
	}
	if len(layers) == 0 {
		return nil, true
	}
	return IntersectLayers(layers...)
}

// Value returns b as an int64 when negative, else as a uint64.
func (b Bound) Value() interface{} {
	if b.Neg {
		return -int64(b.Abs-1) - 1
	}
	return b.Abs
}

// Pairs returns the intervals as [min, max] pairs.
func (is Intervals) Pairs() [][]interface{} {
	out := make([][]interface{}, len(is))
	for n, i := range is {
		out[n] = []interface{}{i.Min.Value(), i.Max.Value()}
	}
	return out
}

// MarshalYAML renders the intervals as a sequence of [min, max] pairs.
func (is Intervals) MarshalYAML() (interface{}, error) { return is.Pairs(), nil }

// MarshalJSON renders the intervals as an array of [min, max] pairs.
func (is Intervals) MarshalJSON() ([]byte, error) { return json.Marshal(is.Pairs()) }
