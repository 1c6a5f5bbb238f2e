package tree

import (
	"sort"
	"strconv"
	"strings"
)

// Equal reports structural equality: arrays element-wise in order,
// objects by key set and recursively by value, ignoring key order.
// Absent values (nil) are equal only to each other.
func Equal(a, b Node) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, ae := range av {
			be, present := bv[k]
			if !present || !Equal(ae, be) {
				return false
			}
		}
		return true
	}
	return false
}

// Canonical returns a string encoding such that Canonical(a) == Canonical(b)
// iff Equal(a, b): object keys are sorted before serializing. The encoding
// is used as the set-membership key for array union merges.
func Canonical(n Node) string {
	var sb strings.Builder
	writeCanonical(&sb, n)
	return sb.String()
}

func writeCanonical(sb *strings.Builder, n Node) {
	switch v := n.(type) {
	case nil, Null:
		sb.WriteString("null")
	case Bool:
		if v {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case Number:
		f := float64(v)
		if f == 0 {
			// Collapse negative zero so Equal and Canonical agree.
			sb.WriteString("0")
			return
		}
		sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case String:
		sb.WriteString(strconv.Quote(string(v)))
	case Array:
		sb.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCanonical(sb, e)
		}
		sb.WriteByte(']')
	case Object:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteByte(':')
			writeCanonical(sb, v[k])
		}
		sb.WriteByte('}')
	}
}
