package tree

import (
	"strconv"
	"strings"
)

// Path locates a value inside a configuration tree as an ordered list of
// raw key segments. Segments are never escaped or pre-joined, so keys
// containing '.', '[', or any other punctuation are handled correctly.
type Path []string

// keySeparator joins segments into an opaque lookup key. The unit
// separator control character cannot appear in real document keys
// produced by any supported format's sensible usage.
const keySeparator = "\x1f"

// Child returns a new path with seg appended. The receiver is not
// modified and no backing storage is shared.
func (p Path) Child(seg string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// Key returns an opaque string usable as a map key. It is distinct from
// the display form and must never be shown to users.
func (p Path) Key() string {
	return strings.Join(p, keySeparator)
}

// Format renders the path for human display: identifier-safe segments are
// joined with dots, anything else is bracket-quoted independently, e.g.
//
//	projects["/home/me/project"].trust_level
//
// The result is display-only and must never be used for lookup.
func (p Path) Format() string {
	var sb strings.Builder
	for i, seg := range p {
		if bareIdentifier(seg) {
			if i > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(seg)
			continue
		}
		sb.WriteByte('[')
		sb.WriteString(strconv.Quote(seg))
		sb.WriteByte(']')
	}
	return sb.String()
}

func bareIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
