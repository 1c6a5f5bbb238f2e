// Package merge implements the three-way reconciliation of a centrally
// managed configuration with a user's locally edited copy. All entry
// points are pure functions: they never mutate their inputs and return
// freshly built trees.
package merge

import (
	"fmt"
	"strings"

	"github.com/bianoble/confsync/internal/tree"
)

// Mode selects how a specific key path is reconciled.
type Mode string

const (
	// ModeArrayUnion merges arrays as sets keyed by canonical encoding:
	// team deletions apply, user additions survive, no duplicates.
	ModeArrayUnion Mode = "array-union"

	// ModeObjectMerge recurses key by key; it is the default mode.
	ModeObjectMerge Mode = "object-merge"

	// ModeUserFirst takes the user's value verbatim.
	ModeUserFirst Mode = "user-first"

	// ModeManagedFirst force-updates unedited values; a user edit still
	// wins over the managed value.
	ModeManagedFirst Mode = "managed-first"

	// ModeReplace behaves like ModeManagedFirst at the matched path and
	// exists so rule tables can state wholesale-replacement intent.
	ModeReplace Mode = "replace"
)

// ParseMode validates a mode string from a configuration file.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeArrayUnion, ModeObjectMerge, ModeUserFirst, ModeManagedFirst, ModeReplace:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown merge mode %q — must be one of: array-union, object-merge, user-first, managed-first, replace", s)
}

// Rule associates path patterns with a merge mode. Patterns are dotted
// paths where '*' matches exactly one segment, or the whole remainder
// when it is the final segment. A pattern of exactly "*" matches every
// path and is conventionally placed last as the default.
type Rule struct {
	Patterns    []string
	Mode        Mode
	Description string
}

// Resolve scans rules top to bottom and returns the mode of the first
// pattern matching path. Unmatched paths fall through to ModeObjectMerge.
func Resolve(path tree.Path, rules []Rule) Mode {
	for _, rule := range rules {
		for _, pat := range rule.Patterns {
			if matchPattern(pat, path) {
				return rule.Mode
			}
		}
	}
	return ModeObjectMerge
}

// matchPattern matches segment by segment rather than compiling the
// pattern to a regular expression, so keys containing regex
// metacharacters (or dots, in the path itself) cannot break matching.
func matchPattern(pattern string, path tree.Path) bool {
	if pattern == "" || len(path) == 0 {
		return false
	}
	segs := strings.Split(pattern, ".")
	trailing := segs[len(segs)-1] == "*"
	if trailing {
		// The final '*' consumes one or more remaining segments.
		if len(path) < len(segs) {
			return false
		}
		segs = segs[:len(segs)-1]
	} else if len(path) != len(segs) {
		return false
	}
	for i, seg := range segs {
		if seg != "*" && seg != path[i] {
			return false
		}
	}
	return true
}
