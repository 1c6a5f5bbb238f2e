package merge

import "github.com/bianoble/confsync/internal/tree"

// mergeArrays computes the three-way union of ordered lists. Membership
// is decided by canonical structural encoding, never by index:
//
//   - entries present in base but gone from managed were deleted by the
//     team and stay gone,
//   - entries the user added independently (absent from base) survive,
//   - the result lists managed's entries first, then user customs, with
//     duplicates removed (first occurrence wins).
//
// A nil side behaves as an empty list, so shape mismatches degrade
// instead of failing.
func mergeArrays(base, user, managed tree.Array) tree.Array {
	baseSet := canonSet(base)

	result := make(tree.Array, 0, len(managed)+len(user))
	seen := make(map[string]struct{}, len(managed)+len(user))

	for _, e := range managed {
		c := tree.Canonical(e)
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		result = append(result, tree.Clone(e))
	}

	for _, e := range user {
		c := tree.Canonical(e)
		if baseSet[c] {
			// Inherited from base: either managed still has it (already
			// included above) or the team deleted it.
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		result = append(result, tree.Clone(e))
	}

	return result
}

func canonSet(arr tree.Array) map[string]bool {
	set := make(map[string]bool, len(arr))
	for _, e := range arr {
		set[tree.Canonical(e)] = true
	}
	return set
}
