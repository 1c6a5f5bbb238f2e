package merge

import "github.com/bianoble/confsync/internal/tree"

// HasUserConflicts reports whether writing merged would overwrite or
// reintroduce something the user deliberately changed, in which case the
// caller should ask for confirmation before committing the result.
//
// Only leaf paths present in managed are examined — conflicts are only
// meaningful where the distributor has an opinion. The walk stops at the
// first conflict; callers needing the full list use the change
// calculator instead.
func HasUserConflicts(base, user, managed, merged tree.Node, rules []Rule) bool {
	return conflictAt(base, user, managed, merged, nil, rules, base == nil)
}

func conflictAt(base, user, managed, merged tree.Node, path tree.Path, rules []Rule, firstSync bool) bool {
	if mObj, ok := managed.(tree.Object); ok {
		for k, mv := range mObj {
			bv := fieldOrNil(base, k)
			uv := fieldOrNil(user, k)
			mgv := fieldOrNil(merged, k)
			if conflictAt(bv, uv, mv, mgv, path.Child(k), rules, firstSync) {
				return true
			}
		}
		return false
	}

	if Resolve(path, rules) == ModeArrayUnion {
		return arrayConflict(asArray(base), asArray(user), asArray(managed), asArray(merged))
	}

	if firstSync {
		// With no base there is no edit history: flag only genuine
		// disagreement between the user's value and the managed one.
		return user != nil && !tree.Equal(user, managed)
	}

	// The user modified, added, or removed the value relative to base,
	// and the merge is about to change what they currently have.
	if tree.Equal(user, base) {
		return false
	}
	return !tree.Equal(merged, user)
}

// arrayConflict applies the union-specific rules: dropping an entry the
// user currently has, or reintroducing an entry the user removed while
// the team kept it, is a conflict. Plain additions on either side never
// are.
func arrayConflict(base, user, managed, merged tree.Array) bool {
	mergedSet := canonSet(merged)
	for _, e := range user {
		if !mergedSet[tree.Canonical(e)] {
			return true
		}
	}

	userSet := canonSet(user)
	managedSet := canonSet(managed)
	for _, e := range base {
		c := tree.Canonical(e)
		if !userSet[c] && managedSet[c] && mergedSet[c] {
			return true
		}
	}
	return false
}

func fieldOrNil(n tree.Node, key string) tree.Node {
	obj, ok := n.(tree.Object)
	if !ok {
		return nil
	}
	if v, present := obj[key]; present {
		return v
	}
	return nil
}
