package merge

import "github.com/bianoble/confsync/internal/tree"

// Merge reconciles three parallel trees into one:
//
//   - base is the managed tree as of the previous successful sync, or nil
//     on the very first sync,
//   - user is the document currently on disk, possibly hand-edited,
//   - managed is the document the distributor wants applied now.
//
// Managed additions and deletions since base are applied, user-introduced
// values are preserved, and the per-path mode from rules decides the rest.
// The result is a full structural clone sharing nothing with the inputs.
// Shape mismatches between the sides never fail; the mismatching side is
// treated as empty for the resolved mode's purposes.
func Merge(base, user, managed tree.Node, rules []Rule) tree.Node {
	if base == nil {
		out := mergeTwoWay(user, managed, nil, rules)
		if out == nil {
			return tree.Object{}
		}
		return out
	}
	out := merge3(base, user, managed, nil, rules)
	if out == nil {
		return tree.Object{}
	}
	return out
}

// mergeTwoWay is the first-sync bootstrap: with no base there is no
// deletion concept, so the result is the union of both sides, with the
// per-key mode deciding shared keys.
func mergeTwoWay(user, managed tree.Node, path tree.Path, rules []Rule) tree.Node {
	uObj, uIsObj := user.(tree.Object)
	mObj, mIsObj := managed.(tree.Object)

	if uIsObj || mIsObj {
		if !uIsObj {
			uObj = tree.Object{}
		}
		if !mIsObj {
			mObj = tree.Object{}
		}
		result := make(tree.Object, len(uObj)+len(mObj))
		for k, mv := range mObj {
			kp := path.Child(k)
			uv, inUser := uObj[k]
			if !inUser {
				result[k] = tree.Clone(mv)
				continue
			}
			switch Resolve(kp, rules) {
			case ModeArrayUnion:
				result[k] = mergeArrays(nil, asArray(uv), asArray(mv))
			case ModeObjectMerge:
				result[k] = mergeTwoWay(uv, mv, kp, rules)
			case ModeUserFirst:
				result[k] = tree.Clone(uv)
			default: // managed-first, replace
				result[k] = tree.Clone(mv)
			}
		}
		for k, uv := range uObj {
			if _, taken := mObj[k]; !taken {
				result[k] = tree.Clone(uv)
			}
		}
		return result
	}

	// Leaf position: scalar or array on both sides.
	switch Resolve(path, rules) {
	case ModeArrayUnion:
		return mergeArrays(nil, asArray(user), asArray(managed))
	case ModeUserFirst:
		return tree.Clone(user)
	default:
		return tree.Clone(managed)
	}
}

// merge3 merges a single value position of the steady-state walk. A nil
// argument means the key is absent on that side. A nil return means the
// key is omitted from the result.
func merge3(base, user, managed tree.Node, path tree.Path, rules []Rule) tree.Node {
	switch {
	case managed == nil && base != nil:
		// Removed by the distributor.
		if user == nil {
			return nil // both sides removed it
		}
		if tree.Equal(user, base) {
			return nil // unedited by the user: deletion applies
		}
		// Keep only what the user introduced beyond base.
		return subtractBase(user, base, path, rules)

	case managed != nil && base == nil:
		// Added by the distributor.
		if user == nil {
			return tree.Clone(managed)
		}
		// The user independently added the same key.
		return mergeModed(nil, user, managed, path, rules)

	case managed != nil:
		// Present in base and managed.
		if user == nil {
			// The user deleted a key the distributor still wants.
			return tree.Clone(managed)
		}
		return mergeModed(base, user, managed, path, rules)

	default:
		// Present only in user.
		return tree.Clone(user)
	}
}

// mergeModed reconciles one key where both user and managed define a
// value; base may be nil when the key is new on both sides.
func mergeModed(base, user, managed tree.Node, path tree.Path, rules []Rule) tree.Node {
	switch Resolve(path, rules) {
	case ModeArrayUnion:
		return mergeArrays(asArray(base), asArray(user), asArray(managed))

	case ModeUserFirst:
		return tree.Clone(user)

	case ModeManagedFirst, ModeReplace:
		if base != nil && tree.Equal(user, base) {
			return tree.Clone(managed)
		}
		// An explicit user edit is never silently clobbered.
		return tree.Clone(user)

	default: // ModeObjectMerge
		// An unedited value follows managed, whatever shape either side
		// has. This must come before the degrade-to-empty fallback below
		// so a managed type change (object to scalar) is not dropped.
		if base != nil && tree.Equal(user, base) {
			return tree.Clone(managed)
		}
		uObj, uIsObj := user.(tree.Object)
		mObj, mIsObj := managed.(tree.Object)
		if !uIsObj && !mIsObj {
			return tree.Clone(user)
		}
		if !uIsObj {
			uObj = tree.Object{}
		}
		if !mIsObj {
			mObj = tree.Object{}
		}
		bObj, _ := base.(tree.Object) // nil map when base is absent or not an object

		result := tree.Object{}
		for k := range unionKeys(bObj, uObj, mObj) {
			bv := childOrNil(bObj, k)
			uv := childOrNil(uObj, k)
			mv := childOrNil(mObj, k)
			if v := merge3(bv, uv, mv, path.Child(k), rules); v != nil {
				result[k] = v
			}
		}
		return result
	}
}

// subtractBase keeps the parts of user that do not match base: user-only
// keys survive, unmodified values are dropped. A nil return means nothing
// user-introduced remains at this position.
func subtractBase(user, base tree.Node, path tree.Path, rules []Rule) tree.Node {
	if tree.Equal(user, base) {
		return nil
	}
	uObj, uIsObj := user.(tree.Object)
	bObj, bIsObj := base.(tree.Object)
	if uIsObj && bIsObj {
		result := tree.Object{}
		for k, uv := range uObj {
			bv, inBase := bObj[k]
			if !inBase {
				result[k] = tree.Clone(uv)
				continue
			}
			if v := subtractBase(uv, bv, path.Child(k), rules); v != nil {
				result[k] = v
			}
		}
		if len(result) == 0 {
			return nil
		}
		return result
	}
	if uArr, ok := user.(tree.Array); ok && Resolve(path, rules) == ModeArrayUnion {
		// Under union semantics only the user's own entries survive a
		// wholesale deletion of the key.
		baseSet := canonSet(asArray(base))
		var custom tree.Array
		for _, e := range uArr {
			if !baseSet[tree.Canonical(e)] {
				custom = append(custom, tree.Clone(e))
			}
		}
		if len(custom) == 0 {
			return nil
		}
		return custom
	}
	return tree.Clone(user)
}

func asArray(n tree.Node) tree.Array {
	arr, _ := n.(tree.Array)
	return arr
}

func childOrNil(o tree.Object, key string) tree.Node {
	if o == nil {
		return nil
	}
	if v, ok := o[key]; ok {
		return v
	}
	return nil
}

func unionKeys(objs ...tree.Object) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, o := range objs {
		for k := range o {
			keys[k] = struct{}{}
		}
	}
	return keys
}
