// Package diff computes a leaf-level change list between two
// configuration trees, used for human-facing previews of what a sync
// will do. It is independent of the merge algorithm.
package diff

import (
	"sort"

	"github.com/bianoble/confsync/internal/tree"
)

// Type classifies a single change.
type Type string

const (
	Added    Type = "added"
	Removed  Type = "removed"
	Modified Type = "modified"
)

// Change describes one leaf-level difference. Path is the human-readable
// escaped form (see tree.Path.Format) and is display-only; it must never
// be used for lookup.
type Change struct {
	Type Type
	Path string
	Old  tree.Node // set for removed and modified
	New  tree.Node // set for added and modified
}

type leaf struct {
	path  tree.Path
	value tree.Node
}

// Calculate diffs two trees at leaf granularity. A leaf is any value
// that is not an object — arrays and scalars — so a changed leaf is
// reported once instead of at every ancestor. A nil old tree reports
// every leaf of new as added. The result ordering is deterministic:
// additions and modifications in new's path order, then removals.
func Calculate(oldTree, newTree tree.Node) []Change {
	newLeaves := flatten(newTree)
	oldLeaves := flatten(oldTree)

	oldByKey := make(map[string]leaf, len(oldLeaves))
	for _, l := range oldLeaves {
		oldByKey[l.path.Key()] = l
	}
	newKeys := make(map[string]bool, len(newLeaves))

	var changes []Change
	for _, l := range newLeaves {
		key := l.path.Key()
		newKeys[key] = true
		prev, existed := oldByKey[key]
		switch {
		case !existed:
			changes = append(changes, Change{Type: Added, Path: l.path.Format(), New: l.value})
		case !tree.Equal(prev.value, l.value):
			changes = append(changes, Change{Type: Modified, Path: l.path.Format(), Old: prev.value, New: l.value})
		}
	}
	for _, l := range oldLeaves {
		if !newKeys[l.path.Key()] {
			changes = append(changes, Change{Type: Removed, Path: l.path.Format(), Old: l.value})
		}
	}
	return changes
}

// flatten lists a tree's leaves sorted by path.
func flatten(n tree.Node) []leaf {
	var leaves []leaf
	collect(n, nil, &leaves)
	sort.Slice(leaves, func(i, j int) bool {
		return leaves[i].path.Key() < leaves[j].path.Key()
	})
	return leaves
}

func collect(n tree.Node, path tree.Path, out *[]leaf) {
	if n == nil {
		return
	}
	obj, isObj := n.(tree.Object)
	if !isObj {
		*out = append(*out, leaf{path: path, value: n})
		return
	}
	for k, v := range obj {
		collect(v, path.Child(k), out)
	}
}
