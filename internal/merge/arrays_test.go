package merge

import (
	"testing"

	"github.com/bianoble/confsync/internal/tree"
)

func strs(ss ...string) tree.Array {
	out := make(tree.Array, len(ss))
	for i, s := range ss {
		out[i] = tree.String(s)
	}
	return out
}

func TestMergeArraysTeamDeletionApplies(t *testing.T) {
	got := mergeArrays(strs("a", "b"), strs("a", "b"), strs("a"))
	if !tree.Equal(got, strs("a")) {
		t.Errorf("got %s, want [a]", tree.Canonical(got))
	}
}

func TestMergeArraysUserAdditionSurvives(t *testing.T) {
	got := mergeArrays(strs("a"), strs("a", "custom"), strs("a", "team"))
	if !tree.Equal(got, strs("a", "team", "custom")) {
		t.Errorf("got %s, want managed order then user customs", tree.Canonical(got))
	}
}

func TestMergeArraysNoDuplicates(t *testing.T) {
	got := mergeArrays(nil, strs("x", "y"), strs("y", "x", "y"))
	if !tree.Equal(got, strs("y", "x")) {
		t.Errorf("got %s, want deduplicated [y x]", tree.Canonical(got))
	}
}

func TestMergeArraysStructuredEntriesComparedByValue(t *testing.T) {
	entryA := tree.Object{"host": tree.String("a"), "port": tree.Number(1)}
	entryAReordered := tree.Object{"port": tree.Number(1), "host": tree.String("a")}
	entryB := tree.Object{"host": tree.String("b")}

	got := mergeArrays(
		tree.Array{entryA},
		tree.Array{entryAReordered, entryB},
		tree.Array{entryA},
	)
	want := tree.Array{entryA, entryB}
	if !tree.Equal(got, want) {
		t.Errorf("got %s, want %s", tree.Canonical(got), tree.Canonical(want))
	}
}

func TestMergeArraysUserRemovalOfTeamEntryIsReintroduced(t *testing.T) {
	// The user removed "b" but the team still ships it: the union keeps
	// it (the conflict detector flags this case separately).
	got := mergeArrays(strs("a", "b"), strs("a"), strs("a", "b"))
	if !tree.Equal(got, strs("a", "b")) {
		t.Errorf("got %s, want [a b]", tree.Canonical(got))
	}
}

func TestMergeArraysNilSides(t *testing.T) {
	if got := mergeArrays(nil, nil, nil); len(got) != 0 {
		t.Errorf("all-nil union should be empty, got %s", tree.Canonical(got))
	}
	got := mergeArrays(nil, strs("mine"), nil)
	if !tree.Equal(got, strs("mine")) {
		t.Errorf("got %s, want [mine]", tree.Canonical(got))
	}
}
