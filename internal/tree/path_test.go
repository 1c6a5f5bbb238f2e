package tree

import "testing"

func TestPathFormatBareSegments(t *testing.T) {
	p := Path{"permissions", "allow"}
	if got := p.Format(); got != "permissions.allow" {
		t.Errorf("Format = %q, want %q", got, "permissions.allow")
	}
}

func TestPathFormatQuotesSpecialSegmentsIndependently(t *testing.T) {
	cases := []struct {
		path Path
		want string
	}{
		{Path{"projects", "/Users/me/project", "trust_level"}, `projects["/Users/me/project"].trust_level`},
		{Path{"a.b", "c"}, `["a.b"].c`},
		{Path{"servers", "api[0]"}, `servers["api[0]"]`},
		{Path{"", "x"}, `[""].x`},
		{Path{"9lives"}, `["9lives"]`},
		{Path{"_ok", "also_ok9"}, "_ok.also_ok9"},
	}
	for _, tc := range cases {
		if got := tc.path.Format(); got != tc.want {
			t.Errorf("Format(%v) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestPathKeyDistinguishesDottedSegments(t *testing.T) {
	// "a.b" as one raw segment must not collide with segments "a", "b".
	joined := Path{"a.b"}.Key()
	split := Path{"a", "b"}.Key()
	if joined == split {
		t.Errorf("Key collision: %q vs %q", joined, split)
	}
}

func TestPathChildDoesNotAliasParent(t *testing.T) {
	parent := Path{"root"}
	c1 := parent.Child("one")
	c2 := parent.Child("two")
	if c1[1] != "one" || c2[1] != "two" {
		t.Errorf("sibling child paths interfered: %v, %v", c1, c2)
	}
	if len(parent) != 1 {
		t.Errorf("parent mutated by Child: %v", parent)
	}
}
