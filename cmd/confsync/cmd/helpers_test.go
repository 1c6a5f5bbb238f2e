package cmd

import (
	"strings"
	"testing"

	"github.com/bianoble/confsync/internal/tree"
)

func TestRenderValueTruncates(t *testing.T) {
	long := tree.String(strings.Repeat("x", 200))
	got := renderValue(long)
	if len(got) > 60 {
		t.Errorf("renderValue returned %d chars, want at most 60", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated value should end with ellipsis: %q", got)
	}
}

func TestRenderValueShort(t *testing.T) {
	got := renderValue(tree.Number(42))
	if got != "42" {
		t.Errorf("renderValue(42) = %q", got)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"one\n", 1},
		{"one\ntwo\n", 2},
		{"no trailing newline", 1},
	}

	for _, tt := range tests {
		got := splitLines(tt.in)
		if len(got) != tt.want {
			t.Errorf("splitLines(%q) = %v, want %d lines", tt.in, got, tt.want)
		}
	}
}
