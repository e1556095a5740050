package cli

import (
	"strings"
	"testing"
)

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 modules"},
		{1, "1 module"},
		{4, "4 modules"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, "module"); got != tt.want {
			t.Errorf("plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestRenderDifficulty(t *testing.T) {
	for _, label := range []string{"Beginner", "hard", "Unknown"} {
		if got := renderDifficulty(label); !strings.Contains(got, label) {
			t.Errorf("renderDifficulty(%q) = %q", label, got)
		}
	}
	if got := renderDifficulty(""); got != "" {
		t.Errorf("renderDifficulty(\"\") = %q, want empty", got)
	}
}

func TestPrintStats(t *testing.T) {
	c, out := testCLI()
	c.printStats(1, 0, 1, true)
	got := out.String()
	for _, want := range []string{"1 module", "0 connections", "1 level", "cached"} {
		if !strings.Contains(got, want) {
			t.Errorf("printStats output %q does not contain %q", got, want)
		}
	}
}
