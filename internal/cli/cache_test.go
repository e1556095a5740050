package cli

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestCachePath(t *testing.T) {
	e := newTestEnv(t)
	out, err := e.run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got, want := strings.TrimSpace(out), filepath.Join(e.dir, "cache"); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClear(t *testing.T) {
	e := newTestEnv(t)

	out, err := e.run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("empty cache clear output = %q", out)
	}

	path := e.writeCourse(t)
	if _, err := e.run(t, "roadmap", path, "-o", filepath.Join(e.dir, "out.svg")); err != nil {
		t.Fatalf("roadmap: %v", err)
	}

	// One layout and one SVG artifact.
	out, err = e.run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 2 cached entries") {
		t.Errorf("cache clear output = %q, want 2 entries cleared", out)
	}

	out, err = e.run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 0 cached entries") {
		t.Errorf("second cache clear output = %q", out)
	}
}
