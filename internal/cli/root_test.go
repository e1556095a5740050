package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/prepdeck/prepdeck/pkg/buildinfo"
)

const courseJSON = `{
  "golang": {
    "title": "Go Programming",
    "modules": [
      {"id": 1, "title": "Basics", "difficulty": "Beginner"},
      {"id": 2, "title": "Concurrency", "prerequisites": [1], "difficulty": "Intermediate"},
      {"id": 3, "title": "Testing", "prerequisites": [1]},
      {"id": 4, "title": "Services", "prerequisites": [2, 3], "difficulty": "Advanced"}
    ]
  }
}`

// testEnv is a workspace with a config file pointing the cache and the
// course store into a temporary directory.
type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	t.Setenv("PREPDECK_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	dir := t.TempDir()
	cfg := fmt.Sprintf("[cache]\ndir = '%s'\n\n[store]\ndir = '%s'\n",
		filepath.Join(dir, "cache"), filepath.Join(dir, "courses"))
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}
	return testEnv{dir: dir, config: path}
}

// writeCourse writes the sample course and returns its path.
func (e testEnv) writeCourse(t *testing.T) string {
	t.Helper()
	path := filepath.Join(e.dir, "golang.json")
	if err := os.WriteFile(path, []byte(courseJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the root command with args and returns its output.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.SetOutput(&out)

	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", e.config}, args...))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	if root.Use != appName {
		t.Errorf("Use = %q, want %q", root.Use, appName)
	}
	if root.Version != buildinfo.Version {
		t.Errorf("Version = %q, want %q", root.Version, buildinfo.Version)
	}

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{
		"roadmap", "generate", "courses", "explain", "browse",
		"categories", "questions", "evaluate", "practice",
		"serve", "cache", "config", "completion",
	} {
		if !slices.Contains(names, want) {
			t.Errorf("missing subcommand %q (have %v)", want, names)
		}
	}
}

func TestVerboseFlag(t *testing.T) {
	e := newTestEnv(t)
	c := New(io.Discard, LogInfo)
	c.SetOutput(io.Discard)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", e.config, "-v", "categories"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %v, want %v", c.Logger.GetLevel(), LogDebug)
	}
}

func TestUnknownConfigKeyFails(t *testing.T) {
	e := newTestEnv(t)
	if err := os.WriteFile(e.config, []byte("[server]\nport = 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := e.run(t, "config", "show"); err == nil {
		t.Error("config show with unknown key: error = nil")
	}
}
