package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/prepdeck/prepdeck/pkg/cache"
	"github.com/prepdeck/prepdeck/pkg/course"
	errs "github.com/prepdeck/prepdeck/pkg/errors"
	"github.com/prepdeck/prepdeck/pkg/generate"
	"github.com/prepdeck/prepdeck/pkg/render"
	"github.com/prepdeck/prepdeck/pkg/render/sink"
	"github.com/prepdeck/prepdeck/pkg/roadmap"
	"github.com/prepdeck/prepdeck/pkg/store"
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

func writeCourse(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "golang.json")
	if err := os.WriteFile(path, []byte(courseJSON), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func fileCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func fakeService(calls *atomic.Int32) *generate.Service {
	return generate.NewService(generate.Func(func(ctx context.Context, req generate.Request) (string, error) {
		calls.Add(1)
		return courseJSON, nil
	}))
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]render.Format{render.FormatSVG, render.FormatDOT}); err != nil {
		t.Errorf("valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]render.Format{"svg", "gif"}); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("invalid format error = %v, want INVALID_FORMAT", err)
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should pass: %v", err)
	}
}

func TestOptionsValidateForResolve(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantCode errs.Code
	}{
		{"course", Options{Course: "Machine Learning"}, ""},
		{"file", Options{File: "go.json"}, ""},
		{"neither", Options{}, errs.ErrCodeInvalidInput},
		{"both", Options{Course: "go", File: "go.json"}, errs.ErrCodeInvalidInput},
		{"blank name", Options{Course: "   "}, errs.ErrCodeInvalidInput},
		{"name with slash", Options{Course: "CI/CD"}, errs.ErrCodeInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForResolve()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("ValidateForResolve() error = %v", err)
				}
				return
			}
			if !errs.Is(err, tt.wantCode) {
				t.Errorf("ValidateForResolve() code = %v, want %v", errs.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Course: "go"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if diff := cmp.Diff([]render.Format{render.FormatSVG}, opts.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Layout != roadmap.DefaultConfig() {
		t.Errorf("Layout = %+v, want the default canvas", opts.Layout)
	}

	partial := Options{Course: "go", Layout: roadmap.Config{ColumnSpacing: 300}}
	if err := partial.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if partial.Layout.BaseX != 0 || partial.Layout.ColumnSpacing != 300 || partial.Layout.RowSpacing != 140 {
		t.Errorf("partial Layout = %+v, want origin kept and spacing filled", partial.Layout)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}

	opts.Formats = append(opts.Formats, "gif")
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op, got %v", err)
	}

	bad := Options{Course: "go", Selected: -1}
	if err := bad.ValidateAndSetDefaults(); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("negative selection error = %v, want INVALID_INPUT", err)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Selected: 3, Title: true, Interactive: true, Detailed: true, Scale: 2}

	tests := []struct {
		format render.Format
		want   cache.ArtifactKeyOpts
	}{
		{render.FormatSVG, cache.ArtifactKeyOpts{Format: "svg", Selected: 3, Title: true, Interactive: true}},
		{render.FormatPNG, cache.ArtifactKeyOpts{Format: "png", Selected: 3, Title: true, Scale: "2"}},
		{render.FormatJSON, cache.ArtifactKeyOpts{Format: "json", Selected: 3}},
		{render.FormatDOT, cache.ArtifactKeyOpts{Format: "dot", Selected: 3, Detailed: true}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, opts.ArtifactKeyOpts(tt.format)); diff != "" {
			t.Errorf("ArtifactKeyOpts(%s) mismatch (-want +got):\n%s", tt.format, diff)
		}
	}
}

func TestExecuteFile(t *testing.T) {
	runner := NewRunner(fileCache(t), nil, nil)
	opts := Options{
		File:     writeCourse(t),
		Formats:  []render.Format{render.FormatSVG, render.FormatJSON, render.FormatDOT},
		Selected: 2,
	}

	res, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Key != "goprogramming" {
		t.Errorf("Key = %q, want %q", res.Key, "goprogramming")
	}
	if res.CacheInfo.Source != SourceFile {
		t.Errorf("Source = %q, want %q", res.CacheInfo.Source, SourceFile)
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Error("first run reported cache hits")
	}
	if res.Stats.ModuleCount != 4 || res.Stats.ConnectionCount != 4 || res.Stats.LevelCount != 3 {
		t.Errorf("Stats = %+v, want 4 modules, 4 connections, 3 levels", res.Stats)
	}
	if !res.Diagnostics.Empty() {
		t.Errorf("Diagnostics = %+v, want none", res.Diagnostics)
	}

	svg := string(res.Artifacts[render.FormatSVG])
	if !strings.HasPrefix(svg, "<svg") || !strings.Contains(svg, `stroke="#fbbf24"`) {
		t.Errorf("SVG missing root or selection outline:\n%.200s", svg)
	}
	var doc sink.Document
	if err := json.Unmarshal(res.Artifacts[render.FormatJSON], &doc); err != nil {
		t.Fatalf("JSON artifact: %v", err)
	}
	if doc.Selected == nil || *doc.Selected != 2 || len(doc.Nodes) != 4 {
		t.Errorf("JSON document selected=%v nodes=%d", doc.Selected, len(doc.Nodes))
	}
	if !strings.Contains(string(res.Artifacts[render.FormatDOT]), `"m1" -> "m2"`) {
		t.Errorf("DOT missing edge:\n%s", res.Artifacts[render.FormatDOT])
	}

	again, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want layout and render hits", again.CacheInfo)
	}
	if diff := cmp.Diff(res.Layout, again.Layout); diff != "" {
		t.Errorf("cached layout mismatch (-first +second):\n%s", diff)
	}
}

func TestExecuteFromStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	c, err := course.Parse([]byte(courseJSON), course.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Save(ctx, "golang", c); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	runner := NewRunner(nil, nil, nil, WithStore(st), WithService(fakeService(&calls)))
	res, err := runner.Execute(ctx, Options{Course: "GoLang"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.CacheInfo.Source != SourceStore || res.Key != "golang" {
		t.Errorf("Source = %q, Key = %q; want store, golang", res.CacheInfo.Source, res.Key)
	}
	if calls.Load() != 0 {
		t.Errorf("generator called %d times for a stored course", calls.Load())
	}
}

func TestExecuteGenerates(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	var calls atomic.Int32
	runner := NewRunner(nil, nil, nil, WithStore(st), WithService(fakeService(&calls)))

	res, err := runner.Execute(ctx, Options{Course: "Rust"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.CacheInfo.Source != SourceGenerated {
		t.Errorf("Source = %q, want %q", res.CacheInfo.Source, SourceGenerated)
	}
	if _, err := st.Get(ctx, "rust"); err != nil {
		t.Errorf("generated course not stored: %v", err)
	}

	if _, err := runner.Execute(ctx, Options{Course: "Rust"}); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 1 {
		t.Errorf("generator calls = %d, want 1 (second run from store)", calls.Load())
	}

	if _, err := runner.Execute(ctx, Options{Course: "Rust", Refresh: true}); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("generator calls = %d, want 2 after refresh", calls.Load())
	}
}

func TestExecuteNotFound(t *testing.T) {
	runner := NewRunner(nil, nil, nil, WithStore(store.NewMemoryStore()))
	_, err := runner.Execute(context.Background(), Options{Course: "Haskell"})
	if !errs.Is(err, errs.ErrCodeCourseNotFound) {
		t.Errorf("Execute() error = %v, want COURSE_NOT_FOUND", err)
	}

	_, err = runner.Execute(context.Background(), Options{File: filepath.Join(t.TempDir(), "missing.json")})
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("Execute() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestExecuteCourseDiagnostics(t *testing.T) {
	c := course.Course{
		Title: "Loops",
		Modules: []course.Module{
			{ID: 1, Title: "A", Prerequisites: []int{2}},
			{ID: 2, Title: "B", Prerequisites: []int{1}},
			{ID: 3, Title: "C", Prerequisites: []int{9}},
			{ID: 3, Title: "C again"},
		},
	}
	res, err := NewRunner(nil, nil, nil).ExecuteCourse(context.Background(), c, Options{Formats: []render.Format{render.FormatJSON}})
	if err != nil {
		t.Fatalf("ExecuteCourse: %v", err)
	}
	if res.CacheInfo.Source != SourceInline {
		t.Errorf("Source = %q, want %q", res.CacheInfo.Source, SourceInline)
	}
	d := res.Diagnostics
	if len(d.Cycle) == 0 {
		t.Error("cycle not reported")
	}
	if diff := cmp.Diff(map[int][]int{3: {9}}, d.Unknown); diff != "" {
		t.Errorf("Unknown mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{3}, d.Duplicates); diff != "" {
		t.Errorf("Duplicates mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2}, res.Layout.Unresolved); diff != "" {
		t.Errorf("Unresolved mismatch (-want +got):\n%s", diff)
	}

	if _, err := NewRunner(nil, nil, nil).ExecuteCourse(context.Background(), course.Course{Title: "Empty"}, Options{}); !errs.Is(err, errs.ErrCodeInvalidCourse) {
		t.Errorf("empty course error = %v, want INVALID_COURSE", err)
	}
}
