// Package pipeline provides the core roadmap pipeline for prepdeck.
//
// This package implements the complete resolve → layout → render pipeline
// used by the CLI and the HTTP API. Centralizing it keeps caching, hooks
// and defaults identical across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Resolve: load a course from a file, the course store, or the generator
//  2. Layout: level, position and connect the modules
//  3. Render: produce SVG, JSON, DOT, node-link SVG, PDF or PNG output
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger,
//	    pipeline.WithStore(st), pipeline.WithService(svc))
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Course:  "Machine Learning",
//	    Formats: []render.Format{render.FormatSVG},
//	})
//	svg := result.Artifacts[render.FormatSVG]
package pipeline

import (
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/prepdeck/prepdeck/pkg/cache"
	"github.com/prepdeck/prepdeck/pkg/course"
	errs "github.com/prepdeck/prepdeck/pkg/errors"
	"github.com/prepdeck/prepdeck/pkg/render"
	"github.com/prepdeck/prepdeck/pkg/roadmap"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// DefaultFormats are rendered when no format is requested.
var DefaultFormats = []render.Format{render.FormatSVG}

// Course sources reported in Result.CacheInfo and to the pipeline hooks.
const (
	SourceFile      = "file"
	SourceStore     = "store"
	SourceGenerated = "generated"
	SourceInline    = "inline"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the roadmap pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Resolve options. Exactly one of File and Course is required unless
	// the caller supplies the course directly.
	Course  string `json:"course,omitempty"`
	File    string `json:"file,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	Layout roadmap.Config `json:"layout"`

	// Render options
	Formats     []render.Format `json:"formats,omitempty"`
	Selected    int             `json:"selected,omitempty"`
	Title       bool            `json:"title,omitempty"`
	Interactive bool            `json:"interactive,omitempty"`
	Detailed    bool            `json:"detailed,omitempty"`
	Scale       float64         `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Key is the store key of the course.
	Key string

	// Course is the normalized course.
	Course course.Course

	// Layout is the computed roadmap.
	Layout roadmap.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[render.Format][]byte

	// Diagnostics lists structural problems the layout tolerated.
	Diagnostics Diagnostics

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks where the course came from and which stages hit the cache.
	CacheInfo CacheInfo
}

// Diagnostics describes prerequisite problems in a course.
type Diagnostics struct {
	// Cycle is one prerequisite cycle, first ID repeated at the end.
	Cycle []int
	// Unknown maps module IDs to prerequisites naming no module.
	Unknown map[int][]int
	// Duplicates lists module IDs that occur more than once.
	Duplicates []int
}

// Empty reports whether no problem was found.
func (d Diagnostics) Empty() bool {
	return len(d.Cycle) == 0 && len(d.Unknown) == 0 && len(d.Duplicates) == 0
}

// Diagnose inspects the prerequisites of c.
func Diagnose(c course.Course) Diagnostics {
	return Diagnostics{
		Cycle:      roadmap.FindCycle(c.Modules),
		Unknown:    roadmap.UnknownPrerequisites(c.Modules),
		Duplicates: course.DuplicateIDs(c),
	}
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ModuleCount     int
	ConnectionCount int
	LevelCount      int
	Passes          int
	ResolveTime     time.Duration
	LayoutTime      time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	Source    string // Where the course came from (file, store, generated, inline)
	LayoutHit bool   // Whether layout result came from cache
	RenderHit bool   // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are known.
func ValidateFormats(formats []render.Format) error {
	for _, f := range formats {
		if !slices.Contains(render.Formats, f) {
			return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q", f)
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForResolve(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForResolve checks that a course source is given.
func (o *Options) ValidateForResolve() error {
	switch {
	case o.File != "" && o.Course != "":
		return errs.New(errs.ErrCodeInvalidInput, "course and file are mutually exclusive")
	case o.File != "":
	case o.Course != "":
		if err := errs.ValidateCourseName(o.Course); err != nil {
			return err
		}
		if err := errs.ValidateCourseKey(course.StoreKey(o.Course)); err != nil {
			return err
		}
	default:
		return errs.New(errs.ErrCodeInvalidInput, "course or file is required")
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults fills zero spacing fields. An entirely zero config
// means the default canvas, origin included.
func (o *Options) SetLayoutDefaults() {
	if o.Layout == (roadmap.Config{}) {
		o.Layout = roadmap.DefaultConfig()
	}
	o.Layout = o.Layout.WithDefaults()
	o.setLogger()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for layout and rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if o.Selected < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "selected module id must not be negative")
	}
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	cfg := o.Layout.WithDefaults()
	return cache.LayoutKeyOpts{
		BaseX:         cfg.BaseX,
		BaseY:         cfg.BaseY,
		ColumnSpacing: cfg.ColumnSpacing,
		RowSpacing:    cfg.RowSpacing,
		NodeWidth:     cfg.NodeWidth,
		NodeHeight:    cfg.NodeHeight,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering. Options
// that do not affect a format are left out so they do not split its cache.
func (o *Options) ArtifactKeyOpts(format render.Format) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: string(format)}
	switch format {
	case render.FormatSVG, render.FormatPDF, render.FormatPNG:
		k.Selected = o.Selected
		k.Title = o.Title
		k.Interactive = o.Interactive && format == render.FormatSVG
		if format == render.FormatPNG {
			k.Scale = strconv.FormatFloat(o.Scale, 'f', -1, 64)
		}
	case render.FormatJSON:
		k.Selected = o.Selected
	case render.FormatDOT, render.FormatNodelink:
		k.Selected = o.Selected
		k.Detailed = o.Detailed
	}
	return k
}
