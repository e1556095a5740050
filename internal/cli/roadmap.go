package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/prepdeck/prepdeck/pkg/errors"
	"github.com/prepdeck/prepdeck/pkg/pipeline"
	"github.com/prepdeck/prepdeck/pkg/render"
	"github.com/prepdeck/prepdeck/pkg/roadmap"
)

// roadmapOpts holds the command-line flags for the roadmap command.
type roadmapOpts struct {
	output      string         // output file (single format) or base path (multiple)
	formats     string         // comma-separated output formats
	selected    int            // module to highlight with its incoming edges
	title       bool           // draw the course title
	interactive bool           // embed the click-to-select script in SVG output
	detailed    bool           // show descriptions and topics (nodelink)
	scale       float64        // PNG scale factor
	layout      roadmap.Config // spacing overrides
	refresh     bool           // regenerate a named course
	noCache     bool           // bypass the cache
	watch       bool           // re-render when the course file changes
}

// roadmapCommand creates the roadmap command. The argument is a course file
// when it exists or has a course extension, otherwise a course name that is
// looked up in the store and generated when missing.
func (c *CLI) roadmapCommand() *cobra.Command {
	defaults := roadmap.DefaultConfig()
	opts := roadmapOpts{
		formats: string(render.FormatSVG),
		scale:   pipeline.DefaultScale,
		layout:  defaults,
	}

	cmd := &cobra.Command{
		Use:   "roadmap <course-file|name>",
		Short: "Lay out a course and render its roadmap",
		Long: `Lay out a course as a left-to-right roadmap and render it.

The argument is either a course file (.json, .yaml) or a course name. Names
are looked up in the course store and generated with the model when missing.`,
		Example: `  prepdeck roadmap golang.json
  prepdeck roadmap "Machine Learning" -f svg,json --title
  prepdeck roadmap golang.yaml --watch --interactive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoadmap(cmd.Context(), args[0], &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVarP(&opts.formats, "format", "f", opts.formats, "output format(s): svg, json, dot, nodelink, pdf, png (comma-separated)")
	f.IntVar(&opts.selected, "selected", 0, "module id to highlight")
	f.BoolVar(&opts.title, "title", false, "draw the course title")
	f.BoolVar(&opts.interactive, "interactive", false, "embed click-to-select script (svg)")
	f.BoolVar(&opts.detailed, "detailed", false, "show descriptions and topics (nodelink)")
	f.Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	f.Float64Var(&opts.layout.ColumnSpacing, "column-spacing", defaults.ColumnSpacing, "horizontal distance between levels")
	f.Float64Var(&opts.layout.RowSpacing, "row-spacing", defaults.RowSpacing, "vertical distance between modules of a level")
	f.Float64Var(&opts.layout.NodeWidth, "node-width", defaults.NodeWidth, "module box width")
	f.BoolVar(&opts.refresh, "refresh", false, "regenerate a named course")
	f.BoolVar(&opts.noCache, "no-cache", false, "bypass the cache")
	f.BoolVarP(&opts.watch, "watch", "w", false, "re-render when the course file changes")

	return cmd
}

// isCourseFile reports whether arg names a course file rather than a course.
func isCourseFile(arg string) bool {
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	info, err := os.Stat(arg)
	return err == nil && !info.IsDir()
}

func (c *CLI) runRoadmap(ctx context.Context, arg string, o *roadmapOpts) error {
	formats, err := render.ParseFormats(o.formats)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Layout:      o.layout,
		Formats:     formats,
		Selected:    o.selected,
		Title:       o.title,
		Interactive: o.interactive,
		Detailed:    o.detailed,
		Scale:       o.scale,
		Refresh:     o.refresh,
		Logger:      c.Logger,
	}
	if isCourseFile(arg) {
		opts.File = arg
	} else {
		opts.Course = arg
	}
	if o.watch && opts.File == "" {
		return errs.New(errs.ErrCodeInvalidInput, "--watch needs a course file")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	b, err := c.open(ctx, openOpts{noCache: o.noCache})
	if err != nil {
		return err
	}
	defer b.Close()

	if err := c.renderRoadmap(ctx, b.runner, opts, o.output); err != nil {
		if !o.watch {
			if isNotFound(err) && opts.Course != "" {
				c.printNextStep("Generate it first", fmt.Sprintf("%s generate %q", appName, opts.Course))
			}
			return err
		}
		c.printError("%s", errs.UserMessage(err))
	}
	if !o.watch {
		return nil
	}

	c.printInfo("Watching %s (ctrl+c to stop)", opts.File)
	return watchFile(ctx, opts.File, c.Logger, func() {
		if err := c.renderRoadmap(ctx, b.runner, opts, o.output); err != nil {
			c.printError("%s", errs.UserMessage(err))
		}
	})
}

// renderRoadmap runs the pipeline once and writes its artifacts.
func (c *CLI) renderRoadmap(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output string) error {
	prog := newProgress(c.Logger)

	var result *pipeline.Result
	run := func() error {
		var err error
		result, err = runner.Execute(ctx, opts)
		return err
	}
	if opts.Course != "" {
		err := c.spin(ctx, fmt.Sprintf("Preparing %s...", opts.Course), run)
		if err != nil {
			return err
		}
	} else if err := run(); err != nil {
		return err
	}

	c.warnDiagnostics(result.Diagnostics)

	paths := outputPaths(outputBase(opts.File, result.Key), output, opts.Formats)
	c.printSuccess("Roadmap for %s", StyleHighlight.Render(result.Course.Title))
	for _, f := range opts.Formats {
		path := paths[f]
		if err := os.WriteFile(path, result.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		c.printFile(path)
	}
	c.printStats(result.Stats.ModuleCount, result.Stats.ConnectionCount, result.Stats.LevelCount,
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)

	prog.done(fmt.Sprintf("Rendered %s", plural(len(opts.Formats), "artifact")))
	return nil
}

// warnDiagnostics reports the prerequisite problems the layout tolerated.
func (c *CLI) warnDiagnostics(d pipeline.Diagnostics) {
	if len(d.Cycle) > 0 {
		c.printWarning("Prerequisite cycle %s; those modules stay in the first column", joinIDs(d.Cycle, " → "))
	}
	ids := make([]int, 0, len(d.Unknown))
	for id := range d.Unknown {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		c.printWarning("Module %d lists unknown prerequisites %s", id, joinIDs(d.Unknown[id], ", "))
	}
	if len(d.Duplicates) > 0 {
		c.printWarning("Duplicate module ids %s; the first occurrence keeps its position, the last one's prerequisites apply", joinIDs(d.Duplicates, ", "))
	}
}

// outputBase is the default output base name: the stem of the course file,
// or the stored course key for a course name.
func outputBase(file, key string) string {
	if file != "" {
		base := filepath.Base(file)
		if stem := strings.TrimSuffix(base, filepath.Ext(base)); stem != "" && stem != "." {
			return stem
		}
	}
	if key == "" {
		return "roadmap"
	}
	return key
}

// outputPaths maps each format to its output file. Without an output the
// base name is used. A single format writes to output
// as given; several formats treat output as a base path whose known
// extension is replaced.
func outputPaths(base, output string, formats []render.Format) map[render.Format]string {
	paths := make(map[render.Format]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}

	if output != "" {
		base = output
		// Nodelink first: its extension ends in another format's.
		for _, f := range append([]render.Format{render.FormatNodelink}, render.Formats...) {
			if strings.HasSuffix(base, f.Ext()) {
				base = strings.TrimSuffix(base, f.Ext())
				break
			}
		}
	}
	for _, f := range formats {
		paths[f] = base + f.Ext()
	}
	return paths
}

func joinIDs(ids []int, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, sep)
}
