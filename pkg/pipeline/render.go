package pipeline

import (
	"context"

	"github.com/prepdeck/prepdeck/pkg/course"
	errs "github.com/prepdeck/prepdeck/pkg/errors"
	"github.com/prepdeck/prepdeck/pkg/render"
	"github.com/prepdeck/prepdeck/pkg/render/nodelink"
	"github.com/prepdeck/prepdeck/pkg/render/sink"
	"github.com/prepdeck/prepdeck/pkg/roadmap"
)

// RenderFormat renders one artifact without caching.
func RenderFormat(ctx context.Context, format render.Format, l roadmap.Layout, c course.Course, opts Options) ([]byte, error) {
	switch format {
	case render.FormatSVG:
		return sink.RenderSVG(l, c, buildSVGOptions(opts, true)...), nil
	case render.FormatPDF:
		return sink.RenderPDF(ctx, l, c, buildSVGOptions(opts, false)...)
	case render.FormatPNG:
		return sink.RenderPNG(ctx, l, c, opts.Scale, buildSVGOptions(opts, false)...)
	case render.FormatJSON:
		var jsonOpts []sink.JSONOption
		if opts.Selected > 0 {
			jsonOpts = append(jsonOpts, sink.WithJSONSelected(opts.Selected))
		}
		return sink.RenderJSON(l, c, jsonOpts...)
	case render.FormatDOT:
		return []byte(nodelink.ToDOT(c, l, dotOptions(opts))), nil
	case render.FormatNodelink:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(c, l, dotOptions(opts)))
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
}

// buildSVGOptions builds SVG rendering options. Interaction scripts are
// only embedded in standalone SVG output.
func buildSVGOptions(opts Options, standalone bool) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.Selected > 0 {
		svgOpts = append(svgOpts, sink.WithSelected(opts.Selected))
	}
	if opts.Title {
		svgOpts = append(svgOpts, sink.WithTitle())
	}
	if opts.Interactive && standalone {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	return svgOpts
}

func dotOptions(opts Options) nodelink.Options {
	return nodelink.Options{Detailed: opts.Detailed, Selected: opts.Selected}
}
