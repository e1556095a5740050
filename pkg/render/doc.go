// Package render turns computed roadmap layouts into output artifacts.
//
// # Overview
//
// Renderers live in subpackages:
//
//   - [sink]: hand-written SVG and the JSON layout document
//   - [nodelink]: Graphviz DOT source and Graphviz-rendered SVG
//   - [markdown]: model-written Markdown as HTML or styled terminal text
//
// This package holds the shared [Format] names and the SVG to PDF/PNG
// conversion used by both SVG renderers.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert from librsvg:
//
//	svg := sink.RenderSVG(layout, c)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
package render
