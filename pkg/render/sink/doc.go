// Package sink renders a computed [roadmap.Layout] into final artifacts.
//
// # SVG Output
//
// [RenderSVG] draws connectors first and nodes on top, so curves never
// cover titles:
//
//   - connectors: gradient cubic curves with an arrowhead at the dependent
//   - nodes: rounded boxes colored by module difficulty, with titles
//     wrapped at 16 characters; boxes grow with the line count
//   - selection: [WithSelected] outlines one module in amber
//
// Basic usage:
//
//	l := roadmap.Compute(c.Modules, roadmap.DefaultConfig())
//	svg := sink.RenderSVG(l, c, sink.WithSelected(3), sink.WithInteraction())
//
// # JSON Output
//
// [RenderJSON] writes the render-ready document consumed by browser
// clients: positions keyed by module ID, connections with start and end
// points and path data, and per-node boxes.
//
// # PDF and PNG
//
// [RenderPDF] and [RenderPNG] convert the SVG with rsvg-convert.
package sink
