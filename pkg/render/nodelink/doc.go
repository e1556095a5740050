// Package nodelink renders course roadmaps as Graphviz node-link diagrams.
//
// # Overview
//
// This is an alternative to the hand-drawn roadmap SVG for cases where
// Graphviz's own edge routing is preferred. Modules become rounded boxes
// colored by difficulty, edges point from a prerequisite to its dependent,
// and modules sharing a roadmap level are pinned to the same rank so the
// columns match [roadmap.Compute].
//
// # Usage
//
//	l := roadmap.Compute(c.Modules, roadmap.DefaultConfig())
//	dot := nodelink.ToDOT(c, l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels include level, duration and difficulty
//   - Selected: outline one module
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
