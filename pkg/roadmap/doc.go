// Package roadmap computes the layout of a course roadmap: a left-to-right
// drawing of modules where each column holds the modules at one
// prerequisite depth.
//
// # Overview
//
// Layout happens in three pure steps:
//
//  1. Leveling ([Levels]): modules without prerequisites sit at level 0.
//     Every other module sits one level past its deepest prerequisite, once
//     all of its prerequisites have a level. Passes repeat until nothing
//     changes. Modules that never resolve (unknown prerequisite IDs or
//     cycles) fall back to level 0.
//  2. Positioning ([Positions]): x grows with the level, y with the
//     module's index among the modules of its level, in input order.
//  3. Connections ([Connections]): one edge per (prerequisite, dependent)
//     pair whose two ends both have a position, from the right-center of
//     the prerequisite's node to the left-center of the dependent's.
//
// [Compute] runs the three steps and adds canvas bounds.
//
// # Termination
//
// Leveling makes at most N passes over N modules: every pass that does not
// end the loop resolves at least one module. A cycle such as 1 → 2 → 1
// therefore terminates with both modules at level 0.
//
// # State
//
// The package holds no state. Selection of a module is a presentation
// concern; [Hit] maps a point on the canvas to the module under it so a
// caller can turn clicks into selection events.
//
// # Geometry Helpers
//
// [Curve] and [Arrowhead] produce SVG path data for a connection,
// [WrapText] and [NodeHeight] size node boxes around wrapped titles.
// [FindCycle] reports one prerequisite cycle for diagnostics; the layout
// never depends on it.
package roadmap
