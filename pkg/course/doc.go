// Package course defines the course and module types shared by every layer
// of prepdeck, and the boundary helpers that bring external course data
// into a shape the roadmap core can consume.
//
// # Courses
//
// A [Course] is a titled list of [Module] values. Module order matters: it
// drives the row order within each roadmap column. Prerequisites are module
// IDs; absent and empty lists are equivalent, and [Normalize] turns both
// into an empty slice.
//
// # Parsing
//
// Course files may be JSON or YAML and may hold either a bare course or a
// single-entry envelope keyed by course key, which is the shape the content
// generator returns:
//
//	{"golang": {"title": "Go", "modules": [...]}}
//
// [Parse] and [ReadFile] accept both. [ExtractJSON] pulls the outermost
// JSON object out of a model reply that may be wrapped in prose or code
// fences.
//
// # Catalog
//
// [DefaultCatalog] holds the built-in interview categories. [Catalog.Search]
// matches a term against titles, descriptions and topics.
package course
