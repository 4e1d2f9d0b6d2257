// Package pkg provides the core libraries for Archmap diagram editing.
//
// # Overview
//
// Archmap works with two-perspective architecture diagrams: an Object
// Map describing backend structure and a Site Map describing frontend
// structure, with instanceOf ties and linkTo arrows between items. The
// pkg directory is organized into five main areas:
//
//  1. [diagram] - Domain model (items, trees, the id registry)
//  2. [document] - The persisted markup format (parse and generate)
//  3. [diff] / [route] / [render] - Derived products (changesets, arrow
//     routes, drawings)
//  4. [editor] - Mutation sessions with undo
//  5. [cache] / [store] - Infrastructure (caching, version persistence)
//
// # Architecture
//
// The typical data flow through Archmap:
//
//	Document text
//	         ↓
//	    [document] package (parse + validate)
//	         ↓
//	    [diagram] package (tree + registry)
//	         ↓
//	    [diff] / [route] / [render] / [editor]
//	         ↓
//	    Changesets, arrow routes, SVG output, new documents
//
// # Quick Start
//
// Parse a document and compute its arrow routes:
//
//	import (
//	    "github.com/archmap/archmap/pkg/diagram"
//	    "github.com/archmap/archmap/pkg/document"
//	    "github.com/archmap/archmap/pkg/route"
//	)
//
//	// 1. Parse and validate
//	tree, reg, err := document.Parse(text)
//
//	// 2. Lay the Site Map out on a default grid
//	geom := route.DefaultGeometry(tree, diagram.SideSiteMap, route.DefaultLayoutOpts())
//
//	// 3. Route every linkTo edge
//	paths, err := route.Route(tree, reg, diagram.SideSiteMap, geom, route.Options{})
//
// # Main Packages
//
// [diagram] - The in-memory model: items with kinds (Object, Page,
// Info, Function, Case), per-map column lists, and a registry indexing
// every item by id with parent, side, column and depth lookups.
//
// [document] - Bidirectional transform between the model and its XML
// markup. Parse is all-or-nothing with classified errors; Generate is
// byte-deterministic, so equivalent trees serialize identically.
//
// [diff] - Cross-version changesets. Items are matched by id and
// classified as added, removed, modified or moved; presentational
// differences are ignored.
//
// [route] - Deterministic orthogonal arrow routing for linkTo edges,
// with a scenario per column relationship and rounded corner points.
//
// [render] - Graphviz drawings of both maps (DOT and SVG).
//
// [editor] - Mutation sessions over a parsed document: insert, delete
// with cascade, move, retitle and link edits, all validated against
// the same rules as the parser, with bounded snapshot undo.
//
// [cache] - Pluggable caching for derived products (file, Redis and
// null implementations) keyed on document hashes.
//
// [store] - Versioned document persistence (MongoDB and in-memory)
// with monotonically increasing version numbers per project.
//
// [errors] - Classified application errors and input validation shared
// by the CLI and the API server.
//
// [observability] - Hook points for engine, cache and store metrics.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/document/... # Specific package
//
// [diagram]: https://pkg.go.dev/github.com/archmap/archmap/pkg/diagram
// [document]: https://pkg.go.dev/github.com/archmap/archmap/pkg/document
// [diff]: https://pkg.go.dev/github.com/archmap/archmap/pkg/diff
// [route]: https://pkg.go.dev/github.com/archmap/archmap/pkg/route
// [render]: https://pkg.go.dev/github.com/archmap/archmap/pkg/render
// [editor]: https://pkg.go.dev/github.com/archmap/archmap/pkg/editor
// [cache]: https://pkg.go.dev/github.com/archmap/archmap/pkg/cache
// [store]: https://pkg.go.dev/github.com/archmap/archmap/pkg/store
// [errors]: https://pkg.go.dev/github.com/archmap/archmap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/archmap/archmap/pkg/observability
package pkg
