// Package render exports diagram documents as Graphviz drawings.
//
// # Overview
//
// This package produces a directed-graph view of a diagram document:
// both maps appear as clusters, containment as dashed edges, linkTo
// references as solid arrows, and instanceOf references as dotted
// cross-cluster edges.
//
// # Usage
//
// Convert a diagram to DOT format, then render to SVG:
//
//	dot := render.ToDOT(tree, reg, render.Options{Detailed: false})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package render
