// Package diagram defines the in-memory model for a dual-perspective
// architecture diagram: a backend Object Map and a frontend Site Map.
//
// A diagram is a pair of forests. Root items (Object in the Object Map,
// Page in the Site Map) are grouped into presentational columns; nested
// items (Info, Function, Case) hang below them. Two reference relations
// exist alongside the ownership tree and are deliberately non-owning:
//
//   - linkTo: navigation/flow edges between items of the same map.
//     Cycles and self-references are allowed, which is why edges are
//     kept as id lists resolved through the [Registry] rather than as
//     pointers.
//   - instanceOf: an instance borrows the title of a nested Object Map
//     item. Titles are resolved at read time through the Registry, so
//     renaming the original propagates to every instance with no sync
//     step.
//
// The [Registry] is derived from a [Tree] and provides O(1) id lookup
// for parsing, diffing, routing, and mutation validation. It must be
// rebuilt whenever the tree structure changes.
package diagram
