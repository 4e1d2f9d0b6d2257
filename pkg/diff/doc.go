// Package diff computes the ordered changeset between two diagram
// trees, typically two stored versions of the same project.
//
// Classification works per item id over the union of both registries:
// an id present only in the new tree is Added, only in the old tree is
// Removed; an id whose structural parent changed is Moved; otherwise a
// change to its title, linkTo set, or instanceOf target makes it
// Modified. Column assignment and sibling order are presentational and
// never reported.
//
// The result is deterministic: changes are ordered by map (Object Map
// first), then display path, then id. Two symmetry laws hold:
// Diff(A,B) reports as Added exactly what Diff(B,A) reports as Removed,
// and Diff(A,A) is empty.
package diff
