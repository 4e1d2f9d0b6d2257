// Package route computes deterministic path geometry for the linkTo
// arrows of one map. It never computes layout: the caller supplies the
// concrete on-screen column boxes and per-item vertical boxes, and the
// router derives an orthogonal polyline per edge.
//
// Three scenarios exist, selected purely from the column relation of
// the two endpoints:
//
//   - same-or-left (target column ≤ source column, self-links
//     included): out of the source's right edge, down a shared lane
//     below every involved column, back up into the target's left edge.
//   - adjacent (target exactly one column to the right): through the
//     single lane between the two columns; straight when the vertical
//     centers align, otherwise with a jog in the lane.
//   - multi-column-right (target further right): into the first lane,
//     below all intervening columns, up into the target's left lane.
//
// Corners share one fixed rounding radius. The router is a pure
// function of its inputs; its only failure mode is an edge endpoint
// missing from the registry or the supplied geometry, which is a
// programming error rather than a user-facing condition.
package route
