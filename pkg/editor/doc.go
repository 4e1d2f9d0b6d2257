// Package editor owns a live editing session: one diagram tree, its
// registry, and a bounded undo stack of serialized snapshots. There are
// no ambient globals; every operation goes through a [*Session] passed
// by the caller.
//
// Mutations are all-or-nothing. Each operation re-validates the
// invariants it could break (id uniqueness, nesting depth, link
// targets, map boundaries) before touching the tree, and returns a
// [*MutationError] leaving tree and registry untouched when validation
// fails. The registry is rebuilt after every structural change.
//
// Undo snapshots the serialized document before each mutation, up to
// [UndoDepth] entries; undoing re-parses the popped snapshot and swaps
// tree and registry in one step, so callers never observe partial
// state.
package editor
