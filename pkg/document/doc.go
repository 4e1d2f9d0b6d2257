// Package document converts between the diagram XML format and the
// in-memory [diagram.Tree], in both directions.
//
// [Parse] is all-or-nothing: the first violation anywhere in the
// document aborts the parse and is reported as a single [*ParseError]
// carrying the offending item id and line; no partial tree is ever
// returned. [Generate] is the exact inverse for valid trees and is
// byte-deterministic: identical trees serialize identically, with a
// fixed attribute order (id, then title or instanceOf, then linkTo)
// and two-space per-level indentation.
//
// The round-trip law Parse(Generate(t)) ≡ t holds for every tree that
// satisfies the model invariants.
package document
