// Package quadrant implements the Morton-ordered quadrant algebra that
// underlies every tree and forest operation: coordinate validity, ancestry
// and sibling predicates, parent/child/descendant navigation, and the
// integer-only cross-tree transforms (face, edge, corner) that let overlap
// reach through a connectivity graph.
//
// A Quadrant is a plain, comparable record — (X, Y, Z, Level) — never a
// pointer graph. Every operation on a single quadrant is pure and O(1)
// (Checksum is linear in the length of its sequence); nothing allocates
// beyond the returned value.
package quadrant
