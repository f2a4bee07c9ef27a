package linearize

import (
	"github.com/katalvlaran/p4forest/quadrant"
	"github.com/katalvlaran/p4forest/qtree"
)

// Linearize drops every quadrant that is equal to or an ancestor of the one
// immediately following it in t's (already Morton-sorted) sequence, per
// spec.md §4.F. Completion and balance both over-generate ancestor/
// descendant pairs (and, occasionally, exact duplicates) along the way;
// this is the cleanup pass that restores the "linear" invariant before the
// sequence is considered final.
func Linearize[V any](t *qtree.Tree[V]) {
	n := t.Len()
	if n == 0 {
		return
	}
	keep := make([]bool, n)
	for i := 0; i < n; i++ {
		if i == n-1 {
			keep[i] = true
			continue
		}
		a, b := t.Quadrants[i], t.Quadrants[i+1]
		keep[i] = a != b && !quadrant.IsAncestor(t.Dim, a, b)
	}
	t.CompactKeep(keep)
}

// RemoveNonOwned drops quadrants t does not own: those lying outside the
// unit root entirely (the "extended" virtual siblings balance and overlap
// introduce near a tree boundary), and — when first or next is non-nil —
// those falling outside this process's owned position interval
// [first, next) on a tree that straddles a partition boundary, per spec.md
// §4.F. A nil bound means "no boundary on this side": first nil keeps
// everything from the start, next nil keeps everything to the end.
func RemoveNonOwned[V any](t *qtree.Tree[V], first, next *quadrant.Quadrant) {
	n := t.Len()
	if n == 0 {
		return
	}
	keep := make([]bool, n)
	for i, q := range t.Quadrants {
		if !quadrant.IsInsideRoot(t.Dim, q) {
			continue // outside the unit root: a virtual extended sibling, never owned
		}
		if first != nil && quadrant.Less(t.Dim, q, *first) {
			continue
		}
		if next != nil && !quadrant.Less(t.Dim, q, *next) {
			continue
		}
		keep[i] = true
	}
	t.CompactKeep(keep)
}
