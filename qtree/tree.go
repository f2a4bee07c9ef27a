package qtree

import (
	"sort"

	"github.com/katalvlaran/p4forest/quadrant"
)

// Tree is the Morton-sorted quadrant sequence owned by one root of the
// forest, plus the cached bookkeeping spec.md §3-§4.B require.
type Tree[V any] struct {
	Dim quadrant.Dim

	Quadrants []quadrant.Quadrant
	Payloads  []V

	// QuadrantsPerLevel[level] is the population count at that level;
	// length MaxLevel(Dim)+1.
	QuadrantsPerLevel []int32

	// MaxLevel is the highest level currently populated, 0 if empty.
	MaxLevel uint8

	// FirstDesc/LastDesc are the finest-level descendants of the first
	// and last owned quadrant, respectively. Zero value if the tree is
	// empty.
	FirstDesc quadrant.Quadrant
	LastDesc  quadrant.Quadrant

	// QuadrantsOffset is the prefix sum of prior trees' sizes on this
	// process; maintained by the forest, not by Tree itself.
	QuadrantsOffset int64
}

// New returns an empty tree for the given dimension.
func New[V any](dim quadrant.Dim) *Tree[V] {
	return &Tree[V]{
		Dim:               dim,
		QuadrantsPerLevel: make([]int32, int(quadrant.MaxLevel(dim))+1),
	}
}

// Len returns the number of quadrants currently owned.
func (t *Tree[V]) Len() int { return len(t.Quadrants) }

// Push appends q (with its payload) at the end of the sequence. Callers
// are responsible for Morton order; Push does not check it and performs
// no reordering of its own.
func (t *Tree[V]) Push(q quadrant.Quadrant, payload V) {
	t.Quadrants = append(t.Quadrants, q)
	t.Payloads = append(t.Payloads, payload)
	t.QuadrantsPerLevel[q.Level]++
	if q.Level > t.MaxLevel {
		t.MaxLevel = q.Level
	}
	t.refreshDescendants()
}

// Resize truncates or zero-extends the sequence to n entries and
// recomputes all cached bookkeeping.
func (t *Tree[V]) Resize(n int) {
	switch {
	case n < len(t.Quadrants):
		t.Quadrants = t.Quadrants[:n]
		t.Payloads = t.Payloads[:n]
	case n > len(t.Quadrants):
		t.Quadrants = append(t.Quadrants, make([]quadrant.Quadrant, n-len(t.Quadrants))...)
		t.Payloads = append(t.Payloads, make([]V, n-len(t.Payloads))...)
	}
	t.Recompute()
}

// Sort restores Morton order over the (possibly scrambled) sequence,
// keeping each quadrant's payload alongside it, then recomputes cached
// bookkeeping.
func (t *Tree[V]) Sort() {
	idx := make([]int, len(t.Quadrants))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return quadrant.Less(t.Dim, t.Quadrants[idx[i]], t.Quadrants[idx[j]])
	})
	quads := make([]quadrant.Quadrant, len(idx))
	pays := make([]V, len(idx))
	for i, j := range idx {
		quads[i] = t.Quadrants[j]
		pays[i] = t.Payloads[j]
	}
	t.Quadrants = quads
	t.Payloads = pays
	t.Recompute()
}

// Recompute rebuilds QuadrantsPerLevel, MaxLevel, and FirstDesc/LastDesc
// from the current Quadrants slice. Called after any bulk mutation
// (Resize, Sort, or the in-place compaction linearize/remove_nonowned
// perform) where incremental maintenance is not worth the bookkeeping.
func (t *Tree[V]) Recompute() {
	for i := range t.QuadrantsPerLevel {
		t.QuadrantsPerLevel[i] = 0
	}
	t.MaxLevel = 0
	for _, q := range t.Quadrants {
		t.QuadrantsPerLevel[q.Level]++
		if q.Level > t.MaxLevel {
			t.MaxLevel = q.Level
		}
	}
	t.refreshDescendants()
}

func (t *Tree[V]) refreshDescendants() {
	if len(t.Quadrants) == 0 {
		t.FirstDesc = quadrant.Quadrant{}
		t.LastDesc = quadrant.Quadrant{}
		return
	}
	L := quadrant.MaxLevel(t.Dim)
	t.FirstDesc = quadrant.FirstDescendant(t.Dim, t.Quadrants[0], L)
	t.LastDesc = quadrant.LastDescendant(t.Dim, t.Quadrants[len(t.Quadrants)-1], L)
}

// CompactKeep rewrites the sequence in place, keeping only entries for
// which keep[i] is true, preserving relative order, then recomputes
// bookkeeping. Used by linearize and remove_nonowned, both of which drop
// entries without reordering the survivors.
func (t *Tree[V]) CompactKeep(keep []bool) {
	w := 0
	for i, k := range keep {
		if k {
			t.Quadrants[w] = t.Quadrants[i]
			t.Payloads[w] = t.Payloads[i]
			w++
		}
	}
	t.Quadrants = t.Quadrants[:w]
	t.Payloads = t.Payloads[:w]
	t.Recompute()
}
