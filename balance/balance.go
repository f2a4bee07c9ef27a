package balance

import (
	"github.com/katalvlaran/p4forest/complete"
	"github.com/katalvlaran/p4forest/internal/qpool"
	"github.com/katalvlaran/p4forest/linearize"
	"github.com/katalvlaran/p4forest/quadrant"
	"github.com/katalvlaran/p4forest/qtree"
)

// levelScratch backs Subtree's per-level outlist buffers: a fresh
// []quadrant.Quadrant per level on every call would otherwise be
// allocated and thrown away on every balance pass.
var levelScratch = qpool.NewQuadrantScratch[quadrant.Quadrant]()

// Selector picks which neighbor classes must satisfy the 2:1 ratio.
// Selector values are ordered: a higher selector is a strictly stronger
// (more expensive) balance condition, so callers compare with >=.
type Selector int

const (
	// Faces balances across shared faces only — the minimum requirement,
	// meaningful in both 2D and 3D.
	Faces Selector = iota
	// Edges additionally balances across shared edges (3D only; a no-op
	// in 2D, where every edge neighbor is already a face neighbor).
	Edges
	// Corners additionally balances across the single shared corner —
	// the strictest condition ("full" balance in p4est terminology).
	Corners
)

// Subtree runs the bottom-up 2:1 balance sweep described in spec.md §4.E
// over t in place: level t.MaxLevel down to 1, each quadrant schedules its
// own missing siblings plus its parent's face/edge/corner neighbors one
// level coarser, deduplicated per level via a hash lookup. extra supplies
// additional quadrants — typically candidates received from a neighboring
// tree or process — that take part in candidate generation as if they
// belonged to t. An extra quadrant inside the unit root is kept in the
// result like any inserted candidate; one outside it, like any candidate
// landing outside the unit root, never appears in the final result. init
// materializes the payload for every newly inserted quadrant, extras
// included; quadrants already present in t keep their existing payload.
func Subtree[V any](t *qtree.Tree[V], selector Selector, extra []quadrant.Quadrant, init func(quadrant.Quadrant) V) {
	dim := t.Dim
	L := int(quadrant.MaxLevel(dim))

	bank := make([]map[quadrant.Quadrant]struct{}, L+1)
	outlist := make([][]quadrant.Quadrant, L+1)
	for i := range bank {
		bank[i] = make(map[quadrant.Quadrant]struct{})
		outlist[i] = levelScratch.Get()
	}
	defer func() {
		for i := range outlist {
			levelScratch.Put(outlist[i])
		}
	}()

	orig := make(map[quadrant.Quadrant]V, t.Len())
	seed := func(q quadrant.Quadrant) {
		if _, ok := bank[q.Level][q]; ok {
			return
		}
		bank[q.Level][q] = struct{}{}
		outlist[q.Level] = append(outlist[q.Level], q)
	}
	for i, q := range t.Quadrants {
		orig[q] = t.Payloads[i]
		seed(q)
	}
	for _, q := range extra {
		seed(q)
	}

	maxLevel := t.MaxLevel
	for _, q := range extra {
		if q.Level > maxLevel {
			maxLevel = q.Level
		}
	}

	schedule := func(c quadrant.Quadrant) {
		if !quadrant.IsExtended(dim, c) {
			return // outside the legitimate one-layer neighborhood: discard
		}
		if _, ok := bank[c.Level][c]; ok {
			return
		}
		bank[c.Level][c] = struct{}{}
		outlist[c.Level] = append(outlist[c.Level], c)
	}

	for level := int(maxLevel); level >= 1; level-- {
		processed := 0
		for processed < len(outlist[level]) {
			batch := outlist[level][processed:]
			processed = len(outlist[level])
			for _, q := range batch {
				generateCandidates(dim, q, selector, schedule)
			}
		}
	}

	var quads []quadrant.Quadrant
	var pays []V
	for level := 0; level <= L; level++ {
		for _, q := range outlist[level] {
			if !quadrant.IsInsideRoot(dim, q) {
				continue // extended virtual candidate: belongs to a neighbor, not this tree
			}
			quads = append(quads, q)
			if pv, ok := orig[q]; ok {
				pays = append(pays, pv)
			} else {
				pays = append(pays, init(q))
			}
		}
	}
	t.Quadrants = quads
	t.Payloads = pays
	t.Sort()
	linearize.Linearize(t)
}

// Border balances t as Subtree does, then restricts the result to this
// process's owned position interval [first, next) via
// linearize.RemoveNonOwned, and fills any Morton gap that trim (or a
// too-coarse remote boundary) leaves behind by completing each adjacent
// pair that is not already IsNext — the closing steps spec.md §4.E
// describes for a tree straddling a partition boundary. A nil first or
// next means that side of the interval is unbounded.
func Border[V any](t *qtree.Tree[V], selector Selector, extra []quadrant.Quadrant, first, next *quadrant.Quadrant, init func(quadrant.Quadrant) V) {
	Subtree(t, selector, extra, init)
	linearize.RemoveNonOwned(t, first, next)

	if t.Len() < 2 {
		return
	}
	quads := make([]quadrant.Quadrant, 0, t.Len())
	pays := make([]V, 0, t.Len())
	quads = append(quads, t.Quadrants[0])
	pays = append(pays, t.Payloads[0])
	for i := 1; i < t.Len(); i++ {
		a, b := t.Quadrants[i-1], t.Quadrants[i]
		if !quadrant.IsNext(t.Dim, a, b) {
			gap := qtree.New[V](t.Dim)
			gap.Push(a, t.Payloads[i-1])
			gap.Push(b, t.Payloads[i])
			complete.Region(gap, false, init)
			quads = append(quads, gap.Quadrants[1:]...)
			pays = append(pays, gap.Payloads[1:]...)
		}
		quads = append(quads, b)
		pays = append(pays, t.Payloads[i])
	}
	t.Quadrants = quads
	t.Payloads = pays
	t.Recompute()
}

// generateCandidates schedules the stage-1 candidates spec.md §4.E lists
// for q: (a) q's own siblings with a different child id, if q is actually
// inside the root; (b) q's parent; (c) the parent's face neighbor on the
// side each axis exposes, one per axis; (d) when selector is Edges or
// higher and dim is 3D, the parent's edge neighbors (all three axis pairs,
// all four sign combinations — a deliberate over-generation relative to
// the single pair q's own position picks out, since the extra candidates
// cost only a little redundant dedup work, never correctness); (e) when
// selector is Corners, the single corner neighbor diagonally opposite q's
// position within its family.
func generateCandidates(dim quadrant.Dim, q quadrant.Quadrant, selector Selector, schedule func(quadrant.Quadrant)) {
	if q.Level == 0 {
		return // root has no parent or siblings to force
	}
	id := quadrant.ChildID(dim, q)
	sx := axisSign(id, 0)
	sy := axisSign(id, 1)
	var sz int32
	if dim == quadrant.Dim3 {
		sz = axisSign(id, 2)
	}

	if quadrant.IsInsideRoot(dim, q) {
		for sid := 0; sid < quadrant.NumChildren(dim); sid++ {
			if sid != id {
				schedule(quadrant.Sibling(dim, q, sid))
			}
		}
	}

	p := quadrant.Parent(dim, q)
	schedule(p)

	schedule(offset(dim, p, sx, 0, 0))
	schedule(offset(dim, p, 0, sy, 0))
	if dim == quadrant.Dim3 {
		schedule(offset(dim, p, 0, 0, sz))
	}

	if selector >= Edges && dim == quadrant.Dim3 {
		signs := [2]int32{-1, 1}
		for _, s0 := range signs {
			for _, s1 := range signs {
				schedule(offset(dim, p, s0, s1, 0))
				schedule(offset(dim, p, s0, 0, s1))
				schedule(offset(dim, p, 0, s0, s1))
			}
		}
	}

	if selector >= Corners {
		schedule(offset(dim, p, sx, sy, sz))
	}
}

// axisSign reports which side of the parent childID's bit on axis exposes:
// the bit set means the child occupies the positive half, so the parent
// neighbor that borders its exposed face lies in the positive direction.
func axisSign(childID, axis int) int32 {
	if childID&(1<<uint(axis)) != 0 {
		return 1
	}
	return -1
}

// offset returns a copy of q translated by (dx,dy,dz) side lengths at q's
// own level.
func offset(dim quadrant.Dim, q quadrant.Quadrant, dx, dy, dz int32) quadrant.Quadrant {
	h := quadrant.SideLen(dim, q.Level)
	out := q
	out.X += dx * h
	out.Y += dy * h
	if dim == quadrant.Dim3 {
		out.Z += dz * h
	}
	return out
}
