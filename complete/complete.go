package complete

import (
	"github.com/katalvlaran/p4forest/internal/assert"
	"github.com/katalvlaran/p4forest/quadrant"
	"github.com/katalvlaran/p4forest/qtree"
)

// Region fills the open interval (a,b) of t — which must hold exactly
// those two quadrants, a strictly less than b — with the minimal sorted
// set of quadrants tiling it, per spec.md §4.D. init materializes the
// payload for each newly inserted quadrant; a and b keep the payloads
// already stored in t. If includeB is false the range is half-open and b
// is dropped from the result (the caller re-appends it, e.g. across a
// tree boundary, via its own logic).
//
// Precondition violation (t.Len() != 2, or a not strictly less than b) is
// a programmer error and panics, per spec.md §7.
func Region[V any](t *qtree.Tree[V], includeB bool, init func(quadrant.Quadrant) V) {
	assert.That(t.Len() == 2, "complete.Region: tree must hold exactly two quadrants, got %d", t.Len())

	dim := t.Dim
	a, b := t.Quadrants[0], t.Quadrants[1]
	aPayload, bPayload := t.Payloads[0], t.Payloads[1]
	assert.That(quadrant.Less(dim, a, b), "complete.Region: a must be strictly less than b")

	var out []quadrant.Quadrant
	var visit func(w quadrant.Quadrant)
	visit = func(w quadrant.Quadrant) {
		if w == a || w == b {
			return // boundary quadrants are handled by the caller, not re-emitted here
		}
		if quadrant.Less(dim, a, w) && quadrant.Less(dim, w, b) && !quadrant.IsAncestor(dim, w, b) {
			out = append(out, w)
			return
		}
		if quadrant.IsAncestor(dim, w, a) || quadrant.IsAncestor(dim, w, b) {
			for _, c := range quadrant.Children(dim, w) {
				visit(c)
			}
		}
		// otherwise w lies wholly outside (a,b): discard
	}

	anc := quadrant.NearestCommonAncestor(dim, a, b)
	for _, c := range quadrant.Children(dim, anc) {
		visit(c)
	}

	quads := make([]quadrant.Quadrant, 0, len(out)+2)
	payloads := make([]V, 0, len(out)+2)
	quads = append(quads, a)
	payloads = append(payloads, aPayload)
	for _, w := range out {
		quads = append(quads, w)
		payloads = append(payloads, init(w))
	}
	if includeB {
		quads = append(quads, b)
		payloads = append(payloads, bPayload)
	}

	t.Quadrants = quads
	t.Payloads = payloads
	t.Recompute()
}
