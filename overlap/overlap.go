package overlap

import (
	"sort"

	"github.com/katalvlaran/p4forest/internal/qpool"
	"github.com/katalvlaran/p4forest/quadrant"
)

// candidateScratch backs Compute's output accumulator; ReleaseCandidates
// returns a slice to it once a caller is done reading the result, so the
// next Compute call can reuse its backing array.
var candidateScratch = qpool.NewQuadrantScratch[Candidate]()

// ReleaseCandidates returns c, previously returned by Compute, to the
// shared scratch pool. Callers must not use c afterward.
func ReleaseCandidates(c []Candidate) {
	candidateScratch.Put(c)
}

// Local is one locally owned quadrant, tagged with the tree it belongs to.
type Local struct {
	Tree int
	Quad quadrant.Quadrant
}

// Candidate is an overlap output entry: a quadrant expressed in the
// coordinate system of the tree that needs to receive it.
type Candidate struct {
	Tree int
	Quad quadrant.Quadrant
}

// Connectivity is the subset of the connectivity graph overlap consumes:
// face, edge, and corner transforms between adjacent trees (spec.md §6).
// Face index is axis*2+side (side 0 negative, 1 positive); corner index is
// the same child-id bit convention quadrant.ChildID uses; edge index (3D
// only) is EdgeIndex's convention.
type Connectivity interface {
	FaceTransform(tree, face int) (quadrant.FaceTransform, bool)
	EdgeTransforms(tree, edge int) []quadrant.EdgeTransform
	CornerTransforms(tree, corner int) []quadrant.CornerTransform
}

// Variant selects which overlap algorithm Compute runs.
type Variant int

const (
	// Legacy outputs the extended neighbor cell itself, transformed into
	// the remote tree's frame.
	Legacy Variant = iota
	// Seeded additionally outputs the zero-sibling of that cell and of each
	// of its ancestors, down to level 1 — the minimal set of coarser quadrants a
	// remote fine quadrant touching the boundary would force to split.
	Seeded
)

// EdgeIndex returns the 3D edge index for the axis running along the edge
// and the sign (0 negative, 1 positive) of each of the other two axes, in
// ascending axis order.
func EdgeIndex(along, signLow, signHigh int) int {
	return along*4 + signLow<<1 | signHigh
}

// FaceIndex returns the face index for an axis and a side (0 negative, 1
// positive).
func FaceIndex(axis, side int) int {
	return axis*2 + side
}

// Compute runs the overlap algorithm over in, per spec.md §4.G, and
// returns the (possibly duplicate-laden) set of candidates to send.
// Callers should pass the result through Uniqify before transmission.
func Compute(dim quadrant.Dim, in []Local, conn Connectivity, variant Variant) []Candidate {
	out := candidateScratch.Get()
	for _, loc := range in {
		for _, off := range insulationOffsets(dim) {
			if off == (offset{}) {
				continue
			}
			s := shift(dim, loc.Quad, off)
			out = append(out, crossTreeTargets(dim, loc.Tree, s, conn)...)
			if variant == Seeded {
				for _, seed := range Seeds(dim, s) {
					out = append(out, crossTreeTargets(dim, loc.Tree, seed, conn)...)
				}
			}
		}
	}
	return out
}

// Seeds returns the zero-sibling of every ancestor of q, from q's own
// level down to level 1.
func Seeds(dim quadrant.Dim, q quadrant.Quadrant) []quadrant.Quadrant {
	if q.Level == 0 {
		return nil
	}
	out := make([]quadrant.Quadrant, 0, q.Level)
	cur := q
	for cur.Level >= 1 {
		out = append(out, quadrant.Sibling(dim, cur, 0))
		cur = quadrant.Parent(dim, cur)
	}
	return out
}

// crossTreeTargets determines which tree boundary s crosses (relative to
// tree's own frame), looks up every matching connectivity transform, and
// returns s mapped into each neighbor's coordinate system. Returns nil if
// s does not actually cross a boundary (inside root: the owning tree's own
// balance already sees it) or lies beyond the one-layer extended region.
func crossTreeTargets(dim quadrant.Dim, tree int, s quadrant.Quadrant, conn Connectivity) []Candidate {
	if quadrant.IsInsideRoot(dim, s) {
		return nil
	}
	if !quadrant.IsExtended(dim, s) {
		return nil
	}
	axes, signs := boundaryAxes(dim, s)

	switch {
	case len(axes) == 1:
		face := FaceIndex(axes[0], signs[0])
		ft, ok := conn.FaceTransform(tree, face)
		if !ok {
			return nil
		}
		return []Candidate{{Tree: ft.NeighborTree, Quad: quadrant.TransformFace(dim, s, ft)}}

	case dim == quadrant.Dim3 && len(axes) == 2:
		along := 3 - axes[0] - axes[1]
		edge := EdgeIndex(along, signs[0], signs[1])
		ets := conn.EdgeTransforms(tree, edge)
		out := make([]Candidate, 0, len(ets))
		for _, et := range ets {
			out = append(out, Candidate{Tree: et.NeighborTree, Quad: quadrant.TransformEdge(s, along, et)})
		}
		return out

	case len(axes) == int(dim):
		corner := 0
		for i, ax := range axes {
			if signs[i] == 1 {
				corner |= 1 << uint(ax)
			}
		}
		cts := conn.CornerTransforms(tree, corner)
		out := make([]Candidate, 0, len(cts))
		for _, ct := range cts {
			out = append(out, Candidate{Tree: ct.NeighborTree, Quad: quadrant.TransformCorner(dim, s, corner, ct)})
		}
		return out
	}
	return nil
}

// boundaryAxes reports which axes of s lie outside [0,R) and, for each,
// which side (0 negative, 1 positive).
func boundaryAxes(dim quadrant.Dim, s quadrant.Quadrant) (axes []int, signs []int) {
	r := quadrant.Root(dim)
	n := 2
	if dim == quadrant.Dim3 {
		n = 3
	}
	coords := [3]int32{s.X, s.Y, s.Z}
	for a := 0; a < n; a++ {
		v := coords[a]
		switch {
		case v < 0:
			axes = append(axes, a)
			signs = append(signs, 0)
		case v >= r:
			axes = append(axes, a)
			signs = append(signs, 1)
		}
	}
	return axes, signs
}

// offset is a same-level insulation displacement, in units of h(level): -1,
// 0, or +1 per axis.
type offset struct{ dx, dy, dz int32 }

func insulationOffsets(dim quadrant.Dim) []offset {
	vals := [3]int32{-1, 0, 1}
	var out []offset
	if dim == quadrant.Dim3 {
		for _, dz := range vals {
			for _, dy := range vals {
				for _, dx := range vals {
					out = append(out, offset{dx, dy, dz})
				}
			}
		}
		return out
	}
	for _, dy := range vals {
		for _, dx := range vals {
			out = append(out, offset{dx, dy, 0})
		}
	}
	return out
}

func shift(dim quadrant.Dim, q quadrant.Quadrant, off offset) quadrant.Quadrant {
	h := quadrant.SideLen(dim, q.Level)
	out := q
	out.X += off.dx * h
	out.Y += off.dy * h
	if dim == quadrant.Dim3 {
		out.Z += off.dz * h
	}
	return out
}

// Uniqify sorts out by (Tree, Morton order), drops exact duplicates, and
// drops any entry already present in skip.
func Uniqify(dim quadrant.Dim, out []Candidate, skip []Candidate) []Candidate {
	skipSet := make(map[Candidate]struct{}, len(skip))
	for _, c := range skip {
		skipSet[c] = struct{}{}
	}

	sorted := append([]Candidate{}, out...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Tree != b.Tree {
			return a.Tree < b.Tree
		}
		return quadrant.Less(dim, a.Quad, b.Quad)
	})

	result := make([]Candidate, 0, len(sorted))
	for i, c := range sorted {
		if _, skip := skipSet[c]; skip {
			continue
		}
		if i > 0 && c == sorted[i-1] {
			continue
		}
		result = append(result, c)
	}
	return result
}
