package invariant

import "github.com/katalvlaran/p4forest/quadrant"

// IsSorted reports whether seq is in strict Morton increase.
func IsSorted(dim quadrant.Dim, seq []quadrant.Quadrant) bool {
	for i := 1; i < len(seq); i++ {
		if !quadrant.Less(dim, seq[i-1], seq[i]) {
			return false
		}
	}
	return true
}

// IsLinear reports whether seq is sorted and no quadrant is an ancestor of
// its successor.
func IsLinear(dim quadrant.Dim, seq []quadrant.Quadrant) bool {
	if !IsSorted(dim, seq) {
		return false
	}
	for i := 1; i < len(seq); i++ {
		if quadrant.IsAncestor(dim, seq[i-1], seq[i]) {
			return false
		}
	}
	return true
}

// IsAlmostSorted reports whether seq is sorted except possibly between
// consecutive quadrants that both lie in the same extended outside
// corner/edge region, where legitimate overlap is allowed (spec.md §4.C).
func IsAlmostSorted(dim quadrant.Dim, seq []quadrant.Quadrant) bool {
	for i := 1; i < len(seq); i++ {
		if quadrant.Less(dim, seq[i-1], seq[i]) {
			continue
		}
		if seq[i-1] == seq[i] {
			continue
		}
		if sameOutsideRegion(dim, seq[i-1], seq[i]) {
			continue
		}
		return false
	}
	return true
}

// sameOutsideRegion reports whether a and b both lie outside the root (in
// the extended layer) on the same combination of axes — i.e. they share
// an outside edge or corner region and so may legitimately overlap in an
// almost-sorted sequence.
func sameOutsideRegion(dim quadrant.Dim, a, b quadrant.Quadrant) bool {
	if quadrant.IsInsideRoot(dim, a) || quadrant.IsInsideRoot(dim, b) {
		return false
	}
	if !quadrant.IsExtended(dim, a) || !quadrant.IsExtended(dim, b) {
		return false
	}
	r := quadrant.Root(dim)
	outside := func(v int32) int {
		switch {
		case v < 0:
			return -1
		case v >= r:
			return 1
		default:
			return 0
		}
	}
	if outside(a.X) != outside(b.X) || outside(a.Y) != outside(b.Y) {
		return false
	}
	if dim == quadrant.Dim3 && outside(a.Z) != outside(b.Z) {
		return false
	}
	// A face region (one axis out of range) is not an edge or corner region.
	outsideAxes := 0
	if outside(a.X) != 0 {
		outsideAxes++
	}
	if outside(a.Y) != 0 {
		outsideAxes++
	}
	if dim == quadrant.Dim3 && outside(a.Z) != 0 {
		outsideAxes++
	}
	return outsideAxes >= 2
}

// IsComplete reports whether every consecutive pair in seq satisfies
// IsNext: no gap, no overlap, total tiling of the covered range.
func IsComplete(dim quadrant.Dim, seq []quadrant.Quadrant) bool {
	if !IsLinear(dim, seq) {
		return false
	}
	for i := 1; i < len(seq); i++ {
		if !quadrant.IsNext(dim, seq[i-1], seq[i]) {
			return false
		}
	}
	return true
}
