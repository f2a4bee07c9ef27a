package quadrant

// MortonKey interleaves a quadrant's anchor coordinates into a single
// 64-bit space-filling-curve key. Coordinates are already expressed in
// finest-grid units (spec.md §3), so no rescaling by level is needed: a
// coarse quadrant's anchor and its finest-level first descendant share the
// same key, which is exactly the tie the level tiebreak in Compare
// resolves.
//
// d*MaxLevel(dim) bits are interleaved: 60 for 2D (d=2, L=30), 57 for 3D
// (d=3, L=19) — both fit comfortably in uint64.
func MortonKey(dim Dim, q Quadrant) uint64 {
	l := int(MaxLevel(dim))
	var key uint64
	if dim == Dim3 {
		for b := l - 1; b >= 0; b-- {
			key <<= 3
			key |= uint64((q.X>>uint(b))&1) << 0
			key |= uint64((q.Y>>uint(b))&1) << 1
			key |= uint64((q.Z>>uint(b))&1) << 2
		}
		return key
	}
	for b := l - 1; b >= 0; b-- {
		key <<= 2
		key |= uint64((q.X>>uint(b))&1) << 0
		key |= uint64((q.Y>>uint(b))&1) << 1
	}
	return key
}

// Compare implements the Morton total order of spec.md §3: quadrants are
// ordered by interleaved anchor bits, with ties (one quadrant is an
// ancestor of the other, so they share the same anchor) broken by level —
// the coarser (ancestor) quadrant sorts first. Returns -1, 0, or 1.
func Compare(dim Dim, a, b Quadrant) int {
	ka, kb := MortonKey(dim, a), MortonKey(dim, b)
	switch {
	case ka < kb:
		return -1
	case ka > kb:
		return 1
	case a.Level < b.Level:
		return -1
	case a.Level > b.Level:
		return 1
	default:
		return 0
	}
}

// Less reports whether a sorts strictly before b.
func Less(dim Dim, a, b Quadrant) bool {
	return Compare(dim, a, b) < 0
}

// IsNext reports whether b is the Morton successor of a with no gap: a's
// last descendant at the finest level and b's first descendant at the
// finest level are adjacent along the space-filling curve.
func IsNext(dim Dim, a, b Quadrant) bool {
	l := MaxLevel(dim)
	lastA := LastDescendant(dim, a, l)
	firstB := FirstDescendant(dim, b, l)
	return MortonKey(dim, firstB) == MortonKey(dim, lastA)+1
}
