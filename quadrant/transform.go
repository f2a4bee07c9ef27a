package quadrant

// FaceTransform describes how coordinates on a shared face between two
// trees map into the neighbor tree's coordinate system. Data holds the
// connectivity's raw 9-entry permutation/orientation record (spec.md §6);
// it is opaque to this package and only interpreted by TransformFace.
type FaceTransform struct {
	NeighborTree int
	Face         int
	Data         [9]int32
}

// EdgeTransform describes a 3D edge-neighbor mapping: the neighbor tree,
// the matching edge id on that tree, and a relative orientation (0 or 1).
type EdgeTransform struct {
	NeighborTree int
	NeighborEdge int
	Orientation  int
}

// CornerTransform describes a corner-neighbor mapping: the neighbor tree
// and the matching corner id on that tree.
type CornerTransform struct {
	NeighborTree   int
	NeighborCorner int
}

// ShiftCorner offsets q by one side length along every axis, toward the
// given corner id (the same child-id bit convention as ChildID): bit set
// shifts positive, bit clear shifts negative.
func ShiftCorner(dim Dim, q Quadrant, corner int) Quadrant {
	h := SideLen(dim, q.Level)
	out := q
	if corner&1 != 0 {
		out.X += h
	} else {
		out.X -= h
	}
	if corner&2 != 0 {
		out.Y += h
	} else {
		out.Y -= h
	}
	if dim == Dim3 {
		if corner&4 != 0 {
			out.Z += h
		} else {
			out.Z -= h
		}
	}
	return out
}

// TransformFace maps q (assumed extended across the shared face, i.e. one
// of its coordinates lies outside [0,R)) into the neighbor tree's
// coordinate system described by t. Data[0..5] encode, per axis of the
// neighbor tree, which source axis it reads (Data[2*i]) and whether it is
// reversed (Data[2*i+1] != 0); Data[6..8] are unused padding reserved for
// future corner/edge sharing, kept for wire-format stability with §6.
func TransformFace(dim Dim, q Quadrant, t FaceTransform) Quadrant {
	r := Root(dim)
	src := [3]int32{q.X, q.Y, q.Z}
	var out [3]int32
	axes := 2
	if dim == Dim3 {
		axes = 3
	}
	for i := 0; i < axes; i++ {
		srcAxis := t.Data[2*i]
		reversed := t.Data[2*i+1] != 0
		v := src[srcAxis]
		if reversed {
			v = r - v - SideLen(dim, q.Level)
		}
		out[i] = v
	}
	res := Quadrant{X: out[0], Y: out[1], Level: q.Level}
	if dim == Dim3 {
		res.Z = out[2]
	}
	return res
}

// TransformEdge maps a 3D quadrant across a shared edge: Orientation 0
// leaves q unchanged, any other Orientation exchanges the two coordinates
// perpendicular to the edge; no coordinate is mirrored, and the axis along
// the edge is untouched.
func TransformEdge(q Quadrant, along int, t EdgeTransform) Quadrant {
	out := q
	axes := []int{0, 1, 2}
	perp := axes[:0]
	for _, a := range axes {
		if a != along {
			perp = append(perp, a)
		}
	}
	get := func(axis int) int32 {
		switch axis {
		case 0:
			return q.X
		case 1:
			return q.Y
		default:
			return q.Z
		}
	}
	set := func(axis int, v int32) {
		switch axis {
		case 0:
			out.X = v
		case 1:
			out.Y = v
		default:
			out.Z = v
		}
	}
	a0, a1 := perp[0], perp[1]
	v0, v1 := get(a0), get(a1)
	if t.Orientation != 0 {
		v0, v1 = v1, v0
	}
	set(a0, v0)
	set(a1, v1)
	return out
}

// TransformCorner maps q onto the neighbor tree sharing a corner: q is
// re-anchored to that corner's position in the neighbor tree (q's level is
// preserved; only the anchor, conceptually "at the corner", moves).
func TransformCorner(dim Dim, q Quadrant, corner int, t CornerTransform) Quadrant {
	// A corner-neighbor quadrant's distance from its own tree's corner
	// vertex is preserved across the transform; only which vertex (source
	// corner vs. neighbor corner) it is measured from changes.
	r := Root(dim)
	h := SideLen(dim, q.Level)
	distFromCorner := func(v int32, bit int) int32 {
		if bit != 0 {
			return r - v - h
		}
		return v
	}
	placeFromCorner := func(d int32, bit int) int32 {
		if bit != 0 {
			return r - d - h
		}
		return d
	}
	out := Quadrant{Level: q.Level}
	out.X = placeFromCorner(distFromCorner(q.X, corner&1), t.NeighborCorner&1)
	out.Y = placeFromCorner(distFromCorner(q.Y, (corner>>1)&1), (t.NeighborCorner>>1)&1)
	if dim == Dim3 {
		out.Z = placeFromCorner(distFromCorner(q.Z, (corner>>2)&1), (t.NeighborCorner>>2)&1)
	}
	return out
}
