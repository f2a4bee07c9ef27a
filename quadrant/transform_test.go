package quadrant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/p4forest/quadrant"
)

func TestShiftCorner(t *testing.T) {
	q := quadrant.New2(0, 0, 1)
	h := quadrant.SideLen(quadrant.Dim2, 1)

	shifted := quadrant.ShiftCorner(quadrant.Dim2, q, 3) // bits (1,1): +X,+Y
	assert.Equal(t, quadrant.New2(h, h, 1), shifted)

	shifted0 := quadrant.ShiftCorner(quadrant.Dim2, q, 0) // bits (0,0): -X,-Y
	assert.Equal(t, quadrant.New2(-h, -h, 1), shifted0)
}

func TestTransformFaceIdentity(t *testing.T) {
	// Data selecting axis i unreversed for each i is the identity map.
	ft := quadrant.FaceTransform{Data: [9]int32{0, 0, 1, 0}}
	q := quadrant.New2(4, 8, 2)
	out := quadrant.TransformFace(quadrant.Dim2, q, ft)
	assert.Equal(t, q, out)
}

func TestTransformFaceReversedAxis(t *testing.T) {
	r := quadrant.Root(quadrant.Dim2)
	h := quadrant.SideLen(quadrant.Dim2, 1)
	ft := quadrant.FaceTransform{Data: [9]int32{0, 1, 1, 0}} // axis 0 reversed
	q := quadrant.New2(0, h, 1)
	out := quadrant.TransformFace(quadrant.Dim2, q, ft)
	assert.Equal(t, r-h, out.X)
	assert.Equal(t, h, out.Y)
}

func TestTransformCornerRoundTrip(t *testing.T) {
	// A corner transform mapping corner 3 to corner 0 and back is its own
	// inverse when applied twice with swapped corner ids.
	q := quadrant.New2(4, 8, 3)
	ct := quadrant.CornerTransform{NeighborCorner: 0}
	out := quadrant.TransformCorner(quadrant.Dim2, q, 3, ct)

	back := quadrant.TransformCorner(quadrant.Dim2, out, 0, quadrant.CornerTransform{NeighborCorner: 3})
	assert.Equal(t, q, back)
}

func TestTransformEdgeIdentityOrientation(t *testing.T) {
	q := quadrant.New3(4, 8, 16, 2)
	out := quadrant.TransformEdge(q, 2, quadrant.EdgeTransform{Orientation: 0})
	assert.Equal(t, q, out)
}

func TestTransformEdgeReversedOrientation(t *testing.T) {
	q := quadrant.New3(4, 8, 16, 2)
	out := quadrant.TransformEdge(q, 2, quadrant.EdgeTransform{Orientation: 1})
	assert.Equal(t, q.Y, out.X)
	assert.Equal(t, q.X, out.Y)
	assert.Equal(t, q.Z, out.Z)
}
