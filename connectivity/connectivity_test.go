package connectivity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/p4forest/connectivity"
	"github.com/katalvlaran/p4forest/overlap"
	"github.com/katalvlaran/p4forest/quadrant"
)

func TestNewBrick2x1BoundedHasOneInteriorFace(t *testing.T) {
	c, err := connectivity.NewBrick(quadrant.Dim2, 2, 1, 0, [3]bool{})
	require.NoError(t, err)
	require.Equal(t, 2, c.NumTrees())

	ft, ok := c.FaceTransform(0, overlap.FaceIndex(0, 1))
	require.True(t, ok)
	assert.Equal(t, 1, ft.NeighborTree)
	assert.Equal(t, overlap.FaceIndex(0, 0), ft.Face)

	_, ok = c.FaceTransform(1, overlap.FaceIndex(0, 1))
	assert.False(t, ok, "tree 1 is the rightmost column, has no +X neighbor without wrap")

	_, ok = c.FaceTransform(0, overlap.FaceIndex(1, 0))
	assert.False(t, ok, "single row has no -Y neighbor")
}

func TestNewBrickPeriodicWrapsBothSides(t *testing.T) {
	c, err := connectivity.NewBrick(quadrant.Dim2, 2, 1, 0, [3]bool{true, false, false})
	require.NoError(t, err)

	ft, ok := c.FaceTransform(1, overlap.FaceIndex(0, 1))
	require.True(t, ok)
	assert.Equal(t, 0, ft.NeighborTree, "periodic axis wraps tree 1's +X face back to tree 0")
}

func TestNewBrickFaceTransformTranslatesAcrossBoundary(t *testing.T) {
	c, err := connectivity.NewBrick(quadrant.Dim2, 2, 1, 0, [3]bool{})
	require.NoError(t, err)

	ft, ok := c.FaceTransform(0, overlap.FaceIndex(0, 1))
	require.True(t, ok)

	r := quadrant.Root(quadrant.Dim2)
	h := quadrant.SideLen(quadrant.Dim2, 1)
	// s sits exactly at tree 0's +X boundary, extended by one insulation step.
	s := quadrant.New2(r, h, 1)
	out := quadrant.TransformFace(quadrant.Dim2, s, ft)
	assert.Equal(t, -h, out.X, "crossing the shared face flips the face-normal axis into tree 1's negative extension")
	assert.Equal(t, h, out.Y, "the tangential axis is untouched for an axis-aligned brick")
}

func TestNewBrickCornerTransformIsOppositeCorner(t *testing.T) {
	c, err := connectivity.NewBrick(quadrant.Dim2, 2, 2, 0, [3]bool{})
	require.NoError(t, err)

	cts := c.CornerTransforms(0, 3) // tree (0,0)'s top-right corner
	require.Len(t, cts, 1)
	assert.Equal(t, 3, cts[0].NeighborTree) // diagonal tree (1,1)
	assert.Equal(t, 0, cts[0].NeighborCorner)
}

func TestNewBrick3DHasEdgeNeighbors(t *testing.T) {
	c, err := connectivity.NewBrick(quadrant.Dim3, 2, 2, 2, [3]bool{})
	require.NoError(t, err)

	edge := overlap.EdgeIndex(2, 1, 1) // along Z, +X +Y corner of the Z-column
	ets := c.EdgeTransforms(0, edge)
	require.Len(t, ets, 1)
	assert.Equal(t, overlap.EdgeIndex(2, 0, 0), ets[0].NeighborEdge)
}

func TestNewBrickRejectsBadDimensions(t *testing.T) {
	_, err := connectivity.NewBrick(quadrant.Dim2, 0, 1, 0, [3]bool{})
	assert.Error(t, err)
}

func TestNewBrickNeighborsListsEveryAdjacentTree(t *testing.T) {
	c, err := connectivity.NewBrick(quadrant.Dim2, 2, 2, 0, [3]bool{})
	require.NoError(t, err)

	// tree (0,0) touches (1,0) and (0,1) by face, (1,1) by corner.
	neighbors := c.Neighbors(0)
	assert.ElementsMatch(t, []int{1, 2, 3}, neighbors)
}

func TestNewBrickNeighborsIsEmptyForAnIsolatedSingleTree(t *testing.T) {
	c, err := connectivity.NewBrick(quadrant.Dim2, 1, 1, 0, [3]bool{})
	require.NoError(t, err)
	assert.Empty(t, c.Neighbors(0))
}
