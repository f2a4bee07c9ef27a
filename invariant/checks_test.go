package invariant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/p4forest/invariant"
	"github.com/katalvlaran/p4forest/quadrant"
	"github.com/katalvlaran/p4forest/qtree"
)

func TestIsSortedAndIsLinear(t *testing.T) {
	root := quadrant.New2(0, 0, 0)
	kids := quadrant.Children(quadrant.Dim2, root)

	assert.True(t, invariant.IsSorted(quadrant.Dim2, kids))
	assert.True(t, invariant.IsLinear(quadrant.Dim2, kids))

	withAncestor := append([]quadrant.Quadrant{root}, kids[1:]...)
	assert.True(t, invariant.IsSorted(quadrant.Dim2, withAncestor))
	assert.False(t, invariant.IsLinear(quadrant.Dim2, withAncestor))

	reversed := []quadrant.Quadrant{kids[1], kids[0]}
	assert.False(t, invariant.IsSorted(quadrant.Dim2, reversed))
}

func TestIsComplete(t *testing.T) {
	root := quadrant.New2(0, 0, 0)
	kids := quadrant.Children(quadrant.Dim2, root)
	assert.True(t, invariant.IsComplete(quadrant.Dim2, kids))

	missing := []quadrant.Quadrant{kids[0], kids[3]}
	assert.False(t, invariant.IsComplete(quadrant.Dim2, missing))
}

func TestIsAlmostSortedAllowsMatchingOutsideRegion(t *testing.T) {
	h := quadrant.SideLen(quadrant.Dim2, 1)
	h2 := quadrant.SideLen(quadrant.Dim2, 2)
	// Both outside on X and Y (negative): the same outside corner region, so
	// an out-of-Morton-order pair between them is still admissible.
	a := quadrant.New2(-h, -h, 1)
	b := quadrant.New2(-h2, -h2, 2)
	assert.True(t, invariant.IsAlmostSorted(quadrant.Dim2, []quadrant.Quadrant{b, a}))
}

type fakeReducer struct {
	result bool
}

func (f fakeReducer) AllReduceOr(ctx context.Context, local bool) (bool, error) {
	return f.result || local, nil
}

func TestIsValidStructural(t *testing.T) {
	fs := invariant.ForestState{
		Dim:  quadrant.Dim2,
		Rank: 0, Size: 1,
		Trees: []invariant.TreeInfo{
			{Offset: 0, PerLevel: []int32{0, 4}, MaxLevel: 1, Len: 4},
		},
		GlobalFirstQuadrant: []int64{0, 4},
		GlobalFirstPosition: []qtree.Position{{Tree: 0}, {Tree: qtree.NoTree}},
		FirstLocalTree:      0,
		LastLocalTree:       0,
	}
	ok, err := invariant.IsValid(context.Background(), fakeReducer{}, fs)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestIsValidRejectsInconsistentPerLevelSum(t *testing.T) {
	fs := invariant.ForestState{
		Dim:  quadrant.Dim2,
		Rank: 0, Size: 1,
		Trees: []invariant.TreeInfo{
			{Offset: 0, PerLevel: []int32{0, 3}, MaxLevel: 1, Len: 4},
		},
		GlobalFirstQuadrant: []int64{0, 4},
		GlobalFirstPosition: []qtree.Position{{Tree: 0}, {Tree: qtree.NoTree}},
		FirstLocalTree:      0,
		LastLocalTree:       0,
	}
	ok, err := invariant.IsValid(context.Background(), fakeReducer{}, fs)
	assert.NoError(t, err)
	assert.False(t, ok)
}
