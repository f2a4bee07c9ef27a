package linearize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/p4forest/linearize"
	"github.com/katalvlaran/p4forest/quadrant"
	"github.com/katalvlaran/p4forest/qtree"
)

func TestLinearizeDropsAncestors(t *testing.T) {
	root := quadrant.New2(0, 0, 0)
	kids := quadrant.Children(quadrant.Dim2, root)

	tr := qtree.New[int](quadrant.Dim2)
	tr.Push(root, 0)
	for i, c := range kids {
		tr.Push(c, i+1)
	}
	linearize.Linearize(tr)

	assert.Equal(t, 4, tr.Len())
	for i, q := range tr.Quadrants {
		assert.Equal(t, kids[i], q)
	}
}

func TestLinearizeNoopOnAlreadyLinear(t *testing.T) {
	root := quadrant.New2(0, 0, 0)
	kids := quadrant.Children(quadrant.Dim2, root)
	tr := qtree.New[int](quadrant.Dim2)
	for i, c := range kids {
		tr.Push(c, i)
	}
	linearize.Linearize(tr)
	assert.Equal(t, 4, tr.Len())
}

func TestLinearizeDropsExactDuplicates(t *testing.T) {
	root := quadrant.New2(0, 0, 0)
	kids := quadrant.Children(quadrant.Dim2, root)

	tr := qtree.New[int](quadrant.Dim2)
	tr.Push(kids[0], 0)
	tr.Push(kids[0], 1)
	for i, c := range kids[1:] {
		tr.Push(c, i+2)
	}
	linearize.Linearize(tr)

	assert.Equal(t, 4, tr.Len())
	for i, q := range tr.Quadrants {
		assert.Equal(t, kids[i], q)
	}
}

func TestRemoveNonOwnedDropsExtended(t *testing.T) {
	h := quadrant.SideLen(quadrant.Dim2, 1)
	inside := quadrant.New2(0, 0, 1)
	outside := quadrant.New2(-h, 0, 1)

	tr := qtree.New[int](quadrant.Dim2)
	tr.Push(outside, 0)
	tr.Push(inside, 1)

	linearize.RemoveNonOwned(tr, nil, nil)

	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, inside, tr.Quadrants[0])
}

func TestRemoveNonOwnedRespectsPositionBounds(t *testing.T) {
	root := quadrant.New2(0, 0, 0)
	kids := quadrant.Children(quadrant.Dim2, root)

	tr := qtree.New[int](quadrant.Dim2)
	for i, c := range kids {
		tr.Push(c, i)
	}
	first, next := kids[1], kids[3]
	linearize.RemoveNonOwned(tr, &first, &next)

	assert.Equal(t, []quadrant.Quadrant{kids[1], kids[2]}, tr.Quadrants)
}
