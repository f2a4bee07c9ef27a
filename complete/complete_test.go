package complete_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/p4forest/complete"
	"github.com/katalvlaran/p4forest/invariant"
	"github.com/katalvlaran/p4forest/quadrant"
	"github.com/katalvlaran/p4forest/qtree"
)

func TestRegionFillsEntireRootFromCorners(t *testing.T) {
	root := quadrant.New2(0, 0, 0)
	kids := quadrant.Children(quadrant.Dim2, root)
	a, b := kids[0], kids[3]

	tr := qtree.New[int](quadrant.Dim2)
	tr.Push(a, 1)
	tr.Push(b, 2)

	complete.Region(tr, true, func(quadrant.Quadrant) int { return -1 })

	require.True(t, invariant.IsComplete(quadrant.Dim2, tr.Quadrants))
	assert.Equal(t, a, tr.Quadrants[0])
	assert.Equal(t, b, tr.Quadrants[tr.Len()-1])
	assert.Equal(t, 1, tr.Payloads[0])
	assert.Equal(t, 2, tr.Payloads[tr.Len()-1])
}

func TestRegionExcludesB(t *testing.T) {
	root := quadrant.New2(0, 0, 0)
	kids := quadrant.Children(quadrant.Dim2, root)
	a, b := kids[0], kids[3]

	tr := qtree.New[int](quadrant.Dim2)
	tr.Push(a, 1)
	tr.Push(b, 2)

	complete.Region(tr, false, func(quadrant.Quadrant) int { return -1 })

	for _, q := range tr.Quadrants {
		assert.NotEqual(t, b, q)
	}
	require.True(t, invariant.IsComplete(quadrant.Dim2, tr.Quadrants))
}

func TestRegionAdjacentPairIsNoop(t *testing.T) {
	L := quadrant.MaxLevel(quadrant.Dim2)
	a := quadrant.New2(0, 0, L)
	b := quadrant.New2(1, 0, L)
	require.True(t, quadrant.IsNext(quadrant.Dim2, a, b))

	tr := qtree.New[int](quadrant.Dim2)
	tr.Push(a, 1)
	tr.Push(b, 2)
	complete.Region(tr, true, func(quadrant.Quadrant) int { return -1 })

	assert.Equal(t, []quadrant.Quadrant{a, b}, tr.Quadrants)
}

func TestRegionPanicsOnWrongLength(t *testing.T) {
	tr := qtree.New[int](quadrant.Dim2)
	tr.Push(quadrant.New2(0, 0, 0), 0)
	assert.Panics(t, func() {
		complete.Region(tr, true, func(quadrant.Quadrant) int { return 0 })
	})
}
