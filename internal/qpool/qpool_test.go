package qpool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/p4forest/internal/qpool"
)

func TestQuadrantScratchReusesCapacity(t *testing.T) {
	s := qpool.NewQuadrantScratch[int]()
	assert.Nil(t, s.Get(), "an empty scratch pool returns nil")

	buf := []int{1, 2, 3}
	s.Put(buf)

	got := s.Get()
	assert.Empty(t, got)
	assert.GreaterOrEqual(t, cap(got), 3)
}
