// Package qpool pools the transient quadrant/candidate scratch slices
// balance and overlap allocate and discard on every call, per spec.md
// §3's lifecycle note ("a scratch quadrant pool serves transient
// candidates in balance").
package qpool

import "sync"

// QuadrantScratch pools []Q-shaped buffers of the kind balance.Subtree's
// per-level bank/outlist loop and overlap.Compute's candidate
// accumulator allocate and discard on every call; callers import
// quadrant or overlap themselves and pass those types through Q, so this
// package stays generic.
type QuadrantScratch[Q any] struct {
	pool sync.Pool
}

// NewQuadrantScratch returns an empty QuadrantScratch.
func NewQuadrantScratch[Q any]() *QuadrantScratch[Q] {
	return &QuadrantScratch[Q]{}
}

// Get returns a zero-length slice with leftover capacity from a prior Put,
// or a nil slice if the pool is empty.
func (s *QuadrantScratch[Q]) Get() []Q {
	if v := s.pool.Get(); v != nil {
		return v.([]Q)[:0]
	}
	return nil
}

// Put returns buf to the pool for reuse, truncated to zero length.
func (s *QuadrantScratch[Q]) Put(buf []Q) {
	s.pool.Put(buf[:0])
}
