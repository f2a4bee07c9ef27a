package invariant

import (
	"context"

	"github.com/katalvlaran/p4forest/quadrant"
	"github.com/katalvlaran/p4forest/qtree"
)

// Reducer is the minimal all-reduce capability IsValid needs: a bitwise
// OR across every rank's local bool. Any comm.Transport satisfies it.
type Reducer interface {
	AllReduceOr(ctx context.Context, local bool) (bool, error)
}

// TreeInfo is the subset of a qtree.Tree's cached state IsValid checks;
// kept as plain data here so this package never depends on the top-level
// forest package.
type TreeInfo struct {
	Offset    int64
	PerLevel  []int32
	MaxLevel  uint8
	FirstDesc quadrant.Quadrant
	LastDesc  quadrant.Quadrant
	Len       int
}

// ForestState is the cross-process snapshot IsValid inspects.
type ForestState struct {
	Dim                 quadrant.Dim
	Rank, Size          int
	Trees               []TreeInfo
	GlobalFirstQuadrant []int64          // length Size+1
	GlobalFirstPosition []qtree.Position // length Size+1
	FirstLocalTree      int
	LastLocalTree       int
}

// localTotal returns this rank's local quadrant count.
func (fs ForestState) localTotal() int64 {
	var n int64
	for _, t := range fs.Trees {
		n += int64(t.Len)
	}
	return n
}

// localValid checks the purely-local half of I1-I3: GlobalFirstQuadrant
// starts at 0, never decreases, and gives this rank a share equal to its
// local quadrant count; per-tree offsets and per-level counts are
// internally consistent; an empty process uses the (-1,-2) sentinel pair.
// It does not compare FirstDesc, LastDesc or the GlobalFirstPosition
// entries with tree content, and it does not check is_complete/is_linear
// of each tree's content — that is the caller's job after
// completion/balance; IsValid is a structural, not content, check.
func localValid(fs ForestState) bool {
	if len(fs.GlobalFirstQuadrant) != fs.Size+1 {
		return false
	}
	if len(fs.GlobalFirstPosition) != fs.Size+1 {
		return false
	}
	if fs.GlobalFirstQuadrant[0] != 0 {
		return false
	}
	for i := 1; i <= fs.Size; i++ {
		if fs.GlobalFirstQuadrant[i] < fs.GlobalFirstQuadrant[i-1] {
			return false
		}
	}
	if fs.Rank < 0 || fs.Rank >= fs.Size {
		return false
	}
	if fs.GlobalFirstQuadrant[fs.Rank+1]-fs.GlobalFirstQuadrant[fs.Rank] != fs.localTotal() {
		return false
	}

	offset := int64(0)
	for _, t := range fs.Trees {
		if t.Offset != offset {
			return false
		}
		var sum int32
		maxLevel := uint8(0)
		for lvl, c := range t.PerLevel {
			if c < 0 {
				return false
			}
			sum += c
			if c > 0 {
				maxLevel = uint8(lvl)
			}
		}
		if int(sum) != t.Len {
			return false
		}
		if t.Len > 0 && maxLevel != t.MaxLevel {
			return false
		}
		offset += int64(t.Len)
	}

	empty := fs.FirstLocalTree > fs.LastLocalTree
	if empty {
		// An empty process must use the (-1,-2)-style sentinel pair;
		// a non-empty one must not.
		if fs.FirstLocalTree != qtree.NoTree || fs.LastLocalTree != qtree.NoLastTree {
			return false
		}
	} else if fs.FirstLocalTree == qtree.NoTree {
		return false
	}

	return true
}

// IsValid evaluates the structural part of spec.md §4.C's is_valid(forest)
// predicate that localValid covers: each rank computes its local
// structural validity, then a bitwise-OR
// all-reduce over "!local" determines global validity — a single
// process's failure fails the whole collective, per spec.md §7.
func IsValid(ctx context.Context, r Reducer, fs ForestState) (bool, error) {
	failed, err := r.AllReduceOr(ctx, !localValid(fs))
	if err != nil {
		return false, err
	}
	return !failed, nil
}
