package qtree

import "github.com/katalvlaran/p4forest/quadrant"

// Position identifies a process's first owned leaf: a tree index plus the
// leaf's anchor and level within that tree (spec.md §3,
// global_first_position). The forest package fills the one-past-the-end
// entry global_first_position[P] with Tree equal to the number of trees,
// and gives an empty process the position of the next quadrant after it.
type Position struct {
	Tree int
	Quad quadrant.Quadrant
}

// NoTree is the sentinel first-local-tree index of an empty process,
// spec.md §3: "(-1, -2)". Empty reports a Position whose Tree holds it;
// the quadrant part of such a Position is ignored.
const NoTree = -1

// NoLastTree is the sentinel value for an empty process's last owned
// tree index, paired with NoTree as first: spec.md §3, "empty processes
// use (-1, -2)".
const NoLastTree = -2

// Empty reports whether p is the empty-process sentinel.
func (p Position) Empty() bool { return p.Tree == NoTree }
