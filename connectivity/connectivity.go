package connectivity

import (
	"fmt"

	"github.com/katalvlaran/p4forest/overlap"
	"github.com/katalvlaran/p4forest/quadrant"
)

// faceKey, edgeKey, and cornerKey index the side tables that carry the
// transform metadata overlap consults: which neighbor tree, and
// under what orientation, sits across a given local face/edge/corner.
type faceKey struct{ tree, face int }
type edgeKey struct{ tree, edge int }
type cornerKey struct{ tree, corner int }

// Connectivity is a concrete overlap.Connectivity lookup: one entry per
// tree, transform data held in side tables keyed
// by (tree, local face/edge/corner index). adjacency additionally
// records, for each tree, the set of neighbor trees reachable by any
// face/edge/corner — the topology a traversal or diagnostic over the
// brick would walk.
type Connectivity struct {
	numTrees  int
	adjacency []map[int]struct{}
	faces     map[faceKey]quadrant.FaceTransform
	edges     map[edgeKey][]quadrant.EdgeTransform
	corners   map[cornerKey][]quadrant.CornerTransform
}

// NumTrees reports how many trees this connectivity graph describes.
func (c *Connectivity) NumTrees() int { return c.numTrees }

// Neighbors returns the distinct trees adjacent to tree across any
// face, edge, or corner, for traversal and diagnostics (e.g. a CLI
// command printing the brick layout).
func (c *Connectivity) Neighbors(tree int) []int {
	out := make([]int, 0, len(c.adjacency[tree]))
	for n := range c.adjacency[tree] {
		out = append(out, n)
	}
	return out
}

// FaceTransform implements overlap.Connectivity.
func (c *Connectivity) FaceTransform(tree, face int) (quadrant.FaceTransform, bool) {
	t, ok := c.faces[faceKey{tree, face}]
	return t, ok
}

// EdgeTransforms implements overlap.Connectivity.
func (c *Connectivity) EdgeTransforms(tree, edge int) []quadrant.EdgeTransform {
	return c.edges[edgeKey{tree, edge}]
}

// CornerTransforms implements overlap.Connectivity.
func (c *Connectivity) CornerTransforms(tree, corner int) []quadrant.CornerTransform {
	return c.corners[cornerKey{tree, corner}]
}

// NewBrick builds the mi x ni (2D) or mi x ni x ki (3D) grid-of-trees
// connectivity: tree (i,j[,k]) occupies row-major index
// k*ni*mi + j*mi + i. periodic[a] makes axis a wrap (tree grid index mi/ni/ki
// ties back to 0); otherwise trees on that axis's boundary have no
// neighbor across that face. Every face transform uses identity
// orientation on the tangential axes (an axis-aligned, unrotated brick);
// only the shared face's own axis flips sign, since crossing a tree
// boundary always turns a positive-side extension into a negative-side one
// in the neighbor's frame (see quadrant.TransformFace).
func NewBrick(dim quadrant.Dim, mi, ni, ki int, periodic [3]bool) (*Connectivity, error) {
	if mi < 1 || ni < 1 {
		return nil, fmt.Errorf("connectivity: NewBrick: mi=%d, ni=%d must each be >= 1", mi, ni)
	}
	if dim == quadrant.Dim2 {
		ki = 1
	} else if ki < 1 {
		return nil, fmt.Errorf("connectivity: NewBrick: ki=%d must be >= 1 for a 3D brick", ki)
	}

	dims := [3]int{mi, ni, ki}
	n := mi * ni * ki
	c := &Connectivity{
		numTrees:  n,
		adjacency: make([]map[int]struct{}, n),
		faces:     make(map[faceKey]quadrant.FaceTransform),
		edges:     make(map[edgeKey][]quadrant.EdgeTransform),
		corners:   make(map[cornerKey][]quadrant.CornerTransform),
	}
	for t := 0; t < n; t++ {
		c.adjacency[t] = make(map[int]struct{})
	}

	idx := func(i, j, k int) int { return k*ni*mi + j*mi + i }

	naxes := 2
	if dim == quadrant.Dim3 {
		naxes = 3
	}

	wrap := func(v, lim int, per bool) (int, bool) {
		if v >= 0 && v < lim {
			return v, true
		}
		if !per {
			return 0, false
		}
		return ((v % lim) + lim) % lim, true
	}

	for k := 0; k < ki; k++ {
		for j := 0; j < ni; j++ {
			for i := 0; i < mi; i++ {
				self := idx(i, j, k)
				coord := [3]int{i, j, k}

				// Faces: offset by +-1 along one axis.
				for axis := 0; axis < naxes; axis++ {
					for _, side := range [2]int{0, 1} {
						delta := -1
						if side == 1 {
							delta = 1
						}
						nc := coord
						nc[axis] += delta
						ni2, ok := wrap(nc[axis], dims[axis], periodic[axis])
						if !ok {
							continue
						}
						nc[axis] = ni2
						neighbor := idx(nc[0], nc[1], nc[2])
						c.addFace(self, neighbor, axis, side)
					}
				}

				// Corners: offset by +-1 along every axis simultaneously.
				for corner := 0; corner < (1 << uint(naxes)); corner++ {
					nc := coord
					ok := true
					for axis := 0; axis < naxes; axis++ {
						delta := -1
						if corner&(1<<uint(axis)) != 0 {
							delta = 1
						}
						v, o := wrap(coord[axis]+delta, dims[axis], periodic[axis])
						if !o {
							ok = false
							break
						}
						nc[axis] = v
					}
					if !ok {
						continue
					}
					neighbor := idx(nc[0], nc[1], nc[2])
					c.addCorner(self, neighbor, dim, corner)
				}

				if dim != quadrant.Dim3 {
					continue
				}
				// Edges: offset by +-1 along exactly two of the three axes.
				for along := 0; along < 3; along++ {
					perp := perpAxes(along)
					for _, signLow := range [2]int{0, 1} {
						for _, signHigh := range [2]int{0, 1} {
							nc := coord
							deltas := map[int]int{perp[0]: sign(signLow), perp[1]: sign(signHigh)}
							ok := true
							for axis, delta := range deltas {
								v, o := wrap(coord[axis]+delta, dims[axis], periodic[axis])
								if !o {
									ok = false
									break
								}
								nc[axis] = v
							}
							if !ok {
								continue
							}
							neighbor := idx(nc[0], nc[1], nc[2])
							c.addEdge(self, neighbor, along, signLow, signHigh)
						}
					}
				}
			}
		}
	}

	return c, nil
}

func sign(bit int) int {
	if bit == 1 {
		return 1
	}
	return -1
}

func perpAxes(along int) [2]int {
	switch along {
	case 0:
		return [2]int{1, 2}
	case 1:
		return [2]int{0, 2}
	default:
		return [2]int{0, 1}
	}
}

func (c *Connectivity) addFace(self, neighbor, axis, side int) {
	face := overlap.FaceIndex(axis, side)
	var data [9]int32
	for a := 0; a < 3; a++ {
		data[2*a] = int32(a)
		data[2*a+1] = 0
	}
	data[2*axis+1] = 1 // the shared face's own axis always flips sign across the boundary
	c.faces[faceKey{self, face}] = quadrant.FaceTransform{NeighborTree: neighbor, Face: axis*2 + (1 - side), Data: data}

	c.link(self, neighbor)
}

// link records self and neighbor as adjacent for Neighbors, independent
// of which face/edge/corner produced the relation.
func (c *Connectivity) link(self, neighbor int) {
	c.adjacency[self][neighbor] = struct{}{}
	c.adjacency[neighbor][self] = struct{}{}
}

func (c *Connectivity) addCorner(self, neighbor int, dim quadrant.Dim, corner int) {
	mask := 3
	if dim == quadrant.Dim3 {
		mask = 7
	}
	neighborCorner := corner ^ mask
	key := cornerKey{self, corner}
	c.corners[key] = append(c.corners[key], quadrant.CornerTransform{NeighborTree: neighbor, NeighborCorner: neighborCorner})
	c.link(self, neighbor)
}

func (c *Connectivity) addEdge(self, neighbor, along, signLow, signHigh int) {
	edge := overlap.EdgeIndex(along, signLow, signHigh)
	neighborEdge := overlap.EdgeIndex(along, 1-signLow, 1-signHigh)
	key := edgeKey{self, edge}
	c.edges[key] = append(c.edges[key], quadrant.EdgeTransform{NeighborTree: neighbor, NeighborEdge: neighborEdge, Orientation: 0})
	c.link(self, neighbor)
}
