// Package p4forest is a parallel adaptive-mesh forest library: a
// collection of quadtrees/octrees ("trees"), one per leaf of an external
// connectivity graph, each holding a Morton-ordered sequence of square
// (cubic, in 3D) cells ("quadrants") refined to arbitrary, non-uniform
// depth.
//
// A Forest (package forest) owns a contiguous, evenly-split range of the
// global quadrant sequence per process and drives the algorithms beneath
// it without reimplementing them:
//
//	quadrant/      — Morton-ordered quadrant algebra: ancestry, siblings,
//	                 parent/child navigation, face/edge/corner transforms
//	qtree/         — the per-root Morton-sorted sequence container
//	invariant/     — sorted/linear/almost-sorted/complete predicates, plus
//	                 the cross-process validity check
//	complete/      — fills the gap between two quadrants with the minimal
//	                 covering set
//	balance/       — enforces the 2:1 size ratio between touching quadrants
//	linearize/     — drops ancestor/descendant redundancy and non-owned
//	                 quadrants
//	overlap/       — computes which neighboring trees need to see a
//	                 boundary quadrant before they balance
//	partition/     — redistributes the global sequence to new per-process
//	                 targets
//	connectivity/  — the tree-adjacency graph overlap consults for
//	                 cross-tree transforms
//	comm/          — the point-to-point + all-reduce transport the
//	                 distributed algorithms run over
//
// See SPEC_FULL.md for the full design and DESIGN.md for how each package
// traces back to its source.
package p4forest
