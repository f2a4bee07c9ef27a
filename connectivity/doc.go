// Package connectivity builds the tree-adjacency graph that overlap.Compute
// consults for cross-tree face, edge, and corner transforms (spec.md §6).
//
// Connectivity keeps tree indices as an adjacency set the way builder.Grid
// keeps vertices, and a side table per face/edge/corner holds the actual
// transform (the permutation/orientation data a bare adjacency entry has no
// room for). NewBrick assembles the common p4est "brick" topology — an
// mi x ni (x ki) grid of axis-aligned trees, each axis independently
// toroidal or bounded — by driving the same row-major vertex/edge
// construction technique builder.Grid uses.
package connectivity
