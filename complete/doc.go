// Package complete implements Component D: given a tree holding exactly
// two quadrants a < b, insert the minimal Morton-sorted set of quadrants
// covering the open interval (a,b) exactly, optionally including b.
//
// The algorithm follows spec.md §4.D: starting from the nearest common
// ancestor of a and b, descend its children; a child strictly between a
// and b that is not itself an ancestor of b is emitted directly, a child
// that is an ancestor of a or b is expanded into its own children, and
// anything else is discarded. Every quadrant a family-local subdivision
// touches is either wholly inside (a,b), another ancestor to expand, or
// wholly outside — so the recursion terminates and the result is exactly
// the completion of (a,b).
package complete
