// Package qtree implements Component B of the forest: the per-root tree
// container. A Tree owns a Morton-sorted sequence of quadrants and their
// payloads, a per-level population count, a cached maxlevel, and cached
// first/last finest-level descendants of its boundary quadrants. It does
// no reordering itself — callers insert in Morton order, or call Sort
// after a batch of out-of-order inserts (as the balance engine's
// candidate sweep does).
package qtree
