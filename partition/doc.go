// Package partition implements Component H: given target per-process
// quadrant counts, move the current global Morton-ordered sequence so each
// process ends up owning exactly its target count, preserving order and
// payloads (spec.md §4.H).
//
// Redistribute operates on a flat, already-concatenated-across-trees
// sequence: ComputePlan works directly from the global_first_quadrant-style
// prefix sums spec.md §3 already defines, computing each peer's
// intersection with this rank's old and new ranges (steps 1-2); Pack/Unpack
// implement the wire layout of spec.md §6; Redistribute posts the
// receives, sends the overlapping slices, waits, and returns the new local
// sequence (steps 3-7). The per-tree count framing spec.md §4.H step 3
// describes (num_recv_trees, per-tree send counts) is deliberately left to
// the forest layer, which owns tree-boundary knowledge: partition itself
// moves a flat sequence, and re-splitting it into per-tree Tree values
// (step 8, recomputing first_desc/last_desc/quadrants_per_level/maxlevel)
// is the forest package's job once it receives partition's output.
package partition
