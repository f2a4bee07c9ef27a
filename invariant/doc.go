// Package invariant implements Component C: the predicates that every
// tree and forest must satisfy at the checkpoints spec.md §5 names
// (completion, balance, trim, linearize, then partition). IsSorted,
// IsLinear, IsAlmostSorted, and IsComplete operate on a single sequence;
// IsValid checks the cross-process consistency of an entire forest and
// requires a bitwise-OR all-reduce, consumed here through the minimal
// Reducer interface rather than a direct comm dependency.
package invariant
