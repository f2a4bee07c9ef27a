// Package forest assembles Components A-H plus the connectivity and
// comm external collaborators into the top-level Forest facade spec.md
// §3 describes: a sequence of trees indexed by a connectivity graph, this
// process's rank/size and owned tree range, and the global_first_quadrant
// / global_first_position bookkeeping every other package's invariants are
// checked against.
//
// Forest does not reimplement any algorithm: BalanceLocal drives
// balance.Subtree per locally owned tree, BalanceDistributed drives
// balance.Border, Validate builds an invariant.ForestState and
// calls invariant.IsValid, Redistribute flattens local trees into one
// sequence and drives partition.Redistribute, then re-splits the result
// back per tree using the (globally known, since trees are built
// uniformly) per-tree quadrant counts.
package forest
