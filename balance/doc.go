// Package balance implements Component E: enforcing the 2:1 size ratio
// between neighboring quadrants — across faces and, depending on the
// selector, edges and corners — per spec.md §4.E.
//
// Subtree performs a single bottom-up sweep, level maxlevel down to 1. For
// every quadrant at the current level — both original input and anything
// the sweep itself inserted at this level while walking finer levels — it
// generates the family's own missing siblings plus its parent's face
// neighbors and, depending on the selector, its edge (3D only) and corner
// neighbors, one level coarser. Each candidate is
// deduplicated against a per-level set before being scheduled; scheduled
// candidates are what the next (coarser) level sweeps over. The result,
// once the sweep bottoms out at level 1 and the accumulated candidates are
// merged in and linearized, is a tree where no two quadrants that touch
// across a selected face, edge or corner are more than one level apart.
package balance
