// Package overlap implements Component G: for each locally owned quadrant
// lying near a tree boundary, compute which neighboring trees need to hear
// about it before they can run their own 2:1 balance (spec.md §4.G).
//
// Compute forms each input quadrant's 3x3(x3) same-level insulation; any
// insulation cell that stays inside the owning tree is already visible to
// that tree's own balance and is skipped. A cell that falls in the
// one-layer extended region crosses exactly one tree boundary — a face
// (one axis out of range), an edge (3D, two axes), or a corner (every
// axis) — and is looked up via Connectivity, transformed into the
// neighbor's coordinate system, and emitted as a send candidate.
//
// The remote-content precheck the legacy implementation used to cut send
// volume (skip a candidate if the neighbor tree already has something fine
// enough there) is deliberately omitted here: without a ghost-layer
// mirror of remote tree content (explicitly out of scope, spec.md §1),
// the cheapest correct choice is to over-send rather than guess, exactly
// like balance's over-generated edge candidates — redundant candidates
// cost bandwidth, never correctness. Uniqify collapses exact repeats; the
// forest's exchange ships candidates without it, and balance's per-level
// dedup absorbs the repeats that arrive.
package overlap
