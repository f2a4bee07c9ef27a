package forest

import (
	"context"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/katalvlaran/p4forest/balance"
	"github.com/katalvlaran/p4forest/comm"
	"github.com/katalvlaran/p4forest/internal/logging"
	"github.com/katalvlaran/p4forest/invariant"
	"github.com/katalvlaran/p4forest/overlap"
	"github.com/katalvlaran/p4forest/partition"
	"github.com/katalvlaran/p4forest/quadrant"
	"github.com/katalvlaran/p4forest/qtree"
)

// Connectivity is the external connectivity graph a Forest is built over:
// overlap's face/edge/corner transform lookups, plus the tree count that
// fixes the forest's length (spec.md §6, §11.1).
type Connectivity interface {
	overlap.Connectivity
	NumTrees() int
}

// Forest is the top-level facade wiring the tree container, invariant
// checkers, and the completion/balance/linearize/overlap/partition
// engines onto one connectivity graph and one comm.Transport, implementing
// spec.md §3's process-local view of a distributed forest.
type Forest[V any] struct {
	Dim  quadrant.Dim
	Conn Connectivity

	// Trees has exactly one entry per tree in Conn; an entry for a tree
	// this process owns no part of is a valid, empty *qtree.Tree[V].
	Trees []*qtree.Tree[V]

	Rank, Size int

	GlobalFirstQuadrant []int64
	GlobalFirstPosition []qtree.Position

	FirstLocalTree, LastLocalTree int

	// TreeSizes[i] is tree i's total quadrant count across every
	// process. NewUniform builds every tree to the same level, so this
	// is public knowledge every rank can compute without communication;
	// Redistribute relies on it (and on Layout) staying valid, i.e. on
	// no rank-local refinement happening outside of what every other
	// rank already knows about.
	TreeSizes []int64

	// Layout is the shared per-tree quadrant geometry NewUniform
	// instantiates identically in every tree, in Morton order. Position
	// lookups (GlobalFirstPosition, Redistribute's re-split) index into
	// it by local offset.
	Layout []quadrant.Quadrant

	Transport comm.Transport
	Logger    logging.Logger
}

// treeOffsets returns the length len(sizes)+1 prefix sum of sizes.
func treeOffsets(sizes []int64) []int64 {
	off := make([]int64, len(sizes)+1)
	for i, s := range sizes {
		off[i+1] = off[i] + s
	}
	return off
}

// locate returns which tree flat global index idx falls in (given off =
// treeOffsets(sizes)) and idx's offset within that tree.
func locate(off []int64, idx int64) (tree int, local int64) {
	tree = sort.Search(len(off)-1, func(i int) bool { return off[i+1] > idx })
	return tree, idx - off[tree]
}

// positionAt converts a flat global index into a qtree.Position, using the
// numTrees sentinel for the one-past-the-end index.
func positionAt(off []int64, layout []quadrant.Quadrant, numTrees int, idx int64) qtree.Position {
	if idx >= off[len(off)-1] {
		return qtree.Position{Tree: numTrees}
	}
	tree, local := locate(off, idx)
	return qtree.Position{Tree: tree, Quad: layout[local]}
}

// evenSplit divides total as evenly as integer division allows across
// size processes, returning the length size+1 prefix sum.
func evenSplit(total int64, size int) []int64 {
	gfq := make([]int64, size+1)
	base, rem := total/int64(size), total%int64(size)
	for i := 0; i < size; i++ {
		count := base
		if int64(i) < rem {
			count++
		}
		gfq[i+1] = gfq[i] + count
	}
	return gfq
}

// levelLayout returns every level-L quadrant of one tree's unit root, in
// Morton order — the geometry NewUniform instantiates identically in
// every tree.
func levelLayout(dim quadrant.Dim, level uint8) []quadrant.Quadrant {
	side := int32(1) << uint(level)
	h := quadrant.SideLen(dim, level)
	var out []quadrant.Quadrant
	if dim == quadrant.Dim3 {
		out = make([]quadrant.Quadrant, 0, int(side)*int(side)*int(side))
		for z := int32(0); z < side; z++ {
			for y := int32(0); y < side; y++ {
				for x := int32(0); x < side; x++ {
					out = append(out, quadrant.New3(x*h, y*h, z*h, level))
				}
			}
		}
	} else {
		out = make([]quadrant.Quadrant, 0, int(side)*int(side))
		for y := int32(0); y < side; y++ {
			for x := int32(0); x < side; x++ {
				out = append(out, quadrant.New2(x*h, y*h, level))
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return quadrant.Less(dim, out[i], out[j]) })
	return out
}

// NewUniform builds a Forest where every tree in conn is refined uniformly
// to level, and the resulting global quadrant sequence (tree-major, each
// tree Morton-sorted) is split as evenly as integer division allows across
// transport's ranks. init materializes each local quadrant's payload.
func NewUniform[V any](
	dim quadrant.Dim,
	conn Connectivity,
	level uint8,
	transport comm.Transport,
	logger logging.Logger,
	init func(tree int, q quadrant.Quadrant) V,
) (*Forest[V], error) {
	numTrees := conn.NumTrees()
	if numTrees == 0 {
		return nil, fmt.Errorf("forest: NewUniform: connectivity has zero trees")
	}
	if logger == nil {
		logger = logging.Null{}
	}

	layout := levelLayout(dim, level)
	perTree := int64(len(layout))

	sizes := make([]int64, numTrees)
	for i := range sizes {
		sizes[i] = perTree
	}
	offsets := treeOffsets(sizes)
	total := offsets[numTrees]

	rank, size := transport.Rank(), transport.Size()
	gfq := evenSplit(total, size)

	gfp := make([]qtree.Position, size+1)
	for i := 0; i <= size; i++ {
		gfp[i] = positionAt(offsets, layout, numTrees, gfq[i])
	}

	f := &Forest[V]{
		Dim:                 dim,
		Conn:                conn,
		Trees:               make([]*qtree.Tree[V], numTrees),
		Rank:                rank,
		Size:                size,
		GlobalFirstQuadrant: gfq,
		GlobalFirstPosition: gfp,
		TreeSizes:           sizes,
		Layout:              layout,
		Transport:           transport,
		Logger:              logger,
	}
	for i := range f.Trees {
		f.Trees[i] = qtree.New[V](dim)
	}

	start, end := gfq[rank], gfq[rank+1]
	f.FirstLocalTree, f.LastLocalTree = qtree.NoTree, qtree.NoLastTree
	for idx := start; idx < end; idx++ {
		tree, local := locate(offsets, idx)
		q := layout[local]
		f.Trees[tree].Push(q, init(tree, q))
		if f.FirstLocalTree == qtree.NoTree {
			f.FirstLocalTree = tree
		}
		f.LastLocalTree = tree
	}
	var acc int64
	for i := range f.Trees {
		f.Trees[i].QuadrantsOffset = acc
		acc += int64(f.Trees[i].Len())
	}

	logger.Info("forest: built uniform level %d over %d trees, rank %d owns global [%d,%d)", level, numTrees, rank, start, end)
	return f, nil
}

// localBounds returns the owned-interval bounds RemoveNonOwned-style
// callers need for tree: nil on a side means no boundary (the whole tree
// on that side is owned).
func (f *Forest[V]) localBounds(tree int) (first, next *quadrant.Quadrant) {
	if tree == f.FirstLocalTree && f.GlobalFirstPosition[f.Rank].Tree == tree {
		q := f.GlobalFirstPosition[f.Rank].Quad
		first = &q
	}
	if tree == f.LastLocalTree && f.GlobalFirstPosition[f.Rank+1].Tree == tree {
		q := f.GlobalFirstPosition[f.Rank+1].Quad
		next = &q
	}
	return
}

// BalanceLocal runs balance.Subtree over every locally owned tree in
// isolation, without incorporating candidates from neighboring trees or
// processes. Sufficient for a single-process run, or as the interior-tree
// half of a distributed balance; use BalanceDistributed for the full
// cross-process sweep.
func (f *Forest[V]) BalanceLocal(selector balance.Selector, init func(tree int, q quadrant.Quadrant) V) {
	if f.FirstLocalTree == qtree.NoTree {
		return
	}
	for t := f.FirstLocalTree; t <= f.LastLocalTree; t++ {
		tree := t
		balance.Subtree(f.Trees[tree], selector, nil, func(q quadrant.Quadrant) V { return init(tree, q) })
	}
}

// BalanceDistributed runs the full cross-process 2:1 balance sweep:
// ExchangeOverlap computes and routes this rank's boundary candidates to
// whichever rank owns their destination, then balance.Border folds the
// received candidates into each locally owned tree and trims the result
// back to this rank's owned interval.
func (f *Forest[V]) BalanceDistributed(ctx context.Context, selector balance.Selector, init func(tree int, q quadrant.Quadrant) V) error {
	received, err := f.ExchangeOverlap(ctx, overlap.Seeded)
	if err != nil {
		return err
	}
	byTree := make(map[int][]quadrant.Quadrant, len(received))
	for _, c := range received {
		byTree[c.Tree] = append(byTree[c.Tree], c.Quad)
	}
	if f.FirstLocalTree == qtree.NoTree {
		return nil
	}
	for t := f.FirstLocalTree; t <= f.LastLocalTree; t++ {
		tree := t
		first, next := f.localBounds(tree)
		balance.Border(f.Trees[tree], selector, byTree[tree], first, next, func(q quadrant.Quadrant) V { return init(tree, q) })
	}
	return nil
}

// comparePosKey orders (tree, q) against a qtree.Position the same way
// GlobalFirstPosition is ordered: tree-major, then Morton order within a
// tree.
func comparePosKey(dim quadrant.Dim, tree int, q quadrant.Quadrant, pos qtree.Position) int {
	if tree != pos.Tree {
		if tree < pos.Tree {
			return -1
		}
		return 1
	}
	return quadrant.Compare(dim, q, pos.Quad)
}

// ownerRank returns which rank owns (tree, q) per GlobalFirstPosition, or
// -1 if no rank does (q lies outside every process's range, e.g. an
// over-generated candidate touching an unconnected boundary).
func (f *Forest[V]) ownerRank(tree int, q quadrant.Quadrant) int {
	r := sort.Search(len(f.GlobalFirstPosition), func(i int) bool {
		return comparePosKey(f.Dim, tree, q, f.GlobalFirstPosition[i]) < 0
	}) - 1
	if r < 0 || r >= f.Size {
		return -1
	}
	return r
}

func candidateWireSize(dim quadrant.Dim) int {
	if dim == quadrant.Dim3 {
		return 4 + 16
	}
	return 4 + 12
}

func encodeCandidates(dim quadrant.Dim, cs []overlap.Candidate) []byte {
	sz := candidateWireSize(dim)
	buf := make([]byte, len(cs)*sz)
	off := 0
	for _, c := range cs {
		binary.BigEndian.PutUint32(buf[off:off+4], uint32(c.Tree))
		writeQuadrantWire(dim, buf[off+4:off+sz], c.Quad)
		off += sz
	}
	return buf
}

func decodeCandidates(dim quadrant.Dim, buf []byte) []overlap.Candidate {
	sz := candidateWireSize(dim)
	if len(buf) == 0 {
		return nil
	}
	n := len(buf) / sz
	out := make([]overlap.Candidate, n)
	off := 0
	for i := 0; i < n; i++ {
		tree := int(binary.BigEndian.Uint32(buf[off : off+4]))
		q := readQuadrantWire(dim, buf[off+4:off+sz])
		out[i] = overlap.Candidate{Tree: tree, Quad: q}
		off += sz
	}
	return out
}

func writeQuadrantWire(dim quadrant.Dim, buf []byte, q quadrant.Quadrant) {
	binary.BigEndian.PutUint32(buf[0:4], uint32(q.X))
	binary.BigEndian.PutUint32(buf[4:8], uint32(q.Y))
	if dim == quadrant.Dim3 {
		binary.BigEndian.PutUint32(buf[8:12], uint32(q.Z))
		binary.BigEndian.PutUint32(buf[12:16], uint32(q.Level))
		return
	}
	binary.BigEndian.PutUint32(buf[8:12], uint32(q.Level))
}

func readQuadrantWire(dim quadrant.Dim, buf []byte) quadrant.Quadrant {
	q := quadrant.Quadrant{X: int32(binary.BigEndian.Uint32(buf[0:4])), Y: int32(binary.BigEndian.Uint32(buf[4:8]))}
	if dim == quadrant.Dim3 {
		q.Z = int32(binary.BigEndian.Uint32(buf[8:12]))
		q.Level = uint8(binary.BigEndian.Uint32(buf[12:16]))
		return q
	}
	q.Level = uint8(binary.BigEndian.Uint32(buf[8:12]))
	return q
}

// ExchangeOverlap computes this rank's overlap candidates against every
// locally owned tree (spec.md §4.G), routes each candidate to whichever
// rank owns its destination (tree, quadrant) per GlobalFirstPosition, and
// returns the candidates this rank receives in turn. The result is not
// passed through overlap.Uniqify; BalanceDistributed hands it to
// balance.Border as is, and Subtree's per-level dedup absorbs repeats.
//
// The exchange runs in two rounds over Transport, since Irecv needs its
// buffer sized in advance: first every pair of ranks exchanges a byte
// count, then the actual candidate payload.
func (f *Forest[V]) ExchangeOverlap(ctx context.Context, variant overlap.Variant) ([]overlap.Candidate, error) {
	var local []overlap.Local
	if f.FirstLocalTree != qtree.NoTree {
		for t := f.FirstLocalTree; t <= f.LastLocalTree; t++ {
			for _, q := range f.Trees[t].Quadrants {
				local = append(local, overlap.Local{Tree: t, Quad: q})
			}
		}
	}
	all := overlap.Compute(f.Dim, local, f.Conn, variant)

	perRank := make(map[int][]overlap.Candidate)
	for _, c := range all {
		r := f.ownerRank(c.Tree, c.Quad)
		if r < 0 || r == f.Rank {
			continue
		}
		perRank[r] = append(perRank[r], c)
	}
	overlap.ReleaseCandidates(all)

	sendBufs := make(map[int][]byte, len(perRank))
	for r, cs := range perRank {
		sendBufs[r] = encodeCandidates(f.Dim, cs)
	}

	sizeHandles := make([]comm.Handle, 0, 2*(f.Size-1))
	recvSizes := make(map[int][]byte, f.Size)
	for r := 0; r < f.Size; r++ {
		if r == f.Rank {
			continue
		}
		buf := make([]byte, 4)
		h, err := f.Transport.Irecv(ctx, r, comm.TagOverlap, buf)
		if err != nil {
			return nil, fmt.Errorf("forest: ExchangeOverlap: Irecv size from %d: %w", r, err)
		}
		recvSizes[r] = buf
		sizeHandles = append(sizeHandles, h)
	}
	for r := 0; r < f.Size; r++ {
		if r == f.Rank {
			continue
		}
		szbuf := make([]byte, 4)
		binary.BigEndian.PutUint32(szbuf, uint32(len(sendBufs[r])))
		h, err := f.Transport.Isend(ctx, r, comm.TagOverlap, szbuf)
		if err != nil {
			return nil, fmt.Errorf("forest: ExchangeOverlap: Isend size to %d: %w", r, err)
		}
		sizeHandles = append(sizeHandles, h)
	}
	if err := f.Transport.Waitall(ctx, sizeHandles); err != nil {
		return nil, fmt.Errorf("forest: ExchangeOverlap: Waitall sizes: %w", err)
	}

	dataHandles := make([]comm.Handle, 0, 2*(f.Size-1))
	recvBufs := make(map[int][]byte, f.Size)
	for r, szbuf := range recvSizes {
		n := binary.BigEndian.Uint32(szbuf)
		buf := make([]byte, n)
		if n > 0 {
			h, err := f.Transport.Irecv(ctx, r, comm.TagOverlap, buf)
			if err != nil {
				return nil, fmt.Errorf("forest: ExchangeOverlap: Irecv data from %d: %w", r, err)
			}
			dataHandles = append(dataHandles, h)
		}
		recvBufs[r] = buf
	}
	for r, buf := range sendBufs {
		if len(buf) == 0 {
			continue
		}
		h, err := f.Transport.Isend(ctx, r, comm.TagOverlap, buf)
		if err != nil {
			return nil, fmt.Errorf("forest: ExchangeOverlap: Isend data to %d: %w", r, err)
		}
		dataHandles = append(dataHandles, h)
	}
	if err := f.Transport.Waitall(ctx, dataHandles); err != nil {
		return nil, fmt.Errorf("forest: ExchangeOverlap: Waitall data: %w", err)
	}

	var out []overlap.Candidate
	for _, buf := range recvBufs {
		out = append(out, decodeCandidates(f.Dim, buf)...)
	}
	return out, nil
}

// Validate builds the invariant.ForestState for this rank's owned trees
// and runs invariant.IsValid's structural check across every rank via
// Transport's all-reduce.
func (f *Forest[V]) Validate(ctx context.Context) (bool, error) {
	var infos []invariant.TreeInfo
	if f.FirstLocalTree != qtree.NoTree {
		for i := f.FirstLocalTree; i <= f.LastLocalTree; i++ {
			t := f.Trees[i]
			infos = append(infos, invariant.TreeInfo{
				Offset:    t.QuadrantsOffset,
				PerLevel:  t.QuadrantsPerLevel,
				MaxLevel:  t.MaxLevel,
				FirstDesc: t.FirstDesc,
				LastDesc:  t.LastDesc,
				Len:       t.Len(),
			})
		}
	}
	state := invariant.ForestState{
		Dim:                 f.Dim,
		Rank:                f.Rank,
		Size:                f.Size,
		Trees:               infos,
		GlobalFirstQuadrant: f.GlobalFirstQuadrant,
		GlobalFirstPosition: f.GlobalFirstPosition,
		FirstLocalTree:      f.FirstLocalTree,
		LastLocalTree:       f.LastLocalTree,
	}
	return invariant.IsValid(ctx, f.Transport, state)
}

// Checksum returns the CRC32 of this rank's locally owned quadrants,
// concatenated in tree-major, Morton order (spec.md §4.A, §6). It is a
// per-process partial checksum, not the whole forest's: combining partial
// checksums into one cross-process value (spec.md §8's S6 property) needs
// either gathering the full sequence onto one rank or a CRC32-combine
// reduction, and Transport's minimal collective (a single bitwise-OR
// all-reduce) provides neither — left to a driver with a richer transport,
// consistent with this library's scope.
func (f *Forest[V]) Checksum() uint32 {
	var seq []quadrant.Quadrant
	if f.FirstLocalTree != qtree.NoTree {
		for i := f.FirstLocalTree; i <= f.LastLocalTree; i++ {
			seq = append(seq, f.Trees[i].Quadrants...)
		}
	}
	return quadrant.Checksum(f.Dim, seq)
}

// Redistribute carries out a partition-given move to newCounts (spec.md
// §4.H): newCounts[i] is the quadrant count rank i should own afterward,
// and must sum to the current global total. Every locally owned tree is
// flattened into one sequence, handed to partition.Redistribute, and the
// result is re-split back into per-tree Trees using TreeSizes/Layout —
// valid precisely because NewUniform built every tree identically and no
// rank-local refinement has diverged that since.
func (f *Forest[V]) Redistribute(ctx context.Context, newCounts []int64, codec partition.Codec[V]) error {
	if len(newCounts) != f.Size {
		return fmt.Errorf("forest: Redistribute: newCounts has %d entries, want %d", len(newCounts), f.Size)
	}
	oldFirst := f.GlobalFirstQuadrant
	newFirst := make([]int64, f.Size+1)
	for i, c := range newCounts {
		newFirst[i+1] = newFirst[i] + c
	}
	if newFirst[f.Size] != oldFirst[f.Size] {
		return fmt.Errorf("forest: Redistribute: newCounts sum to %d, want %d", newFirst[f.Size], oldFirst[f.Size])
	}

	var flatQuads []quadrant.Quadrant
	var flatPays []V
	if f.FirstLocalTree != qtree.NoTree {
		for i := f.FirstLocalTree; i <= f.LastLocalTree; i++ {
			flatQuads = append(flatQuads, f.Trees[i].Quadrants...)
			flatPays = append(flatPays, f.Trees[i].Payloads...)
		}
	}

	plan := partition.ComputePlan(oldFirst, newFirst, f.Rank)
	newQuads, newPays, err := partition.Redistribute(ctx, f.Transport, f.Dim, plan, flatQuads, flatPays, codec)
	if err != nil {
		return fmt.Errorf("forest: Redistribute: %w", err)
	}

	offsets := treeOffsets(f.TreeSizes)
	for i := range f.Trees {
		f.Trees[i] = qtree.New[V](f.Dim)
	}
	f.FirstLocalTree, f.LastLocalTree = qtree.NoTree, qtree.NoLastTree
	for i, q := range newQuads {
		tree, _ := locate(offsets, newFirst[f.Rank]+int64(i))
		f.Trees[tree].Push(q, newPays[i])
		if f.FirstLocalTree == qtree.NoTree {
			f.FirstLocalTree = tree
		}
		f.LastLocalTree = tree
	}
	var acc int64
	for i := range f.Trees {
		f.Trees[i].QuadrantsOffset = acc
		acc += int64(f.Trees[i].Len())
	}

	f.GlobalFirstQuadrant = newFirst
	gfp := make([]qtree.Position, f.Size+1)
	for i := 0; i <= f.Size; i++ {
		gfp[i] = positionAt(offsets, f.Layout, len(f.Trees), newFirst[i])
	}
	f.GlobalFirstPosition = gfp

	f.Logger.Info("forest: redistributed, rank %d now owns global [%d,%d)", f.Rank, newFirst[f.Rank], newFirst[f.Rank+1])
	return nil
}
