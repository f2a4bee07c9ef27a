package partition

import (
	"context"
	"fmt"

	"github.com/katalvlaran/p4forest/comm"
	"github.com/katalvlaran/p4forest/quadrant"
)

// SendRecv is one peer's overlap with this rank's range: Begin is the
// offset into the local (old, for a send; new, for a receive) sequence,
// Count the number of quadrants involved.
type SendRecv struct {
	Peer  int
	Begin int64
	Count int64
}

// Plan is this rank's view of a partition-given move: its own old and new
// global ranges, plus which peers it must send to and receive from,
// computed per spec.md §4.H steps 1-2.
type Plan struct {
	Rank, Size         int
	OldStart, OldEnd   int64
	NewStart, NewEnd   int64
	SendTo, RecvFrom   []SendRecv
}

// ComputePlan derives rank's Plan from the old and new global_first_quadrant
// vectors (each length Size+1, entry 0 always zero, entry Size the global
// total).
func ComputePlan(oldFirst, newFirst []int64, rank int) Plan {
	size := len(oldFirst) - 1
	p := Plan{
		Rank: rank, Size: size,
		OldStart: oldFirst[rank], OldEnd: oldFirst[rank+1],
		NewStart: newFirst[rank], NewEnd: newFirst[rank+1],
	}
	for j := 0; j < size; j++ {
		if lo, hi := max64(p.OldStart, newFirst[j]), min64(p.OldEnd, newFirst[j+1]); hi > lo {
			p.SendTo = append(p.SendTo, SendRecv{Peer: j, Begin: lo - p.OldStart, Count: hi - lo})
		}
		if lo, hi := max64(p.NewStart, oldFirst[j]), min64(p.NewEnd, oldFirst[j+1]); hi > lo {
			p.RecvFrom = append(p.RecvFrom, SendRecv{Peer: j, Begin: lo - p.NewStart, Count: hi - lo})
		}
	}
	return p
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// Redistribute carries out plan against t: posts non-blocking receives for
// every RecvFrom entry, sends every SendTo slice of localQuads/localPays,
// waits for completion, and returns this rank's new local sequence in
// global order (spec.md §4.H steps 3-7). A rank with no new quadrants
// (NewStart == NewEnd) still participates — it may have data to send even
// though it receives nothing.
func Redistribute[V any](
	ctx context.Context,
	t comm.Transport,
	dim quadrant.Dim,
	plan Plan,
	localQuads []quadrant.Quadrant,
	localPays []V,
	codec Codec[V],
) ([]quadrant.Quadrant, []V, error) {
	stride := quadrantWireSize(dim) + codec.Size()

	recvBufs := make([][]byte, len(plan.RecvFrom))
	var handles []comm.Handle
	for i, rf := range plan.RecvFrom {
		buf := make([]byte, rf.Count*int64(stride))
		recvBufs[i] = buf
		h, err := t.Irecv(ctx, rf.Peer, comm.TagPartitionGiven, buf)
		if err != nil {
			return nil, nil, fmt.Errorf("partition: Irecv from rank %d: %w", rf.Peer, err)
		}
		handles = append(handles, h)
	}

	for _, sf := range plan.SendTo {
		buf := Pack(dim, localQuads[sf.Begin:sf.Begin+sf.Count], localPays[sf.Begin:sf.Begin+sf.Count], codec)
		h, err := t.Isend(ctx, sf.Peer, comm.TagPartitionGiven, buf)
		if err != nil {
			return nil, nil, fmt.Errorf("partition: Isend to rank %d: %w", sf.Peer, err)
		}
		handles = append(handles, h)
	}

	if err := t.Waitall(ctx, handles); err != nil {
		return nil, nil, fmt.Errorf("partition: Waitall: %w", err)
	}

	n := plan.NewEnd - plan.NewStart
	newQuads := make([]quadrant.Quadrant, n)
	newPays := make([]V, n)
	for i, rf := range plan.RecvFrom {
		qs, ps := Unpack(dim, recvBufs[i], codec)
		copy(newQuads[rf.Begin:], qs)
		copy(newPays[rf.Begin:], ps)
	}
	return newQuads, newPays, nil
}

// FamilyCorrection decides which side of a partition boundary keeps a
// family of 2^d siblings straddling it: ownedByPrev and ownedByNext are how
// many of the family's members rank r-1 and rank r currently own. The side
// with strictly more owned members keeps the whole family; ties favor the
// lower rank (r-1), per spec.md §4.H.
func FamilyCorrection(ownedByPrev, ownedByNext int) (keepOnPrev bool) {
	return ownedByPrev >= ownedByNext
}
