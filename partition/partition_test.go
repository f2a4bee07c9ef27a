package partition_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/p4forest/comm"
	"github.com/katalvlaran/p4forest/partition"
	"github.com/katalvlaran/p4forest/quadrant"
)

func TestComputePlanEvenSplitToAllOnRankZero(t *testing.T) {
	oldFirst := []int64{0, 4, 8, 12, 16}
	newFirst := []int64{0, 16, 16, 16, 16}

	p0 := partition.ComputePlan(oldFirst, newFirst, 0)
	require.Len(t, p0.RecvFrom, 4)
	var total int64
	for _, rf := range p0.RecvFrom {
		total += rf.Count
	}
	assert.Equal(t, int64(16), total)
	assert.Empty(t, p0.SendTo) // rank 0 keeps everything it already had

	p1 := partition.ComputePlan(oldFirst, newFirst, 1)
	require.Len(t, p1.SendTo, 1)
	assert.Equal(t, 0, p1.SendTo[0].Peer)
	assert.Equal(t, int64(4), p1.SendTo[0].Count)
	assert.Empty(t, p1.RecvFrom)
}

func TestComputePlanIdentityHasNoTraffic(t *testing.T) {
	first := []int64{0, 5, 10}
	p := partition.ComputePlan(first, first, 0)
	assert.Empty(t, p.SendTo)
	assert.Empty(t, p.RecvFrom)
}

type bytesCodec struct{ size int }

func (c bytesCodec) Size() int                    { return c.size }
func (c bytesCodec) Marshal(v []byte, buf []byte) { copy(buf, v) }
func (c bytesCodec) Unmarshal(buf []byte) []byte {
	out := make([]byte, len(buf))
	copy(out, buf)
	return out
}

func TestRedistributeRoundTripsQuadrantsAndPayloads(t *testing.T) {
	oldFirst := []int64{0, 2, 4}
	newFirst := []int64{0, 1, 4}
	transports := comm.NewLocal(2)
	codec := bytesCodec{size: 2}

	quads := []quadrant.Quadrant{
		quadrant.New2(0, 0, 1),
		quadrant.New2(4, 0, 1),
	}
	pays := [][]byte{{1, 1}, {2, 2}}

	plan0 := partition.ComputePlan(oldFirst, newFirst, 0)
	plan1 := partition.ComputePlan(oldFirst, newFirst, 1)

	quads1 := []quadrant.Quadrant{
		quadrant.New2(8, 0, 1),
		quadrant.New2(12, 0, 1),
	}
	pays1 := [][]byte{{3, 3}, {4, 4}}

	type result struct {
		quads []quadrant.Quadrant
		pays  [][]byte
		err   error
	}
	results := make(chan result, 2)

	go func() {
		q, p, err := partition.Redistribute(context.Background(), transports[0], quadrant.Dim2, plan0, quads, pays, codec)
		results <- result{q, p, err}
	}()
	go func() {
		q, p, err := partition.Redistribute(context.Background(), transports[1], quadrant.Dim2, plan1, quads1, pays1, codec)
		results <- result{q, p, err}
	}()

	r0 := <-results
	r1 := <-results
	require.NoError(t, r0.err)
	require.NoError(t, r1.err)

	// Rank 0 ends up with exactly quadrant[0]'s data (new_count[0]=1); rank
	// 1 ends up with the rest, in original global order.
	total := append(append([]quadrant.Quadrant{}, r0.quads...), r1.quads...)
	assert.Equal(t, append(quads, quads1...), total)
}

func TestFamilyCorrectionTieFavorsPrev(t *testing.T) {
	assert.True(t, partition.FamilyCorrection(2, 2))
	assert.True(t, partition.FamilyCorrection(3, 1))
	assert.False(t, partition.FamilyCorrection(1, 3))
}
