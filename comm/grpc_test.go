package comm_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/p4forest/comm"
)

// freeAddr reserves an ephemeral TCP port on loopback and hands back its
// address, closing the reservation immediately so DialGRPC can bind it.
func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func dialTwoRanks(t *testing.T) (*comm.GRPCTransport, *comm.GRPCTransport) {
	t.Helper()
	addrs := []string{freeAddr(t), freeAddr(t)}

	t0, err := comm.DialGRPC(0, addrs)
	require.NoError(t, err)
	t1, err := comm.DialGRPC(1, addrs)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = t0.Close()
		_ = t1.Close()
	})
	return t0, t1
}

func TestGRPCTransportIsendIrecvRoundTrip(t *testing.T) {
	t0, t1 := dialTwoRanks(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload := []byte("p4forest-overlap-candidate")
	sendH, err := t0.Isend(ctx, 1, comm.TagOverlap, payload)
	require.NoError(t, err)

	buf := make([]byte, len(payload))
	recvH, err := t1.Irecv(ctx, 0, comm.TagOverlap, buf)
	require.NoError(t, err)

	require.NoError(t, t1.Waitall(ctx, []comm.Handle{recvH}))
	require.NoError(t, t0.Waitall(ctx, []comm.Handle{sendH}))
	require.Equal(t, payload, buf)
}

func TestGRPCTransportAllReduceOrCombinesBothRanks(t *testing.T) {
	t0, t1 := dialTwoRanks(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	results := make([]bool, 2)
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		results[0], errs[0] = t0.AllReduceOr(ctx, false)
	}()
	go func() {
		defer wg.Done()
		results[1], errs[1] = t1.AllReduceOr(ctx, true)
	}()
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.True(t, results[0], "false OR true must be true on every rank")
	require.True(t, results[1], "false OR true must be true on every rank")
}

func TestGRPCTransportRankAndSize(t *testing.T) {
	t0, t1 := dialTwoRanks(t)
	require.Equal(t, 0, t0.Rank())
	require.Equal(t, 1, t1.Rank())
	require.Equal(t, 2, t0.Size())
	require.Equal(t, 2, t1.Size())
}
