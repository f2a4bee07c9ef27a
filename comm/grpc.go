package comm

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// transportServer is the server-side RPC surface one rank exposes to its
// peers: Exchange carries a point-to-point message (tag + payload,
// wire-framed into a single BytesValue so no generated message type is
// needed — see encodeMsg/decodeMsg), AllReduceOr carries one rank's
// contribution to the collective rank-0 coordinates.
type transportServer interface {
	Exchange(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	allReduceOrRPC(context.Context, *wrapperspb.BoolValue) (*wrapperspb.BoolValue, error)
}

var transportServiceDesc = grpc.ServiceDesc{
	ServiceName: "p4forest.comm.Transport",
	HandlerType: (*transportServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Exchange", Handler: exchangeHandler},
		{MethodName: "AllReduceOr", Handler: allReduceOrHandler},
	},
	Metadata: "p4forest/comm",
}

func exchangeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(transportServer).Exchange(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/p4forest.comm.Transport/Exchange"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(transportServer).Exchange(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func allReduceOrHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BoolValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(transportServer).allReduceOrRPC(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/p4forest.comm.Transport/AllReduceOr"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(transportServer).allReduceOrRPC(ctx, req.(*wrapperspb.BoolValue))
	}
	return interceptor(ctx, in, info, handler)
}

// encodeMsg frames (tag, data) into one byte slice: a 4-byte big-endian
// tag followed by the raw payload.
func encodeMsg(tag Tag, data []byte) []byte {
	buf := make([]byte, 4+len(data))
	binary.BigEndian.PutUint32(buf[:4], uint32(tag))
	copy(buf[4:], data)
	return buf
}

func decodeMsg(buf []byte) (Tag, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, fmt.Errorf("comm: gRPC message too short: %d bytes", len(buf))
	}
	return Tag(binary.BigEndian.Uint32(buf[:4])), buf[4:], nil
}

// GRPCTransport is a real networked Transport: one rank per process, a
// gRPC server exposing transportServiceDesc, and a client connection to
// every peer. Point-to-point messages deliver directly into the
// receiver's inbox (shared with the Local transport's implementation);
// the all-reduce is coordinated by rank 0.
type GRPCTransport struct {
	rank  int
	addrs []string // addrs[i] is rank i's dial target; addrs[rank] is this rank's listen address

	mu    sync.Mutex
	conns map[int]*grpc.ClientConn

	server *grpc.Server
	inbox  *rankInbox

	ar *arCoordinator // non-nil only on rank 0
}

// DialGRPC starts this rank's server on addrs[rank] and lazily dials its
// peers. Callers on every rank must pass the same addrs slice.
func DialGRPC(rank int, addrs []string, opts ...grpc.ServerOption) (*GRPCTransport, error) {
	t := &GRPCTransport{
		rank:  rank,
		addrs: addrs,
		conns: make(map[int]*grpc.ClientConn),
		inbox: newRankInbox(),
	}
	if rank == 0 {
		t.ar = newARCoordinator(len(addrs))
	}

	lis, err := net.Listen("tcp", addrs[rank])
	if err != nil {
		return nil, fmt.Errorf("comm: gRPC listen on %s: %w", addrs[rank], err)
	}
	t.server = grpc.NewServer(opts...)
	t.server.RegisterService(&transportServiceDesc, t)
	go func() { _ = t.server.Serve(lis) }()

	return t, nil
}

// Close stops the gRPC server and tears down peer connections.
func (t *GRPCTransport) Close() error {
	t.server.GracefulStop()
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.conns {
		_ = c.Close()
	}
	return nil
}

func (t *GRPCTransport) conn(rank int) (*grpc.ClientConn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.conns[rank]; ok {
		return c, nil
	}
	c, err := grpc.NewClient(t.addrs[rank], grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("comm: dialing rank %d at %s: %w", rank, t.addrs[rank], err)
	}
	t.conns[rank] = c
	return c, nil
}

func (t *GRPCTransport) Rank() int { return t.rank }
func (t *GRPCTransport) Size() int { return len(t.addrs) }

// Exchange is the server-side handler backing Isend: it decodes the
// tagged payload and delivers it straight into this rank's inbox for a
// matching Irecv to pick up.
func (t *GRPCTransport) Exchange(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	tag, data, err := decodeMsg(in.GetValue())
	if err != nil {
		return nil, err
	}
	// The framed message carries no explicit source; Exchange is always
	// invoked by the sender's own Isend, which calls it once per
	// destination, so the source is whichever rank dialed us — encoded
	// as the first 4 bytes of data by Isend below.
	if len(data) < 4 {
		return nil, fmt.Errorf("comm: gRPC message missing source rank")
	}
	src := int(binary.BigEndian.Uint32(data[:4]))
	t.inbox.deliver(src, tag, data[4:])
	return &wrapperspb.BytesValue{}, nil
}

// allReduceOrRPC is the server-side handler rank 0 runs; other ranks never
// receive calls on this method.
func (t *GRPCTransport) allReduceOrRPC(ctx context.Context, in *wrapperspb.BoolValue) (*wrapperspb.BoolValue, error) {
	if t.ar == nil {
		return nil, fmt.Errorf("comm: AllReduceOr invoked on non-coordinator rank %d", t.rank)
	}
	result, err := t.ar.contribute(ctx, in.GetValue())
	if err != nil {
		return nil, err
	}
	return wrapperspb.Bool(result), nil
}

type grpcSendHandle struct {
	done chan struct{}
	err  error
}

func (h *grpcSendHandle) Err() error { return h.err }

func (t *GRPCTransport) Isend(ctx context.Context, dest int, tag Tag, data []byte) (Handle, error) {
	if dest == t.rank {
		cp := make([]byte, len(data))
		copy(cp, data)
		t.inbox.deliver(t.rank, tag, cp)
		return &grpcSendHandle{done: closedChan()}, nil
	}
	c, err := t.conn(dest)
	if err != nil {
		return nil, err
	}
	framed := make([]byte, 4+len(data))
	binary.BigEndian.PutUint32(framed[:4], uint32(t.rank))
	copy(framed[4:], data)

	h := &grpcSendHandle{done: make(chan struct{})}
	go func() {
		defer close(h.done)
		req := wrapperspb.Bytes(encodeMsg(tag, framed))
		out := new(wrapperspb.BytesValue)
		if err := c.Invoke(ctx, "/p4forest.comm.Transport/Exchange", req, out); err != nil {
			h.err = fmt.Errorf("comm: Isend to rank %d: %w", dest, err)
		}
	}()
	return h, nil
}

func (t *GRPCTransport) Irecv(ctx context.Context, src int, tag Tag, buf []byte) (Handle, error) {
	ch := t.inbox.request(src, tag)
	return &recvHandle{buf: buf, ch: ch}, nil
}

func (t *GRPCTransport) Waitall(ctx context.Context, handles []Handle) error {
	var firstErr error
	for _, h := range handles {
		switch v := h.(type) {
		case *recvHandle:
			if v.done {
				continue
			}
			select {
			case data := <-v.ch:
				if len(data) != len(v.buf) {
					v.err = fmt.Errorf("comm: Waitall: expected %d bytes, got %d", len(v.buf), len(data))
				} else {
					copy(v.buf, data)
				}
				v.done = true
			case <-ctx.Done():
				v.err = ctx.Err()
				v.done = true
			}
			if v.err != nil && firstErr == nil {
				firstErr = v.err
			}
		case *grpcSendHandle:
			select {
			case <-v.done:
			case <-ctx.Done():
				v.err = ctx.Err()
			}
			if v.err != nil && firstErr == nil {
				firstErr = v.err
			}
		}
	}
	return firstErr
}

func (t *GRPCTransport) AllReduceOr(ctx context.Context, local bool) (bool, error) {
	if t.ar != nil {
		return t.ar.contribute(ctx, local)
	}
	c, err := t.conn(0)
	if err != nil {
		return false, err
	}
	out := new(wrapperspb.BoolValue)
	if err := c.Invoke(ctx, "/p4forest.comm.Transport/AllReduceOr", wrapperspb.Bool(local), out); err != nil {
		return false, fmt.Errorf("comm: AllReduceOr: %w", err)
	}
	return out.GetValue(), nil
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// arCoordinator runs the same bitwise-OR rendezvous as the Local
// transport's hub, but standalone: rank 0's gRPC server hosts one, and
// every rank (including rank 0 itself, in-process) contributes to it.
type arCoordinator struct {
	n int

	mu    sync.Mutex
	round *allreduceRound
}

func newARCoordinator(n int) *arCoordinator {
	return &arCoordinator{n: n, round: newAllreduceRound()}
}

func (c *arCoordinator) contribute(ctx context.Context, local bool) (bool, error) {
	c.mu.Lock()
	r := c.round
	r.mu.Lock()
	r.value = r.value || local
	r.contributed++
	last := r.contributed == c.n
	if last {
		c.round = newAllreduceRound()
	}
	r.mu.Unlock()
	c.mu.Unlock()

	if last {
		close(r.done)
		return r.value, nil
	}
	select {
	case <-r.done:
		return r.value, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
