package partition

import (
	"encoding/binary"

	"github.com/katalvlaran/p4forest/quadrant"
)

// Codec marshals a payload to and from its fixed-size wire representation,
// per spec.md §6's data_size-byte opaque payload.
type Codec[V any] interface {
	Size() int
	Marshal(v V, buf []byte)
	Unmarshal(buf []byte) V
}

// quadrantWireSize returns the byte length of one quadrant's wire encoding:
// one big-endian 32-bit word per coordinate axis plus one for level,
// matching quadrant.Checksum's field encoding so a checksum computed
// before and after a partition round trip agrees.
func quadrantWireSize(dim quadrant.Dim) int {
	if dim == quadrant.Dim3 {
		return 4 * 4
	}
	return 4 * 3
}

func writeQuadrant(dim quadrant.Dim, buf []byte, q quadrant.Quadrant) {
	binary.BigEndian.PutUint32(buf[0:4], uint32(q.X))
	binary.BigEndian.PutUint32(buf[4:8], uint32(q.Y))
	if dim == quadrant.Dim3 {
		binary.BigEndian.PutUint32(buf[8:12], uint32(q.Z))
		binary.BigEndian.PutUint32(buf[12:16], uint32(q.Level))
		return
	}
	binary.BigEndian.PutUint32(buf[8:12], uint32(q.Level))
}

func readQuadrant(dim quadrant.Dim, buf []byte) quadrant.Quadrant {
	q := quadrant.Quadrant{
		X: int32(binary.BigEndian.Uint32(buf[0:4])),
		Y: int32(binary.BigEndian.Uint32(buf[4:8])),
	}
	if dim == quadrant.Dim3 {
		q.Z = int32(binary.BigEndian.Uint32(buf[8:12]))
		q.Level = uint8(binary.BigEndian.Uint32(buf[12:16]))
		return q
	}
	q.Level = uint8(binary.BigEndian.Uint32(buf[8:12]))
	return q
}

// Pack serializes quads and their payloads into one contiguous buffer:
// each entry is the quadrant's wire encoding immediately followed by its
// codec.Size() payload bytes, with no padding, per spec.md §6.
func Pack[V any](dim quadrant.Dim, quads []quadrant.Quadrant, pays []V, codec Codec[V]) []byte {
	qsz := quadrantWireSize(dim)
	stride := qsz + codec.Size()
	buf := make([]byte, len(quads)*stride)
	off := 0
	for i, q := range quads {
		writeQuadrant(dim, buf[off:off+qsz], q)
		codec.Marshal(pays[i], buf[off+qsz:off+stride])
		off += stride
	}
	return buf
}

// Unpack is Pack's inverse.
func Unpack[V any](dim quadrant.Dim, buf []byte, codec Codec[V]) ([]quadrant.Quadrant, []V) {
	qsz := quadrantWireSize(dim)
	stride := qsz + codec.Size()
	n := 0
	if stride > 0 {
		n = len(buf) / stride
	}
	quads := make([]quadrant.Quadrant, n)
	pays := make([]V, n)
	off := 0
	for i := 0; i < n; i++ {
		quads[i] = readQuadrant(dim, buf[off:off+qsz])
		pays[i] = codec.Unmarshal(buf[off+qsz : off+stride])
		off += stride
	}
	return quads, pays
}

// FixedBytes is a Codec for payloads already represented as a fixed-size
// []byte — the common case when the caller's quadrant payload is itself
// raw bytes (e.g. a serialized solver state).
type FixedBytes struct {
	DataSize int
}

func (f FixedBytes) Size() int { return f.DataSize }

func (f FixedBytes) Marshal(v []byte, buf []byte) { copy(buf, v) }

func (f FixedBytes) Unmarshal(buf []byte) []byte {
	out := make([]byte, len(buf))
	copy(out, buf)
	return out
}
