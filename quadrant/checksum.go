package quadrant

import (
	"encoding/binary"
	"hash/crc32"
)

// Checksum computes the CRC32 of the stream formed by concatenating, for
// each quadrant in seq in order, its X, Y, (Z,) Level as big-endian 32-bit
// words (spec.md §4.A, §6). It is used only to validate round trips (e.g.
// across partition-given) and is stable across architectures since the
// encoding is explicit and big-endian.
func Checksum(dim Dim, seq []Quadrant) uint32 {
	h := crc32.NewIEEE()
	var buf [4]byte
	write := func(v int32) {
		binary.BigEndian.PutUint32(buf[:], uint32(v))
		h.Write(buf[:])
	}
	for _, q := range seq {
		write(q.X)
		write(q.Y)
		if dim == Dim3 {
			write(q.Z)
		}
		write(int32(q.Level))
	}
	return h.Sum32()
}
