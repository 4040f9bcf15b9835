// Package rng provides deterministic, serializable random streams.
// Every piece of randomness in an engine instance flows through one of
// two Streams, so episode behavior is a pure function of the level seed.
package rng

import (
	"github.com/vovakirdan/pixelgym/internal/wire"
)

// Stream is a SplitMix64 generator with fully exposed state.
// Unlike math/rand sources, its state can be written into a snapshot
// and restored bit-for-bit in another process.
type Stream struct {
	state  uint64
	seeded bool
}

// New creates a stream seeded with the given value.
func New(seed int32) *Stream {
	s := &Stream{}
	s.Seed(seed)
	return s
}

// Seed resets the stream to a deterministic state derived from seed.
func (s *Stream) Seed(seed int32) {
	s.state = uint64(uint32(seed))
	s.seeded = true
	// Burn one output so adjacent integer seeds diverge immediately.
	s.next()
}

// Seeded reports whether the stream has been seeded at least once.
func (s *Stream) Seeded() bool {
	return s.seeded
}

func (s *Stream) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// RandN returns a uniform int in [0, n). n <= 0 returns 0.
func (s *Stream) RandN(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.next() % uint64(n))
}

// RandInt returns a uniform int32 in [low, high).
// low >= high returns low.
func (s *Stream) RandInt(low, high int32) int32 {
	if low >= high {
		return low
	}
	span := uint64(int64(high) - int64(low))
	return low + int32(s.next()%span)
}

// Rand01 returns a uniform float32 in [0, 1).
func (s *Stream) Rand01() float32 {
	return float32(s.next()>>40) / (1 << 24)
}

// RandBool returns a uniform boolean.
func (s *Stream) RandBool() bool {
	return s.next()&1 == 1
}

// RandSign returns -1 or 1.
func (s *Stream) RandSign() int {
	if s.RandBool() {
		return 1
	}
	return -1
}

// Partition splits x into count non-negative parts that sum to x.
// Used by level generators to space obstacle rows.
func (s *Stream) Partition(x, count int) []int {
	parts := make([]int, count)
	if count <= 0 {
		return parts
	}
	for i := 0; i < count-1; i++ {
		part := s.RandN(x + 1)
		parts[i] = part
		x -= part
	}
	parts[count-1] = x
	return parts
}

// Serialize writes the stream state in fixed order.
func (s *Stream) Serialize(w *wire.Writer) {
	w.WriteBool(s.seeded)
	w.WriteUint64(s.state)
}

// Deserialize restores the stream state written by Serialize.
func (s *Stream) Deserialize(r *wire.Reader) {
	s.seeded = r.ReadBool()
	s.state = r.ReadUint64()
}
