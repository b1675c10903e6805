// Package keygen produces deterministic synthetic keys for exercising a
// LargeMap at scale.
package keygen

import (
	"encoding/binary"
	"iter"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Generator derives the i-th key of a stream from a seed. The same seed
// always yields the same sequence, and distinct indexes give distinct keys.
type Generator struct {
	seed uint64
}

// New creates a generator for seed.
func New(seed uint64) *Generator {
	return &Generator{seed: seed}
}

// Key returns the i-th key: the index, a dash, and the hex xxhash of
// (seed, i). The index prefix keeps keys unique even on hash collisions.
func (g *Generator) Key(i uint64) string {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], g.seed)
	binary.LittleEndian.PutUint64(buf[8:], i)

	h := xxhash.Sum64(buf[:])
	return strconv.FormatUint(i, 10) + "-" + strconv.FormatUint(h, 16)
}

// Keys yields the first n keys with their indexes. A negative n yields
// nothing.
func (g *Generator) Keys(n int) iter.Seq2[uint64, string] {
	return func(yield func(uint64, string) bool) {
		if n <= 0 {
			return
		}
		for i := uint64(0); i < uint64(n); i++ {
			if !yield(i, g.Key(i)) {
				return
			}
		}
	}
}
