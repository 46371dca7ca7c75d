package rdh

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/M311y6/MIE/internal/xrand"
)

// Planes are permuted in chunks of this many bytes.
const chunkSize = 8

// permutation returns the Fisher-Yates ordering of n chunks for key.
// Element i is the pre-shuffle index of the chunk found at i afterwards.
func permutation(n int, key uint64) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rnd := xrand.New(key)
	for i := n - 1; i > 0; i-- {
		j := int(rnd.Uint32() % uint32(i+1))
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx
}

// Shuffle permutes the 8-byte chunks of p in place, in an order determined
// by key. Trailing bytes that do not fill a chunk are left in place.
func Shuffle(p []byte, key uint64) {
	n := len(p) / chunkSize
	rnd := xrand.New(key)
	var tmp [chunkSize]byte
	for i := n - 1; i > 0; i-- {
		j := int(rnd.Uint32() % uint32(i+1))
		ci := p[i*chunkSize : (i+1)*chunkSize]
		cj := p[j*chunkSize : (j+1)*chunkSize]
		copy(tmp[:], ci)
		copy(ci, cj)
		copy(cj, tmp[:])
	}
}

// Unshuffle reverses Shuffle with the same key.
func Unshuffle(p []byte, key uint64) {
	n := len(p) / chunkSize
	if n < 2 {
		return
	}
	idx := permutation(n, key)
	orig := make([]byte, n*chunkSize)
	for i, k := range idx {
		copy(orig[k*chunkSize:(k+1)*chunkSize], p[i*chunkSize:(i+1)*chunkSize])
	}
	copy(p, orig)
}

// KeyFromPassphrase derives a permutation key from a passphrase.
func KeyFromPassphrase(pass string) uint64 {
	h := blake2b.Sum256([]byte(pass))
	return binary.LittleEndian.Uint64(h[:8])
}
