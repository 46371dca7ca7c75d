// Package xrand provides the seedable generators used by the rdh package.
//
// A Rand produced by New is fully determined by its seed; the permutation
// engine depends on this to rebuild a shuffle from a key.
package xrand

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
)

// A Source yields uniformly distributed 8- and 32-bit values.
type Source interface {
	Uint32() uint32
	Uint8() uint8
}

// Rand is a deterministic PCG generator.
type Rand struct {
	pcg *mrand.PCG
}

// increment stream selector, fixed so that a seed alone defines the sequence
const stream = 0x9e3779b97f4a7c15

// New returns a generator seeded with seed.
func New(seed uint64) *Rand {
	return &Rand{pcg: mrand.NewPCG(seed, seed^stream)}
}

// NewCrypto returns a generator seeded from crypto/rand.
func NewCrypto() *Rand {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return New(binary.LittleEndian.Uint64(b[:]))
}

// Seed resets the generator to the sequence for seed.
func (r *Rand) Seed(seed uint64) {
	r.pcg.Seed(seed, seed^stream)
}

// Uint32 returns the next 32-bit value.
func (r *Rand) Uint32() uint32 {
	return uint32(r.pcg.Uint64() >> 32)
}

// Uint8 returns the next 8-bit value.
func (r *Rand) Uint8() uint8 {
	return uint8(r.pcg.Uint64() >> 56)
}
