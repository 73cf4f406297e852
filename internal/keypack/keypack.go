// Package keypack serializes fixed-length integer vectors into fixed-width
// sequences of uint64 words for use as partial-table keys.
//
// Each element takes the same number of bits (enough for the largest value
// the vector can hold) and elements never straddle a word boundary, so the
// encoding is total and collision-free for vectors of the configured length.
package keypack

import "math/bits"

// Packer packs length-n vectors whose elements lie in [0, maxValue].
type Packer struct {
	n       int
	bits    uint
	perWord int
	width   int
	mask    uint64
}

// New returns a Packer for length-n vectors with elements in [0, maxValue].
func New(n, maxValue int) *Packer {
	b := uint(bits.Len(uint(maxValue)))
	if b == 0 {
		b = 1
	}
	perWord := 64 / int(b)
	width := (n + perWord - 1) / perWord
	if width == 0 {
		width = 1
	}
	return &Packer{
		n:       n,
		bits:    b,
		perWord: perWord,
		width:   width,
		mask:    uint64(1)<<b - 1,
	}
}

// Width returns the number of words per key.
func (p *Packer) Width() int { return p.width }

// Pack writes the key for v into dst, which must hold Width() words.
func (p *Packer) Pack(v []int, dst []uint64) {
	for w := range dst[:p.width] {
		dst[w] = 0
	}
	for i := 0; i < p.n; i++ {
		w, slot := i/p.perWord, uint(i%p.perWord)
		dst[w] |= (uint64(v[i]) & p.mask) << (slot * p.bits)
	}
}

// Unpack writes the vector encoded by key into dst.
func (p *Packer) Unpack(key []uint64, dst []int) {
	for i := 0; i < p.n; i++ {
		w, slot := i/p.perWord, uint(i%p.perWord)
		dst[i] = int(key[w]>>(slot*p.bits)&p.mask)
	}
}
