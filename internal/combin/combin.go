// Package combin provides ranking and unranking of piece-group vectors.
//
// Three vector spaces are covered:
//
//   - Permutation: rearrangements of pairwise-distinct labels, ranked by
//     Lehmer code in lexicographic order (size n!).
//   - Multiset: rearrangements of labels with repeats, ranked in
//     lexicographic order among distinct arrangements (size n!/∏cᵢ!).
//   - Orientation: vectors over [0, omod), ranked as mixed-radix numbers
//     with the first element most significant (size omodⁿ).
//
// Sizes are overflow-checked; constructors report false when the domain
// cannot be represented as an int64.
package combin

import (
	"math"
	"math/bits"
	"slices"
)

// Factorial returns n! and false if it overflows int64.
func Factorial(n int) (int64, bool) {
	if n < 0 {
		return 0, false
	}
	r := uint64(1)
	for i := 2; i <= n; i++ {
		hi, lo := bits.Mul64(r, uint64(i))
		if hi != 0 || lo > math.MaxInt64 {
			return 0, false
		}
		r = lo
	}
	return int64(r), true
}

// binomial returns C(n, k) and false on overflow.
func binomial(n, k int) (uint64, bool) {
	if k < 0 || k > n {
		return 0, true
	}
	if k > n-k {
		k = n - k
	}
	r := uint64(1)
	for i := 0; i < k; i++ {
		hi, lo := bits.Mul64(r, uint64(n-i))
		d := uint64(i + 1)
		if hi >= d {
			return 0, false
		}
		r, _ = bits.Div64(hi, lo, d)
	}
	return r, true
}

// Multinomial returns the number of distinct arrangements of v and false if
// it overflows int64.
func Multinomial(v []int) (int64, bool) {
	_, counts := tally(v)
	total := 0
	r := uint64(1)
	for _, c := range counts {
		total += c
		b, ok := binomial(total, c)
		if !ok {
			return 0, false
		}
		hi, lo := bits.Mul64(r, b)
		if hi != 0 || lo > math.MaxInt64 {
			return 0, false
		}
		r = lo
	}
	return int64(r), true
}

// Unique reports whether all elements of v are pairwise distinct.
func Unique(v []int) bool {
	s := slices.Clone(v)
	slices.Sort(s)
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1] {
			return false
		}
	}
	return true
}

// tally returns the sorted distinct values of v and their multiplicities.
func tally(v []int) ([]int, []int) {
	s := slices.Clone(v)
	slices.Sort(s)
	var vals, counts []int
	for i, x := range s {
		if i == 0 || x != s[i-1] {
			vals = append(vals, x)
			counts = append(counts, 0)
		}
		counts[len(counts)-1]++
	}
	return vals, counts
}

// valueIndex maps label values to their position in the sorted value list.
// Labels are non-negative piece numbers, so a dense slice suffices.
func valueIndex(vals []int) []int {
	idx := make([]int, vals[len(vals)-1]+1)
	for i := range idx {
		idx[i] = -1
	}
	for i, x := range vals {
		idx[x] = i
	}
	return idx
}

// Permutation ranks rearrangements of pairwise-distinct labels.
type Permutation struct {
	n      int
	size   int64
	sorted []int
	fact   []int64
}

// NewPermutation builds a ranker over rearrangements of solved.
// Returns false if solved has repeats, negative labels, or n! overflows.
func NewPermutation(solved []int) (*Permutation, bool) {
	n := len(solved)
	if n == 0 || !Unique(solved) || slices.Min(solved) < 0 {
		return nil, false
	}
	size, ok := Factorial(n)
	if !ok {
		return nil, false
	}
	sorted := slices.Clone(solved)
	slices.Sort(sorted)
	fact := make([]int64, n)
	for i := range fact {
		fact[i], _ = Factorial(i)
	}
	return &Permutation{n: n, size: size, sorted: sorted, fact: fact}, true
}

// Size returns n!.
func (p *Permutation) Size() int64 { return p.size }

// Rank returns the lexicographic rank of v.
func (p *Permutation) Rank(v []int) int64 {
	var r int64
	for i := 0; i < p.n; i++ {
		c := 0
		for j := i + 1; j < p.n; j++ {
			if v[j] < v[i] {
				c++
			}
		}
		r += int64(c) * p.fact[p.n-1-i]
	}
	return r
}

// Unrank writes the permutation with rank idx into dst.
func (p *Permutation) Unrank(idx int64, dst []int) {
	var used uint64 // n <= 20, so a bitmask covers every label slot
	for i := 0; i < p.n; i++ {
		f := p.fact[p.n-1-i]
		c := int(idx / f)
		idx %= f
		for k := 0; k < p.n; k++ {
			if used&(1<<k) != 0 {
				continue
			}
			if c == 0 {
				used |= 1 << k
				dst[i] = p.sorted[k]
				break
			}
			c--
		}
	}
}

// mulDiv returns a*b/d without intermediate overflow. The callers only
// divide arrangement counts by the remaining length, so the quotient fits.
func mulDiv(a, b, d uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, d)
	return q
}

// Multiset ranks distinct rearrangements of a vector with repeated labels.
type Multiset struct {
	n      int
	size   int64
	vals   []int
	counts []int
	index  []int
}

// NewMultiset builds a ranker over distinct rearrangements of solved.
// Returns false if solved has negative labels or the count overflows.
func NewMultiset(solved []int) (*Multiset, bool) {
	if len(solved) == 0 || slices.Min(solved) < 0 {
		return nil, false
	}
	size, ok := Multinomial(solved)
	if !ok {
		return nil, false
	}
	vals, counts := tally(solved)
	return &Multiset{n: len(solved), size: size, vals: vals, counts: counts, index: valueIndex(vals)}, true
}

// Size returns the number of distinct arrangements.
func (m *Multiset) Size() int64 { return m.size }

// Rank returns the lexicographic rank of v among distinct arrangements.
// v must be a rearrangement of the solved vector.
func (m *Multiset) Rank(v []int) int64 {
	var cntBuf [32]int
	cnt := append(cntBuf[:0], m.counts...)
	total := uint64(m.n)
	arr := uint64(m.size)
	var r uint64
	for i := 0; i < m.n; i++ {
		x := m.index[v[i]]
		for u := 0; u < x; u++ {
			if cnt[u] > 0 {
				r += mulDiv(arr, uint64(cnt[u]), total)
			}
		}
		arr = mulDiv(arr, uint64(cnt[x]), total)
		cnt[x]--
		total--
	}
	return int64(r)
}

// Unrank writes the arrangement with rank idx into dst.
func (m *Multiset) Unrank(idx int64, dst []int) {
	var cntBuf [32]int
	cnt := append(cntBuf[:0], m.counts...)
	total := uint64(m.n)
	arr := uint64(m.size)
	rem := uint64(idx)
	for i := 0; i < m.n; i++ {
		for u := range cnt {
			if cnt[u] == 0 {
				continue
			}
			c := mulDiv(arr, uint64(cnt[u]), total)
			if rem < c {
				dst[i] = m.vals[u]
				arr = c
				cnt[u]--
				break
			}
			rem -= c
		}
		total--
	}
}

// Orientation ranks vectors over [0, omod) as mixed-radix numbers.
type Orientation struct {
	n    int
	omod int
	size int64
}

// NewOrientation builds a ranker over length-n vectors mod omod.
// Returns false if omod < 1 or omodⁿ overflows int64.
func NewOrientation(n, omod int) (*Orientation, bool) {
	if n < 0 || omod < 1 {
		return nil, false
	}
	r := uint64(1)
	for i := 0; i < n; i++ {
		hi, lo := bits.Mul64(r, uint64(omod))
		if hi != 0 || lo > math.MaxInt64 {
			return nil, false
		}
		r = lo
	}
	return &Orientation{n: n, omod: omod, size: int64(r)}, true
}

// Size returns omodⁿ.
func (o *Orientation) Size() int64 { return o.size }

// Rank returns the mixed-radix value of v.
func (o *Orientation) Rank(v []int) int64 {
	var r int64
	for i := 0; i < o.n; i++ {
		r = r*int64(o.omod) + int64(v[i])
	}
	return r
}

// Unrank writes the vector with rank idx into dst.
func (o *Orientation) Unrank(idx int64, dst []int) {
	for i := o.n - 1; i >= 0; i-- {
		dst[i] = int(idx % int64(o.omod))
		idx /= int64(o.omod)
	}
}
