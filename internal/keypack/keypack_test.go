package keypack

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestPackRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, tc := range []struct{ n, maxValue int }{
		{1, 0},
		{8, 7},
		{12, 12},
		{24, 24},
		{40, 3},
		{100, 1},
		{17, 1000},
	} {
		p := New(tc.n, tc.maxValue)
		v := make([]int, tc.n)
		got := make([]int, tc.n)
		key := make([]uint64, p.Width())
		for range 200 {
			for i := range v {
				v[i] = rng.IntN(tc.maxValue + 1)
			}
			p.Pack(v, key)
			p.Unpack(key, got)
			if !slices.Equal(v, got) {
				t.Fatalf("n=%d max=%d: Unpack(Pack(%v)) = %v", tc.n, tc.maxValue, v, got)
			}
		}
	}
}

func TestPackWidth(t *testing.T) {
	tests := []struct{ n, maxValue, want int }{
		{12, 12, 1}, // 4 bits × 12 = 48
		{24, 24, 2}, // 5 bits, 12 per word
		{16, 15, 1}, // 4 bits × 16 = 64
		{17, 15, 2}, // one element spills into the second word
		{64, 1, 1},  // 1 bit each
		{0, 5, 1},   // degenerate but still addressable
	}
	for _, tt := range tests {
		if got := New(tt.n, tt.maxValue).Width(); got != tt.want {
			t.Errorf("New(%d, %d).Width() = %d, want %d", tt.n, tt.maxValue, got, tt.want)
		}
	}
}

func TestPackDistinct(t *testing.T) {
	p := New(3, 3)
	seen := make(map[uint64][]int)
	key := make([]uint64, p.Width())
	for a := range 4 {
		for b := range 4 {
			for c := range 4 {
				v := []int{a, b, c}
				p.Pack(v, key)
				if prev, ok := seen[key[0]]; ok {
					t.Fatalf("%v and %v share key %#x", prev, v, key[0])
				}
				seen[key[0]] = v
			}
		}
	}
}
