package keymap

import (
	"math/rand/v2"
	"testing"
)

func TestInsertGet(t *testing.T) {
	m := New(2, 0)
	keys := [][]uint64{{1, 2}, {2, 1}, {0, 0}, {1<<63 | 5, 7}}
	for i, k := range keys {
		if !m.Insert(k, int8(i)) {
			t.Fatalf("Insert(%v) reported duplicate", k)
		}
	}
	if m.Insert([]uint64{1, 2}, 9) {
		t.Error("duplicate insert reported as new")
	}
	if m.Len() != len(keys) {
		t.Fatalf("Len() = %d, want %d", m.Len(), len(keys))
	}
	for i, k := range keys {
		d, ok := m.Get(k)
		if !ok || d != int8(i) {
			t.Errorf("Get(%v) = %d, %v; want %d", k, d, ok, i)
		}
	}
	if _, ok := m.Get([]uint64{3, 3}); ok {
		t.Error("Get of absent key succeeded")
	}
}

func TestInsertionOrder(t *testing.T) {
	m := New(1, 4)
	for i := range 100 {
		m.Insert([]uint64{uint64(i * 7919)}, int8(i%5))
	}
	for i := range 100 {
		if got := m.Key(i)[0]; got != uint64(i*7919) {
			t.Fatalf("Key(%d) = %d, want %d", i, got, i*7919)
		}
		if got := m.Depth(i); got != int8(i%5) {
			t.Fatalf("Depth(%d) = %d", i, got)
		}
	}
}

func TestGrowth(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	m := New(3, 0)
	ref := make(map[[3]uint64]int8)
	for range 50000 {
		k := [3]uint64{rng.Uint64N(1000), rng.Uint64N(1000), rng.Uint64N(4)}
		d := int8(rng.IntN(20))
		added := m.Insert(k[:], d)
		if _, dup := ref[k]; dup == added {
			t.Fatalf("Insert(%v) = %v with dup=%v", k, added, dup)
		}
		if added {
			ref[k] = d
		}
	}
	if m.Len() != len(ref) {
		t.Fatalf("Len() = %d, want %d", m.Len(), len(ref))
	}
	for k, want := range ref {
		if got, ok := m.Get(k[:]); !ok || got != want {
			t.Fatalf("Get(%v) = %d, %v; want %d", k, got, ok, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	m := New(1, 0)
	for i := range 1000 {
		m.Insert([]uint64{uint64(i)}, int8(i/100))
	}
	m.Truncate(300)
	if m.Len() != 300 {
		t.Fatalf("Len() = %d after Truncate(300)", m.Len())
	}
	for i := range 1000 {
		_, ok := m.Get([]uint64{uint64(i)})
		if ok != (i < 300) {
			t.Fatalf("Get(%d) present=%v after truncate", i, ok)
		}
	}
	if m.MaxDepth() != 2 {
		t.Errorf("MaxDepth() = %d, want 2", m.MaxDepth())
	}
	// Truncated keys can be reinserted.
	if !m.Insert([]uint64{999}, 7) {
		t.Error("reinsert after truncate reported duplicate")
	}
	m.Truncate(5000)
	if m.Len() != 301 {
		t.Errorf("Truncate beyond Len changed the map: Len() = %d", m.Len())
	}
}

func TestMaxDepthEmpty(t *testing.T) {
	if got := New(1, 0).MaxDepth(); got != -1 {
		t.Errorf("MaxDepth() of empty map = %d, want -1", got)
	}
}
