// Package keymap implements the hash map behind partial pruning tables.
//
// Keys are fixed-width sequences of uint64 words (packed vectors) and values
// are int8 depths. Entries are stored in insertion order in a flat arena, and
// an open-addressing slot table with linear probing indexes them. Because a
// breadth-first build inserts whole layers in order, a layer is a contiguous
// entry range, and discarding the last layer is a single Truncate.
package keymap

import (
	"slices"
	"unsafe"

	"github.com/zeebo/xxh3"

	intbits "github.com/tamirms/prunetable/internal/bits"
)

const (
	// minSlots is the smallest slot table allocated.
	minSlots = 16

	// maxLoadNum/maxLoadDen bound the slot table load factor at 1/2.
	maxLoadNum = 1
	maxLoadDen = 2
)

// Map is a fixed-key-width hash map from packed keys to depths.
// A Map is not safe for concurrent mutation; concurrent Get calls on a Map
// that is no longer mutated are safe.
type Map struct {
	width  int
	keys   []uint64 // entry i occupies keys[i*width : (i+1)*width]
	depths []int8
	slots  []uint32 // 0 = empty, otherwise entry index + 1
}

// New creates a map for keys of width words, presized for hint entries.
func New(width, hint int) *Map {
	m := &Map{
		width:  width,
		keys:   make([]uint64, 0, hint*width),
		depths: make([]int8, 0, hint),
	}
	m.slots = make([]uint32, slotsFor(hint))
	return m
}

// slotsFor returns the slot table size that holds n entries under the load bound.
func slotsFor(n int) int {
	s := minSlots
	for s*maxLoadNum < n*maxLoadDen {
		s *= 2
	}
	return s
}

// Width returns the number of words per key.
func (m *Map) Width() int { return m.width }

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.depths) }

// Key returns entry i's key. The slice aliases the map's storage.
func (m *Map) Key(i int) []uint64 { return m.keys[i*m.width : (i+1)*m.width] }

// Depth returns entry i's depth.
func (m *Map) Depth(i int) int8 { return m.depths[i] }

// hash hashes the raw bytes of a key.
func hash(key []uint64) uint64 {
	if len(key) == 0 {
		return xxh3.Hash(nil)
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(key))), len(key)*8)
	return xxh3.Hash(b)
}

// find returns the slot holding key, or the empty slot where it would go.
func (m *Map) find(key []uint64) (slot int, found bool) {
	n := uint64(len(m.slots))
	s := int(intbits.FastRange(hash(key), n))
	for {
		e := m.slots[s]
		if e == 0 {
			return s, false
		}
		if slices.Equal(m.Key(int(e-1)), key) {
			return s, true
		}
		s++
		if s == len(m.slots) {
			s = 0
		}
	}
}

// Get returns the depth stored for key.
func (m *Map) Get(key []uint64) (int8, bool) {
	s, ok := m.find(key)
	if !ok {
		return 0, false
	}
	return m.depths[m.slots[s]-1], true
}

// Insert adds key at depth d if it is absent and reports whether it was added.
func (m *Map) Insert(key []uint64, d int8) bool {
	if (len(m.depths)+1)*maxLoadDen > len(m.slots)*maxLoadNum {
		m.rehash(slotsFor(len(m.depths) + 1))
	}
	s, ok := m.find(key)
	if ok {
		return false
	}
	m.keys = append(m.keys, key...)
	m.depths = append(m.depths, d)
	m.slots[s] = uint32(len(m.depths))
	return true
}

// Truncate drops every entry from index n on.
func (m *Map) Truncate(n int) {
	if n >= len(m.depths) {
		return
	}
	m.keys = m.keys[:n*m.width]
	m.depths = m.depths[:n]
	m.rehash(len(m.slots))
}

// rehash rebuilds the slot table with size slots.
func (m *Map) rehash(size int) {
	if cap(m.slots) >= size {
		m.slots = m.slots[:size]
		clear(m.slots)
	} else {
		m.slots = make([]uint32, size)
	}
	for i := range m.depths {
		s, _ := m.find(m.Key(i))
		m.slots[s] = uint32(i + 1)
	}
}

// MaxDepth returns the largest stored depth, or -1 for an empty map.
func (m *Map) MaxDepth() int8 {
	if len(m.depths) == 0 {
		return -1
	}
	return slices.Max(m.depths)
}
