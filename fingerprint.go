package prunetable

import (
	"encoding/binary"
	"unsafe"

	"github.com/spaolacci/murmur3"
)

// Fingerprint returns a 128-bit digest of every table's contents and
// classification. Two sets built from the same puzzle with the same limits
// have equal fingerprints, whether built sequentially, in parallel or read
// back from a cache.
func (ts *TableSet) Fingerprint() (uint64, uint64) {
	h := murmur3.New128()
	var buf [9]byte
	for g := range ts.groups {
		gt := &ts.groups[g]
		buf[0], buf[1] = byte(ts.kinds[g].perm), byte(ts.kinds[g].ori)
		h.Write(buf[:2])
		for _, a := range []axis{axisPermutation, axisOrientation} {
			if t := gt.dense(a); len(t) > 0 {
				h.Write(unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(t))), len(t)))
				continue
			}
			pt := gt.partial(a)
			if pt.Len() == 0 {
				continue
			}
			for key, d := range pt.All() {
				buf[0] = byte(d)
				h.Write(buf[:1])
				for _, w := range key {
					binary.LittleEndian.PutUint64(buf[1:], w)
					h.Write(buf[1:9])
				}
			}
		}
	}
	return h.Sum128()
}
