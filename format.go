package prunetable

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"

	pdberrors "github.com/tamirms/prunetable/errors"
	"github.com/tamirms/prunetable/internal/encoding"
	"github.com/tamirms/prunetable/internal/keymap"
)

const (
	// checksumSize is the leading checksum slot.
	checksumSize = 4

	// partialHeaderSize is [count u32][keyWidth u32].
	partialHeaderSize = 8
)

// Cache file layout (little-endian):
//
//	Offset  Size  Field
//	0       4     Checksum   uint32_le, low 32 bits of xxHash64 of every later byte
//	4       ...   Groups     in index order, permutation axis then orientation axis
//
// A complete axis is Size() raw int8 depths, one per rank. A partial axis is
//
//	[Count u32][KeyWidth u32] Count × ([Depth i8][KeyWidth × u64_le])
//
// with records in BFS order. Whether an axis is complete is not stored; the
// reader derives it from the puzzle exactly as the writer did.

// checksum returns the value stored in the checksum slot for body.
func checksum(body []byte) uint32 {
	return uint32(xxhash.Sum64(body))
}

// encodedSize returns the exact file size of ts.
func encodedSize(ts *TableSet) uint64 {
	n := uint64(checksumSize)
	for g := range ts.groups {
		for _, a := range []axis{axisPermutation, axisOrientation} {
			n += axisEncodedSize(ts, g, a)
		}
	}
	return n
}

func axisEncodedSize(ts *TableSet, g int, a axis) uint64 {
	plan := ts.plans[g].axis(a)
	if plan.complete {
		return uint64(plan.ranker.Size())
	}
	pt := ts.groups[g].partial(a)
	return partialHeaderSize + uint64(pt.Len())*uint64(encoding.RecordSize(plan.packer.Width()))
}

func (gt *GroupTable) dense(a axis) []int8 {
	if a == axisOrientation {
		return gt.Orientation
	}
	return gt.Permutation
}

func (gt *GroupTable) partial(a axis) *PartialTable {
	if a == axisOrientation {
		return gt.PartialOrientation
	}
	return gt.PartialPermutation
}

// encodeTo serializes ts into buf, which must hold encodedSize(ts) bytes,
// checksum slot included.
func encodeTo(ts *TableSet, buf []byte) error {
	off := checksumSize
	for g := range ts.groups {
		for _, a := range []axis{axisPermutation, axisOrientation} {
			n, err := encodeAxis(ts, g, a, buf[off:])
			if err != nil {
				return err
			}
			off += n
		}
	}
	binary.LittleEndian.PutUint32(buf[0:checksumSize], checksum(buf[checksumSize:off]))
	return nil
}

func encodeAxis(ts *TableSet, g int, a axis, buf []byte) (int, error) {
	plan := ts.plans[g].axis(a)
	gt := &ts.groups[g]
	if plan.complete {
		table := gt.dense(a)
		if int64(len(table)) != plan.ranker.Size() {
			return 0, fmt.Errorf("group %d %s table has %d entries, want %d",
				g, a, len(table), plan.ranker.Size())
		}
		for i, d := range table {
			buf[i] = byte(d)
		}
		return len(table), nil
	}

	pt := gt.partial(a)
	width := plan.packer.Width()
	binary.LittleEndian.PutUint32(buf[0:4], uint32(pt.Len()))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(width))
	off := partialHeaderSize
	if pt.Len() == 0 {
		return off, nil
	}
	if pt.KeyWidth() != width {
		return 0, fmt.Errorf("group %d %s table has key width %d, want %d",
			g, a, pt.KeyWidth(), width)
	}
	for key, d := range pt.All() {
		off += encoding.PutRecord(buf[off:], d, key)
	}
	return off, nil
}

// decode parses a cache image into a TableSet shaped by plans. Dense tables
// are copied out of data so the caller may unmap it afterwards.
func decode(data []byte, plans []groupPlan, verify bool) (*TableSet, error) {
	if len(data) < checksumSize {
		return nil, pdberrors.ErrTruncatedFile
	}
	ts := &TableSet{
		groups: make([]GroupTable, len(plans)),
		plans:  plans,
		kinds:  make([]axisKinds, len(plans)),
	}
	off := uint64(checksumSize)
	size := uint64(len(data))
	for g := range plans {
		for _, a := range []axis{axisPermutation, axisOrientation} {
			n, err := decodeAxis(ts, g, a, data[off:])
			if err != nil {
				return nil, fmt.Errorf("group %d %s: %w", g, a, err)
			}
			off += n
		}
	}
	if off != size {
		return nil, fmt.Errorf("%w: %d bytes after the last table", pdberrors.ErrTrailingData, size-off)
	}
	if verify {
		stored := binary.LittleEndian.Uint32(data[0:checksumSize])
		if got := checksum(data[checksumSize:]); got != stored {
			return nil, fmt.Errorf("%w: stored %#08x, computed %#08x", pdberrors.ErrChecksumFailed, stored, got)
		}
	}
	return ts, nil
}

func decodeAxis(ts *TableSet, g int, a axis, buf []byte) (uint64, error) {
	plan := ts.plans[g].axis(a)
	gt := &ts.groups[g]
	if plan.complete {
		n := uint64(plan.ranker.Size())
		if uint64(len(buf)) < n {
			return 0, pdberrors.ErrTruncatedFile
		}
		table := make([]int8, n)
		for i := range table {
			d := int8(buf[i])
			if d < -1 {
				return 0, fmt.Errorf("%w: depth %d at rank %d", pdberrors.ErrCorruptedTable, d, i)
			}
			table[i] = d
		}
		if a == axisOrientation {
			gt.Orientation = table
		} else {
			gt.Permutation = table
		}
		return n, nil
	}

	if len(buf) < partialHeaderSize {
		return 0, pdberrors.ErrTruncatedFile
	}
	count := uint64(binary.LittleEndian.Uint32(buf[0:4]))
	width := int(binary.LittleEndian.Uint32(buf[4:8]))
	if width != plan.packer.Width() {
		return 0, fmt.Errorf("%w: file has %d, group needs %d", pdberrors.ErrInvalidKeyWidth, width, plan.packer.Width())
	}
	recSize := uint64(encoding.RecordSize(width))
	n := partialHeaderSize + count*recSize
	if uint64(len(buf)) < n {
		return 0, pdberrors.ErrTruncatedFile
	}
	m := keymap.New(width, int(count))
	key := make([]uint64, width)
	off := uint64(partialHeaderSize)
	for i := uint64(0); i < count; i++ {
		d := encoding.ReadRecord(buf[off:], key)
		off += recSize
		if d < 0 {
			return 0, fmt.Errorf("%w: negative depth in record %d", pdberrors.ErrCorruptedTable, i)
		}
		if !m.Insert(key, d) {
			return 0, fmt.Errorf("%w: duplicate key in record %d", pdberrors.ErrCorruptedTable, i)
		}
	}
	pt := newPartialTable(m, false)
	if a == axisOrientation {
		gt.PartialOrientation = pt
	} else {
		gt.PartialPermutation = pt
	}
	return n, nil
}
