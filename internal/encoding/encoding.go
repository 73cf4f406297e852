// Package encoding serializes partial-table records.
//
// A record is a depth byte followed by the key words, each little-endian:
//
//	[Depth i8][Key[0] u64_le] ... [Key[width-1] u64_le]
package encoding

import "encoding/binary"

// RecordSize returns the encoded size of a record whose key has width words.
func RecordSize(width int) int {
	return 1 + 8*width
}

// PutRecord writes a record into buf, which must hold RecordSize(len(key))
// bytes, and returns the number of bytes written.
func PutRecord(buf []byte, depth int8, key []uint64) int {
	_ = buf[RecordSize(len(key))-1]
	buf[0] = byte(depth)
	off := 1
	for _, w := range key {
		binary.LittleEndian.PutUint64(buf[off:], w)
		off += 8
	}
	return off
}

// ReadRecord decodes the record at the start of buf into key and returns its
// depth. key's length selects the width.
func ReadRecord(buf []byte, key []uint64) int8 {
	_ = buf[RecordSize(len(key))-1]
	off := 1
	for i := range key {
		key[i] = binary.LittleEndian.Uint64(buf[off:])
		off += 8
	}
	return int8(buf[0])
}
