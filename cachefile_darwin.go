//go:build darwin

package prunetable

import (
	"os"

	"golang.org/x/sys/unix"
)

// reserveCache sizes a new cache file. F_PREALLOCATE only reserves blocks,
// so the size is always set with ftruncate afterwards.
func reserveCache(f *os.File, size int64) error {
	fst := unix.Fstore_t{
		Flags:   unix.F_ALLOCATEALL,
		Posmode: unix.F_PEOFPOSMODE,
		Length:  size,
	}
	_ = unix.FcntlFstore(f.Fd(), unix.F_PREALLOCATE, &fst)
	return unix.Ftruncate(int(f.Fd()), size)
}

// adviseSequential turns on read-ahead for the cache. Best-effort.
func adviseSequential(f *os.File, _ int64) {
	_, _ = unix.FcntlInt(f.Fd(), unix.F_RDAHEAD, 1)
}

func populateForWrite([]byte) {}
