//go:build linux

package prunetable

import (
	"os"

	"golang.org/x/sys/unix"
)

// reserveCache sizes a new cache file and asks the filesystem to back every
// block up front, so a full disk fails here instead of as SIGBUS while the
// mapping is written. Filesystems without fallocate (NFS, tmpfs on old
// kernels) fall back to a sparse ftruncate.
func reserveCache(f *os.File, size int64) error {
	fd := int(f.Fd())
	_ = unix.Fallocate(fd, 0, 0, size)
	return unix.Ftruncate(fd, size)
}

// adviseSequential tells the kernel the whole cache is about to be decoded
// front to back. Best-effort.
func adviseSequential(f *os.File, size int64) {
	_ = unix.Fadvise(int(f.Fd()), 0, size, unix.FADV_SEQUENTIAL)
}

// populateForWrite faults in a fresh writable mapping in one call. Kernels
// before 5.14 return EINVAL, which is ignored.
func populateForWrite(m []byte) {
	if len(m) == 0 {
		return
	}
	_ = unix.Madvise(m, unix.MADV_POPULATE_WRITE)
}
