//go:build !linux && !darwin

package prunetable

import "os"

// reserveCache sizes a new cache file. Blocks may be allocated lazily.
func reserveCache(f *os.File, size int64) error {
	return f.Truncate(size)
}

func adviseSequential(*os.File, int64) {}

func populateForWrite([]byte) {}
