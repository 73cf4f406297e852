package prunetable

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"
)

// tableWriter writes a cache image through a read-write mapping of a temp
// file next to the destination, then renames it into place so readers never
// observe a half-written cache.
type tableWriter struct {
	file *os.File
	mmap mmap.MMap
	path string // destination
	size uint64
}

// WriteFile serializes ts to path, replacing any existing file atomically.
func WriteFile(path string, ts *TableSet) error {
	tw, err := newTableWriter(path, encodedSize(ts))
	if err != nil {
		return err
	}
	if err := encodeTo(ts, tw.mmap); err != nil {
		return errors.Join(err, tw.abort())
	}
	return tw.finalize()
}

// newTableWriter pre-allocates and maps a temp file of exactly size bytes.
func newTableWriter(path string, size uint64) (*tableWriter, error) {
	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create cache file: %w", err)
	}
	tw := &tableWriter{file: file, path: path, size: size}

	// Pre-allocate disk blocks to prevent SIGBUS on disk full
	if err := reserveCache(file, int64(size)); err != nil {
		primaryErr := fmt.Errorf("failed to allocate disk space: %w", err)
		return nil, errors.Join(primaryErr, tw.abort())
	}

	mm, err := mmap.MapRegion(file, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		primaryErr := fmt.Errorf("failed to mmap file: %w", err)
		return nil, errors.Join(primaryErr, tw.abort())
	}
	tw.mmap = mm
	populateForWrite(mm)
	return tw, nil
}

// finalize flushes, unmaps and closes the temp file, then renames it over the
// destination. On error the temp file is removed.
func (tw *tableWriter) finalize() error {
	if err := tw.mmap.Flush(); err != nil {
		primaryErr := fmt.Errorf("mmap flush failed: %w", err)
		return errors.Join(primaryErr, tw.abort())
	}

	// Nil mmap regardless of outcome to prevent abort() from retrying.
	unmapErr := tw.mmap.Unmap()
	tw.mmap = nil
	if unmapErr != nil {
		primaryErr := fmt.Errorf("mmap unmap failed: %w", unmapErr)
		return errors.Join(primaryErr, tw.abort())
	}

	closeErr := tw.file.Close()
	tmp := tw.file.Name()
	tw.file = nil
	if closeErr != nil {
		return errors.Join(closeErr, os.Remove(tmp))
	}
	if err := os.Rename(tmp, tw.path); err != nil {
		primaryErr := fmt.Errorf("failed to replace cache file: %w", err)
		return errors.Join(primaryErr, os.Remove(tmp))
	}
	return nil
}

// abort releases the mapping and removes the temp file.
// Idempotent: safe to call multiple times.
func (tw *tableWriter) abort() error {
	var unmapErr error
	if tw.mmap != nil {
		unmapErr = tw.mmap.Unmap()
		tw.mmap = nil
	}
	var closeErr, removeErr error
	if tw.file != nil {
		closeErr = tw.file.Close()
		removeErr = os.Remove(tw.file.Name())
		tw.file = nil
	}
	return errors.Join(unmapErr, closeErr, removeErr)
}
