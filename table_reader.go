package prunetable

import (
	"errors"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	pdberrors "github.com/tamirms/prunetable/errors"
)

// ReadFile loads a cache written by WriteFile for puzzle p and classifies it.
// The layout is derived from p and the complete limits in opts, so they must
// match the ones used at write time.
//
// Format problems are returned as KindMalformed errors; the caller should
// rebuild rather than trust the file.
func ReadFile(path string, p *Puzzle, opts ...Option) (*TableSet, error) {
	cfg := newConfig(opts)
	if err := validatePuzzle(p); err != nil {
		return nil, err
	}
	ts, err := readFile(path, p, cfg)
	if err != nil {
		return nil, err
	}
	Classify(p.Datasets, ts)
	return ts, nil
}

func readFile(path string, p *Puzzle, cfg *config) (*TableSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cache file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat cache file: %w", err)
	}
	if stat.Size() < checksumSize {
		return nil, pdberrors.Malformed("read cache", path, pdberrors.ErrTruncatedFile)
	}

	adviseSequential(file, stat.Size())
	mm, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap cache file: %w", err)
	}

	ts, decodeErr := decode(mm, planGroups(p, cfg), cfg.verifyChecksum)
	if unmapErr := mm.Unmap(); unmapErr != nil {
		return nil, errors.Join(decodeErr, fmt.Errorf("mmap unmap failed: %w", unmapErr))
	}
	if decodeErr != nil {
		return nil, pdberrors.Malformed("read cache", path, decodeErr)
	}
	return ts, nil
}
