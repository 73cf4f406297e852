// Package errors defines all exported error sentinels and the structured error
// type for the prunetable library.
//
// This is the single source of truth for error values. Both the top-level
// prunetable package and internal packages import from here, ensuring
// errors.Is checks work across package boundaries.
package errors

import (
	"errors"
	"fmt"
)

// Puzzle input errors
var (
	ErrInvalidPuzzle  = errors.New("prunetable: invalid puzzle definition")
	ErrGroupMismatch  = errors.New("prunetable: group count or size mismatch")
	ErrTooManyIgnored = errors.New("prunetable: too many ignored pieces in a partial table")
	ErrDepthOverflow  = errors.New("prunetable: group diameter exceeds int8 depth range")
)

// Store errors
var (
	ErrDefinitionUnreadable = errors.New("prunetable: puzzle definition file is unreadable")
	ErrCacheUnreadable      = errors.New("prunetable: cache file metadata is unreadable")
)

// Cache file errors
var (
	ErrTruncatedFile   = errors.New("prunetable: cache file is truncated")
	ErrChecksumFailed  = errors.New("prunetable: cache checksum verification failed")
	ErrCorruptedTable  = errors.New("prunetable: cache data is corrupted")
	ErrTrailingData    = errors.New("prunetable: cache file has trailing data")
	ErrInvalidKeyWidth = errors.New("prunetable: partial table key width does not match group")
)

// Build outcomes
var (
	ErrCapacityExceeded = errors.New("prunetable: partial table capacity exceeded, last layer discarded")
)

// Kind tells a caller how far a table can be trusted.
type Kind uint8

const (
	// KindUnknown is returned by KindOf for errors not produced by this library.
	KindUnknown Kind = iota

	// KindFatal marks broken invocations: unreadable definition or cache
	// metadata, invalid puzzle input. Nothing built from it can be used.
	KindFatal

	// KindDegraded marks a table that is correct but weaker than requested
	// because a partial table hit its capacity.
	KindDegraded

	// KindMalformed marks a cache file that must not be trusted.
	KindMalformed
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFatal:
		return "fatal"
	case KindDegraded:
		return "degraded"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error carries the kind of failure together with where it happened.
// Group is -1 when the error is not tied to a piece group.
type Error struct {
	Kind  Kind
	Op    string
	Path  string
	Group int
	Err   error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Group >= 0 {
		msg += fmt.Sprintf(" (group %d)", e.Group)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Fatal wraps err as a KindFatal error.
func Fatal(op, path string, err error) error {
	return &Error{Kind: KindFatal, Op: op, Path: path, Group: -1, Err: err}
}

// Malformed wraps err as a KindMalformed error.
func Malformed(op, path string, err error) error {
	return &Error{Kind: KindMalformed, Op: op, Path: path, Group: -1, Err: err}
}

// Degraded reports a capacity-cut partial table for group.
func Degraded(op string, group int) error {
	return &Error{Kind: KindDegraded, Op: op, Group: group, Err: ErrCapacityExceeded}
}

// KindOf returns the kind of the first *Error in err's chain.
// Bare sentinels are classified by their meaning.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, ErrCapacityExceeded):
		return KindDegraded
	case errors.Is(err, ErrTruncatedFile), errors.Is(err, ErrChecksumFailed),
		errors.Is(err, ErrCorruptedTable), errors.Is(err, ErrTrailingData),
		errors.Is(err, ErrInvalidKeyWidth):
		return KindMalformed
	case errors.Is(err, ErrDefinitionUnreadable), errors.Is(err, ErrCacheUnreadable),
		errors.Is(err, ErrInvalidPuzzle), errors.Is(err, ErrGroupMismatch),
		errors.Is(err, ErrTooManyIgnored), errors.Is(err, ErrDepthOverflow):
		return KindFatal
	}
	return KindUnknown
}
