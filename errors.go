package memaccess

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned by checked views when an access range falls
	// outside the view.
	ErrOutOfBounds = errors.New("index out of bounds")
	// ErrInvalidArgument is returned when a view cannot be built from the given
	// arguments (non-direct buffer, mismatched or undersized segments, bad
	// offset or limit).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConfigurationMismatch is returned when aggregated segments disagree on
	// their bounds checker or byte order convertor.
	ErrConfigurationMismatch = errors.New("configuration mismatch")
	// ErrUnsupportedOperation is returned for accesses a view cannot perform,
	// such as a compare-and-swap that straddles a segment boundary.
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// OutOfBoundsError describes a rejected access range.
//
// It matches ErrOutOfBounds via errors.Is.
type OutOfBoundsError struct {
	Index int64
	Width int64
	Size  int64
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("index out of bounds: [%d, %d) not within size %d", e.Index, e.Index+e.Width, e.Size)
}

func (e *OutOfBoundsError) Unwrap() error { return ErrOutOfBounds }

// SegmentError reports which segment of an aggregate failed validation.
//
// The underlying sentinel can be accessed via errors.Unwrap.
type SegmentError struct {
	Segment int
	Reason  string
	cause   error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("%v: segment %d: %s", e.cause, e.Segment, e.Reason)
}

func (e *SegmentError) Unwrap() error { return e.cause }

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func unsupported(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedOperation, fmt.Sprintf(format, args...))
}
