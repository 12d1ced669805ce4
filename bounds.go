package memaccess

// BoundsChecker is the range-check policy of a view.
//
// It is chosen once at construction and never changes. BoundsDisabled removes
// every check from the access path; misuse then reads or writes memory outside
// the view.
type BoundsChecker uint8

const (
	// BoundsChecked validates every access range.
	BoundsChecked BoundsChecker = iota
	// BoundsDisabled performs no validation. A Segmented view still fails
	// with ErrOutOfBounds when an index leaves its segment array entirely,
	// such as -1 with a zero first segment offset, or Size() with a full
	// last segment.
	BoundsDisabled
)

// Check validates that [index, index+width) lies within [0, size).
func (c BoundsChecker) Check(index, width, size int64) error {
	if c == BoundsDisabled {
		return nil
	}
	if index < 0 || width < 0 || index > size-width {
		return &OutOfBoundsError{Index: index, Width: width, Size: size}
	}
	return nil
}

func (c BoundsChecker) String() string {
	switch c {
	case BoundsChecked:
		return "checked"
	case BoundsDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}
