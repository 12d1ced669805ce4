package mem

import (
	"unsafe"
)

// WordAlignment is the alignment required for 64-bit atomic access.
const WordAlignment = 8

// AllocAligned allocates a zeroed byte slice of the given size whose first
// byte sits at an address divisible by align. align must be a power of two;
// values below 1 fall back to WordAlignment.
//
// The slice is carved out of a slightly larger allocation. Its capacity is
// clipped to size so appends can never spill into the padding.
func AllocAligned(size, align int) []byte {
	if size <= 0 {
		return nil
	}
	if align < 1 || align&(align-1) != 0 {
		align = WordAlignment
	}

	buf := make([]byte, size+align)

	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf))) //nolint:gosec // unsafe is required for memory alignment
	offset := int((uintptr(align) - (addr & uintptr(align-1))) & uintptr(align-1))

	return buf[offset : offset+size : offset+size]
}
