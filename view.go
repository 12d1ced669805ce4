package memaccess

import "fmt"

// ReadView is read access to a contiguous, byte-addressable range of memory.
//
// Indexes are logical byte offsets starting at zero. Multi-byte values are
// converted by the view's ByteOrderConvertor; raw buffer copies are not.
type ReadView interface {
	fmt.Stringer

	// Size returns the number of addressable bytes. It never changes.
	Size() int64
	BoundsChecker() BoundsChecker
	ByteOrderConvertor() ByteOrderConvertor

	GetByte(index int64) (byte, error)
	GetChar(index int64) (uint16, error)
	GetShort(index int64) (int16, error)
	GetInt(index int64) (int32, error)
	GetLong(index int64) (int64, error)
	GetFloat(index int64) (float32, error)
	GetDouble(index int64) (float64, error)

	// GetBuffer copies len(dst) raw bytes starting at index into dst.
	GetBuffer(dst []byte, index int64) error

	// ExportSlices returns the view's exact logical range as slices of the
	// backing memory, in order. No bytes are copied.
	ExportSlices() [][]byte
}

// View is read-write access to a contiguous, byte-addressable range of memory.
type View interface {
	ReadView

	PutByte(index int64, v byte) error
	PutChar(index int64, v uint16) error
	PutShort(index int64, v int16) error
	PutInt(index int64, v int32) error
	PutLong(index int64, v int64) error
	PutFloat(index int64, v float32) error
	PutDouble(index int64, v float64) error

	// PutBuffer copies src as raw bytes starting at index.
	PutBuffer(index int64, src []byte) error
	// PutView copies the whole logical range of src as raw bytes starting at index.
	PutView(index int64, src ReadView) error

	// CompareAndSwapInt atomically replaces the 4-byte value at index with
	// value if it currently equals expected.
	CompareAndSwapInt(index int64, expected, value int32) (bool, error)
	// CompareAndSwapLong atomically replaces the 8-byte value at index with
	// value if it currently equals expected.
	CompareAndSwapLong(index int64, expected, value int64) (bool, error)
}

// Primitive widths in bytes.
const (
	byteWidth  = 1
	shortWidth = 2
	intWidth   = 4
	longWidth  = 8
)
