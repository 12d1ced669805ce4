package rawmem

import (
	"encoding/binary"
	"errors"
	"sync/atomic"
	"unsafe"
)

// ErrMisaligned is returned when an atomic operation targets an address that is
// not aligned to the operand width.
var ErrMisaligned = errors.New("rawmem: misaligned atomic access")

// NativeOrder is the byte order of the host.
var NativeOrder binary.ByteOrder = detectNativeOrder()

func detectNativeOrder() binary.ByteOrder {
	var probe uint16 = 0x0102
	if *(*byte)(unsafe.Pointer(&probe)) == 0x01 { //nolint:gosec // byte probe of a local
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// IsBigEndian reports whether o lays out the most significant byte first.
// It works for any binary.ByteOrder implementation, including
// binary.NativeEndian.
func IsBigEndian(o binary.ByteOrder) bool {
	var b [2]byte
	o.PutUint16(b[:], 0x0102)
	return b[0] == 0x01
}

// Base returns the address of the first element of b.
// The returned pointer keeps the backing array reachable.
func Base(b []byte) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(b)) //nolint:gosec // unsafe is required for raw addressing
}

// Add returns base advanced by off bytes.
func Add(base unsafe.Pointer, off int64) unsafe.Pointer {
	return unsafe.Add(base, off) //nolint:gosec // unsafe is required for raw addressing
}

func window(p unsafe.Pointer, n int) []byte {
	return unsafe.Slice((*byte)(p), n) //nolint:gosec // unsafe is required for raw addressing
}

// Load8 reads one byte at p.
func Load8(p unsafe.Pointer) uint8 {
	return *(*uint8)(p)
}

// Load16 reads a host-order uint16 at p. p need not be aligned.
func Load16(p unsafe.Pointer) uint16 {
	return binary.NativeEndian.Uint16(window(p, 2))
}

// Load32 reads a host-order uint32 at p. p need not be aligned.
func Load32(p unsafe.Pointer) uint32 {
	return binary.NativeEndian.Uint32(window(p, 4))
}

// Load64 reads a host-order uint64 at p. p need not be aligned.
func Load64(p unsafe.Pointer) uint64 {
	return binary.NativeEndian.Uint64(window(p, 8))
}

// Store8 writes one byte at p.
func Store8(p unsafe.Pointer, v uint8) {
	*(*uint8)(p) = v
}

// Store16 writes v in host order at p.
func Store16(p unsafe.Pointer, v uint16) {
	binary.NativeEndian.PutUint16(window(p, 2), v)
}

// Store32 writes v in host order at p.
func Store32(p unsafe.Pointer, v uint32) {
	binary.NativeEndian.PutUint32(window(p, 4), v)
}

// Store64 writes v in host order at p.
func Store64(p unsafe.Pointer, v uint64) {
	binary.NativeEndian.PutUint64(window(p, 8), v)
}

// CompareAndSwap32 atomically replaces the uint32 at p with val if it equals old.
func CompareAndSwap32(p unsafe.Pointer, old, val uint32) (bool, error) {
	if uintptr(p)&3 != 0 {
		return false, ErrMisaligned
	}
	return atomic.CompareAndSwapUint32((*uint32)(p), old, val), nil
}

// CompareAndSwap64 atomically replaces the uint64 at p with val if it equals old.
func CompareAndSwap64(p unsafe.Pointer, old, val uint64) (bool, error) {
	if uintptr(p)&7 != 0 {
		return false, ErrMisaligned
	}
	return atomic.CompareAndSwapUint64((*uint64)(p), old, val), nil
}

// CopyOut copies len(dst) bytes starting at src into dst.
func CopyOut(dst []byte, src unsafe.Pointer) {
	if len(dst) == 0 {
		return
	}
	copy(dst, window(src, len(dst)))
}

// CopyIn copies src to the memory starting at dst.
func CopyIn(dst unsafe.Pointer, src []byte) {
	if len(src) == 0 {
		return
	}
	copy(window(dst, len(src)), src)
}
