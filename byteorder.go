package memaccess

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/hupe1980/memaccess/internal/rawmem"
)

// WireOrder is the canonical byte order of stored data.
var WireOrder binary.ByteOrder = binary.BigEndian

// ByteOrderConvertor is the byte-order policy of a view.
//
// Values are loaded and stored as host words, then passed through the
// convertor. OrderSwap reverses the bytes of every multi-byte value, so data
// written on one host can be read unchanged on a host of the other order.
// Encoding and decoding are the same operation.
type ByteOrderConvertor uint8

const (
	// OrderIdentity leaves values untouched.
	OrderIdentity ByteOrderConvertor = iota
	// OrderSwap reverses the bytes of every multi-byte value.
	OrderSwap
)

// ConvertorFor returns the convertor that translates values laid out in from
// into values laid out in to.
func ConvertorFor(from, to binary.ByteOrder) ByteOrderConvertor {
	if rawmem.IsBigEndian(from) == rawmem.IsBigEndian(to) {
		return OrderIdentity
	}
	return OrderSwap
}

// ToNative returns the convertor between from and the host order.
func ToNative(from binary.ByteOrder) ByteOrderConvertor {
	return ConvertorFor(from, rawmem.NativeOrder)
}

// ToWire returns the convertor between from and WireOrder.
func ToWire(from binary.ByteOrder) ByteOrderConvertor {
	return ConvertorFor(from, WireOrder)
}

// StorageOrder is the order in which bytes of a value end up in memory when a
// host word is stored after conversion.
func (c ByteOrderConvertor) StorageOrder() binary.ByteOrder {
	if c == OrderIdentity {
		return rawmem.NativeOrder
	}
	if rawmem.IsBigEndian(rawmem.NativeOrder) {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Uint16 converts a 16-bit value.
func (c ByteOrderConvertor) Uint16(v uint16) uint16 {
	if c == OrderSwap {
		return bits.ReverseBytes16(v)
	}
	return v
}

// Uint32 converts a 32-bit value.
func (c ByteOrderConvertor) Uint32(v uint32) uint32 {
	if c == OrderSwap {
		return bits.ReverseBytes32(v)
	}
	return v
}

// Uint64 converts a 64-bit value.
func (c ByteOrderConvertor) Uint64(v uint64) uint64 {
	if c == OrderSwap {
		return bits.ReverseBytes64(v)
	}
	return v
}

// Int16 converts a signed 16-bit value.
func (c ByteOrderConvertor) Int16(v int16) int16 {
	return int16(c.Uint16(uint16(v)))
}

// Int32 converts a signed 32-bit value.
func (c ByteOrderConvertor) Int32(v int32) int32 {
	return int32(c.Uint32(uint32(v)))
}

// Int64 converts a signed 64-bit value.
func (c ByteOrderConvertor) Int64(v int64) int64 {
	return int64(c.Uint64(uint64(v)))
}

// Float32 converts the bit pattern of a float32.
func (c ByteOrderConvertor) Float32(v float32) float32 {
	return math.Float32frombits(c.Uint32(math.Float32bits(v)))
}

// Float64 converts the bit pattern of a float64.
func (c ByteOrderConvertor) Float64(v float64) float64 {
	return math.Float64frombits(c.Uint64(math.Float64bits(v)))
}

func (c ByteOrderConvertor) String() string {
	switch c {
	case OrderIdentity:
		return "identity"
	case OrderSwap:
		return "swap"
	default:
		return "unknown"
	}
}
