package memaccess

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/memaccess/internal/conv"
	"github.com/hupe1980/memaccess/internal/mem"
	"github.com/hupe1980/memaccess/internal/rawmem"
)

const (
	kindHeap   = "heap"
	kindDirect = "direct"
)

// DirectBuffer is memory outside the Go heap that can be addressed directly,
// such as a memory mapping.
type DirectBuffer interface {
	// Bytes returns the buffer's memory.
	Bytes() []byte
	// IsDirect reports whether the memory can currently be addressed directly.
	IsDirect() bool
}

// Retainer is implemented by reference-counted direct buffers. A Region built
// over a Retainer holds one reference until Close.
type Retainer interface {
	Retain() error
	Release() error
}

// byteOrdered is implemented by direct buffers that declare the byte order of
// their contents.
type byteOrdered interface {
	Order() binary.ByteOrder
}

// Region is a View over exactly one allocation: a heap byte slice or a direct
// buffer. Logical index i maps to the allocation's base address plus i.
//
// Region is safe for concurrent reads. Concurrent writes to overlapping ranges
// must be synchronized by the caller.
type Region struct {
	base    unsafe.Pointer
	size    int64
	data    []byte
	owner   DirectBuffer // nil for heap regions
	kind    string
	checker BoundsChecker
	order   ByteOrderConvertor

	released atomic.Bool
	logger   *Logger
	metrics  MetricsCollector
}

var _ View = (*Region)(nil)

// Wrap returns a Region over data.
//
// Defaults: BoundsChecked and OrderIdentity. The region keeps data reachable
// for its whole lifetime.
func Wrap(data []byte, opts ...Option) *Region {
	o := applyOptions(opts)
	data = data[:len(data):len(data)]

	r := &Region{
		base:    rawmem.Base(data),
		size:    int64(len(data)),
		data:    data,
		kind:    kindHeap,
		checker: o.checker,
		order:   o.order,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}

	r.logger.LogRegion(kindHeap, r.size, r.checker, r.order, nil)
	r.metrics.RecordRegion(kindHeap, r.size, nil)
	return r
}

// Allocate returns a Region over a fresh, zeroed heap allocation of size
// bytes. The allocation is 8-byte aligned, so compare-and-swap works at every
// index that is a multiple of the operand width.
func Allocate(size int64, opts ...Option) (*Region, error) {
	n, err := conv.NonNegativeInt64ToInt(size)
	if err != nil {
		err = invalidArgument("allocation size: %v", err)
		o := applyOptions(opts)
		o.logger.LogRegion(kindHeap, 0, o.checker, o.order, err)
		o.metricsCollector.RecordRegion(kindHeap, 0, err)
		return nil, err
	}
	return Wrap(mem.AllocAligned(n, mem.WordAlignment), opts...), nil
}

// WrapDirect returns a Region over the memory of a direct buffer.
//
// Defaults: BoundsChecked, and the convertor between the buffer's declared
// order (big-endian unless the buffer has an Order method) and the host order.
// It fails with ErrInvalidArgument if buf is not direct-addressable. If buf is
// a Retainer, the region holds a reference until Close.
func WrapDirect(buf DirectBuffer, opts ...Option) (*Region, error) {
	o := applyOptions(opts)

	fail := func(err error) (*Region, error) {
		o.logger.LogRegion(kindDirect, 0, o.checker, o.order, err)
		o.metricsCollector.RecordRegion(kindDirect, 0, err)
		return nil, err
	}

	if buf == nil {
		return fail(invalidArgument("nil direct buffer"))
	}
	if !buf.IsDirect() {
		return fail(invalidArgument("buffer is not direct"))
	}
	data := buf.Bytes()
	if len(data) == 0 {
		return fail(invalidArgument("direct buffer has no addressable memory"))
	}

	if !o.orderSet {
		declared := binary.ByteOrder(binary.BigEndian)
		if bo, ok := buf.(byteOrdered); ok && bo.Order() != nil {
			declared = bo.Order()
		}
		o.order = ToNative(declared)
	}

	if rt, ok := buf.(Retainer); ok {
		if err := rt.Retain(); err != nil {
			return fail(fmt.Errorf("%w: retain direct buffer: %w", ErrInvalidArgument, err))
		}
	}

	r := &Region{
		base:    rawmem.Base(data),
		size:    int64(len(data)),
		data:    data[:len(data):len(data)],
		owner:   buf,
		kind:    kindDirect,
		checker: o.checker,
		order:   o.order,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}

	r.logger.LogRegion(kindDirect, r.size, r.checker, r.order, nil)
	r.metrics.RecordRegion(kindDirect, r.size, nil)
	return r, nil
}

// Close releases the region's reference on its direct buffer. It is
// idempotent and a no-op for heap regions. The region must not be used after
// Close.
func (r *Region) Close() error {
	rt, ok := r.owner.(Retainer)
	if !ok || r.released.Swap(true) {
		return nil
	}
	err := rt.Release()
	r.logger.LogRelease(r.size, err)
	r.metrics.RecordRelease(r.size, err)
	return err
}

// Size implements ReadView.
func (r *Region) Size() int64 { return r.size }

// BoundsChecker implements ReadView.
func (r *Region) BoundsChecker() BoundsChecker { return r.checker }

// ByteOrderConvertor implements ReadView.
func (r *Region) ByteOrderConvertor() ByteOrderConvertor { return r.order }

// Direct reports whether the region is backed by a direct buffer.
func (r *Region) Direct() bool { return r.owner != nil }

func (r *Region) address(index int64) unsafe.Pointer {
	return rawmem.Add(r.base, index)
}

// GetByte implements ReadView.
func (r *Region) GetByte(index int64) (byte, error) {
	if err := r.checker.Check(index, byteWidth, r.size); err != nil {
		return 0, err
	}
	return rawmem.Load8(r.address(index)), nil
}

// GetChar implements ReadView.
func (r *Region) GetChar(index int64) (uint16, error) {
	if err := r.checker.Check(index, shortWidth, r.size); err != nil {
		return 0, err
	}
	return r.order.Uint16(rawmem.Load16(r.address(index))), nil
}

// GetShort implements ReadView.
func (r *Region) GetShort(index int64) (int16, error) {
	if err := r.checker.Check(index, shortWidth, r.size); err != nil {
		return 0, err
	}
	return int16(r.order.Uint16(rawmem.Load16(r.address(index)))), nil
}

// GetInt implements ReadView.
func (r *Region) GetInt(index int64) (int32, error) {
	if err := r.checker.Check(index, intWidth, r.size); err != nil {
		return 0, err
	}
	return int32(r.order.Uint32(rawmem.Load32(r.address(index)))), nil
}

// GetLong implements ReadView.
func (r *Region) GetLong(index int64) (int64, error) {
	if err := r.checker.Check(index, longWidth, r.size); err != nil {
		return 0, err
	}
	return int64(r.order.Uint64(rawmem.Load64(r.address(index)))), nil
}

// GetFloat implements ReadView.
func (r *Region) GetFloat(index int64) (float32, error) {
	if err := r.checker.Check(index, intWidth, r.size); err != nil {
		return 0, err
	}
	return math.Float32frombits(r.order.Uint32(rawmem.Load32(r.address(index)))), nil
}

// GetDouble implements ReadView.
func (r *Region) GetDouble(index int64) (float64, error) {
	if err := r.checker.Check(index, longWidth, r.size); err != nil {
		return 0, err
	}
	return math.Float64frombits(r.order.Uint64(rawmem.Load64(r.address(index)))), nil
}

// GetBuffer implements ReadView.
func (r *Region) GetBuffer(dst []byte, index int64) error {
	if err := r.checker.Check(index, int64(len(dst)), r.size); err != nil {
		return err
	}
	rawmem.CopyOut(dst, r.address(index))
	return nil
}

// PutByte implements View.
func (r *Region) PutByte(index int64, v byte) error {
	if err := r.checker.Check(index, byteWidth, r.size); err != nil {
		return err
	}
	rawmem.Store8(r.address(index), v)
	return nil
}

// PutChar implements View.
func (r *Region) PutChar(index int64, v uint16) error {
	if err := r.checker.Check(index, shortWidth, r.size); err != nil {
		return err
	}
	rawmem.Store16(r.address(index), r.order.Uint16(v))
	return nil
}

// PutShort implements View.
func (r *Region) PutShort(index int64, v int16) error {
	if err := r.checker.Check(index, shortWidth, r.size); err != nil {
		return err
	}
	rawmem.Store16(r.address(index), r.order.Uint16(uint16(v)))
	return nil
}

// PutInt implements View.
func (r *Region) PutInt(index int64, v int32) error {
	if err := r.checker.Check(index, intWidth, r.size); err != nil {
		return err
	}
	rawmem.Store32(r.address(index), r.order.Uint32(uint32(v)))
	return nil
}

// PutLong implements View.
func (r *Region) PutLong(index int64, v int64) error {
	if err := r.checker.Check(index, longWidth, r.size); err != nil {
		return err
	}
	rawmem.Store64(r.address(index), r.order.Uint64(uint64(v)))
	return nil
}

// PutFloat implements View.
func (r *Region) PutFloat(index int64, v float32) error {
	if err := r.checker.Check(index, intWidth, r.size); err != nil {
		return err
	}
	rawmem.Store32(r.address(index), r.order.Uint32(math.Float32bits(v)))
	return nil
}

// PutDouble implements View.
func (r *Region) PutDouble(index int64, v float64) error {
	if err := r.checker.Check(index, longWidth, r.size); err != nil {
		return err
	}
	rawmem.Store64(r.address(index), r.order.Uint64(math.Float64bits(v)))
	return nil
}

// PutBuffer implements View.
func (r *Region) PutBuffer(index int64, src []byte) error {
	if err := r.checker.Check(index, int64(len(src)), r.size); err != nil {
		return err
	}
	rawmem.CopyIn(r.address(index), src)
	return nil
}

// PutView implements View.
func (r *Region) PutView(index int64, src ReadView) error {
	if err := r.checker.Check(index, src.Size(), r.size); err != nil {
		return err
	}
	for _, s := range src.ExportSlices() {
		rawmem.CopyIn(r.address(index), s)
		index += int64(len(s))
	}
	return nil
}

// CompareAndSwapInt implements View. The address of index must be 4-byte
// aligned, otherwise ErrUnsupportedOperation is returned.
func (r *Region) CompareAndSwapInt(index int64, expected, value int32) (bool, error) {
	if err := r.checker.Check(index, intWidth, r.size); err != nil {
		return false, err
	}
	ok, err := rawmem.CompareAndSwap32(r.address(index),
		r.order.Uint32(uint32(expected)), r.order.Uint32(uint32(value)))
	if errors.Is(err, rawmem.ErrMisaligned) {
		return false, unsupported("compare-and-swap of 4 bytes at misaligned index %d", index)
	}
	return ok, err
}

// CompareAndSwapLong implements View. The address of index must be 8-byte
// aligned, otherwise ErrUnsupportedOperation is returned.
func (r *Region) CompareAndSwapLong(index int64, expected, value int64) (bool, error) {
	if err := r.checker.Check(index, longWidth, r.size); err != nil {
		return false, err
	}
	ok, err := rawmem.CompareAndSwap64(r.address(index),
		r.order.Uint64(uint64(expected)), r.order.Uint64(uint64(value)))
	if errors.Is(err, rawmem.ErrMisaligned) {
		return false, unsupported("compare-and-swap of 8 bytes at misaligned index %d", index)
	}
	return ok, err
}

// ExportSlices implements ReadView. The single returned slice aliases the
// region's memory.
func (r *Region) ExportSlices() [][]byte {
	return [][]byte{r.data}
}

func (r *Region) String() string {
	return fmt.Sprintf("Region{kind: %s, checker: %s, order: %s, size: %d}",
		r.kind, r.checker, r.order, r.size)
}
