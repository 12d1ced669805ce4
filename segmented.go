package memaccess

import (
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/memaccess/internal/rawmem"
)

// Segmented presents equally sized segments as one contiguous View.
//
// The logical range starts firstSegmentOffset bytes into the first segment
// and ends lastSegmentLimit bytes into the last one. Accesses that fit in one
// segment are delegated to it unchanged; primitives that straddle two
// segments are split by the cross-boundary accessors. No bytes are copied
// when the view is built.
//
// Segmented does not own its segments. They must stay valid for as long as
// the view is used.
type Segmented struct {
	segments           []View
	segmentSize        int64
	firstSegmentOffset int64
	lastSegmentLimit   int64
	size               int64
	checker            BoundsChecker
	order              ByteOrderConvertor
	bigEndian          bool
}

var _ View = (*Segmented)(nil)

// NewSegmented aggregates segments into one View whose index 0 is byte
// firstSegmentOffset of the first segment.
//
// All segments must have the same size of at least 8 bytes, and share the
// same BoundsChecker and ByteOrderConvertor. The number of addressable bytes
// in the last segment defaults to the full segment size and can be reduced
// with WithLastSegmentLimit.
func NewSegmented(segments []View, firstSegmentOffset int64, opts ...Option) (*Segmented, error) {
	o := applyOptions(opts)

	s, err := newSegmented(segments, firstSegmentOffset, o.lastSegmentLimit)
	if err != nil {
		o.logger.LogSegmented(len(segments), 0, 0, err)
		o.metricsCollector.RecordSegmented(len(segments), 0, err)
		return nil, err
	}

	o.logger.LogSegmented(len(s.segments), s.segmentSize, s.size, nil)
	o.metricsCollector.RecordSegmented(len(s.segments), s.size, nil)
	return s, nil
}

func newSegmented(segments []View, firstSegmentOffset, lastSegmentLimit int64) (*Segmented, error) {
	if len(segments) == 0 {
		return nil, invalidArgument("no segments")
	}
	for i, seg := range segments {
		if seg == nil {
			return nil, &SegmentError{Segment: i, Reason: "nil segment", cause: ErrInvalidArgument}
		}
	}

	first := segments[0]
	segmentSize := first.Size()
	if segmentSize < longWidth {
		return nil, &SegmentError{
			Segment: 0,
			Reason:  fmt.Sprintf("size %d is below the minimum of %d bytes", segmentSize, longWidth),
			cause:   ErrInvalidArgument,
		}
	}

	for i, seg := range segments[1:] {
		if seg.Size() != segmentSize {
			return nil, &SegmentError{
				Segment: i + 1,
				Reason:  fmt.Sprintf("size %d differs from %d", seg.Size(), segmentSize),
				cause:   ErrInvalidArgument,
			}
		}
		if seg.BoundsChecker() != first.BoundsChecker() {
			return nil, &SegmentError{
				Segment: i + 1,
				Reason:  fmt.Sprintf("bounds checker %s differs from %s", seg.BoundsChecker(), first.BoundsChecker()),
				cause:   ErrConfigurationMismatch,
			}
		}
		if seg.ByteOrderConvertor() != first.ByteOrderConvertor() {
			return nil, &SegmentError{
				Segment: i + 1,
				Reason:  fmt.Sprintf("byte order convertor %s differs from %s", seg.ByteOrderConvertor(), first.ByteOrderConvertor()),
				cause:   ErrConfigurationMismatch,
			}
		}
	}

	if lastSegmentLimit < 0 {
		lastSegmentLimit = segmentSize
	}
	if firstSegmentOffset < 0 || firstSegmentOffset >= segmentSize {
		return nil, invalidArgument("first segment offset %d not within [0, %d)", firstSegmentOffset, segmentSize)
	}
	if lastSegmentLimit > segmentSize {
		return nil, invalidArgument("last segment limit %d not within [0, %d]", lastSegmentLimit, segmentSize)
	}

	count := int64(len(segments))
	if count > math.MaxInt64/segmentSize {
		return nil, invalidArgument("aggregate of %d segments of %d bytes overflows", count, segmentSize)
	}
	size := count*segmentSize - firstSegmentOffset - (segmentSize - lastSegmentLimit)
	if size < 0 {
		return nil, invalidArgument("first segment offset %d is past last segment limit %d", firstSegmentOffset, lastSegmentLimit)
	}

	order := first.ByteOrderConvertor()
	return &Segmented{
		segments:           slices.Clone(segments),
		segmentSize:        segmentSize,
		firstSegmentOffset: firstSegmentOffset,
		lastSegmentLimit:   lastSegmentLimit,
		size:               size,
		checker:            first.BoundsChecker(),
		order:              order,
		bigEndian:          rawmem.IsBigEndian(order.StorageOrder()),
	}, nil
}

// Size implements ReadView.
func (s *Segmented) Size() int64 { return s.size }

// BoundsChecker implements ReadView.
func (s *Segmented) BoundsChecker() BoundsChecker { return s.checker }

// ByteOrderConvertor implements ReadView.
func (s *Segmented) ByteOrderConvertor() ByteOrderConvertor { return s.order }

// Segments returns the aggregated segments in order.
func (s *Segmented) Segments() []View { return slices.Clone(s.segments) }

// SegmentSize returns the size shared by every segment.
func (s *Segmented) SegmentSize() int64 { return s.segmentSize }

// FirstSegmentOffset returns the index in the first segment of logical index 0.
func (s *Segmented) FirstSegmentOffset() int64 { return s.firstSegmentOffset }

// LastSegmentLimit returns the number of addressable bytes in the last segment.
func (s *Segmented) LastSegmentLimit() int64 { return s.lastSegmentLimit }

// locate maps a logical index to a segment and an offset inside it. It only
// guards against leaving the segment array; range validation is the
// checker's job.
func (s *Segmented) locate(index int64) (int, int64, error) {
	pos := s.firstSegmentOffset + index
	seg := pos / s.segmentSize
	if pos < 0 || seg >= int64(len(s.segments)) {
		return 0, 0, &OutOfBoundsError{Index: index, Width: 1, Size: s.size}
	}
	return int(seg), pos - seg*s.segmentSize, nil
}

// fits reports whether an access of any primitive width at off stays inside
// its segment.
func (s *Segmented) fits(off int64) bool {
	return s.segmentSize-off >= longWidth
}

func (s *Segmented) getCross(seg int, off int64, width int) (uint64, error) {
	return accessorFor(s.segmentSize-off).get(s.segments, seg, off, width, s.bigEndian)
}

func (s *Segmented) putCross(seg int, off int64, width int, v uint64) error {
	return accessorFor(s.segmentSize-off).put(s.segments, seg, off, width, s.bigEndian, v)
}

// GetByte implements ReadView.
func (s *Segmented) GetByte(index int64) (byte, error) {
	if err := s.checker.Check(index, byteWidth, s.size); err != nil {
		return 0, err
	}
	seg, off, err := s.locate(index)
	if err != nil {
		return 0, err
	}
	return s.segments[seg].GetByte(off)
}

// GetChar implements ReadView.
func (s *Segmented) GetChar(index int64) (uint16, error) {
	if err := s.checker.Check(index, shortWidth, s.size); err != nil {
		return 0, err
	}
	seg, off, err := s.locate(index)
	if err != nil {
		return 0, err
	}
	if s.fits(off) {
		return s.segments[seg].GetChar(off)
	}
	v, err := s.getCross(seg, off, shortWidth)
	return uint16(v), err
}

// GetShort implements ReadView.
func (s *Segmented) GetShort(index int64) (int16, error) {
	if err := s.checker.Check(index, shortWidth, s.size); err != nil {
		return 0, err
	}
	seg, off, err := s.locate(index)
	if err != nil {
		return 0, err
	}
	if s.fits(off) {
		return s.segments[seg].GetShort(off)
	}
	v, err := s.getCross(seg, off, shortWidth)
	return int16(uint16(v)), err
}

// GetInt implements ReadView.
func (s *Segmented) GetInt(index int64) (int32, error) {
	if err := s.checker.Check(index, intWidth, s.size); err != nil {
		return 0, err
	}
	seg, off, err := s.locate(index)
	if err != nil {
		return 0, err
	}
	if s.fits(off) {
		return s.segments[seg].GetInt(off)
	}
	v, err := s.getCross(seg, off, intWidth)
	return int32(uint32(v)), err
}

// GetLong implements ReadView.
func (s *Segmented) GetLong(index int64) (int64, error) {
	if err := s.checker.Check(index, longWidth, s.size); err != nil {
		return 0, err
	}
	seg, off, err := s.locate(index)
	if err != nil {
		return 0, err
	}
	if s.fits(off) {
		return s.segments[seg].GetLong(off)
	}
	v, err := s.getCross(seg, off, longWidth)
	return int64(v), err
}

// GetFloat implements ReadView.
func (s *Segmented) GetFloat(index int64) (float32, error) {
	v, err := s.GetInt(index)
	return math.Float32frombits(uint32(v)), err
}

// GetDouble implements ReadView.
func (s *Segmented) GetDouble(index int64) (float64, error) {
	v, err := s.GetLong(index)
	return math.Float64frombits(uint64(v)), err
}

// GetBuffer implements ReadView. The copy may span any number of segments.
func (s *Segmented) GetBuffer(dst []byte, index int64) error {
	if err := s.checker.Check(index, int64(len(dst)), s.size); err != nil {
		return err
	}
	if len(dst) == 0 {
		return nil
	}
	seg, off, err := s.locate(index)
	if err != nil {
		return err
	}
	for len(dst) > 0 {
		if seg >= len(s.segments) {
			return fmt.Errorf("%w: copy runs past the last segment", ErrOutOfBounds)
		}
		n := min(s.segmentSize-off, int64(len(dst)))
		if err := s.segments[seg].GetBuffer(dst[:n], off); err != nil {
			return err
		}
		dst = dst[n:]
		seg++
		off = 0
	}
	return nil
}

// PutByte implements View.
func (s *Segmented) PutByte(index int64, v byte) error {
	if err := s.checker.Check(index, byteWidth, s.size); err != nil {
		return err
	}
	seg, off, err := s.locate(index)
	if err != nil {
		return err
	}
	return s.segments[seg].PutByte(off, v)
}

// PutChar implements View.
func (s *Segmented) PutChar(index int64, v uint16) error {
	if err := s.checker.Check(index, shortWidth, s.size); err != nil {
		return err
	}
	seg, off, err := s.locate(index)
	if err != nil {
		return err
	}
	if s.fits(off) {
		return s.segments[seg].PutChar(off, v)
	}
	return s.putCross(seg, off, shortWidth, uint64(v))
}

// PutShort implements View.
func (s *Segmented) PutShort(index int64, v int16) error {
	if err := s.checker.Check(index, shortWidth, s.size); err != nil {
		return err
	}
	seg, off, err := s.locate(index)
	if err != nil {
		return err
	}
	if s.fits(off) {
		return s.segments[seg].PutShort(off, v)
	}
	return s.putCross(seg, off, shortWidth, uint64(uint16(v)))
}

// PutInt implements View.
func (s *Segmented) PutInt(index int64, v int32) error {
	if err := s.checker.Check(index, intWidth, s.size); err != nil {
		return err
	}
	seg, off, err := s.locate(index)
	if err != nil {
		return err
	}
	if s.fits(off) {
		return s.segments[seg].PutInt(off, v)
	}
	return s.putCross(seg, off, intWidth, uint64(uint32(v)))
}

// PutLong implements View.
func (s *Segmented) PutLong(index int64, v int64) error {
	if err := s.checker.Check(index, longWidth, s.size); err != nil {
		return err
	}
	seg, off, err := s.locate(index)
	if err != nil {
		return err
	}
	if s.fits(off) {
		return s.segments[seg].PutLong(off, v)
	}
	return s.putCross(seg, off, longWidth, uint64(v))
}

// PutFloat implements View.
func (s *Segmented) PutFloat(index int64, v float32) error {
	return s.PutInt(index, int32(math.Float32bits(v)))
}

// PutDouble implements View.
func (s *Segmented) PutDouble(index int64, v float64) error {
	return s.PutLong(index, int64(math.Float64bits(v)))
}

// PutBuffer implements View. The copy may span any number of segments.
func (s *Segmented) PutBuffer(index int64, src []byte) error {
	if err := s.checker.Check(index, int64(len(src)), s.size); err != nil {
		return err
	}
	return s.putBuffer(index, src)
}

func (s *Segmented) putBuffer(index int64, src []byte) error {
	if len(src) == 0 {
		return nil
	}
	seg, off, err := s.locate(index)
	if err != nil {
		return err
	}
	for len(src) > 0 {
		if seg >= len(s.segments) {
			return fmt.Errorf("%w: copy runs past the last segment", ErrOutOfBounds)
		}
		n := min(s.segmentSize-off, int64(len(src)))
		if err := s.segments[seg].PutBuffer(off, src[:n]); err != nil {
			return err
		}
		src = src[n:]
		seg++
		off = 0
	}
	return nil
}

// PutView implements View.
func (s *Segmented) PutView(index int64, src ReadView) error {
	if err := s.checker.Check(index, src.Size(), s.size); err != nil {
		return err
	}
	for _, b := range src.ExportSlices() {
		if err := s.putBuffer(index, b); err != nil {
			return err
		}
		index += int64(len(b))
	}
	return nil
}

// CompareAndSwapInt implements View. It fails with ErrUnsupportedOperation if
// the value straddles a segment boundary.
func (s *Segmented) CompareAndSwapInt(index int64, expected, value int32) (bool, error) {
	if err := s.checker.Check(index, intWidth, s.size); err != nil {
		return false, err
	}
	seg, off, err := s.locate(index)
	if err != nil {
		return false, err
	}
	if s.segmentSize-off < intWidth {
		return false, unsupported("compare-and-swap of 4 bytes at index %d straddles segments %d and %d", index, seg, seg+1)
	}
	return s.segments[seg].CompareAndSwapInt(off, expected, value)
}

// CompareAndSwapLong implements View. It fails with ErrUnsupportedOperation
// if the value straddles a segment boundary.
func (s *Segmented) CompareAndSwapLong(index int64, expected, value int64) (bool, error) {
	if err := s.checker.Check(index, longWidth, s.size); err != nil {
		return false, err
	}
	seg, off, err := s.locate(index)
	if err != nil {
		return false, err
	}
	if s.segmentSize-off < longWidth {
		return false, unsupported("compare-and-swap of 8 bytes at index %d straddles segments %d and %d", index, seg, seg+1)
	}
	return s.segments[seg].CompareAndSwapLong(off, expected, value)
}

// ExportSlices implements ReadView. The segments' slices are concatenated and
// trimmed to the logical range; slices that fall entirely outside it are
// dropped.
func (s *Segmented) ExportSlices() [][]byte {
	var out [][]byte
	for _, seg := range s.segments {
		out = append(out, seg.ExportSlices()...)
	}

	skip := s.firstSegmentOffset
	for skip > 0 && len(out) > 0 {
		head := out[0]
		if int64(len(head)) <= skip {
			skip -= int64(len(head))
			out = out[1:]
			continue
		}
		out[0] = head[skip:]
		skip = 0
	}

	trim := s.segmentSize - s.lastSegmentLimit
	for trim > 0 && len(out) > 0 {
		last := len(out) - 1
		tail := out[last]
		if int64(len(tail)) <= trim {
			trim -= int64(len(tail))
			out = out[:last]
			continue
		}
		keep := int64(len(tail)) - trim
		out[last] = tail[:keep:keep]
		trim = 0
	}
	return out
}

func (s *Segmented) String() string {
	return fmt.Sprintf("Segmented{segments: %d, segment_size: %d, offset: %d, limit: %d, checker: %s, order: %s, size: %d}",
		len(s.segments), s.segmentSize, s.firstSegmentOffset, s.lastSegmentLimit, s.checker, s.order, s.size)
}
