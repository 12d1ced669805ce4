package memaccess

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestNewSegmented_Size(t *testing.T) {
	segments, _ := heapSegments(t, 2, 10)

	s, err := NewSegmented(segments, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(20), s.Size())

	s, err = NewSegmented(segments, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(17), s.Size())

	s, err = NewSegmented(segments, 0, WithLastSegmentLimit(7))
	require.NoError(t, err)
	assert.Equal(t, int64(17), s.Size())

	s, err = NewSegmented(segments, 3, WithLastSegmentLimit(7))
	require.NoError(t, err)
	assert.Equal(t, int64(14), s.Size())
	assert.Equal(t, int64(10), s.SegmentSize())
	assert.Equal(t, int64(3), s.FirstSegmentOffset())
	assert.Equal(t, int64(7), s.LastSegmentLimit())

	single, err := NewSegmented(segments[:1], 4, WithLastSegmentLimit(4))
	require.NoError(t, err)
	assert.Equal(t, int64(0), single.Size())
}

func TestNewSegmented_Validation(t *testing.T) {
	t.Run("no segments", func(t *testing.T) {
		_, err := NewSegmented(nil, 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("nil segment", func(t *testing.T) {
		segments, _ := heapSegments(t, 2, 10)
		_, err := NewSegmented([]View{segments[0], nil}, 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)

		var segErr *SegmentError
		require.True(t, errors.As(err, &segErr))
		assert.Equal(t, 1, segErr.Segment)
	})

	t.Run("size mismatch", func(t *testing.T) {
		a, _ := heapSegments(t, 1, 10)
		b, _ := heapSegments(t, 1, 5)
		_, err := NewSegmented([]View{a[0], b[0]}, 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)

		var segErr *SegmentError
		require.True(t, errors.As(err, &segErr))
		assert.Equal(t, 1, segErr.Segment)
	})

	t.Run("undersized", func(t *testing.T) {
		segments, _ := heapSegments(t, 2, 7)
		_, err := NewSegmented(segments, 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("checker mismatch", func(t *testing.T) {
		a, _ := heapSegments(t, 1, 10)
		b, _ := heapSegments(t, 1, 10, WithBoundsChecker(BoundsDisabled))
		_, err := NewSegmented([]View{a[0], b[0]}, 0)
		assert.ErrorIs(t, err, ErrConfigurationMismatch)
	})

	t.Run("order mismatch", func(t *testing.T) {
		a, _ := heapSegments(t, 1, 10)
		b, _ := heapSegments(t, 1, 10, WithByteOrderConvertor(OrderSwap))
		_, err := NewSegmented([]View{a[0], b[0]}, 0)
		assert.ErrorIs(t, err, ErrConfigurationMismatch)
	})

	t.Run("offset out of range", func(t *testing.T) {
		segments, _ := heapSegments(t, 2, 10)
		_, err := NewSegmented(segments, 10)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = NewSegmented(segments, -1)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("limit out of range", func(t *testing.T) {
		segments, _ := heapSegments(t, 2, 10)
		_, err := NewSegmented(segments, 0, WithLastSegmentLimit(11))
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("offset past limit", func(t *testing.T) {
		segments, _ := heapSegments(t, 1, 10)
		_, err := NewSegmented(segments, 5, WithLastSegmentLimit(3))
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestSegmented_CrossBoundaryLayout(t *testing.T) {
	// 0x1122334455667788 written big-endian at logical index 6.
	tests := []struct {
		name        string
		segmentSize int
		head        []byte // bytes 6.. of segment 0
		tail        []byte // leading bytes of segment 1
	}{
		{"two bytes remaining", 8, []byte{0x11, 0x22}, []byte{0x33, 0x44, 0x55, 0x66, 0x77, 0x88}},
		{"four bytes remaining", 10, []byte{0x11, 0x22, 0x33, 0x44}, []byte{0x55, 0x66, 0x77, 0x88}},
	}

	check := func(t *testing.T, segments []View, backing [][]byte, head, tail []byte) {
		t.Helper()

		s, err := NewSegmented(segments, 0)
		require.NoError(t, err)

		require.NoError(t, s.PutLong(6, 0x1122334455667788))
		assert.Equal(t, make([]byte, 6), backing[0][:6])
		assert.Equal(t, head, backing[0][6:])
		assert.Equal(t, tail, backing[1][:len(tail)])
		assert.Equal(t, make([]byte, len(backing[1])-len(tail)), backing[1][len(tail):])

		v, err := s.GetLong(6)
		require.NoError(t, err)
		assert.Equal(t, int64(0x1122334455667788), v)
	}

	for _, tt := range tests {
		t.Run(tt.name+"/heap", func(t *testing.T) {
			segments, backing := heapSegments(t, 2, tt.segmentSize, WithByteOrderConvertor(bigEndianStorage))
			check(t, segments, backing, tt.head, tt.tail)
		})

		t.Run(tt.name+"/mapped", func(t *testing.T) {
			regions, err := MapSegments(2, tt.segmentSize)
			require.NoError(t, err)

			segments := make([]View, len(regions))
			backing := make([][]byte, len(regions))
			for i, r := range regions {
				defer r.Close()
				segments[i] = r
				backing[i] = r.ExportSlices()[0]
			}
			check(t, segments, backing, tt.head, tt.tail)
		})
	}
}

// testValue derives a value with all bytes distinct and the sign bit set.
func testValue(index int64) uint64 {
	return 0x8877665544332211 ^ uint64(index)*0x0101010101010101
}

func TestSegmented_MatchesContiguous(t *testing.T) {
	for _, order := range []ByteOrderConvertor{OrderIdentity, OrderSwap} {
		for _, segmentSize := range []int{8, 10, 13} {
			for _, offset := range []int64{0, 3, 7} {
				for _, limit := range []int64{-1, int64(segmentSize) - 1} {
					name := fmt.Sprintf("%s/size=%d/offset=%d/limit=%d", order, segmentSize, offset, limit)
					t.Run(name, func(t *testing.T) {
						segments, backing := heapSegments(t, 3, segmentSize, WithByteOrderConvertor(order))
						s, err := NewSegmented(segments, offset, WithLastSegmentLimit(limit))
						require.NoError(t, err)

						ref := Wrap(make([]byte, s.Size()), WithByteOrderConvertor(order))
						refBytes := ref.ExportSlices()[0]

						for _, width := range []int64{1, 2, 4, 8} {
							for index := int64(0); index <= s.Size()-width; index++ {
								clearAll(backing...)
								clear(refBytes)

								v := testValue(index)
								switch width {
								case 1:
									require.NoError(t, s.PutByte(index, byte(v)))
									require.NoError(t, ref.PutByte(index, byte(v)))
									got, err := s.GetByte(index)
									require.NoError(t, err)
									assert.Equal(t, byte(v), got)
								case 2:
									require.NoError(t, s.PutShort(index, int16(v)))
									require.NoError(t, ref.PutShort(index, int16(v)))
									got, err := s.GetShort(index)
									require.NoError(t, err)
									assert.Equal(t, int16(v), got)
									c, err := s.GetChar(index)
									require.NoError(t, err)
									assert.Equal(t, uint16(v), c)
								case 4:
									require.NoError(t, s.PutInt(index, int32(v)))
									require.NoError(t, ref.PutInt(index, int32(v)))
									got, err := s.GetInt(index)
									require.NoError(t, err)
									assert.Equal(t, int32(v), got)
								case 8:
									require.NoError(t, s.PutLong(index, int64(v)))
									require.NoError(t, ref.PutLong(index, int64(v)))
									got, err := s.GetLong(index)
									require.NoError(t, err)
									assert.Equal(t, int64(v), got)
								}

								require.Equal(t, refBytes, logicalBytes(s), "width %d at index %d", width, index)
							}
						}
					})
				}
			}
		}
	}
}

func TestSegmented_RoundTripAllWidths(t *testing.T) {
	segments, _ := heapSegments(t, 3, 10, WithByteOrderConvertor(bigEndianStorage))
	s, err := NewSegmented(segments, 3, WithLastSegmentLimit(7))
	require.NoError(t, err)

	for index := int64(0); index <= s.Size()-8; index++ {
		exerciseRoundTrip(t, s, index)
	}

	require.NoError(t, s.PutDouble(5, math.Inf(-1)))
	d, err := s.GetDouble(5)
	require.NoError(t, err)
	assert.True(t, math.IsInf(d, -1))

	require.NoError(t, s.PutChar(6, 0xFFFE))
	c, err := s.GetChar(6)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xFFFE), c)
}

func TestSegmented_Bounds(t *testing.T) {
	segments, _ := heapSegments(t, 2, 10)
	s, err := NewSegmented(segments, 3)
	require.NoError(t, err)

	_, err = s.GetByte(s.Size())
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = s.GetByte(-1)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = s.GetLong(s.Size() - 7)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.ErrorIs(t, s.PutInt(s.Size()-3, 1), ErrOutOfBounds)
	assert.ErrorIs(t, s.PutBuffer(10, make([]byte, 8)), ErrOutOfBounds)
	assert.ErrorIs(t, s.GetBuffer(make([]byte, 18), 0), ErrOutOfBounds)
}

func TestSegmented_BoundsDisabled(t *testing.T) {
	segments, backing := heapSegments(t, 2, 10, WithBoundsChecker(BoundsDisabled))
	s, err := NewSegmented(segments, 0, WithLastSegmentLimit(7))
	require.NoError(t, err)
	assert.Equal(t, BoundsDisabled, s.BoundsChecker())

	// Past the limit but still inside the last segment.
	backing[1][7] = 0x5A
	b, err := s.GetByte(s.Size())
	require.NoError(t, err)
	assert.Equal(t, byte(0x5A), b)

	// Past every segment the view fails instead of touching foreign memory.
	_, err = s.GetByte(20)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = s.GetLong(16)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = s.GetByte(-1)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	t.Run("full last segment", func(t *testing.T) {
		full, err := NewSegmented(segments, 0)
		require.NoError(t, err)

		_, err = full.GetByte(full.Size())
		assert.ErrorIs(t, err, ErrOutOfBounds)
		assert.ErrorIs(t, full.PutByte(full.Size(), 1), ErrOutOfBounds)
	})

	t.Run("offset reaches back into first segment", func(t *testing.T) {
		shifted, err := NewSegmented(segments, 2)
		require.NoError(t, err)

		backing[0][1] = 0x3C
		b, err := shifted.GetByte(-1)
		require.NoError(t, err)
		assert.Equal(t, byte(0x3C), b)
	})
}

func TestSegmented_CompareAndSwap(t *testing.T) {
	segments, _ := heapSegments(t, 2, 16)
	s, err := NewSegmented(segments, 0)
	require.NoError(t, err)

	require.NoError(t, s.PutLong(16, 7))
	ok, err := s.CompareAndSwapLong(16, 7, 8)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.CompareAndSwapInt(8, 0, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.CompareAndSwapLong(12, 0, 1)
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
	_, err = s.CompareAndSwapInt(14, 0, 1)
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestSegmented_ExportSlices(t *testing.T) {
	segments, backing := heapSegments(t, 3, 8)
	for i, b := range backing {
		for j := range b {
			b[j] = byte(i*8 + j)
		}
	}

	s, err := NewSegmented(segments, 3, WithLastSegmentLimit(5))
	require.NoError(t, err)

	slices := s.ExportSlices()
	require.Len(t, slices, 3)
	assert.Len(t, slices[0], 5)
	assert.Len(t, slices[2], 5)
	assert.Equal(t, 5, cap(slices[2]))
	assert.Equal(t, s.Size(), exportedSize(slices))

	want := make([]byte, 0, s.Size())
	for i := 3; i < 21; i++ {
		want = append(want, byte(i))
	}
	assert.Equal(t, want, logicalBytes(s))

	t.Run("drops empty tail", func(t *testing.T) {
		s, err := NewSegmented(segments, 0, WithLastSegmentLimit(0))
		require.NoError(t, err)
		assert.Len(t, s.ExportSlices(), 2)
		assert.Equal(t, int64(16), exportedSize(s.ExportSlices()))
	})
}

func TestSegmented_Buffers(t *testing.T) {
	segments, _ := heapSegments(t, 3, 8)
	s, err := NewSegmented(segments, 2)
	require.NoError(t, err)

	src := make([]byte, 20)
	for i := range src {
		src[i] = byte(100 + i)
	}
	require.NoError(t, s.PutBuffer(1, src))

	out := make([]byte, 20)
	require.NoError(t, s.GetBuffer(out, 1))
	assert.Equal(t, src, out)

	t.Run("view into region", func(t *testing.T) {
		dst := Wrap(make([]byte, 24))
		require.NoError(t, dst.PutView(2, s))
		assert.Equal(t, logicalBytes(s), logicalBytes(dst)[2:])
	})

	t.Run("view into segmented", func(t *testing.T) {
		other, _ := heapSegments(t, 4, 8)
		dst, err := NewSegmented(other, 5)
		require.NoError(t, err)
		require.NoError(t, dst.PutView(1, s))

		got := make([]byte, s.Size())
		require.NoError(t, dst.GetBuffer(got, 1))
		assert.Equal(t, logicalBytes(s), got)
	})
}

func TestSegmented_Accessors(t *testing.T) {
	segments, _ := heapSegments(t, 2, 10, WithByteOrderConvertor(OrderSwap))
	s, err := NewSegmented(segments, 1)
	require.NoError(t, err)

	assert.Equal(t, OrderSwap, s.ByteOrderConvertor())
	assert.Equal(t, BoundsChecked, s.BoundsChecker())

	got := s.Segments()
	require.Len(t, got, 2)
	assert.Same(t, segments[0], got[0])
	got[0] = nil
	assert.NotNil(t, s.Segments()[0])

	assert.Equal(t,
		"Segmented{segments: 2, segment_size: 10, offset: 1, limit: 10, checker: checked, order: swap, size: 19}",
		s.String())
}

func TestSegmented_ConcurrentReads(t *testing.T) {
	segments, _ := heapSegments(t, 4, 16, WithByteOrderConvertor(bigEndianStorage))
	s, err := NewSegmented(segments, 5)
	require.NoError(t, err)

	for index := int64(0); index+8 <= s.Size(); index += 8 {
		require.NoError(t, s.PutLong(index, int64(testValue(index))))
	}

	var g errgroup.Group
	for w := 0; w < 8; w++ {
		g.Go(func() error {
			for index := int64(0); index+8 <= s.Size(); index += 8 {
				v, err := s.GetLong(index)
				if err != nil {
					return err
				}
				if v != int64(testValue(index)) {
					return fmt.Errorf("index %d: got %#x", index, v)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
