package memaccess

import (
	"fmt"
	"math/bits"
)

// A primitive of up to 8 bytes that starts fewer than 8 bytes before the end
// of a segment may straddle into the next one. Segments are at least 8 bytes,
// so a value never touches more than two segments.
//
// crossAccessors holds one strategy per number of bytes remaining in the
// current segment (0..7) plus a default for 8 or more. Each strategy carries,
// per access width, the sub-access widths to use on the current segment
// (head) and at the start of the next one (tail). Sub-accesses are the largest
// widths that fit, so no sub-access straddles itself.
//
// Head and tail are positioned inside the value's stored byte sequence, and
// the value is shifted in or out according to the storage order of the
// segments. Each sub-access goes through the segment's own convertor, which
// lays its chunk out in that same storage order, so the bytes in memory are
// identical to a single contiguous access.
var crossAccessors = buildCrossAccessors()

type splitPlan struct {
	head []int
	tail []int
}

type crossAccessor struct {
	remaining int
	plans     [4]splitPlan // indexed by widthClass
}

func buildCrossAccessors() [longWidth + 1]crossAccessor {
	var accessors [longWidth + 1]crossAccessor
	for remaining := range accessors {
		a := &accessors[remaining]
		a.remaining = remaining
		for _, width := range []int{byteWidth, shortWidth, intWidth, longWidth} {
			head := min(remaining, width)
			a.plans[widthClass(width)] = splitPlan{
				head: decompose(head),
				tail: decompose(width - head),
			}
		}
	}
	return accessors
}

// decompose splits n bytes into the largest power-of-two chunks, widest first.
func decompose(n int) []int {
	var chunks []int
	for _, w := range []int{longWidth, intWidth, shortWidth, byteWidth} {
		for n >= w {
			chunks = append(chunks, w)
			n -= w
		}
	}
	return chunks
}

func widthClass(width int) int {
	return bits.TrailingZeros(uint(width))
}

func accessorFor(remaining int64) *crossAccessor {
	if remaining >= longWidth {
		return &crossAccessors[longWidth]
	}
	return &crossAccessors[remaining]
}

// chunkShift is the bit offset of the chunk at byte position pos and width w
// within a value of the given width.
func chunkShift(pos, w, width int, bigEndian bool) uint {
	if bigEndian {
		return uint(8 * (width - pos - w))
	}
	return uint(8 * pos)
}

func chunkMask(w int) uint64 {
	if w >= longWidth {
		return ^uint64(0)
	}
	return uint64(1)<<(8*w) - 1
}

func (a *crossAccessor) get(segments []View, seg int, off int64, width int, bigEndian bool) (uint64, error) {
	plan := &a.plans[widthClass(width)]

	var v uint64
	pos := 0
	for _, w := range plan.head {
		x, err := loadWidth(segments[seg], off+int64(pos), w)
		if err != nil {
			return 0, err
		}
		v |= (x & chunkMask(w)) << chunkShift(pos, w, width, bigEndian)
		pos += w
	}
	if len(plan.tail) == 0 {
		return v, nil
	}

	next, err := nextSegment(segments, seg)
	if err != nil {
		return 0, err
	}
	var idx int64
	for _, w := range plan.tail {
		x, err := loadWidth(next, idx, w)
		if err != nil {
			return 0, err
		}
		v |= (x & chunkMask(w)) << chunkShift(pos, w, width, bigEndian)
		pos += w
		idx += int64(w)
	}
	return v, nil
}

func (a *crossAccessor) put(segments []View, seg int, off int64, width int, bigEndian bool, v uint64) error {
	plan := &a.plans[widthClass(width)]

	var next View
	if len(plan.tail) > 0 {
		var err error
		if next, err = nextSegment(segments, seg); err != nil {
			return err
		}
	}

	pos := 0
	for _, w := range plan.head {
		x := (v >> chunkShift(pos, w, width, bigEndian)) & chunkMask(w)
		if err := storeWidth(segments[seg], off+int64(pos), w, x); err != nil {
			return err
		}
		pos += w
	}
	var idx int64
	for _, w := range plan.tail {
		x := (v >> chunkShift(pos, w, width, bigEndian)) & chunkMask(w)
		if err := storeWidth(next, idx, w, x); err != nil {
			return err
		}
		pos += w
		idx += int64(w)
	}
	return nil
}

func nextSegment(segments []View, seg int) (View, error) {
	if seg+1 >= len(segments) {
		return nil, fmt.Errorf("%w: access runs past the last segment", ErrOutOfBounds)
	}
	return segments[seg+1], nil
}

// loadWidth reads an unsigned value of width w.
func loadWidth(v ReadView, index int64, w int) (uint64, error) {
	switch w {
	case byteWidth:
		x, err := v.GetByte(index)
		return uint64(x), err
	case shortWidth:
		x, err := v.GetShort(index)
		return uint64(uint16(x)), err
	case intWidth:
		x, err := v.GetInt(index)
		return uint64(uint32(x)), err
	default:
		x, err := v.GetLong(index)
		return uint64(x), err
	}
}

func storeWidth(v View, index int64, w int, x uint64) error {
	switch w {
	case byteWidth:
		return v.PutByte(index, byte(x))
	case shortWidth:
		return v.PutShort(index, int16(uint16(x)))
	case intWidth:
		return v.PutInt(index, int32(uint32(x)))
	default:
		return v.PutLong(index, int64(x))
	}
}
