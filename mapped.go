package memaccess

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/hupe1980/memaccess/internal/conv"
	"github.com/hupe1980/memaccess/internal/mmap"
)

// MapAnon returns a direct Region over a fresh anonymous memory mapping of
// size bytes. The mapping's contents are declared big-endian, so by default
// the region converts on little-endian hosts.
//
// The mapping is unmapped when the region is closed.
func MapAnon(size int64, opts ...Option) (*Region, error) {
	n, err := mappingSize(size)
	if err != nil {
		return nil, err
	}
	m, err := mmap.MapAnon(n, mmap.WithOrder(binary.BigEndian))
	if err != nil {
		return nil, mapError(err)
	}
	return wrapMapping(m, opts)
}

// MapFile returns a direct Region over the first size bytes of the file at
// path, mapped read-write and shared. The file is created or grown as needed.
// Writes reach the file; the mapping is unmapped when the region is closed.
func MapFile(path string, size int64, opts ...Option) (*Region, error) {
	n, err := mappingSize(size)
	if err != nil {
		return nil, err
	}
	m, err := mmap.MapFile(path, n, mmap.WithOrder(binary.BigEndian))
	if err != nil {
		return nil, mapError(err)
	}
	return wrapMapping(m, opts)
}

// MapSegments maps count anonymous segments of segmentSize bytes each and
// returns them as direct regions. They are typically aggregated with
// NewSegmented. Each region must be closed.
func MapSegments(count, segmentSize int, opts ...Option) ([]*Region, error) {
	if count <= 0 {
		return nil, invalidArgument("segment count %d must be positive", count)
	}
	if segmentSize < longWidth {
		return nil, invalidArgument("segment size %d is below the minimum of %d bytes", segmentSize, longWidth)
	}
	if count > math.MaxInt/segmentSize {
		return nil, invalidArgument("%d segments of %d bytes overflow", count, segmentSize)
	}

	m, err := mmap.MapAnon(count*segmentSize, mmap.WithOrder(binary.BigEndian))
	if err != nil {
		return nil, mapError(err)
	}
	_ = m.Advise(mmap.AccessRandom) // advisory only

	parts, err := m.Split(segmentSize)
	if err != nil {
		_ = m.Close()
		return nil, mapError(err)
	}

	regions := make([]*Region, 0, len(parts))
	for _, p := range parts {
		r, err := WrapDirect(p, opts...)
		if err != nil {
			for _, prev := range regions {
				_ = prev.Close()
			}
			_ = m.Close()
			return nil, err
		}
		regions = append(regions, r)
	}

	// Each region holds a reference; the last Close unmaps.
	if err := m.Close(); err != nil {
		return nil, err
	}
	return regions, nil
}

func wrapMapping(m *mmap.Mapping, opts []Option) (*Region, error) {
	_ = m.Advise(mmap.AccessRandom) // advisory only

	r, err := WrapDirect(m, opts...)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	if err := m.Close(); err != nil {
		return nil, err
	}
	return r, nil
}

// mappingSize narrows a view size to the int taken by the platform mapping
// calls, which is 32 bits wide on some targets.
func mappingSize(size int64) (int, error) {
	n, err := conv.NonNegativeInt64ToInt(size)
	if err != nil {
		return 0, invalidArgument("mapping size: %v", err)
	}
	return n, nil
}

func mapError(err error) error {
	if errors.Is(err, mmap.ErrInvalidSize) {
		return invalidArgument("%v", err)
	}
	return err
}
