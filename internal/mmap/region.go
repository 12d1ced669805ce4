package mmap

import "encoding/binary"

// Region represents a subsection of a memory mapping.
// It does not own the memory; the parent Mapping does.
type Region struct {
	parent *Mapping
	offset int
	size   int
}

// Region creates a new view into the mapping.
func (m *Mapping) Region(offset, size int) (*Region, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if offset < 0 || size < 0 || offset+size > m.size {
		return nil, ErrOutOfBounds
	}
	return &Region{
		parent: m,
		offset: offset,
		size:   size,
	}, nil
}

// Split cuts the mapping into consecutive regions of segmentSize bytes.
// Trailing bytes that do not fill a whole region are left out.
func (m *Mapping) Split(segmentSize int) ([]*Region, error) {
	if segmentSize <= 0 {
		return nil, ErrInvalidSize
	}
	n := m.size / segmentSize
	regions := make([]*Region, 0, n)
	for i := 0; i < n; i++ {
		r, err := m.Region(i*segmentSize, segmentSize)
		if err != nil {
			return nil, err
		}
		regions = append(regions, r)
	}
	return regions, nil
}

// Bytes returns the byte slice for this region.
// Warning: The slice is valid only while the parent Mapping is mapped.
func (r *Region) Bytes() []byte {
	if r.parent.closed.Load() {
		return nil
	}
	return r.parent.data[r.offset : r.offset+r.size : r.offset+r.size]
}

// Size returns the size of the region in bytes.
func (r *Region) Size() int {
	return r.size
}

// Order returns the declared byte order of the parent mapping.
func (r *Region) Order() binary.ByteOrder {
	return r.parent.order
}

// IsDirect reports whether the parent mapping can be addressed directly.
func (r *Region) IsDirect() bool {
	return r.parent.IsDirect()
}

// Retain takes a reference on the parent mapping.
func (r *Region) Retain() error {
	return r.parent.Retain()
}

// Release drops a reference on the parent mapping.
func (r *Region) Release() error {
	return r.parent.Release()
}
