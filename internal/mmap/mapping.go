package mmap

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// Mapping represents a read-write memory mapping.
// It owns the underlying byte slice and is responsible for unmapping it.
type Mapping struct {
	data  []byte
	size  int
	order binary.ByteOrder

	closed atomic.Bool

	mu       sync.Mutex // guards refs and unmapped
	refs     int64
	unmapped bool

	// unmap is the platform-specific function to unmap the memory.
	unmap func([]byte) error
}

// MapAnon creates an anonymous read-write mapping of size bytes.
// The memory is zeroed and lives outside the Go heap.
func MapAnon(size int, opts ...Option) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	data, unmapFunc, err := osMapAnon(size)
	if err != nil {
		return nil, fmt.Errorf("mmap: anonymous mapping of %d bytes: %w", size, err)
	}

	o := applyOptions(opts)
	return &Mapping{
		data:  data,
		size:  size,
		order: o.order,
		unmap: unmapFunc,
	}, nil
}

// MapFile maps the first size bytes of the file at path read-write and shared.
// The file is created if missing and grown to size if shorter.
// The file descriptor is closed before returning; the mapping stays valid.
func MapFile(path string, size int, opts ...Option) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() < int64(size) {
		if err := f.Truncate(int64(size)); err != nil {
			return nil, fmt.Errorf("mmap: grow %s: %w", path, err)
		}
	}

	data, unmapFunc, err := osMapFile(f, size)
	if err != nil {
		return nil, fmt.Errorf("mmap: map %s: %w", path, err)
	}

	o := applyOptions(opts)
	return &Mapping{
		data:  data,
		size:  size,
		order: o.order,
		unmap: unmapFunc,
	}, nil
}

// Bytes returns the underlying byte slice.
// Warning: The slice is valid only until Close() is called and every
// reference has been released.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Order returns the declared byte order of the mapping's contents.
func (m *Mapping) Order() binary.ByteOrder {
	return m.order
}

// IsDirect reports whether the mapping can currently be addressed directly.
func (m *Mapping) IsDirect() bool {
	return !m.closed.Load() && m.data != nil
}

// Retain takes a reference that keeps the memory mapped until Release.
func (m *Mapping) Retain() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed.Load() {
		return ErrClosed
	}
	m.refs++
	return nil
}

// Release drops a reference taken by Retain. If the mapping was closed and
// this was the last reference, the memory is unmapped.
func (m *Mapping) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refs == 0 {
		return ErrNotRetained
	}
	m.refs--
	if m.refs == 0 && m.closed.Load() {
		return m.unmapLocked()
	}
	return nil
}

// Refs returns the number of outstanding references.
func (m *Mapping) Refs() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refs
}

// Close marks the mapping closed. It is idempotent. The memory is unmapped now
// if there are no outstanding references, otherwise by the last Release.
func (m *Mapping) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed.Swap(true) {
		return nil // Already closed
	}
	if m.refs > 0 {
		return nil
	}
	return m.unmapLocked()
}

func (m *Mapping) unmapLocked() error {
	if m.unmapped {
		return nil
	}
	m.unmapped = true
	if m.unmap != nil && m.data != nil {
		return m.unmap(m.data)
	}
	return nil
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	return osAdvise(m.data, pattern)
}
