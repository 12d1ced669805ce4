// Package mmap provides memory mappings used as off-heap backing memory.
//
// # Overview
//
// A Mapping is a read-write region of memory outside the Go heap. It is either
// anonymous (MapAnon) or backed by a file (MapFile). Mappings are the direct,
// addressable buffers that off-heap memory views are built on.
//
// # Usage
//
//	m, err := mmap.MapAnon(1 << 20)
//	if err != nil { ... }
//	defer m.Close()
//
//	// Zero-copy access to the mapped memory
//	data := m.Bytes()
//
//	// Carve a sub-range out of the mapping
//	region, _ := m.Region(offset, size)
//
//	// Views index memory at arbitrary offsets
//	m.Advise(mmap.AccessRandom)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: VirtualAlloc / CreateFileMapping + MapViewOfFile (advise is a no-op)
//
// # Lifetime
//
// Mappings are reference counted. Consumers that capture the raw address of the
// mapping call Retain and later Release. Close marks the mapping closed
// immediately (Bytes returns nil, Retain fails) but the memory is only unmapped
// once the last reference is released, so an outstanding consumer never
// observes unmapped memory.
//
// # Byte Order
//
// Each mapping carries a declared byte order (big-endian unless WithOrder is
// given), the order in which its contents are meant to be interpreted.
package mmap
