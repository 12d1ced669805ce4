// Package memaccess provides byte-addressable views over raw memory.
//
// A View reads and writes fixed-width primitives (bytes, 16/32/64-bit
// integers, floats) and raw byte ranges at logical byte indexes. Two kinds of
// views exist:
//
//   - Region covers exactly one allocation: a Go byte slice (Wrap, Allocate)
//     or memory outside the Go heap such as a mapping (WrapDirect, MapAnon,
//     MapFile).
//   - Segmented stitches equally sized segments into one logical range.
//     Values that straddle two segments are split into sub-accesses and
//     reassembled bit-exactly.
//
// # Policies
//
// Every view carries two policies chosen at construction:
//
//	BoundsChecked   // accesses outside [0, Size) fail with ErrOutOfBounds
//	BoundsDisabled  // no range validation; the caller guarantees validity
//
//	OrderIdentity   // stored bytes are in host order
//	OrderSwap       // stored bytes are in the opposite order
//
// Buffer copies (GetBuffer, PutBuffer, PutView) never convert byte order.
//
// # Quick Start
//
//	r := memaccess.Wrap(make([]byte, 64))
//	_ = r.PutLong(0, 42)
//	v, _ := r.GetLong(0) // 42
//
//	segs, _ := memaccess.MapSegments(4, 4096)
//	views := make([]memaccess.View, len(segs))
//	for i, s := range segs {
//		views[i] = s
//		defer s.Close()
//	}
//	s, _ := memaccess.NewSegmented(views, 0)
//	_ = s.PutLong(4093, -1) // straddles segments 0 and 1
//
// # Concurrency
//
// Views are safe for concurrent reads. Concurrent writes to overlapping ranges
// need external synchronization, except through CompareAndSwapInt and
// CompareAndSwapLong on aligned indexes.
//
// # Observability
//
// Construction and release events can be logged with WithLogger and counted
// with WithMetricsCollector. Accesses are never logged.
package memaccess
