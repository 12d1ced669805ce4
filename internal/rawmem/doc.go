// Package rawmem is the primitive memory backend.
//
// It is the only place where this module dereferences raw pointers. Every
// function operates on an absolute address and performs no bounds checking:
// callers are expected to have validated the range already.
//
// # Byte Order
//
// Loads and stores use the host's native byte order, the same way a plain
// machine word access would. Order normalization is layered on top by the
// caller.
//
// # Atomicity
//
// CompareAndSwap32 and CompareAndSwap64 are the only atomic operations. They
// require the address to be aligned to the operand width and return
// ErrMisaligned otherwise, since unaligned atomics fault on several
// architectures.
package rawmem
