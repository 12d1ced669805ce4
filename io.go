package memaccess

import (
	"errors"
	"io"
	"net"
)

// ErrNegativeOffset is returned by the io adapters for offsets below zero.
var ErrNegativeOffset = errors.New("negative offset")

// ReaderAt adapts a ReadView to io.ReaderAt.
type ReaderAt struct {
	v ReadView
}

var _ io.ReaderAt = (*ReaderAt)(nil)

// NewReaderAt returns an io.ReaderAt over v. Bytes are copied raw.
func NewReaderAt(v ReadView) *ReaderAt {
	return &ReaderAt{v: v}
}

// ReadAt implements io.ReaderAt. It returns io.EOF when fewer than len(p)
// bytes remain at off.
func (r *ReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrNegativeOffset
	}
	size := r.v.Size()
	if off >= size {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}

	n := int(min(int64(len(p)), size-off))
	if err := r.v.GetBuffer(p[:n], off); err != nil {
		return 0, err
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriterAt adapts a View to io.WriterAt.
type WriterAt struct {
	v View
}

var _ io.WriterAt = (*WriterAt)(nil)

// NewWriterAt returns an io.WriterAt over v. Bytes are copied raw.
func NewWriterAt(v View) *WriterAt {
	return &WriterAt{v: v}
}

// WriteAt implements io.WriterAt. A write that runs past the end of the view
// stores the bytes that fit and returns io.ErrShortWrite.
func (w *WriterAt) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrNegativeOffset
	}
	size := w.v.Size()
	if off > size {
		return 0, io.ErrShortWrite
	}

	n := int(min(int64(len(p)), size-off))
	if err := w.v.PutBuffer(off, p[:n]); err != nil {
		return 0, err
	}
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// WriteTo writes the logical range of v to dst without copying it first.
// Segmented views are handed over as one vectored write.
func WriteTo(dst io.Writer, v ReadView) (int64, error) {
	bufs := net.Buffers(v.ExportSlices())
	return bufs.WriteTo(dst)
}
