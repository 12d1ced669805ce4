package memaccess

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderAt(t *testing.T) {
	segments, backing := heapSegments(t, 2, 8)
	copy(backing[0], []byte("abcdefgh"))
	copy(backing[1], []byte("ijklmnop"))

	s, err := NewSegmented(segments, 2, WithLastSegmentLimit(6))
	require.NoError(t, err)
	r := NewReaderAt(s)

	p := make([]byte, 6)
	n, err := r.ReadAt(p, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "fghijk", string(p))

	n, err = r.ReadAt(p, 10)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, n)
	assert.Equal(t, "mn", string(p[:n]))

	n, err = r.ReadAt(p, 12)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 0, n)

	_, err = r.ReadAt(p, -1)
	assert.ErrorIs(t, err, ErrNegativeOffset)

	all, err := io.ReadAll(io.NewSectionReader(r, 0, s.Size()))
	require.NoError(t, err)
	assert.Equal(t, "cdefghijklmn", string(all))
}

func TestWriterAt(t *testing.T) {
	region := Wrap(make([]byte, 8))
	w := NewWriterAt(region)

	n, err := w.WriteAt([]byte("xyz"), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = w.WriteAt([]byte("1234"), 6)
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0, 0, 'x', 'y', 'z', 0, '1', '2'}, logicalBytes(region))

	_, err = w.WriteAt([]byte("a"), 9)
	assert.ErrorIs(t, err, io.ErrShortWrite)

	_, err = w.WriteAt([]byte("a"), -1)
	assert.ErrorIs(t, err, ErrNegativeOffset)
}

func TestWriteTo(t *testing.T) {
	segments, backing := heapSegments(t, 3, 8)
	for i, b := range backing {
		for j := range b {
			b[j] = byte(i*8 + j)
		}
	}
	s, err := NewSegmented(segments, 1, WithLastSegmentLimit(7))
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := WriteTo(&buf, s)
	require.NoError(t, err)
	assert.Equal(t, s.Size(), n)
	assert.Equal(t, logicalBytes(s), buf.Bytes())

	// The exported slices are untouched by the vectored write.
	assert.Equal(t, s.Size(), exportedSize(s.ExportSlices()))
}
