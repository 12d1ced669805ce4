package memaccess

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// bigEndianStorage lays multi-byte values out big-endian on any host.
var bigEndianStorage = ToNative(binary.BigEndian)

// logicalBytes concatenates the exported slices of v.
func logicalBytes(v ReadView) []byte {
	var out []byte
	for _, s := range v.ExportSlices() {
		out = append(out, s...)
	}
	return out
}

// heapSegments returns count zeroed heap regions of size bytes and their
// backing slices.
func heapSegments(t testing.TB, count, size int, opts ...Option) ([]View, [][]byte) {
	t.Helper()

	views := make([]View, count)
	backing := make([][]byte, count)
	for i := range views {
		r, err := Allocate(int64(size), opts...)
		require.NoError(t, err)
		views[i] = r
		backing[i] = r.ExportSlices()[0]
	}
	return views, backing
}

func clearAll(bufs ...[]byte) {
	for _, b := range bufs {
		clear(b)
	}
}

// exportedSize sums the lengths of slices.
func exportedSize(slices [][]byte) int64 {
	var n int64
	for _, s := range slices {
		n += int64(len(s))
	}
	return n
}
