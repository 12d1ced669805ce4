package memaccess

import (
	"sync/atomic"
)

// MetricsCollector defines an interface for collecting view lifecycle metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Collectors are only notified on construction and release, never on element
// access, so they add no cost to the access path.
type MetricsCollector interface {
	// RecordRegion is called after each single-region construction attempt.
	// kind is "heap" or "direct", size the view size, err nil on success.
	RecordRegion(kind string, size int64, err error)

	// RecordSegmented is called after each segmented construction attempt.
	RecordSegmented(segments int, size int64, err error)

	// RecordRelease is called when a direct region drops its reference.
	RecordRelease(size int64, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRegion(string, int64, error)  {}
func (NoopMetricsCollector) RecordSegmented(int, int64, error) {}
func (NoopMetricsCollector) RecordRelease(int64, error)        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	HeapRegions     atomic.Int64
	DirectRegions   atomic.Int64
	RegionBytes     atomic.Int64
	RegionErrors    atomic.Int64
	SegmentedViews  atomic.Int64
	SegmentsWrapped atomic.Int64
	SegmentedBytes  atomic.Int64
	SegmentedErrors atomic.Int64
	Releases        atomic.Int64
	ReleaseErrors   atomic.Int64
}

// RecordRegion implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRegion(kind string, size int64, err error) {
	if err != nil {
		b.RegionErrors.Add(1)
		return
	}
	if kind == kindDirect {
		b.DirectRegions.Add(1)
	} else {
		b.HeapRegions.Add(1)
	}
	b.RegionBytes.Add(size)
}

// RecordSegmented implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSegmented(segments int, size int64, err error) {
	if err != nil {
		b.SegmentedErrors.Add(1)
		return
	}
	b.SegmentedViews.Add(1)
	b.SegmentsWrapped.Add(int64(segments))
	b.SegmentedBytes.Add(size)
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(size int64, err error) {
	b.Releases.Add(1)
	if err != nil {
		b.ReleaseErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		HeapRegions:     b.HeapRegions.Load(),
		DirectRegions:   b.DirectRegions.Load(),
		RegionBytes:     b.RegionBytes.Load(),
		RegionErrors:    b.RegionErrors.Load(),
		SegmentedViews:  b.SegmentedViews.Load(),
		SegmentsWrapped: b.SegmentsWrapped.Load(),
		SegmentedBytes:  b.SegmentedBytes.Load(),
		SegmentedErrors: b.SegmentedErrors.Load(),
		Releases:        b.Releases.Load(),
		ReleaseErrors:   b.ReleaseErrors.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	HeapRegions     int64
	DirectRegions   int64
	RegionBytes     int64
	RegionErrors    int64
	SegmentedViews  int64
	SegmentsWrapped int64
	SegmentedBytes  int64
	SegmentedErrors int64
	Releases        int64
	ReleaseErrors   int64
}
