package memaccess

type options struct {
	checker          BoundsChecker
	order            ByteOrderConvertor
	orderSet         bool
	lastSegmentLimit int64
	logger           *Logger
	metricsCollector MetricsCollector
}

// Option configures view construction.
//
// Policy options (bounds checking, byte order) apply to Wrap, WrapDirect and
// Allocate. A Segmented view inherits its policies from its segments and only
// honors WithLastSegmentLimit, WithLogger and WithMetricsCollector.
type Option func(*options)

// WithBoundsChecker sets the bounds checking policy. Default: BoundsChecked.
func WithBoundsChecker(c BoundsChecker) Option {
	return func(o *options) {
		o.checker = c
	}
}

// WithByteOrderConvertor sets the byte order policy.
//
// Default for heap views is OrderIdentity. Default for direct views is derived
// from the buffer's declared order versus the host order.
func WithByteOrderConvertor(c ByteOrderConvertor) Option {
	return func(o *options) {
		o.order = c
		o.orderSet = true
	}
}

// WithLastSegmentLimit sets the number of addressable bytes in the last
// segment of a Segmented view. Default: the full segment size.
func WithLastSegmentLimit(limit int64) Option {
	return func(o *options) {
		o.lastSegmentLimit = limit
	}
}

// WithLogger sets the logger used for construction events.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the collector notified of construction events.
//
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

func applyOptions(opts []Option) options {
	o := options{
		checker:          BoundsChecked,
		order:            OrderIdentity,
		lastSegmentLimit: -1,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
