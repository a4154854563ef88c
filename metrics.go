package goBioLogin

import (
	"sync/atomic"
	"time"
)

// MetricID names one in-process counter or histogram.
type MetricID uint16

const (
	MetricPasswordLoginSuccess MetricID = iota
	MetricPasswordLoginFailure
	MetricValidationRejected
	MetricVerifyCodeSent
	MetricVerifyCodeSendFailure
	MetricVerifyCodeRejected
	MetricRegisterSuccess
	MetricRegisterFailure
	MetricBiometricLoginSuccess
	MetricBiometricLoginFailure
	MetricBiometricLoginCancelled
	MetricBiometricPreconditionFailed
	MetricBiometricTapThrottled
	MetricBiometricEnabled
	MetricBiometricEnableFailure
	MetricBiometricDisabled
	MetricLogoutSuccess
	MetricLogoutFailure
	MetricSessionStoreFailure
	// MetricPasswordLoginLatency is a histogram of password login round-trips.
	MetricPasswordLoginLatency
	// MetricBiometricLoginLatency is a histogram of biometric prompt round-trips.
	MetricBiometricLoginLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a set of lock-free counters and latency histograms.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics describes the newmetrics operation and its observable behavior.
//
// A disabled Metrics accepts every call and records nothing.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to counter id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d in histogram id. Only latency ids accept observations.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || !isLatencyMetric(id) {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value returns the current value of counter id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter and, when latency is enabled, every histogram.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, len(latencyMetrics)),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if isLatencyMetric(id) {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		for _, id := range latencyMetrics {
			buckets := make([]uint64, histBucketCount)
			for i := 0; i < histBucketCount; i++ {
				buckets[i] = atomic.LoadUint64(&m.histograms[id].buckets[i])
			}
			s.Histograms[id] = buckets
		}
	}

	return s
}

var latencyMetrics = [...]MetricID{MetricPasswordLoginLatency, MetricBiometricLoginLatency}

func isLatencyMetric(id MetricID) bool {
	return id == MetricPasswordLoginLatency || id == MetricBiometricLoginLatency
}

// Upper bounds: 0.1s 0.25s 0.5s 1s 2.5s 5s 10s +Inf.
func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 100:
		return 0
	case ms <= 250:
		return 1
	case ms <= 500:
		return 2
	case ms <= 1000:
		return 3
	case ms <= 2500:
		return 4
	case ms <= 5000:
		return 5
	case ms <= 10000:
		return 6
	default:
		return 7
	}
}
