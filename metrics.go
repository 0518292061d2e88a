package vone

import "sync/atomic"

// MetricID defines a public type used by the V-One client APIs.
type MetricID uint16

const (
	// MetricLoginSuccess is an exported constant or variable used by the V-One client.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure is an exported constant or variable used by the V-One client.
	MetricLoginFailure
	// MetricSignupSuccess is an exported constant or variable used by the V-One client.
	MetricSignupSuccess
	// MetricSignupFailure is an exported constant or variable used by the V-One client.
	MetricSignupFailure
	// MetricLogout is an exported constant or variable used by the V-One client.
	MetricLogout
	// MetricSessionRestored counts sessions rebuilt from persisted credentials at startup.
	MetricSessionRestored
	// MetricSessionExpired counts irrecoverable teardowns (failed refresh, missing credentials).
	MetricSessionExpired
	// MetricRefreshSuccess is an exported constant or variable used by the V-One client.
	MetricRefreshSuccess
	// MetricRefreshFailure is an exported constant or variable used by the V-One client.
	MetricRefreshFailure
	// MetricRefreshJoined counts callers that piggybacked on an in-flight refresh.
	MetricRefreshJoined
	// MetricUnauthorized counts 401 responses observed on non-auth endpoints.
	MetricUnauthorized
	// MetricRequestRetried counts requests replayed after a successful refresh.
	MetricRequestRetried
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value atomic.Uint64
	_     [cacheLineSize - 8]byte
}

// Metrics defines a public type used by the V-One client APIs.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	counters [metricIDCount]paddedCounter
}

func newMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	return &Metrics{}
}

// Inc describes the inc operation and its observable behavior.
//
// Inc does not mutate shared global state and can be used concurrently.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricIDCount {
		return
	}
	m.counters[id].value.Add(1)
}

// Value describes the value operation and its observable behavior.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return m.counters[id].value.Load()
}

// MetricsSnapshot defines a public type used by the V-One client APIs.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot describes the snapshot operation and its observable behavior.
//
// Snapshot does not mutate shared global state and can be used concurrently.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: map[MetricID]uint64{}}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		if v := m.counters[id].value.Load(); v > 0 {
			snap.Counters[id] = v
		}
	}
	return snap
}
