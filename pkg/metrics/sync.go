package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records metadata for offline queue sync cycles.
type SyncMetrics struct {
	cycleDuration *prometheus.HistogramVec
	scanSuccess   *prometheus.CounterVec
	scanFailure   *prometheus.CounterVec
}

// NewSyncMetrics registers the queue sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "queue_sync_cycle_duration_seconds",
		Help:    "Duration of offline queue sync cycles in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"worker"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_scan_success",
		Help: "Queued scans published as orders.",
	}, []string{"worker"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_scan_failure",
		Help: "Queued scans that failed to publish and were retained.",
	}, []string{"worker"})
	reg.MustRegister(duration, success, failure)
	return &SyncMetrics{
		cycleDuration: duration,
		scanSuccess:   success,
		scanFailure:   failure,
	}
}

// ObserveCycle records the duration of one sync cycle for the named worker.
func (s *SyncMetrics) ObserveCycle(worker string, duration time.Duration) {
	if s == nil || s.cycleDuration == nil {
		return
	}
	s.cycleDuration.WithLabelValues(normalizeLabel(worker)).Observe(duration.Seconds())
}

// IncSuccess increments the published-scan counter for the named worker.
func (s *SyncMetrics) IncSuccess(worker string) {
	if s == nil || s.scanSuccess == nil {
		return
	}
	s.scanSuccess.WithLabelValues(normalizeLabel(worker)).Inc()
}

// IncFailure increments the retained-scan counter for the named worker.
func (s *SyncMetrics) IncFailure(worker string) {
	if s == nil || s.scanFailure == nil {
		return
	}
	s.scanFailure.WithLabelValues(normalizeLabel(worker)).Inc()
}

func normalizeLabel(worker string) string {
	if worker == "" {
		return "unknown"
	}
	return worker
}
