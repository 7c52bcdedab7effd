package anchor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for anchor submissions.
type Metrics struct {
	Submitted *prometheus.CounterVec
	Failures  *prometheus.CounterVec
	Dropped   prometheus.Counter
	QueueLen  prometheus.Gauge
}

// NewMetrics registers and returns anchor metrics collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		Submitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "attest_anchor_submitted_total",
			Help: "Total number of anchor transactions submitted by kind",
		}, []string{"kind"}),
		Failures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "attest_anchor_failures_total",
			Help: "Total number of failed anchor submissions by kind",
		}, []string{"kind"}),
		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attest_anchor_dropped_total",
			Help: "Total number of anchor jobs dropped due to a full queue",
		}),
		QueueLen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "attest_anchor_queue_length",
			Help: "Current number of queued anchor jobs",
		}),
	}
}
