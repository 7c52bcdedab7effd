package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for certificate operations.
type Metrics struct {
	CertificatesIssued   prometheus.Counter
	IssueFailures        *prometheus.CounterVec
	Verifications        *prometheus.CounterVec
	Revocations          prometheus.Counter
	SigningDurationMs    prometheus.Histogram
	VerifyDurationMs     prometheus.Histogram
	BulkBatchSize        prometheus.Histogram
	ShareTokensIssued    prometheus.Counter
	SharedLookupFailures prometheus.Counter
}

// New registers and returns certificate metrics collectors.
func New() *Metrics {
	return &Metrics{
		CertificatesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attest_certificates_issued_total",
			Help: "Total number of certificates issued",
		}),
		IssueFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "attest_issue_failures_total",
			Help: "Total number of failed issuance attempts by reason",
		}, []string{"reason"}),
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "attest_verifications_total",
			Help: "Total number of verification checks by result",
		}, []string{"result"}),
		Revocations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attest_revocations_total",
			Help: "Total number of certificates revoked",
		}),
		SigningDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "attest_signing_duration_ms",
			Help:    "Duration of fingerprint signing in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		VerifyDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "attest_verify_duration_ms",
			Help:    "Duration of verification checks in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		BulkBatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "attest_bulk_batch_size",
			Help:    "Number of certificates per bulk issuance request",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
		}),
		ShareTokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attest_share_tokens_issued_total",
			Help: "Total number of share tokens issued",
		}),
		SharedLookupFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attest_shared_lookup_failures_total",
			Help: "Total number of failed shared certificate lookups",
		}),
	}
}

func (m *Metrics) IncrementIssued() {
	m.CertificatesIssued.Inc()
}

func (m *Metrics) IncrementIssueFailures(reason string) {
	m.IssueFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementVerifications(result string) {
	m.Verifications.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementRevocations() {
	m.Revocations.Inc()
}

func (m *Metrics) ObserveSigningDuration(durationMs float64) {
	m.SigningDurationMs.Observe(durationMs)
}

func (m *Metrics) ObserveVerifyDuration(durationMs float64) {
	m.VerifyDurationMs.Observe(durationMs)
}

func (m *Metrics) ObserveBulkBatchSize(count int) {
	m.BulkBatchSize.Observe(float64(count))
}

func (m *Metrics) IncrementShareTokensIssued() {
	m.ShareTokensIssued.Inc()
}

func (m *Metrics) IncrementSharedLookupFailures() {
	m.SharedLookupFailures.Inc()
}
