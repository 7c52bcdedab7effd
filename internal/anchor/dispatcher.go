package anchor

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	kindIssue  = "issue"
	kindRevoke = "revoke"

	submitTimeout = 30 * time.Second
)

type job struct {
	kind        string
	fingerprint string
	payload     string
}

// Dispatcher queues anchor jobs and submits them from a background worker.
// Enqueueing never blocks: when the queue is full the job is dropped and
// counted, because anchoring must not slow down or fail the core path.
type Dispatcher struct {
	anchorer Anchorer
	jobs     chan job
	logger   *slog.Logger
	metrics  *Metrics
	wg       sync.WaitGroup
	once     sync.Once
}

// DispatcherOption configures the Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets a logger for failure reporting.
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithDispatcherMetrics attaches metrics collectors.
func WithDispatcherMetrics(m *Metrics) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// NewDispatcher starts a dispatcher with the given queue size.
func NewDispatcher(anchorer Anchorer, queueSize int, opts ...DispatcherOption) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	d := &Dispatcher{
		anchorer: anchorer,
		jobs:     make(chan job, queueSize),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// EnqueueIssue queues an issuance anchor. Never blocks.
func (d *Dispatcher) EnqueueIssue(fingerprint, offchainRef string) {
	d.enqueue(job{kind: kindIssue, fingerprint: fingerprint, payload: offchainRef})
}

// EnqueueRevoke queues a revocation anchor. Never blocks.
func (d *Dispatcher) EnqueueRevoke(fingerprint, reason string) {
	d.enqueue(job{kind: kindRevoke, fingerprint: fingerprint, payload: reason})
}

func (d *Dispatcher) enqueue(j job) {
	select {
	case d.jobs <- j:
		if d.metrics != nil {
			d.metrics.QueueLen.Set(float64(len(d.jobs)))
		}
	default:
		if d.metrics != nil {
			d.metrics.Dropped.Inc()
		}
		if d.logger != nil {
			d.logger.Warn("anchor queue full, job dropped",
				"kind", j.kind,
				"fingerprint", j.fingerprint,
			)
		}
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for j := range d.jobs {
		d.submit(j)
		if d.metrics != nil {
			d.metrics.QueueLen.Set(float64(len(d.jobs)))
		}
	}
}

func (d *Dispatcher) submit(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()

	var err error
	switch j.kind {
	case kindIssue:
		err = d.anchorer.AnchorIssue(ctx, j.fingerprint, j.payload)
	case kindRevoke:
		err = d.anchorer.AnchorRevoke(ctx, j.fingerprint, j.payload)
	}

	if err != nil {
		if d.metrics != nil {
			d.metrics.Failures.WithLabelValues(j.kind).Inc()
		}
		if d.logger != nil {
			d.logger.Error("anchor submission failed",
				"kind", j.kind,
				"fingerprint", j.fingerprint,
				"error", err,
			)
		}
		return
	}
	if d.metrics != nil {
		d.metrics.Submitted.WithLabelValues(j.kind).Inc()
	}
}

// Close stops accepting jobs and waits for queued submissions to finish.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.jobs)
	})
	d.wg.Wait()
}
