// Package service implements the certificate issuance, verification, and
// revocation workflows on top of the record store, the signer, and the
// off-chain document store.
package service

import (
	"context"
	"log/slog"
	"time"

	"attest/internal/audit"
	"attest/internal/certificate/lifecycle"
	"attest/internal/certificate/metrics"
	"attest/internal/certificate/signing"
	"attest/internal/certificate/store"
	"attest/internal/certificate/tracer"
	"attest/internal/offchain"
	id "attest/pkg/domain"
)

// AuditPublisher records certificate lifecycle events.
// Error Contract: Emit returns nil on success; emission failures never
// abort the operation being audited.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// AnchorQueue accepts best-effort on-chain anchor jobs. Enqueueing never
// blocks and never fails.
type AnchorQueue interface {
	EnqueueIssue(fingerprint, offchainRef string)
	EnqueueRevoke(fingerprint, reason string)
}

const (
	defaultSigningTimeout = 10 * time.Second
	defaultBulkParallel   = 5
	defaultShareTTL       = 24 * time.Hour
)

// Service wires the record store, signer, and off-chain store into the
// certificate workflows.
type Service struct {
	store    store.Store
	signer   signing.Signer
	offchain offchain.Store
	auditor  AuditPublisher
	anchors  AnchorQueue
	metrics  *metrics.Metrics
	tracer   tracer.Tracer
	logger   *slog.Logger

	clock lifecycle.Clock
	newID func() id.CertificateID

	signingTimeout time.Duration
	bulkParallel   int

	shareKey []byte
	shareTTL time.Duration
}

// Option configures the Service.
type Option func(*Service)

// WithClock overrides the time source. Used in tests.
func WithClock(clock lifecycle.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides record id generation. Used in tests.
func WithIDGenerator(gen func() id.CertificateID) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithAuditor sets the audit publisher.
func WithAuditor(a AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

// WithAnchorQueue sets the anchor dispatcher.
func WithAnchorQueue(q AnchorQueue) Option {
	return func(s *Service) {
		s.anchors = q
	}
}

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer. Defaults to a no-op tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithLogger sets the logger instance for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithSigningTimeout bounds how long issuance waits on the signer.
func WithSigningTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.signingTimeout = d
		}
	}
}

// WithBulkParallelism caps concurrent signings during bulk issuance.
func WithBulkParallelism(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.bulkParallel = n
		}
	}
}

// WithShareTokens enables share-link tokens signed with key.
func WithShareTokens(key []byte, ttl time.Duration) Option {
	return func(s *Service) {
		s.shareKey = key
		if ttl > 0 {
			s.shareTTL = ttl
		}
	}
}

func NewService(recordStore store.Store, signer signing.Signer, documents offchain.Store, opts ...Option) *Service {
	svc := &Service{
		store:          recordStore,
		signer:         signer,
		offchain:       documents,
		tracer:         tracer.NewNoop(),
		clock:          time.Now,
		newID:          id.NewCertificateID,
		signingTimeout: defaultSigningTimeout,
		bulkParallel:   defaultBulkParallel,
		shareTTL:       defaultShareTTL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// emitAudit records an event without letting audit failures surface.
func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.Error("audit emission failed",
			"action", event.Action,
			"certificate_id", event.CertificateID,
			"error", err,
		)
	}
}

func (s *Service) now() time.Time {
	return s.clock().UTC()
}
