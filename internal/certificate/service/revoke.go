package service

import (
	"context"
	"strings"

	"attest/internal/audit"
	"attest/internal/certificate/models"
	"attest/internal/certificate/tracer"
	"attest/internal/platform/middleware"
	id "attest/pkg/domain"
	pkgerrors "attest/pkg/domain-errors"
)

// Revoke performs the one-way transition to revoked. Only the issuer may
// revoke, a reason is mandatory, and of two concurrent revocations exactly
// one wins; the loser observes store.ErrAlreadyRevoked.
func (s *Service) Revoke(ctx context.Context, certID id.CertificateID, reason string, revokedBy id.Address) (models.Certificate, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanRevoke,
		tracer.String(tracer.AttrCertificateID, certID.String()))

	rec, err := s.revoke(ctx, certID, reason, revokedBy)
	span.End(err)
	return rec, err
}

func (s *Service) revoke(ctx context.Context, certID id.CertificateID, reason string, revokedBy id.Address) (models.Certificate, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.Certificate{}, pkgerrors.New(pkgerrors.CodeValidation, "revocation reason is required")
	}
	if revokedBy.IsNil() {
		return models.Certificate{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "revoking address is required")
	}

	rec, err := s.store.UpdateRevocation(ctx, certID, reason, revokedBy, s.now())
	if err != nil {
		s.emitAudit(ctx, audit.Event{
			CertificateID: certID.String(),
			Actor:         revokedBy.String(),
			Action:        audit.ActionRevoked,
			Outcome:       audit.OutcomeFailure,
			Reason:        reason,
		})
		return models.Certificate{}, err
	}

	if s.metrics != nil {
		s.metrics.IncrementRevocations()
	}
	s.emitAudit(ctx, audit.Event{
		CertificateID: rec.ID.String(),
		Actor:         revokedBy.String(),
		Action:        audit.ActionRevoked,
		Outcome:       audit.OutcomeSuccess,
		Reason:        reason,
		Client:        middleware.GetClientInfo(ctx).Description,
	})
	if s.anchors != nil {
		s.anchors.EnqueueRevoke(rec.ContentFingerprint, reason)
	}
	return rec, nil
}
