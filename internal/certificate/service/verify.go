package service

import (
	"context"
	"fmt"
	"time"

	"attest/internal/audit"
	"attest/internal/certificate/canonical"
	"attest/internal/certificate/lifecycle"
	"attest/internal/certificate/models"
	"attest/internal/certificate/signing"
	"attest/internal/certificate/tracer"
	id "attest/pkg/domain"
)

// Verification outcome reasons.
const (
	ReasonValid          = "valid"
	ReasonRevoked        = "revoked"
	ReasonExpired        = "expired"
	ReasonRecoveryFailed = "signature_recovery_failed"
	ReasonIssuerMismatch = "issuer_mismatch"
)

// VerificationResult is the full outcome of a verification check.
type VerificationResult struct {
	OK              bool
	Status          models.Status
	Reason          string
	Message         string
	RecoveredIssuer id.Address
	Certificate     models.Certificate
}

// Verify checks a stored certificate: revocation first, then expiry, then
// cryptographic integrity. An unknown id is an error, not a failed
// verification.
func (s *Service) Verify(ctx context.Context, certID id.CertificateID) (VerificationResult, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerify,
		tracer.String(tracer.AttrCertificateID, certID.String()))

	start := time.Now()
	result, err := s.verify(ctx, certID)
	if s.metrics != nil {
		s.metrics.ObserveVerifyDuration(float64(time.Since(start).Milliseconds()))
		if err == nil {
			s.metrics.IncrementVerifications(result.Reason)
		}
	}

	span.SetAttributes(
		tracer.Bool(tracer.AttrVerifyResult, result.OK),
		tracer.String(tracer.AttrVerifyReason, result.Reason),
	)
	span.End(err)
	return result, err
}

func (s *Service) verify(ctx context.Context, certID id.CertificateID) (VerificationResult, error) {
	rec, err := s.store.GetByID(ctx, certID)
	if err != nil {
		return VerificationResult{}, err
	}

	now := s.now()
	status := lifecycle.StatusOf(rec, now)
	rec.Status = status

	result := VerificationResult{Status: status, Certificate: rec}

	switch status {
	case models.StatusRevoked:
		result.Reason = ReasonRevoked
		result.Message = revocationMessage(rec)
		s.auditVerify(ctx, rec, audit.OutcomeDenied, result.Reason)
		return result, nil
	case models.StatusExpired:
		result.Reason = ReasonExpired
		result.Message = fmt.Sprintf("certificate expired on %s", canonical.FormatTime(*rec.ExpiryDate))
		s.auditVerify(ctx, rec, audit.OutcomeDenied, result.Reason)
		return result, nil
	}

	// Recompute the fingerprint from the stored fields; a tampered record
	// recovers a different signer address.
	payload, err := canonical.Serialize(rec)
	if err != nil {
		return VerificationResult{}, err
	}
	fingerprint := signing.Fingerprint(payload)

	recovered, err := signing.RecoverAddress(fingerprint, rec.Signature)
	if err != nil {
		result.OK = false
		result.Reason = ReasonRecoveryFailed
		result.Message = "signature could not be recovered"
		s.auditVerify(ctx, rec, audit.OutcomeDenied, result.Reason)
		return result, nil
	}
	result.RecoveredIssuer = recovered

	if !recovered.Equal(rec.IssuerAddress) {
		result.Reason = ReasonIssuerMismatch
		result.Message = "recovered signer does not match the recorded issuer"
		s.auditVerify(ctx, rec, audit.OutcomeDenied, result.Reason)
		return result, nil
	}

	result.OK = true
	result.Reason = ReasonValid
	result.Message = "certificate is valid"
	s.auditVerify(ctx, rec, audit.OutcomeSuccess, result.Reason)
	return result, nil
}

func (s *Service) auditVerify(ctx context.Context, rec models.Certificate, outcome, reason string) {
	s.emitAudit(ctx, audit.Event{
		CertificateID: rec.ID.String(),
		Action:        audit.ActionVerified,
		Outcome:       outcome,
		Reason:        reason,
	})
}

func revocationMessage(rec models.Certificate) string {
	msg := "certificate has been revoked"
	if rec.RevocationReason != "" {
		msg = fmt.Sprintf("%s: %s", msg, rec.RevocationReason)
	}
	if rec.RevocationDate != nil {
		msg = fmt.Sprintf("%s (revoked %s)", msg, canonical.FormatTime(*rec.RevocationDate))
	}
	return msg
}
