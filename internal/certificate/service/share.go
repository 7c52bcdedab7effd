package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"attest/internal/audit"
	"attest/internal/certificate/models"
	"attest/internal/certificate/tracer"
	id "attest/pkg/domain"
	pkgerrors "attest/pkg/domain-errors"
)

const shareAudience = "attest/shared-certificate"

// Share mints a time-limited read token for a certificate so it can be
// presented to a third party without exposing the owner's address.
func (s *Service) Share(ctx context.Context, certID id.CertificateID) (token string, expiresAt time.Time, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanShare,
		tracer.String(tracer.AttrCertificateID, certID.String()))
	defer func() { span.End(err) }()

	if len(s.shareKey) == 0 {
		return "", time.Time{}, pkgerrors.New(pkgerrors.CodeInternal, "share tokens are not configured")
	}

	// The token must reference a record that exists now; lifecycle state is
	// still evaluated at resolution time.
	if _, err = s.store.GetByID(ctx, certID); err != nil {
		return "", time.Time{}, err
	}

	now := s.now()
	expiresAt = now.Add(s.shareTTL)
	claims := jwt.RegisteredClaims{
		Subject:   certID.String(),
		Audience:  jwt.ClaimStrings{shareAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.shareKey)
	if err != nil {
		return "", time.Time{}, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "sign share token")
	}

	if s.metrics != nil {
		s.metrics.IncrementShareTokensIssued()
	}
	s.emitAudit(ctx, audit.Event{
		CertificateID: certID.String(),
		Action:        audit.ActionShared,
		Outcome:       audit.OutcomeSuccess,
	})
	return token, expiresAt, nil
}

// ResolveShare exchanges a share token for the referenced certificate.
// Expired, malformed, or foreign tokens all fail the same way so the token
// itself leaks nothing.
func (s *Service) ResolveShare(ctx context.Context, token string) (models.Certificate, error) {
	if len(s.shareKey) == 0 {
		return models.Certificate{}, pkgerrors.New(pkgerrors.CodeInternal, "share tokens are not configured")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.shareKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(shareAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.countSharedLookupFailure()
		return models.Certificate{}, pkgerrors.Wrap(err, pkgerrors.CodeUnauthorized, "invalid or expired share token")
	}

	certID, err := id.ParseCertificateID(claims.Subject)
	if err != nil {
		s.countSharedLookupFailure()
		return models.Certificate{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired share token")
	}

	rec, err := s.GetByID(ctx, certID)
	if err != nil {
		s.countSharedLookupFailure()
		return models.Certificate{}, err
	}

	s.emitAudit(ctx, audit.Event{
		CertificateID: rec.ID.String(),
		Action:        audit.ActionAccessed,
		Outcome:       audit.OutcomeSuccess,
	})
	return rec, nil
}

func (s *Service) countSharedLookupFailure() {
	if s.metrics != nil {
		s.metrics.IncrementSharedLookupFailures()
	}
}
