package service

import (
	"context"
	"errors"

	"attest/internal/audit"
	"attest/internal/certificate/models"
	"attest/internal/certificate/store"
	id "attest/pkg/domain"
	pkgerrors "attest/pkg/domain-errors"
)

func (s *ServiceSuite) TestRevoke_ThenVerifyReportsRevoked() {
	rec := s.issueValid(baseRequest())

	revoked, err := s.svc.Revoke(context.Background(), rec.ID, "fraudulent issuance", rec.IssuerAddress)
	s.Require().NoError(err)
	s.Equal(models.StatusRevoked, revoked.Status)
	s.Equal("fraudulent issuance", revoked.RevocationReason)
	s.Require().NotNil(revoked.RevocationDate)

	result, err := s.svc.Verify(context.Background(), rec.ID)
	s.Require().NoError(err)
	s.False(result.OK)
	s.Equal(ReasonRevoked, result.Reason)
	s.Contains(result.Message, "fraudulent issuance")
}

func (s *ServiceSuite) TestRevoke_SecondAttemptIsRejected() {
	rec := s.issueValid(baseRequest())

	_, err := s.svc.Revoke(context.Background(), rec.ID, "first", rec.IssuerAddress)
	s.Require().NoError(err)

	_, err = s.svc.Revoke(context.Background(), rec.ID, "second", rec.IssuerAddress)
	s.Require().Error(err)
	s.True(errors.Is(err, store.ErrAlreadyRevoked))

	// The original reason is preserved.
	got, err := s.store.GetByID(context.Background(), rec.ID)
	s.Require().NoError(err)
	s.Equal("first", got.RevocationReason)
}

func (s *ServiceSuite) TestRevoke_NonIssuerIsUnauthorized() {
	rec := s.issueValid(baseRequest())

	stranger, err := id.ParseAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	s.Require().NoError(err)

	_, err = s.svc.Revoke(context.Background(), rec.ID, "not mine", stranger)
	s.Require().Error(err)
	s.True(errors.Is(err, store.ErrUnauthorized))

	// The record stays valid and verifiable.
	result, err := s.svc.Verify(context.Background(), rec.ID)
	s.Require().NoError(err)
	s.True(result.OK)
}

func (s *ServiceSuite) TestRevoke_RequiresReason() {
	rec := s.issueValid(baseRequest())

	_, err := s.svc.Revoke(context.Background(), rec.ID, "   ", rec.IssuerAddress)
	s.Require().Error(err)
	s.True(pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func (s *ServiceSuite) TestRevoke_UnknownIDFails() {
	_, err := s.svc.Revoke(context.Background(), id.NewCertificateID(), "reason", s.signer.Address())
	s.Require().Error(err)
	s.True(errors.Is(err, store.ErrNotFound))
}

func (s *ServiceSuite) TestRevoke_EmitsAuditEvent() {
	rec := s.issueValid(baseRequest())

	_, err := s.svc.Revoke(context.Background(), rec.ID, "compliance", rec.IssuerAddress)
	s.Require().NoError(err)

	events, err := s.audits.ListByCertificate(context.Background(), rec.ID.String())
	s.Require().NoError(err)

	var revocations []audit.Event
	for _, e := range events {
		if e.Action == audit.ActionRevoked {
			revocations = append(revocations, e)
		}
	}
	s.Require().Len(revocations, 1)
	s.Equal(audit.OutcomeSuccess, revocations[0].Outcome)
	s.Equal("compliance", revocations[0].Reason)
}
