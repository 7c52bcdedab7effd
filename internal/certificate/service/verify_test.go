package service

import (
	"context"
	"errors"
	"time"

	"attest/internal/certificate/models"
	"attest/internal/certificate/store"
	id "attest/pkg/domain"
)

func (s *ServiceSuite) TestVerify_TamperedMetadataFailsIntegrity() {
	rec := s.issueValid(baseRequest())

	// Store a copy whose metadata was altered after signing. The recomputed
	// fingerprint differs, so recovery yields a different signer.
	tampered := rec
	tampered.ID = id.NewCertificateID()
	tampered.Metadata = models.Metadata{
		"grade":  "A+",
		"course": "Computer Science",
	}
	s.Require().NoError(s.store.Create(context.Background(), tampered))

	result, err := s.svc.Verify(context.Background(), tampered.ID)
	s.Require().NoError(err)
	s.False(result.OK)
	s.Equal(ReasonIssuerMismatch, result.Reason)
	s.NotEqual(rec.IssuerAddress, result.RecoveredIssuer)
}

func (s *ServiceSuite) TestVerify_TamperedNameFailsIntegrity() {
	rec := s.issueValid(baseRequest())

	tampered := rec
	tampered.ID = id.NewCertificateID()
	tampered.Name = "Master of Technology"
	s.Require().NoError(s.store.Create(context.Background(), tampered))

	result, err := s.svc.Verify(context.Background(), tampered.ID)
	s.Require().NoError(err)
	s.False(result.OK)
	s.Equal(ReasonIssuerMismatch, result.Reason)
}

func (s *ServiceSuite) TestVerify_ExpiredCertificate() {
	req := baseRequest()
	expiry := s.now.Add(24 * time.Hour)
	req.ExpiryDate = &expiry
	rec := s.issueValid(req)

	s.advance(25 * time.Hour)

	result, err := s.svc.Verify(context.Background(), rec.ID)
	s.Require().NoError(err)
	s.False(result.OK)
	s.Equal(ReasonExpired, result.Reason)
	s.Equal(models.StatusExpired, result.Status)
}

func (s *ServiceSuite) TestVerify_NotYetExpiredStaysValid() {
	req := baseRequest()
	expiry := s.now.Add(24 * time.Hour)
	req.ExpiryDate = &expiry
	rec := s.issueValid(req)

	s.advance(23 * time.Hour)

	result, err := s.svc.Verify(context.Background(), rec.ID)
	s.Require().NoError(err)
	s.True(result.OK)
	s.Equal(ReasonValid, result.Reason)
}

func (s *ServiceSuite) TestVerify_UnknownIDIsAnError() {
	_, err := s.svc.Verify(context.Background(), id.NewCertificateID())
	s.Require().Error(err)
	s.True(errors.Is(err, store.ErrNotFound))
}

func (s *ServiceSuite) TestVerify_MalformedSignatureFailsRecovery() {
	rec := s.issueValid(baseRequest())

	broken := rec
	broken.ID = id.NewCertificateID()
	broken.Signature = "0xdeadbeef"
	s.Require().NoError(s.store.Create(context.Background(), broken))

	result, err := s.svc.Verify(context.Background(), broken.ID)
	s.Require().NoError(err)
	s.False(result.OK)
	s.Equal(ReasonRecoveryFailed, result.Reason)
}

func (s *ServiceSuite) TestGetByID_DerivesExpiredStatusWithoutRewriting() {
	req := baseRequest()
	expiry := s.now.Add(time.Hour)
	req.ExpiryDate = &expiry
	rec := s.issueValid(req)

	s.advance(2 * time.Hour)

	got, err := s.svc.GetByID(context.Background(), rec.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusExpired, got.Status)

	// The stored record is untouched.
	stored, err := s.store.GetByID(context.Background(), rec.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusValid, stored.Status)
}

func (s *ServiceSuite) TestListByParticipant_ReturnsBothSides() {
	rec := s.issueValid(baseRequest())

	byIssuer, err := s.svc.ListByParticipant(context.Background(), s.signer.Address())
	s.Require().NoError(err)
	s.Len(byIssuer, 1)

	byRecipient, err := s.svc.ListByParticipant(context.Background(), rec.RecipientAddress)
	s.Require().NoError(err)
	s.Len(byRecipient, 1)
	s.Equal(rec.ID, byRecipient[0].ID)
}
