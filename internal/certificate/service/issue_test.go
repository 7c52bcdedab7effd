package service

import (
	"context"
	"time"

	"attest/internal/certificate/models"
	id "attest/pkg/domain"
	pkgerrors "attest/pkg/domain-errors"
)

func (s *ServiceSuite) TestIssue_ProducesVerifiableCertificate() {
	rec := s.issueValid(baseRequest())

	s.False(rec.ID.IsNil())
	s.Equal(s.signer.Address(), rec.IssuerAddress)
	s.Equal(models.StatusValid, rec.Status)
	s.Equal(models.FingerprintCurrent, rec.FingerprintVersion)
	s.Regexp(`^0x[0-9a-f]{64}$`, rec.ContentFingerprint)
	s.Regexp(`^0x[0-9a-f]{130}$`, rec.Signature)
	s.NotEmpty(rec.ExternalRef)

	result, err := s.svc.Verify(context.Background(), rec.ID)
	s.Require().NoError(err)
	s.True(result.OK)
	s.Equal(ReasonValid, result.Reason)
	s.Equal(models.StatusValid, result.Status)
	s.Equal(rec.IssuerAddress, result.RecoveredIssuer)
}

func (s *ServiceSuite) TestIssue_DefaultsIssuerNameFromCategory() {
	req := baseRequest()
	req.IssuerName = ""
	rec := s.issueValid(req)
	s.Equal("Indian Institute of Technology Delhi", rec.IssuerName)
}

func (s *ServiceSuite) TestIssue_KeepsExplicitIssuerName() {
	req := baseRequest()
	req.IssuerName = "Example University"
	rec := s.issueValid(req)
	s.Equal("Example University", rec.IssuerName)
}

func (s *ServiceSuite) TestIssue_StoresOffchainDocument() {
	rec := s.issueValid(baseRequest())

	doc, err := s.docs.Get(context.Background(), rec.ExternalRef)
	s.Require().NoError(err)
	s.Contains(string(doc), "Bachelor of Technology")
}

func (s *ServiceSuite) TestIssue_RejectsEmptyName() {
	req := baseRequest()
	req.Name = "   "
	_, err := s.svc.Issue(context.Background(), req)
	s.Require().Error(err)
	s.True(pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func (s *ServiceSuite) TestIssue_RejectsMalformedRecipient() {
	req := baseRequest()
	req.RecipientAddress = "0x1234"
	_, err := s.svc.Issue(context.Background(), req)
	s.Require().Error(err)
}

func (s *ServiceSuite) TestIssue_RejectsPastExpiry() {
	req := baseRequest()
	past := s.now.Add(-time.Hour)
	req.ExpiryDate = &past
	_, err := s.svc.Issue(context.Background(), req)
	s.Require().Error(err)
	s.True(pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func (s *ServiceSuite) TestIssue_AllowsEmptyRecipient() {
	req := baseRequest()
	req.RecipientAddress = ""
	rec := s.issueValid(req)
	s.True(rec.RecipientAddress.IsNil())
}

func (s *ServiceSuite) TestIssue_PersistenceFailureDemandsResign() {
	rec := s.issueValid(baseRequest())

	// Force a duplicate id so Create fails after signing.
	svc := NewService(s.store, s.signer, s.docs,
		WithClock(func() time.Time { return s.now }),
		WithIDGenerator(func() id.CertificateID { return rec.ID }),
	)
	_, err := svc.Issue(context.Background(), baseRequest())
	s.Require().Error(err)
	s.True(pkgerrors.HasCode(err, pkgerrors.CodePersistence))
	s.Contains(err.Error(), "re-sign required")
}

func (s *ServiceSuite) TestIssueBulk_CollectsPerItemOutcomes() {
	good := baseRequest()
	bad := baseRequest()
	bad.Name = ""

	outcomes, err := s.svc.IssueBulk(context.Background(), []IssueRequest{good, bad, good})
	s.Require().NoError(err)
	s.Require().Len(outcomes, 3)

	s.NoError(outcomes[0].Err)
	s.Error(outcomes[1].Err)
	s.NoError(outcomes[2].Err)

	for i, o := range outcomes {
		s.Equal(i, o.Index)
	}
	s.False(outcomes[0].Certificate.ID.IsNil())
	s.NotEqual(outcomes[0].Certificate.ID, outcomes[2].Certificate.ID)
}

func (s *ServiceSuite) TestIssueBulk_RejectsEmptyBatch() {
	_, err := s.svc.IssueBulk(context.Background(), nil)
	s.Require().Error(err)
	s.True(pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func (s *ServiceSuite) TestIssue_WithoutSignerIsDisabled() {
	svc := NewService(s.store, nil, s.docs)
	_, err := svc.Issue(context.Background(), baseRequest())
	s.Require().Error(err)
	s.True(pkgerrors.HasCode(err, pkgerrors.CodeInternal))
}
