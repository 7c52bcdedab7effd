package service

import (
	"context"
	"errors"
	"time"

	"attest/internal/certificate/store"
	id "attest/pkg/domain"
	pkgerrors "attest/pkg/domain-errors"
)

func (s *ServiceSuite) TestShare_RoundTrip() {
	rec := s.issueValid(baseRequest())

	token, expiresAt, err := s.svc.Share(context.Background(), rec.ID)
	s.Require().NoError(err)
	s.NotEmpty(token)
	s.Equal(s.now.Add(time.Hour), expiresAt)

	got, err := s.svc.ResolveShare(context.Background(), token)
	s.Require().NoError(err)
	s.Equal(rec.ID, got.ID)
	s.Equal(rec.Name, got.Name)
}

func (s *ServiceSuite) TestShare_UnknownCertificateFails() {
	_, _, err := s.svc.Share(context.Background(), id.NewCertificateID())
	s.Require().Error(err)
	s.True(errors.Is(err, store.ErrNotFound))
}

func (s *ServiceSuite) TestResolveShare_ExpiredTokenRejected() {
	rec := s.issueValid(baseRequest())

	token, _, err := s.svc.Share(context.Background(), rec.ID)
	s.Require().NoError(err)

	s.advance(2 * time.Hour)

	_, err = s.svc.ResolveShare(context.Background(), token)
	s.Require().Error(err)
	s.True(pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestResolveShare_GarbageTokenRejected() {
	_, err := s.svc.ResolveShare(context.Background(), "not-a-token")
	s.Require().Error(err)
	s.True(pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestResolveShare_ForeignKeyRejected() {
	rec := s.issueValid(baseRequest())

	other := NewService(s.store, s.signer, s.docs,
		WithClock(func() time.Time { return s.now }),
		WithShareTokens([]byte("a-different-signing-key"), time.Hour),
	)
	token, _, err := other.Share(context.Background(), rec.ID)
	s.Require().NoError(err)

	_, err = s.svc.ResolveShare(context.Background(), token)
	s.Require().Error(err)
	s.True(pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestShare_NotConfigured() {
	svc := NewService(s.store, s.signer, s.docs)
	rec := s.issueValid(baseRequest())

	_, _, err := svc.Share(context.Background(), rec.ID)
	s.Require().Error(err)
	s.True(pkgerrors.HasCode(err, pkgerrors.CodeInternal))
}
