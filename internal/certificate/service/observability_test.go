package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/mock/gomock"

	"attest/internal/audit"
	"attest/internal/certificate/service/mocks"
)

func (s *ServiceSuite) TestIssue_EnqueuesAnchorJob() {
	ctrl := gomock.NewController(s.T())
	anchors := mocks.NewMockAnchorQueue(ctrl)
	anchors.EXPECT().EnqueueIssue(gomock.Any(), gomock.Any()).Times(1)

	svc := NewService(s.store, s.signer, s.docs,
		WithClock(func() time.Time { return s.now }),
		WithAnchorQueue(anchors),
	)

	_, err := svc.Issue(context.Background(), baseRequest())
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestRevoke_EnqueuesAnchorJob() {
	ctrl := gomock.NewController(s.T())
	anchors := mocks.NewMockAnchorQueue(ctrl)
	anchors.EXPECT().EnqueueIssue(gomock.Any(), gomock.Any()).Times(1)

	svc := NewService(s.store, s.signer, s.docs,
		WithClock(func() time.Time { return s.now }),
		WithAnchorQueue(anchors),
	)

	rec, err := svc.Issue(context.Background(), baseRequest())
	s.Require().NoError(err)

	anchors.EXPECT().EnqueueRevoke(rec.ContentFingerprint, "fraud").Times(1)
	_, err = svc.Revoke(context.Background(), rec.ID, "fraud", rec.IssuerAddress)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestIssue_AuditFailureDoesNotAbort() {
	ctrl := gomock.NewController(s.T())
	auditor := mocks.NewMockAuditPublisher(ctrl)
	auditor.EXPECT().
		Emit(gomock.Any(), gomock.Any()).
		Return(errors.New("sink unavailable")).
		AnyTimes()

	svc := NewService(s.store, s.signer, s.docs,
		WithClock(func() time.Time { return s.now }),
		WithAuditor(auditor),
	)

	_, err := svc.Issue(context.Background(), baseRequest())
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestIssue_EmitsAuditEvent() {
	rec := s.issueValid(baseRequest())

	events, err := s.audits.ListByCertificate(context.Background(), rec.ID.String())
	s.Require().NoError(err)
	s.Require().NotEmpty(events)
	s.Equal(audit.ActionIssued, events[0].Action)
	s.Equal(audit.OutcomeSuccess, events[0].Outcome)
	s.Equal(rec.IssuerAddress.String(), events[0].Actor)
}
