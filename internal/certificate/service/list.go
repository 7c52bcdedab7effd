package service

import (
	"context"

	"attest/internal/certificate/lifecycle"
	"attest/internal/certificate/models"
	id "attest/pkg/domain"
)

// GetByID loads a certificate with its display status derived at read time:
// a stored "valid" whose expiry has passed is reported as expired without
// rewriting the record.
func (s *Service) GetByID(ctx context.Context, certID id.CertificateID) (models.Certificate, error) {
	rec, err := s.store.GetByID(ctx, certID)
	if err != nil {
		return models.Certificate{}, err
	}
	rec.Status = lifecycle.StatusOf(rec, s.now())
	return rec, nil
}

// ListByParticipant returns every certificate the address issued or
// received, with derived display statuses.
func (s *Service) ListByParticipant(ctx context.Context, addr id.Address) ([]models.Certificate, error) {
	recs, err := s.store.FindByParticipant(ctx, addr)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range recs {
		recs[i].Status = lifecycle.StatusOf(recs[i], now)
	}
	return recs, nil
}
