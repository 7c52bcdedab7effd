package store

import (
	"context"
	"sync"
	"time"

	"attest/internal/certificate/models"
	id "attest/pkg/domain"
)

// MemoryStore keeps certificate records in process memory. It implements the
// same single-writer revocation discipline as the Postgres store by holding
// the write lock across the read-check-write sequence.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[id.CertificateID]models.Certificate
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[id.CertificateID]models.Certificate)}
}

func (s *MemoryStore) Create(_ context.Context, rec models.Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.ID]; exists {
		return ErrDuplicateID
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, certID id.CertificateID) (models.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[certID]
	if !ok {
		return models.Certificate{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) FindByParticipant(_ context.Context, addr id.Address) ([]models.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Certificate
	for _, rec := range s.records {
		if rec.IssuerAddress.Equal(addr) || (!rec.RecipientAddress.IsNil() && rec.RecipientAddress.Equal(addr)) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateRevocation(_ context.Context, certID id.CertificateID, reason string, revokedBy id.Address, revokedAt time.Time) (models.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[certID]
	if !ok {
		return models.Certificate{}, ErrNotFound
	}
	if !rec.IssuerAddress.Equal(revokedBy) {
		return models.Certificate{}, ErrUnauthorized
	}
	if rec.Revoked() {
		return models.Certificate{}, ErrAlreadyRevoked
	}

	revokedAt = revokedAt.UTC()
	rec.Status = models.StatusRevoked
	rec.RevocationReason = reason
	rec.RevocationDate = &revokedAt
	s.records[certID] = rec
	return rec, nil
}
