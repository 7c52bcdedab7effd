package store

import (
	"context"
	"time"

	"attest/internal/certificate/models"
	id "attest/pkg/domain"
	dErrors "attest/pkg/domain-errors"
)

// Sentinel errors shared by all store implementations so callers can match
// with errors.Is regardless of backend.
var (
	ErrNotFound       = dErrors.New(dErrors.CodeNotFound, "certificate not found")
	ErrDuplicateID    = dErrors.New(dErrors.CodeConflict, "certificate id already exists")
	ErrAlreadyRevoked = dErrors.New(dErrors.CodeAlreadyRevoked, "certificate is already revoked")
	ErrUnauthorized   = dErrors.New(dErrors.CodeUnauthorized, "only the issuer can revoke a certificate")
)

// Store is the record persistence contract. Records are immutable after
// creation except for the one-way revocation transition, which must be
// serialized per record: of two concurrent revocations exactly one wins and
// the other observes ErrAlreadyRevoked.
type Store interface {
	// Create persists a new record. Fails with ErrDuplicateID when the id
	// already exists.
	Create(ctx context.Context, rec models.Certificate) error

	// GetByID loads a record. Fails with ErrNotFound for unknown ids.
	GetByID(ctx context.Context, certID id.CertificateID) (models.Certificate, error)

	// FindByParticipant returns records where the address matches either the
	// issuer or the recipient, case-insensitively.
	FindByParticipant(ctx context.Context, addr id.Address) ([]models.Certificate, error)

	// UpdateRevocation performs the compare-and-set revocation transition.
	// Fails with ErrNotFound, ErrAlreadyRevoked, or ErrUnauthorized; on
	// success returns the updated record.
	UpdateRevocation(ctx context.Context, certID id.CertificateID, reason string, revokedBy id.Address, revokedAt time.Time) (models.Certificate, error)
}
