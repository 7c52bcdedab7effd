// Package lifecycle computes a certificate's derived trust state.
//
// Revoked is terminal and sticky: once the stored status says revoked,
// nothing overrides it. Expired is a pure function of (expiryDate, now),
// re-evaluated on every read and never persisted as ground truth. Valid is
// the default when neither condition holds.
package lifecycle

import (
	"time"

	"attest/internal/certificate/models"
)

// Clock supplies the current time; injected so status stays a pure function
// under test.
type Clock func() time.Time

// StatusOf derives the record's status at the given instant.
func StatusOf(rec models.Certificate, now time.Time) models.Status {
	if rec.Revoked() {
		return models.StatusRevoked
	}
	if rec.ExpiryDate != nil && !now.Before(*rec.ExpiryDate) {
		return models.StatusExpired
	}
	return models.StatusValid
}
