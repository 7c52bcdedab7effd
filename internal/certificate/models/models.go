// Package models defines the certificate record, its lifecycle states, and
// the closed category enumeration.
package models

import (
	"time"

	id "attest/pkg/domain"
)

// Status is the derived trust state of a certificate. Revoked is the only
// stored terminal state; expired is computed from the expiry date on every
// read and never persisted as ground truth.
type Status string

const (
	StatusValid   Status = "valid"
	StatusExpired Status = "expired"
	StatusRevoked Status = "revoked"
)

// FingerprintVersion selects the canonical serializer used to compute a
// record's content fingerprint. Records keep the version they were issued
// under so verification recomputes the same byte sequence even after the
// hashed field set evolves.
type FingerprintVersion int

const (
	// FingerprintV1 hashes {id, name, recipientAddress, issuerAddress,
	// issueDate, externalRef, metadata}.
	FingerprintV1 FingerprintVersion = 1
	// FingerprintV2 additionally hashes {issuerName, category, subCategory}
	// so tamper evidence extends to the descriptive labels.
	FingerprintV2 FingerprintVersion = 2

	// FingerprintCurrent is assigned to newly issued records.
	FingerprintCurrent = FingerprintV2
)

// Valid reports whether v names a known serializer version.
func (v FingerprintVersion) Valid() bool {
	return v == FingerprintV1 || v == FingerprintV2
}

// Metadata is the open, nested key-value bag attached to a certificate.
// It is fully part of the hashed payload.
type Metadata map[string]any

// Certificate is the unit of trust. Once issued, ID, IssuerAddress,
// IssueDate, ContentFingerprint, and Signature never change; the only
// permitted mutation is the one-way transition to revoked.
type Certificate struct {
	ID               id.CertificateID
	Name             string
	RecipientAddress id.Address // optional until claimed
	IssuerAddress    id.Address
	IssuerName       string
	CertificateType  string
	Category         Category
	SubCategory      string
	IssueDate        time.Time
	ExpiryDate       *time.Time
	Metadata         Metadata

	// ExternalRef is the content address (CID) of the off-chain metadata
	// document; part of the hashed payload.
	ExternalRef string

	FingerprintVersion FingerprintVersion
	ContentFingerprint string
	Signature          string

	Status           Status
	RevocationReason string
	RevocationDate   *time.Time
}

// Revoked reports whether the stored terminal state has been set.
func (c Certificate) Revoked() bool {
	return c.Status == StatusRevoked
}
