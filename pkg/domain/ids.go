// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "attest/pkg/domain-errors"
)

// CertificateID identifies an issued certificate record. Assigned once at
// issuance and immutable afterwards.
type CertificateID uuid.UUID

// NewCertificateID returns a fresh random certificate ID.
func NewCertificateID() CertificateID {
	return CertificateID(uuid.New())
}

// ParseCertificateID validates a certificate ID at trust boundaries
// (handlers, API inputs).
func ParseCertificateID(s string) (CertificateID, error) {
	if s == "" {
		return CertificateID{}, dErrors.New(dErrors.CodeInvalidInput, "certificate ID cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return CertificateID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid certificate ID format")
	}
	return CertificateID(id), nil
}

func (id CertificateID) String() string { return uuid.UUID(id).String() }

func (id CertificateID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// Address is a lowercase-normalized account identifier (0x + 40 hex digits).
// All comparisons between addresses are case-insensitive; normalizing at
// parse time makes equality checks plain string comparisons.
type Address string

// ParseAddress validates and lowercases an account address.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address cannot be empty")
	}
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address must be 0x followed by 40 hex digits")
	}
	for _, c := range s[2:] {
		if !isHexDigit(c) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "address must be 0x followed by 40 hex digits")
		}
	}
	return Address(strings.ToLower(s)), nil
}

func (a Address) String() string { return string(a) }

func (a Address) IsNil() bool { return a == "" }

// Equal compares two addresses case-insensitively. Parsed addresses are
// already lowercase; this guards values constructed outside ParseAddress.
func (a Address) Equal(other Address) bool {
	return strings.EqualFold(string(a), string(other))
}

func isHexDigit(c rune) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	}
	return false
}
