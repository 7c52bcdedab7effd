package models

import (
	"strings"

	dErrors "attest/pkg/domain-errors"
)

// Category is the closed enumeration of credential categories. Modeled as an
// enum with exhaustive matching rather than free-form string comparison.
type Category string

const (
	CategoryAcademic   Category = "academic"
	CategorySkill      Category = "skill"
	CategoryEmployment Category = "employment"
	CategoryGovernment Category = "government"
	CategoryGig        Category = "gig"
)

// ParseCategory validates a category at trust boundaries. Empty is allowed;
// pre-v2 records carry no category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case "", CategoryAcademic, CategorySkill, CategoryEmployment, CategoryGovernment, CategoryGig:
		return c, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown certificate category: "+s)
}

func (c Category) String() string { return string(c) }

// IssuerProfile describes the accountable issuing organization for a
// category.
type IssuerProfile struct {
	Name    string
	Type    string
	DID     string
	Website string
}

var issuerDirectory = map[Category]IssuerProfile{
	CategoryAcademic: {
		Name:    "Indian Institute of Technology Delhi",
		Type:    "University",
		DID:     "did:ethr:0x123456789abcdef123456789abcdef1234567890",
		Website: "https://iitd.ac.in",
	},
	CategorySkill: {
		Name:    "National Skill Development Corporation",
		Type:    "Skill Institute",
		DID:     "did:ethr:0x234567890abcdef234567890abcdef2345678901",
		Website: "https://nsdcindia.org",
	},
	CategoryEmployment: {
		Name:    "Tata Consultancy Services",
		Type:    "Employer",
		DID:     "did:ethr:0x345678901abcdef345678901abcdef3456789012",
		Website: "https://tcs.com",
	},
	CategoryGovernment: {
		Name:    "Medical Council of India",
		Type:    "Government Agency",
		DID:     "did:ethr:0x456789012abcdef456789012abcdef4567890123",
		Website: "https://nmc.org.in",
	},
	CategoryGig: {
		Name:    "Urban Company",
		Type:    "Gig Platform",
		DID:     "did:ethr:0x567890123abcdef567890123abcdef5678901234",
		Website: "https://urbancompany.com",
	},
}

// defaultIssuer is used when a category has no directory entry.
var defaultIssuer = IssuerProfile{
	Name: "Authorized Issuer",
	Type: "General",
	DID:  "did:ethr:0x0000000000000000000000000000000000000000",
}

// IssuerForCategory returns the directory profile for a category, falling
// back to the generic authorized issuer.
func IssuerForCategory(c Category) IssuerProfile {
	if p, ok := issuerDirectory[c]; ok {
		return p
	}
	return defaultIssuer
}
