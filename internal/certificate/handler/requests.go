package handler

import (
	"strings"
	"time"

	"attest/internal/certificate/models"
	"attest/internal/certificate/service"
	dErrors "attest/pkg/domain-errors"
)

const maxBulkSize = 250

type issueCertificateRequest struct {
	Name             string          `json:"name"`
	RecipientAddress string          `json:"recipientAddress"`
	CertificateType  string          `json:"certificateType"`
	Category         string          `json:"category"`
	SubCategory      string          `json:"subCategory"`
	IssuerName       string          `json:"issuerName"`
	ExpiryDate       *time.Time      `json:"expiryDate,omitempty"`
	Metadata         models.Metadata `json:"metadata"`
}

func (r *issueCertificateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.RecipientAddress = strings.TrimSpace(r.RecipientAddress)
	r.CertificateType = strings.TrimSpace(r.CertificateType)
	r.Category = strings.TrimSpace(strings.ToLower(r.Category))
	r.SubCategory = strings.TrimSpace(r.SubCategory)
	r.IssuerName = strings.TrimSpace(r.IssuerName)
}

func (r *issueCertificateRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func (r *issueCertificateRequest) toServiceRequest() service.IssueRequest {
	return service.IssueRequest{
		Name:             r.Name,
		RecipientAddress: r.RecipientAddress,
		CertificateType:  r.CertificateType,
		Category:         r.Category,
		SubCategory:      r.SubCategory,
		IssuerName:       r.IssuerName,
		ExpiryDate:       r.ExpiryDate,
		Metadata:         r.Metadata,
	}
}

type bulkIssueRequest struct {
	Certificates []issueCertificateRequest `json:"certificates"`
}

func (r *bulkIssueRequest) Normalize() {
	for i := range r.Certificates {
		r.Certificates[i].Normalize()
	}
}

func (r *bulkIssueRequest) Validate() error {
	if len(r.Certificates) == 0 {
		return dErrors.New(dErrors.CodeValidation, "certificates array must not be empty")
	}
	if len(r.Certificates) > maxBulkSize {
		return dErrors.New(dErrors.CodeValidation, "too many certificates in one batch")
	}
	return nil
}

type revokeRequest struct {
	Reason    string `json:"reason"`
	RevokedBy string `json:"revokedBy"`
}

func (r *revokeRequest) Normalize() {
	r.Reason = strings.TrimSpace(r.Reason)
	r.RevokedBy = strings.TrimSpace(r.RevokedBy)
}

func (r *revokeRequest) Validate() error {
	if r.Reason == "" {
		return dErrors.New(dErrors.CodeValidation, "revocation reason is required")
	}
	if r.RevokedBy == "" {
		return dErrors.New(dErrors.CodeValidation, "revokedBy address is required")
	}
	return nil
}
