package handler

import (
	"attest/internal/certificate/canonical"
	"attest/internal/certificate/models"
	"attest/internal/certificate/service"
)

type certificateResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	RecipientAddress   string          `json:"recipientAddress,omitempty"`
	IssuerAddress      string          `json:"issuerAddress"`
	IssuerName         string          `json:"issuerName,omitempty"`
	CertificateType    string          `json:"certificateType,omitempty"`
	Category           string          `json:"category,omitempty"`
	SubCategory        string          `json:"subCategory,omitempty"`
	IssueDate          string          `json:"issueDate"`
	ExpiryDate         string          `json:"expiryDate,omitempty"`
	Metadata           models.Metadata `json:"metadata,omitempty"`
	ExternalRef        string          `json:"externalRef,omitempty"`
	FingerprintVersion int             `json:"fingerprintVersion"`
	ContentFingerprint string          `json:"contentFingerprint"`
	Signature          string          `json:"signature"`
	Status             string          `json:"status"`
	RevocationReason   string          `json:"revocationReason,omitempty"`
	RevocationDate     string          `json:"revocationDate,omitempty"`
}

func toCertificateResponse(rec models.Certificate) certificateResponse {
	resp := certificateResponse{
		ID:                 rec.ID.String(),
		Name:               rec.Name,
		RecipientAddress:   rec.RecipientAddress.String(),
		IssuerAddress:      rec.IssuerAddress.String(),
		IssuerName:         rec.IssuerName,
		CertificateType:    rec.CertificateType,
		Category:           rec.Category.String(),
		SubCategory:        rec.SubCategory,
		IssueDate:          canonical.FormatTime(rec.IssueDate),
		Metadata:           rec.Metadata,
		ExternalRef:        rec.ExternalRef,
		FingerprintVersion: int(rec.FingerprintVersion),
		ContentFingerprint: rec.ContentFingerprint,
		Signature:          rec.Signature,
		Status:             string(rec.Status),
		RevocationReason:   rec.RevocationReason,
	}
	if rec.ExpiryDate != nil {
		resp.ExpiryDate = canonical.FormatTime(*rec.ExpiryDate)
	}
	if rec.RevocationDate != nil {
		resp.RevocationDate = canonical.FormatTime(*rec.RevocationDate)
	}
	return resp
}

type certificateEnvelope struct {
	Message     string              `json:"message,omitempty"`
	Certificate certificateResponse `json:"certificate"`
}

type listResponse struct {
	Certificates []certificateResponse `json:"certificates"`
}

type verifyResponse struct {
	Valid           bool                 `json:"valid"`
	Status          string               `json:"status"`
	Reason          string               `json:"reason"`
	Message         string               `json:"message"`
	RecoveredIssuer string               `json:"recoveredIssuer,omitempty"`
	Certificate     *certificateResponse `json:"certificate,omitempty"`
}

func toVerifyResponse(result service.VerificationResult) verifyResponse {
	resp := verifyResponse{
		Valid:           result.OK,
		Status:          string(result.Status),
		Reason:          result.Reason,
		Message:         result.Message,
		RecoveredIssuer: result.RecoveredIssuer.String(),
	}
	if !result.Certificate.ID.IsNil() {
		cert := toCertificateResponse(result.Certificate)
		resp.Certificate = &cert
	}
	return resp
}

type bulkItemResponse struct {
	Index       int                  `json:"index"`
	Issued      bool                 `json:"issued"`
	Error       string               `json:"error,omitempty"`
	Certificate *certificateResponse `json:"certificate,omitempty"`
}

type bulkResponse struct {
	Issued  int                `json:"issued"`
	Failed  int                `json:"failed"`
	Results []bulkItemResponse `json:"results"`
}

func toBulkResponse(outcomes []service.BulkOutcome) bulkResponse {
	resp := bulkResponse{Results: make([]bulkItemResponse, len(outcomes))}
	for i, o := range outcomes {
		item := bulkItemResponse{Index: o.Index, Issued: o.Err == nil}
		if o.Err != nil {
			resp.Failed++
			item.Error = o.Err.Error()
		} else {
			resp.Issued++
			cert := toCertificateResponse(o.Certificate)
			item.Certificate = &cert
		}
		resp.Results[i] = item
	}
	return resp
}

type shareResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}
