// Package handler exposes the certificate workflows over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"attest/internal/certificate/models"
	"attest/internal/certificate/service"
	"attest/internal/platform/middleware"
	id "attest/pkg/domain"
	dErrors "attest/pkg/domain-errors"
	"attest/pkg/platform/httputil"
)

// Service defines the interface for certificate operations.
type Service interface {
	Issue(ctx context.Context, req service.IssueRequest) (models.Certificate, error)
	IssueBulk(ctx context.Context, reqs []service.IssueRequest) ([]service.BulkOutcome, error)
	Verify(ctx context.Context, certID id.CertificateID) (service.VerificationResult, error)
	Revoke(ctx context.Context, certID id.CertificateID, reason string, revokedBy id.Address) (models.Certificate, error)
	GetByID(ctx context.Context, certID id.CertificateID) (models.Certificate, error)
	ListByParticipant(ctx context.Context, addr id.Address) ([]models.Certificate, error)
	Share(ctx context.Context, certID id.CertificateID) (string, time.Time, error)
	ResolveShare(ctx context.Context, token string) (models.Certificate, error)
}

// Handler handles certificate endpoints.
type Handler struct {
	logger       *slog.Logger
	certificates Service
}

// New creates a new certificate Handler.
func New(certificates Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:       logger,
		certificates: certificates,
	}
}

// Register registers the certificate routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/", h.handleIssue)
	r.Post("/bulk", h.handleIssueBulk)
	r.Get("/{id}", h.handleGet)
	r.Get("/{id}/verify", h.handleVerify)
	r.Get("/participant/{address}", h.handleListByParticipant)
	r.Patch("/revoke/{id}", h.handleRevoke)
	r.Post("/{id}/share", h.handleShare)
	r.Get("/shared/{token}", h.handleResolveShare)
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[issueCertificateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rec, err := h.certificates.Issue(ctx, req.toServiceRequest())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue certificate",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, certificateEnvelope{
		Message:     "certificate issued",
		Certificate: toCertificateResponse(rec),
	})
}

func (h *Handler) handleIssueBulk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[bulkIssueRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	reqs := make([]service.IssueRequest, len(req.Certificates))
	for i, c := range req.Certificates {
		reqs[i] = c.toServiceRequest()
	}

	outcomes, err := h.certificates.IssueBulk(ctx, reqs)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue certificate batch",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toBulkResponse(outcomes))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	certID, ok := h.pathCertificateID(w, r)
	if !ok {
		return
	}

	rec, err := h.certificates.GetByID(ctx, certID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, certificateEnvelope{
		Certificate: toCertificateResponse(rec),
	})
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	certID, ok := h.pathCertificateID(w, r)
	if !ok {
		return
	}

	result, err := h.certificates.Verify(ctx, certID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toVerifyResponse(result))
}

func (h *Handler) handleListByParticipant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	addr, err := id.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	recs, err := h.certificates.ListByParticipant(ctx, addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	responses := make([]certificateResponse, len(recs))
	for i, rec := range recs {
		responses[i] = toCertificateResponse(rec)
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Certificates: responses})
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	certID, ok := h.pathCertificateID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[revokeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	revokedBy, err := id.ParseAddress(req.RevokedBy)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rec, err := h.certificates.Revoke(ctx, certID, req.Reason, revokedBy)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to revoke certificate",
			"request_id", requestID,
			"certificate_id", certID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, certificateEnvelope{
		Message:     "certificate revoked",
		Certificate: toCertificateResponse(rec),
	})
}

func (h *Handler) handleShare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	certID, ok := h.pathCertificateID(w, r)
	if !ok {
		return
	}

	token, expiresAt, err := h.certificates.Share(ctx, certID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, shareResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleResolveShare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := chi.URLParam(r, "token")
	if token == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "share token is required"))
		return
	}

	rec, err := h.certificates.ResolveShare(ctx, token)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, certificateEnvelope{
		Certificate: toCertificateResponse(rec),
	})
}

func (h *Handler) pathCertificateID(w http.ResponseWriter, r *http.Request) (id.CertificateID, bool) {
	certID, err := id.ParseCertificateID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.CertificateID{}, false
	}
	return certID, true
}
