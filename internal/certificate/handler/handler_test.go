package handler

//go:generate mockgen -source=handler.go -destination=mocks/service_mock.go -package=mocks Service

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"attest/internal/certificate/handler/mocks"
	"attest/internal/certificate/models"
	"attest/internal/certificate/service"
	"attest/internal/certificate/store"
	id "attest/pkg/domain"
	dErrors "attest/pkg/domain-errors"
)

func newTestRouter(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(mockService, logger).Register(r)
	return r, mockService
}

func doJSON(t *testing.T, r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, code dErrors.Code) {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(code), resp["error"])
}

func sampleCertificate(t *testing.T) models.Certificate {
	t.Helper()
	issuer, err := id.ParseAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	require.NoError(t, err)
	recipient, err := id.ParseAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	require.NoError(t, err)

	return models.Certificate{
		ID:                 id.NewCertificateID(),
		Name:               "Bachelor of Technology",
		RecipientAddress:   recipient,
		IssuerAddress:      issuer,
		IssuerName:         "Indian Institute of Technology Delhi",
		CertificateType:    "degree",
		Category:           models.CategoryAcademic,
		SubCategory:        "engineering",
		IssueDate:          time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Metadata:           models.Metadata{"grade": "A"},
		ExternalRef:        "bafyreib4pff766vhpbxbhjbqqnsh5emeznvujayjj4z2iu533cprgbz23m",
		FingerprintVersion: models.FingerprintCurrent,
		ContentFingerprint: "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		Signature:          "0x" + string(bytes.Repeat([]byte("ab"), 65)),
		Status:             models.StatusValid,
	}
}

func TestHandleIssue(t *testing.T) {
	t.Run("201 - issues certificate", func(t *testing.T) {
		r, svc := newTestRouter(t)
		rec := sampleCertificate(t)
		svc.EXPECT().Issue(gomock.Any(), gomock.Any()).Return(rec, nil)

		w := doJSON(t, r, http.MethodPost, "/", map[string]any{
			"name":             "Bachelor of Technology",
			"recipientAddress": rec.RecipientAddress.String(),
			"category":         "academic",
		})

		require.Equal(t, http.StatusCreated, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "certificate issued", resp["message"])
		cert := resp["certificate"].(map[string]any)
		assert.Equal(t, rec.ID.String(), cert["id"])
		assert.Equal(t, "2025-06-01T12:00:00.000Z", cert["issueDate"])
	})

	t.Run("400 - missing name", func(t *testing.T) {
		r, _ := newTestRouter(t)
		w := doJSON(t, r, http.MethodPost, "/", map[string]any{"category": "academic"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorCode(t, w, dErrors.CodeValidation)
	})

	t.Run("502 - signing failure", func(t *testing.T) {
		r, svc := newTestRouter(t)
		svc.EXPECT().Issue(gomock.Any(), gomock.Any()).
			Return(models.Certificate{}, dErrors.New(dErrors.CodeSigningFailed, "signer unavailable"))

		w := doJSON(t, r, http.MethodPost, "/", map[string]any{"name": "x"})
		require.Equal(t, http.StatusBadGateway, w.Code)
		assertErrorCode(t, w, dErrors.CodeSigningFailed)
	})
}

func TestHandleIssueBulk(t *testing.T) {
	t.Run("201 - mixed outcomes", func(t *testing.T) {
		r, svc := newTestRouter(t)
		rec := sampleCertificate(t)
		svc.EXPECT().IssueBulk(gomock.Any(), gomock.Len(2)).Return([]service.BulkOutcome{
			{Index: 0, Certificate: rec},
			{Index: 1, Err: dErrors.New(dErrors.CodeValidation, "certificate name is required")},
		}, nil)

		w := doJSON(t, r, http.MethodPost, "/bulk", map[string]any{
			"certificates": []map[string]any{
				{"name": "one"},
				{"name": ""},
			},
		})

		require.Equal(t, http.StatusCreated, w.Code)
		var resp bulkResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Issued)
		assert.Equal(t, 1, resp.Failed)
		require.Len(t, resp.Results, 2)
		assert.True(t, resp.Results[0].Issued)
		assert.NotEmpty(t, resp.Results[1].Error)
	})

	t.Run("400 - empty batch", func(t *testing.T) {
		r, _ := newTestRouter(t)
		w := doJSON(t, r, http.MethodPost, "/bulk", map[string]any{"certificates": []map[string]any{}})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleGet(t *testing.T) {
	t.Run("200 - found", func(t *testing.T) {
		r, svc := newTestRouter(t)
		rec := sampleCertificate(t)
		svc.EXPECT().GetByID(gomock.Any(), rec.ID).Return(rec, nil)

		w := doJSON(t, r, http.MethodGet, "/"+rec.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("404 - unknown id", func(t *testing.T) {
		r, svc := newTestRouter(t)
		certID := id.NewCertificateID()
		svc.EXPECT().GetByID(gomock.Any(), certID).Return(models.Certificate{}, store.ErrNotFound)

		w := doJSON(t, r, http.MethodGet, "/"+certID.String(), nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		assertErrorCode(t, w, dErrors.CodeNotFound)
	})

	t.Run("400 - malformed id", func(t *testing.T) {
		r, _ := newTestRouter(t)
		w := doJSON(t, r, http.MethodGet, "/not-a-uuid", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleVerify(t *testing.T) {
	t.Run("200 - valid certificate", func(t *testing.T) {
		r, svc := newTestRouter(t)
		rec := sampleCertificate(t)
		svc.EXPECT().Verify(gomock.Any(), rec.ID).Return(service.VerificationResult{
			OK:              true,
			Status:          models.StatusValid,
			Reason:          service.ReasonValid,
			Message:         "certificate is valid",
			RecoveredIssuer: rec.IssuerAddress,
			Certificate:     rec,
		}, nil)

		w := doJSON(t, r, http.MethodGet, "/"+rec.ID.String()+"/verify", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp verifyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Valid)
		assert.Equal(t, service.ReasonValid, resp.Reason)
		assert.Equal(t, rec.IssuerAddress.String(), resp.RecoveredIssuer)
		require.NotNil(t, resp.Certificate)
	})

	t.Run("200 - revoked certificate fails verification", func(t *testing.T) {
		r, svc := newTestRouter(t)
		rec := sampleCertificate(t)
		rec.Status = models.StatusRevoked
		svc.EXPECT().Verify(gomock.Any(), rec.ID).Return(service.VerificationResult{
			Status:      models.StatusRevoked,
			Reason:      service.ReasonRevoked,
			Message:     "certificate has been revoked: fraud",
			Certificate: rec,
		}, nil)

		w := doJSON(t, r, http.MethodGet, "/"+rec.ID.String()+"/verify", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp verifyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Valid)
		assert.Equal(t, service.ReasonRevoked, resp.Reason)
	})

	t.Run("404 - unknown id is an error", func(t *testing.T) {
		r, svc := newTestRouter(t)
		certID := id.NewCertificateID()
		svc.EXPECT().Verify(gomock.Any(), certID).Return(service.VerificationResult{}, store.ErrNotFound)

		w := doJSON(t, r, http.MethodGet, "/"+certID.String()+"/verify", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleRevoke(t *testing.T) {
	t.Run("200 - revokes", func(t *testing.T) {
		r, svc := newTestRouter(t)
		rec := sampleCertificate(t)
		rec.Status = models.StatusRevoked
		rec.RevocationReason = "fraud"
		svc.EXPECT().Revoke(gomock.Any(), rec.ID, "fraud", rec.IssuerAddress).Return(rec, nil)

		w := doJSON(t, r, http.MethodPatch, "/revoke/"+rec.ID.String(), map[string]any{
			"reason":    "fraud",
			"revokedBy": rec.IssuerAddress.String(),
		})
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("409 - already revoked", func(t *testing.T) {
		r, svc := newTestRouter(t)
		rec := sampleCertificate(t)
		svc.EXPECT().Revoke(gomock.Any(), rec.ID, "again", rec.IssuerAddress).
			Return(models.Certificate{}, store.ErrAlreadyRevoked)

		w := doJSON(t, r, http.MethodPatch, "/revoke/"+rec.ID.String(), map[string]any{
			"reason":    "again",
			"revokedBy": rec.IssuerAddress.String(),
		})
		require.Equal(t, http.StatusConflict, w.Code)
		assertErrorCode(t, w, dErrors.CodeAlreadyRevoked)
	})

	t.Run("401 - non-issuer", func(t *testing.T) {
		r, svc := newTestRouter(t)
		rec := sampleCertificate(t)
		svc.EXPECT().Revoke(gomock.Any(), rec.ID, "not mine", rec.RecipientAddress).
			Return(models.Certificate{}, store.ErrUnauthorized)

		w := doJSON(t, r, http.MethodPatch, "/revoke/"+rec.ID.String(), map[string]any{
			"reason":    "not mine",
			"revokedBy": rec.RecipientAddress.String(),
		})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("400 - missing reason", func(t *testing.T) {
		r, _ := newTestRouter(t)
		w := doJSON(t, r, http.MethodPatch, "/revoke/"+id.NewCertificateID().String(), map[string]any{
			"revokedBy": "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleListByParticipant(t *testing.T) {
	t.Run("200 - lists certificates", func(t *testing.T) {
		r, svc := newTestRouter(t)
		rec := sampleCertificate(t)
		svc.EXPECT().ListByParticipant(gomock.Any(), rec.RecipientAddress).
			Return([]models.Certificate{rec}, nil)

		w := doJSON(t, r, http.MethodGet, "/participant/"+rec.RecipientAddress.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp listResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Certificates, 1)
	})

	t.Run("400 - malformed address", func(t *testing.T) {
		r, _ := newTestRouter(t)
		w := doJSON(t, r, http.MethodGet, "/participant/0x1234", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleShare(t *testing.T) {
	t.Run("201 - mints token", func(t *testing.T) {
		r, svc := newTestRouter(t)
		rec := sampleCertificate(t)
		expiresAt := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
		svc.EXPECT().Share(gomock.Any(), rec.ID).Return("signed.jwt.token", expiresAt, nil)

		w := doJSON(t, r, http.MethodPost, "/"+rec.ID.String()+"/share", nil)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp shareResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "signed.jwt.token", resp.Token)
		assert.Equal(t, "2025-06-02T12:00:00Z", resp.ExpiresAt)
	})

	t.Run("200 - resolves shared certificate", func(t *testing.T) {
		r, svc := newTestRouter(t)
		rec := sampleCertificate(t)
		svc.EXPECT().ResolveShare(gomock.Any(), "signed.jwt.token").Return(rec, nil)

		w := doJSON(t, r, http.MethodGet, "/shared/signed.jwt.token", nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("401 - bad token", func(t *testing.T) {
		r, svc := newTestRouter(t)
		svc.EXPECT().ResolveShare(gomock.Any(), "garbage").
			Return(models.Certificate{}, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired share token"))

		w := doJSON(t, r, http.MethodGet, "/shared/garbage", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
