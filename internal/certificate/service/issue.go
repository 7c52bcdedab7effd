package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"attest/internal/audit"
	"attest/internal/certificate/canonical"
	"attest/internal/certificate/models"
	"attest/internal/certificate/signing"
	"attest/internal/certificate/tracer"
	"attest/internal/platform/middleware"
	id "attest/pkg/domain"
	pkgerrors "attest/pkg/domain-errors"
)

// IssueRequest carries the caller-supplied fields of a new certificate.
type IssueRequest struct {
	Name             string
	RecipientAddress string
	CertificateType  string
	Category         string
	SubCategory      string
	IssuerName       string
	ExpiryDate       *time.Time
	Metadata         models.Metadata
}

// Issue signs and persists a new certificate. The record is immutable once
// stored: any persistence failure after signing is surfaced so the caller
// re-issues rather than retrying with a stale signature.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (models.Certificate, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanIssue)
	rec, err := s.issue(ctx, req)
	span.SetAttributes(
		tracer.String(tracer.AttrCertificateID, rec.ID.String()),
		tracer.String(tracer.AttrIssuer, rec.IssuerAddress.String()),
	)
	span.End(err)
	return rec, err
}

func (s *Service) issue(ctx context.Context, req IssueRequest) (models.Certificate, error) {
	if s.signer == nil {
		return models.Certificate{}, pkgerrors.New(pkgerrors.CodeInternal, "issuance is disabled: no signing key configured")
	}

	rec, err := s.buildRecord(req)
	if err != nil {
		s.countIssueFailure("validation")
		return models.Certificate{}, err
	}

	// The off-chain document is part of the hashed payload, so it must be
	// stored before the fingerprint is computed.
	ref, err := s.offchain.Put(ctx, offchainDocument(rec))
	if err != nil {
		s.countIssueFailure("offchain")
		return models.Certificate{}, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "store off-chain document")
	}
	rec.ExternalRef = ref

	payload, err := canonical.Serialize(rec)
	if err != nil {
		s.countIssueFailure("serialization")
		return models.Certificate{}, err
	}
	rec.ContentFingerprint = signing.Fingerprint(payload)

	signCtx, cancel := context.WithTimeout(ctx, s.signingTimeout)
	defer cancel()
	signStart := time.Now()
	sig, err := s.signer.Sign(signCtx, rec.ContentFingerprint)
	if s.metrics != nil {
		s.metrics.ObserveSigningDuration(float64(time.Since(signStart).Milliseconds()))
	}
	if err != nil {
		s.countIssueFailure("signing")
		return models.Certificate{}, pkgerrors.Wrap(err, pkgerrors.CodeSigningFailed, "sign certificate fingerprint")
	}
	rec.Signature = sig

	if err := s.store.Create(ctx, rec); err != nil {
		s.countIssueFailure("persistence")
		return models.Certificate{}, pkgerrors.Wrap(err, pkgerrors.CodePersistence, "certificate signed but not saved, re-sign required")
	}

	if s.metrics != nil {
		s.metrics.IncrementIssued()
	}
	s.emitAudit(ctx, audit.Event{
		CertificateID: rec.ID.String(),
		Actor:         rec.IssuerAddress.String(),
		Action:        audit.ActionIssued,
		Outcome:       audit.OutcomeSuccess,
		Client:        middleware.GetClientInfo(ctx).Description,
	})
	if s.anchors != nil {
		s.anchors.EnqueueIssue(rec.ContentFingerprint, rec.ExternalRef)
	}
	return rec, nil
}

// BulkOutcome reports the result of one item in a bulk issuance. Err is nil
// for issued items.
type BulkOutcome struct {
	Index       int
	Certificate models.Certificate
	Err         error
}

// IssueBulk issues the requests concurrently, bounded by the configured
// parallelism. One bad item never aborts the batch; outcomes are returned
// in request order.
func (s *Service) IssueBulk(ctx context.Context, reqs []IssueRequest) ([]BulkOutcome, error) {
	if len(reqs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bulk issuance requires at least one certificate")
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanIssueBulk,
		tracer.Int64(tracer.AttrBulkCount, int64(len(reqs))))
	defer span.End(nil)

	if s.metrics != nil {
		s.metrics.ObserveBulkBatchSize(len(reqs))
	}

	outcomes := make([]BulkOutcome, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.bulkParallel)
	for i, req := range reqs {
		g.Go(func() error {
			rec, err := s.Issue(ctx, req)
			outcomes[i] = BulkOutcome{Index: i, Certificate: rec, Err: err}
			return nil
		})
	}
	// Goroutines report per-item errors through outcomes, never through the
	// group, so Wait cannot fail.
	_ = g.Wait()
	return outcomes, nil
}

func (s *Service) buildRecord(req IssueRequest) (models.Certificate, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Certificate{}, pkgerrors.New(pkgerrors.CodeValidation, "certificate name is required")
	}

	var recipient id.Address
	if req.RecipientAddress != "" {
		addr, err := id.ParseAddress(req.RecipientAddress)
		if err != nil {
			return models.Certificate{}, err
		}
		recipient = addr
	}

	category, err := models.ParseCategory(req.Category)
	if err != nil {
		return models.Certificate{}, err
	}

	if req.ExpiryDate != nil && !req.ExpiryDate.After(s.now()) {
		return models.Certificate{}, pkgerrors.New(pkgerrors.CodeValidation, "expiry date must be in the future")
	}

	issuerName := strings.TrimSpace(req.IssuerName)
	if issuerName == "" {
		issuerName = models.IssuerForCategory(category).Name
	}

	rec := models.Certificate{
		ID:                 s.newID(),
		Name:               name,
		RecipientAddress:   recipient,
		IssuerAddress:      s.signer.Address(),
		IssuerName:         issuerName,
		CertificateType:    strings.TrimSpace(req.CertificateType),
		Category:           category,
		SubCategory:        strings.TrimSpace(req.SubCategory),
		IssueDate:          s.now().Truncate(time.Millisecond),
		Metadata:           req.Metadata,
		FingerprintVersion: models.FingerprintCurrent,
		Status:             models.StatusValid,
	}
	if req.ExpiryDate != nil {
		expiry := req.ExpiryDate.UTC().Truncate(time.Millisecond)
		rec.ExpiryDate = &expiry
	}
	return rec, nil
}

// offchainDocument is the public document stored under the certificate's
// content address. It excludes the signature, which does not exist yet
// when the document is written.
func offchainDocument(rec models.Certificate) map[string]any {
	doc := map[string]any{
		"id":               rec.ID.String(),
		"name":             rec.Name,
		"recipientAddress": rec.RecipientAddress.String(),
		"issuerAddress":    rec.IssuerAddress.String(),
		"issuerName":       rec.IssuerName,
		"certificateType":  rec.CertificateType,
		"category":         rec.Category.String(),
		"subCategory":      rec.SubCategory,
		"issueDate":        canonical.FormatTime(rec.IssueDate),
		"metadata":         rec.Metadata,
	}
	if rec.ExpiryDate != nil {
		doc["expiryDate"] = canonical.FormatTime(*rec.ExpiryDate)
	}
	return doc
}

func (s *Service) countIssueFailure(reason string) {
	if s.metrics != nil {
		s.metrics.IncrementIssueFailures(reason)
	}
}
