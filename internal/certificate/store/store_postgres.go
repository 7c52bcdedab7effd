package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"attest/internal/certificate/models"
	id "attest/pkg/domain"
)

const certificateColumns = `
	id, name, recipient_address, issuer_address, issuer_name, certificate_type,
	category, sub_category, issue_date, expiry_date, metadata, external_ref,
	fingerprint_version, content_fingerprint, signature, status,
	revocation_reason, revocation_date`

// PostgresStore persists certificate records in PostgreSQL. Addresses are
// stored lowercase so participant lookups and the revocation guard are plain
// equality checks.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, rec models.Certificate) error {
	metadata, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := `
		INSERT INTO certificates (
			id, name, recipient_address, issuer_address, issuer_name,
			certificate_type, category, sub_category, issue_date, expiry_date,
			metadata, external_ref, fingerprint_version, content_fingerprint,
			signature, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query,
		rec.ID.String(),
		rec.Name,
		nullableAddress(rec.RecipientAddress),
		strings.ToLower(rec.IssuerAddress.String()),
		rec.IssuerName,
		rec.CertificateType,
		rec.Category.String(),
		rec.SubCategory,
		rec.IssueDate.UTC(),
		nullableTime(rec.ExpiryDate),
		metadata,
		rec.ExternalRef,
		int(rec.FingerprintVersion),
		rec.ContentFingerprint,
		rec.Signature,
		string(rec.Status),
	)
	if err != nil {
		return fmt.Errorf("insert certificate: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert certificate: %w", err)
	}
	if n == 0 {
		return ErrDuplicateID
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, certID id.CertificateID) (models.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE id = $1`
	rec, err := scanCertificate(s.db.QueryRowContext(ctx, query, certID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Certificate{}, ErrNotFound
		}
		return models.Certificate{}, fmt.Errorf("get certificate: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) FindByParticipant(ctx context.Context, addr id.Address) ([]models.Certificate, error) {
	query := `
		SELECT ` + certificateColumns + `
		FROM certificates
		WHERE issuer_address = $1 OR recipient_address = $1
		ORDER BY issue_date DESC
	`
	rows, err := s.db.QueryContext(ctx, query, strings.ToLower(addr.String()))
	if err != nil {
		return nil, fmt.Errorf("find by participant: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var out []models.Certificate
	for rows.Next() {
		rec, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate certificates: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpdateRevocation(ctx context.Context, certID id.CertificateID, reason string, revokedBy id.Address, revokedAt time.Time) (models.Certificate, error) {
	// Single-statement compare-and-set: the status guard serializes
	// concurrent revocations so exactly one wins.
	query := `
		UPDATE certificates
		SET status = 'revoked', revocation_reason = $2, revocation_date = $3
		WHERE id = $1 AND issuer_address = $4 AND status <> 'revoked'
		RETURNING ` + certificateColumns
	rec, err := scanCertificate(s.db.QueryRowContext(ctx, query,
		certID.String(), reason, revokedAt.UTC(), strings.ToLower(revokedBy.String()),
	))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Certificate{}, fmt.Errorf("revoke certificate: %w", err)
	}

	// No row updated: distinguish why for the caller.
	var issuer, status string
	probe := s.db.QueryRowContext(ctx,
		`SELECT issuer_address, status FROM certificates WHERE id = $1`, certID.String())
	if err := probe.Scan(&issuer, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Certificate{}, ErrNotFound
		}
		return models.Certificate{}, fmt.Errorf("revoke certificate: %w", err)
	}
	if !id.Address(issuer).Equal(revokedBy) {
		return models.Certificate{}, ErrUnauthorized
	}
	return models.Certificate{}, ErrAlreadyRevoked
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCertificate(row rowScanner) (models.Certificate, error) {
	var (
		rec              models.Certificate
		rawID            string
		recipient        sql.NullString
		expiry           sql.NullTime
		metadata         []byte
		version          int
		status           string
		revocationReason sql.NullString
		revocationDate   sql.NullTime
	)
	err := row.Scan(
		&rawID,
		&rec.Name,
		&recipient,
		(*string)(&rec.IssuerAddress),
		&rec.IssuerName,
		&rec.CertificateType,
		(*string)(&rec.Category),
		&rec.SubCategory,
		&rec.IssueDate,
		&expiry,
		&metadata,
		&rec.ExternalRef,
		&version,
		&rec.ContentFingerprint,
		&rec.Signature,
		&status,
		&revocationReason,
		&revocationDate,
	)
	if err != nil {
		return models.Certificate{}, err
	}

	certID, err := id.ParseCertificateID(rawID)
	if err != nil {
		return models.Certificate{}, fmt.Errorf("stored id is not a valid certificate id: %w", err)
	}
	rec.ID = certID
	rec.Status = models.Status(status)
	rec.FingerprintVersion = models.FingerprintVersion(version)
	rec.IssueDate = rec.IssueDate.UTC()
	if recipient.Valid {
		rec.RecipientAddress = id.Address(recipient.String)
	}
	if expiry.Valid {
		t := expiry.Time.UTC()
		rec.ExpiryDate = &t
	}
	if revocationReason.Valid {
		rec.RevocationReason = revocationReason.String
	}
	if revocationDate.Valid {
		t := revocationDate.Time.UTC()
		rec.RevocationDate = &t
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &rec.Metadata); err != nil {
			return models.Certificate{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return rec, nil
}

func nullableAddress(addr id.Address) sql.NullString {
	if addr.IsNil() {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.ToLower(addr.String()), Valid: true}
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
