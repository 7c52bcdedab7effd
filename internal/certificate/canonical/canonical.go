// Package canonical produces the deterministic byte serialization of a
// certificate's enumerated field subset. The serialization is the only wire
// format that matters to the trust model: the fingerprint is computed over
// these bytes at issuance and recomputed from stored fields at verification,
// so identical field values must serialize identically byte-for-byte across
// builds, locales, and time.
//
// Properties:
//   - JSON object with lexicographically ordered keys at every nesting level
//     (encoding/json sorts map keys).
//   - Timestamps rendered as ISO-8601 UTC with millisecond precision.
//   - Mutable fields (status, signature, revocation data) are never included;
//     hashing them would make the fingerprint unstable across the record's
//     lifecycle.
//
// A serializer format change is a breaking change: records carry the
// FingerprintVersion they were issued under and Serialize dispatches to the
// matching historical layout.
package canonical

import (
	"encoding/json"
	"time"

	"attest/internal/certificate/models"
	dErrors "attest/pkg/domain-errors"
)

// TimeLayout renders timestamps the way the issuance clients always have:
// ISO-8601 UTC with milliseconds, never locale-dependent formats.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// FormatTime normalizes a timestamp to the canonical UTC rendering.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Serialize returns the canonical bytes for the record's enumerated fields,
// using the serializer version the record was issued under.
func Serialize(rec models.Certificate) ([]byte, error) {
	switch rec.FingerprintVersion {
	case models.FingerprintV1:
		return serializeV1(rec)
	case models.FingerprintV2:
		return serializeV2(rec)
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "unknown fingerprint version")
	}
}

func serializeV1(rec models.Certificate) ([]byte, error) {
	return marshal(map[string]any{
		"id":               rec.ID.String(),
		"name":             rec.Name,
		"recipientAddress": rec.RecipientAddress.String(),
		"issuerAddress":    rec.IssuerAddress.String(),
		"issueDate":        FormatTime(rec.IssueDate),
		"externalRef":      rec.ExternalRef,
		"metadata":         normalizeMetadata(rec.Metadata),
	})
}

func serializeV2(rec models.Certificate) ([]byte, error) {
	return marshal(map[string]any{
		"id":               rec.ID.String(),
		"name":             rec.Name,
		"recipientAddress": rec.RecipientAddress.String(),
		"issuerAddress":    rec.IssuerAddress.String(),
		"issuerName":       rec.IssuerName,
		"issueDate":        FormatTime(rec.IssueDate),
		"externalRef":      rec.ExternalRef,
		"metadata":         normalizeMetadata(rec.Metadata),
		"category":         rec.Category.String(),
		"subCategory":      rec.SubCategory,
	})
}

func marshal(payload map[string]any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		// Should never happen for records built through the issuance path;
		// checked because metadata is an open bag.
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "record contains unserializable value")
	}
	return b, nil
}

// normalizeMetadata rewrites metadata values so equal field values always
// yield equal JSON. time.Time values are rendered with the canonical layout
// instead of encoding/json's RFC 3339 nanosecond form.
func normalizeMetadata(m models.Metadata) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		return FormatTime(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = normalizeValue(inner)
		}
		return out
	case models.Metadata:
		return normalizeMetadata(val)
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = normalizeValue(inner)
		}
		return out
	default:
		return v
	}
}
