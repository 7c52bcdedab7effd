// Package anchor records certificate fingerprints on an external chain.
//
// Anchoring is strictly best-effort: issuance and revocation are complete
// once the signed record is persisted, and an anchoring failure must never
// surface to the caller. The Dispatcher enqueues anchor jobs and a background
// worker submits them, logging and counting failures.
package anchor

import "context"

// Anchorer submits certificate fingerprints to an external ledger.
// Implementations must be safe for concurrent use.
type Anchorer interface {
	// AnchorIssue records a newly issued certificate's fingerprint along
	// with its off-chain payload reference.
	AnchorIssue(ctx context.Context, fingerprint string, offchainRef string) error

	// AnchorRevoke records a revocation of the given fingerprint.
	AnchorRevoke(ctx context.Context, fingerprint string, reason string) error
}

// NoopAnchorer discards all anchor requests. Used when anchoring is
// disabled and in tests.
type NoopAnchorer struct{}

func NewNoop() *NoopAnchorer {
	return &NoopAnchorer{}
}

func (NoopAnchorer) AnchorIssue(context.Context, string, string) error {
	return nil
}

func (NoopAnchorer) AnchorRevoke(context.Context, string, string) error {
	return nil
}

var _ Anchorer = NoopAnchorer{}
