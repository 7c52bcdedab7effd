package signing

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	id "attest/pkg/domain"
	dErrors "attest/pkg/domain-errors"
)

// Signer is the external signing capability. The core never owns private key
// material directly; a Signer may front a wallet that prompts a human, so
// Sign honors context cancellation and callers bound it with a timeout.
type Signer interface {
	// Address returns the public identity that recovery will yield for
	// signatures produced by this capability.
	Address() id.Address

	// Sign produces a recoverable signature over the fingerprint. A rejected
	// prompt, disconnected signer, or failed key operation returns a
	// signing_failed domain error; issuance as a whole then fails and is not
	// retried automatically.
	Sign(ctx context.Context, fingerprint string) (string, error)
}

// LocalSigner signs with an in-process secp256k1 key. Used by the server's
// own issuing identity and by tests.
type LocalSigner struct {
	key  *ecdsa.PrivateKey
	addr id.Address
}

// NewLocalSigner parses a hex-encoded private key.
func NewLocalSigner(hexKey string) (*LocalSigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid issuer private key")
	}
	return NewLocalSignerFromKey(key), nil
}

// NewLocalSignerFromKey wraps an already-parsed key.
func NewLocalSignerFromKey(key *ecdsa.PrivateKey) *LocalSigner {
	addr := crypto.PubkeyToAddress(key.PublicKey)
	return &LocalSigner{
		key:  key,
		addr: id.Address(strings.ToLower(addr.Hex())),
	}
}

func (s *LocalSigner) Address() id.Address {
	return s.addr
}

func (s *LocalSigner) Sign(ctx context.Context, fingerprint string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeSigningFailed, "signing cancelled")
	}
	sig, err := crypto.Sign(TextDigest(fingerprint), s.key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeSigningFailed, "key operation failed")
	}
	// Recovery id follows the wallet convention (27/28).
	sig[crypto.SignatureLength-1] += 27
	return "0x" + hex.EncodeToString(sig), nil
}
