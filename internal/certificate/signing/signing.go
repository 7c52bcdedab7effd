// Package signing owns the fingerprint hash and the recoverable-signature
// scheme. The fingerprint is Keccak-256 over the canonical bytes; signatures
// are secp256k1 over the fingerprint string under the personal-message
// envelope, so the signer address can be recovered from (fingerprint,
// signature) without a separate public key lookup.
package signing

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"

	id "attest/pkg/domain"
	dErrors "attest/pkg/domain-errors"
)

// Fingerprint computes the 0x-prefixed hex Keccak-256 digest of the canonical
// bytes. Digest length is fixed at 32 bytes regardless of input length.
func Fingerprint(canonicalBytes []byte) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(canonicalBytes)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// messagePrefix is the EIP-191 personal-message envelope. Signing the
// fingerprint under this envelope prevents the signature from doubling as a
// transaction signature.
const messagePrefix = "\x19Ethereum Signed Message:\n"

// TextDigest returns the 32-byte digest actually signed: Keccak-256 of the
// enveloped fingerprint string. Wallet signers treat the fingerprint as an
// opaque text message, so the envelope covers its UTF-8 bytes.
func TextDigest(message string) []byte {
	h := sha3.NewLegacyKeccak256()
	fmt.Fprintf(h, "%s%d%s", messagePrefix, len(message), message)
	return h.Sum(nil)
}

// RecoverAddress derives the signing address from a fingerprint and its
// signature. A malformed signature yields a signing_failed domain error; the
// caller decides whether that is a verification result or a true failure.
func RecoverAddress(fingerprint, signature string) (id.Address, error) {
	raw, err := decodeSignature(signature)
	if err != nil {
		return "", err
	}
	pub, err := crypto.SigToPub(TextDigest(fingerprint), raw)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeSigningFailed, "signature recovery failed")
	}
	addr := crypto.PubkeyToAddress(*pub)
	return id.Address(strings.ToLower(addr.Hex())), nil
}

// decodeSignature parses a 0x-prefixed 65-byte signature and normalizes the
// recovery id from the wallet convention (27/28) to 0/1.
func decodeSignature(signature string) ([]byte, error) {
	s := strings.TrimPrefix(signature, "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeSigningFailed, "signature is not valid hex")
	}
	if len(raw) != crypto.SignatureLength {
		return nil, dErrors.New(dErrors.CodeSigningFailed, "signature must be 65 bytes")
	}
	v := raw[crypto.SignatureLength-1]
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return nil, dErrors.New(dErrors.CodeSigningFailed, "invalid recovery id")
	}
	out := make([]byte, crypto.SignatureLength)
	copy(out, raw)
	out[crypto.SignatureLength-1] = v
	return out, nil
}
