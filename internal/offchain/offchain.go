// Package offchain stores certificate metadata documents outside the record
// store, addressed by content. The returned reference is a CIDv1 over the
// document bytes, so the reference itself is tamper-evident and participates
// in the hashed payload as the record's externalRef.
package offchain

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	dErrors "attest/pkg/domain-errors"
)

// Store is the off-chain document store contract.
type Store interface {
	// Put serializes the payload, stores it, and returns its content address.
	Put(ctx context.Context, payload any) (string, error)

	// Get returns the stored document bytes for a content address.
	Get(ctx context.Context, ref string) ([]byte, error)
}

// ErrNotFound keeps storage-specific 404s consistent across implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "off-chain document not found")

// ContentAddress computes the CIDv1 (raw codec, SHA2-256) for document bytes.
func ContentAddress(data []byte) (string, error) {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "hash document")
	}
	return cid.NewCidV1(cid.Raw, mh).String(), nil
}

// MemoryStore keeps documents in process memory. Suitable for development
// and tests; production deployments point Store at a pinning service.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeValidation, "document contains unserializable value")
	}
	ref, err := ContentAddress(data)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[ref] = data
	return ref, nil
}

func (s *MemoryStore) Get(_ context.Context, ref string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[ref]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}
