// Package e2e runs black-box scenarios against the assembled HTTP API:
// real router, real service, real signer, in-memory stores.
package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	certhandler "attest/internal/certificate/handler"
	"attest/internal/certificate/service"
	"attest/internal/certificate/signing"
	"attest/internal/certificate/store"
	"attest/internal/offchain"
	httptransport "attest/internal/transport/http"
	id "attest/pkg/domain"
)

// TestContext holds the running server and the state threaded between steps.
type TestContext struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client

	issuer id.Address

	lastStatus int
	lastBody   map[string]any
}

// NewTestContext assembles the full stack with a fresh signing key and
// starts an HTTP test server. Close the returned context when done.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate signer key: %v", err)
	}
	signer := signing.NewLocalSignerFromKey(key)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewService(store.NewMemoryStore(), signer, offchain.NewMemoryStore(),
		service.WithLogger(logger),
		service.WithShareTokens([]byte("e2e-share-signing-key"), 0),
	)

	router := httptransport.NewRouter(certhandler.New(svc, logger), logger)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestContext{
		t:      t,
		server: server,
		client: server.Client(),
		issuer: signer.Address(),
	}
}

// do sends a JSON request and captures status and decoded body.
func (tc *TestContext) do(method, path string, body any) {
	tc.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			tc.t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, tc.server.URL+path, reader)
	if err != nil {
		tc.t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		tc.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody = nil
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		tc.t.Fatalf("read response: %v", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &tc.lastBody); err != nil {
			tc.t.Fatalf("decode response %q: %v", raw, err)
		}
	}
}

// requireStatus fails the test when the last response status differs.
func (tc *TestContext) requireStatus(want int) {
	tc.t.Helper()
	if tc.lastStatus != want {
		tc.t.Fatalf("expected status %d, got %d (body: %v)", want, tc.lastStatus, tc.lastBody)
	}
}

// certificateField returns a field of the certificate object in the last body.
func (tc *TestContext) certificateField(name string) any {
	tc.t.Helper()
	cert, ok := tc.lastBody["certificate"].(map[string]any)
	if !ok {
		tc.t.Fatalf("last response has no certificate object: %v", tc.lastBody)
	}
	return cert[name]
}
