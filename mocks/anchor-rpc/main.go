package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultPort      = "8545"
	defaultChainID   = "31337"
	defaultLatencyMs = "50"
)

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	chainID   = getEnvInt("CHAIN_ID", defaultChainID)
	latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)

	mu       sync.Mutex
	nonce    uint64
	receipts = map[string]bool{}
)

func main() {
	port := getEnv("PORT", defaultPort)

	http.HandleFunc("/health", handleHealth)
	http.HandleFunc("/", handleRPC)

	log.Printf("⛓️  Mock Anchor RPC node starting on port %s", port)
	log.Printf("🆔 Chain ID: %d", chainID)
	log.Printf("⏱️  Simulated latency: %dms", latencyMs)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "anchor-rpc",
		"version": "1.0.0",
	})
}

func handleRPC(w http.ResponseWriter, r *http.Request) {
	// Simulate latency
	time.Sleep(time.Duration(latencyMs) * time.Millisecond)

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, json.RawMessage("null"), -32700, "parse error: "+err.Error())
		return
	}

	log.Printf("📥 %s from %s", req.Method, r.RemoteAddr)

	switch req.Method {
	case "eth_chainId":
		sendResult(w, req.ID, hexUint(uint64(chainID)))

	case "eth_getTransactionCount":
		// One shared counter; the mock does not recover the sender.
		mu.Lock()
		n := nonce
		mu.Unlock()
		sendResult(w, req.ID, hexUint(n))

	case "eth_gasPrice":
		sendResult(w, req.ID, hexUint(1_000_000_000)) // 1 gwei

	case "eth_sendRawTransaction":
		raw := paramString(req.Params, 0)
		if !strings.HasPrefix(raw, "0x") || len(raw) < 4 {
			sendError(w, req.ID, -32602, "invalid raw transaction")
			return
		}
		hash := txHash(raw)
		mu.Lock()
		receipts[hash] = true
		nonce++
		mu.Unlock()
		log.Printf("✅ Accepted transaction %s (%d bytes)", hash, (len(raw)-2)/2)
		sendResult(w, req.ID, hash)

	case "eth_getTransactionReceipt":
		hash := paramString(req.Params, 0)
		mu.Lock()
		known := receipts[hash]
		mu.Unlock()
		if !known {
			sendResult(w, req.ID, nil)
			return
		}
		sendResult(w, req.ID, map[string]any{
			"transactionHash": hash,
			"status":          "0x1",
			"blockNumber":     "0x1",
			"gasUsed":         "0x5208",
		})

	case "eth_estimateGas":
		sendResult(w, req.ID, hexUint(200_000))

	case "net_version":
		sendResult(w, req.ID, strconv.Itoa(chainID))

	default:
		sendError(w, req.ID, -32601, "method not found: "+req.Method)
	}
}

// txHash derives a deterministic pseudo transaction hash from the raw payload.
func txHash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return "0x" + hex.EncodeToString(sum[:])
}

func hexUint(v uint64) string {
	return fmt.Sprintf("0x%x", v)
}

func paramString(params []json.RawMessage, i int) string {
	if i >= len(params) {
		return ""
	}
	var s string
	if err := json.Unmarshal(params[i], &s); err != nil {
		return ""
	}
	return s
}

func sendResult(w http.ResponseWriter, id json.RawMessage, result any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RPCResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func sendError(w http.ResponseWriter, id json.RawMessage, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RPCResponse{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}})
	log.Printf("❌ RPC error: %d - %s", code, message)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key, defaultValue string) int {
	value := getEnv(key, defaultValue)
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️  Invalid integer value for %s, using default: %s", key, defaultValue)
		intValue, _ = strconv.Atoi(defaultValue)
	}
	return intValue
}
