package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr string

	// DatabaseURL selects the Postgres record store. When empty the server
	// falls back to the in-memory store (development mode).
	DatabaseURL string

	// IssuerKeyHex is the secp256k1 private key of the local issuing signer.
	// When empty the server starts without a signing capability and issuance
	// endpoints are disabled.
	IssuerKeyHex string

	// ShareSigningKey signs share-link tokens.
	ShareSigningKey string
	ShareTokenTTL   time.Duration

	// SigningTimeout bounds how long issuance waits on the signer.
	SigningTimeout time.Duration

	// KafkaBrokers enables the Kafka audit sink when non-empty.
	KafkaBrokers string
	AuditTopic   string

	// AnchorRPCURL enables best-effort on-chain anchoring when non-empty.
	AnchorRPCURL      string
	AnchorContract    string
	AnchorChainID     int64
	AnchorQueueSize   int
	TracingEnabled    bool
	BulkIssueParallel int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:              getEnv("ATTEST_ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		IssuerKeyHex:      os.Getenv("ISSUER_PRIVATE_KEY"),
		ShareSigningKey:   getEnv("SHARE_SIGNING_KEY", "dev-secret-key-change-in-production"),
		ShareTokenTTL:     getDuration("SHARE_TOKEN_TTL", 7*24*time.Hour),
		SigningTimeout:    getDuration("SIGNING_TIMEOUT", 30*time.Second),
		KafkaBrokers:      os.Getenv("KAFKA_BROKERS"),
		AuditTopic:        getEnv("AUDIT_TOPIC", "attest.audit"),
		AnchorRPCURL:      os.Getenv("ANCHOR_RPC_URL"),
		AnchorContract:    os.Getenv("ANCHOR_CONTRACT_ADDRESS"),
		AnchorChainID:     getInt64("ANCHOR_CHAIN_ID", 1),
		AnchorQueueSize:   int(getInt64("ANCHOR_QUEUE_SIZE", 128)),
		TracingEnabled:    os.Getenv("TRACING_ENABLED") == "true",
		BulkIssueParallel: int(getInt64("BULK_ISSUE_PARALLEL", 5)),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
