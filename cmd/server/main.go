package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attest/internal/anchor"
	"attest/internal/audit"
	certhandler "attest/internal/certificate/handler"
	certmetrics "attest/internal/certificate/metrics"
	"attest/internal/certificate/service"
	"attest/internal/certificate/signing"
	"attest/internal/certificate/store"
	"attest/internal/certificate/tracer"
	"attest/internal/offchain"
	"attest/internal/platform/config"
	"attest/internal/platform/database"
	"attest/internal/platform/httpserver"
	"attest/internal/platform/logger"
	httptransport "attest/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing attest",
		"addr", cfg.Addr,
		"postgres", cfg.DatabaseURL != "",
		"kafka_audit", cfg.KafkaBrokers != "",
		"anchoring", cfg.AnchorRPCURL != "",
	)

	// Record store: Postgres when configured, in-memory otherwise.
	var records store.Store = store.NewMemoryStore()
	db, err := database.Open(database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
		if err := database.Migrate(context.Background(), db); err != nil {
			log.Error("database migration failed", "error", err)
			os.Exit(1)
		}
		records = store.NewPostgresStore(db)
	}

	// Signer: without a key the server runs read-only.
	var signer signing.Signer
	if cfg.IssuerKeyHex != "" {
		local, err := signing.NewLocalSigner(cfg.IssuerKeyHex)
		if err != nil {
			log.Error("invalid issuer key", "error", err)
			os.Exit(1)
		}
		signer = local
		log.Info("issuing signer ready", "issuer", local.Address().String())
	} else {
		log.Warn("no issuer key configured, issuance endpoints disabled")
	}

	// Audit: Kafka sink in production, in-memory otherwise.
	var auditSink audit.Store = audit.NewInMemoryStore()
	if cfg.KafkaBrokers != "" {
		kafkaSink, err := audit.NewKafkaSink(audit.KafkaConfig{
			Brokers:         cfg.KafkaBrokers,
			Topic:           cfg.AuditTopic,
			Retries:         3,
			DeliveryTimeout: 10 * time.Second,
		}, log)
		if err != nil {
			log.Error("kafka audit sink failed", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		auditSink = kafkaSink
	}
	auditor := audit.NewPublisher(auditSink,
		audit.WithAsyncBuffer(256),
		audit.WithPublisherLogger(log),
	)
	defer auditor.Close()

	// Anchoring is best-effort; without an RPC endpoint it is a no-op.
	var anchorer anchor.Anchorer = anchor.NewNoop()
	if cfg.AnchorRPCURL != "" {
		eth, err := anchor.NewEthereum(context.Background(),
			cfg.AnchorRPCURL, cfg.IssuerKeyHex, cfg.AnchorContract, cfg.AnchorChainID)
		if err != nil {
			log.Error("anchor setup failed", "error", err)
			os.Exit(1)
		}
		defer eth.Close()
		anchorer = eth
	}
	dispatcher := anchor.NewDispatcher(anchorer, cfg.AnchorQueueSize,
		anchor.WithDispatcherLogger(log),
		anchor.WithDispatcherMetrics(anchor.NewMetrics()),
	)
	defer dispatcher.Close()

	var tr tracer.Tracer = tracer.NewNoop()
	if cfg.TracingEnabled {
		tr = tracer.NewOTel()
	}

	svc := service.NewService(records, signer, offchain.NewMemoryStore(),
		service.WithLogger(log),
		service.WithMetrics(certmetrics.New()),
		service.WithTracer(tr),
		service.WithAuditor(auditor),
		service.WithAnchorQueue(dispatcher),
		service.WithSigningTimeout(cfg.SigningTimeout),
		service.WithBulkParallelism(cfg.BulkIssueParallel),
		service.WithShareTokens([]byte(cfg.ShareSigningKey), cfg.ShareTokenTTL),
	)

	router := httptransport.NewRouter(certhandler.New(svc, log), log)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
