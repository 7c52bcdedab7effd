// Command audit-test is a manual harness for the audit publisher: it emits
// events through a small async buffer to observe drain and drop behavior,
// and exposes the process metrics endpoint while doing so.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"attest/internal/audit"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store := audit.NewInMemoryStore()
	publisher := audit.NewPublisher(store,
		audit.WithAsyncBuffer(10), // small buffer to observe backpressure
		audit.WithPublisherLogger(logger),
	)

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		fmt.Println("Metrics available at http://localhost:9090/metrics")
		if err := http.ListenAndServe(":9090", nil); err != nil {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	ctx := context.Background()
	certID := uuid.NewString()

	fmt.Println("\n=== Audit Publisher Test ===")

	fmt.Println("1. Emitting 5 events (should all succeed)...")
	for i := 0; i < 5; i++ {
		event := audit.Event{
			CertificateID: certID,
			Actor:         "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266",
			Action:        audit.ActionVerified,
			Outcome:       audit.OutcomeSuccess,
			Reason:        fmt.Sprintf("test event %d", i+1),
		}
		if err := publisher.Emit(ctx, event); err != nil {
			fmt.Printf("   Event %d failed: %v\n", i+1, err)
		} else {
			fmt.Printf("   Event %d emitted\n", i+1)
		}
	}

	fmt.Println("2. Flooding 100 events (buffer overflow drops expected)...")
	for i := 0; i < 100; i++ {
		_ = publisher.Emit(ctx, audit.Event{
			CertificateID: certID,
			Action:        audit.ActionVerified,
			Outcome:       audit.OutcomeSuccess,
		})
	}

	fmt.Println("3. Closing publisher (drains pending events)...")
	publisher.Close()

	events, err := store.ListByCertificate(ctx, certID)
	if err != nil {
		logger.Error("list failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("4. Store holds %d events (flooded events may be dropped)\n", len(events))

	// Leave the metrics endpoint up briefly for manual inspection.
	fmt.Println("Sleeping 30s; scrape /metrics now if needed.")
	time.Sleep(30 * time.Second)
}
