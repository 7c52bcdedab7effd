package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	pkgerrors "attest/pkg/domain-errors"
)

// KafkaSink publishes audit events to a Kafka topic. It satisfies Store so
// the Publisher can fan out to Kafka in production; reads are served
// elsewhere (the topic is consumed by downstream systems, not queried here).
type KafkaSink struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
	mu     sync.RWMutex
	closed bool
}

// KafkaConfig holds Kafka sink configuration.
type KafkaConfig struct {
	Brokers         string
	Topic           string
	Retries         int
	DeliveryTimeout time.Duration
}

// NewKafkaSink creates a Kafka-backed audit sink.
func NewKafkaSink(cfg KafkaConfig, logger *slog.Logger) (*KafkaSink, error) {
	if cfg.Brokers == "" {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka audit topic not configured")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(strings.Split(cfg.Brokers, ",")...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RecordRetries(cfg.Retries),
		kgo.ProducerLinger(5 * time.Millisecond),
		kgo.AllowAutoTopicCreation(),
	}
	if cfg.DeliveryTimeout > 0 {
		opts = append(opts, kgo.RecordDeliveryTimeout(cfg.DeliveryTimeout))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka audit sink: %w", err)
	}

	return &KafkaSink{
		client: client,
		topic:  cfg.Topic,
		logger: logger,
	}, nil
}

// Append serializes the event as JSON and produces it keyed by certificate ID,
// so all events for one certificate land on the same partition in order.
func (s *KafkaSink) Append(ctx context.Context, event Event) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return fmt.Errorf("kafka audit sink is closed")
	}
	s.mu.RUnlock()

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.CertificateID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(event.Action)},
		},
	}

	results := s.client.ProduceSync(ctx, record)
	if err := results.FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// ListByCertificate is not supported on the Kafka sink; the topic is consumed
// by downstream systems rather than queried in-process.
func (s *KafkaSink) ListByCertificate(_ context.Context, _ string) ([]Event, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "audit queries are not supported on the kafka sink")
}

// Healthy checks if the sink can communicate with brokers.
func (s *KafkaSink) Healthy(ctx context.Context) bool {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return false
	}
	s.mu.RUnlock()
	return s.client.Ping(ctx) == nil
}

// Close flushes buffered records and shuts down the client.
func (s *KafkaSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.client.Flush(ctx); err != nil && s.logger != nil {
		s.logger.Warn("kafka audit sink closed with unflushed events", "error", err)
	}
	s.client.Close()
	return nil
}

var _ Store = (*KafkaSink)(nil)
