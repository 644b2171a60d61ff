// Package kafka mirrors audit entries onto a Kafka topic so downstream
// compliance consumers get the trail without querying the service database.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "sentinela/pkg/platform/audit"
)

const defaultTopic = "sentinela.audit"

// Sink produces audit entries to Kafka. Append is fire-and-forget: produce
// errors are logged through the delivery callback, never returned, matching
// the audit best-effort contract.
type Sink struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

type record struct {
	Action      string            `json:"action"`
	Resource    string            `json:"resource"`
	ResourceID  string            `json:"resource_id"`
	ActorUserID string            `json:"actor_user_id,omitempty"`
	TenantID    string            `json:"tenant_id"`
	IPAddress   string            `json:"ip_address,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
	Timestamp   string            `json:"timestamp"`
}

// NewSink connects to the given brokers and ensures the topic exists.
func NewSink(ctx context.Context, brokers []string, topic string, logger *slog.Logger) (*Sink, error) {
	if topic == "" {
		topic = defaultTopic
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	if _, err := admin.CreateTopics(ctx, 1, 1, nil, topic); err != nil &&
		!strings.Contains(err.Error(), "TOPIC_ALREADY_EXISTS") {
		// Topic may be managed externally; an ensure failure is not fatal.
		logger.Warn("audit topic ensure failed", "topic", topic, "error", err)
	}

	return &Sink{client: client, topic: topic, logger: logger}, nil
}

// Append produces one entry keyed by tenant so per-tenant ordering holds.
func (s *Sink) Append(ctx context.Context, entry audit.Entry) error {
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	payload := record{
		Action:     string(entry.Action),
		Resource:   entry.Resource,
		ResourceID: entry.ResourceID,
		TenantID:   entry.TenantID.String(),
		IPAddress:  entry.IPAddress,
		Details:    entry.Details,
		Timestamp:  ts.Format(time.RFC3339Nano),
	}
	if !entry.ActorUserID.IsNil() {
		payload.ActorUserID = entry.ActorUserID.String()
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	s.client.Produce(ctx, &kgo.Record{
		Topic: s.topic,
		Key:   []byte(payload.TenantID),
		Value: value,
	}, func(_ *kgo.Record, err error) {
		if err != nil {
			s.logger.Warn("audit produce failed",
				"topic", s.topic,
				"action", payload.Action,
				"tenant_id", payload.TenantID,
				"error", err)
		}
	})
	return nil
}

// Close flushes buffered records and releases the client.
func (s *Sink) Close(ctx context.Context) error {
	defer s.client.Close()
	return s.client.Flush(ctx)
}
