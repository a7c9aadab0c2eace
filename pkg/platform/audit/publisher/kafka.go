package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"veridoc/pkg/platform/audit"
)

// KafkaPublisher produces audit events to a Kafka topic. Events for one
// fingerprint share a partition key so consumers see a document's history in
// order.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

// NewKafka builds a Kafka-backed audit publisher.
func NewKafka(seeds []string, topic string) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(seeds...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic}, nil
}

// kafkaPayload is the JSON wire shape for audit events.
type kafkaPayload struct {
	Action         string `json:"action"`
	Timestamp      string `json:"timestamp"`
	Fingerprint    string `json:"fingerprint,omitempty"`
	OrganizationID string `json:"organizationId,omitempty"`
	SubjectID      string `json:"subjectId,omitempty"`
	Category       string `json:"category,omitempty"`
	Outcome        string `json:"outcome,omitempty"`
	Reason         string `json:"reason,omitempty"`
	RequestID      string `json:"requestId,omitempty"`
}

// Emit produces the event and waits for the broker acknowledgement.
func (p *KafkaPublisher) Emit(ctx context.Context, event audit.Event) error {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	payload, err := json.Marshal(kafkaPayload{
		Action:         string(event.Action),
		Timestamp:      ts.UTC().Format(time.RFC3339Nano),
		Fingerprint:    event.Fingerprint,
		OrganizationID: event.OrganizationID,
		SubjectID:      event.SubjectID,
		Category:       event.Category,
		Outcome:        event.Outcome,
		Reason:         event.Reason,
		RequestID:      event.RequestID,
	})
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.Fingerprint),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes pending produces and releases the client.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}
