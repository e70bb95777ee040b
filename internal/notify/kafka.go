package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaPublisher enqueues notification messages onto a Kafka topic keyed by
// candidate so per-candidate ordering is preserved for downstream consumers.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher connects to the given seed brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, err
	}
	return &KafkaPublisher{client: client, topic: topic, logger: logger}, nil
}

// Publish produces asynchronously. Errors are logged, never surfaced: the
// domain write that triggered the notification has already committed.
func (p *KafkaPublisher) Publish(ctx context.Context, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		p.logger.ErrorContext(ctx, "notification marshal failed", "kind", msg.Kind, "error", err)
		return
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(msg.CandidateID.String()),
		Value: payload,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("notification enqueue failed",
				"kind", msg.Kind,
				"interview_id", msg.InterviewID,
				"error", err,
			)
		}
	})
}

// Close flushes pending produces and releases the client.
func (p *KafkaPublisher) Close(ctx context.Context) error {
	if err := p.client.Flush(ctx); err != nil {
		return err
	}
	p.client.Close()
	return nil
}
