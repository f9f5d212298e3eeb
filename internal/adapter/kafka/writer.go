// Package kafka publishes risk summaries to a Kafka sink topic so
// downstream dashboards and alerting consume headline risk without calling
// the engine.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// Publisher produces risk summary messages to a Kafka topic. It implements
// engine.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the summary sink topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishSummary serializes and publishes one risk summary.
func (p *Publisher) PublishSummary(ctx context.Context, summary domain.RiskSummary) error {
	msg, err := serializeSummary(summary)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeSummary marshals a RiskSummary into a Kafka message keyed by
// sector and hazard, so compaction keeps the latest summary per pair.
func serializeSummary(summary domain.RiskSummary) (kafkago.Message, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize risk summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(summary.Sector + "|" + summary.Hazard),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "hazard", Value: []byte(summary.Hazard)},
			{Key: "computed_at", Value: []byte(summary.ComputedAt.Format(time.RFC3339))},
		},
	}, nil
}
