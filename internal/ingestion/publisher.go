package ingestion

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"homeradar-properties/internal/models"
	"homeradar-properties/pkg/logger"
)

// Publisher writes fetched listings to kafka instead of ingesting them
// in-process. Messages are keyed by external id so all updates for a
// listing land on the same partition.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: kafka.NewWriter(kafka.WriterConfig{
			Brokers:     brokers,
			Topic:       topic,
			Balancer:    &kafka.Hash{},
			MaxAttempts: 3,
		}),
	}
}

// Deliver publishes each listing as its own message. Delivery is
// at-least-once; the worker side deduplicates. Counters: a published record
// is reported as Accepted, a marshal or write failure as SkippedError.
func (p *Publisher) Deliver(ctx context.Context, listings []models.ExternalListing) (models.IngestionSummary, error) {
	var summary models.IngestionSummary

	msgs := make([]kafka.Message, 0, len(listings))
	for i := range listings {
		value, err := json.Marshal(&listings[i])
		if err != nil {
			logger.GlobalLogger.Errorf("marshal listing %s: %v", listings[i].ExternalID, err)
			summary.SkippedError++
			continue
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(listings[i].ExternalID),
			Value: value,
		})
	}
	if len(msgs) == 0 {
		return summary, nil
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		summary.SkippedError += len(msgs)
		return summary, err
	}
	summary.Accepted = len(msgs)
	return summary, nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
