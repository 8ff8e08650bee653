package ingestion

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"

	"homeradar-properties/internal/models"
	"homeradar-properties/pkg/logger"
)

// Consumer reads raw listings from kafka and feeds them through the
// pipeline one message at a time. Offsets are committed manually after a
// message is handled, so a crash mid-batch replays unprocessed messages;
// the pipeline's duplicate check makes the replay harmless.
type Consumer struct {
	reader   *kafka.Reader
	pipeline *Pipeline
}

func NewConsumer(brokers []string, topic, groupID string, pipeline *Pipeline) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        brokers,
			Topic:          topic,
			GroupID:        groupID,
			MinBytes:       1e3,
			MaxBytes:       10e6,
			CommitInterval: 0, // manual commit only
		}),
		pipeline: pipeline,
	}
}

// Run blocks until ctx is canceled. Malformed messages are logged and
// committed so a poison message cannot wedge the partition. Store failures
// leave the offset uncommitted; the message comes back only once the worker
// restarts or the group rebalances, and the duplicate check absorbs the
// replay of everything committed before it.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			logger.GlobalLogger.Errorf("fetch message: %v", err)
			continue
		}

		commit, err := c.handleMessage(ctx, msg)
		if err != nil {
			return nil
		}
		if commit {
			c.commit(ctx, msg)
		}
	}
}

// handleMessage decodes and ingests a single message, reporting whether its
// offset should be committed. A non-nil error means ctx expired.
func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) (bool, error) {
	var listing models.ExternalListing
	if err := json.Unmarshal(msg.Value, &listing); err != nil {
		logger.GlobalLogger.Errorf("malformed listing at offset %d: %v", msg.Offset, err)
		return true, nil
	}

	summary, err := c.pipeline.Ingest(ctx, []models.ExternalListing{listing})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false, err
		}
		logger.GlobalLogger.Errorf("ingest failed at offset %d: %v", msg.Offset, err)
		return false, nil
	}
	if summary.SkippedError > 0 {
		logger.GlobalLogger.Errorf("listing %s not stored, offset held for redelivery after restart or rebalance", listing.ExternalID)
		return false, nil
	}
	return true, nil
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		logger.GlobalLogger.Errorf("commit offset %d: %v", msg.Offset, err)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
