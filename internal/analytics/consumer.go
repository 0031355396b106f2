package analytics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Consumer polls the patient topic as part of a consumer group and feeds each
// record to the handler. Offsets auto-commit; a handled record is a done
// record whether it decoded or not.
type Consumer struct {
	client  *kgo.Client
	handler *Handler
	logger  *slog.Logger
}

func NewConsumer(brokers []string, topic, group string, handler *Handler, logger *slog.Logger) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Consumer{client: client, handler: handler, logger: logger}, nil
}

// Run polls until the context is cancelled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.Error("fetch error", "topic", topic, "partition", partition, "error", err)
		})
		fetches.EachRecord(func(rec *kgo.Record) {
			c.handler.Handle(rec.Value)
		})
	}
}

func (c *Consumer) Close() {
	c.client.Close()
}
