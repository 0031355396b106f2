package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Publisher produces patient events to a single logical topic. Delivery is
// fire-and-forget: Publish hands the record to the client and returns; the
// delivery outcome is observed in the produce callback and only logged.
// Correctness of the write path that triggers publication must never depend
// on the messaging layer being up.
type Publisher struct {
	client  *kgo.Client
	topic   string
	logger  *slog.Logger
	metrics *Metrics
}

func NewPublisher(brokers []string, topic string, logger *slog.Logger, metrics *Metrics) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchMaxBytes(1<<20),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Publisher{client: client, topic: topic, logger: logger, metrics: metrics}, nil
}

// EnsureTopic creates the topic if it does not exist yet. Safe to call on
// every startup.
func (p *Publisher) EnsureTopic(ctx context.Context, partitions int32, replicas int16) error {
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopics(ctx, partitions, replicas, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %q: %w", p.topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %q: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Publish encodes the event and produces it keyed by patient ID. The returned
// error only covers handing the record to the client; broker-side failures
// land in the callback.
func (p *Publisher) Publish(ctx context.Context, ev PatientEvent) error {
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(ev.PatientID),
		Value: Encode(ev),
	}

	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			if p.metrics != nil {
				p.metrics.PublishFailures.Inc()
			}
			p.logger.Error("patient event delivery failed",
				"patient_id", ev.PatientID, "topic", p.topic, "error", err)
			return
		}
		if p.metrics != nil {
			p.metrics.Published.Inc()
		}
	})
	return nil
}

// Close flushes buffered records and releases the client.
func (p *Publisher) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = p.client.Flush(ctx)
	p.client.Close()
}
