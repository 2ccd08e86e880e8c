package repository

import (
	"context"

	"Natalis/internal/domain/models"
	"Natalis/internal/domain/repository"
	pkgkafka "Natalis/pkg/kafka"
)

// EventProducer is the part of the Kafka producer the publisher needs.
type EventProducer interface {
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// KafkaChartPublisher writes chart events to the reports topic, keyed by
// job id so a job's events stay on one partition.
type KafkaChartPublisher struct {
	producer EventProducer
	topic    string
}

// NewKafkaChartPublisher creates a Kafka publisher.
func NewKafkaChartPublisher(producer EventProducer, topic string) repository.ChartPublisher {
	return &KafkaChartPublisher{producer: producer, topic: topic}
}

func (p *KafkaChartPublisher) Publish(ctx context.Context, e *models.ChartEvent) error {
	key := e.JobID
	if key == "" {
		key = e.ID
	}
	return p.producer.PublishBatch(ctx, p.topic, []pkgkafka.Message{{
		Key:     []byte(key),
		Value:   e,
		Headers: map[string]string{pkgkafka.TraceHeader: key, "source": e.Source, "status": e.Status},
	}})
}

func (p *KafkaChartPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopChartPublisher drops events. Used when Kafka is disabled.
type NoopChartPublisher struct{}

func (NoopChartPublisher) Publish(context.Context, *models.ChartEvent) error { return nil }

func (NoopChartPublisher) Close() error { return nil }
