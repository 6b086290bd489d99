package repository

import (
	"context"

	"PatternPulse/internal/domain/models"
	drepo "PatternPulse/internal/domain/repository"
	pkgkafka "PatternPulse/pkg/kafka"
)

// KafkaAlertPublisher queues alerts on the broadcast topic, keyed by symbol
// so alerts for one instrument stay ordered.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic string) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

func (p *KafkaAlertPublisher) Publish(ctx context.Context, alerts []models.Alert) error {
	msgs := make([]pkgkafka.Message, 0, len(alerts))
	for _, a := range alerts {
		msgs = append(msgs, pkgkafka.Message{Key: []byte(a.Symbol), Value: a})
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaAlertPublisher) Close() error {
	return p.producer.Close()
}

var _ drepo.AlertPublisher = (*KafkaAlertPublisher)(nil)
