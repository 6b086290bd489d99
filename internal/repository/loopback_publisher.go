package repository

import (
	"context"

	"PatternPulse/internal/domain/models"
	drepo "PatternPulse/internal/domain/repository"
)

// LoopbackPublisher hands alerts straight to the sender, bypassing the
// broker. Used when Kafka is disabled in config.
type LoopbackPublisher struct {
	sender  drepo.WhatsAppSender
	metrics drepo.Metrics
}

func NewLoopbackPublisher(sender drepo.WhatsAppSender, metrics drepo.Metrics) *LoopbackPublisher {
	return &LoopbackPublisher{sender: sender, metrics: metrics}
}

func (p *LoopbackPublisher) Publish(ctx context.Context, alerts []models.Alert) error {
	for _, a := range alerts {
		if err := p.sender.SendAlert(ctx, a); err != nil {
			p.metrics.RecordError("alert_send")
			return err
		}
		p.metrics.RecordAlertDelivered(a.Symbol)
	}
	return nil
}

func (p *LoopbackPublisher) Close() error { return nil }

var _ drepo.AlertPublisher = (*LoopbackPublisher)(nil)
