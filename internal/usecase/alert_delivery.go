package usecase

import (
	"context"
	"encoding/json"

	"PatternPulse/internal/domain/models"
	drepo "PatternPulse/internal/domain/repository"
)

// AlertDeliveryHandler consumes queued alerts from the broadcast topic and
// hands each one to the WhatsApp sender.
type AlertDeliveryHandler struct {
	topic   string
	sender  drepo.WhatsAppSender
	metrics drepo.Metrics
}

func NewAlertDeliveryHandler(topic string, sender drepo.WhatsAppSender, metrics drepo.Metrics) *AlertDeliveryHandler {
	return &AlertDeliveryHandler{topic: topic, sender: sender, metrics: metrics}
}

func (h *AlertDeliveryHandler) Topic() string { return h.topic }

func (h *AlertDeliveryHandler) Handle(ctx context.Context, b []byte) error {
	var a models.Alert
	if err := json.Unmarshal(b, &a); err != nil {
		h.metrics.RecordError("alert_unmarshal")
		return err
	}
	if err := h.sender.SendAlert(ctx, a); err != nil {
		h.metrics.RecordError("alert_send")
		return err
	}
	h.metrics.RecordAlertDelivered(a.Symbol)
	return nil
}
