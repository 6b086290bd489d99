package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"PatternPulse/internal/domain/models"
	drepo "PatternPulse/internal/domain/repository"
	xlogger "PatternPulse/pkg/logger"
)

// AlertService queues WhatsApp signal broadcasts for symbols present in the
// current snapshot. Delivery happens asynchronously through the publisher;
// the caller only learns what was queued and what was skipped.
type AlertService struct {
	market  *MarketService
	pub     drepo.AlertPublisher
	metrics drepo.Metrics
	logger  *xlogger.Logger
}

func NewAlertService(market *MarketService, pub drepo.AlertPublisher, metrics drepo.Metrics, logger *xlogger.Logger) *AlertService {
	return &AlertService{market: market, pub: pub, metrics: metrics, logger: logger}
}

// Broadcast queues one alert per known symbol for the session's phone.
// The session must be WhatsApp-verified.
func (s *AlertService) Broadcast(ctx context.Context, sess models.Session, symbols []string) (models.BroadcastResult, error) {
	if !sess.IsVerified() {
		return models.BroadcastResult{}, ErrNotVerified
	}

	res := models.BroadcastResult{Queued: []string{}}
	alerts := make([]models.Alert, 0, len(symbols))
	now := time.Now()
	for _, sym := range symbols {
		entry, ok := s.market.Entry(sym)
		if !ok {
			res.Skipped = append(res.Skipped, sym)
			continue
		}
		alerts = append(alerts, models.Alert{
			ID:         uuid.NewString(),
			Symbol:     entry.Symbol,
			Name:       entry.Name,
			Pattern:    entry.Pattern,
			Trend:      entry.Trend,
			Confidence: entry.ConfidenceScore,
			Price:      entry.Price,
			Phone:      sess.Phone,
			QueuedAt:   now,
		})
		res.Queued = append(res.Queued, entry.Symbol)
	}

	if len(alerts) > 0 {
		if err := s.pub.Publish(ctx, alerts); err != nil {
			s.metrics.RecordError("alert_publish")
			return models.BroadcastResult{}, err
		}
		for _, a := range alerts {
			s.metrics.RecordAlertQueued(a.Symbol)
		}
	}

	s.logger.Info("alert broadcast queued",
		xlogger.Int("queued", len(res.Queued)),
		xlogger.Int("skipped", len(res.Skipped)))
	return res, nil
}
