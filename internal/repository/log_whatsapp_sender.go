package repository

import (
	"context"
	"fmt"

	"PatternPulse/internal/domain/models"
	drepo "PatternPulse/internal/domain/repository"
	xlogger "PatternPulse/pkg/logger"
)

// LogWhatsAppSender is the mock delivery channel: messages are written to
// the structured log instead of a real WhatsApp Business API.
type LogWhatsAppSender struct {
	logger *xlogger.Logger
}

func NewLogWhatsAppSender(logger *xlogger.Logger) *LogWhatsAppSender {
	return &LogWhatsAppSender{logger: logger}
}

func (s *LogWhatsAppSender) SendAlert(_ context.Context, a models.Alert) error {
	s.logger.Info("whatsapp alert sent",
		xlogger.String("symbol", a.Symbol),
		xlogger.String("pattern", string(a.Pattern)),
		xlogger.String("trend", string(a.Trend)),
		xlogger.Int("confidence", a.Confidence),
		xlogger.String("phone", maskPhone(a.Phone)))
	return nil
}

func (s *LogWhatsAppSender) SendOTP(_ context.Context, phone, code string) error {
	s.logger.Info("whatsapp otp sent",
		xlogger.String("phone", maskPhone(phone)),
		xlogger.String("code", code))
	return nil
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return fmt.Sprintf("***%s", phone[len(phone)-4:])
}

var _ drepo.WhatsAppSender = (*LogWhatsAppSender)(nil)
