package repository

import (
	"context"
	"errors"
	"time"

	"PatternPulse/internal/domain/models"
)

// ErrNotFound is returned by stores when no record matches.
var ErrNotFound = errors.New("record not found")

type UserStore interface {
	// FindByIdentifier looks a user up by email or phone.
	FindByIdentifier(ctx context.Context, identifier string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Add(ctx context.Context, u models.User) error
	Update(ctx context.Context, u models.User) error
	List(ctx context.Context) ([]models.User, error)
}

type SessionStore interface {
	Get(ctx context.Context, token string) (models.Session, error)
	Put(ctx context.Context, s models.Session, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// OTPStore holds one-time codes keyed by session token, expiring with ttl.
type OTPStore interface {
	Put(ctx context.Context, token, code string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// AlertPublisher queues alerts for asynchronous delivery.
type AlertPublisher interface {
	Publish(ctx context.Context, alerts []models.Alert) error
	Close() error
}

// WhatsAppSender delivers one alert or OTP message to a phone number.
type WhatsAppSender interface {
	SendAlert(ctx context.Context, a models.Alert) error
	SendOTP(ctx context.Context, phone, code string) error
}

type Metrics interface {
	RecordRefresh(seconds float64)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordAlertQueued(symbol string)
	RecordAlertDelivered(symbol string)
	RecordAnalysisRequest(outcome string)
	SetStreamClients(n int)
}
