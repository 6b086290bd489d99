//go:build wireinject
// +build wireinject

package di

import (
	"PatternPulse/pkg/config"
	"PatternPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Snapshot engine
		ProvideSource,
		ProvideGenerator,
		ProvideMarketService,

		// Persistence and delivery channels
		ProvideStores,
		ProvideWhatsAppSender,
		ProvideKafkaProducer,
		ProvideAlertPublisher,
		ProvideKafkaConsumer,
		ProvideAlertDeliveryHandler,

		// Use cases
		ProvideAuthService,
		ProvideAlertService,
		ProvideAnalyst,

		// Transport
		ProvideHub,
		ProvideHandlers,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
