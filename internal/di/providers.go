package di

import (
	"fmt"
	"time"

	drepo "PatternPulse/internal/domain/repository"
	"PatternPulse/internal/domain/service"
	"PatternPulse/internal/handler/api"
	internalrepo "PatternPulse/internal/repository"
	"PatternPulse/internal/services/analyst"
	"PatternPulse/internal/services/market"
	"PatternPulse/internal/services/stream"
	"PatternPulse/internal/usecase"
	"PatternPulse/pkg/config"
	xhttp "PatternPulse/pkg/http"
	pkgkafka "PatternPulse/pkg/kafka"
	applogger "PatternPulse/pkg/logger"
	"PatternPulse/pkg/metrics"
	"PatternPulse/pkg/server"
)

// Stores bundles the persistence interfaces so the Redis/in-memory choice
// happens in one place.
type Stores struct {
	Users    drepo.UserStore
	Sessions drepo.SessionStore
	OTPs     drepo.OTPStore
	Close    func() error
}

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideSource creates the randomness source for the snapshot engine.
// Seed 0 means time-based, anything else is reproducible.
func ProvideSource(cfg *config.Config) market.Source {
	seed := cfg.Market.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return market.NewSource(seed)
}

// ProvideGenerator creates the snapshot generator over the built-in universe.
func ProvideGenerator(src market.Source) *market.Generator {
	return market.NewGenerator(market.Universe, src)
}

// ProvideMarketService creates the snapshot owner with its refresh scheduler.
func ProvideMarketService(
	gen *market.Generator,
	src market.Source,
	m drepo.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.MarketService {
	return usecase.NewMarketService(gen, src, m, logger, cfg.Market.RefreshInterval)
}

// ProvideStores picks Redis-backed or in-memory persistence from config.
func ProvideStores(cfg *config.Config, logger *applogger.Logger) (*Stores, error) {
	if cfg.Redis.Enabled {
		rs, err := internalrepo.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		logger.Info("using redis store", applogger.String("addr", cfg.Redis.Addr))
		return &Stores{Users: rs, Sessions: rs, OTPs: rs.OTP(), Close: rs.Close}, nil
	}
	ms := internalrepo.NewMemoryStore()
	logger.Info("using in-memory store")
	return &Stores{Users: ms, Sessions: ms, OTPs: ms.OTP(), Close: ms.Close}, nil
}

// ProvideWhatsAppSender creates the mock WhatsApp delivery channel.
func ProvideWhatsAppSender(logger *applogger.Logger) drepo.WhatsAppSender {
	return internalrepo.NewLogWhatsAppSender(logger)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is
// disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideAlertPublisher routes alerts through Kafka when enabled, otherwise
// delivers them in-process.
func ProvideAlertPublisher(
	cfg *config.Config,
	producer *pkgkafka.Producer,
	sender drepo.WhatsAppSender,
	m drepo.Metrics,
) drepo.AlertPublisher {
	if producer != nil {
		return internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.AlertsTopic)
	}
	return internalrepo.NewLoopbackPublisher(sender, m)
}

// ProvideKafkaConsumer creates the alert delivery consumer, or nil when
// Kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideAlertDeliveryHandler consumes queued alerts and hands them to the
// WhatsApp sender.
func ProvideAlertDeliveryHandler(cfg *config.Config, sender drepo.WhatsAppSender, m drepo.Metrics) *usecase.AlertDeliveryHandler {
	return usecase.NewAlertDeliveryHandler(cfg.Kafka.AlertsTopic, sender, m)
}

// ProvideAuthService creates the auth use case. It gets its own randomness
// source so OTP generation never contends with the snapshot engine.
func ProvideAuthService(
	stores *Stores,
	sender drepo.WhatsAppSender,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.AuthService {
	src := market.NewSource(time.Now().UnixNano())
	return usecase.NewAuthService(
		stores.Users, stores.Sessions, stores.OTPs,
		sender, src, logger,
		cfg.Auth.SessionTTL, cfg.Auth.OTPTTL,
	)
}

// ProvideAlertService creates the broadcast use case.
func ProvideAlertService(
	market *usecase.MarketService,
	pub drepo.AlertPublisher,
	m drepo.Metrics,
	logger *applogger.Logger,
) *usecase.AlertService {
	return usecase.NewAlertService(market, pub, m, logger)
}

// ProvideAnalyst creates the Gemini-backed analyst.
func ProvideAnalyst(cfg *config.Config, logger *applogger.Logger) service.Analyst {
	return analyst.NewGeminiAnalyst(cfg, logger)
}

// ProvideHub creates the WebSocket snapshot hub.
func ProvideHub(m drepo.Metrics, logger *applogger.Logger) *stream.Hub {
	return stream.NewHub(m, logger)
}

// ProvideHandlers builds every HTTP handler the server registers.
func ProvideHandlers(
	logger *applogger.Logger,
	marketSvc *usecase.MarketService,
	auth *usecase.AuthService,
	alerts *usecase.AlertService,
	an service.Analyst,
	m drepo.Metrics,
	hub *stream.Hub,
) []xhttp.Handler {
	return []xhttp.Handler{
		api.NewMarketEchoHandler(logger, marketSvc, auth, hub),
		api.NewAuthEchoHandler(logger, auth),
		api.NewAlertsEchoHandler(logger, alerts, auth),
		api.NewAnalysisEchoHandler(logger, marketSvc, auth, an, m),
	}
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	marketSvc *usecase.MarketService,
	hub *stream.Hub,
	consumer *pkgkafka.Consumer,
	delivery *usecase.AlertDeliveryHandler,
	publisher drepo.AlertPublisher,
	handlers []xhttp.Handler,
	stores *Stores,
) *server.App {
	return server.New(cfg, logger, marketSvc, hub, consumer, delivery, publisher, handlers, stores.Close)
}
