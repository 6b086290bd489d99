package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	drepo "PatternPulse/internal/domain/repository"
	"PatternPulse/internal/services/stream"
	"PatternPulse/internal/usecase"
	"PatternPulse/pkg/config"
	xhttp "PatternPulse/pkg/http"
	pkgkafka "PatternPulse/pkg/kafka"
	applogger "PatternPulse/pkg/logger"
)

// App encapsulates the application lifecycle: the snapshot scheduler, the
// alert delivery consumer, the WebSocket hub and the HTTP server.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	market     *usecase.MarketService
	hub        *stream.Hub
	consumer   *pkgkafka.Consumer
	delivery   *usecase.AlertDeliveryHandler
	publisher  drepo.AlertPublisher
	httpServer *xhttp.Server
	closeStore func() error
}

// New assembles the App. consumer may be nil when Kafka is disabled; alerts
// then flow through the loopback publisher instead.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	market *usecase.MarketService,
	hub *stream.Hub,
	consumer *pkgkafka.Consumer,
	delivery *usecase.AlertDeliveryHandler,
	publisher drepo.AlertPublisher,
	handlers []xhttp.Handler,
	closeStore func() error,
) *App {
	httpServer := xhttp.NewServer(handlers,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	)
	return &App{
		cfg:        cfg,
		logger:     logger,
		market:     market,
		hub:        hub,
		consumer:   consumer,
		delivery:   delivery,
		publisher:  publisher,
		httpServer: httpServer,
		closeStore: closeStore,
	}
}

// Run starts everything and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.market.SetSink(a.hub)
	if err := a.market.Start(ctx); err != nil {
		return err
	}

	if a.consumer != nil && a.delivery != nil {
		a.consumer.RegisterHandler(a.delivery)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.logger.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.logger.Info("alert delivery consumer started",
			applogger.String("topic", a.delivery.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.market.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("scheduler stop error", applogger.Error(err))
	}

	a.hub.Close()

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.logger.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("alert publisher close error", applogger.Error(err))
		}
	}

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.closeStore != nil {
		if err := a.closeStore(); err != nil {
			a.logger.Warn("store close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
