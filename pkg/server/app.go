package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Natalis/internal/domain/repository"
	"Natalis/pkg/config"
	xhttp "Natalis/pkg/http"
	pkgkafka "Natalis/pkg/kafka"
	applogger "Natalis/pkg/logger"
	"Natalis/pkg/tracing"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	consumer   *pkgkafka.Consumer
	jobs       pkgkafka.MessageHandler
	producer   *pkgkafka.Producer
	publisher  repository.ChartPublisher
}

// New creates a new App instance with all dependencies. consumer, jobs and
// producer are nil when Kafka is disabled.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	consumer *pkgkafka.Consumer,
	jobs pkgkafka.MessageHandler,
	producer *pkgkafka.Producer,
	publisher repository.ChartPublisher,
) *App {
	if log == nil {
		log = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: httpServer,
		consumer:   consumer,
		jobs:       jobs,
		producer:   producer,
		publisher:  publisher,
	}
}

// Run starts the application and blocks until ctx is canceled or the process
// receives SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:     a.cfg.Tracing.Enabled,
		Endpoint:    a.cfg.Tracing.Endpoint,
		Insecure:    a.cfg.Tracing.Insecure,
		SampleRatio: a.cfg.Tracing.SampleRatio,
		ServiceName: a.cfg.Tracing.ServiceName,
	})
	if err != nil {
		a.log.Warn("tracing disabled", applogger.Error(err))
	}

	if a.producer != nil && a.cfg.Kafka.LogTopic != "" {
		a.log.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          a.cfg.Kafka.LogTopic,
			Publisher:      a.producer,
			PublishTimeout: 5 * time.Second,
		})
	}

	if a.consumer != nil && a.jobs != nil {
		a.consumer.RegisterHandler(a.jobs)
		if err := a.consumer.Start(); err != nil {
			a.log.Error("kafka consumer start error", applogger.Error(err))
			return a.shutdown(shutdownTracing, err)
		}
		a.log.Info("kafka consumer started", applogger.String("topic", a.jobs.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return a.shutdown(shutdownTracing, err)
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown(shutdownTracing, nil)
}

// shutdown stops intake first, then the sinks that in-flight work writes to.
func (a *App) shutdown(shutdownTracing func(context.Context) error, cause error) error {
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// The collector publishes through the producer, so it goes first.
	a.log.RemoveCollector()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("chart publisher close error", applogger.Error(err))
		}
	}

	if shutdownTracing != nil {
		if err := shutdownTracing(ctx); err != nil {
			a.log.Warn("tracing shutdown error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return cause
}
