package di

import (
	"fmt"

	"Natalis/internal/domain/repository"
	domsvc "Natalis/internal/domain/service"
	"Natalis/internal/handler/api"
	internalrepo "Natalis/internal/repository"
	"Natalis/internal/service/cache"
	"Natalis/internal/service/ephemeris"
	"Natalis/internal/service/ratelimit"
	"Natalis/internal/services/natal"
	"Natalis/internal/usecase"
	"Natalis/pkg/config"
	xhttp "Natalis/pkg/http"
	"Natalis/pkg/http/middleware"
	pkgkafka "Natalis/pkg/kafka"
	applogger "Natalis/pkg/logger"
	"Natalis/pkg/metrics"
	"Natalis/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: "stdout",
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEngine creates the chart engine from the analysis settings.
func ProvideEngine(cfg *config.Config) *natal.Engine {
	return natal.NewEngine(
		natal.WithFixedStars(natal.DefaultFixedStars()),
		natal.WithPatternOptions(cfg.PatternOptions()),
		natal.WithProfileThresholds(cfg.Analysis.Profile),
	)
}

// ProvideChartEngine exposes the engine through the domain interface.
func ProvideChartEngine(e *natal.Engine) domsvc.ChartEngine {
	return e
}

// ProvideCache picks Redis or the in-process TTL cache.
func ProvideCache(cfg *config.Config) cache.BytesCache {
	return cache.New(cache.Config{
		Redis: cfg.Cache.Redis.Enabled,
		Options: cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   "natalis:",
		},
	})
}

// ProvideEphemerisProvider creates the upstream client behind the cache.
func ProvideEphemerisProvider(
	cfg *config.Config,
	c cache.BytesCache,
	m repository.Metrics,
	log *applogger.Logger,
) repository.EphemerisProvider {
	client := ephemeris.NewClient(ephemeris.Config{
		URL:        cfg.Ephemeris.URL,
		APIKey:     cfg.Ephemeris.APIKey,
		Timeout:    cfg.Ephemeris.Timeout,
		MaxRetries: cfg.Ephemeris.MaxRetries,
	}, log)
	if cfg.Cache.TTL <= 0 {
		return client
	}
	return ephemeris.NewCached(client, c, cfg.Cache.TTL, m, log)
}

// ProvideKafkaProducer creates a Kafka producer. It returns nil when Kafka is
// disabled.
func ProvideKafkaProducer(cfg *config.Config, log *applogger.Logger) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideChartPublisher publishes chart events to Kafka, or drops them when
// there is no producer.
func ProvideChartPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.ChartPublisher {
	if producer == nil {
		return internalrepo.NoopChartPublisher{}
	}
	return internalrepo.NewKafkaChartPublisher(producer, cfg.Kafka.ReportTopic)
}

// ProvideChartService creates the chart use case.
func ProvideChartService(
	provider repository.EphemerisProvider,
	engine domsvc.ChartEngine,
	publisher repository.ChartPublisher,
	m repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.ChartService {
	return usecase.NewChartService(provider, engine, publisher, m, log, cfg.Analysis.FixedStarOrb)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML. It
// returns nil when Kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config, log *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.ContextHook())
	return consumer, nil
}

// ProvideChartJobHandler handles chart requests from the request topic.
func ProvideChartJobHandler(
	cfg *config.Config,
	charts *usecase.ChartService,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.ChartJobHandler {
	return usecase.NewChartJobHandler(cfg.Kafka.RequestTopic, charts, m, log)
}

// ProvideRateLimiter returns nil when rate limiting is disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 0)
}

// ProvideHTTPServer builds the Echo server with the chart routes.
func ProvideHTTPServer(
	cfg *config.Config,
	log *applogger.Logger,
	charts *usecase.ChartService,
	limiter *ratelimit.Limiter,
) *xhttp.Server {
	handlers := []xhttp.Handler{
		api.NewChartsEchoHandler(log, charts),
		api.NewChartsWSHandler(log, charts, cfg.Server.AllowedOrigins),
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(true, cfg.Server.AllowedOrigins...),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(log),
	}
	if limiter != nil {
		opts = append(opts, xhttp.WithMiddleware(middleware.RateLimit(limiter)))
	}
	return xhttp.NewServer(handlers, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	consumer *pkgkafka.Consumer,
	jobs *usecase.ChartJobHandler,
	producer *pkgkafka.Producer,
	publisher repository.ChartPublisher,
) *server.App {
	return server.New(cfg, log, httpServer, consumer, jobs, producer, publisher)
}
