//go:build wireinject
// +build wireinject

package di

import (
	"Natalis/pkg/config"
	"Natalis/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRateLimiter,

		// Repositories and upstream services
		ProvideEphemerisProvider,
		ProvideChartPublisher,

		// Domain
		ProvideEngine,
		ProvideChartEngine,

		// Use cases
		ProvideChartService,
		ProvideChartJobHandler,

		// Transport
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
