//go:build wireinject
// +build wireinject

package di

import (
	"LagScan/pkg/config"
	"LagScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideEngine,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideCache,

		// Repositories
		ProvideSeriesSource,
		ProvideResultSink,
		ProvideMemoryStore,
		ProvideResultStore,
		ProvideResultRecorder,

		// Use cases
		ProvidePairRunner,

		// HTTP
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
