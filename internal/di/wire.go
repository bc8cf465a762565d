//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"CryptoDash/pkg/config"
	"CryptoDash/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvidePostgres,
		ProvideCache,
		ProvideKafkaProducer,
		ProvideClickHouseClient,

		// Repositories
		ProvideUserRepository,
		ProvidePreferencesRepository,
		ProvideFeedbackRepository,
		ProvideFeedbackPublisher,

		// External providers
		ProvidePriceProvider,
		ProvideNewsProvider,
		ProvideInsightProvider,
		ProvideMemeCatalog,
		ProvideTokenIssuer,
		ProvidePasswordHasher,

		// Use cases
		ProvidePreferenceResolver,
		ProvideProviderAdapters,
		ProvideDashboardUseCase,
		ProvideAuthUseCase,
		ProvidePreferencesUseCase,
		ProvideFeedbackUseCase,
		ProvideFeedbackEventsHandler,
		ProvideKafkaConsumer,

		// Application server
		ProvideRouter,
		ProvideApp,
	)
	return &server.App{}, nil
}
