//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"popcorn/internal"
	"popcorn/internal/controllers"
	"popcorn/internal/models"
	"popcorn/internal/omdb"
	"popcorn/internal/providers"
	"popcorn/internal/services"
	"popcorn/internal/storage"
	"popcorn/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewManagedLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewKeyValueStore,
		models.NewWatchedListStore,

		omdb.NewClient,
		wire.Bind(new(omdb.Searcher), new(*omdb.Client)),
		wire.Bind(new(omdb.DetailsFetcher), new(*omdb.Client)),

		services.NewSearchController,
		services.NewDetailsController,
		services.NewSession,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil, nil
}
