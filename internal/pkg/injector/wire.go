//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"

	"github.com/mycosoft/unified-search/internal/conf"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/server"
	searchbiz "github.com/mycosoft/unified-search/internal/search/biz"
	searchservice "github.com/mycosoft/unified-search/internal/search/service"
	trendbiz "github.com/mycosoft/unified-search/internal/trend/biz"
	trendservice "github.com/mycosoft/unified-search/internal/trend/service"
)

// Data layer providers
var dataProviderSet = wire.NewSet(
	provideData,
	provideWorkerPool,
	provideResponseCache,
	provideSearchLogRepo,
	provideTrendRepo,
	provideHistoryRepo,
)

// Use case providers
var useCaseProviderSet = wire.NewSet(
	provideSources,
	provideAnswerResolver,
	provideGraftQueue,
	provideSearchUseCase,
	provideTrendUseCase,
)

// HTTP service providers
var httpServiceProviderSet = wire.NewSet(
	searchservice.NewSearchService,
	wire.Bind(new(searchservice.Searcher), new(*searchbiz.SearchUseCase)),
	trendservice.NewTrendService,
	wire.Bind(new(trendservice.TrendProvider), new(*trendbiz.TrendUseCase)),
)

// ProviderSet is the Wire provider set for all dependencies
var ProviderSet = wire.NewSet(
	dataProviderSet,
	useCaseProviderSet,
	httpServiceProviderSet,
	server.NewHTTPServer,
)

// InitializeApp initializes the application with Wire
func InitializeApp(config *conf.Config, log *logger.Logger) (*App, func(), error) {
	wire.Build(ProviderSet, newApp)
	return nil, nil, nil
}

// InitializeToolkit builds the use cases without the HTTP server
func InitializeToolkit(config *conf.Config, log *logger.Logger) (*Toolkit, func(), error) {
	wire.Build(dataProviderSet, useCaseProviderSet, newToolkit)
	return nil, nil, nil
}
