// Injector bodies for the sets declared in wire.go. Running go generate in
// this package rewrites this file with wire's own output.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package injector

import (
	"github.com/mycosoft/unified-search/internal/conf"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/server"
	"github.com/mycosoft/unified-search/internal/search/service"
	service2 "github.com/mycosoft/unified-search/internal/trend/service"
)

// Injectors from wire.go:

// InitializeApp initializes the application with Wire
func InitializeApp(config *conf.Config, log *logger.Logger) (*App, func(), error) {
	dataData, cleanup, err := provideData(config, log)
	if err != nil {
		return nil, nil, err
	}
	pool, cleanup2, err := provideWorkerPool(config, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	sources := provideSources(config, log)
	answerResolver := provideAnswerResolver(config, log)
	graftQueue := provideGraftQueue(config, pool, log)
	responseCache := provideResponseCache(config, dataData, log)
	searchLogRepo, err := provideSearchLogRepo(dataData)
	if err != nil {
		cleanup2()
		cleanup()
		return nil, nil, err
	}
	searchUseCase := provideSearchUseCase(config, sources, answerResolver, graftQueue, responseCache, searchLogRepo, pool, log)
	searchService := service.NewSearchService(searchUseCase, log)
	trendRepo := provideTrendRepo(config)
	historyRepo := provideHistoryRepo(config, searchLogRepo)
	trendUseCase := provideTrendUseCase(trendRepo, historyRepo, config, log)
	trendService := service2.NewTrendService(trendUseCase, log)
	httpServer := server.NewHTTPServer(config, log, dataData, pool, searchService, trendService)
	app := newApp(httpServer)
	return app, func() {
		cleanup2()
		cleanup()
	}, nil
}

// InitializeToolkit builds the use cases without the HTTP server
func InitializeToolkit(config *conf.Config, log *logger.Logger) (*Toolkit, func(), error) {
	dataData, cleanup, err := provideData(config, log)
	if err != nil {
		return nil, nil, err
	}
	pool, cleanup2, err := provideWorkerPool(config, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	sources := provideSources(config, log)
	answerResolver := provideAnswerResolver(config, log)
	graftQueue := provideGraftQueue(config, pool, log)
	responseCache := provideResponseCache(config, dataData, log)
	searchLogRepo, err := provideSearchLogRepo(dataData)
	if err != nil {
		cleanup2()
		cleanup()
		return nil, nil, err
	}
	searchUseCase := provideSearchUseCase(config, sources, answerResolver, graftQueue, responseCache, searchLogRepo, pool, log)
	trendRepo := provideTrendRepo(config)
	historyRepo := provideHistoryRepo(config, searchLogRepo)
	trendUseCase := provideTrendUseCase(trendRepo, historyRepo, config, log)
	toolkit := newToolkit(searchUseCase, trendUseCase)
	return toolkit, func() {
		cleanup2()
		cleanup()
	}, nil
}
