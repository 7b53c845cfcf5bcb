package injector

import (
	"go.uber.org/zap"

	"github.com/mycosoft/unified-search/internal/conf"
	"github.com/mycosoft/unified-search/internal/data"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/pkg/workerpool"
	"github.com/mycosoft/unified-search/internal/search/answer"
	searchbiz "github.com/mycosoft/unified-search/internal/search/biz"
	searchdata "github.com/mycosoft/unified-search/internal/search/data"
	"github.com/mycosoft/unified-search/internal/search/graft"
	"github.com/mycosoft/unified-search/internal/search/source"
	trendbiz "github.com/mycosoft/unified-search/internal/trend/biz"
	trenddata "github.com/mycosoft/unified-search/internal/trend/data"
)

// Data layer

func provideData(config *conf.Config, log *logger.Logger) (*data.Data, func(), error) {
	return data.NewData(config, log)
}

func provideWorkerPool(config *conf.Config, log *logger.Logger) (*workerpool.Pool, func(), error) {
	c := config.WorkerPool
	pool, err := workerpool.New(&workerpool.Config{
		Size:             c.Size,
		MaxBlockingTasks: c.MaxBlockingTasks,
		Nonblocking:      c.Nonblocking,
		ExpiryDuration:   c.ExpiryDuration,
	}, log.Named("workerpool").Logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := pool.Shutdown(config.Server.ShutdownTimeout); err != nil {
			log.Warn("worker pool shutdown timed out", zap.Error(err))
		}
	}
	return pool, cleanup, nil
}

func provideResponseCache(config *conf.Config, d *data.Data, log *logger.Logger) searchbiz.ResponseCache {
	if d.Redis == nil {
		return nil
	}
	return searchdata.NewResponseCache(d.Redis, config.Search.CacheTTL, log)
}

func provideSearchLogRepo(d *data.Data) (searchbiz.SearchLogRepo, error) {
	if d.DB == nil {
		return nil, nil
	}
	repo := searchdata.NewSearchLogRepo(d.DB)
	if err := repo.Migrate(); err != nil {
		return nil, err
	}
	return repo, nil
}

func provideTrendRepo(config *conf.Config) trendbiz.TrendRepo {
	return trenddata.NewAnalyticsRepo(config.Trends)
}

func provideHistoryRepo(config *conf.Config, logs searchbiz.SearchLogRepo) trendbiz.HistoryRepo {
	if logs == nil {
		return nil
	}
	return trenddata.NewHistoryRepo(logs, config.Trends.HistoryWindow)
}

// Search

func provideSources(config *conf.Config, log *logger.Logger) searchbiz.Sources {
	s, rc := config.Sources, config.Sources.Retry
	return searchbiz.Sources{
		Taxon:       source.NewTaxonSource(s.Taxon, rc, log),
		Compound:    source.NewCompoundSource(s.Compound, rc, log),
		Research:    source.NewResearchSource(s.Research, rc, log),
		Observation: source.NewObservationSource(s.Observation, rc, log),
		Semantic:    source.NewSemanticSource(s.Semantic, rc, log),
		Environment: source.NewEnvironmentSource(s.Environment, rc, log),
	}
}

func provideAnswerResolver(config *conf.Config, log *logger.Logger) searchbiz.AnswerResolver {
	return answer.NewResolver(answer.DefaultSteps(config.AI), answer.MustLocalKnowledge(), log)
}

func provideGraftQueue(config *conf.Config, pool *workerpool.Pool, log *logger.Logger) searchbiz.GraftQueue {
	return graft.NewQueue(config.Graft, config.Sources.Retry, pool, log)
}

func provideSearchUseCase(
	config *conf.Config,
	sources searchbiz.Sources,
	answers searchbiz.AnswerResolver,
	queue searchbiz.GraftQueue,
	cache searchbiz.ResponseCache,
	logs searchbiz.SearchLogRepo,
	pool *workerpool.Pool,
	log *logger.Logger,
) *searchbiz.SearchUseCase {
	return searchbiz.NewSearchUseCase(config.Search, sources, answers, queue, cache, logs, pool, log)
}

// Trends

func provideTrendUseCase(repo trendbiz.TrendRepo, history trendbiz.HistoryRepo, config *conf.Config, log *logger.Logger) *trendbiz.TrendUseCase {
	return trendbiz.NewTrendUseCase(repo, history, config.Trends.Timeout, log)
}
