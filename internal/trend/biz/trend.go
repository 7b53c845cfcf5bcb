package biz

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/pkg/metrics"
	"github.com/mycosoft/unified-search/internal/trend/types"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// TrendRepo is the upstream analytics source
type TrendRepo interface {
	Trends(ctx context.Context, limit int, category string) ([]types.Trend, error)
}

// HistoryRepo summarizes this service's own recent searches
type HistoryRepo interface {
	TrendRepo
}

// TrendUseCase serves trending topics from analytics, then search history,
// then a static list.
type TrendUseCase struct {
	repo    TrendRepo
	history HistoryRepo
	timeout time.Duration
	logger  *logger.Logger
}

func NewTrendUseCase(repo TrendRepo, history HistoryRepo, timeout time.Duration, log *logger.Logger) *TrendUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &TrendUseCase{repo: repo, history: history, timeout: timeout, logger: log.Named("trends")}
}

// GetTrends never fails. A source that errors, or has nothing in the
// requested category, hands over to the next one.
func (uc *TrendUseCase) GetTrends(ctx context.Context, limit int, category string) *types.TrendList {
	limit = clamp(limit)
	category = strings.ToLower(strings.TrimSpace(category))
	log := uc.logger.WithContext(ctx)

	list := &types.TrendList{Category: category, Timestamp: time.Now().UTC()}

	sources := []struct {
		name string
		repo TrendRepo
	}{
		{types.SourceLive, uc.repo},
		{types.SourceHistory, uc.history},
	}
	for _, src := range sources {
		if src.repo == nil {
			continue
		}
		trends, err := uc.fetch(ctx, src.repo, limit, category)
		if err != nil {
			log.Warn("trend source unavailable", zap.String("source", src.name), zap.Error(err))
			continue
		}
		if trends = filter(trends, category); len(trends) == 0 {
			log.Debug("trend source has no trends", zap.String("source", src.name), zap.String("category", category))
			continue
		}
		list.Trends = head(trends, limit)
		list.Source = src.name
		metrics.RecordTrends(src.name)
		return list
	}

	list.Trends = head(filter(FallbackTrends(), category), limit)
	list.Source = types.SourceFallback
	metrics.RecordTrends(types.SourceFallback)
	return list
}

func (uc *TrendUseCase) fetch(ctx context.Context, repo TrendRepo, limit int, category string) ([]types.Trend, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	return repo.Trends(ctx, limit, category)
}

func clamp(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

func filter(trends []types.Trend, category string) []types.Trend {
	if category == "" {
		return trends
	}
	out := make([]types.Trend, 0, len(trends))
	for _, t := range trends {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

func head(trends []types.Trend, n int) []types.Trend {
	if len(trends) > n {
		trends = trends[:n]
	}
	if trends == nil {
		trends = []types.Trend{}
	}
	return trends
}
