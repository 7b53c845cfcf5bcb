package biz

import (
	"context"
	"time"

	"github.com/mycosoft/unified-search/internal/search/types"
)

// SearchLog is one recorded search
type SearchLog struct {
	ID                 string
	RequestID          string
	Query              string
	Category           types.Category
	QueryType          types.QueryType
	Keywords           []string
	ProvidersUsed      []string
	UnavailableSources []string
	ResultCount        int
	DurationMs         int64
	CreatedAt          time.Time
}

// SearchLogRepo persists search logs
type SearchLogRepo interface {
	Record(ctx context.Context, log *SearchLog) error
	Recent(ctx context.Context, limit int) ([]*SearchLog, error)
}

// ResponseCache stores assembled responses keyed on the normalized request.
// A miss and a cache failure look the same to the caller.
type ResponseCache interface {
	Get(ctx context.Context, req *types.SearchRequest) (*types.UnifiedSearchResponse, bool)
	Set(ctx context.Context, req *types.SearchRequest, resp *types.UnifiedSearchResponse)
}
