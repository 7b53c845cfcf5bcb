package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/pkg/metrics"
	pkgredis "github.com/mycosoft/unified-search/internal/pkg/redis"
	"github.com/mycosoft/unified-search/internal/search/biz"
	"github.com/mycosoft/unified-search/internal/search/types"
)

const cacheKeyPrefix = "search:"

// ResponseCache keeps assembled responses in Redis for a short TTL
type ResponseCache struct {
	client *pkgredis.Client
	ttl    time.Duration
	logger *logger.Logger
}

var _ biz.ResponseCache = (*ResponseCache)(nil)

func NewResponseCache(client *pkgredis.Client, ttl time.Duration, log *logger.Logger) *ResponseCache {
	if log == nil {
		log = logger.NewNop()
	}
	return &ResponseCache{client: client, ttl: ttl, logger: log.Named("cache")}
}

// cacheKey is what makes two requests equivalent
type cacheKey struct {
	Query     string          `json:"q"`
	Context   string          `json:"c,omitempty"`
	Interests []string        `json:"i,omitempty"`
	Location  *types.GeoPoint `json:"l,omitempty"`
	AI        bool            `json:"ai"`
	Live      bool            `json:"live"`
	Limit     int             `json:"n"`
}

// Key derives the cache key of a normalized request
func Key(req *types.SearchRequest) string {
	k := cacheKey{
		Query:     strings.ToLower(strings.Join(strings.Fields(req.Query), " ")),
		Context:   strings.TrimSpace(req.Context),
		Interests: req.Interests,
		Location:  req.Location,
		AI:        req.AIEnabled(),
		Live:      req.LiveEnabled(),
		Limit:     req.Limit,
	}
	raw, _ := json.Marshal(k)
	sum := sha256.Sum256(raw)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *ResponseCache) Get(ctx context.Context, req *types.SearchRequest) (*types.UnifiedSearchResponse, bool) {
	var resp types.UnifiedSearchResponse
	found, err := c.client.GetJSON(ctx, Key(req), &resp)
	switch {
	case err != nil:
		metrics.RecordCacheLookup("error")
		c.logger.WithContext(ctx).Warn("cache lookup failed", zap.Error(err))
		return nil, false
	case !found:
		metrics.RecordCacheLookup("miss")
		return nil, false
	}
	metrics.RecordCacheLookup("hit")
	return &resp, true
}

func (c *ResponseCache) Set(ctx context.Context, req *types.SearchRequest, resp *types.UnifiedSearchResponse) {
	if c.ttl <= 0 {
		return
	}
	if err := c.client.SetJSON(ctx, Key(req), resp, c.ttl); err != nil {
		c.logger.WithContext(ctx).Warn("cache store failed", zap.Error(err))
	}
}
