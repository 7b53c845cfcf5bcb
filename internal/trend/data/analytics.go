package data

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mycosoft/unified-search/internal/conf"
	"github.com/mycosoft/unified-search/internal/pkg/httpclient"
	"github.com/mycosoft/unified-search/internal/trend/biz"
	"github.com/mycosoft/unified-search/internal/trend/types"
)

const trendsPath = "/api/mindex/analytics/trends"

// AnalyticsRepo reads trending topics from the analytics service. It makes
// exactly one attempt per call.
type AnalyticsRepo struct {
	baseURL string
	client  *http.Client
}

var _ biz.TrendRepo = (*AnalyticsRepo)(nil)

func NewAnalyticsRepo(cfg conf.TrendsConfig) *AnalyticsRepo {
	return &AnalyticsRepo{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  httpclient.New(cfg.Timeout),
	}
}

func (r *AnalyticsRepo) Trends(ctx context.Context, limit int, category string) ([]types.Trend, error) {
	if r.baseURL == "" {
		return nil, fmt.Errorf("analytics base url not configured")
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if category != "" {
		params.Set("category", category)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+trendsPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analytics returned %d", resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("analytics returned malformed JSON")
	}

	doc := gjson.ParseBytes(body)
	list := doc.Get("trends")
	if !list.Exists() {
		list = doc.Get("data")
	}
	if !list.IsArray() {
		list = doc
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("analytics payload has no trend list")
	}

	var trends []types.Trend
	list.ForEach(func(_, v gjson.Result) bool {
		term := firstNonEmpty(v.Get("term").String(), v.Get("query").String(), v.Get("topic").String())
		if term == "" {
			return true
		}
		change := v.Get("change").Float()
		trends = append(trends, types.Trend{
			Term:      term,
			Category:  firstNonEmpty(v.Get("category").String(), "general"),
			Count:     int(firstNonZero(v.Get("count").Int(), v.Get("searches").Int())),
			Change:    change,
			Direction: firstNonEmpty(v.Get("direction").String(), direction(change)),
		})
		return true
	})
	return trends, nil
}

func direction(change float64) string {
	switch {
	case change > 0:
		return "up"
	case change < 0:
		return "down"
	default:
		return "stable"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...int64) int64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
