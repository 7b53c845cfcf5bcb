// Package source holds the upstream adapters. Every adapter bounds its call
// with its own timeout and degrades to an empty result on any failure; no
// error crosses the Fetch boundary.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mycosoft/unified-search/internal/conf"
	"github.com/mycosoft/unified-search/internal/pkg/httpclient"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/pkg/metrics"
	"github.com/mycosoft/unified-search/internal/pkg/retry"
	"github.com/mycosoft/unified-search/internal/search/types"
)

const (
	NameTaxon       = "taxon"
	NameCompound    = "compounds"
	NameResearch    = "research"
	NameObservation = "observations"
	NameSemantic    = "semantic"
	NameEnvironment = "environment"
)

const maxBodyBytes = 4 << 20

// Fetcher is the uniform adapter contract
type Fetcher[T any] interface {
	Name() string
	// Enabled is false when the adapter lacks a required credential
	Enabled() bool
	Fetch(ctx context.Context, query string, intent *types.SearchIntent, limit int) types.SourceResult[T]
}

// UpstreamError describes a failed upstream exchange
type UpstreamError struct {
	Source     string
	StatusCode int
	Reason     string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("[%s] upstream status %d: %s", e.Source, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("[%s] %s", e.Source, e.Reason)
}

// base carries what every adapter shares: config, pooled client, retry policy
// and an optional outbound limiter.
type base struct {
	name        string
	config      conf.SourceConfig
	retry       retry.Config
	client      *http.Client
	limiter     *rate.Limiter
	logger      *logger.Logger
	requiresKey bool
}

func newBase(name string, cfg conf.SourceConfig, rc retry.Config, log *logger.Logger) *base {
	if log == nil {
		log = logger.NewNop()
	}
	b := &base{
		name:   name,
		config: cfg,
		retry:  rc,
		client: httpclient.New(0),
		logger: log.Named("source").With(zap.String("source", name)),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		b.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return b
}

func (b *base) Name() string { return b.name }

func (b *base) Enabled() bool {
	return !b.requiresKey || b.config.APIKey != ""
}

func (b *base) endpoint(path string) string {
	return strings.TrimRight(b.config.BaseURL, "/") + path
}

func (b *base) getJSON(ctx context.Context, path string, params url.Values, headers map[string]string) (gjson.Result, error) {
	u := b.endpoint(path)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return b.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		b.setHeaders(req, headers)
		return req, nil
	})
}

func (b *base) postJSON(ctx context.Context, path string, body interface{}, headers map[string]string) (gjson.Result, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	u := b.endpoint(path)
	return b.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		b.setHeaders(req, headers)
		return req, nil
	})
}

func (b *base) setHeaders(req *http.Request, headers map[string]string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "unified-search/1.0")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

func (b *base) do(ctx context.Context, build func(ctx context.Context) (*http.Request, error)) (gjson.Result, error) {
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return gjson.Result{}, err
		}
	}

	resp, err := retry.Do(ctx, b.retry, func(ctx context.Context) (*http.Response, error) {
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}
		return b.client.Do(req)
	})
	if err != nil {
		return gjson.Result{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return gjson.Result{}, &UpstreamError{Source: b.name, Reason: "read body: " + err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, &UpstreamError{Source: b.name, StatusCode: resp.StatusCode, Reason: truncate(string(data), 200)}
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, &UpstreamError{Source: b.name, StatusCode: resp.StatusCode, Reason: "malformed payload"}
	}
	return gjson.ParseBytes(data), nil
}

// run applies the adapter timeout and turns any error or panic into an
// unavailable result.
func run[T any](ctx context.Context, b *base, fn func(ctx context.Context) ([]T, error)) (result types.SourceResult[T]) {
	start := time.Now()

	timeout := b.config.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			b.logger.WithContext(ctx).Error("source adapter panic", zap.Any("panic", r))
			result = types.Failed[T]()
		}
		metrics.RecordSourceFetch(b.name, len(result.Items), result.Unavailable, time.Since(start))
	}()

	items, err := fn(ctx)
	if err != nil {
		b.logger.WithContext(ctx).Warn("source fetch failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return types.Failed[T]()
	}

	b.logger.WithContext(ctx).Debug("source fetch completed",
		zap.Int("items", len(items)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return types.OK(items)
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 10
	}
	return limit
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
