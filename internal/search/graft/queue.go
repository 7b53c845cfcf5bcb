// Package graft offers live observations to the knowledge service's
// ingestion endpoint. Dispatch runs on the background pool and never blocks
// or fails the search that produced the observations.
package graft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mycosoft/unified-search/internal/conf"
	"github.com/mycosoft/unified-search/internal/pkg/httpclient"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/pkg/metrics"
	"github.com/mycosoft/unified-search/internal/pkg/retry"
	"github.com/mycosoft/unified-search/internal/search/types"
)

const (
	dataTypeObservation = "observation"

	confidenceResearchGrade = 0.9
	confidenceOther         = 0.6
	researchGrade           = "research"

	defaultMaxItems = 10
)

// Runner schedules fire-and-forget work. *workerpool.Pool satisfies it.
type Runner interface {
	Go(name string, task func())
}

// Batch is the body POSTed to the ingestion endpoint
type Batch struct {
	BatchID string                 `json:"batch_id"`
	Items   []types.GraftQueueItem `json:"items"`
}

// Queue hands observation batches to the ingestion endpoint
type Queue struct {
	config conf.GraftConfig
	retry  retry.Config
	client *http.Client
	runner Runner
	logger *logger.Logger
}

func NewQueue(cfg conf.GraftConfig, rc retry.Config, runner Runner, log *logger.Logger) *Queue {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = defaultMaxItems
	}
	return &Queue{
		config: cfg,
		retry:  rc,
		client: httpclient.New(cfg.Timeout),
		runner: runner,
		logger: log.Named("graft"),
	}
}

// Items converts the first MaxItems observations into queue items
func (q *Queue) Items(observations []types.Observation) []types.GraftQueueItem {
	n := len(observations)
	if n > q.config.MaxItems {
		n = q.config.MaxItems
	}
	items := make([]types.GraftQueueItem, 0, n)
	for _, o := range observations[:n] {
		score := confidenceOther
		if strings.EqualFold(o.QualityGrade, researchGrade) {
			score = confidenceResearchGrade
		}
		items = append(items, types.GraftQueueItem{
			Source:          o.Source,
			DataType:        dataTypeObservation,
			ConfidenceScore: score,
			Payload:         o,
		})
	}
	return items
}

// Enqueue schedules a batch built from observations and returns at once.
// The summary reports what was queued; the outcome of the POST is only
// logged.
func (q *Queue) Enqueue(ctx context.Context, observations []types.Observation) types.GraftingSummary {
	if !q.config.Enabled || q.config.Endpoint == "" || q.runner == nil || len(observations) == 0 {
		return types.GraftingSummary{}
	}

	batch := Batch{BatchID: uuid.NewString(), Items: q.Items(observations)}
	detached := logger.DetachedContext(ctx)

	q.runner.Go("graft", func() {
		q.dispatch(detached, batch)
	})
	metrics.RecordGraft("queued", len(batch.Items))

	return types.GraftingSummary{Queued: len(batch.Items), BatchID: batch.BatchID}
}

func (q *Queue) dispatch(ctx context.Context, batch Batch) {
	log := q.logger.WithContext(ctx).With(
		zap.String("batch_id", batch.BatchID),
		zap.Int("items", len(batch.Items)),
	)

	timeout := q.config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	if err := q.post(ctx, batch); err != nil {
		metrics.RecordGraft("failed", len(batch.Items))
		log.Warn("graft batch failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return
	}
	metrics.RecordGraft("delivered", len(batch.Items))
	log.Info("graft batch delivered", zap.Duration("elapsed", time.Since(start)))
}

func (q *Queue) post(ctx context.Context, batch Batch) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal graft batch: %w", err)
	}

	resp, err := retry.Do(ctx, q.retry, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.config.Endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if q.config.APIKey != "" {
			req.Header.Set("X-API-Key", q.config.APIKey)
		}
		return q.client.Do(req)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("ingestion endpoint returned %d", resp.StatusCode)
	}
	return nil
}
