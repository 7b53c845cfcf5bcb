package biz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycosoft/unified-search/internal/conf"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/pkg/retry"
	"github.com/mycosoft/unified-search/internal/pkg/workerpool"
	"github.com/mycosoft/unified-search/internal/search/graft"
	"github.com/mycosoft/unified-search/internal/search/types"
)

// A slow graft endpoint and several slow branches: the response waits for
// the slowest branch only, and never for the graft dispatch.
func TestSearch_LatencyBoundedBySlowestBranch(t *testing.T) {
	const branchDelay = 200 * time.Millisecond

	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	pool, err := workerpool.New(&workerpool.Config{Size: 2}, nil)
	require.NoError(t, err)
	defer func() { _ = pool.Shutdown(5 * time.Second) }()
	defer close(release)

	queue := graft.NewQueue(
		conf.GraftConfig{Enabled: true, Endpoint: srv.URL, Timeout: 5 * time.Second, MaxItems: 10},
		retry.Config{MaxRetries: 1},
		pool, logger.NewNop())

	f := newFixture()
	f.taxon.delay = branchDelay
	f.observation.delay = branchDelay
	f.semantic.delay = branchDelay
	f.research.delay = branchDelay
	f.answers.delay = branchDelay

	uc := NewSearchUseCase(testConfig,
		Sources{
			Taxon:       f.taxon,
			Compound:    f.compound,
			Research:    f.research,
			Observation: f.observation,
			Semantic:    f.semantic,
			Environment: f.environment,
		},
		f.answers, queue, nil, nil, pool, logger.NewNop())

	start := time.Now()
	resp, err := uc.Search(context.Background(), &types.SearchRequest{Query: "latest reishi research news"})
	elapsed := time.Since(start)
	require.NoError(t, err)

	assert.EqualValues(t, 1, f.research.calls.Load())
	assert.GreaterOrEqual(t, elapsed, branchDelay)
	assert.Less(t, elapsed, 3*branchDelay, "branches ran one after another")

	assert.Equal(t, 1, resp.Grafting.Queued)
	assert.NotEmpty(t, resp.Grafting.BatchID)
	assert.Len(t, resp.Results.Species, 1)
	assert.Empty(t, resp.Metadata.UnavailableSources)

	// the batch is in flight on the pool while the response is already out
	require.Eventually(t, func() bool { return hits.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}
