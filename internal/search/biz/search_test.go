package biz

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycosoft/unified-search/internal/conf"
	apperrors "github.com/mycosoft/unified-search/internal/pkg/errors"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/search/answer"
	"github.com/mycosoft/unified-search/internal/search/source"
	"github.com/mycosoft/unified-search/internal/search/types"
)

type fakeSource[T any] struct {
	name        string
	disabled    bool
	items       []T
	unavailable bool
	block       bool
	delay       time.Duration

	calls  atomic.Int32
	mu     sync.Mutex
	intent *types.SearchIntent
	limit  int
}

func (f *fakeSource[T]) Name() string  { return f.name }
func (f *fakeSource[T]) Enabled() bool { return !f.disabled }

func (f *fakeSource[T]) Fetch(ctx context.Context, _ string, in *types.SearchIntent, limit int) types.SourceResult[T] {
	f.calls.Add(1)
	f.mu.Lock()
	f.intent, f.limit = in, limit
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return types.Failed[T]()
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return types.Failed[T]()
		}
	}
	if f.unavailable {
		return types.Failed[T]()
	}
	return types.OK(f.items)
}

func (f *fakeSource[T]) seen() (*types.SearchIntent, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.intent, f.limit
}

type fakeAnswers struct {
	delay    time.Duration
	calls    atomic.Int32
	prompt   atomic.Pointer[answer.Prompt]
	degraded atomic.Bool
}

func (f *fakeAnswers) Resolve(_ context.Context, p *answer.Prompt) *types.AIAnswer {
	f.calls.Add(1)
	f.prompt.Store(p)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return &types.AIAnswer{Text: "answer", Provider: answer.ProviderLocal, Confidence: 0.6, Sources: []string{}, Degraded: f.degraded.Load()}
}

type fakeGraft struct {
	calls atomic.Int32
	n     atomic.Int32
}

func (f *fakeGraft) Enqueue(_ context.Context, obs []types.Observation) types.GraftingSummary {
	f.calls.Add(1)
	f.n.Store(int32(len(obs)))
	return types.GraftingSummary{Queued: len(obs), BatchID: "batch-1"}
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string]types.UnifiedSearchResponse
}

func (c *memoryCache) key(req *types.SearchRequest) string { return req.Query }

func (c *memoryCache) Get(_ context.Context, req *types.SearchRequest) (*types.UnifiedSearchResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	resp, ok := c.items[c.key(req)]
	if !ok {
		return nil, false
	}
	return &resp, true
}

func (c *memoryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *memoryCache) Set(_ context.Context, req *types.SearchRequest, resp *types.UnifiedSearchResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = map[string]types.UnifiedSearchResponse{}
	}
	c.items[c.key(req)] = *resp
}

type memoryLogs struct {
	mu   sync.Mutex
	logs []*SearchLog
}

func (m *memoryLogs) Record(_ context.Context, l *SearchLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, l)
	return nil
}

func (m *memoryLogs) Recent(_ context.Context, limit int) ([]*SearchLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logs, nil
}

type inlineRunner struct{}

func (inlineRunner) Go(_ string, task func()) { task() }

type fixture struct {
	taxon       *fakeSource[types.Species]
	compound    *fakeSource[types.Compound]
	research    *fakeSource[types.ResearchPaper]
	observation *fakeSource[types.Observation]
	semantic    *fakeSource[types.WebResult]
	environment *fakeSource[types.EnvironmentReading]
	answers     *fakeAnswers
	graft       *fakeGraft
	cache       *memoryCache
	logs        *memoryLogs
}

func newFixture() *fixture {
	return &fixture{
		taxon:       &fakeSource[types.Species]{name: source.NameTaxon, items: []types.Species{{ID: "1", ScientificName: "Amanita phalloides"}}},
		compound:    &fakeSource[types.Compound]{name: source.NameCompound, items: []types.Compound{{ID: "c1", Name: "Psilocybin"}}},
		research:    &fakeSource[types.ResearchPaper]{name: source.NameResearch, items: []types.ResearchPaper{{ID: "r1", Title: "Reishi review"}}},
		observation: &fakeSource[types.Observation]{name: source.NameObservation, items: []types.Observation{{ID: "o1", QualityGrade: "research"}}},
		semantic:    &fakeSource[types.WebResult]{name: source.NameSemantic},
		environment: &fakeSource[types.EnvironmentReading]{name: source.NameEnvironment, items: []types.EnvironmentReading{{Kind: "weather", Name: "temperature"}}},
		answers:     &fakeAnswers{},
		graft:       &fakeGraft{},
		cache:       &memoryCache{},
		logs:        &memoryLogs{},
	}
}

func (f *fixture) useCase(cfg conf.SearchConfig) *SearchUseCase {
	return NewSearchUseCase(cfg,
		Sources{
			Taxon:       f.taxon,
			Compound:    f.compound,
			Research:    f.research,
			Observation: f.observation,
			Semantic:    f.semantic,
			Environment: f.environment,
		},
		f.answers, f.graft, f.cache, f.logs, inlineRunner{}, logger.NewNop())
}

func (f *fixture) totalCalls() int32 {
	return f.taxon.calls.Load() + f.compound.calls.Load() + f.research.calls.Load() +
		f.observation.calls.Load() + f.semantic.calls.Load() + f.environment.calls.Load() + f.answers.calls.Load()
}

var testConfig = conf.SearchConfig{RequestTimeout: 5 * time.Second, MinQueryLength: 2, DefaultLimit: 10, MaxLimit: 50}

func TestSearch_RejectsShortQueryWithoutFanOut(t *testing.T) {
	f := newFixture()
	uc := f.useCase(testConfig)

	_, err := uc.Search(context.Background(), &types.SearchRequest{Query: " a "})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSearchQueryTooShort))

	_, err = uc.Search(context.Background(), &types.SearchRequest{Query: "   "})
	assert.True(t, apperrors.Is(err, apperrors.ErrSearchQueryRequired))

	assert.Zero(t, f.totalCalls())
}

func TestSearch_FailedSourceDoesNotAffectOthers(t *testing.T) {
	f := newFixture()
	f.taxon.unavailable = true
	uc := f.useCase(testConfig)

	resp, err := uc.Search(context.Background(), &types.SearchRequest{Query: "reishi"})
	require.NoError(t, err)

	assert.Empty(t, resp.Results.Species)
	assert.Len(t, resp.Results.LiveResults, 1)
	require.NotNil(t, resp.AIAnswer)
	assert.Equal(t, []string{source.NameTaxon}, resp.Metadata.UnavailableSources)
	assert.Equal(t, []string{source.NameObservation, answer.ProviderLocal}, resp.Metadata.ProvidersUsed)
	assert.Equal(t, []types.Compound{}, resp.Results.Compounds)
	assert.Equal(t, []types.WebResult{}, resp.Results.Web)
}

func TestSearch_BranchGating(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		compound    int32
		research    int32
		environment int32
	}{
		{"plain species", "reishi", 0, 0, 0},
		{"chemistry", "psilocybin chemistry", 1, 0, 0},
		{"news", "latest reishi news", 0, 1, 0},
		{"research category", "clinical trials on lion's mane", 0, 1, 0},
		{"weather", "weather for foraging this weekend", 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.useCase(testConfig).Search(context.Background(), &types.SearchRequest{Query: tt.query})
			require.NoError(t, err)

			assert.EqualValues(t, 1, f.taxon.calls.Load())
			assert.Equal(t, tt.compound, f.compound.calls.Load())
			assert.Equal(t, tt.research, f.research.calls.Load())
			assert.Equal(t, tt.environment, f.environment.calls.Load())
		})
	}
}

func TestSearch_CallerFlags(t *testing.T) {
	f := newFixture()
	no := false
	resp, err := f.useCase(testConfig).Search(context.Background(), &types.SearchRequest{Query: "reishi", AI: &no, Live: &no})
	require.NoError(t, err)

	assert.Nil(t, resp.AIAnswer)
	assert.Zero(t, f.answers.calls.Load())
	assert.Zero(t, f.observation.calls.Load())
	assert.Zero(t, f.semantic.calls.Load())
	assert.Zero(t, f.graft.calls.Load())
	assert.Equal(t, types.GraftingSummary{}, resp.Grafting)
}

func TestSearch_SemanticSkippedWithoutCredential(t *testing.T) {
	f := newFixture()
	f.semantic.disabled = true
	_, err := f.useCase(testConfig).Search(context.Background(), &types.SearchRequest{Query: "reishi"})
	require.NoError(t, err)
	assert.Zero(t, f.semantic.calls.Load())
}

func TestSearch_LocationOverride(t *testing.T) {
	f := newFixture()
	req := &types.SearchRequest{
		Query:     "poisonous mushrooms in San Diego",
		Location:  &types.GeoPoint{Lat: 47.6062, Lng: -122.3321},
		Interests: []string{"foraging", "toxicology"},
		Context:   "beginner",
	}
	resp, err := f.useCase(testConfig).Search(context.Background(), req)
	require.NoError(t, err)

	loc := resp.Intent.Filters.Location
	require.NotNil(t, loc)
	assert.Equal(t, 47.6062, loc.Lat)
	assert.Equal(t, -122.3321, loc.Lng)
	assert.Empty(t, loc.City)

	seen, _ := f.observation.seen()
	require.NotNil(t, seen)
	assert.Equal(t, 47.6062, seen.Filters.Location.Lat)

	p := f.answers.prompt.Load()
	require.NotNil(t, p)
	assert.Equal(t, "beginner\nUser interests: foraging, toxicology", p.Context)
}

func TestSearch_GraftDispatchedForLiveResults(t *testing.T) {
	f := newFixture()
	resp, err := f.useCase(testConfig).Search(context.Background(), &types.SearchRequest{Query: "amanita"})
	require.NoError(t, err)

	assert.EqualValues(t, 1, f.graft.calls.Load())
	assert.EqualValues(t, 1, f.graft.n.Load())
	assert.Equal(t, types.GraftingSummary{Queued: 1, BatchID: "batch-1"}, resp.Grafting)
}

func TestSearch_RequestCeilingTreatsUnsettledAsEmpty(t *testing.T) {
	f := newFixture()
	f.research.block = true
	uc := f.useCase(conf.SearchConfig{RequestTimeout: 50 * time.Millisecond})

	start := time.Now()
	resp, err := uc.Search(context.Background(), &types.SearchRequest{Query: "latest amanita research"})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Empty(t, resp.Results.Research)
	assert.Contains(t, resp.Metadata.UnavailableSources, source.NameResearch)
	assert.Len(t, resp.Results.Species, 1)
}

func TestSearch_LimitClamped(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 10},
		{-3, 10},
		{7, 7},
		{500, 50},
	}
	for _, tt := range tests {
		f := newFixture()
		_, err := f.useCase(testConfig).Search(context.Background(), &types.SearchRequest{Query: "reishi", Limit: tt.in})
		require.NoError(t, err)
		_, got := f.taxon.seen()
		assert.Equal(t, tt.want, got, "limit %d", tt.in)
	}
}

func TestSearch_CachedResponse(t *testing.T) {
	f := newFixture()
	uc := f.useCase(testConfig)

	first, err := uc.Search(context.Background(), &types.SearchRequest{Query: "reishi"})
	require.NoError(t, err)
	assert.False(t, first.Metadata.Cached)

	second, err := uc.Search(context.Background(), &types.SearchRequest{Query: "  reishi "})
	require.NoError(t, err)
	assert.True(t, second.Metadata.Cached)
	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, types.GraftingSummary{}, second.Grafting)

	assert.EqualValues(t, 1, f.taxon.calls.Load())
	assert.EqualValues(t, 1, f.graft.calls.Load())
}

func TestSearch_RecordsSearchLog(t *testing.T) {
	f := newFixture()
	ctx := logger.WithRequestID(context.Background(), "req-42")
	_, err := f.useCase(testConfig).Search(ctx, &types.SearchRequest{Query: "poisonous mushrooms in San Diego"})
	require.NoError(t, err)

	logs, err := f.logs.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "req-42", logs[0].RequestID)
	assert.Equal(t, types.CategorySpecies, logs[0].Category)
	assert.Equal(t, 2, logs[0].ResultCount)
	assert.NotEmpty(t, logs[0].ID)
}

func TestSearch_OutageIsNotCached(t *testing.T) {
	f := newFixture()
	f.taxon.unavailable = true
	uc := f.useCase(testConfig)

	first, err := uc.Search(context.Background(), &types.SearchRequest{Query: "reishi"})
	require.NoError(t, err)
	assert.Equal(t, []string{source.NameTaxon}, first.Metadata.UnavailableSources)
	assert.Zero(t, f.cache.len())

	f.taxon.unavailable = false
	second, err := uc.Search(context.Background(), &types.SearchRequest{Query: "reishi"})
	require.NoError(t, err)
	assert.False(t, second.Metadata.Cached)
	assert.Len(t, second.Results.Species, 1)
	assert.Empty(t, second.Metadata.UnavailableSources)
	assert.EqualValues(t, 2, f.taxon.calls.Load())
	assert.Equal(t, 1, f.cache.len())
}

func TestSearch_FallbackAnswerAfterProviderFailureIsNotCached(t *testing.T) {
	f := newFixture()
	f.answers.degraded.Store(true)
	uc := f.useCase(testConfig)

	_, err := uc.Search(context.Background(), &types.SearchRequest{Query: "reishi"})
	require.NoError(t, err)
	assert.Zero(t, f.cache.len())

	f.answers.degraded.Store(false)
	_, err = uc.Search(context.Background(), &types.SearchRequest{Query: "reishi"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, f.answers.calls.Load())
	assert.Equal(t, 1, f.cache.len())
}

func TestSearch_CutOffResponseIsNotCached(t *testing.T) {
	f := newFixture()
	f.research.block = true
	uc := f.useCase(conf.SearchConfig{RequestTimeout: 30 * time.Millisecond})

	_, err := uc.Search(context.Background(), &types.SearchRequest{Query: "latest amanita research"})
	require.NoError(t, err)
	assert.Zero(t, f.cache.len())
}
