package biz

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mycosoft/unified-search/internal/conf"
	apperrors "github.com/mycosoft/unified-search/internal/pkg/errors"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/search/answer"
	"github.com/mycosoft/unified-search/internal/search/intent"
	"github.com/mycosoft/unified-search/internal/search/source"
	"github.com/mycosoft/unified-search/internal/search/types"
)

// overrideRadiusKm applies to a caller-supplied point
const overrideRadiusKm = 50

var (
	chemistryTerms = []string{
		"compound", "compounds", "chemical", "chemicals", "chemistry", "molecule", "molecules",
		"molecular", "alkaloid", "alkaloids", "toxin", "toxins", "metabolite", "metabolites",
		"psilocybin", "psilocin", "muscimol", "cordycepin", "ergosterol", "amatoxin", "amatoxins",
	}
	environmentTerms = []string{
		"weather", "temperature", "humidity", "rain", "rainfall", "climate", "forecast", "storm",
		"wind", "event", "events", "device", "devices", "sensor", "sensors", "alert", "alerts",
		"wildfire", "earthquake", "air", "soil",
	}
)

// Sources are the adapters the orchestrator fans out to
type Sources struct {
	Taxon       source.Fetcher[types.Species]
	Compound    source.Fetcher[types.Compound]
	Research    source.Fetcher[types.ResearchPaper]
	Observation source.Fetcher[types.Observation]
	Semantic    source.Fetcher[types.WebResult]
	Environment source.Fetcher[types.EnvironmentReading]
}

// AnswerResolver produces the AI answer; it never returns nil
type AnswerResolver interface {
	Resolve(ctx context.Context, p *answer.Prompt) *types.AIAnswer
}

// GraftQueue accepts observations for background ingestion
type GraftQueue interface {
	Enqueue(ctx context.Context, observations []types.Observation) types.GraftingSummary
}

// Runner schedules fire-and-forget work
type Runner interface {
	Go(name string, task func())
}

// SearchUseCase aggregates every source into one response
type SearchUseCase struct {
	config  conf.SearchConfig
	sources Sources
	answers AnswerResolver
	graft   GraftQueue
	cache   ResponseCache
	logs    SearchLogRepo
	runner  Runner
	logger  *logger.Logger
}

// NewSearchUseCase wires the orchestrator. cache, logs and runner are optional.
func NewSearchUseCase(
	cfg conf.SearchConfig,
	sources Sources,
	answers AnswerResolver,
	graft GraftQueue,
	cache ResponseCache,
	logs SearchLogRepo,
	runner Runner,
	log *logger.Logger,
) *SearchUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &SearchUseCase{
		config:  cfg,
		sources: sources,
		answers: answers,
		graft:   graft,
		cache:   cache,
		logs:    logs,
		runner:  runner,
		logger:  log.Named("search"),
	}
}

// fanout holds what each branch produced. Every field is written by exactly
// one branch and read only after the join.
type fanout struct {
	species     types.SourceResult[types.Species]
	compounds   types.SourceResult[types.Compound]
	research    types.SourceResult[types.ResearchPaper]
	live        types.SourceResult[types.Observation]
	web         types.SourceResult[types.WebResult]
	environment types.SourceResult[types.EnvironmentReading]
	answer      *types.AIAnswer

	launched []string
	// cutOff is set when the request ceiling or the caller ended the fan-out
	cutOff bool
}

// Search validates the request, fans out to every applicable branch, waits
// for all of them and assembles the response.
func (uc *SearchUseCase) Search(ctx context.Context, req *types.SearchRequest) (*types.UnifiedSearchResponse, error) {
	start := time.Now()

	query := req.TrimmedQuery()
	if query == "" {
		return nil, apperrors.New(apperrors.ErrSearchQueryRequired)
	}
	if utf8.RuneCountInString(query) < uc.minQueryLength() {
		return nil, apperrors.New(apperrors.ErrSearchQueryTooShort)
	}

	normalized := *req
	normalized.Query = query
	normalized.Limit = uc.limit(req.Limit)

	log := uc.logger.WithContext(ctx).With(zap.String("query", query))

	if uc.cache != nil {
		if cached, ok := uc.cache.Get(ctx, &normalized); ok {
			cached.Metadata.Cached = true
			cached.Grafting = types.GraftingSummary{}
			cached.Metadata.DurationMs = time.Since(start).Milliseconds()
			cached.Metadata.Timestamp = time.Now().UTC()
			log.Debug("search served from cache")
			return cached, nil
		}
	}

	in := intent.Classify(query)
	if req.Location != nil {
		in.Filters.Location = &types.LocationFilter{
			Lat:    req.Location.Lat,
			Lng:    req.Location.Lng,
			Radius: overrideRadiusKm,
		}
	}

	out := uc.fanOut(ctx, &normalized, in)

	resp := &types.UnifiedSearchResponse{
		Query:    query,
		Intent:   in,
		AIAnswer: out.answer,
		Results: types.Results{
			Species:     out.species.Items,
			Compounds:   out.compounds.Items,
			Research:    out.research.Items,
			LiveResults: out.live.Items,
			Web:         out.web.Items,
		},
		Environment: out.environment.Items,
		Metadata: types.Metadata{
			ProvidersUsed:      out.providersUsed(),
			UnavailableSources: out.unavailable(),
			Timestamp:          time.Now().UTC(),
		},
	}

	if uc.graft != nil && len(resp.Results.LiveResults) > 0 {
		resp.Grafting = uc.graft.Enqueue(ctx, resp.Results.LiveResults)
	}
	resp.Metadata.DurationMs = time.Since(start).Milliseconds()

	log.Info("search completed",
		zap.String("category", string(in.Category)),
		zap.Strings("launched", out.launched),
		zap.Strings("providers_used", resp.Metadata.ProvidersUsed),
		zap.Strings("unavailable", resp.Metadata.UnavailableSources),
		zap.Int64("duration_ms", resp.Metadata.DurationMs),
	)

	switch {
	case uc.cache == nil:
	case out.degraded():
		log.Debug("degraded response not cached")
	default:
		uc.cache.Set(ctx, &normalized, resp)
	}
	uc.record(ctx, resp)

	return resp, nil
}

func (uc *SearchUseCase) fanOut(ctx context.Context, req *types.SearchRequest, in *types.SearchIntent) *fanout {
	timeout := uc.config.RequestTimeout
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	query, limit := req.Query, req.Limit
	out := &fanout{
		species:     types.OK[types.Species](nil),
		compounds:   types.OK[types.Compound](nil),
		research:    types.OK[types.ResearchPaper](nil),
		live:        types.OK[types.Observation](nil),
		web:         types.OK[types.WebResult](nil),
		environment: types.OK[types.EnvironmentReading](nil),
	}

	var g errgroup.Group
	launch := func(name string, fn func()) {
		out.launched = append(out.launched, name)
		g.Go(func() error {
			fn()
			return nil
		})
	}

	s := uc.sources
	if enabled(s.Taxon) {
		launch(s.Taxon.Name(), func() {
			out.species = s.Taxon.Fetch(ctx, query, in, limit)
		})
	}
	if enabled(s.Compound) && wantsCompounds(in) {
		launch(s.Compound.Name(), func() {
			out.compounds = s.Compound.Fetch(ctx, query, in, limit)
		})
	}
	if enabled(s.Research) && wantsResearch(in) {
		launch(s.Research.Name(), func() {
			out.research = s.Research.Fetch(ctx, query, in, limit)
		})
	}
	if req.LiveEnabled() {
		if enabled(s.Observation) {
			launch(s.Observation.Name(), func() {
				out.live = s.Observation.Fetch(ctx, query, in, limit)
			})
		}
		if enabled(s.Semantic) {
			launch(s.Semantic.Name(), func() {
				out.web = s.Semantic.Fetch(ctx, query, in, limit)
			})
		}
	}
	if enabled(s.Environment) && wantsEnvironment(in) {
		launch(s.Environment.Name(), func() {
			out.environment = s.Environment.Fetch(ctx, query, in, limit)
		})
	}
	if req.AIEnabled() && uc.answers != nil {
		launch("answer", func() {
			out.answer = uc.answers.Resolve(ctx, &answer.Prompt{Query: query, Context: req.AIContext(), Intent: in})
		})
	}

	// Branches honour ctx, so Wait returns soon after the ceiling fires.
	_ = g.Wait()
	out.cutOff = ctx.Err() != nil
	return out
}

// providersUsed lists, in a fixed order, the branches that returned data
func (f *fanout) providersUsed() []string {
	used := []string{}
	add := func(name string, n int) {
		if n > 0 {
			used = append(used, name)
		}
	}
	add(source.NameTaxon, len(f.species.Items))
	add(source.NameCompound, len(f.compounds.Items))
	add(source.NameResearch, len(f.research.Items))
	add(source.NameObservation, len(f.live.Items))
	add(source.NameSemantic, len(f.web.Items))
	add(source.NameEnvironment, len(f.environment.Items))
	if f.answer != nil {
		used = append(used, f.answer.Provider)
	}
	return used
}

// degraded reports a response that reflects an outage rather than the data,
// which must not outlive the outage in the cache.
func (f *fanout) degraded() bool {
	if f.cutOff || len(f.unavailable()) > 0 {
		return true
	}
	return f.answer != nil && f.answer.Degraded
}

func (f *fanout) unavailable() []string {
	out := []string{}
	add := func(name string, down bool) {
		if down {
			out = append(out, name)
		}
	}
	add(source.NameTaxon, f.species.Unavailable)
	add(source.NameCompound, f.compounds.Unavailable)
	add(source.NameResearch, f.research.Unavailable)
	add(source.NameObservation, f.live.Unavailable)
	add(source.NameSemantic, f.web.Unavailable)
	add(source.NameEnvironment, f.environment.Unavailable)
	return out
}

func (uc *SearchUseCase) record(ctx context.Context, resp *types.UnifiedSearchResponse) {
	if uc.logs == nil || uc.runner == nil {
		return
	}
	r := resp.Results
	entry := &SearchLog{
		ID:                 uuid.NewString(),
		RequestID:          logger.GetRequestID(ctx),
		Query:              resp.Query,
		Category:           resp.Intent.Category,
		QueryType:          resp.Intent.QueryType,
		Keywords:           resp.Intent.Keywords,
		ProvidersUsed:      resp.Metadata.ProvidersUsed,
		UnavailableSources: resp.Metadata.UnavailableSources,
		ResultCount:        len(r.Species) + len(r.Compounds) + len(r.Research) + len(r.LiveResults) + len(r.Web),
		DurationMs:         resp.Metadata.DurationMs,
		CreatedAt:          resp.Metadata.Timestamp,
	}
	detached := logger.DetachedContext(ctx)
	uc.runner.Go("search_log", func() {
		ctx, cancel := context.WithTimeout(detached, 5*time.Second)
		defer cancel()
		if err := uc.logs.Record(ctx, entry); err != nil {
			uc.logger.WithContext(ctx).Warn("failed to record search log", zap.String("query", entry.Query), zap.Error(err))
		}
	})
}

func (uc *SearchUseCase) minQueryLength() int {
	if uc.config.MinQueryLength > 0 {
		return uc.config.MinQueryLength
	}
	return 2
}

func (uc *SearchUseCase) limit(n int) int {
	def, max := uc.config.DefaultLimit, uc.config.MaxLimit
	if def <= 0 {
		def = 10
	}
	if max <= 0 {
		max = 50
	}
	switch {
	case n <= 0:
		return def
	case n > max:
		return max
	default:
		return n
	}
}

func enabled[T any](f source.Fetcher[T]) bool {
	return f != nil && f.Enabled()
}

func wantsCompounds(in *types.SearchIntent) bool {
	return in.Category == types.CategoryCompound || in.HasKeyword(chemistryTerms...)
}

func wantsResearch(in *types.SearchIntent) bool {
	return in.QueryType == types.QueryTypeNews || in.Category == types.CategoryResearch
}

func wantsEnvironment(in *types.SearchIntent) bool {
	return in.HasKeyword(environmentTerms...)
}
