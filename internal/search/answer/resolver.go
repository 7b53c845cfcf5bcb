// Package answer resolves a natural-language answer through an ordered chain
// of providers. The chain always ends at the local knowledge base, so
// Resolve never returns an empty answer.
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/pkg/metrics"
	"github.com/mycosoft/unified-search/internal/search/types"
)

var (
	// ErrNoCredential marks a provider that is not configured; the chain skips it
	ErrNoCredential = errors.New("answer: provider credential not configured")
	ErrEmptyAnswer  = errors.New("answer: provider returned an empty answer")
)

const defaultStepTimeout = 15 * time.Second

// Prompt is the input handed to every provider
type Prompt struct {
	Query   string
	Context string
	Intent  *types.SearchIntent
}

// Reply is a provider's raw answer
type Reply struct {
	Text    string
	Sources []string
}

// Step is one link of the chain
type Step struct {
	Name       string
	Confidence float64
	Timeout    time.Duration
	Call       func(ctx context.Context, p *Prompt) (*Reply, error)
}

// Resolver walks the steps in order and stops at the first usable answer.
// Providers are tried one at a time since each call may cost money.
type Resolver struct {
	steps  []Step
	local  *LocalKnowledge
	logger *logger.Logger
}

func NewResolver(steps []Step, local *LocalKnowledge, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewNop()
	}
	if local == nil {
		local = MustLocalKnowledge()
	}
	return &Resolver{steps: steps, local: local, logger: log.Named("answer")}
}

// Resolve returns the first successful provider answer, or the local
// knowledge answer once every provider is skipped or has failed.
func (r *Resolver) Resolve(ctx context.Context, p *Prompt) *types.AIAnswer {
	log := r.logger.WithContext(ctx)

	degraded := false
	for _, step := range r.steps {
		if ctx.Err() != nil {
			log.Warn("answer chain interrupted", zap.String("next_provider", step.Name), zap.Error(ctx.Err()))
			degraded = true
			break
		}

		start := time.Now()
		reply, err := r.try(ctx, step, p)
		switch {
		case errors.Is(err, ErrNoCredential):
			metrics.RecordAnswerAttempt(step.Name, "skipped")
			log.Debug("answer provider skipped", zap.String("provider", step.Name))
			continue
		case err != nil:
			degraded = true
			metrics.RecordAnswerAttempt(step.Name, "failed")
			log.Warn("answer provider failed",
				zap.String("provider", step.Name),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)
			continue
		}

		metrics.RecordAnswerAttempt(step.Name, "answered")
		log.Info("answer resolved",
			zap.String("provider", step.Name),
			zap.Duration("elapsed", time.Since(start)),
		)
		sources := reply.Sources
		if sources == nil {
			sources = []string{}
		}
		return &types.AIAnswer{
			Text:       reply.Text,
			Provider:   step.Name,
			Confidence: step.Confidence,
			Sources:    sources,
		}
	}

	metrics.RecordAnswerAttempt(ProviderLocal, "answered")
	ans := r.local.Answer(p.Query, p.Intent)
	ans.Degraded = degraded
	return ans
}

func (r *Resolver) try(ctx context.Context, step Step, p *Prompt) (reply *Reply, err error) {
	timeout := step.Timeout
	if timeout <= 0 {
		timeout = defaultStepTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("answer: provider %s panicked: %v", step.Name, rec)
		}
	}()

	reply, err = step.Call(ctx, p)
	if err != nil {
		return nil, err
	}
	if reply == nil || strings.TrimSpace(reply.Text) == "" {
		return nil, ErrEmptyAnswer
	}
	reply.Text = strings.TrimSpace(reply.Text)
	return reply, nil
}

// userMessage renders the prompt for chat-style providers
func userMessage(p *Prompt) string {
	var b strings.Builder
	b.WriteString(p.Query)
	if p.Context != "" {
		b.WriteString("\n\nContext: ")
		b.WriteString(p.Context)
	}
	if p.Intent != nil {
		if len(p.Intent.Entities) > 0 {
			b.WriteString("\nRecognized names: ")
			b.WriteString(strings.Join(p.Intent.Entities, ", "))
		}
		if loc := p.Intent.Filters.Location; loc != nil && loc.City != "" {
			b.WriteString("\nLocation: ")
			b.WriteString(loc.City)
		}
	}
	return b.String()
}

const systemPrompt = "You are a concise mycology and environmental science assistant. " +
	"Answer in two to four sentences. State toxicity risks plainly and never encourage eating an unidentified wild mushroom."
