package source

import (
	"context"
	"strings"

	"github.com/mycosoft/unified-search/internal/conf"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/pkg/retry"
	"github.com/mycosoft/unified-search/internal/search/types"
)

// SemanticSource is the neural web search adapter. It needs an API key.
type SemanticSource struct{ *base }

func NewSemanticSource(cfg conf.SourceConfig, rc retry.Config, log *logger.Logger) *SemanticSource {
	b := newBase(NameSemantic, cfg, rc, log)
	b.requiresKey = true
	return &SemanticSource{b}
}

type semanticRequest struct {
	Query      string                 `json:"query"`
	NumResults int                    `json:"numResults"`
	Type       string                 `json:"type"`
	Contents   map[string]interface{} `json:"contents,omitempty"`
}

func (s *SemanticSource) Fetch(ctx context.Context, query string, _ *types.SearchIntent, limit int) types.SourceResult[types.WebResult] {
	if !s.Enabled() {
		return types.OK[types.WebResult](nil)
	}

	return run(ctx, s.base, func(ctx context.Context) ([]types.WebResult, error) {
		req := semanticRequest{
			Query:      query,
			NumResults: clampLimit(limit),
			Type:       "auto",
			Contents: map[string]interface{}{
				"text": map[string]int{"maxCharacters": 500},
			},
		}

		body, err := s.postJSON(ctx, "/search", req, map[string]string{"x-api-key": s.config.APIKey})
		if err != nil {
			return nil, err
		}

		records := limited(list(body, "results", "data"), clampLimit(limit))
		out := make([]types.WebResult, 0, len(records))
		for _, r := range records {
			w := types.WebResult{
				Title:         str(r, "title"),
				URL:           str(r, "url", "id"),
				Snippet:       strings.TrimSpace(str(r, "text", "summary", "highlights.0", "snippet")),
				Score:         num(r, "score"),
				PublishedDate: str(r, "publishedDate", "published_date"),
				Author:        str(r, "author"),
			}
			if w.URL == "" {
				continue
			}
			w.Snippet = truncate(w.Snippet, 500)
			out = append(out, w)
		}
		return out, nil
	})
}
