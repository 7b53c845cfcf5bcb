package types

import "time"

// Results groups the per-category source lists. Every list is present,
// empty when its branch was skipped or failed.
type Results struct {
	Species     []Species       `json:"species"`
	Compounds   []Compound      `json:"compounds"`
	Research    []ResearchPaper `json:"research"`
	LiveResults []Observation   `json:"live_results"`
	Web         []WebResult     `json:"web"`
}

// EmptyResults returns Results with every list initialized
func EmptyResults() Results {
	return Results{
		Species:     []Species{},
		Compounds:   []Compound{},
		Research:    []ResearchPaper{},
		LiveResults: []Observation{},
		Web:         []WebResult{},
	}
}

// GraftingSummary reports what was handed to the ingestion queue
type GraftingSummary struct {
	Queued  int    `json:"queued"`
	BatchID string `json:"batch_id,omitempty"`
}

type Metadata struct {
	DurationMs         int64     `json:"duration_ms"`
	ProvidersUsed      []string  `json:"providers_used"`
	UnavailableSources []string  `json:"unavailable_sources"`
	Cached             bool      `json:"cached"`
	Timestamp          time.Time `json:"timestamp"`
}

// UnifiedSearchResponse is assembled once all fan-out branches settle
type UnifiedSearchResponse struct {
	Query       string               `json:"query"`
	Intent      *SearchIntent        `json:"intent"`
	AIAnswer    *AIAnswer            `json:"ai_answer,omitempty"`
	Results     Results              `json:"results"`
	Environment []EnvironmentReading `json:"environment,omitempty"`
	Grafting    GraftingSummary      `json:"grafting"`
	Metadata    Metadata             `json:"metadata"`
}
