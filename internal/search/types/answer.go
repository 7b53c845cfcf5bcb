package types

// AIAnswer is the resolved natural-language answer
type AIAnswer struct {
	Text       string   `json:"text"`
	Provider   string   `json:"provider"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`

	// Degraded is set when the local fallback answered because a configured
	// provider failed or the chain was cut short.
	Degraded bool `json:"-"`
}
