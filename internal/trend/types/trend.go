package types

import "time"

const (
	SourceLive     = "live"
	SourceHistory  = "history"
	SourceFallback = "fallback"
)

// Trend is one popular search topic
type Trend struct {
	Term      string  `json:"term"`
	Category  string  `json:"category"`
	Count     int     `json:"count"`
	Change    float64 `json:"change"`
	Direction string  `json:"direction"`
}

// TrendList is the trends response. Source tells whether the list came from
// the analytics service, the local search history or the built-in fallback.
type TrendList struct {
	Trends    []Trend   `json:"trends"`
	Source    string    `json:"source"`
	Category  string    `json:"category,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
