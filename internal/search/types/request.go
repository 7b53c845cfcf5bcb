package types

import "strings"

// GeoPoint is a caller-supplied location override
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SearchRequest is the normalized input of both entry variants
type SearchRequest struct {
	Query     string    `json:"query"`
	Context   string    `json:"context,omitempty"`
	Interests []string  `json:"interests,omitempty"`
	Location  *GeoPoint `json:"location,omitempty"`
	AI        *bool     `json:"ai,omitempty"`
	Live      *bool     `json:"live,omitempty"`
	Limit     int       `json:"limit,omitempty"`
}

// AIEnabled defaults to true
func (r *SearchRequest) AIEnabled() bool {
	return r.AI == nil || *r.AI
}

// LiveEnabled defaults to true
func (r *SearchRequest) LiveEnabled() bool {
	return r.Live == nil || *r.Live
}

// TrimmedQuery returns the query without surrounding whitespace
func (r *SearchRequest) TrimmedQuery() string {
	return strings.TrimSpace(r.Query)
}

// AIContext joins the free-text context with the interest tags
func (r *SearchRequest) AIContext() string {
	ctx := strings.TrimSpace(r.Context)
	if len(r.Interests) == 0 {
		return ctx
	}
	tags := "User interests: " + strings.Join(r.Interests, ", ")
	if ctx == "" {
		return tags
	}
	return ctx + "\n" + tags
}
