package types

// Category is the coarse topic of a query
type Category string

const (
	CategorySpecies  Category = "species"
	CategoryCompound Category = "compound"
	CategoryMedia    Category = "media"
	CategoryResearch Category = "research"
	CategoryLocation Category = "location"
	CategoryGeneral  Category = "general"
)

// QueryType is the shape of answer the query asks for
type QueryType string

const (
	QueryTypeFactual        QueryType = "factual"
	QueryTypeComparison     QueryType = "comparison"
	QueryTypeList           QueryType = "list"
	QueryTypeIdentification QueryType = "identification"
	QueryTypeHowTo          QueryType = "howto"
	QueryTypeNews           QueryType = "news"
	QueryTypeDefinition     QueryType = "definition"
)

// LocationFilter is a named place or an explicit point with a search radius in km
type LocationFilter struct {
	City    string  `json:"city,omitempty"`
	State   string  `json:"state,omitempty"`
	Country string  `json:"country,omitempty"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Radius  float64 `json:"radius"`
}

// Filters are independent structured constraints pulled from the query text
type Filters struct {
	Toxicity  string          `json:"toxicity,omitempty"`
	Edibility string          `json:"edibility,omitempty"`
	Location  *LocationFilter `json:"location,omitempty"`
	Timeframe string          `json:"timeframe,omitempty"`
	MediaType string          `json:"media_type,omitempty"`
}

// SearchIntent is the structured reading of one query. It is built once per
// request and treated as read-only afterwards.
type SearchIntent struct {
	Category   Category  `json:"category"`
	QueryType  QueryType `json:"query_type"`
	Filters    Filters   `json:"filters"`
	Entities   []string  `json:"entities"`
	Keywords   []string  `json:"keywords"`
	Confidence float64   `json:"confidence"`
}

// HasKeyword reports whether any keyword equals one of words
func (i *SearchIntent) HasKeyword(words ...string) bool {
	for _, k := range i.Keywords {
		for _, w := range words {
			if k == w {
				return true
			}
		}
	}
	return false
}
