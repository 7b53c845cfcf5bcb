// Package intent turns a free-text query into a SearchIntent. Classification
// is pure and deterministic: no I/O and no minimum-length guard, callers
// reject short queries before they get here.
package intent

import (
	"math"
	"strconv"
	"strings"

	"github.com/mycosoft/unified-search/internal/search/types"
)

const (
	baseConfidence      = 0.5
	confidencePerEntity = 0.1
)

// Classify builds the intent for query
func Classify(query string) *types.SearchIntent {
	q := strings.ToLower(strings.TrimSpace(query))

	filters := extractFilters(q)
	entities := extractEntities(query)

	return &types.SearchIntent{
		Category:   classifyCategory(q, &filters),
		QueryType:  classifyQueryType(q),
		Filters:    filters,
		Entities:   entities,
		Keywords:   extractKeywords(q),
		Confidence: confidence(len(entities)),
	}
}

func classifyCategory(q string, f *types.Filters) types.Category {
	for _, rule := range categoryRules {
		if rule.match(q, f) {
			return rule.category
		}
	}
	return types.CategoryGeneral
}

func classifyQueryType(q string) types.QueryType {
	for _, rule := range queryTypeRules {
		if rule.pattern.MatchString(q) {
			return rule.queryType
		}
	}
	return types.QueryTypeFactual
}

func extractFilters(q string) types.Filters {
	return types.Filters{
		Toxicity:  firstValue(toxicityRules, q),
		Edibility: firstValue(edibilityRules, q),
		Location:  extractLocation(q),
		Timeframe: firstValue(timeframeRules, q),
		MediaType: firstValue(mediaTypeRules, q),
	}
}

func firstValue(rules []valueRule, q string) string {
	for _, r := range rules {
		if r.pattern.MatchString(q) {
			return r.value
		}
	}
	return ""
}

// extractLocation prefers explicit coordinates, then a known city, then a state
func extractLocation(q string) *types.LocationFilter {
	if m := coordinatePattern.FindStringSubmatch(q); m != nil {
		lat, errLat := strconv.ParseFloat(m[1], 64)
		lng, errLng := strconv.ParseFloat(m[2], 64)
		if errLat == nil && errLng == nil && math.Abs(lat) <= 90 && math.Abs(lng) <= 180 {
			return &types.LocationFilter{Lat: lat, Lng: lng, Radius: coordinateRadiusKm}
		}
	}

	padded := " " + strings.Join(tokenPattern.FindAllString(q, -1), " ") + " "
	for _, table := range [][]place{cities, states} {
		for _, p := range table {
			if strings.Contains(padded, " "+p.name+" ") {
				return p.filter()
			}
		}
	}
	return nil
}

// extractEntities concatenates the matches of every entity pattern in pattern
// order. Matches keep the caller's casing and duplicates are kept.
func extractEntities(query string) []string {
	entities := []string{}
	for _, p := range entityPatterns {
		entities = append(entities, p.FindAllString(query, -1)...)
	}
	return entities
}

func extractKeywords(q string) []string {
	keywords := []string{}
	for _, tok := range tokenPattern.FindAllString(q, -1) {
		if len(tok) < 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		keywords = append(keywords, tok)
	}
	return keywords
}

func confidence(entities int) float64 {
	c := baseConfidence + confidencePerEntity*float64(entities)
	if c > 1 {
		c = 1
	}
	return math.Round(c*100) / 100
}
