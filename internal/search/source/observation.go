package source

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mycosoft/unified-search/internal/conf"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/pkg/retry"
	"github.com/mycosoft/unified-search/internal/search/types"
)

const observationSource = "inaturalist"

// ObservationSource queries the public biodiversity observation service for
// recent fungi sightings, optionally around a point.
type ObservationSource struct{ *base }

func NewObservationSource(cfg conf.SourceConfig, rc retry.Config, log *logger.Logger) *ObservationSource {
	return &ObservationSource{newBase(NameObservation, cfg, rc, log)}
}

func (s *ObservationSource) Fetch(ctx context.Context, query string, intent *types.SearchIntent, limit int) types.SourceResult[types.Observation] {
	return run(ctx, s.base, func(ctx context.Context) ([]types.Observation, error) {
		body, err := s.getJSON(ctx, "/v1/observations", observationParams(query, intent, limit), nil)
		if err != nil {
			return nil, err
		}

		records := limited(list(body, "results"), clampLimit(limit))
		out := make([]types.Observation, 0, len(records))
		for _, r := range records {
			o := types.Observation{
				ID:             str(r, "id", "uuid"),
				ScientificName: str(r, "taxon.name", "species_guess", "scientific_name"),
				CommonName:     str(r, "taxon.preferred_common_name", "common_name"),
				PlaceGuess:     str(r, "place_guess", "location_name"),
				ObservedOn:     str(r, "observed_on", "observed_on_string", "time_observed_at"),
				QualityGrade:   str(r, "quality_grade"),
				ImageURL:       photoURL(r),
				URL:            str(r, "uri", "url"),
				Source:         observationSource,
			}
			o.Lat, o.Lng = coordinates(r)
			o.Toxic = IsHazardous(o.ScientificName)
			out = append(out, o)
		}
		return out, nil
	})
}

func observationParams(query string, intent *types.SearchIntent, limit int) url.Values {
	params := url.Values{}
	params.Set("iconic_taxa", "Fungi")
	params.Set("per_page", strconv.Itoa(clampLimit(limit)))
	params.Set("order_by", "observed_on")
	params.Set("photos", "true")

	if intent != nil && len(intent.Entities) > 0 {
		params.Set("taxon_name", taxonName(intent.Entities))
	} else if intent == nil || intent.Filters.Location == nil {
		params.Set("q", query)
	}

	if intent != nil && intent.Filters.Location != nil {
		loc := intent.Filters.Location
		params.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
		params.Set("lng", strconv.FormatFloat(loc.Lng, 'f', -1, 64))
		radius := loc.Radius
		if radius <= 0 {
			radius = 50
		}
		params.Set("radius", strconv.FormatFloat(radius, 'f', -1, 64))
	}
	return params
}

// taxonName prefers a binomial of the leading genus over the bare genus
func taxonName(entities []string) string {
	genus := entities[0]
	for _, e := range entities[1:] {
		words := strings.Fields(e)
		if len(words) == 2 && strings.EqualFold(words[0], genus) {
			return e
		}
	}
	return genus
}

// coordinates reads geojson [lng, lat] or a "lat,lng" location string
func coordinates(r gjson.Result) (float64, float64) {
	if c := r.Get("geojson.coordinates"); c.IsArray() && len(c.Array()) == 2 {
		return c.Array()[1].Float(), c.Array()[0].Float()
	}
	if loc := str(r, "location"); loc != "" {
		parts := strings.Split(loc, ",")
		if len(parts) == 2 {
			lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if err1 == nil && err2 == nil {
				return lat, lng
			}
		}
	}
	return num(r, "latitude", "lat"), num(r, "longitude", "lng")
}

func photoURL(r gjson.Result) string {
	u := str(r, "photos.0.url", "taxon.default_photo.medium_url", "image_url")
	return strings.Replace(u, "/square.", "/medium.", 1)
}
