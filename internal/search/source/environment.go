package source

import (
	"context"
	"net/url"
	"strconv"

	"github.com/mycosoft/unified-search/internal/conf"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/pkg/retry"
	"github.com/mycosoft/unified-search/internal/search/types"
)

// EnvironmentSource reads weather, device telemetry, alerts and events
type EnvironmentSource struct{ *base }

func NewEnvironmentSource(cfg conf.SourceConfig, rc retry.Config, log *logger.Logger) *EnvironmentSource {
	return &EnvironmentSource{newBase(NameEnvironment, cfg, rc, log)}
}

func (s *EnvironmentSource) Fetch(ctx context.Context, query string, intent *types.SearchIntent, limit int) types.SourceResult[types.EnvironmentReading] {
	return run(ctx, s.base, func(ctx context.Context) ([]types.EnvironmentReading, error) {
		params := url.Values{}
		params.Set("q", query)
		if intent != nil && intent.Filters.Location != nil {
			params.Set("lat", strconv.FormatFloat(intent.Filters.Location.Lat, 'f', -1, 64))
			params.Set("lng", strconv.FormatFloat(intent.Filters.Location.Lng, 'f', -1, 64))
		}

		body, err := s.getJSON(ctx, "/api/environment", params, nil)
		if err != nil {
			return nil, err
		}
		if !body.IsObject() {
			return nil, &UpstreamError{Source: s.name, Reason: "unexpected payload shape"}
		}

		var out []types.EnvironmentReading
		w := body.Get("weather")
		if !w.Exists() {
			w = body.Get("conditions")
		}
		if w.IsObject() {
			ts := str(w, "timestamp", "updated_at", "time")
			if w.Get("temperature").Exists() || w.Get("temp").Exists() || w.Get("temperature_c").Exists() {
				out = append(out, types.EnvironmentReading{
					Kind: "weather", Name: "temperature",
					Value: num(w, "temperature_c", "temperature", "temp"), Unit: "C", Timestamp: ts,
				})
			}
			if w.Get("humidity").Exists() {
				out = append(out, types.EnvironmentReading{
					Kind: "weather", Name: "humidity", Value: num(w, "humidity"), Unit: "%", Timestamp: ts,
				})
			}
			if c := str(w, "conditions", "description", "summary"); c != "" {
				out = append(out, types.EnvironmentReading{Kind: "weather", Name: "conditions", Status: c, Timestamp: ts})
			}
		}

		for _, d := range list(body, "devices", "sensors") {
			out = append(out, types.EnvironmentReading{
				Kind:      "device",
				Name:      str(d, "name", "device_name", "id", "device_id"),
				Value:     num(d, "value", "reading"),
				Unit:      str(d, "unit"),
				Status:    str(d, "status", "state"),
				Timestamp: str(d, "last_seen", "timestamp"),
			})
		}
		for _, a := range list(body, "alerts", "warnings") {
			out = append(out, types.EnvironmentReading{
				Kind:      "alert",
				Name:      str(a, "title", "name", "type"),
				Status:    str(a, "level", "severity"),
				Message:   str(a, "message", "description"),
				Timestamp: str(a, "issued_at", "timestamp"),
			})
		}
		for _, e := range list(body, "events") {
			out = append(out, types.EnvironmentReading{
				Kind:      "event",
				Name:      str(e, "name", "title"),
				Message:   str(e, "description", "summary"),
				Timestamp: str(e, "date", "start", "starts_at"),
			})
		}

		if len(out) > clampLimit(limit)*4 {
			out = out[:clampLimit(limit)*4]
		}
		return out, nil
	})
}
