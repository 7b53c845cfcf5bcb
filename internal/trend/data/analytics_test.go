package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycosoft/unified-search/internal/conf"
	"github.com/mycosoft/unified-search/internal/trend/types"
)

func TestAnalyticsRepo_Trends(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, trendsPath, r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "species", r.URL.Query().Get("category"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"trends":[
			{"term":"reishi","category":"species","count":12,"change":4.5},
			{"query":"death cap","searches":7,"change":-1},
			{"count":3}
		]}`))
	}))
	defer srv.Close()

	repo := NewAnalyticsRepo(conf.TrendsConfig{BaseURL: srv.URL, Timeout: time.Second})
	trends, err := repo.Trends(context.Background(), 5, "species")
	require.NoError(t, err)

	assert.Equal(t, []types.Trend{
		{Term: "reishi", Category: "species", Count: 12, Change: 4.5, Direction: "up"},
		{Term: "death cap", Category: "general", Count: 7, Change: -1, Direction: "down"},
	}, trends)
}

func TestAnalyticsRepo_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) }},
		{"malformed", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"trends":`)) }},
		{"no list", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"ok":true}`)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewAnalyticsRepo(conf.TrendsConfig{BaseURL: srv.URL, Timeout: time.Second}).
				Trends(context.Background(), 10, "")
			assert.Error(t, err)
		})
	}

	_, err := NewAnalyticsRepo(conf.TrendsConfig{}).Trends(context.Background(), 10, "")
	assert.Error(t, err)
}
