package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycosoft/unified-search/internal/conf"
	apperrors "github.com/mycosoft/unified-search/internal/pkg/errors"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/pkg/response"
	"github.com/mycosoft/unified-search/internal/pkg/workerpool"
	searchbiz "github.com/mycosoft/unified-search/internal/search/biz"
	searchservice "github.com/mycosoft/unified-search/internal/search/service"
	trendbiz "github.com/mycosoft/unified-search/internal/trend/biz"
	trendservice "github.com/mycosoft/unified-search/internal/trend/service"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()

	pool, err := workerpool.New(&workerpool.Config{Size: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Shutdown(time.Second) })

	search := searchbiz.NewSearchUseCase(conf.SearchConfig{MinQueryLength: 2}, searchbiz.Sources{}, nil, nil, nil, nil, pool, log)
	trends := trendbiz.NewTrendUseCase(nil, nil, time.Second, log)

	return NewRouter(log, nil, pool,
		searchservice.NewSearchService(search, log),
		trendservice.NewTrendService(trends, log))
}

func TestRouter_Health(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "workers")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_Routes(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/search/unified?q=a", http.StatusBadRequest},
		{http.MethodGet, "/api/search/unified?q=reishi&ai=false", http.StatusOK},
		{http.MethodGet, "/api/search/trends", http.StatusOK},
		{http.MethodGet, "/api/search/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRouter_UnknownRouteEnvelope(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nothing", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperrors.ErrNotFound, body.Code)
	assert.Equal(t, "Resource not found: GET /api/nothing", body.Message)
}

func TestRouter_Metrics(t *testing.T) {
	r := setupRouter(t)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/search/trends", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "unified_search_http_requests_total")
}
