package service

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
	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/trend/biz"
	"github.com/mycosoft/unified-search/internal/trend/data"
	"github.com/mycosoft/unified-search/internal/trend/types"
)

func TestGetTrends_UpstreamDownStill200(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	repo := data.NewAnalyticsRepo(conf.TrendsConfig{BaseURL: upstream.URL, Timeout: time.Second})
	uc := biz.NewTrendUseCase(repo, nil, time.Second, logger.NewNop())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewTrendService(uc, logger.NewNop()).RegisterRoutes(r.Group("/api/search"))

	tests := []struct {
		url       string
		wantCount int
	}{
		{"/api/search/trends", biz.DefaultLimit},
		{"/api/search/trends?limit=3", 3},
		{"/api/search/trends?limit=abc", biz.DefaultLimit},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))
			require.Equal(t, http.StatusOK, w.Code)

			var body struct {
				Code int             `json:"code"`
				Data types.TrendList `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, 0, body.Code)
			assert.Equal(t, types.SourceFallback, body.Data.Source)
			assert.Len(t, body.Data.Trends, tt.wantCount)
		})
	}
}
