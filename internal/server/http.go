package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mycosoft/unified-search/internal/conf"
	"github.com/mycosoft/unified-search/internal/data"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/pkg/metrics"
	"github.com/mycosoft/unified-search/internal/pkg/response"
	"github.com/mycosoft/unified-search/internal/pkg/workerpool"
	searchservice "github.com/mycosoft/unified-search/internal/search/service"
	trendservice "github.com/mycosoft/unified-search/internal/trend/service"
)

type HTTPServer struct {
	server *http.Server
	logger *logger.Logger
}

func NewHTTPServer(
	config *conf.Config,
	log *logger.Logger,
	d *data.Data,
	pool *workerpool.Pool,
	searchService *searchservice.SearchService,
	trendService *trendservice.TrendService,
) *HTTPServer {
	gin.SetMode(config.Server.Mode)

	router := NewRouter(log, d, pool, searchService, trendService)

	return &HTTPServer{
		server: &http.Server{
			Addr:         config.Server.Addr(),
			Handler:      router,
			ReadTimeout:  config.Server.ReadTimeout,
			WriteTimeout: config.Server.WriteTimeout,
		},
		logger: log,
	}
}

// NewRouter builds the gin engine with every route mounted
func NewRouter(
	log *logger.Logger,
	d *data.Data,
	pool *workerpool.Pool,
	searchService *searchservice.SearchService,
	trendService *trendservice.TrendService,
) *gin.Engine {
	router := gin.New()
	router.Use(logger.GinRecovery(log))
	router.Use(logger.GinLoggerWithConfig(log, logger.MiddlewareOptions{
		SkipPaths: []string{"/health", "/metrics"},
	}))
	router.Use(MetricsMiddleware())

	router.GET("/health", healthHandler(d, pool))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/search")
	searchService.RegisterRoutes(api)
	trendService.RegisterRoutes(api)

	router.NoRoute(response.NotFound)

	return router
}

func (s *HTTPServer) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// MetricsMiddleware records one observation per request, keyed on the route template
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

func healthHandler(d *data.Data, pool *workerpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{}
		if d != nil && d.DB != nil {
			checks["database"] = healthStatus(d.DB.HealthCheck(ctx), &status)
		}
		if d != nil && d.Redis != nil {
			checks["redis"] = healthStatus(d.Redis.Ping(ctx), &status)
		}

		body := gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
			"checks": checks,
		}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		if pool != nil {
			stats := pool.Stats()
			body["workers"] = gin.H{
				"running":   pool.Running(),
				"capacity":  pool.Cap(),
				"submitted": stats.Submitted,
				"rejected":  stats.Rejected,
			}
		}
		c.JSON(status, body)
	}
}

func healthStatus(err error, status *int) string {
	if err != nil {
		*status = http.StatusServiceUnavailable
		return err.Error()
	}
	return "ok"
}
