package service

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/pkg/response"
	"github.com/mycosoft/unified-search/internal/trend/biz"
	"github.com/mycosoft/unified-search/internal/trend/types"
)

// TrendProvider is implemented by *biz.TrendUseCase
type TrendProvider interface {
	GetTrends(ctx context.Context, limit int, category string) *types.TrendList
}

// TrendService trends HTTP service
type TrendService struct {
	uc     TrendProvider
	logger *logger.Logger
}

func NewTrendService(uc TrendProvider, logger *logger.Logger) *TrendService {
	return &TrendService{
		uc:     uc,
		logger: logger,
	}
}

func (s *TrendService) RegisterRoutes(r gin.IRouter) {
	r.GET("/trends", s.GetTrends)
}

// GetTrends GET /api/search/trends. Always 200; a bad limit falls back to the default.
func (s *TrendService) GetTrends(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(biz.DefaultLimit)))
	if err != nil {
		limit = biz.DefaultLimit
	}
	response.Success(c, s.uc.GetTrends(c.Request.Context(), limit, c.Query("category")))
}
