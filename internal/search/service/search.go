package service

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/mycosoft/unified-search/internal/pkg/errors"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/pkg/response"
	"github.com/mycosoft/unified-search/internal/search/types"
)

// Searcher runs one unified search. *biz.SearchUseCase implements it.
type Searcher interface {
	Search(ctx context.Context, req *types.SearchRequest) (*types.UnifiedSearchResponse, error)
}

// SearchService unified search HTTP service
type SearchService struct {
	uc     Searcher
	logger *logger.Logger
}

func NewSearchService(uc Searcher, logger *logger.Logger) *SearchService {
	return &SearchService{
		uc:     uc,
		logger: logger,
	}
}

// SearchQuery is the GET variant's query string
type SearchQuery struct {
	Q       string `form:"q"`
	Context string `form:"context"`
	AI      *bool  `form:"ai"`
	Live    *bool  `form:"live"`
	Limit   int    `form:"limit"`
}

// RegisterRoutes mounts the search endpoints on r
func (s *SearchService) RegisterRoutes(r gin.IRouter) {
	r.GET("/unified", s.SearchGet)
	r.POST("/unified", s.SearchPost)
}

// SearchGet GET /api/search/unified
func (s *SearchService) SearchGet(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.HandleError(c, apperrors.Wrap(err, apperrors.ErrInvalidParams))
		return
	}

	s.search(c, &types.SearchRequest{
		Query:   q.Q,
		Context: q.Context,
		AI:      q.AI,
		Live:    q.Live,
		Limit:   q.Limit,
	})
}

// SearchPost POST /api/search/unified
func (s *SearchService) SearchPost(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, apperrors.Wrap(err, apperrors.ErrSearchInvalidBody))
		return
	}
	s.search(c, &req)
}

func (s *SearchService) search(c *gin.Context, req *types.SearchRequest) {
	resp, err := s.uc.Search(c.Request.Context(), req)
	if err != nil {
		if apperrors.IsClientError(apperrors.ExtractCode(err)) {
			s.logger.WithContext(c.Request.Context()).Debug("search rejected", zap.Error(err))
		} else {
			s.logger.WithContext(c.Request.Context()).Error("search failed", zap.Error(err))
		}
		response.HandleError(c, err)
		return
	}
	response.Success(c, resp)
}
