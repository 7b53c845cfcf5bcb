package data

import (
	"context"
	"time"

	"github.com/mycosoft/unified-search/internal/pkg/database"
	"github.com/mycosoft/unified-search/internal/search/biz"
	"github.com/mycosoft/unified-search/internal/search/types"
)

// SearchLogPO represents the database model
type SearchLogPO struct {
	ID                 string    `gorm:"type:varchar(36);primarykey"`
	RequestID          string    `gorm:"size:64;index"`
	Query              string    `gorm:"size:512;not null"`
	Category           string    `gorm:"size:32;index"`
	QueryType          string    `gorm:"size:32"`
	Keywords           []string  `gorm:"serializer:json"`
	ProvidersUsed      []string  `gorm:"serializer:json"`
	UnavailableSources []string  `gorm:"serializer:json"`
	ResultCount        int       `gorm:"not null;default:0"`
	DurationMs         int64     `gorm:"not null;default:0"`
	CreatedAt          time.Time `gorm:"not null;index"`
}

func (SearchLogPO) TableName() string {
	return "search_logs"
}

// SearchLogRepo implements biz.SearchLogRepo
type SearchLogRepo struct {
	db *database.DB
}

var _ biz.SearchLogRepo = (*SearchLogRepo)(nil)

func NewSearchLogRepo(db *database.DB) *SearchLogRepo {
	return &SearchLogRepo{db: db}
}

// Migrate creates the search log table
func (r *SearchLogRepo) Migrate() error {
	return r.db.AutoMigrate(&SearchLogPO{})
}

func (r *SearchLogRepo) Record(ctx context.Context, l *biz.SearchLog) error {
	return r.db.WithContext(ctx).Create(toPO(l)).Error
}

// Recent returns the newest logs first
func (r *SearchLogRepo) Recent(ctx context.Context, limit int) ([]*biz.SearchLog, error) {
	var pos []SearchLogPO
	err := r.db.WithContext(ctx).
		Scopes(database.OrderBy("created_at", true), database.Limit(limit, 20, 100)).
		Find(&pos).Error
	if err != nil {
		return nil, err
	}

	logs := make([]*biz.SearchLog, 0, len(pos))
	for i := range pos {
		logs = append(logs, toDomain(&pos[i]))
	}
	return logs, nil
}

func toPO(l *biz.SearchLog) *SearchLogPO {
	createdAt := l.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &SearchLogPO{
		ID:                 l.ID,
		RequestID:          l.RequestID,
		Query:              l.Query,
		Category:           string(l.Category),
		QueryType:          string(l.QueryType),
		Keywords:           l.Keywords,
		ProvidersUsed:      l.ProvidersUsed,
		UnavailableSources: l.UnavailableSources,
		ResultCount:        l.ResultCount,
		DurationMs:         l.DurationMs,
		CreatedAt:          createdAt,
	}
}

func toDomain(po *SearchLogPO) *biz.SearchLog {
	return &biz.SearchLog{
		ID:                 po.ID,
		RequestID:          po.RequestID,
		Query:              po.Query,
		Category:           types.Category(po.Category),
		QueryType:          types.QueryType(po.QueryType),
		Keywords:           po.Keywords,
		ProvidersUsed:      po.ProvidersUsed,
		UnavailableSources: po.UnavailableSources,
		ResultCount:        po.ResultCount,
		DurationMs:         po.DurationMs,
		CreatedAt:          po.CreatedAt,
	}
}
