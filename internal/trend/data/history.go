package data

import (
	"context"
	"math"
	"sort"
	"strings"

	searchbiz "github.com/mycosoft/unified-search/internal/search/biz"
	searchtypes "github.com/mycosoft/unified-search/internal/search/types"
	"github.com/mycosoft/unified-search/internal/trend/biz"
	"github.com/mycosoft/unified-search/internal/trend/types"
)

const defaultHistoryWindow = 100

// SearchLogReader is the part of the search log the history summary needs
type SearchLogReader interface {
	Recent(ctx context.Context, limit int) ([]*searchbiz.SearchLog, error)
}

// HistoryRepo turns the most recent search logs into trends. The newer half
// of the window is compared with the older half to derive the change.
type HistoryRepo struct {
	logs   SearchLogReader
	window int
}

var _ biz.HistoryRepo = (*HistoryRepo)(nil)

func NewHistoryRepo(logs SearchLogReader, window int) *HistoryRepo {
	if window <= 0 {
		window = defaultHistoryWindow
	}
	return &HistoryRepo{logs: logs, window: window}
}

type tally struct {
	term     string
	category string
	current  int
	previous int
}

func (r *HistoryRepo) Trends(ctx context.Context, limit int, category string) ([]types.Trend, error) {
	logs, err := r.logs.Recent(ctx, r.window)
	if err != nil {
		return nil, err
	}

	// logs arrive newest first
	half := (len(logs) + 1) / 2
	byTerm := map[string]*tally{}
	for i, l := range logs {
		term := normalizeTerm(l.Query)
		if term == "" {
			continue
		}
		cat := trendCategory(l.Category)
		if category != "" && cat != category {
			continue
		}
		t, ok := byTerm[term]
		if !ok {
			t = &tally{term: term, category: cat}
			byTerm[term] = t
		}
		if i < half {
			t.current++
		} else {
			t.previous++
		}
	}

	tallies := make([]*tally, 0, len(byTerm))
	for _, t := range byTerm {
		tallies = append(tallies, t)
	}
	sort.Slice(tallies, func(i, j int) bool {
		ci, cj := tallies[i].current+tallies[i].previous, tallies[j].current+tallies[j].previous
		if ci != cj {
			return ci > cj
		}
		return tallies[i].term < tallies[j].term
	})
	if limit > 0 && len(tallies) > limit {
		tallies = tallies[:limit]
	}

	trends := make([]types.Trend, 0, len(tallies))
	for _, t := range tallies {
		change := percentChange(t.current, t.previous)
		trends = append(trends, types.Trend{
			Term:      t.term,
			Category:  t.category,
			Count:     t.current + t.previous,
			Change:    change,
			Direction: direction(change),
		})
	}
	return trends, nil
}

func normalizeTerm(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// trendCategory folds search categories into the trend categories
func trendCategory(c searchtypes.Category) string {
	switch c {
	case searchtypes.CategorySpecies, searchtypes.CategoryCompound, searchtypes.CategoryLocation, searchtypes.CategoryResearch:
		return string(c)
	default:
		return string(searchtypes.CategoryGeneral)
	}
}

func percentChange(current, previous int) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	pct := float64(current-previous) / float64(previous) * 100
	return math.Round(pct*10) / 10
}
