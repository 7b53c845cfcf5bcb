package source

import (
	"context"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/mycosoft/unified-search/internal/conf"
	"github.com/mycosoft/unified-search/internal/pkg/logger"
	"github.com/mycosoft/unified-search/internal/pkg/retry"
	"github.com/mycosoft/unified-search/internal/search/types"
)

const mindexSource = "mindex"

func mindexHeaders(apiKey string) map[string]string {
	if apiKey == "" {
		return nil
	}
	return map[string]string{"X-API-Key": apiKey}
}

func mindexParams(query string, limit int) url.Values {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(clampLimit(limit)))
	return params
}

// TaxonSource looks up species in the knowledge service
type TaxonSource struct{ *base }

func NewTaxonSource(cfg conf.SourceConfig, rc retry.Config, log *logger.Logger) *TaxonSource {
	return &TaxonSource{newBase(NameTaxon, cfg, rc, log)}
}

func (s *TaxonSource) Fetch(ctx context.Context, query string, intent *types.SearchIntent, limit int) types.SourceResult[types.Species] {
	return run(ctx, s.base, func(ctx context.Context) ([]types.Species, error) {
		params := mindexParams(query, limit)
		if intent != nil && intent.Filters.Toxicity != "" {
			params.Set("toxicity", intent.Filters.Toxicity)
		}
		if intent != nil && intent.Filters.Edibility != "" {
			params.Set("edibility", intent.Filters.Edibility)
		}

		body, err := s.getJSON(ctx, "/api/mindex/taxa/search", params, mindexHeaders(s.config.APIKey))
		if err != nil {
			return nil, err
		}

		records := limited(list(body, "results", "data", "taxa", "items"), clampLimit(limit))
		out := make([]types.Species, 0, len(records))
		for _, r := range records {
			sp := types.Species{
				ID:             str(r, "id", "taxon_id", "_id"),
				ScientificName: str(r, "scientific_name", "scientificName", "canonical_name", "name"),
				CommonName:     str(r, "common_name", "commonName", "preferred_common_name", "vernacular_name"),
				Rank:           str(r, "rank", "taxon_rank"),
				Family:         str(r, "family", "family_name"),
				Edibility:      str(r, "edibility", "edible"),
				Toxicity:       str(r, "toxicity", "toxicity_level"),
				Description:    str(r, "description", "summary", "wikipedia_summary"),
				ImageURL:       str(r, "image_url", "imageUrl", "default_photo.medium_url", "photo_url"),
				Source:         mindexSource,
			}
			if sp.ScientificName == "" {
				continue
			}
			out = append(out, sp)
		}
		return out, nil
	})
}

// CompoundSource looks up chemical compounds in the knowledge service
type CompoundSource struct{ *base }

func NewCompoundSource(cfg conf.SourceConfig, rc retry.Config, log *logger.Logger) *CompoundSource {
	return &CompoundSource{newBase(NameCompound, cfg, rc, log)}
}

func (s *CompoundSource) Fetch(ctx context.Context, query string, _ *types.SearchIntent, limit int) types.SourceResult[types.Compound] {
	return run(ctx, s.base, func(ctx context.Context) ([]types.Compound, error) {
		body, err := s.getJSON(ctx, "/api/mindex/compounds/search", mindexParams(query, limit), mindexHeaders(s.config.APIKey))
		if err != nil {
			return nil, err
		}

		records := limited(list(body, "results", "data", "compounds", "items"), clampLimit(limit))
		out := make([]types.Compound, 0, len(records))
		for _, r := range records {
			c := types.Compound{
				ID:              str(r, "id", "compound_id", "cid", "_id"),
				Name:            str(r, "name", "compound_name", "iupac_name"),
				Formula:         str(r, "formula", "molecular_formula"),
				MolecularWeight: num(r, "molecular_weight", "molecularWeight", "mw"),
				ChemicalClass:   str(r, "chemical_class", "class", "compound_class"),
				Activity:        str(r, "activity", "bioactivity", "biological_activity"),
				FoundIn:         strs(r, "found_in", "species", "sources"),
				Source:          mindexSource,
			}
			if c.Name == "" {
				continue
			}
			out = append(out, c)
		}
		return out, nil
	})
}

// ResearchSource looks up publications in the knowledge service
type ResearchSource struct{ *base }

func NewResearchSource(cfg conf.SourceConfig, rc retry.Config, log *logger.Logger) *ResearchSource {
	return &ResearchSource{newBase(NameResearch, cfg, rc, log)}
}

func (s *ResearchSource) Fetch(ctx context.Context, query string, _ *types.SearchIntent, limit int) types.SourceResult[types.ResearchPaper] {
	return run(ctx, s.base, func(ctx context.Context) ([]types.ResearchPaper, error) {
		body, err := s.getJSON(ctx, "/api/mindex/research/search", mindexParams(query, limit), mindexHeaders(s.config.APIKey))
		if err != nil {
			return nil, err
		}

		records := limited(list(body, "results", "data", "papers", "items"), clampLimit(limit))
		out := make([]types.ResearchPaper, 0, len(records))
		for _, r := range records {
			p := types.ResearchPaper{
				ID:       str(r, "id", "paper_id", "doi", "_id"),
				Title:    str(r, "title", "name"),
				Authors:  strs(r, "authors", "author"),
				Year:     year(r),
				Journal:  str(r, "journal", "venue", "publisher"),
				DOI:      str(r, "doi", "DOI"),
				Abstract: str(r, "abstract", "summary"),
				URL:      str(r, "url", "link", "pdf_url"),
				Source:   mindexSource,
			}
			if p.Title == "" {
				continue
			}
			out = append(out, p)
		}
		return out, nil
	})
}

func year(r gjson.Result) int {
	if y := int(num(r, "year", "publication_year", "published_year")); y > 0 {
		return y
	}
	date := str(r, "published_date", "publication_date", "date")
	if len(date) >= 4 {
		if y, err := strconv.Atoi(date[:4]); err == nil {
			return y
		}
	}
	return 0
}
