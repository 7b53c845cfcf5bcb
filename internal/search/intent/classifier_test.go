package intent

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/mycosoft/unified-search/internal/search/types"
)

func TestClassify_PoisonousMushroomsInSanDiego(t *testing.T) {
	got := Classify("poisonous mushrooms in San Diego")

	want := &types.SearchIntent{
		Category:  types.CategorySpecies,
		QueryType: types.QueryTypeFactual,
		Filters: types.Filters{
			Toxicity: "poisonous",
			Location: &types.LocationFilter{
				City:    "San Diego",
				State:   "CA",
				Country: "US",
				Lat:     32.7157,
				Lng:     -117.1611,
				Radius:  100,
			},
		},
		Entities:   []string{},
		Keywords:   []string{"poisonous", "mushrooms", "san", "diego"},
		Confidence: 0.5,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_CategoryPrecedence(t *testing.T) {
	tests := []struct {
		query string
		want  types.Category
	}{
		{"amanita research papers", types.CategorySpecies},
		{"mushroom clinical study", types.CategorySpecies},
		{"psilocybin clinical trials", types.CategoryCompound},
		{"toxin photos", types.CategoryCompound},
		{"photos of chanterelles", types.CategorySpecies},
		{"photos of the forest", types.CategoryMedia},
		{"video from the journal", types.CategoryMedia},
		{"latest research papers", types.CategoryResearch},
		{"hiking trails near Denver", types.CategoryLocation},
		{"weekend in Seattle", types.CategoryLocation},
		{"what is the weather", types.CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.query).Category)
		})
	}
}

func TestClassify_QueryType(t *testing.T) {
	tests := []struct {
		query string
		want  types.QueryType
	}{
		{"chanterelle vs false chanterelle", types.QueryTypeComparison},
		{"types of edible fungi", types.QueryTypeList},
		{"identify this mushroom", types.QueryTypeIdentification},
		{"how to grow oyster mushrooms", types.QueryTypeHowTo},
		{"latest fungal news", types.QueryTypeNews},
		{"what is mycelium", types.QueryTypeDefinition},
		{"amanita spore color", types.QueryTypeFactual},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.query).QueryType)
		})
	}
}

func TestClassify_Filters(t *testing.T) {
	tests := []struct {
		query string
		want  types.Filters
	}{
		{
			query: "edible mushrooms in oregon",
			want: types.Filters{
				Edibility: "edible",
				Location:  &types.LocationFilter{State: "OR", Country: "US", Lat: 43.8041, Lng: -120.5542, Radius: 300},
			},
		},
		{
			query: "are these inedible",
			want:  types.Filters{Edibility: "inedible"},
		},
		{
			query: "deadly psychedelic fungi photos from this year",
			want:  types.Filters{Toxicity: "poisonous", Timeframe: "year", MediaType: "image"},
		},
		{
			query: "magic mushroom videos",
			want:  types.Filters{Toxicity: "psychoactive", MediaType: "video"},
		},
		{
			query: "mushrooms at 10.5, -20.25",
			want:  types.Filters{Location: &types.LocationFilter{Lat: 10.5, Lng: -20.25, Radius: 50}},
		},
		{
			query: "fruiting near -33.87,151.21.",
			want:  types.Filters{Location: &types.LocationFilter{Lat: -33.87, Lng: 151.21, Radius: 50}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Classify(tt.query).Filters); diff != "" {
				t.Errorf("filters mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassify_NumbersAreNotCoordinates(t *testing.T) {
	queries := []string{
		"top 5, 10 edible mushrooms",
		"amanita 1,000 spores",
		"reishi 12, 45.5 grams",
		"version v1.5,2.5 of the key",
		"cordyceps 2024,2025",
	}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			got := Classify(q)
			assert.Nil(t, got.Filters.Location)
			assert.NotEqual(t, types.CategoryLocation, got.Category)
		})
	}
}

func TestClassify_EntitiesInPatternOrder(t *testing.T) {
	got := Classify("Amanita phalloides vs Amanita ocreata amatoxin")

	assert.Equal(t,
		[]string{"Amanita", "Amanita", "Amanita phalloides", "Amanita ocreata", "amatoxin"},
		got.Entities)
	assert.Equal(t, 1.0, got.Confidence)
	assert.Equal(t, types.QueryTypeComparison, got.QueryType)
}

func TestClassify_Confidence(t *testing.T) {
	assert.Equal(t, 0.5, Classify("weather today").Confidence)
	assert.Equal(t, 0.6, Classify("cordyceps").Confidence)
	assert.Equal(t, 0.7, Classify("psilocybin in psilocybe").Confidence)
}

func TestClassify_NoMinimumLength(t *testing.T) {
	got := Classify("a")
	assert.Equal(t, types.CategoryGeneral, got.Category)
	assert.Empty(t, got.Keywords)
	assert.NotNil(t, got.Entities)
}

func TestClassify_Deterministic(t *testing.T) {
	q := "toxic amanita near Portland this week"
	assert.Equal(t, Classify(q), Classify(q))
}
