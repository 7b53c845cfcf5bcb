package intent

import (
	"regexp"

	"github.com/mycosoft/unified-search/internal/search/types"
)

func re(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + pattern)
}

// categoryRule matches on the lowercased query and the already extracted filters
type categoryRule struct {
	category types.Category
	match    func(q string, f *types.Filters) bool
}

func pattern(p *regexp.Regexp) func(string, *types.Filters) bool {
	return func(q string, _ *types.Filters) bool { return p.MatchString(q) }
}

var genusNames = `amanita|psilocybe|cordyceps|ganoderma|hericium|pleurotus|morchella|boletus|cantharellus|agaricus|trametes|inonotus|galerina|gyromitra|cortinarius|lepiota|armillaria|laetiporus|coprinus|russula|lactarius|conocybe|omphalotus|chlorophyllum|clitocybe|panaeolus|tuber`

var (
	speciesPattern = re(`\b(mushrooms?|fungus|fungi|fungal|species|mycelium|mycelia|spores?|toadstools?|morels?|chanterelles?|lichens?|molds?|moulds?|yeasts?|taxonomy|taxon|genus|` + genusNames + `)\b`)
	compoundPattern = re(`\b(compounds?|chemicals?|chemistry|alkaloids?|toxins?|amatoxins?|psilocybin|psilocin|muscimol|muscarine|ibotenic|amanitin|ergosterol|cordycepin|hericenones?|erinacines?|beta-glucans?|molecules?|metabolites?|molecular)\b`)
	mediaPattern    = re(`\b(images?|photos?|photographs?|pictures?|pics?|videos?|gallery)\b`)
	researchPattern = re(`\b(research|study|studies|papers?|journals?|clinical|trials?|doi|publications?|literature|peer-reviewed)\b`)
	locationPattern = re(`\b(near|nearby|where|map|region|habitat|locations?|found in)\b`)
)

// Evaluated in order, first match wins.
var categoryRules = []categoryRule{
	{types.CategorySpecies, pattern(speciesPattern)},
	{types.CategoryCompound, pattern(compoundPattern)},
	{types.CategoryMedia, pattern(mediaPattern)},
	{types.CategoryResearch, pattern(researchPattern)},
	{types.CategoryLocation, func(q string, f *types.Filters) bool {
		return locationPattern.MatchString(q) || f.Location != nil
	}},
}

type queryTypeRule struct {
	queryType types.QueryType
	pattern   *regexp.Regexp
}

// Evaluated in order, first match wins; factual otherwise.
var queryTypeRules = []queryTypeRule{
	{types.QueryTypeComparison, re(`\b(vs\.?|versus|compare|comparison|difference between|differ)\b`)},
	{types.QueryTypeList, re(`^(list|show me all)\b|\b(types of|kinds of|examples of|varieties of)\b`)},
	{types.QueryTypeIdentification, re(`\b(identify|identification|id this|what is this|look-?alikes?)\b`)},
	{types.QueryTypeHowTo, re(`\b(how to|how do|how can|grow|cultivate|cultivation|prepare|cook)\b`)},
	{types.QueryTypeNews, re(`\b(news|latest|recent|update|updates|announced?)\b`)},
	{types.QueryTypeDefinition, re(`^(what is|what are|what's|define|definition of|meaning of)\b`)},
}

// valueRule assigns value to a filter when pattern matches
type valueRule struct {
	pattern *regexp.Regexp
	value   string
}

var toxicityRules = []valueRule{
	{re(`\b(poisonous|toxic|deadly|lethal|dangerous|poison)\b`), "poisonous"},
	{re(`\b(psychoactive|hallucinogenic|psychedelic|magic)\b`), "psychoactive"},
}

var edibilityRules = []valueRule{
	{re(`\b(inedible|not edible|non-edible)\b`), "inedible"},
	{re(`\b(edible|eat|eating|culinary|forage|foraging|choice)\b`), "edible"},
}

var timeframeRules = []valueRule{
	{re(`\btoday\b`), "today"},
	{re(`\b(this|last|past) week\b`), "week"},
	{re(`\b(this|last|past) month\b`), "month"},
	{re(`\b(this|last|past) year\b`), "year"},
	{re(`\b(recent|recently|latest)\b`), "recent"},
}

var mediaTypeRules = []valueRule{
	{re(`\b(videos?)\b`), "video"},
	{re(`\b(images?|photos?|photographs?|pictures?|pics?)\b`), "image"},
}

// entityPatterns are applied in order and their matches concatenated
var entityPatterns = []*regexp.Regexp{
	re(`\b(` + genusNames + `)\b`),
	re(`\b(?:` + genusNames + `)\s+(?:phalloides|muscaria|virosa|ocreata|bisporigera|pantherina|caesarea|cubensis|semilanceata|cyanescens|azurescens|militaris|lucidum|tsugae|erinaceus|ostreatus|esculenta|esculentum|marginata|rubellus|brunneoincarnata|filaris|olearius|molybdites|dealbata|versicolor|obliquus|edulis|cibarius|bisporus|campestris)\b`),
	re(`\b(psilocybin|psilocin|baeocystin|norbaeocystin|muscimol|muscarine|ibotenic acid|amatoxins?|alpha-amanitin|amanitin|phalloidin|orellanine|gyromitrin|coprine|ergosterol|cordycepin|hericenones?|erinacines?|beta-glucans?|ganoderic acids?)\b`),
}

var (
	tokenPattern      = regexp.MustCompile(`[a-z0-9]+(?:[-'][a-z0-9]+)*`)
	// both halves need a decimal part so counts and lists ("top 5, 10") are not coordinates
	coordinatePattern = regexp.MustCompile(`(?:^|[^\w.])(-?\d{1,2}\.\d+)\s*,\s*(-?\d{1,3}\.\d+)\b`)
)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "an", "the", "in", "on", "at", "of", "for", "to", "and", "or", "is", "are",
		"was", "were", "be", "been", "what", "which", "who", "how", "where", "when", "why",
		"do", "does", "did", "can", "could", "should", "would", "i", "me", "my", "we", "our",
		"you", "your", "near", "with", "about", "from", "by", "this", "that", "these", "those",
		"it", "its", "show", "find", "tell", "some", "any", "there", "here", "into", "than",
		"vs", "versus", "s", "whats",
	} {
		stopWords[w] = struct{}{}
	}
}
