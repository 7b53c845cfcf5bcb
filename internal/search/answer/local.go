package answer

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/mycosoft/unified-search/internal/search/intent"
	"github.com/mycosoft/unified-search/internal/search/types"
)

//go:embed knowledge.yaml
var knowledgeYAML []byte

type knowledgeEntry struct {
	ID         string   `yaml:"id"`
	Toxicity   string   `yaml:"toxicity"`
	Location   bool     `yaml:"location"`
	Any        []string `yaml:"any"`
	Confidence float64  `yaml:"confidence"`
	Text       string   `yaml:"text"`
	Sources    []string `yaml:"sources"`
}

type knowledgeFile struct {
	Entries []knowledgeEntry `yaml:"entries"`
	Default knowledgeEntry   `yaml:"default"`
}

// LocalKnowledge is the terminal step of the answer chain. It does no I/O
// and always produces an answer.
type LocalKnowledge struct {
	entries  []knowledgeEntry
	fallback knowledgeEntry
}

// ParseLocalKnowledge loads entries from YAML
func ParseLocalKnowledge(data []byte) (*LocalKnowledge, error) {
	var f knowledgeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse local knowledge: %w", err)
	}
	if strings.TrimSpace(f.Default.Text) == "" {
		return nil, fmt.Errorf("parse local knowledge: default answer is required")
	}
	for _, e := range f.Entries {
		if strings.TrimSpace(e.Text) == "" {
			return nil, fmt.Errorf("parse local knowledge: entry %q has no text", e.ID)
		}
	}
	return &LocalKnowledge{entries: f.Entries, fallback: f.Default}, nil
}

var (
	embeddedOnce sync.Once
	embedded     *LocalKnowledge
)

// MustLocalKnowledge returns the embedded knowledge base
func MustLocalKnowledge() *LocalKnowledge {
	embeddedOnce.Do(func() {
		k, err := ParseLocalKnowledge(knowledgeYAML)
		if err != nil {
			panic(err)
		}
		embedded = k
	})
	return embedded
}

var wordPattern = regexp.MustCompile(`[a-z0-9']+`)

// Answer matches query against the entries in order. in may be nil, in
// which case the query is classified here.
func (k *LocalKnowledge) Answer(query string, in *types.SearchIntent) *types.AIAnswer {
	if in == nil {
		in = intent.Classify(query)
	}
	words := " " + strings.Join(wordPattern.FindAllString(strings.ToLower(query), -1), " ") + " "

	for _, e := range k.entries {
		if e.matches(in, words) {
			return e.answer(in)
		}
	}
	return k.fallback.answer(in)
}

func (e *knowledgeEntry) matches(in *types.SearchIntent, words string) bool {
	if e.Toxicity != "" && in.Filters.Toxicity != e.Toxicity {
		return false
	}
	if e.Location && in.Filters.Location == nil {
		return false
	}
	if len(e.Any) == 0 {
		return true
	}
	for _, term := range e.Any {
		if strings.Contains(words, " "+strings.ToLower(term)+" ") {
			return true
		}
	}
	return false
}

func (e *knowledgeEntry) answer(in *types.SearchIntent) *types.AIAnswer {
	text := strings.TrimSpace(e.Text)
	if strings.Contains(text, "{location}") {
		text = strings.ReplaceAll(text, "{location}", locationName(in.Filters.Location))
	}
	sources := append([]string{}, e.Sources...)
	return &types.AIAnswer{
		Text:       text,
		Provider:   ProviderLocal,
		Confidence: e.Confidence,
		Sources:    sources,
	}
}

func locationName(loc *types.LocationFilter) string {
	switch {
	case loc == nil:
		return "your area"
	case loc.City != "":
		return loc.City
	case loc.State != "":
		return loc.State
	default:
		return fmt.Sprintf("%.4f, %.4f", loc.Lat, loc.Lng)
	}
}
