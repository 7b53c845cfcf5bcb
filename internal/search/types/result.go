package types

// SourceResult is what a source adapter hands back. Items is never nil.
// Unavailable separates "the upstream failed" from "nothing matched"; both
// have empty Items.
type SourceResult[T any] struct {
	Items       []T
	Unavailable bool
}

// OK wraps a successful fetch
func OK[T any](items []T) SourceResult[T] {
	if items == nil {
		items = []T{}
	}
	return SourceResult[T]{Items: items}
}

// Failed is the outcome of a fetch that could not complete
func Failed[T any]() SourceResult[T] {
	return SourceResult[T]{Items: []T{}, Unavailable: true}
}

// Species is a taxon record from the knowledge service
type Species struct {
	ID             string `json:"id"`
	ScientificName string `json:"scientific_name"`
	CommonName     string `json:"common_name,omitempty"`
	Rank           string `json:"rank,omitempty"`
	Family         string `json:"family,omitempty"`
	Edibility      string `json:"edibility,omitempty"`
	Toxicity       string `json:"toxicity,omitempty"`
	Description    string `json:"description,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	Source         string `json:"source"`
}

// Compound is a chemical compound record
type Compound struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Formula         string   `json:"formula,omitempty"`
	MolecularWeight float64  `json:"molecular_weight,omitempty"`
	ChemicalClass   string   `json:"chemical_class,omitempty"`
	Activity        string   `json:"activity,omitempty"`
	FoundIn         []string `json:"found_in,omitempty"`
	Source          string   `json:"source"`
}

// ResearchPaper is a publication record
type ResearchPaper struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Authors  []string `json:"authors,omitempty"`
	Year     int      `json:"year,omitempty"`
	Journal  string   `json:"journal,omitempty"`
	DOI      string   `json:"doi,omitempty"`
	Abstract string   `json:"abstract,omitempty"`
	URL      string   `json:"url,omitempty"`
	Source   string   `json:"source"`
}

// Observation is a live field observation. Toxic is set locally from the
// hazardous species table, never by the upstream.
type Observation struct {
	ID             string  `json:"id"`
	ScientificName string  `json:"scientific_name"`
	CommonName     string  `json:"common_name,omitempty"`
	PlaceGuess     string  `json:"place_guess,omitempty"`
	Lat            float64 `json:"lat,omitempty"`
	Lng            float64 `json:"lng,omitempty"`
	ObservedOn     string  `json:"observed_on,omitempty"`
	QualityGrade   string  `json:"quality_grade,omitempty"`
	ImageURL       string  `json:"image_url,omitempty"`
	URL            string  `json:"url,omitempty"`
	Toxic          bool    `json:"toxic"`
	Source         string  `json:"source"`
}

// WebResult is one semantic web search hit
type WebResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Snippet       string  `json:"snippet,omitempty"`
	Score         float64 `json:"score,omitempty"`
	PublishedDate string  `json:"published_date,omitempty"`
	Author        string  `json:"author,omitempty"`
}

// EnvironmentReading is one weather, device, alert or event entry
type EnvironmentReading struct {
	Kind      string  `json:"kind"`
	Name      string  `json:"name"`
	Value     float64 `json:"value,omitempty"`
	Unit      string  `json:"unit,omitempty"`
	Status    string  `json:"status,omitempty"`
	Message   string  `json:"message,omitempty"`
	Timestamp string  `json:"timestamp,omitempty"`
}
