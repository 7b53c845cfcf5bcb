package source

import "strings"

// Hazard describes why a species is flagged toxic
type Hazard struct {
	Toxin    string
	Severity string
}

// hazardousSpecies is matched on the lowercased binomial. It is local data:
// the observation flag never depends on what the upstream says.
var hazardousSpecies = map[string]Hazard{
	"amanita phalloides":       {"amatoxins", "deadly"},
	"amanita ocreata":          {"amatoxins", "deadly"},
	"amanita virosa":           {"amatoxins", "deadly"},
	"amanita bisporigera":      {"amatoxins", "deadly"},
	"amanita muscaria":         {"ibotenic acid, muscimol", "toxic"},
	"amanita pantherina":       {"ibotenic acid, muscimol", "toxic"},
	"galerina marginata":       {"amatoxins", "deadly"},
	"gyromitra esculenta":      {"gyromitrin", "deadly"},
	"cortinarius rubellus":     {"orellanine", "deadly"},
	"lepiota brunneoincarnata": {"amatoxins", "deadly"},
	"conocybe filaris":         {"amatoxins", "deadly"},
	"omphalotus olearius":      {"illudins", "toxic"},
	"chlorophyllum molybdites": {"gastrointestinal toxins", "toxic"},
	"clitocybe dealbata":       {"muscarine", "toxic"},
}

// LookupHazard reports whether name (a binomial, possibly with an infraspecific
// suffix) is a known hazardous species.
func LookupHazard(name string) (Hazard, bool) {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) < 2 {
		return Hazard{}, false
	}
	h, ok := hazardousSpecies[fields[0]+" "+fields[1]]
	return h, ok
}

// IsHazardous is LookupHazard without the detail
func IsHazardous(name string) bool {
	_, ok := LookupHazard(name)
	return ok
}
