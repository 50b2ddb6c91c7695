package catalog

import "strings"

// Priority is the coverage tier of a facility. HIGH facilities must be
// visited every day; STANDARD facilities are covered on rotation.
type Priority string

const (
	PriorityHigh     Priority = "HIGH"
	PriorityStandard Priority = "STANDARD"
)

// Facility is one entry of the public-facility catalog. The catalog is
// loaded once and immutable at runtime; everything else references a
// facility by its Code.
type Facility struct {
	Code             string   `gorm:"primaryKey" json:"code" yaml:"cod"`
	Name             string   `json:"name" yaml:"name"`
	Type             string   `json:"type" yaml:"type"`
	StreetType       string   `json:"street_type,omitempty" yaml:"street_type"`
	Street           string   `json:"street,omitempty" yaml:"street"`
	Number           string   `json:"number,omitempty" yaml:"number"`
	Neighborhood     string   `json:"neighborhood,omitempty" yaml:"neighborhood"`
	Region           string   `gorm:"index" json:"region" yaml:"region"`
	Lat              float64  `json:"lat" yaml:"lat"`
	Lng              float64  `json:"lng" yaml:"lng"`
	Priority         Priority `json:"priority" yaml:"-"`
	RequiresEvidence bool     `json:"requires_evidence" yaml:"-"`
}

func (Facility) TableName() string {
	return "patrol.facilities"
}

// Facility types that require daily coverage: schools, health centers,
// urgent care units, hospitals and mental-health reference centers.
var highPriorityKeywords = []string{
	"ESCOLA",
	"EMEI",
	"CENTRO DE SAUDE",
	"UPA",
	"HOSPITAL",
	"CERSAM",
}

// Facility types whose visits must carry photographic evidence.
var evidenceKeywords = []string{
	"ESCOLA",
	"EMEI",
	"CENTRO DE SAUDE",
	"UPA",
}

// DerivePriority classifies a facility by its type and name keywords.
// Called once at catalog build time; the result is stored on the record so
// it is never re-derived from free text afterwards.
func DerivePriority(facilityType, name string) Priority {
	if matchesAny(facilityType, highPriorityKeywords) || matchesAny(name, highPriorityKeywords) {
		return PriorityHigh
	}
	return PriorityStandard
}

// DeriveRequiresEvidence flags facility types that must carry a photo on
// their visit record. Same build-time contract as DerivePriority.
func DeriveRequiresEvidence(facilityType, name string) bool {
	return matchesAny(facilityType, evidenceKeywords) || matchesAny(name, evidenceKeywords)
}

func matchesAny(s string, keywords []string) bool {
	upper := strings.ToUpper(s)
	for _, kw := range keywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// ByRegion returns the facilities whose region matches the given name under
// normalized comparison. An empty region selects the whole catalog.
func ByRegion(all []Facility, region string) []Facility {
	if region == "" {
		return all
	}
	want := NormalizeRegion(region)
	var out []Facility
	for _, f := range all {
		if NormalizeRegion(f.Region) == want {
			out = append(out, f)
		}
	}
	return out
}
