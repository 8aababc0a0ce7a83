package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// UnknownProductName is shown when no source supplied a product name
const UnknownProductName = "Unknown product"

// Grade is an A-E letter grade or GradeUnknown
type Grade string

const (
	GradeA       Grade = "A"
	GradeB       Grade = "B"
	GradeC       Grade = "C"
	GradeD       Grade = "D"
	GradeE       Grade = "E"
	GradeUnknown Grade = "unknown"
)

// ParseGrade normalizes an upstream grade ("a", "B", "not-applicable", "") to a Grade
func ParseGrade(s string) Grade {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return GradeA
	case "B":
		return GradeB
	case "C":
		return GradeC
	case "D":
		return GradeD
	case "E":
		return GradeE
	default:
		return GradeUnknown
	}
}

// Known reports whether g is one of A-E
func (g Grade) Known() bool {
	return ParseGrade(string(g)) != GradeUnknown
}

// CanonicalProduct is the fused, source-agnostic product record
type CanonicalProduct struct {
	Barcode     string       `json:"barcode"`
	Name        string       `json:"name"`
	Brand       string       `json:"brand"`
	ImageURL    string       `json:"imageUrl"`
	Category    string       `json:"category"`
	Origin      string       `json:"origin"`
	IsNorwegian bool         `json:"isNorwegian"`
	Packaging   Packaging    `json:"packaging"`
	Labels      []string     `json:"labels"`
	EcoScore    EcoScore     `json:"ecoscore"`
	NutriScore  NutriScore   `json:"nutriscore"`
	NovaGroup   int          `json:"novaGroup"` // 0 = unknown, 4 = ultra-processed
	Ingredients string       `json:"ingredients"`
	Allergens   AllergenInfo `json:"allergenInfo"`
}

// Packaging holds the free-text description and normalized material tags
type Packaging struct {
	Text      string   `json:"text"`
	Materials []string `json:"materials"`
}

// EcoScore is the upstream environmental grade
type EcoScore struct {
	Grade           Grade   `json:"grade"`
	Score           float64 `json:"score"`
	HasDetailedData bool    `json:"hasDetailedData"`
}

// NutriScore is the upstream nutritional grade, or one estimated from reference nutrients
type NutriScore struct {
	Grade     Grade   `json:"grade"`
	Score     float64 `json:"score"`
	Estimated bool    `json:"estimated"`
}

// AllergenInfo separates confirmed allergens from "may contain traces"
type AllergenInfo struct {
	Contains     []string `json:"contains"`
	MayContain   []string `json:"mayContain"`
	HasAllergens bool     `json:"hasAllergens"`
	HasTraces    bool     `json:"hasTraces"`
}

// ApplyDefaults replaces missing values with the declared defaults so that
// no field is ever null or out of range.
func (p *CanonicalProduct) ApplyDefaults() {
	p.Barcode = strings.TrimSpace(p.Barcode)
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		p.Name = UnknownProductName
	}
	p.Brand = strings.TrimSpace(p.Brand)
	p.Category = strings.TrimSpace(p.Category)
	p.Origin = strings.TrimSpace(p.Origin)

	p.Labels = DedupeStrings(p.Labels)
	p.Packaging.Materials = DedupeStrings(p.Packaging.Materials)

	p.EcoScore.Grade = ParseGrade(string(p.EcoScore.Grade))
	p.NutriScore.Grade = ParseGrade(string(p.NutriScore.Grade))
	if p.NovaGroup < 0 || p.NovaGroup > 4 {
		p.NovaGroup = 0
	}

	p.Allergens.Contains = DedupeStrings(p.Allergens.Contains)
	p.Allergens.MayContain = DedupeStrings(p.Allergens.MayContain)
	p.Allergens.HasAllergens = len(p.Allergens.Contains) > 0
	p.Allergens.HasTraces = len(p.Allergens.MayContain) > 0
}

// HasName reports whether a real (non-placeholder) name is set
func (p *CanonicalProduct) HasName() bool {
	return p.Name != "" && p.Name != UnknownProductName
}

// Clone returns a copy that shares no slices with p
func (p CanonicalProduct) Clone() CanonicalProduct {
	c := p
	c.Labels = append([]string{}, p.Labels...)
	c.Packaging.Materials = append([]string{}, p.Packaging.Materials...)
	c.Allergens.Contains = append([]string{}, p.Allergens.Contains...)
	c.Allergens.MayContain = append([]string{}, p.Allergens.MayContain...)
	return c
}

// DedupeStrings trims entries, drops empties and case-insensitive duplicates,
// and always returns a non-nil slice.
func DedupeStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// DataSources records which adapters contributed to a resolution
type DataSources struct {
	OpenFoodFacts bool `json:"openFoodFacts"`
	Kassalapp     bool `json:"kassalapp"`
	Reference     bool `json:"reference"`
}

// Count returns the number of contributing sources
func (d DataSources) Count() int {
	n := 0
	for _, ok := range []bool{d.OpenFoodFacts, d.Kassalapp, d.Reference} {
		if ok {
			n++
		}
	}
	return n
}

// QualityBonus is 5 points for every contributing source beyond the first
func (d DataSources) QualityBonus() int {
	if n := d.Count(); n > 1 {
		return (n - 1) * 5
	}
	return 0
}

// PriceSummary is the cheapest known offer for a product
type PriceSummary struct {
	Amount   decimal.Decimal `json:"amount"`
	Store    string          `json:"store"`
	Currency string          `json:"currency"`
}

// RawPayloads keeps references to what each source returned
type RawPayloads struct {
	OpenFoodFacts *CanonicalProduct   `json:"openFoodFacts,omitempty"`
	Kassalapp     *KassalappProduct   `json:"kassalapp,omitempty"`
	Reference     *ReferenceNutrients `json:"reference,omitempty"`
}

// EnrichedProduct is the resolver output
type EnrichedProduct struct {
	CanonicalProduct
	Sources          DataSources   `json:"sources"`
	DataQualityBonus int           `json:"dataQualityBonus"`
	Raw              *RawPayloads  `json:"raw,omitempty"`
	LowestPrice      *PriceSummary `json:"lowestPrice,omitempty"`
}
