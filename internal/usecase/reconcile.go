package usecase

import (
	"unicode/utf8"

	"github.com/greenscan/backend/internal/domain"
)

// overwriteRule decides when a field on the base record is replaced
type overwriteRule int

const (
	// fillIfEmpty copies only into an empty base field
	fillIfEmpty overwriteRule = iota
	// preferLonger also replaces a shorter non-empty value
	preferLonger
)

// fieldRule is one row of the reconciliation table
type fieldRule struct {
	field   string
	rule    overwriteRule
	isEmpty func(p *domain.CanonicalProduct) bool
	length  func(p *domain.CanonicalProduct) int
	copy    func(dst, src *domain.CanonicalProduct)
}

// reconciliationTable lists every field enrichment may touch.
// Sources are applied in priority order, so the first source to fill a
// fillIfEmpty field wins.
var reconciliationTable = []fieldRule{
	{
		field:   "name",
		rule:    preferLonger,
		isEmpty: func(p *domain.CanonicalProduct) bool { return !p.HasName() },
		length:  func(p *domain.CanonicalProduct) int { return utf8.RuneCountInString(p.Name) },
		copy:    func(dst, src *domain.CanonicalProduct) { dst.Name = src.Name },
	},
	{
		field:   "brand",
		isEmpty: func(p *domain.CanonicalProduct) bool { return p.Brand == "" },
		copy:    func(dst, src *domain.CanonicalProduct) { dst.Brand = src.Brand },
	},
	{
		field:   "imageUrl",
		isEmpty: func(p *domain.CanonicalProduct) bool { return p.ImageURL == "" },
		copy:    func(dst, src *domain.CanonicalProduct) { dst.ImageURL = src.ImageURL },
	},
	{
		field:   "category",
		isEmpty: func(p *domain.CanonicalProduct) bool { return p.Category == "" },
		copy:    func(dst, src *domain.CanonicalProduct) { dst.Category = src.Category },
	},
	{
		field:   "origin",
		isEmpty: func(p *domain.CanonicalProduct) bool { return p.Origin == "" },
		copy:    func(dst, src *domain.CanonicalProduct) { dst.Origin = src.Origin },
	},
	{
		field:   "isNorwegian",
		isEmpty: func(p *domain.CanonicalProduct) bool { return !p.IsNorwegian },
		copy:    func(dst, src *domain.CanonicalProduct) { dst.IsNorwegian = src.IsNorwegian },
	},
	{
		field:   "packaging.text",
		isEmpty: func(p *domain.CanonicalProduct) bool { return p.Packaging.Text == "" },
		copy:    func(dst, src *domain.CanonicalProduct) { dst.Packaging.Text = src.Packaging.Text },
	},
	{
		field:   "packaging.materials",
		isEmpty: func(p *domain.CanonicalProduct) bool { return len(p.Packaging.Materials) == 0 },
		copy: func(dst, src *domain.CanonicalProduct) {
			dst.Packaging.Materials = append([]string{}, src.Packaging.Materials...)
		},
	},
	{
		field:   "labels",
		isEmpty: func(p *domain.CanonicalProduct) bool { return len(p.Labels) == 0 },
		copy:    func(dst, src *domain.CanonicalProduct) { dst.Labels = append([]string{}, src.Labels...) },
	},
	{
		field:   "ecoscore",
		isEmpty: func(p *domain.CanonicalProduct) bool { return !p.EcoScore.Grade.Known() },
		copy:    func(dst, src *domain.CanonicalProduct) { dst.EcoScore = src.EcoScore },
	},
	{
		field:   "nutriscore",
		isEmpty: func(p *domain.CanonicalProduct) bool { return !p.NutriScore.Grade.Known() },
		copy:    func(dst, src *domain.CanonicalProduct) { dst.NutriScore = src.NutriScore },
	},
	{
		field:   "novaGroup",
		isEmpty: func(p *domain.CanonicalProduct) bool { return p.NovaGroup == 0 },
		copy:    func(dst, src *domain.CanonicalProduct) { dst.NovaGroup = src.NovaGroup },
	},
	{
		field:   "ingredients",
		isEmpty: func(p *domain.CanonicalProduct) bool { return p.Ingredients == "" },
		copy:    func(dst, src *domain.CanonicalProduct) { dst.Ingredients = src.Ingredients },
	},
	{
		field: "allergens",
		isEmpty: func(p *domain.CanonicalProduct) bool {
			return len(p.Allergens.Contains) == 0 && len(p.Allergens.MayContain) == 0
		},
		copy: func(dst, src *domain.CanonicalProduct) {
			dst.Allergens = domain.AllergenInfo{
				Contains:   append([]string{}, src.Allergens.Contains...),
				MayContain: append([]string{}, src.Allergens.MayContain...),
			}
		},
	},
}

// apply copies the field from src into dst when the rule allows it
func (f fieldRule) apply(dst, src *domain.CanonicalProduct) bool {
	if f.isEmpty(src) {
		return false
	}
	if !f.isEmpty(dst) {
		if f.rule != preferLonger || f.length(src) <= f.length(dst) {
			return false
		}
	}
	f.copy(dst, src)
	return true
}

// reconcile enriches base from sources in the given priority order and
// returns the names of the fields it filled. Defaults are re-applied after.
func reconcile(base *domain.CanonicalProduct, sources ...*domain.CanonicalProduct) []string {
	var filled []string
	for _, src := range sources {
		if src == nil {
			continue
		}
		for _, rule := range reconciliationTable {
			if rule.apply(base, src) {
				filled = append(filled, rule.field)
			}
		}
	}
	base.ApplyDefaults()
	return filled
}
