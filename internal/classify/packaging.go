package classify

import "strings"

// Normalized packaging material tags
const (
	MaterialGlass             = "glass"
	MaterialPaper             = "paper"
	MaterialCardboard         = "cardboard"
	MaterialPET               = "pet"
	MaterialRecyclablePlastic = "recyclable_plastic"
	MaterialPlastic           = "plastic"
	MaterialMetal             = "metal"
)

// PackagingClass ranks packaging by environmental preference
type PackagingClass int

const (
	PackagingUnknown PackagingClass = iota
	PackagingFiberOrGlass
	PackagingRecyclablePlastic
	PackagingPlastic
)

func (c PackagingClass) String() string {
	switch c {
	case PackagingFiberOrGlass:
		return "glass_or_fiber"
	case PackagingRecyclablePlastic:
		return "recyclable_plastic"
	case PackagingPlastic:
		return "plastic"
	default:
		return "unknown"
	}
}

// materialKeywords is checked in order so that "resirkulerbar plast" is tagged
// before the generic plastic keyword is considered.
var materialKeywords = []struct {
	material string
	keywords []string
}{
	{MaterialGlass, []string{"glass", "verre"}},
	{MaterialPaper, []string{"paper", "papir", "papier"}},
	{MaterialCardboard, []string{"cardboard", "kartong", "papp", "carton", "tetra"}},
	{MaterialPET, []string{"pet", "rpet", "polyethylene terephthalate"}},
	{MaterialRecyclablePlastic, []string{"recyclable plastic", "recycled plastic", "resirkulerbar plast", "resirkulert plast", "gjenvunnet plast"}},
	{MaterialPlastic, []string{"plastic", "plast", "polypropylene", "polyethylene", "pp5", "hdpe", "ldpe"}},
	{MaterialMetal, []string{"aluminium", "aluminum", "metal", "metall", "boks", "tin", "steel"}},
}

// DetectMaterials extracts normalized material tags from free text and/or
// upstream tags such as "en:glass" or "en:pet-1-polyethylene-terephthalate".
func DetectMaterials(texts ...string) []string {
	joined := strings.Join(texts, " | ")
	joined = strings.NewReplacer("en:", " ", "-", " ", "_", " ").Replace(joined)
	folded := Fold(joined)

	var found []string
	for _, entry := range materialKeywords {
		if matchAny(folded, entry.keywords) {
			found = append(found, entry.material)
		}
	}
	return found
}

// ClassifyPackaging picks the best class present among materials and free text:
// glass/paper/cardboard beat recyclable plastic, which beats generic plastic.
func ClassifyPackaging(materials []string, text string) PackagingClass {
	tags := make(map[string]bool)
	for _, m := range materials {
		tags[strings.ToLower(strings.TrimSpace(m))] = true
	}
	for _, m := range DetectMaterials(text) {
		tags[m] = true
	}

	switch {
	case tags[MaterialGlass] || tags[MaterialPaper] || tags[MaterialCardboard]:
		return PackagingFiberOrGlass
	case tags[MaterialPET] || tags[MaterialRecyclablePlastic]:
		return PackagingRecyclablePlastic
	case tags[MaterialPlastic]:
		return PackagingPlastic
	default:
		return PackagingUnknown
	}
}
