package usecase

import (
	"sort"
	"strings"
	"unicode"

	"github.com/greenscan/backend/internal/classify"
	"github.com/greenscan/backend/internal/domain"
)

// Name match tiers; only the highest applicable tier counts
const (
	tierExact        = 200
	tierPrefix       = 150
	tierFirstWord    = 140
	tierWholeWord    = 100
	tierFlavoredWord = 30
	tierSubstring    = 20
)

const (
	produceBonus     = 50
	processedPenalty = -10
	staticBonus      = 100
)

// flavorIndicators mark a name as a variant of the query term ("Bananmelk med vanilje")
var flavorIndicators = []string{
	"with", "med", "og", "smoothie", "yogurt", "yoghurt", "juice",
	"drink", "drikk", "smak", "flavour", "flavor",
}

var produceCategories = []string{"frukt", "fruit", "grønnsak", "vegetable", "fresh", "fersk", "grønt", "bær"}

var processedCategories = []string{"meieri", "dairy", "drikke", "beverage", "snack", "godteri"}

// candidate is a search result awaiting ranking
type candidate struct {
	product domain.CanonicalProduct
	static  bool
}

// relevanceScore ranks a candidate for a query. Literal product matches
// outrank flavored variants, and table entries outrank adapter results.
func relevanceScore(query string, c candidate) int {
	q := classify.Fold(strings.TrimSpace(query))
	score := nameTier(q, classify.Fold(strings.TrimSpace(c.product.Name)))
	score += categoryAdjustment(classify.Fold(c.product.Category))
	score += novaAdjustment(c.product.NovaGroup)
	if c.static {
		score += staticBonus
	}
	return score
}

func nameTier(q, name string) int {
	if q == "" || name == "" {
		return 0
	}
	if name == q {
		return tierExact
	}
	if strings.HasPrefix(name, q) {
		return tierPrefix
	}

	words := nameWords(name)
	if len(words) > 0 && words[0] == q {
		return tierFirstWord
	}
	if classify.ContainsWord(name, q) {
		if hasFlavorIndicator(name) {
			return tierFlavoredWord
		}
		return tierWholeWord
	}
	if strings.Contains(name, q) {
		return tierSubstring
	}
	return 0
}

// nameWords splits a folded name on anything that is not a letter or digit
func nameWords(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func hasFlavorIndicator(name string) bool {
	if strings.Contains(name, "&") {
		return true
	}
	for _, w := range flavorIndicators {
		if classify.ContainsWord(name, w) {
			return true
		}
	}
	return false
}

// categoryAdjustment gives produce categories a bonus and processed ones a
// penalty. Produce is checked first, so "fersk drikke" counts as produce.
func categoryAdjustment(category string) int {
	switch {
	case category == "":
		return 0
	case containsAny(category, produceCategories):
		return produceBonus
	case containsAny(category, processedCategories):
		return processedPenalty
	default:
		return 0
	}
}

func novaAdjustment(group int) int {
	switch group {
	case 1:
		return 30
	case 2:
		return 15
	case 4:
		return -20
	default:
		return 0
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// rankCandidates stable-sorts candidates by descending relevance and
// truncates to limit.
func rankCandidates(query string, candidates []candidate, limit int) []domain.CanonicalProduct {
	type scored struct {
		candidate
		score int
	}
	ranked := make([]scored, len(candidates))
	for i, c := range candidates {
		ranked[i] = scored{candidate: c, score: relevanceScore(query, c)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]domain.CanonicalProduct, len(ranked))
	for i, r := range ranked {
		out[i] = r.product
	}
	return out
}

// dedupeCandidates keeps the first occurrence by case-insensitive name, then
// by barcode. Placeholder names never collide.
func dedupeCandidates(candidates []candidate) []candidate {
	seenNames := make(map[string]bool, len(candidates))
	seenBarcodes := make(map[string]bool, len(candidates))
	out := make([]candidate, 0, len(candidates))

	for _, c := range candidates {
		name := ""
		if c.product.HasName() {
			name = classify.Fold(strings.TrimSpace(c.product.Name))
		}
		if name != "" && seenNames[name] {
			continue
		}
		barcode := strings.TrimSpace(c.product.Barcode)
		if barcode != "" && seenBarcodes[barcode] {
			continue
		}
		if name != "" {
			seenNames[name] = true
		}
		if barcode != "" {
			seenBarcodes[barcode] = true
		}
		out = append(out, c)
	}
	return out
}
