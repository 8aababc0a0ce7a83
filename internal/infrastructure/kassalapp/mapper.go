package kassalapp

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/greenscan/backend/internal/classify"
	"github.com/greenscan/backend/internal/domain"
)

// Currency of every Kassalapp price
const Currency = "NOK"

// MapToCanonical translates a Kassalapp product into a CanonicalProduct.
// Kassalapp has no eco, nutri or NOVA data, so those keep their defaults;
// origin is recovered from the offer descriptions when they state one.
func MapToCanonical(kp *domain.KassalappProduct) *domain.CanonicalProduct {
	if kp == nil {
		return nil
	}

	product := &domain.CanonicalProduct{Barcode: strings.TrimSpace(kp.EAN)}

	var descriptions []string
	for _, offer := range kp.Products {
		if product.Barcode == "" {
			product.Barcode = strings.TrimSpace(offer.EAN)
		}
		product.Name = longer(product.Name, offer.Name)
		product.Ingredients = longer(product.Ingredients, offer.Ingredients)
		if product.Brand == "" {
			product.Brand = firstNonEmpty(offer.Brand, offer.Vendor)
		}
		if product.ImageURL == "" {
			product.ImageURL = strings.TrimSpace(offer.Image)
		}
		if product.Category == "" {
			product.Category = categoryPath(offer.Category)
		}
		if d := strings.TrimSpace(offer.Description); d != "" {
			descriptions = append(descriptions, d)
		}
	}

	for _, d := range descriptions {
		if origin := classify.ExtractOrigin(d); origin != "" {
			product.Origin = origin
			break
		}
	}

	labels := collectLabels(kp)
	product.Labels = labels

	packagingText := strings.Join(descriptions, " ")
	product.Packaging.Materials = classify.DetectMaterials(packagingText)

	product.Allergens = splitAllergens(collectAllergens(kp))

	norwegianInputs := append([]string{product.Origin, product.Name}, labels...)
	product.IsNorwegian = classify.IsNorwegian(norwegianInputs...)

	product.ApplyDefaults()
	return product
}

// LowestPrice returns the cheapest current offer, or nil when no offer has a price
func LowestPrice(kp *domain.KassalappProduct) *domain.PriceSummary {
	if kp == nil {
		return nil
	}

	var best *domain.PriceSummary
	for _, offer := range kp.Products {
		if offer.CurrentPrice == nil || offer.CurrentPrice.Price <= 0 {
			continue
		}
		amount := decimal.NewFromFloat(offer.CurrentPrice.Price).Round(2)
		if best != nil && !amount.LessThan(best.Amount) {
			continue
		}
		store := ""
		if offer.Store != nil {
			store = offer.Store.Name
		}
		best = &domain.PriceSummary{Amount: amount, Store: store, Currency: Currency}
	}
	return best
}

// NutritionToReference converts Kassalapp's per-100g nutrition rows.
// It returns nil when none of the scored nutrients are present.
func NutritionToReference(kp *domain.KassalappProduct) *domain.ReferenceNutrients {
	if kp == nil || len(kp.Nutrition) == 0 {
		return nil
	}
	ref := &domain.ReferenceNutrients{Source: "Kassalapp"}
	found := false
	for _, n := range kp.Nutrition {
		switch strings.ToLower(n.Code) {
		case "protein":
			ref.Protein, found = n.Amount, true
		case "fiber":
			ref.Fiber, found = n.Amount, true
		case "sugars":
			ref.Sugars, found = n.Amount, true
		case "saturated_fat":
			ref.SaturatedFat, found = n.Amount, true
		case "salt":
			ref.Salt, found = n.Amount, true
		case "energy_kcal":
			ref.EnergyKcal = n.Amount
		}
	}
	if !found {
		return nil
	}
	if len(kp.Products) > 0 {
		ref.Name = kp.Products[0].Name
	}
	return ref
}

// categoryPath joins the category tree from the root down
func categoryPath(categories []domain.KassalappCategory) string {
	if len(categories) == 0 {
		return ""
	}
	sorted := append([]domain.KassalappCategory{}, categories...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Depth < sorted[j].Depth })

	names := make([]string, 0, len(sorted))
	for _, c := range sorted {
		if name := strings.TrimSpace(c.Name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func collectLabels(kp *domain.KassalappProduct) []string {
	var labels []string
	add := func(ls []domain.KassalappLabel) {
		for _, l := range ls {
			labels = append(labels, firstNonEmpty(l.DisplayName, l.Name))
		}
	}
	add(kp.Labels)
	for _, offer := range kp.Products {
		add(offer.Labels)
	}
	return labels
}

func collectAllergens(kp *domain.KassalappProduct) []domain.KassalappAllergen {
	all := append([]domain.KassalappAllergen{}, kp.Allergens...)
	for _, offer := range kp.Products {
		all = append(all, offer.Allergens...)
	}
	return all
}

// splitAllergens separates YES from CAN_CONTAIN declarations; NO is dropped
func splitAllergens(allergens []domain.KassalappAllergen) domain.AllergenInfo {
	var info domain.AllergenInfo
	for _, a := range allergens {
		name := firstNonEmpty(a.DisplayName, a.Code)
		switch strings.ToUpper(strings.TrimSpace(a.Contains)) {
		case domain.AllergenContains:
			info.Contains = append(info.Contains, name)
		case domain.AllergenMayContain:
			info.MayContain = append(info.MayContain, name)
		}
	}
	return info
}

// longer keeps current unless candidate has more runes
func longer(current, candidate string) string {
	candidate = strings.TrimSpace(candidate)
	if utf8.RuneCountInString(candidate) > utf8.RuneCountInString(current) {
		return candidate
	}
	return current
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
