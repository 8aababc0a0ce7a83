package domain

// KassalappProduct is the provider-native Kassalapp response for one EAN.
// A single EAN is sold by several stores, so it carries one offer per store
// plus the product-level allergen, nutrition and label lists.
type KassalappProduct struct {
	EAN       string               `json:"ean"`
	Products  []KassalappOffer     `json:"products"`
	Allergens []KassalappAllergen  `json:"allergens"`
	Nutrition []KassalappNutrition `json:"nutrition"`
	Labels    []KassalappLabel     `json:"labels"`
}

// KassalappOffer is one store's listing of a product
type KassalappOffer struct {
	ID           int                 `json:"id"`
	Name         string              `json:"name"`
	Brand        string              `json:"brand"`
	Vendor       string              `json:"vendor"`
	EAN          string              `json:"ean"`
	URL          string              `json:"url"`
	Image        string              `json:"image"`
	Description  string              `json:"description"`
	Ingredients  string              `json:"ingredients"`
	CurrentPrice *KassalappPrice     `json:"current_price"`
	Store        *KassalappStore     `json:"store"`
	Category     []KassalappCategory `json:"category"`
	Allergens    []KassalappAllergen `json:"allergens,omitempty"`
	Labels       []KassalappLabel    `json:"labels,omitempty"`
	Weight       float64             `json:"weight"`
	WeightUnit   string              `json:"weight_unit"`
}

// KassalappPrice is the current price of an offer
type KassalappPrice struct {
	Price float64 `json:"price"`
	Date  string  `json:"date"`
}

// KassalappStore identifies the selling store chain
type KassalappStore struct {
	Name string `json:"name"`
	Code string `json:"code"`
	URL  string `json:"url"`
	Logo string `json:"logo"`
}

// KassalappCategory is one level of the store category tree
type KassalappCategory struct {
	ID    int    `json:"id"`
	Depth int    `json:"depth"`
	Name  string `json:"name"`
}

// Kassalapp allergen "contains" values
const (
	AllergenContains    = "YES"
	AllergenMayContain  = "CAN_CONTAIN"
	AllergenNotIncluded = "NO"
)

// KassalappAllergen is an allergen declaration
type KassalappAllergen struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	Contains    string `json:"contains"`
}

// KassalappNutrition is one nutrient row per 100g
type KassalappNutrition struct {
	Code        string  `json:"code"`
	DisplayName string  `json:"display_name"`
	Amount      float64 `json:"amount"`
	Unit        string  `json:"unit"`
}

// KassalappLabel is a certification or marketing label
type KassalappLabel struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Organic     bool   `json:"organic"`
}
