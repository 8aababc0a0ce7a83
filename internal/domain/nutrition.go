package domain

// ReferenceNutrients holds per-100g nutrient values from a food composition reference.
// Used only to estimate a health grade when no Nutri-Score is known.
type ReferenceNutrients struct {
	Name         string  `json:"name"`
	Source       string  `json:"source"` // "foodtable" or "USDA"
	Protein      float64 `json:"protein"`
	Fiber        float64 `json:"fiber"`
	Sugars       float64 `json:"sugars"`
	SaturatedFat float64 `json:"saturatedFat"`
	Salt         float64 `json:"salt"`
	EnergyKcal   float64 `json:"energyKcal"`
	Confidence   float64 `json:"confidence,omitempty"`
}

// SearchRequest represents a reference nutrition lookup
type SearchRequest struct {
	ProductName string `json:"productName" binding:"required"`
	Brand       string `json:"brand,omitempty"`
}

// MatchResult represents the result of a name matching operation
type MatchResult struct {
	FdcID         string   `json:"fdcId"`
	Description   string   `json:"description"`
	MatchScore    float64  `json:"matchScore"`
	MatchedTokens []string `json:"matchedTokens,omitempty"`
}

// USDAFood represents a food item from the USDA FoodData Central API
type USDAFood struct {
	FdcID       int            `json:"fdcId"`
	Description string         `json:"description"`
	DataType    string         `json:"dataType"`
	FoodClass   string         `json:"foodClass,omitempty"`
	Nutrients   []USDANutrient `json:"foodNutrients"`
}

// USDANutrient represents a single nutrient from USDA data
type USDANutrient struct {
	NutrientID     int     `json:"nutrientId"`
	NutrientName   string  `json:"nutrientName"`
	NutrientNumber string  `json:"nutrientNumber,omitempty"`
	UnitName       string  `json:"unitName"`
	Value          float64 `json:"value"`
}

// USDASearchResponse represents the response from USDA search API
type USDASearchResponse struct {
	Foods       []USDAFood `json:"foods"`
	TotalHits   int        `json:"totalHits"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
}
