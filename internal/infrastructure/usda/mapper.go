package usda

import (
	"github.com/greenscan/backend/internal/domain"
)

// USDA Nutrient IDs for the nutrients the health estimate reads
const (
	NutrientIDEnergy       = 1008 // Calories (kcal)
	NutrientIDProtein      = 1003 // Protein (g)
	NutrientIDFiber        = 1079 // Fiber, total dietary (g)
	NutrientIDSugars       = 2000 // Sugars, total (g)
	NutrientIDSaturatedFat = 1258 // Fatty acids, total saturated (g)
	NutrientIDSodium       = 1093 // Sodium (mg)
)

// sodiumToSalt converts mg sodium to g salt (salt = sodium x 2.5)
const sodiumToSalt = 2.5 / 1000

// MapToReferenceNutrients converts USDA food data to per-100g reference nutrients
func MapToReferenceNutrients(usdaFood *domain.USDAFood, confidence float64) *domain.ReferenceNutrients {
	n := usdaFood.Nutrients
	return &domain.ReferenceNutrients{
		Name:         usdaFood.Description,
		Source:       "USDA",
		Protein:      FindNutrientValue(n, NutrientIDProtein),
		Fiber:        FindNutrientValue(n, NutrientIDFiber),
		Sugars:       FindNutrientValue(n, NutrientIDSugars),
		SaturatedFat: FindNutrientValue(n, NutrientIDSaturatedFat),
		Salt:         FindNutrientValue(n, NutrientIDSodium) * sodiumToSalt,
		EnergyKcal:   FindNutrientValue(n, NutrientIDEnergy),
		Confidence:   confidence,
	}
}

// FindNutrientValue finds a specific nutrient value by ID
func FindNutrientValue(nutrients []domain.USDANutrient, nutrientID int) float64 {
	for _, nutrient := range nutrients {
		if nutrient.NutrientID == nutrientID {
			return nutrient.Value
		}
	}
	return 0.0
}
