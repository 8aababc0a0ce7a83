package scoring

import (
	"math"

	"github.com/greenscan/backend/internal/domain"
)

const (
	healthBase        = 50
	healthBaseWeight  = 0.6
	healthNutriWeight = 0.4
)

// ScoreHealth blends the Nutri-Score grade with a NOVA processing penalty
func ScoreHealth(p domain.CanonicalProduct) domain.HealthScore {
	nutri := domain.ParseGrade(string(p.NutriScore.Grade))
	nova := p.NovaGroup
	if nova < 0 || nova > 4 {
		nova = 0
	}

	raw := healthBaseWeight*healthBase + healthNutriWeight*gradeValue(nutri) + novaPenalty(nova)
	total := clampRound(raw)

	return domain.HealthScore{
		Total:      total,
		Grade:      GradeFor(total),
		NutriScore: nutri,
		Nova:       nova,
	}
}

func novaPenalty(group int) float64 {
	switch group {
	case 2:
		return -5
	case 3:
		return -10
	case 4:
		return -20
	default:
		return 0
	}
}

// EstimateHealthFromNutrients scores per-100 g reference nutrients on 0..100.
// Protein and fiber raise the score; sugars, saturated fat and salt above
// their thresholds lower it.
func EstimateHealthFromNutrients(n domain.ReferenceNutrients) int {
	score := 50.0
	score += math.Min(nonNegative(n.Protein), 15)
	score += math.Min(nonNegative(n.Fiber)*3, 15)
	score -= math.Min(math.Max(n.Sugars-10, 0), 20)
	score -= math.Min(math.Max(n.SaturatedFat-5, 0)*2, 15)
	score -= math.Min(math.Max(n.Salt-1.5, 0)*5, 10)
	return clampRound(score)
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
