// Package scoring computes the sustainability and health scores of a
// CanonicalProduct. Every function here is pure and total.
package scoring

import (
	"math"

	"github.com/greenscan/backend/internal/domain"
)

// Grade thresholds shared by every graded quantity
const (
	thresholdA = 80
	thresholdB = 60
	thresholdC = 40
	thresholdD = 20
)

// GradeFor maps a 0-100 total to a letter grade
func GradeFor(total int) domain.Grade {
	switch {
	case total >= thresholdA:
		return domain.GradeA
	case total >= thresholdB:
		return domain.GradeB
	case total >= thresholdC:
		return domain.GradeC
	case total >= thresholdD:
		return domain.GradeD
	default:
		return domain.GradeE
	}
}

// gradeValue is the score mapping used for both Eco-Score and Nutri-Score
func gradeValue(g domain.Grade) float64 {
	switch domain.ParseGrade(string(g)) {
	case domain.GradeA:
		return 100
	case domain.GradeB:
		return 80
	case domain.GradeC:
		return 60
	case domain.GradeD:
		return 40
	case domain.GradeE:
		return 20
	default:
		return 50
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// clampRound clamps to [0, 100] and rounds half away from zero
func clampRound(v float64) int {
	return int(math.Round(clamp(v, 0, 100)))
}
