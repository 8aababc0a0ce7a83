package scoring

import (
	"fmt"
	"strings"

	"github.com/greenscan/backend/internal/classify"
	"github.com/greenscan/backend/internal/domain"
)

// Component weights; they sum to 1.0
const (
	weightEcoScore       = 0.40
	weightTransport      = 0.25
	weightNorwegian      = 0.15
	weightPackaging      = 0.10
	weightCertifications = 0.10
)

// Transport scores by origin class
const (
	transportNorway  = 100
	transportNordic  = 80
	transportEU      = 50
	transportUnknown = 40
	transportFar     = 20
)

// Packaging scores by class
const (
	packagingFiberOrGlass      = 90
	packagingRecyclablePlastic = 70
	packagingPlastic           = 40
	packagingUnknown           = 50
)

const (
	norwegianYes = 100
	norwegianNo  = 30

	certificationBase    = 50
	certificationPerItem = 10

	qualityPerComponent = 20
	qualityPartial      = 10
	qualityHint         = 5
)

// Score computes the composite sustainability score and the nested health score.
// It never fails: an all-defaults product still yields a valid result.
func Score(p domain.CanonicalProduct) domain.ScoreResult {
	eco, ecoQ := scoreEcoScore(p)
	transport, transportQ := scoreTransport(p)
	norwegian, norwegianQ := scoreNorwegian(p)
	packaging, packagingQ := scorePackaging(p)
	certs, certsQ := scoreCertifications(p)

	weighted := float64(eco.Score)*weightEcoScore +
		float64(transport.Score)*weightTransport +
		float64(norwegian.Score)*weightNorwegian +
		float64(packaging.Score)*weightPackaging +
		float64(certs.Score)*weightCertifications

	total := clampRound(weighted)

	return domain.ScoreResult{
		Total: total,
		Grade: GradeFor(total),
		Breakdown: domain.Breakdown{
			EcoScore:       eco,
			Transport:      transport,
			Norwegian:      norwegian,
			Packaging:      packaging,
			Certifications: certs,
		},
		DataQuality: clampRound(float64(ecoQ + transportQ + norwegianQ + packagingQ + certsQ)),
		Health:      ScoreHealth(p),
	}
}

// ApplyQualityBonus adds the resolver's multi-source bonus to DataQuality
func ApplyQualityBonus(result domain.ScoreResult, bonus int) domain.ScoreResult {
	result.DataQuality = clampRound(float64(result.DataQuality + bonus))
	return result
}

func scoreEcoScore(p domain.CanonicalProduct) (domain.ScoreComponent, int) {
	c := domain.ScoreComponent{
		Score:  clampRound(gradeValue(p.EcoScore.Grade)),
		Weight: weightEcoScore,
		Label:  "Eco-Score",
	}
	grade := domain.ParseGrade(string(p.EcoScore.Grade))
	if grade.Known() {
		c.DataAvailable = true
		c.Rationale = fmt.Sprintf("Eco-Score grade %s", grade)
		if p.EcoScore.HasDetailedData {
			c.Rationale += " based on a detailed life-cycle assessment"
		}
		return c, qualityPerComponent
	}
	c.Rationale = "No Eco-Score available, neutral value used"
	if strings.TrimSpace(p.Ingredients) != "" {
		return c, qualityHint
	}
	return c, 0
}

func scoreTransport(p domain.CanonicalProduct) (domain.ScoreComponent, int) {
	c := domain.ScoreComponent{Weight: weightTransport, Label: "Transport"}

	class := classify.ClassifyOrigin(p.Origin)
	if p.IsNorwegian {
		class = classify.OriginNorway
	}

	origin := strings.TrimSpace(p.Origin)
	switch class {
	case classify.OriginNorway:
		c.Score = transportNorway
		c.Rationale = "Produced in Norway, short transport distance"
	case classify.OriginNordic:
		c.Score = transportNordic
		c.Rationale = fmt.Sprintf("Imported from a Nordic neighbour (%s)", origin)
	case classify.OriginEU:
		c.Score = transportEU
		c.Rationale = fmt.Sprintf("Imported from Europe (%s)", origin)
	case classify.OriginFar:
		c.Score = transportFar
		c.Rationale = fmt.Sprintf("Long-distance import (%s)", origin)
	default:
		c.Score = transportUnknown
		c.Rationale = "Unknown origin, neutral value used"
		if origin != "" {
			return c, qualityPartial
		}
		return c, 0
	}
	c.DataAvailable = true
	return c, qualityPerComponent
}

func scoreNorwegian(p domain.CanonicalProduct) (domain.ScoreComponent, int) {
	c := domain.ScoreComponent{Weight: weightNorwegian, Label: "Norwegian"}
	if p.IsNorwegian {
		c.Score = norwegianYes
		c.Rationale = "Norwegian product"
		c.DataAvailable = true
		return c, qualityPerComponent
	}
	c.Score = norwegianNo
	c.Rationale = "Not identified as a Norwegian product"
	if strings.TrimSpace(p.Origin) != "" {
		c.DataAvailable = true
		return c, qualityPerComponent
	}
	return c, 0
}

func scorePackaging(p domain.CanonicalProduct) (domain.ScoreComponent, int) {
	c := domain.ScoreComponent{Weight: weightPackaging, Label: "Packaging"}
	switch classify.ClassifyPackaging(p.Packaging.Materials, p.Packaging.Text) {
	case classify.PackagingFiberOrGlass:
		c.Score = packagingFiberOrGlass
		c.Rationale = "Glass, paper or cardboard packaging"
	case classify.PackagingRecyclablePlastic:
		c.Score = packagingRecyclablePlastic
		c.Rationale = "Recyclable plastic (PET) packaging"
	case classify.PackagingPlastic:
		c.Score = packagingPlastic
		c.Rationale = "Plastic packaging"
	default:
		c.Score = packagingUnknown
		c.Rationale = "Packaging unknown, neutral value used"
		if strings.TrimSpace(p.Packaging.Text) != "" || len(p.Packaging.Materials) > 0 {
			return c, qualityPartial
		}
		return c, 0
	}
	c.DataAvailable = true
	return c, qualityPerComponent
}

func scoreCertifications(p domain.CanonicalProduct) (domain.ScoreComponent, int) {
	c := domain.ScoreComponent{Weight: weightCertifications, Label: "Certifications"}
	found := classify.MatchCertifications(p.Labels)
	c.Score = clampRound(float64(certificationBase + certificationPerItem*len(found)))
	if len(found) == 0 {
		c.Rationale = "No recognized certifications"
		if len(p.Labels) > 0 {
			return c, qualityPartial
		}
		return c, 0
	}

	names := make([]string, len(found))
	for i, cert := range found {
		names[i] = string(cert)
	}
	c.Rationale = "Certified: " + strings.Join(names, ", ")
	c.DataAvailable = true
	return c, qualityPerComponent
}
