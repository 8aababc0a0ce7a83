package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenscan/backend/internal/domain"
)

func TestGradeFor(t *testing.T) {
	tests := []struct {
		total int
		want  domain.Grade
	}{
		{100, domain.GradeA},
		{80, domain.GradeA},
		{79, domain.GradeB},
		{60, domain.GradeB},
		{59, domain.GradeC},
		{40, domain.GradeC},
		{39, domain.GradeD},
		{20, domain.GradeD},
		{19, domain.GradeE},
		{0, domain.GradeE},
	}

	for _, tt := range tests {
		if got := GradeFor(tt.total); got != tt.want {
			t.Errorf("GradeFor(%d) = %s, want %s", tt.total, got, tt.want)
		}
	}
}

func TestScore_EndToEndExample(t *testing.T) {
	p := domain.CanonicalProduct{
		Barcode:     "7038010055720",
		Name:        "Økologisk melk",
		EcoScore:    domain.EcoScore{Grade: "a"},
		IsNorwegian: true,
		Labels:      []string{"Økologisk", "Nyt Norge"},
		Packaging:   domain.Packaging{Materials: []string{"glass"}},
	}

	result := Score(p)

	assert.Equal(t, 100, result.Breakdown.EcoScore.Score)
	assert.Equal(t, 100, result.Breakdown.Transport.Score)
	assert.Equal(t, 100, result.Breakdown.Norwegian.Score)
	assert.Equal(t, 90, result.Breakdown.Packaging.Score)
	assert.GreaterOrEqual(t, result.Breakdown.Certifications.Score, 70)
	assert.GreaterOrEqual(t, result.Total, 90)
	assert.Equal(t, domain.GradeA, result.Grade)
	assert.Equal(t, 100, result.DataQuality)

	for _, c := range result.Breakdown.Components() {
		assert.True(t, c.DataAvailable, "%s should be backed by data", c.Label)
		assert.NotEmpty(t, c.Rationale)
	}
}

func TestScore_AllDefaults(t *testing.T) {
	var p domain.CanonicalProduct
	p.ApplyDefaults()

	result := Score(p)

	assert.InDelta(t, 45, result.Total, 1)
	assert.Equal(t, domain.GradeC, result.Grade)
	assert.Equal(t, 0, result.DataQuality)
	assert.False(t, result.Breakdown.EcoScore.DataAvailable)
	assert.False(t, result.Breakdown.Transport.DataAvailable)
	assert.False(t, result.Breakdown.Packaging.DataAvailable)
	assert.False(t, result.Breakdown.Certifications.DataAvailable)
	assert.Equal(t, 50, result.Breakdown.EcoScore.Score)
	assert.Equal(t, 40, result.Breakdown.Transport.Score)
	assert.Equal(t, 30, result.Breakdown.Norwegian.Score)
}

func TestScore_MinimalInputsKeepDFloor(t *testing.T) {
	p := domain.CanonicalProduct{
		EcoScore: domain.EcoScore{Grade: domain.GradeE},
		Origin:   "Peru",
	}

	result := Score(p)

	assert.Equal(t, domain.GradeD, result.Grade)
	assert.GreaterOrEqual(t, result.Total, 20)
	assert.Less(t, result.Total, 40)
}

func TestScore_WeightsSumToOne(t *testing.T) {
	result := Score(domain.CanonicalProduct{})
	sum := 0.0
	for _, c := range result.Breakdown.Components() {
		sum += c.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestScore_NorwegianFlag(t *testing.T) {
	base := domain.CanonicalProduct{Origin: "Spania", Labels: []string{"Debio"}}
	norwegian := base
	norwegian.IsNorwegian = true

	withFlag := Score(norwegian)
	without := Score(base)

	assert.Equal(t, 100, withFlag.Breakdown.Norwegian.Score)
	assert.Equal(t, 30, without.Breakdown.Norwegian.Score)
	assert.Greater(t, withFlag.Total, without.Total)
}

func TestScore_TransportOrdering(t *testing.T) {
	origins := []struct {
		origin string
		want   int
	}{
		{"Norge", 100},
		{"Sverige", 80},
		{"Spania", 50},
		{"", 40},
		{"Peru", 20},
	}

	prev := 101
	for _, o := range origins {
		t.Run(o.origin, func(t *testing.T) {
			got := Score(domain.CanonicalProduct{Origin: o.origin}).Breakdown.Transport.Score
			assert.Equal(t, o.want, got)
			assert.Less(t, got, prev)
			prev = got
		})
	}
}

func TestScore_TransportUnknownOriginText(t *testing.T) {
	result := Score(domain.CanonicalProduct{Origin: "Atlantis"})
	assert.Equal(t, 40, result.Breakdown.Transport.Score)
	assert.False(t, result.Breakdown.Transport.DataAvailable)
	// partial transport credit plus norwegian credit for origin text
	assert.Equal(t, 30, result.DataQuality)
}

func TestScore_Certifications(t *testing.T) {
	one := Score(domain.CanonicalProduct{Labels: []string{"Debio"}}).Breakdown.Certifications
	two := Score(domain.CanonicalProduct{Labels: []string{"Debio", "MSC"}}).Breakdown.Certifications
	dup := Score(domain.CanonicalProduct{Labels: []string{"Debio", "debio"}}).Breakdown.Certifications

	assert.Equal(t, 60, one.Score)
	assert.Equal(t, 70, two.Score)
	assert.Equal(t, one.Score, dup.Score)
	assert.GreaterOrEqual(t, two.Score, one.Score)

	all := []string{
		"Nyt Norge", "Debio", "Svanemerket", "EU organic", "Økologisk",
		"MSC", "ASC", "Fairtrade", "Rainforest Alliance",
	}
	capped := Score(domain.CanonicalProduct{Labels: all}).Breakdown.Certifications
	assert.Equal(t, 100, capped.Score)
	assert.True(t, capped.DataAvailable)

	none := Score(domain.CanonicalProduct{Labels: []string{"Glutenfri"}}).Breakdown.Certifications
	assert.Equal(t, 50, none.Score)
	assert.False(t, none.DataAvailable)
}

func TestScore_Packaging(t *testing.T) {
	tests := []struct {
		name      string
		packaging domain.Packaging
		want      int
	}{
		{"glass", domain.Packaging{Materials: []string{"glass"}}, 90},
		{"cardboard text", domain.Packaging{Text: "Kartong"}, 90},
		{"pet", domain.Packaging{Materials: []string{"pet"}}, 70},
		{"plastic", domain.Packaging{Text: "plastpose"}, 40},
		{"unknown", domain.Packaging{}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(domain.CanonicalProduct{Packaging: tt.packaging}).Breakdown.Packaging
			assert.Equal(t, tt.want, got.Score)
		})
	}
}

func TestScore_TotalsInRange(t *testing.T) {
	products := []domain.CanonicalProduct{
		{},
		{EcoScore: domain.EcoScore{Grade: "z"}, NovaGroup: 9},
		{NutriScore: domain.NutriScore{Grade: "e"}, NovaGroup: 4, Origin: "Kina"},
		{EcoScore: domain.EcoScore{Grade: "A"}, NutriScore: domain.NutriScore{Grade: "A"}, NovaGroup: 1, IsNorwegian: true},
	}

	for _, p := range products {
		result := Score(p)
		require.GreaterOrEqual(t, result.Total, 0)
		require.LessOrEqual(t, result.Total, 100)
		require.GreaterOrEqual(t, result.Health.Total, 0)
		require.LessOrEqual(t, result.Health.Total, 100)
		require.GreaterOrEqual(t, result.DataQuality, 0)
		require.LessOrEqual(t, result.DataQuality, 100)
	}
}

func TestApplyQualityBonus(t *testing.T) {
	result := domain.ScoreResult{DataQuality: 40}
	assert.Equal(t, 50, ApplyQualityBonus(result, 10).DataQuality)

	result.DataQuality = 95
	assert.Equal(t, 100, ApplyQualityBonus(result, 10).DataQuality)
	assert.Equal(t, 95, result.DataQuality, "input must not be modified")
}
