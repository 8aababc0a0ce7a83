package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGrade(t *testing.T) {
	tests := []struct {
		in   string
		want Grade
	}{
		{"a", GradeA},
		{" B ", GradeB},
		{"c", GradeC},
		{"D", GradeD},
		{"e", GradeE},
		{"not-applicable", GradeUnknown},
		{"unknown", GradeUnknown},
		{"", GradeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseGrade(tt.in); got != tt.want {
				t.Errorf("ParseGrade(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
	assert.True(t, Grade("a").Known())
	assert.False(t, GradeUnknown.Known())
}

func TestApplyDefaults(t *testing.T) {
	p := CanonicalProduct{
		Barcode:   " 123 ",
		Name:      "  ",
		Labels:    []string{"Debio", "debio", " ", "Nyt Norge"},
		EcoScore:  EcoScore{Grade: "b"},
		NovaGroup: 7,
		Allergens: AllergenInfo{Contains: []string{"Melk"}},
	}
	p.ApplyDefaults()

	assert.Equal(t, "123", p.Barcode)
	assert.Equal(t, UnknownProductName, p.Name)
	assert.False(t, p.HasName())
	assert.Equal(t, []string{"Debio", "Nyt Norge"}, p.Labels)
	assert.NotNil(t, p.Packaging.Materials)
	assert.Equal(t, GradeB, p.EcoScore.Grade)
	assert.Equal(t, GradeUnknown, p.NutriScore.Grade)
	assert.Zero(t, p.NovaGroup)
	assert.True(t, p.Allergens.HasAllergens)
	assert.False(t, p.Allergens.HasTraces)
	assert.NotNil(t, p.Allergens.MayContain)

	again := p
	again.ApplyDefaults()
	assert.Equal(t, p, again)
}

func TestClone(t *testing.T) {
	p := CanonicalProduct{Name: "Laks", Labels: []string{"MSC"}, Packaging: Packaging{Materials: []string{"plastic"}}}
	c := p.Clone()
	c.Labels[0] = "ASC"
	c.Packaging.Materials[0] = "glass"

	assert.Equal(t, "MSC", p.Labels[0])
	assert.Equal(t, "plastic", p.Packaging.Materials[0])
}

func TestDedupeStrings(t *testing.T) {
	assert.Equal(t, []string{}, DedupeStrings(nil))
	assert.Equal(t, []string{"Hvete", "egg"}, DedupeStrings([]string{" Hvete", "egg", "HVETE", "", "Egg"}))
}

func TestDataSources(t *testing.T) {
	tests := []struct {
		sources   DataSources
		wantCount int
		wantBonus int
	}{
		{DataSources{}, 0, 0},
		{DataSources{OpenFoodFacts: true}, 1, 0},
		{DataSources{OpenFoodFacts: true, Kassalapp: true}, 2, 5},
		{DataSources{OpenFoodFacts: true, Kassalapp: true, Reference: true}, 3, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.wantCount, tt.sources.Count())
		assert.Equal(t, tt.wantBonus, tt.sources.QualityBonus())
	}
}
