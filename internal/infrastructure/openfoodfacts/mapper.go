package openfoodfacts

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/greenscan/backend/internal/classify"
	"github.com/greenscan/backend/internal/domain"
)

// productResponse is the envelope of /api/v2/product/{code}.json
type productResponse struct {
	Code    string      `json:"code"`
	Status  int         `json:"status"`
	Product *offProduct `json:"product"`
}

// searchResponse is the envelope of /cgi/search.pl?json=1
type searchResponse struct {
	Count    int          `json:"count"`
	Products []offProduct `json:"products"`
}

// offProduct is the subset of an Open Food Facts product record we read
type offProduct struct {
	Code                string          `json:"code"`
	ProductName         string          `json:"product_name"`
	ProductNameNo       string          `json:"product_name_no"`
	ProductNameEn       string          `json:"product_name_en"`
	GenericName         string          `json:"generic_name"`
	Brands              string          `json:"brands"`
	ImageFrontURL       string          `json:"image_front_url"`
	ImageURL            string          `json:"image_url"`
	Categories          string          `json:"categories"`
	Origins             string          `json:"origins"`
	ManufacturingPlaces string          `json:"manufacturing_places"`
	Packaging           string          `json:"packaging"`
	PackagingText       string          `json:"packaging_text"`
	PackagingTags       []string        `json:"packaging_tags"`
	PackagingMaterials  []string        `json:"packaging_materials_tags"`
	Labels              string          `json:"labels"`
	LabelsTags          []string        `json:"labels_tags"`
	EcoscoreGrade       string          `json:"ecoscore_grade"`
	EcoscoreScore       flexFloat       `json:"ecoscore_score"`
	EcoscoreData        json.RawMessage `json:"ecoscore_data"`
	NutriscoreGrade     string          `json:"nutriscore_grade"`
	NutriscoreScore     flexFloat       `json:"nutriscore_score"`
	NovaGroup           flexFloat       `json:"nova_group"`
	IngredientsText     string          `json:"ingredients_text"`
	IngredientsTextNo   string          `json:"ingredients_text_no"`
	AllergensTags       []string        `json:"allergens_tags"`
	TracesTags          []string        `json:"traces_tags"`
}

// flexFloat accepts numbers, numeric strings and null; OFF uses all three
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// MapToCanonical converts an Open Food Facts record to a CanonicalProduct.
// barcode is used when the record carries no code of its own.
func MapToCanonical(barcode string, p *offProduct) *domain.CanonicalProduct {
	code := strings.TrimSpace(p.Code)
	if code == "" {
		code = barcode
	}

	labels := splitList(p.Labels)
	if len(labels) == 0 {
		labels = tagsToText(p.LabelsTags)
	}

	origin := firstNonEmpty(p.Origins, p.ManufacturingPlaces)
	packagingText := firstNonEmpty(p.Packaging, p.PackagingText)

	materialInputs := append(append([]string{}, p.PackagingMaterials...), p.PackagingTags...)
	materialInputs = append(materialInputs, packagingText)

	product := &domain.CanonicalProduct{
		Barcode:  code,
		Name:     firstNonEmpty(p.ProductNameNo, p.ProductName, p.ProductNameEn, p.GenericName),
		Brand:    firstOf(p.Brands),
		ImageURL: firstNonEmpty(p.ImageFrontURL, p.ImageURL),
		Category: strings.TrimSpace(p.Categories),
		Origin:   origin,
		Packaging: domain.Packaging{
			Text:      packagingText,
			Materials: classify.DetectMaterials(materialInputs...),
		},
		Labels: labels,
		EcoScore: domain.EcoScore{
			Grade:           domain.ParseGrade(p.EcoscoreGrade),
			Score:           float64(p.EcoscoreScore),
			HasDetailedData: hasData(p.EcoscoreData),
		},
		NutriScore: domain.NutriScore{
			Grade: domain.ParseGrade(p.NutriscoreGrade),
			Score: float64(p.NutriscoreScore),
		},
		NovaGroup:   int(p.NovaGroup),
		Ingredients: firstNonEmpty(p.IngredientsTextNo, p.IngredientsText),
		Allergens: domain.AllergenInfo{
			Contains:   tagsToText(p.AllergensTags),
			MayContain: tagsToText(p.TracesTags),
		},
	}

	isNorwegianInputs := append([]string{origin, p.ManufacturingPlaces}, labels...)
	product.IsNorwegian = classify.IsNorwegian(isNorwegianInputs...)

	product.ApplyDefaults()
	return product
}

// tagsToText turns taxonomy tags like "en:nyt-norge" into "nyt norge"
func tagsToText(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if i := strings.Index(tag, ":"); i >= 0 && i <= 3 {
			tag = tag[i+1:]
		}
		tag = strings.ReplaceAll(tag, "-", " ")
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// splitList splits an OFF comma separated field
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// firstOf returns the first entry of a comma separated field ("Tine, Tine SA" -> "Tine")
func firstOf(s string) string {
	if parts := splitList(s); len(parts) > 0 {
		return parts[0]
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func hasData(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) && !bytes.Equal(trimmed, []byte("{}"))
}
