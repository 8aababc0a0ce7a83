package classify

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// OriginClass groups countries by transport distance from Norway
type OriginClass int

const (
	OriginUnknown OriginClass = iota
	OriginNorway
	OriginNordic
	OriginEU
	OriginFar
)

func (c OriginClass) String() string {
	switch c {
	case OriginNorway:
		return "norway"
	case OriginNordic:
		return "nordic"
	case OriginEU:
		return "eu"
	case OriginFar:
		return "far"
	default:
		return "unknown"
	}
}

// originKeywords maps each distance class to its country names. The country
// mentioned first in an origin text decides the class.
var originKeywords = []struct {
	class    OriginClass
	keywords []string
}{
	{OriginNorway, []string{"norge", "norway", "norwegian", "norsk", "noreg"}},
	{OriginNordic, []string{"sverige", "sweden", "swedish", "svensk", "danmark", "denmark", "danish", "dansk", "finland", "suomi"}},
	{OriginEU, []string{
		"tyskland", "germany", "nederland", "netherlands", "holland",
		"frankrike", "france", "spania", "spain", "italia", "italy",
		"belgia", "belgium", "polen", "poland", "østerrike", "austria",
		"portugal", "hellas", "greece", "irland", "ireland", "litauen", "lithuania",
		"latvia", "estland", "estonia", "tsjekkia", "czech", "ungarn", "hungary",
		"european union", "eu-land", "eu",
	}},
	{OriginFar, []string{
		"peru", "chile", "brasil", "brazil", "argentina",
		"sør-afrika", "south africa", "australia", "new zealand", "ny-zealand",
		"kina", "china", "india", "thailand", "vietnam",
	}},
}

// ClassifyOrigin maps free-text origin to a transport distance class.
// With several countries ("Spania, pakket i Norge") the earliest mention
// wins. Anything unmatched is OriginUnknown, which is distinct from OriginFar.
func ClassifyOrigin(origin string) OriginClass {
	folded := Fold(origin)
	if folded == "" {
		return OriginUnknown
	}
	class, first := OriginUnknown, -1
	for _, group := range originKeywords {
		if idx := firstKeyword(folded, group.keywords); idx >= 0 && (first < 0 || idx < first) {
			class, first = group.class, idx
		}
	}
	return class
}

// norwegianLabelKeywords mark a product as Norwegian even without an origin field
var norwegianLabelKeywords = []string{"nyt norge", "norsk", "produsert i norge", "made in norway", "product of norway"}

// IsNorwegian reports whether any of the given texts (origin, labels, descriptions)
// identify the product as Norwegian.
func IsNorwegian(texts ...string) bool {
	for _, t := range texts {
		folded := Fold(t)
		if folded == "" {
			continue
		}
		if matchAny(folded, norwegianLabelKeywords) {
			return true
		}
		if ClassifyOrigin(t) == OriginNorway {
			return true
		}
	}
	return false
}

// originMarkers introduce a country in free-text product descriptions
var originMarkers = []string{
	"opprinnelsesland:", "opprinnelse:", "country of origin:", "origin:",
	"produsert i ", "produced in ", "product of ", "dyrket i ", "grown in ",
}

const maxOriginWords = 3

var originStopWords = map[string]bool{"av": true, "og": true, "for": true, "med": true, "by": true, "and": true, "with": true}

// ExtractOrigin pulls a country phrase out of a description such as
// "Opprinnelsesland: Spania. Oppbevares kjølig". It returns "" when no marker is found.
func ExtractOrigin(text string) string {
	folded := Fold(text)
	for _, marker := range originMarkers {
		idx := strings.Index(folded, marker)
		if idx < 0 {
			continue
		}
		rest := folded[idx+len(marker):]
		if end := strings.IndexAny(rest, ".,;:()\n"); end >= 0 {
			rest = rest[:end]
		}
		var words []string
		for _, w := range strings.Fields(rest) {
			if originStopWords[w] || len(words) == maxOriginWords {
				break
			}
			words = append(words, w)
		}
		if len(words) == 0 {
			continue
		}
		return cases.Title(language.Und).String(strings.Join(words, " "))
	}
	return ""
}
