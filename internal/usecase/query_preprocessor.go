package usecase

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// QueryPreprocessor cleans grocery product names into short food queries
type QueryPreprocessor struct {
	logger *zap.Logger
}

// Compiled regex patterns for query preprocessing
var (
	// Matches size/quantity patterns like "1,75 l", "500g", "4 dl", "12 oz"
	sizeQuantityPattern = regexp.MustCompile(`(?i)\b\d+(?:[.,]\d+)?\s*(?:fl\s*oz|oz|ounces?|lbs?|pounds?|kg|g|gram|grams?|mg|ml|cl|dl|l|liter|litre|liters?|gallons?)\b`)

	// Matches pack/count patterns like "6-pakk", "4 stk", "pack of 6", "12 x 0,5"
	packCountPattern = regexp.MustCompile(`(?i)\b\d+\s*[-x]?\s*(?:pakk(?:er|ning)?|pk|pack|stk|count|ct|bokser?|flasker?|cans?|bottles?)\b|\bpack\s*of\s*\d+\b|\b\d+\s*x(?:\s*\d+(?:[.,]\d+)?)?\b`)

	// Matches standalone numbers at the edges (e.g., ", 128", "- 12")
	standaloneNumberPattern = regexp.MustCompile(`[,\-]\s*\d+(?:[.,]\d+)?\s*$|^\d+(?:[.,]\d+)?\s*[,\-]`)

	orphanedInnerPunctuation    = regexp.MustCompile(`\s+[,\-;:]+\s+`)
	orphanedTrailingPunctuation = regexp.MustCompile(`[,\-;:]+\s*$`)
	orphanedLeadingPunctuation  = regexp.MustCompile(`^\s*[,\-;:]+`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// queryNoiseWords are marketing, size and packaging terms that never help a lookup
var queryNoiseWords = map[string]bool{
	// Marketing terms
	"ny": true, "nyhet": true, "tilbud": true, "kampanje": true, "favoritt": true,
	"value": true, "family": true, "bonus": true, "new": true, "improved": true,
	"premium": true, "select": true, "choice": true, "quality": true, "best": true,

	// Size descriptors
	"storpakke": true, "familiepakke": true, "minipakke": true, "stor": true, "liten": true,
	"size": true, "large": true, "medium": true, "small": true, "mini": true, "jumbo": true,

	// Packaging terms
	"pakke": true, "pakning": true, "boks": true, "flaske": true, "pose": true, "brett": true,
	"kartong": true, "beger": true, "glass": true,
	"package": true, "box": true, "bag": true, "bottle": true, "can": true, "jar": true,
	"tub": true, "carton": true, "pouch": true,

	// Generic terms that don't narrow the lookup
	"produkt": true, "vare": true, "food": true, "item": true, "product": true,
}

// maxQueryLength keeps queries within what the reference APIs accept
const maxQueryLength = 100

// NewQueryPreprocessor creates a new query preprocessor
func NewQueryPreprocessor(logger *zap.Logger) *QueryPreprocessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryPreprocessor{logger: logger}
}

// PreprocessQuery removes size, pack count and marketing noise from a product
// name and prepends the brand when it is not already part of the name.
func (p *QueryPreprocessor) PreprocessQuery(productName, brand string) string {
	if productName == "" {
		return ""
	}

	cleaned := p.clean(productName)

	if brand != "" {
		if !strings.Contains(strings.ToLower(cleaned), strings.ToLower(brand)) {
			cleaned = strings.TrimSpace(brand + " " + cleaned)
		}
	}

	if len(cleaned) > maxQueryLength {
		cleaned = cleaned[:maxQueryLength]
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > maxQueryLength/2 {
			cleaned = cleaned[:lastSpace]
		}
	}

	p.logger.Debug("preprocess query", zap.String("input", productName), zap.String("output", cleaned))
	return cleaned
}

// LookupName returns the first two words of the cleaned name, the key used
// for reference nutrition lookups.
func (p *QueryPreprocessor) LookupName(productName string) string {
	words := strings.Fields(p.clean(productName))
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ")
}

func (p *QueryPreprocessor) clean(name string) string {
	cleaned := sizeQuantityPattern.ReplaceAllString(name, " ")
	cleaned = packCountPattern.ReplaceAllString(cleaned, " ")
	cleaned = standaloneNumberPattern.ReplaceAllString(cleaned, " ")
	cleaned = p.removeNoiseWords(cleaned)
	cleaned = cleanOrphanedPunctuation(cleaned)
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// removeNoiseWords lowercases s and drops noise terms
func (p *QueryPreprocessor) removeNoiseWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	kept := make([]string, 0, len(words))

	for _, word := range words {
		cleanWord := strings.Trim(word, ",.!?;:-'\"")
		if !queryNoiseWords[cleanWord] {
			kept = append(kept, word)
		}
	}

	return strings.Join(kept, " ")
}

// cleanOrphanedPunctuation removes punctuation left alone after other removals
func cleanOrphanedPunctuation(s string) string {
	result := orphanedInnerPunctuation.ReplaceAllString(s, " ")
	result = orphanedTrailingPunctuation.ReplaceAllString(result, "")
	return orphanedLeadingPunctuation.ReplaceAllString(result, "")
}

// ExtractFoodKeywords returns the tokens of text ordered by importance:
// food terms, then descriptive terms, then everything else.
func (p *QueryPreprocessor) ExtractFoodKeywords(text string) []string {
	tokens := tokenize(text)

	var high, medium, low []string
	for _, token := range tokens {
		switch getTokenWeight(token) {
		case weightFood:
			high = append(high, token)
		case weightDescriptive:
			medium = append(medium, token)
		default:
			low = append(low, token)
		}
	}

	result := make([]string, 0, len(tokens))
	result = append(result, high...)
	result = append(result, medium...)
	return append(result, low...)
}
