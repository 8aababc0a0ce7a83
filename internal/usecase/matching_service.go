package usecase

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/greenscan/backend/internal/domain"
)

var punctuationRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// Token weight categories for scoring
const (
	weightFood        = 3.0 // Core food terms (milk, chicken, bread)
	weightDescriptive = 2.0 // Descriptive terms (whole, skim, organic)
	weightDefault     = 1.0 // Everything else
	fuzzyWeightFactor = 0.8 // Fuzzy matches get 80% of normal weight
)

// Scoring bonuses
const (
	brandMatchBonus         = 15.0 // Brand appears in the reference description
	substringMatchBonus     = 10.0 // Product name is a substring of the description, or the reverse
	dataTypeFoundationBonus = 5.0  // Generic reference foods beat branded ones
	dataTypeLegacyBonus     = 3.0  // SR Legacy and Survey (FNDDS)
)

// foodTerms contains high-importance food keywords (weight 3.0)
var foodTerms = map[string]bool{
	// Proteins
	"chicken": true, "beef": true, "pork": true, "fish": true, "salmon": true,
	"cod": true, "turkey": true, "lamb": true, "shrimp": true, "tuna": true,
	"bacon": true, "sausage": true, "ham": true, "mackerel": true, "herring": true,
	// Dairy
	"milk": true, "cheese": true, "yogurt": true, "butter": true, "cream": true,
	"eggs": true, "egg": true,
	// Grains
	"bread": true, "rice": true, "pasta": true, "cereal": true, "oats": true,
	"wheat": true, "flour": true, "crispbread": true,
	// Produce
	"apple": true, "apples": true, "banana": true, "bananas": true, "orange": true,
	"oranges": true, "pear": true, "grapes": true, "lettuce": true, "tomato": true,
	"tomatoes": true, "potato": true, "potatoes": true, "onion": true, "onions": true,
	"carrot": true, "carrots": true, "broccoli": true, "spinach": true, "cabbage": true,
	"strawberries": true, "blueberries": true, "lemon": true, "avocado": true,
	"cucumber": true, "pepper": true, "peppers": true,
	// Beverages
	"juice": true, "coffee": true, "tea": true, "water": true,
	// Snacks & sweets
	"chips": true, "crackers": true, "cookies": true, "candy": true, "chocolate": true,
	// Prepared foods
	"pizza": true, "soup": true, "salad": true,
}

// descriptiveTerms contains medium-importance descriptive keywords (weight 2.0)
var descriptiveTerms = map[string]bool{
	// Preparation/processing
	"whole": true, "skim": true, "reduced": true, "fat": true, "low": true,
	"nonfat": true, "organic": true, "fresh": true, "frozen": true, "canned": true,
	"dried": true, "raw": true, "cooked": true, "baked": true, "smoked": true,
	// Flavor/variety
	"vanilla": true, "plain": true, "sweet": true, "light": true, "lite": true,
	// Type descriptors
	"white": true, "brown": true, "unsweetened": true, "salted": true,
	"unsalted": true, "boneless": true, "skinless": true, "lean": true, "ground": true,
}

// extendedStopWords are English and Norwegian stop words plus product noise
var extendedStopWords = map[string]bool{
	// English stop words
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "with": true, "by": true, "from": true, "is": true,
	// Norwegian stop words
	"og": true, "med": true, "av": true, "til": true, "fra": true, "uten": true,
	// Size/quantity units
	"oz": true, "fl": true, "lb": true, "lbs": true, "ml": true, "dl": true, "cl": true,
	"kg": true, "gram": true, "grams": true, "liter": true, "stk": true,
	// Packaging terms
	"pack": true, "pakk": true, "count": true, "ct": true, "pk": true,
	"box": true, "bag": true, "bottle": true, "can": true, "carton": true, "jar": true,
	// Marketing/generic terms
	"size": true, "value": true, "family": true, "each": true, "per": true,
	"new": true, "product": true, "ns": true, "nfs": true,
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	MinConfidenceThreshold float64
	EnableFuzzyMatching    bool
	FuzzyEditDistance      int
	Logger                 *zap.Logger
}

// MatchingService picks the reference food that best matches a product name
type MatchingService struct {
	minConfidenceThreshold float64
	enableFuzzyMatching    bool
	fuzzyEditDistance      int
	logger                 *zap.Logger
}

// weightedToken is a token with its importance weight
type weightedToken struct {
	Token  string
	Weight float64
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	threshold := config.MinConfidenceThreshold
	if threshold <= 0 {
		threshold = 40.0
	}

	fuzzyDist := config.FuzzyEditDistance
	if fuzzyDist <= 0 {
		fuzzyDist = 1
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MatchingService{
		minConfidenceThreshold: threshold,
		enableFuzzyMatching:    config.EnableFuzzyMatching,
		fuzzyEditDistance:      fuzzyDist,
		logger:                 logger,
	}
}

// FindBestMatch returns the highest scoring food. When the best score is
// under the threshold the match is still returned together with ErrLowConfidence.
func (s *MatchingService) FindBestMatch(
	ctx context.Context,
	request *domain.SearchRequest,
	foods []domain.USDAFood,
) (*domain.MatchResult, error) {
	if request == nil || strings.TrimSpace(request.ProductName) == "" {
		return nil, domain.ErrInvalidRequest
	}
	if len(foods) == 0 {
		return nil, domain.ErrProductNotFound
	}

	var bestMatch *domain.MatchResult
	highestScore := -1.0

	for _, food := range foods {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		score, matchedTokens := s.calculateMatchScore(request.ProductName, request.Brand, food.Description, food.DataType)
		if score > highestScore {
			highestScore = score
			bestMatch = &domain.MatchResult{
				FdcID:         strconv.Itoa(food.FdcID),
				Description:   food.Description,
				MatchScore:    score,
				MatchedTokens: matchedTokens,
			}
		}
	}

	s.logger.Debug("best match",
		zap.String("query", request.ProductName),
		zap.String("match", bestMatch.Description),
		zap.Float64("score", bestMatch.MatchScore),
	)

	if bestMatch.MatchScore < s.minConfidenceThreshold {
		return bestMatch, domain.ErrLowConfidence
	}
	return bestMatch, nil
}

// calculateMatchScore computes a 0-100 similarity between a product name and a
// reference description from weighted product coverage (60%), description
// coverage (20%) and Jaccard overlap (20%), plus brand, substring and
// data-type bonuses.
func (s *MatchingService) calculateMatchScore(productName, brand, description, dataType string) (float64, []string) {
	productTokens := tokenizeWithWeights(productName)
	descTokens := tokenize(description)
	if len(productTokens) == 0 || len(descTokens) == 0 {
		return 0, nil
	}

	descSet := make(map[string]bool, len(descTokens))
	for _, t := range descTokens {
		descSet[t] = true
	}

	exactCount, matchedTokens := findIntersection(descTokens, tokensOf(productTokens))
	paired := make(map[string]bool, len(matchedTokens))
	for _, t := range matchedTokens {
		paired[t] = true
	}

	var totalWeight, matchedWeight float64
	fuzzyCount := 0
	for _, pt := range productTokens {
		totalWeight += pt.Weight
		if paired[pt.Token] {
			matchedWeight += pt.Weight
			continue
		}
		if !s.enableFuzzyMatching {
			continue
		}
		for _, dt := range descTokens {
			if !paired[dt] && fuzzyTokenMatch(pt.Token, dt, s.fuzzyEditDistance) {
				matchedWeight += pt.Weight * fuzzyWeightFactor
				matchedTokens = append(matchedTokens, pt.Token+"~"+dt)
				paired[dt] = true
				fuzzyCount++
				break
			}
		}
	}

	productCoverage := matchedWeight / totalWeight
	descCoverage := float64(len(paired)) / float64(len(descSet))
	union := findUnion(tokensOf(productTokens), descTokens) - fuzzyCount
	jaccard := float64(exactCount+fuzzyCount) / float64(union)

	score := (productCoverage*0.60 + descCoverage*0.20 + jaccard*0.20) * 100

	productLower := strings.ToLower(strings.TrimSpace(productName))
	descLower := strings.ToLower(description)

	if brand != "" && strings.Contains(descLower, strings.ToLower(brand)) {
		score += brandMatchBonus
	}
	if len(productLower) > 3 && (strings.Contains(descLower, productLower) || strings.Contains(productLower, descLower)) {
		score += substringMatchBonus
	}
	switch dataType {
	case "Foundation":
		score += dataTypeFoundationBonus
	case "SR Legacy", "Survey (FNDDS)":
		score += dataTypeLegacyBonus
	}

	if score > 100 {
		score = 100
	}
	return score, matchedTokens
}

func tokensOf(weighted []weightedToken) []string {
	out := make([]string, len(weighted))
	for i, w := range weighted {
		out[i] = w.Token
	}
	return out
}

// tokenize splits a string into normalized lowercase tokens.
// Removes punctuation, stop words, product noise, and pure numeric tokens.
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len([]rune(word)) <= 1 || extendedStopWords[word] || isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// tokenizeWithWeights returns the distinct tokens of s with their weights
func tokenizeWithWeights(s string) []weightedToken {
	tokens := tokenize(s)
	out := make([]weightedToken, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, weightedToken{Token: t, Weight: getTokenWeight(t)})
	}
	return out
}

// getTokenWeight returns the importance weight of a token
func getTokenWeight(token string) float64 {
	switch {
	case foodTerms[token]:
		return weightFood
	case descriptiveTerms[token]:
		return weightDescriptive
	default:
		return weightDefault
	}
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// fuzzyTokenMatch reports whether two tokens of at least four runes are
// within threshold edits of each other.
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}

	r1, r2 := []rune(token1), []rune(token2)
	if len(r1) < 4 || len(r2) < 4 {
		return false
	}

	lenDiff := len(r1) - len(r2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	m, n := len(r1), len(r2)
	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	// two rows instead of the full matrix
	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

// findIntersection returns the count of common tokens and the list of matched tokens
func findIntersection(tokens1, tokens2 []string) (int, []string) {
	set := make(map[string]bool)
	for _, t := range tokens1 {
		set[t] = true
	}

	var matched []string
	seen := make(map[string]bool)
	for _, t := range tokens2 {
		if set[t] && !seen[t] {
			matched = append(matched, t)
			seen[t] = true
		}
	}

	return len(matched), matched
}

// findUnion returns the count of unique tokens across both sets
func findUnion(tokens1, tokens2 []string) int {
	set := make(map[string]bool)
	for _, t := range tokens1 {
		set[t] = true
	}
	for _, t := range tokens2 {
		set[t] = true
	}
	return len(set)
}
