package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/greenscan/backend/internal/domain"
	"github.com/greenscan/backend/internal/infrastructure/cache"
	"github.com/greenscan/backend/internal/infrastructure/usda"
)

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// ReferenceServiceConfig holds configuration for the USDA reference service
type ReferenceServiceConfig struct {
	CacheTTL               time.Duration
	MinConfidenceThreshold float64
}

// ReferenceNutritionService looks up per-100 g nutrients in USDA FoodData Central.
// Flow: check cache -> translate query -> search USDA -> match best result -> cache.
type ReferenceNutritionService struct {
	cache           domain.CacheRepository
	usdaClient      domain.USDAClient
	matchingService *MatchingService
	cacheTTL        time.Duration
	logger          *zap.Logger
}

// NewReferenceNutritionService creates the USDA-backed nutrition reference
func NewReferenceNutritionService(
	repo domain.CacheRepository,
	usdaClient domain.USDAClient,
	config ReferenceServiceConfig,
	logger *zap.Logger,
) *ReferenceNutritionService {
	if logger == nil {
		logger = zap.NewNop()
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // 30 days, reference data rarely changes
	}

	return &ReferenceNutritionService{
		cache:      repo,
		usdaClient: usdaClient,
		matchingService: NewMatchingService(MatchConfig{
			MinConfidenceThreshold: config.MinConfidenceThreshold,
			EnableFuzzyMatching:    true,
			Logger:                 logger,
		}),
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// FindByName implements domain.NutritionReference. A low-confidence match is
// reported as ErrLowConfidence and never cached.
func (s *ReferenceNutritionService) FindByName(ctx context.Context, name string) (*domain.ReferenceNutrients, error) {
	request := &domain.SearchRequest{ProductName: strings.TrimSpace(name)}
	if request.ProductName == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := generateCacheKey(request)
	var cached domain.ReferenceNutrients
	if cache.Load(ctx, s.cache, cacheKey, &cached, s.logger) {
		return &cached, nil
	}

	query := buildSearchQuery(request)
	searchResult, err := s.usdaClient.SearchFoods(ctx, query)
	if err != nil {
		return nil, err
	}

	match, err := s.matchingService.FindBestMatch(ctx, &domain.SearchRequest{ProductName: query}, searchResult.Foods)
	if err != nil {
		if errors.Is(err, domain.ErrLowConfidence) {
			s.logger.Debug("reference match below threshold",
				zap.String("query", query),
				zap.Float64("score", match.MatchScore),
			)
		}
		return nil, err
	}

	reference := mapMatchToReference(searchResult.Foods, match)
	if reference == nil {
		return nil, domain.ErrProductNotFound
	}

	cache.Store(ctx, s.cache, cacheKey, reference, s.cacheTTL, s.logger)
	return reference, nil
}

// generateCacheKey creates a normalized cache key from search request.
// Format: "reference:{normalized_product_name}:{brand}"
func generateCacheKey(request *domain.SearchRequest) string {
	return fmt.Sprintf("reference:%s:%s",
		normalizeForCacheKey(request.ProductName),
		normalizeForCacheKey(request.Brand),
	)
}

// normalizeForCacheKey lowercases s, removes punctuation and collapses whitespace
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// buildSearchQuery turns a Norwegian lookup name into an English USDA query.
// Words found in the grocery table are translated; when any word translates,
// the untranslated ones (usually brands) are dropped.
func buildSearchQuery(request *domain.SearchRequest) string {
	words := strings.Fields(normalizeForCacheKey(request.ProductName))

	var translated []string
	for _, w := range words {
		if en := englishFor(w); en != "" {
			translated = append(translated, en)
		}
	}
	if len(translated) > 0 {
		return strings.Join(translated, " ")
	}
	return strings.Join(words, " ")
}

// mapMatchToReference finds the matched food and converts it to reference nutrients
func mapMatchToReference(foods []domain.USDAFood, match *domain.MatchResult) *domain.ReferenceNutrients {
	for i := range foods {
		if strconv.Itoa(foods[i].FdcID) == match.FdcID {
			return usda.MapToReferenceNutrients(&foods[i], match.MatchScore)
		}
	}
	return nil
}

// ReferenceChain tries several nutrition references in order and returns the
// first hit. It implements domain.NutritionReference.
type ReferenceChain struct {
	references []domain.NutritionReference
	logger     *zap.Logger
}

// NewReferenceChain builds a chain; nil references are skipped
func NewReferenceChain(logger *zap.Logger, references ...domain.NutritionReference) *ReferenceChain {
	if logger == nil {
		logger = zap.NewNop()
	}
	chain := &ReferenceChain{logger: logger}
	for _, r := range references {
		if r != nil {
			chain.references = append(chain.references, r)
		}
	}
	return chain
}

// Len returns the number of configured references
func (c *ReferenceChain) Len() int {
	return len(c.references)
}

// FindByName returns the first reference hit. Misses and failures fall
// through to the next reference; a done context stops the chain.
func (c *ReferenceChain) FindByName(ctx context.Context, name string) (*domain.ReferenceNutrients, error) {
	for _, r := range c.references {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := r.FindByName(ctx, name)
		if err == nil && result != nil {
			return result, nil
		}
		if err != nil && !errors.Is(err, domain.ErrProductNotFound) && !errors.Is(err, domain.ErrLowConfidence) {
			c.logger.Warn("nutrition reference failed", zap.String("name", name), zap.Error(err))
		}
	}
	return nil, domain.ErrProductNotFound
}
