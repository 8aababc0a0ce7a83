package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/greenscan/backend/internal/domain"
	"github.com/greenscan/backend/internal/infrastructure/kassalapp"
)

// minQueryLength is the shortest trimmed query that is searched at all
const minQueryLength = 2

// SearchConfig holds limits for the search service
type SearchConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// SearchService merges grocery-table matches with both searchable sources and
// orders the result by relevance.
type SearchService struct {
	products     domain.ProductSource
	grocery      domain.GroceryProductSource
	defaultLimit int
	maxLimit     int
	logger       *zap.Logger
}

// NewSearchService creates a search service. Either source may be nil.
func NewSearchService(
	products domain.ProductSource,
	grocery domain.GroceryProductSource,
	config SearchConfig,
	logger *zap.Logger,
) *SearchService {
	defaultLimit := config.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	maxLimit := config.MaxLimit
	if maxLimit <= 0 {
		maxLimit = 50
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SearchService{
		products:     products,
		grocery:      grocery,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		logger:       logger,
	}
}

// Search returns up to limit products for query. Queries under two runes
// return an empty list; a failing source only drops its own results.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]domain.CanonicalProduct, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLength {
		return []domain.CanonicalProduct{}, nil
	}
	limit = s.clampLimit(limit)

	var g errgroup.Group
	work := context.WithoutCancel(ctx)
	offResults := goSettled(work, &g, func(ctx context.Context) ([]domain.CanonicalProduct, error) {
		if s.products == nil {
			return nil, errSourceUnavailable
		}
		return s.products.Search(ctx, query, limit)
	})
	kassalResults := goSettled(work, &g, func(ctx context.Context) ([]domain.KassalappProduct, error) {
		if s.grocery == nil {
			return nil, errSourceUnavailable
		}
		return s.grocery.Search(ctx, query, limit)
	})

	static := matchGroceryTerms(query)

	if err := await(ctx, &g); err != nil {
		return nil, err
	}

	candidates := make([]candidate, 0, len(static)+2*limit)
	for _, p := range static {
		candidates = append(candidates, candidate{product: p, static: true})
	}

	if offResults.err != nil {
		s.logSourceError("openfoodfacts", query, offResults.err)
	} else {
		for _, p := range offResults.value {
			candidates = append(candidates, candidate{product: p})
		}
	}

	if kassalResults.err != nil {
		s.logSourceError("kassalapp", query, kassalResults.err)
	} else {
		for i := range kassalResults.value {
			if p := kassalapp.MapToCanonical(&kassalResults.value[i]); p != nil {
				candidates = append(candidates, candidate{product: *p})
			}
		}
	}

	results := rankCandidates(query, dedupeCandidates(candidates), limit)
	s.logger.Debug("search complete",
		zap.String("query", query),
		zap.Int("static", len(static)),
		zap.Int("results", len(results)),
	)
	return results, nil
}

func (s *SearchService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func (s *SearchService) logSourceError(source, query string, err error) {
	if errors.Is(err, errSourceUnavailable) {
		return
	}
	s.logger.Warn("search source failed",
		zap.String("source", source),
		zap.String("query", query),
		zap.Error(err),
	)
}
