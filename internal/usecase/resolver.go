package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/greenscan/backend/internal/domain"
	"github.com/greenscan/backend/internal/infrastructure/kassalapp"
	"github.com/greenscan/backend/internal/scoring"
)

// ProductResolver fuses the product sources for one barcode into an
// EnrichedProduct. It keeps no state between calls.
type ProductResolver struct {
	products     domain.ProductSource
	grocery      domain.GroceryProductSource
	reference    domain.NutritionReference
	preprocessor *QueryPreprocessor
	logger       *zap.Logger
}

// NewProductResolver creates a resolver. Any source may be nil.
func NewProductResolver(
	products domain.ProductSource,
	grocery domain.GroceryProductSource,
	reference domain.NutritionReference,
	logger *zap.Logger,
) *ProductResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductResolver{
		products:     products,
		grocery:      grocery,
		reference:    reference,
		preprocessor: NewQueryPreprocessor(logger),
		logger:       logger,
	}
}

// Resolve looks the barcode up in every source concurrently and merges the
// results. It returns nil, nil when no source knows the barcode.
//
// Source calls run detached from ctx so that an abandoned lookup still fills
// the source caches; if ctx ends first Resolve returns ctx.Err() and the
// late results are discarded.
func (r *ProductResolver) Resolve(ctx context.Context, barcode string) (*domain.EnrichedProduct, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("%w: empty barcode", domain.ErrInvalidRequest)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var g errgroup.Group
	work := context.WithoutCancel(ctx)
	offResult := goSettled(work, &g, func(ctx context.Context) (*domain.CanonicalProduct, error) {
		if r.products == nil {
			return nil, errSourceUnavailable
		}
		return r.products.FetchByBarcode(ctx, barcode)
	})
	kassalResult := goSettled(work, &g, func(ctx context.Context) (*domain.KassalappProduct, error) {
		if r.grocery == nil {
			return nil, errSourceUnavailable
		}
		return r.grocery.FetchByBarcode(ctx, barcode)
	})

	if err := await(ctx, &g); err != nil {
		return nil, err
	}

	offProduct := settledValue(r, "openfoodfacts", barcode, offResult)
	kassalProduct := settledValue(r, "kassalapp", barcode, kassalResult)
	if offProduct == nil && kassalProduct == nil {
		r.logger.Debug("barcode not found", zap.String("barcode", barcode))
		return nil, nil
	}

	var sources domain.DataSources
	var base domain.CanonicalProduct
	kassalCanonical := kassalapp.MapToCanonical(kassalProduct)

	if offProduct != nil {
		sources.OpenFoodFacts = true
		base = offProduct.Clone()
	} else {
		base = kassalCanonical.Clone()
	}
	if kassalProduct != nil {
		sources.Kassalapp = true
	}
	base.Barcode = barcode

	if offProduct != nil && kassalCanonical != nil {
		filled := reconcile(&base, kassalCanonical)
		if len(filled) > 0 {
			r.logger.Debug("fields enriched", zap.String("barcode", barcode), zap.Strings("fields", filled))
		}
	} else {
		base.ApplyDefaults()
	}

	var reference *domain.ReferenceNutrients
	if !base.NutriScore.Grade.Known() {
		estimate, fromReference, err := r.estimateNutrition(ctx, work, base.Name, kassalProduct)
		if err != nil {
			return nil, err
		}
		if estimate != nil {
			score := scoring.EstimateHealthFromNutrients(*estimate)
			base.NutriScore = domain.NutriScore{
				Grade:     scoring.GradeFor(score),
				Score:     float64(score),
				Estimated: true,
			}
			if fromReference {
				sources.Reference = true
				reference = estimate
			}
		}
	}

	enriched := &domain.EnrichedProduct{
		CanonicalProduct: base,
		Sources:          sources,
		DataQualityBonus: sources.QualityBonus(),
		Raw: &domain.RawPayloads{
			OpenFoodFacts: offProduct,
			Kassalapp:     kassalProduct,
			Reference:     reference,
		},
	}
	if kassalProduct != nil {
		enriched.LowestPrice = kassalapp.LowestPrice(kassalProduct)
	}

	r.logger.Info("product resolved",
		zap.String("barcode", barcode),
		zap.Bool("openfoodfacts", sources.OpenFoodFacts),
		zap.Bool("kassalapp", sources.Kassalapp),
		zap.Bool("reference", sources.Reference),
	)
	return enriched, nil
}

// estimateNutrition returns per-100 g nutrients for a product without a
// Nutri-Score. Kassalapp's own nutrition table wins over a name lookup; the
// bool reports whether the nutrients came from the nutrition reference.
func (r *ProductResolver) estimateNutrition(
	ctx, work context.Context,
	name string,
	kassalProduct *domain.KassalappProduct,
) (*domain.ReferenceNutrients, bool, error) {
	if own := kassalapp.NutritionToReference(kassalProduct); own != nil {
		return own, false, nil
	}
	if r.reference == nil || name == "" || name == domain.UnknownProductName {
		return nil, false, nil
	}

	lookup := r.preprocessor.LookupName(name)
	if lookup == "" {
		return nil, false, nil
	}

	var g errgroup.Group
	result := goSettled(work, &g, func(ctx context.Context) (*domain.ReferenceNutrients, error) {
		return r.reference.FindByName(ctx, lookup)
	})
	if err := await(ctx, &g); err != nil {
		return nil, false, err
	}

	if result.err != nil {
		if !errors.Is(result.err, domain.ErrProductNotFound) && !errors.Is(result.err, domain.ErrLowConfidence) {
			r.logger.Warn("nutrition reference failed", zap.String("name", lookup), zap.Error(result.err))
		}
		return nil, false, nil
	}
	return result.value, result.value != nil, nil
}

// settledValue unwraps a settled source result, logging real failures.
// Any error counts as no data from that source.
func settledValue[T any](r *ProductResolver, source, barcode string, s *settled[*T]) *T {
	if s.err == nil {
		return s.value
	}
	if !errors.Is(s.err, domain.ErrProductNotFound) && !errors.Is(s.err, errSourceUnavailable) {
		r.logger.Warn("source lookup failed",
			zap.String("source", source),
			zap.String("barcode", barcode),
			zap.Error(s.err),
		)
	}
	return nil
}
