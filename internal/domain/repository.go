package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are serialized on Set and decoded into dest on Get.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ProductSource is the primary product database (Open Food Facts).
// Its schema is rich enough to be returned as a CanonicalProduct directly.
type ProductSource interface {
	FetchByBarcode(ctx context.Context, barcode string) (*CanonicalProduct, error)
	Search(ctx context.Context, query string, limit int) ([]CanonicalProduct, error)
}

// GroceryProductSource is the pricing-capable grocery database (Kassalapp).
// It returns provider-native payloads that the core translates.
type GroceryProductSource interface {
	FetchByBarcode(ctx context.Context, barcode string) (*KassalappProduct, error)
	Search(ctx context.Context, query string, limit int) ([]KassalappProduct, error)
}

// NutritionReference looks up per-100g nutrients by a fuzzy product name
type NutritionReference interface {
	FindByName(ctx context.Context, name string) (*ReferenceNutrients, error)
}

// USDAClient is the FoodData Central API behind the remote nutrition reference
type USDAClient interface {
	SearchFoods(ctx context.Context, query string) (*USDASearchResponse, error)
	GetFoodDetails(ctx context.Context, fdcID string) (*USDAFood, error)
}
