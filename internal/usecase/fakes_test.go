package usecase

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/greenscan/backend/internal/domain"
)

// fakeProductSource is an in-memory domain.ProductSource
type fakeProductSource struct {
	product  *domain.CanonicalProduct
	results  []domain.CanonicalProduct
	err      error
	block    chan struct{}
	calls    int32
	finished int32
}

func (f *fakeProductSource) FetchByBarcode(ctx context.Context, barcode string) (*domain.CanonicalProduct, error) {
	atomic.AddInt32(&f.calls, 1)
	defer atomic.AddInt32(&f.finished, 1)
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.product == nil {
		return nil, domain.ErrProductNotFound
	}
	p := f.product.Clone()
	return &p, nil
}

func (f *fakeProductSource) Search(ctx context.Context, query string, limit int) ([]domain.CanonicalProduct, error) {
	atomic.AddInt32(&f.calls, 1)
	defer atomic.AddInt32(&f.finished, 1)
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	out := f.results
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeGrocerySource is an in-memory domain.GroceryProductSource
type fakeGrocerySource struct {
	product *domain.KassalappProduct
	results []domain.KassalappProduct
	err     error
	panics  bool
	calls   int32
}

func (f *fakeGrocerySource) FetchByBarcode(ctx context.Context, barcode string) (*domain.KassalappProduct, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.panics {
		panic("boom")
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.product == nil {
		return nil, domain.ErrProductNotFound
	}
	return f.product, nil
}

func (f *fakeGrocerySource) Search(ctx context.Context, query string, limit int) ([]domain.KassalappProduct, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

// fakeReference is an in-memory domain.NutritionReference
type fakeReference struct {
	mu      sync.Mutex
	result  *domain.ReferenceNutrients
	err     error
	queries []string
}

func (f *fakeReference) FindByName(ctx context.Context, name string) (*domain.ReferenceNutrients, error) {
	f.mu.Lock()
	f.queries = append(f.queries, name)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.result == nil {
		return nil, domain.ErrProductNotFound
	}
	r := *f.result
	return &r, nil
}

func (f *fakeReference) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.queries...)
}

// fakeUSDAClient is an in-memory domain.USDAClient
type fakeUSDAClient struct {
	searchResult *domain.USDASearchResponse
	searchError  error
	queries      []string
}

func (f *fakeUSDAClient) SearchFoods(ctx context.Context, query string) (*domain.USDASearchResponse, error) {
	f.queries = append(f.queries, query)
	if f.searchError != nil {
		return nil, f.searchError
	}
	if f.searchResult == nil || len(f.searchResult.Foods) == 0 {
		return nil, domain.ErrProductNotFound
	}
	return f.searchResult, nil
}

func (f *fakeUSDAClient) GetFoodDetails(ctx context.Context, fdcID string) (*domain.USDAFood, error) {
	return nil, domain.ErrProductNotFound
}
