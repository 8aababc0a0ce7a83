// Package kassalapp is the Kassalapp grocery catalogue source. It returns the
// provider-native payload; translation to CanonicalProduct lives in mapper.go.
package kassalapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/greenscan/backend/internal/domain"
	"github.com/greenscan/backend/internal/infrastructure/cache"
	"github.com/greenscan/backend/internal/infrastructure/httpclient"
)

const (
	DefaultBaseURL = "https://kassal.app/api/v1"
	defaultTTL     = 30 * time.Minute

	// maxSearchSize is the largest page the search endpoint accepts
	maxSearchSize = 100
)

type eanResponse struct {
	Data *domain.KassalappProduct `json:"data"`
}

type searchResponse struct {
	Data []domain.KassalappOffer `json:"data"`
}

// Client implements domain.GroceryProductSource against the Kassalapp API
type Client struct {
	http     *httpclient.Client
	baseURL  string
	apiKey   string
	cache    domain.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewClient creates a new Kassalapp client. repo may be nil.
func NewClient(baseURL, apiKey string, hc *httpclient.Client, repo domain.CacheRepository, cacheTTL time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:     hc,
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		cache:    repo,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (c *Client) headers() http.Header {
	h := http.Header{}
	if c.apiKey != "" {
		h.Set("Authorization", "Bearer "+c.apiKey)
	}
	return h
}

// FetchByBarcode returns every store's offer for one EAN
func (c *Client) FetchByBarcode(ctx context.Context, barcode string) (*domain.KassalappProduct, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("%w: empty barcode", domain.ErrInvalidRequest)
	}

	cacheKey := "ean:" + barcode
	var cached domain.KassalappProduct
	if cache.Load(ctx, c.cache, cacheKey, &cached, c.logger) {
		return &cached, nil
	}

	reqURL := fmt.Sprintf("%s/products/ean/%s", c.baseURL, url.PathEscape(barcode))

	var resp eanResponse
	if err := c.http.GetJSON(ctx, reqURL, c.headers(), &resp); err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			c.logger.Warn("ean lookup failed", zap.String("barcode", barcode), zap.Error(err))
		}
		return nil, err
	}
	if resp.Data == nil || len(resp.Data.Products) == 0 {
		return nil, domain.ErrProductNotFound
	}
	if resp.Data.EAN == "" {
		resp.Data.EAN = barcode
	}

	cache.Store(ctx, c.cache, cacheKey, resp.Data, c.cacheTTL, c.logger)
	c.logger.Debug("ean found", zap.String("barcode", barcode), zap.Int("offers", len(resp.Data.Products)))
	return resp.Data, nil
}

// Search returns up to limit products. Offers of the same EAN are grouped
// into one KassalappProduct in first-seen order.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.KassalappProduct, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidRequest)
	}
	if limit <= 0 {
		limit = 20
	}
	size := limit
	if size > maxSearchSize {
		size = maxSearchSize
	}

	cacheKey := fmt.Sprintf("search:%d:%s", limit, strings.ToLower(query))
	var cached []domain.KassalappProduct
	if cache.Load(ctx, c.cache, cacheKey, &cached, c.logger) {
		return cached, nil
	}

	params := url.Values{}
	params.Set("search", query)
	params.Set("size", strconv.Itoa(size))
	reqURL := fmt.Sprintf("%s/products?%s", c.baseURL, params.Encode())

	var resp searchResponse
	if err := c.http.GetJSON(ctx, reqURL, c.headers(), &resp); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return []domain.KassalappProduct{}, nil
		}
		c.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}

	products := groupByEAN(resp.Data, limit)
	cache.Store(ctx, c.cache, cacheKey, products, c.cacheTTL, c.logger)
	c.logger.Debug("search done", zap.String("query", query), zap.Int("results", len(products)))
	return products, nil
}

// groupByEAN folds offers into products; offers without an EAN stay separate
func groupByEAN(offers []domain.KassalappOffer, limit int) []domain.KassalappProduct {
	products := make([]domain.KassalappProduct, 0, len(offers))
	index := make(map[string]int)
	for _, offer := range offers {
		ean := strings.TrimSpace(offer.EAN)
		if i, ok := index[ean]; ok && ean != "" {
			products[i].Products = append(products[i].Products, offer)
			continue
		}
		if len(products) == limit {
			continue
		}
		if ean != "" {
			index[ean] = len(products)
		}
		products = append(products, domain.KassalappProduct{
			EAN:      ean,
			Products: []domain.KassalappOffer{offer},
		})
	}
	return products
}
