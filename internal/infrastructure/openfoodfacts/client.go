// Package openfoodfacts is the Open Food Facts product source
package openfoodfacts

import (
	"context"
	"errors"
	"fmt"
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
	DefaultBaseURL = "https://world.openfoodfacts.org"
	defaultTTL     = 30 * time.Minute
)

// productFields limits the product payload to what the mapper reads
var productFields = strings.Join([]string{
	"code", "product_name", "product_name_no", "product_name_en", "generic_name",
	"brands", "image_front_url", "image_url", "categories", "origins", "manufacturing_places",
	"packaging", "packaging_text", "packaging_tags", "packaging_materials_tags",
	"labels", "labels_tags", "ecoscore_grade", "ecoscore_score", "ecoscore_data",
	"nutriscore_grade", "nutriscore_score", "nova_group",
	"ingredients_text", "ingredients_text_no", "allergens_tags", "traces_tags",
}, ",")

// Client implements domain.ProductSource against the Open Food Facts API
type Client struct {
	http     *httpclient.Client
	baseURL  string
	cache    domain.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewClient creates a new Open Food Facts client. repo may be nil.
func NewClient(baseURL string, hc *httpclient.Client, repo domain.CacheRepository, cacheTTL time.Duration, logger *zap.Logger) *Client {
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
		cache:    repo,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// FetchByBarcode looks up one product. A miss is domain.ErrProductNotFound.
func (c *Client) FetchByBarcode(ctx context.Context, barcode string) (*domain.CanonicalProduct, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("%w: empty barcode", domain.ErrInvalidRequest)
	}

	cacheKey := "product:" + barcode
	var cached domain.CanonicalProduct
	if cache.Load(ctx, c.cache, cacheKey, &cached, c.logger) {
		return &cached, nil
	}

	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json?fields=%s",
		c.baseURL, url.PathEscape(barcode), url.QueryEscape(productFields))

	var resp productResponse
	if err := c.http.GetJSON(ctx, reqURL, nil, &resp); err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			c.logger.Warn("product lookup failed", zap.String("barcode", barcode), zap.Error(err))
		}
		return nil, err
	}
	if resp.Status == 0 || resp.Product == nil {
		return nil, domain.ErrProductNotFound
	}

	product := MapToCanonical(barcode, resp.Product)
	cache.Store(ctx, c.cache, cacheKey, product, c.cacheTTL, c.logger)

	c.logger.Debug("product found", zap.String("barcode", barcode), zap.String("name", product.Name))
	return product, nil
}

// Search runs a full-text product search and returns at most limit products
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.CanonicalProduct, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidRequest)
	}
	if limit <= 0 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("search:%d:%s", limit, strings.ToLower(query))
	var cached []domain.CanonicalProduct
	if cache.Load(ctx, c.cache, cacheKey, &cached, c.logger) {
		return cached, nil
	}

	params := url.Values{}
	params.Set("search_terms", query)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", strconv.Itoa(limit))
	params.Set("fields", productFields)
	reqURL := fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, params.Encode())

	var resp searchResponse
	if err := c.http.GetJSON(ctx, reqURL, nil, &resp); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return []domain.CanonicalProduct{}, nil
		}
		c.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}

	products := make([]domain.CanonicalProduct, 0, len(resp.Products))
	for i := range resp.Products {
		if len(products) == limit {
			break
		}
		p := MapToCanonical("", &resp.Products[i])
		if p.Barcode == "" && !p.HasName() {
			continue
		}
		products = append(products, *p)
	}

	cache.Store(ctx, c.cache, cacheKey, products, c.cacheTTL, c.logger)
	c.logger.Debug("search done", zap.String("query", query), zap.Int("results", len(products)))
	return products, nil
}
