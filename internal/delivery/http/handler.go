package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/greenscan/backend/internal/domain"
	"github.com/greenscan/backend/internal/scoring"
)

const (
	serviceName    = "greenscan-backend"
	serviceVersion = "1.0.0"
)

// ProductResolver resolves one barcode into an enriched product
type ProductResolver interface {
	Resolve(ctx context.Context, barcode string) (*domain.EnrichedProduct, error)
}

// ProductSearcher searches products by free text
type ProductSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]domain.CanonicalProduct, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	resolver ProductResolver
	searcher ProductSearcher
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil service makes its endpoints
// answer 503.
func NewHandler(resolver ProductResolver, searcher ProductSearcher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{resolver: resolver, searcher: searcher, logger: logger}
}

// ProductResponse is the body of GET /api/v1/products/:barcode
type ProductResponse struct {
	Product *domain.EnrichedProduct `json:"product"`
	Score   domain.ScoreResult      `json:"score"`
}

// SearchResponse is the body of GET /api/v1/products/search
type SearchResponse struct {
	Query    string                    `json:"query"`
	Count    int                       `json:"count"`
	Products []domain.CanonicalProduct `json:"products"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// GetProduct resolves a barcode and scores the result.
// Raw source payloads are only included with ?raw=true.
func (h *Handler) GetProduct(c *gin.Context) {
	if h.resolver == nil {
		h.unavailable(c)
		return
	}

	barcode := strings.TrimSpace(c.Param("barcode"))
	product, err := h.resolver.Resolve(c.Request.Context(), barcode)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found", "barcode": barcode})
		return
	}

	if raw, _ := strconv.ParseBool(c.Query("raw")); !raw {
		product.Raw = nil
	}

	score := scoring.ApplyQualityBonus(scoring.Score(product.CanonicalProduct), product.DataQualityBonus)
	c.JSON(http.StatusOK, ProductResponse{Product: product, Score: score})
}

// SearchProducts handles GET /api/v1/products/search?q=&limit=
func (h *Handler) SearchProducts(c *gin.Context) {
	if h.searcher == nil {
		h.unavailable(c)
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	products, err := h.searcher.Search(c.Request.Context(), query, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if products == nil {
		products = []domain.CanonicalProduct{}
	}

	c.JSON(http.StatusOK, SearchResponse{Query: query, Count: len(products), Products: products})
}

// ScoreProduct scores a CanonicalProduct posted as JSON
func (h *Handler) ScoreProduct(c *gin.Context) {
	var product domain.CanonicalProduct
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product JSON", "details": err.Error()})
		return
	}
	if strings.TrimSpace(product.Barcode) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "barcode is required"})
		return
	}

	product.ApplyDefaults()
	c.JSON(http.StatusOK, scoring.Score(product))
}

func (h *Handler) unavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service not configured"})
}

// respondError maps domain errors to status codes. Internal details are
// logged, never returned.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request cancelled"})
	default:
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", requestIDFrom(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
