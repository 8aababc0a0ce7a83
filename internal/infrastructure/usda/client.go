// Package usda is the USDA FoodData Central client used as the last
// reference-nutrition fallback.
package usda

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/greenscan/backend/internal/domain"
	"github.com/greenscan/backend/internal/infrastructure/httpclient"
)

const (
	DefaultBaseURL = "https://api.nal.usda.gov/fdc"

	// RequestsPerSecond keeps under the 1000 requests per hour API key quota
	RequestsPerSecond = 0.278
	Burst             = 10
)

// Client handles communication with the USDA FoodData Central API
type Client struct {
	http    *httpclient.Client
	apiKey  string
	baseURL string
	logger  *zap.Logger
}

// NewClient creates a new USDA API client
func NewClient(apiKey, baseURL string, hc *httpclient.Client, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:    hc,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// SearchFoods searches for foods in the USDA database
func (c *Client) SearchFoods(ctx context.Context, query string) (*domain.USDASearchResponse, error) {
	c.logger.Debug("search foods", zap.String("query", query))

	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", c.apiKey)
	params.Add("dataType", "Survey (FNDDS),Foundation,SR Legacy")
	params.Add("pageSize", "10")

	reqURL := fmt.Sprintf("%s/v1/foods/search?%s", c.baseURL, params.Encode())

	var searchResp domain.USDASearchResponse
	if err := c.http.GetJSON(ctx, reqURL, nil, &searchResp); err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			c.logger.Warn("search foods failed", zap.String("query", query), zap.Error(err))
		}
		return nil, err
	}

	if len(searchResp.Foods) == 0 {
		c.logger.Debug("no foods found", zap.String("query", query))
		return nil, domain.ErrProductNotFound
	}

	c.logger.Debug("foods found", zap.String("query", query), zap.Int("count", len(searchResp.Foods)))
	return &searchResp, nil
}

// GetFoodDetails retrieves detailed nutrition information for a specific food by FDC ID
func (c *Client) GetFoodDetails(ctx context.Context, fdcID string) (*domain.USDAFood, error) {
	fdcID = strings.TrimSpace(fdcID)
	if fdcID == "" {
		return nil, fmt.Errorf("%w: empty fdc id", domain.ErrInvalidRequest)
	}

	params := url.Values{}
	params.Add("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s/v1/food/%s?%s", c.baseURL, url.PathEscape(fdcID), params.Encode())

	var food domain.USDAFood
	if err := c.http.GetJSON(ctx, reqURL, nil, &food); err != nil {
		return nil, err
	}
	return &food, nil
}
