package pricesearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/beautylens/backend/internal/domain"
)

// Client handles communication with the web-search API used for price
// estimates. The client reports failures honestly; degrading to the
// placeholder price is the caller's decision.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	log         *zap.SugaredLogger
}

// ClientConfig holds price search client configuration
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new price search client
func NewClient(config ClientConfig, log *zap.SugaredLogger) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      config.APIKey,
		baseURL:     config.BaseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(2), 5),
		log:         log,
	}
}

// searchRequest is the search API request body
type searchRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	IncludeAnswer bool   `json:"include_answer"`
}

// searchResponse is the subset of the search API response we consume
type searchResponse struct {
	Answer string `json:"answer"`
}

// EstimatePrice asks the search API for a short price answer for the given
// product identity. Returns ErrPriceSearchFailure when the call fails or
// the answer is absent.
func (c *Client) EstimatePrice(ctx context.Context, brand, name string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	query := fmt.Sprintf("цена на косметику %s %s в рублях %d", brand, name, time.Now().Year())

	body, err := json.Marshal(searchRequest{
		APIKey:        c.apiKey,
		Query:         query,
		SearchDepth:   "basic",
		IncludeAnswer: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/search", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPriceSearchFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", domain.ErrPriceSearchFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warnw("price search non-OK status", "status", resp.StatusCode, "query", query)
		return "", fmt.Errorf("%w: status %d", domain.ErrPriceSearchFailure, resp.StatusCode)
	}

	var result searchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", domain.ErrPriceSearchFailure, err)
	}
	if result.Answer == "" {
		return "", fmt.Errorf("%w: no answer", domain.ErrPriceSearchFailure)
	}

	return result.Answer, nil
}
