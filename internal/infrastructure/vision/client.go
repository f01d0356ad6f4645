package vision

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
	"github.com/beautylens/backend/internal/usecase"
)

// Client handles communication with the OpenAI-compatible vision endpoint
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	referer     string
	title       string
	rateLimiter *rate.Limiter
	log         *zap.SugaredLogger
}

// ClientConfig holds vision client configuration
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Referer string
	Title   string
	Timeout time.Duration
}

// NewClient creates a new vision API client
func NewClient(config ClientConfig, log *zap.SugaredLogger) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	// Vision inference is slow and metered; keep request rate modest
	limiter := rate.NewLimiter(rate.Limit(1), 5)

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      config.APIKey,
		baseURL:     config.BaseURL,
		model:       config.Model,
		referer:     config.Referer,
		title:       config.Title,
		rateLimiter: limiter,
		log:         log,
	}
}

// chatRequest is the chat-completions request body
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type textPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type imagePart struct {
	Type     string   `json:"type"`
	ImageURL imageURL `json:"image_url"`
}

type imageURL struct {
	URL string `json:"url"`
}

// chatResponse is the chat-completions response envelope. Content is left
// untyped because providers return either a string or a content-part array.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content any `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Identify sends the recognition prompt plus the inline image and returns
// the raw text of the first choice's message content
func (c *Client) Identify(ctx context.Context, imageBase64 string, profile domain.Profile) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []any{
					textPart{Type: "text", Text: BuildPrompt(profile)},
					imagePart{Type: "image_url", ImageURL: imageURL{
						URL: "data:image/jpeg;base64," + imageBase64,
					}},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}

		respBody, err := c.doRequest(ctx, body)
		if err != nil {
			c.log.Warnw("vision request failed", "attempt", attempt, "error", err)
			lastErr = err
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt*500) * time.Millisecond):
			}
			continue
		}

		var envelope chatResponse
		if err := json.Unmarshal(respBody, &envelope); err != nil {
			return "", fmt.Errorf("%w: decoding envelope: %v", domain.ErrMalformedPayload, err)
		}
		if len(envelope.Choices) == 0 {
			return "", domain.ErrEmptyResponse
		}

		return usecase.ExtractText(envelope.Choices[0].Message.Content)
	}

	return "", lastErr
}

// doRequest executes one POST to the chat-completions endpoint
func (c *Client) doRequest(ctx context.Context, body []byte) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/chat/completions", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", c.referer)
	req.Header.Set("X-Title", c.title)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVisionUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrVisionUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warnw("vision API non-OK status", "status", resp.StatusCode, "body", string(respBody))
		return nil, fmt.Errorf("%w: status %d", domain.ErrVisionUnavailable, resp.StatusCode)
	}

	return respBody, nil
}
