package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/beautylens/backend/internal/domain"
)

func newTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "openai/gpt-4o-mini",
		Referer: "https://beauty-ai.app",
		Title:   "Beauty AI",
	}, zap.NewNop().Sugar())
}

func TestIdentify(t *testing.T) {
	t.Run("returns string content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			assert.Equal(t, "https://beauty-ai.app", r.Header.Get("HTTP-Referer"))

			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "openai/gpt-4o-mini", req["model"])

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"choices":[{"message":{"content":"{\"brand\":\"Nivea\"}"}}]}`))
		}))
		defer server.Close()

		text, err := newTestClient(server.URL).Identify(context.Background(), "aW1n", domain.Profile{})
		require.NoError(t, err)
		assert.Equal(t, `{"brand":"Nivea"}`, text)
	})

	t.Run("joins content part arrays", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[{"message":{"content":[
				{"type":"text","text":"part one"},
				{"type":"image_url"},
				{"type":"text","text":"part two"}
			]}}]}`))
		}))
		defer server.Close()

		text, err := newTestClient(server.URL).Identify(context.Background(), "aW1n", domain.Profile{})
		require.NoError(t, err)
		assert.Equal(t, "part one\npart two", text)
	})

	t.Run("empty choices fails with empty response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Identify(context.Background(), "aW1n", domain.Profile{})
		assert.ErrorIs(t, err, domain.ErrEmptyResponse)
	})

	t.Run("non-OK status retries then fails", func(t *testing.T) {
		attempts := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Identify(context.Background(), "aW1n", domain.Profile{})
		assert.ErrorIs(t, err, domain.ErrVisionUnavailable)
		assert.Equal(t, 3, attempts)
	})

	t.Run("recovers on second attempt", func(t *testing.T) {
		attempts := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
		}))
		defer server.Close()

		text, err := newTestClient(server.URL).Identify(context.Background(), "aW1n", domain.Profile{})
		require.NoError(t, err)
		assert.Equal(t, "ok", text)
	})
}

func TestBuildPrompt(t *testing.T) {
	t.Run("bare prompt without profile", func(t *testing.T) {
		prompt := BuildPrompt(domain.Profile{})
		assert.Contains(t, prompt, "JSON")
		assert.NotContains(t, prompt, "у пользователя")
	})

	t.Run("profile hints embedded", func(t *testing.T) {
		prompt := BuildPrompt(domain.Profile{
			SkinType:  "dry",
			HairType:  "curly",
			AgeRange:  "25-34",
			Lifestyle: "active",
		})
		assert.Contains(t, prompt, "сухая")
		assert.Contains(t, prompt, "кудрявые")
		assert.Contains(t, prompt, "25-34")
		assert.Contains(t, prompt, "активный")
	})

	t.Run("unknown hint values skipped", func(t *testing.T) {
		prompt := BuildPrompt(domain.Profile{SkinType: "reptilian"})
		assert.False(t, strings.Contains(prompt, "reptilian"))
	})
}
