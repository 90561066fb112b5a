package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-media-kit/pkg/domain"
)

func TestNew(t *testing.T) {
	t.Run("APIキーが空ならConfigurationErrorを返すこと", func(t *testing.T) {
		_, err := New("", "claude-sonnet-4-20250514")
		require.Error(t, err)

		var cfgErr *domain.ConfigurationError
		assert.True(t, errors.As(err, &cfgErr))
	})
}

func TestClient_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("システム指示と温度がワイヤ形式に反映されること", func(t *testing.T) {
		var captured wireRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/messages", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
			assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"content": []map[string]string{{"type": "text", "text": "Había una vez un gato."}},
			})
		}))
		defer srv.Close()

		client, err := New("test-key", "claude-sonnet-4-20250514", WithBaseURL(srv.URL))
		require.NoError(t, err)

		got, err := client.Complete(ctx, CompletionRequest{
			System:      "Eres un narrador experto.",
			UserMessage: "Crea un relato sobre: un gato",
			MaxTokens:   2000,
			Temperature: 0.7,
		})
		require.NoError(t, err)
		assert.Equal(t, "Había una vez un gato.", got)

		assert.Equal(t, "claude-sonnet-4-20250514", captured.Model)
		assert.Equal(t, "Eres un narrador experto.", captured.System)
		assert.Equal(t, 2000, captured.MaxTokens)
		assert.InDelta(t, 0.7, captured.Temperature, 1e-9)
		require.Len(t, captured.Messages, 1)
		assert.Equal(t, "user", captured.Messages[0].Role)
	})

	t.Run("非2xxはステータスと本文つきのUpstreamErrorになること", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
		}))
		defer srv.Close()

		client, err := New("test-key", "claude-sonnet-4-20250514", WithBaseURL(srv.URL))
		require.NoError(t, err)

		_, err = client.Complete(ctx, CompletionRequest{UserMessage: "hola", MaxTokens: 100})
		require.Error(t, err)

		var upErr *domain.UpstreamError
		require.True(t, errors.As(err, &upErr))
		assert.Equal(t, http.StatusTooManyRequests, upErr.StatusCode)
		assert.Contains(t, upErr.Message, "rate limited")
	})

	t.Run("空のcontentはUpstreamErrorになること", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"content":[]}`))
		}))
		defer srv.Close()

		client, err := New("test-key", "claude-sonnet-4-20250514", WithBaseURL(srv.URL))
		require.NoError(t, err)

		_, err = client.Complete(ctx, CompletionRequest{UserMessage: "hola", MaxTokens: 100})
		var upErr *domain.UpstreamError
		require.True(t, errors.As(err, &upErr))
	})
}
