package zhipu

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-announce-bot/pkg/providers"
)

func TestSignToken(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	t.Run("token structure and signature", func(t *testing.T) {
		token, err := signToken("myid.mysecret", now)
		require.NoError(t, err)

		segments := strings.Split(token, ".")
		require.Len(t, segments, 3)

		enc := base64.RawURLEncoding

		headerJSON, err := enc.DecodeString(segments[0])
		require.NoError(t, err)
		var header map[string]string
		require.NoError(t, json.Unmarshal(headerJSON, &header))
		assert.Equal(t, "HS256", header["alg"])
		assert.Equal(t, "SIGN", header["sign_type"])

		payloadJSON, err := enc.DecodeString(segments[1])
		require.NoError(t, err)
		var payload struct {
			APIKey    string `json:"api_key"`
			Exp       int64  `json:"exp"`
			Timestamp int64  `json:"timestamp"`
		}
		require.NoError(t, json.Unmarshal(payloadJSON, &payload))
		assert.Equal(t, "myid", payload.APIKey)
		assert.Equal(t, now.UnixMilli(), payload.Timestamp)
		assert.Equal(t, now.UnixMilli()+3600000, payload.Exp)

		// 用 secret 重算签名段
		mac := hmac.New(sha256.New, []byte("mysecret"))
		mac.Write([]byte(segments[0] + "." + segments[1]))
		assert.Equal(t, enc.EncodeToString(mac.Sum(nil)), segments[2])
	})

	t.Run("deterministic for fixed time", func(t *testing.T) {
		a, err := signToken("id.secret", now)
		require.NoError(t, err)
		b, err := signToken("id.secret", now)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("credential validation", func(t *testing.T) {
		_, err := signToken("", now)
		assert.ErrorIs(t, err, providers.ErrMissingCredentials)

		for _, key := range []string{"nodot", "a.b.c", ".secret", "id."} {
			_, err := signToken(key, now)
			assert.ErrorIs(t, err, providers.ErrInvalidCredentials, "key %q", key)
		}
	})
}

func TestProvider_Generate(t *testing.T) {
	t.Run("successful generation", func(t *testing.T) {
		var gotAuth string
		var gotBody chatRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": "中文标题：测试"}},
				},
			})
		}))
		defer server.Close()

		config := DefaultConfig()
		config.APIKey = "id.secret"
		config.APIEndpoint = server.URL
		provider := New(config)

		got, err := provider.Generate(context.Background(), "system", "user")
		require.NoError(t, err)
		assert.Equal(t, "中文标题：测试", got)

		assert.True(t, strings.HasPrefix(gotAuth, "Bearer "))
		assert.Equal(t, "glm-4-flash", gotBody.Model)
		require.Len(t, gotBody.Messages, 2)
		assert.Equal(t, "system", gotBody.Messages[0].Role)
		assert.Equal(t, "user", gotBody.Messages[1].Role)
	})

	t.Run("api error carries status and body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limited"}`))
		}))
		defer server.Close()

		config := DefaultConfig()
		config.APIKey = "id.secret"
		config.APIEndpoint = server.URL
		provider := New(config)

		_, err := provider.Generate(context.Background(), "system", "user")
		var apiErr *providers.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
		assert.Contains(t, apiErr.Body, "rate limited")
		assert.True(t, apiErr.IsRetryable())
	})

	t.Run("connection failure is transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		config := DefaultConfig()
		config.APIKey = "id.secret"
		config.APIEndpoint = server.URL
		provider := New(config)

		_, err := provider.Generate(context.Background(), "system", "user")
		var transportErr *providers.TransportError
		assert.ErrorAs(t, err, &transportErr)
	})

	t.Run("empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		config := DefaultConfig()
		config.APIKey = "id.secret"
		config.APIEndpoint = server.URL
		provider := New(config)

		_, err := provider.Generate(context.Background(), "system", "user")
		assert.Error(t, err)
	})

	t.Run("bad credentials fail before any request", func(t *testing.T) {
		config := DefaultConfig()
		config.APIKey = "no-dot-here"
		provider := New(config)

		_, err := provider.Generate(context.Background(), "system", "user")
		assert.ErrorIs(t, err, providers.ErrInvalidCredentials)
	})
}

func TestProvider_HealthCheck(t *testing.T) {
	config := DefaultConfig()
	config.APIKey = "id.secret"
	assert.NoError(t, New(config).HealthCheck(context.Background()))

	config.APIKey = ""
	assert.ErrorIs(t, New(config).HealthCheck(context.Background()), providers.ErrMissingCredentials)
}

func TestGetName(t *testing.T) {
	assert.Equal(t, "zhipu", New(DefaultConfig()).GetName())
}
