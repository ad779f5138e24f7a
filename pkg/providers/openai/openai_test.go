package openai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nerdneilsfield/go-announce-bot/pkg/providers"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "gpt-4o-mini", config.Model)
	assert.Equal(t, float32(0.7), config.Temperature)
	assert.Equal(t, 2000, config.MaxTokens)
	assert.Equal(t, 60*time.Second, config.Timeout)
}

func TestProvider_MissingCredentials(t *testing.T) {
	provider := New(DefaultConfig())

	_, err := provider.Generate(context.Background(), "system", "user")
	assert.ErrorIs(t, err, providers.ErrMissingCredentials)

	assert.ErrorIs(t, provider.HealthCheck(context.Background()), providers.ErrMissingCredentials)
}

func TestGetName(t *testing.T) {
	assert.Equal(t, "openai", New(DefaultConfig()).GetName())
}
