// Package openai 实现 OpenAI 兼容的生成后端，可通过自定义 BaseURL
// 指向任意兼容 chat completions 协议的服务。
package openai

import (
	"context"
	"errors"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/nerdneilsfield/go-announce-bot/pkg/providers"
)

// Config OpenAI配置
type Config struct {
	providers.BaseConfig
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		BaseConfig:  providers.DefaultConfig(),
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		MaxTokens:   2000,
	}
}

// Provider OpenAI提供商
type Provider struct {
	config Config
	client *goopenai.Client
}

var _ providers.Generator = (*Provider)(nil)

// New 创建新的OpenAI提供商
func New(config Config) *Provider {
	clientConfig := goopenai.DefaultConfig(config.APIKey)
	if config.APIEndpoint != "" {
		clientConfig.BaseURL = config.APIEndpoint
	}

	return &Provider{
		config: config,
		client: goopenai.NewClientWithConfig(clientConfig),
	}
}

// Generate 执行一次生成请求
func (p *Provider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if p.config.APIKey == "" {
		return "", providers.ErrMissingCredentials
	}

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
	})
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			return "", &providers.APIError{Status: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		return "", &providers.TransportError{Cause: err}
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}

// GetName 获取后端名称
func (p *Provider) GetName() string {
	return "openai"
}

// HealthCheck 健康检查：只校验密钥已配置
func (p *Provider) HealthCheck(ctx context.Context) error {
	if p.config.APIKey == "" {
		return providers.ErrMissingCredentials
	}
	return nil
}
