// Package zhipu 实现智谱 GLM chat completions 后端。
// 认证使用由复合密钥（id.secret）派生的短时签名令牌。
package zhipu

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nerdneilsfield/go-announce-bot/pkg/providers"
)

// Config 智谱配置
type Config struct {
	providers.BaseConfig
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	TopP        float32 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	config := Config{
		BaseConfig:  providers.DefaultConfig(),
		Model:       "glm-4-flash",
		Temperature: 0.7,
		TopP:        0.9,
		MaxTokens:   2000,
	}
	config.APIEndpoint = "https://open.bigmodel.cn/api/paas/v4"
	return config
}

// Provider 智谱提供商
type Provider struct {
	config     Config
	httpClient *http.Client
	now        func() time.Time
}

// 确保 Provider 实现 providers.Generator 接口
var _ providers.Generator = (*Provider)(nil)

// New 创建新的智谱提供商
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		config.APIEndpoint = "https://open.bigmodel.cn/api/paas/v4"
	}

	return &Provider{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		now: time.Now,
	}
}

// Message 对话消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest chat completions 请求体
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
	TopP        float32   `json:"top_p"`
	MaxTokens   int       `json:"max_tokens"`
}

// chatResponse chat completions 响应体
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate 执行一次生成请求。单次尝试，不重试，失败直接上抛由调用方
// 渲染带重试入口的错误界面。
func (p *Provider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	token, err := signToken(p.config.APIKey, p.now())
	if err != nil {
		return "", err
	}

	reqBody := chatRequest{
		Model: p.config.Model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: p.config.Temperature,
		TopP:        p.config.TopP,
		MaxTokens:   p.config.MaxTokens,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.APIEndpoint+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)
	for k, v := range p.config.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", &providers.TransportError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(resp.Body)
		return "", &providers.APIError{Status: resp.StatusCode, Body: string(errBody)}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// GetName 获取后端名称
func (p *Provider) GetName() string {
	return "zhipu"
}

// HealthCheck 健康检查：只校验凭证格式，不发起网络请求
func (p *Provider) HealthCheck(ctx context.Context) error {
	_, err := signToken(p.config.APIKey, p.now())
	return err
}

// tokenHeader 签名令牌头部
type tokenHeader struct {
	Alg      string `json:"alg"`
	SignType string `json:"sign_type"`
}

// tokenPayload 签名令牌负载，时间戳为毫秒
type tokenPayload struct {
	APIKey    string `json:"api_key"`
	Exp       int64  `json:"exp"`
	Timestamp int64  `json:"timestamp"`
}

// signToken 由复合密钥派生短时签名令牌：
// header 与 payload 分别 JSON 序列化后做无填充 URL-safe base64，
// 以句点连接，再附加 HMAC-SHA256（以 secret 为密钥）签名段。
// 令牌有效期一小时。
func signToken(apiKey string, now time.Time) (string, error) {
	if apiKey == "" {
		return "", providers.ErrMissingCredentials
	}

	parts := strings.Split(apiKey, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", providers.ErrInvalidCredentials
	}
	id, secret := parts[0], parts[1]

	headerJSON, err := json.Marshal(tokenHeader{Alg: "HS256", SignType: "SIGN"})
	if err != nil {
		return "", err
	}

	nowMs := now.UnixMilli()
	payloadJSON, err := json.Marshal(tokenPayload{
		APIKey:    id,
		Exp:       nowMs + time.Hour.Milliseconds(),
		Timestamp: nowMs,
	})
	if err != nil {
		return "", err
	}

	enc := base64.RawURLEncoding
	headerSeg := enc.EncodeToString(headerJSON)
	payloadSeg := enc.EncodeToString(payloadJSON)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(headerSeg + "." + payloadSeg))
	signatureSeg := enc.EncodeToString(mac.Sum(nil))

	return headerSeg + "." + payloadSeg + "." + signatureSeg, nil
}
