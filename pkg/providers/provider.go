// Package providers 定义生成后端的通用接口与配置。
package providers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// BaseConfig 基础配置
type BaseConfig struct {
	// API配置
	APIKey      string `json:"api_key,omitempty"`
	APIEndpoint string `json:"api_endpoint,omitempty"`

	// 超时
	Timeout time.Duration `json:"timeout"`

	// 自定义头部
	Headers map[string]string `json:"headers,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() BaseConfig {
	return BaseConfig{
		Timeout: 60 * time.Second,
		Headers: make(map[string]string),
	}
}

// Generator 生成后端接口：一次同步请求换一段原始文本，无流式
type Generator interface {
	// Generate 发送 system + user 提示词，返回模型原始文本
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// GetName 获取后端名称
	GetName() string

	// HealthCheck 健康检查
	HealthCheck(ctx context.Context) error
}

// 凭证错误
var (
	// ErrMissingCredentials API 密钥未配置
	ErrMissingCredentials = errors.New("generation API key is not configured")

	// ErrInvalidCredentials API 密钥格式错误（要求 id.secret 两段）
	ErrInvalidCredentials = errors.New("invalid generation API key format, expected id.secret")
)

// APIError 生成后端返回的非成功响应
type APIError struct {
	Status int    // HTTP 状态码
	Body   string // 响应体原文
}

// Error 实现error接口
func (e *APIError) Error() string {
	return fmt.Sprintf("generation API error: %d - %s", e.Status, e.Body)
}

// IsRetryable 是否适合用户手动重试
func (e *APIError) IsRetryable() bool {
	return e.Status == 429 || e.Status >= 500
}

// TransportError 网络层失败（连接、超时等），由调用方呈现可重试的错误界面
type TransportError struct {
	Cause error
}

// Error 实现error接口
func (e *TransportError) Error() string {
	return "generation request failed: " + e.Cause.Error()
}

// Unwrap 返回原因错误
func (e *TransportError) Unwrap() error {
	return e.Cause
}
