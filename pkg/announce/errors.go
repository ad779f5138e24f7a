package announce

import (
	"errors"
	"fmt"
)

// 预定义错误
var (
	// ErrUnknownType 未知公告类型
	ErrUnknownType = errors.New("unknown announcement type")

	// ErrNoProvider 生成后端未配置
	ErrNoProvider = errors.New("generation provider not configured")

	// ErrEmptyResponse 生成后端返回空内容
	ErrEmptyResponse = errors.New("empty generation response")
)

// 错误代码常量
const (
	ErrCodeConfig     = "CONFIG_ERROR"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeGeneration = "GENERATION_ERROR"
	ErrCodeNetwork    = "NETWORK_ERROR"
	ErrCodeTimeout    = "TIMEOUT_ERROR"
	ErrCodeUnknown    = "UNKNOWN_ERROR"
)

// PipelineError 生成流水线错误
type PipelineError struct {
	Code    string // 错误代码
	Message string // 错误消息
	Cause   error  // 原因
	Retry   bool   // 是否可由用户手动重试
}

// Error 实现error接口
func (e *PipelineError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回原因错误
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// IsRetryable 是否可重试
func (e *PipelineError) IsRetryable() bool {
	return e.Retry
}

// WrapError 包装错误。链上已有 PipelineError 时沿用其代码与重试标记，
// 构造新值而不改写原错误。
func WrapError(err error, code, message string) *PipelineError {
	if err == nil {
		return nil
	}

	var pe *PipelineError
	if errors.As(err, &pe) {
		return &PipelineError{
			Code:    pe.Code,
			Message: message + ": " + pe.Message,
			Cause:   err,
			Retry:   pe.Retry,
		}
	}

	return &PipelineError{
		Code:    code,
		Message: message,
		Cause:   err,
		Retry:   code == ErrCodeGeneration || code == ErrCodeNetwork || code == ErrCodeTimeout,
	}
}
