package deepl

import (
	"fmt"
	"net/http"
)

// 错误代码常量
const (
	ErrCodeBadRequest      = "bad_request"
	ErrCodeAuthFailed      = "auth_failed"
	ErrCodeNotFound        = "not_found"
	ErrCodeRequestTooLarge = "request_too_large"
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeQuotaExceeded   = "quota_exceeded"
	ErrCodeUnavailable     = "service_unavailable"
	ErrCodeServer          = "server_error"
	ErrCodeNetwork         = "network_error"
)

// Error DeepL API错误
type Error struct {
	Code       string // 错误代码
	StatusCode int    // HTTP状态码，网络错误时为0
	Message    string // 错误消息
	Cause      error  // 原因
}

// Error 实现error接口
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("deepl: [%s] %s (HTTP %d)", e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("deepl: [%s] %s", e.Code, e.Message)
}

// Unwrap 返回原因错误
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable 判断错误是否可重试
func (e *Error) IsRetryable() bool {
	switch e.Code {
	case ErrCodeRateLimited, ErrCodeUnavailable, ErrCodeServer, ErrCodeNetwork:
		return true
	default:
		return false
	}
}

// errorFromStatus 按HTTP状态码构造错误
func errorFromStatus(statusCode int, body string) *Error {
	e := &Error{StatusCode: statusCode, Message: body}
	switch statusCode {
	case http.StatusBadRequest:
		e.Code = ErrCodeBadRequest
		if body == "" {
			e.Message = "bad request"
		}
	case http.StatusForbidden:
		e.Code = ErrCodeAuthFailed
		e.Message = "authentication failed, check the auth key"
	case http.StatusNotFound:
		e.Code = ErrCodeNotFound
		e.Message = "requested resource not found"
	case http.StatusRequestEntityTooLarge:
		e.Code = ErrCodeRequestTooLarge
		e.Message = "request size exceeded"
	case http.StatusTooManyRequests:
		e.Code = ErrCodeRateLimited
		e.Message = "too many requests"
	case 456:
		e.Code = ErrCodeQuotaExceeded
		e.Message = "character quota exceeded"
	case http.StatusServiceUnavailable:
		e.Code = ErrCodeUnavailable
		e.Message = "service temporarily unavailable"
	default:
		e.Code = ErrCodeServer
		if body == "" {
			e.Message = fmt.Sprintf("unexpected status %d", statusCode)
		}
	}
	return e
}
