package pipeline

import (
	"errors"
	"fmt"
)

// 预定义错误
var (
	// ErrEmptyText 空文本错误
	ErrEmptyText = errors.New("empty text provided")

	// ErrNoCredential 凭证未配置
	ErrNoCredential = errors.New("credential not configured")

	// ErrUnknownComponentType 未注册的组件类型
	ErrUnknownComponentType = errors.New("unknown component type")
)

// 错误代码常量
const (
	ErrCodeInputType  = "INPUT_TYPE_ERROR"
	ErrCodeInputValue = "INPUT_VALUE_ERROR"
	ErrCodeCredential = "CREDENTIAL_ERROR"
	ErrCodeSerialize  = "SERIALIZE_ERROR"
)

// Error 流水线层错误
type Error struct {
	Code    string // 错误代码
	Message string // 错误消息
	Cause   error  // 原因
}

// Error 实现error接口
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回原因错误
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewTypeError 创建输入形状错误（参数类型不符合组件约定）
func NewTypeError(format string, args ...any) *Error {
	return &Error{Code: ErrCodeInputType, Message: fmt.Sprintf(format, args...)}
}

// NewValueError 创建输入内容错误
func NewValueError(message string, cause error) *Error {
	return &Error{Code: ErrCodeInputValue, Message: message, Cause: cause}
}

// NewCredentialError 创建凭证解析错误
func NewCredentialError(message string, cause error) *Error {
	return &Error{Code: ErrCodeCredential, Message: message, Cause: cause}
}

// NewSerializeError 创建序列化/反序列化错误
func NewSerializeError(format string, args ...any) *Error {
	return &Error{Code: ErrCodeSerialize, Message: fmt.Sprintf(format, args...)}
}

// IsCode 判断错误是否携带指定错误代码
func IsCode(err error, code string) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}
