// Package errors 定义业务错误分类，供 Service 层抛出、Handler 层映射为 HTTP 响应。
package errors

import (
	"errors"
	"fmt"
)

// Code 业务错误分类
type Code string

const (
	CodeUnauthenticated Code = "UNAUTHENTICATED" // 未登录
	CodeForbidden       Code = "FORBIDDEN"       // 已登录但角色或行级策略不允许
	CodeBadRequest      Code = "BAD_REQUEST"     // 引用的实体不存在或参数不合法
	CodeConflict        Code = "CONFLICT"        // 唯一键冲突
	CodeNotFound        Code = "NOT_FOUND"       // 按 ID 更新的目标不存在
	CodeInternal        Code = "INTERNAL"        // 存储层意外失败
)

// unknownInternalMessage 底层错误无法识别时的兜底文案
const unknownInternalMessage = "发生未知错误"

// AppError 带分类码与可展示文案的业务错误
type AppError struct {
	Code    Code
	Message string
	Err     error
}

// New 创建业务错误
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Internal 包装存储层意外错误，文案为 "<action>失败: <原始错误>"
func Internal(action string, err error) *AppError {
	if err == nil {
		return &AppError{Code: CodeInternal, Message: unknownInternalMessage}
	}
	return &AppError{
		Code:    CodeInternal,
		Message: fmt.Sprintf("%s失败: %s", action, err.Error()),
		Err:     err,
	}
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// CodeOf 提取错误分类码，非 AppError 一律视为 INTERNAL
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// MessageOf 提取可展示文案
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return unknownInternalMessage
}

// IsCode 判断错误是否属于指定分类
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
