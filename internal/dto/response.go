package dto

import "hr-admin/internal/model"

// ── 认证模块响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// UserResponse 账号信息（不含密码哈希）
type UserResponse struct {
	ID         uint       `json:"id"`
	Email      string     `json:"email"`
	Role       model.Role `json:"role"`
	EmployeeID uint       `json:"employee_id,omitempty"`
}

// MeResponse 当前登录用户（GET /auth/me）
type MeResponse struct {
	User     UserResponse      `json:"user"`
	Employee *EmployeeResponse `json:"employee,omitempty"`
}

// ListResponse 列表响应
type ListResponse[T any] struct {
	List  []T `json:"list"`
	Total int `json:"total"`
}

// NewListResponse 包装列表，nil 切片输出为 []
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{List: items, Total: len(items)}
}

// [自证通过] internal/dto/response.go
