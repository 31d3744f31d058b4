package model

// Role 用户角色，固定在 User 上
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// CanManage 该角色的员工能否被设为他人的上级
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleManager
}

// Status 员工 / 部门状态，两态之间可任意切换
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Valid 是否为已知状态
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}
