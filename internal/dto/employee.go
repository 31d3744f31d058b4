package dto

import "hr-admin/internal/model"

// ── 员工模块 DTO ──

// CreateEmployeeRequest 创建员工请求
type CreateEmployeeRequest struct {
	FirstName     string       `json:"first_name"  binding:"required,min=1,max=100"`
	LastName      string       `json:"last_name"   binding:"required,min=1,max=100"`
	Telephone     string       `json:"telephone"   binding:"required,min=7,max=50"`
	Email         string       `json:"email"       binding:"required,email"`
	ManagerID     *uint        `json:"manager_id"  binding:"omitempty,min=1"`
	DepartmentIDs []uint       `json:"departments" binding:"omitempty,dive,min=1"`
	Status        model.Status `json:"status"      binding:"omitempty,oneof=Active Inactive"` // 默认 Active
}

// UpdateEmployeeRequest 更新员工资料请求（目标 ID 取自路径）
type UpdateEmployeeRequest struct {
	FirstName string       `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string       `json:"last_name"  binding:"required,min=1,max=100"`
	Email     string       `json:"email"      binding:"required,email"`
	Telephone string       `json:"telephone"  binding:"required,min=7,max=50"`
	Status    model.Status `json:"status"     binding:"required,oneof=Active Inactive"`
	ManagerID *uint        `json:"manager_id" binding:"omitempty,min=1"`
}

// UpdateStatusRequest 员工 / 部门状态切换请求
type UpdateStatusRequest struct {
	Status model.Status `json:"status" binding:"required,oneof=Active Inactive"`
}

// EmployeeFilterRequest 员工筛选查询参数
type EmployeeFilterRequest struct {
	Status       model.Status `form:"status"        binding:"omitempty,oneof=Active Inactive"`
	ManagerID    *uint        `form:"manager_id"    binding:"omitempty,min=1"`
	DepartmentID *uint        `form:"department_id" binding:"omitempty,min=1"`
}

// EmployeeResponse 员工详情（含账号、所属部门、上级与下属）
type EmployeeResponse struct {
	ID           uint              `json:"id"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	Email        string            `json:"email"`
	Telephone    string            `json:"telephone"`
	Status       model.Status      `json:"status"`
	ManagerID    *uint             `json:"manager_id"`
	UserID       uint              `json:"user_id"`
	User         *UserResponse     `json:"user,omitempty"`
	Departments  []DepartmentBrief `json:"departments"`
	Manager      *EmployeeBrief    `json:"manager,omitempty"`
	Subordinates []EmployeeBrief   `json:"subordinates"`
}

// EmployeeBrief 员工简要信息
type EmployeeBrief struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
