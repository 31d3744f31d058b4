package handler

import (
	"github.com/gin-gonic/gin"

	"hr-admin/internal/dto"
	"hr-admin/internal/service"
	"hr-admin/pkg/response"
)

// DepartmentHandler 部门模块 HTTP 处理器
type DepartmentHandler struct {
	deptSvc service.DepartmentService
}

// NewDepartmentHandler 创建 DepartmentHandler
func NewDepartmentHandler(deptSvc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptSvc: deptSvc}
}

// ListDepartments 获取部门列表
// GET /api/v1/departments
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	depts, err := h.deptSvc.List(c.Request.Context(), currentIdentity(c))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, dto.NewListResponse(depts))
}

// CreateDepartment 创建部门
// POST /api/v1/departments
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if !bindJSON(c, &req) {
		return
	}

	dept, err := h.deptSvc.Create(c.Request.Context(), currentIdentity(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, dept)
}

// UpdateDepartment 更新部门
// PUT /api/v1/departments/:id
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateDepartmentRequest
	if !bindJSON(c, &req) {
		return
	}

	dept, err := h.deptSvc.Update(c.Request.Context(), currentIdentity(c), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, dept)
}

// UpdateStatus 切换部门状态
// PUT /api/v1/departments/:id/status
func (h *DepartmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	dept, err := h.deptSvc.UpdateStatus(c.Request.Context(), currentIdentity(c), id, req.Status)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, dept)
}
