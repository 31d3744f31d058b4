package handler

import (
	"github.com/gin-gonic/gin"

	"hr-admin/internal/dto"
	"hr-admin/internal/service"
	"hr-admin/pkg/response"
)

// EmployeeHandler 员工模块 HTTP 处理器
type EmployeeHandler struct {
	empSvc service.EmployeeService
}

// NewEmployeeHandler 创建 EmployeeHandler
func NewEmployeeHandler(empSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{empSvc: empSvc}
}

// CreateEmployee 新建员工（同时开通账号）
// POST /api/v1/employees
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}

	emp, err := h.empSvc.Create(c.Request.Context(), currentIdentity(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, emp)
}

// ListEmployees 按角色可见范围列出员工
// GET /api/v1/employees
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	list, err := h.empSvc.List(c.Request.Context(), currentIdentity(c))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, dto.NewListResponse(list))
}

// FilterEmployees 条件筛选员工
// GET /api/v1/employees/filter?status=&manager_id=&department_id=
func (h *EmployeeHandler) FilterEmployees(c *gin.Context) {
	var req dto.EmployeeFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	list, err := h.empSvc.ListFiltered(c.Request.Context(), currentIdentity(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, dto.NewListResponse(list))
}

// UpdateEmployee 修改员工资料
// PUT /api/v1/employees/:id
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}

	emp, err := h.empSvc.Update(c.Request.Context(), currentIdentity(c), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, emp)
}

// UpdateStatus 切换员工状态
// PUT /api/v1/employees/:id/status
func (h *EmployeeHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	emp, err := h.empSvc.UpdateStatus(c.Request.Context(), currentIdentity(c), id, req.Status)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, emp)
}
