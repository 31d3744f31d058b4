package handler

import (
	"github.com/gin-gonic/gin"

	"hr-admin/internal/dto"
	"hr-admin/internal/service"
	"hr-admin/pkg/response"
)

// ManagerHandler 经理列表 HTTP 处理器
type ManagerHandler struct {
	mgrSvc service.ManagerService
}

// NewManagerHandler 创建 ManagerHandler
func NewManagerHandler(mgrSvc service.ManagerService) *ManagerHandler {
	return &ManagerHandler{mgrSvc: mgrSvc}
}

// ListManagers 全部经理及其部门、直属下属概况
// GET /api/v1/managers
func (h *ManagerHandler) ListManagers(c *gin.Context) {
	managers, err := h.mgrSvc.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, dto.NewListResponse(managers))
}
