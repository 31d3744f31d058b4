package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"hr-admin/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportEmployees 导出调用方可见的员工列表
// GET /api/v1/employees/export
func (h *ExportHandler) ExportEmployees(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportEmployees(c.Request.Context(), currentIdentity(c))
	if err != nil {
		handleError(c, err)
		return
	}

	// 设置下载响应头
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
