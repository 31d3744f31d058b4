package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hr-admin/internal/api/middleware"
	"hr-admin/internal/auth"
	"hr-admin/internal/service"
	apperrors "hr-admin/pkg/errors"
	"hr-admin/pkg/response"
)

// currentIdentity 当前调用方，匿名请求为 nil
// 是否允许匿名由 Service 层决定，Handler 不做拦截
func currentIdentity(c *gin.Context) *auth.Identity {
	return middleware.IdentityFrom(c)
}

// parseIDParam 解析路径参数 :id，非正整数时写入 400 并返回 false
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, 10001, "ID 参数无效")
		return 0, false
	}
	return uint(id), true
}

// bindJSON 绑定并校验请求体，失败时写入 400 / 413 并返回 false
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}

// bindQuery 绑定并校验查询参数
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}

func writeBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10001, "请求体过大")
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", err.Error())
}

// handleError 统一把业务错误映射为 HTTP 响应，文案原样透出
func handleError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidCredentials) {
		response.Unauthorized(c, 11001, apperrors.MessageOf(err))
		return
	}

	msg := apperrors.MessageOf(err)
	switch apperrors.CodeOf(err) {
	case apperrors.CodeBadRequest:
		response.BadRequest(c, 10001, msg)
	case apperrors.CodeUnauthenticated:
		response.Unauthorized(c, 10002, msg)
	case apperrors.CodeForbidden:
		response.Forbidden(c, 10003, msg)
	case apperrors.CodeNotFound:
		response.NotFound(c, 10004, msg)
	case apperrors.CodeConflict:
		response.Conflict(c, 10005, msg)
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, 50000, msg)
	}
}
