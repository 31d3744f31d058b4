package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hr-admin/pkg/response"
)

// BodyLimit 请求体大小限制，maxBytes 来自 server.body_limit
// 声明长度超限的请求直接 413；分块上传的超限由 Handler 绑定时识别 *http.MaxBytesError
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10001, "请求体过大")
			c.Abort()
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
