package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"hr-admin/internal/auth"
	"hr-admin/internal/model"
	"hr-admin/pkg/jwt"
	"hr-admin/pkg/response"
)

// gin.Context 中的身份相关键
const (
	ContextKeyIdentity = "identity"
	ContextKeyTokenJTI = "token_jti"
	ContextKeyTokenExp = "token_exp"
)

// TokenBlacklist 认证中间件只需查询 jti 是否已作废
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth JWT 认证中间件
//
// 未携带 Authorization 头的请求以匿名身份继续，由业务层决定是否拒绝；
// 携带了但无效（格式错误 / 过期 / 非 Access / 已拉黑）的一律 401。
func JWTAuth(jwtMgr *jwt.Manager, blacklist TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		if claims.TokenType != jwt.TokenTypeAccess {
			response.Unauthorized(c, 10002, "Token 类型无效")
			c.Abort()
			return
		}

		// Redis 不可用时降级放行
		if blacklist != nil {
			if revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID); err == nil && revoked {
				response.Unauthorized(c, 10002, "Token 已注销")
				c.Abort()
				return
			}
		}

		role := model.Role(claims.Role)
		if !role.Valid() {
			response.Unauthorized(c, 10002, "Token 角色无效")
			c.Abort()
			return
		}

		c.Set(ContextKeyIdentity, &auth.Identity{
			UserID:     claims.UserID,
			EmployeeID: claims.EmployeeID,
			Email:      claims.Email,
			Role:       role,
		})
		c.Set(ContextKeyTokenJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ContextKeyTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// RoleAuth 路由级角色守卫
// 未登录返回 401；allowed 为空时只要求已登录，否则角色须在 allowed 内
func RoleAuth(allowed ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := IdentityFrom(c)
		if id == nil {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		if len(allowed) > 0 {
			if err := auth.RequireRole(id, allowed...); err != nil {
				response.Forbidden(c, 10003, "无权限访问")
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// IdentityFrom 读取 JWTAuth 注入的身份，匿名请求返回 nil
func IdentityFrom(c *gin.Context) *auth.Identity {
	v, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return nil
	}
	id, _ := v.(*auth.Identity)
	return id
}

// TokenFrom 读取当前 Access Token 的 jti 与过期时间
func TokenFrom(c *gin.Context) (string, time.Time) {
	jti := c.GetString(ContextKeyTokenJTI)
	exp, _ := c.Get(ContextKeyTokenExp)
	t, _ := exp.(time.Time)
	return jti, t
}
