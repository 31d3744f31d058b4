package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hr-admin/config"
	"hr-admin/internal/api/handler"
	"hr-admin/internal/api/middleware"
	"hr-admin/pkg/jwt"
	"hr-admin/pkg/response"
)

// Setup 初始化并返回 Gin 路由引擎
// db 仅用于健康检查，可为 nil
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, blacklist middleware.TokenBlacklist, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("请求处理发生 panic", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		response.InternalError(c)
		c.Abort()
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", healthCheck(db))

	// ── API v1 ──
	// 所有接口都经过 JWTAuth：无 Token 时以匿名身份进入，由 Service 层守卫
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, blacklist))
	{
		// 认证模块
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
			auth.POST("/logout", middleware.RoleAuth(), h.Auth.Logout)
			auth.GET("/me", h.Auth.GetCurrentUser)
			auth.PUT("/password", h.Auth.ChangePassword)
		}

		// 员工模块
		employees := v1.Group("/employees")
		{
			employees.POST("", h.Employee.CreateEmployee)
			employees.GET("", h.Employee.ListEmployees)
			employees.GET("/filter", h.Employee.FilterEmployees)
			employees.GET("/export", h.Export.ExportEmployees)
			employees.PUT("/:id", h.Employee.UpdateEmployee)
			employees.PUT("/:id/status", h.Employee.UpdateStatus)
		}

		// 部门模块
		departments := v1.Group("/departments")
		{
			departments.GET("", h.Department.ListDepartments)
			departments.POST("", h.Department.CreateDepartment)
			departments.PUT("/:id", h.Department.UpdateDepartment)
			departments.PUT("/:id/status", h.Department.UpdateStatus)
		}

		// 经理列表（不设角色守卫）
		v1.GET("/managers", h.Manager.ListManagers)
	}

	return r
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "db": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
