package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chinkunlim/Project-Synapse/config"
	"github.com/chinkunlim/Project-Synapse/internal/api/handler"
	"github.com/chinkunlim/Project-Synapse/internal/api/middleware"
	"github.com/chinkunlim/Project-Synapse/internal/service"
	"github.com/chinkunlim/Project-Synapse/pkg/jwt"
)

// 登录接口限流：每 IP 每分钟 10 次
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎；limiter 为 nil 时不限流
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, limiter middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	health := func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	}
	r.GET("/health", health)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.BodyLimit(cfg.Server.MaxUploadBytes()))
	{
		v1.GET("/health", health)

		// 认证模块（无需认证）
		v1.POST("/auth/login", middleware.RateLimit(limiter, loginRateLimit, loginRateWindow), h.Auth.Login)

		// 节次与预览（公开）
		v1.GET("/periods", h.Course.Periods)
		v1.POST("/schedules/preview", h.Course.Preview)

		// 学期模块（读公开）
		v1.GET("/semesters", h.Semester.ListSemesters)
		v1.GET("/semesters/:year/:term", h.Semester.GetSemester)

		// 日历同步状态
		v1.GET("/calendar/sync/status", h.Calendar.Status)

		// 课程查询
		v1.GET("/courses", h.Course.ListCourses)
		v1.GET("/courses/:id", h.Course.GetCourse)
		v1.GET("/courses/:id/blocks", h.Course.GetCourseBlocks)

		// 导出
		export := v1.Group("/export")
		{
			export.GET("/xlsx", h.Export.ExportXLSX)
			export.GET("/ics", h.Export.ExportICS)
		}

		// 管理员路由
		admin := v1.Group("")
		admin.Use(middleware.AdminOnly(jwtMgr, service.RoleAdmin)...)
		{
			admin.PUT("/semesters/:year/:term", h.Semester.UpsertSemester)
			admin.POST("/calendar/sync", h.Calendar.Sync)
			admin.POST("/courses/import", h.Import.ImportCourses)
			admin.DELETE("/courses/:id", h.Course.DeleteCourse)
		}
	}

	return r
}
