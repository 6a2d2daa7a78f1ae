package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"noah/backend/config"
	"noah/backend/internal/api/handler"
	"noah/backend/internal/api/middleware"
	"noah/backend/internal/model"
	"noah/backend/pkg/jwt"
	"noah/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
//
// 权限分层：
//   - admin（平台管理员）：公司 CRUD、跨公司用户管理
//   - company（公司账号）：租户内客户/团队/预约/打卡记录管理与导出
//   - professional（保洁员）：我的预约、签到/签退、当前状态、我的历史
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	// 照片以 base64 内嵌提交，请求体上限按解码上限的 4/3 加余量
	r.Use(middleware.BodyLimit(cfg.Upload.MaxPhotoBytes*3/2 + 1<<20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", middleware.RateLimit(rdb, 20, time.Minute), h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.POST("/auth/password", h.Auth.ChangePassword)

			// 公司（租户）模块 — 仅平台管理员
			companies := authorized.Group("/companies", middleware.RoleAuth(model.RoleAdmin))
			{
				companies.POST("", h.Company.Create)
				companies.GET("", h.Company.List)
				companies.GET("/:id", h.Company.Get)
				companies.PUT("/:id", h.Company.Update)
				companies.DELETE("/:id", h.Company.Delete)
			}

			// 用户模块 — 平台管理员或公司账号（Service 层做租户裁剪）
			users := authorized.Group("/users", middleware.RoleAuth(model.RoleAdmin, model.RoleCompany))
			{
				users.POST("", h.User.Create)
				users.GET("", h.User.List)
				users.GET("/:id", h.User.Get)
				users.PUT("/:id", h.User.Update)
				users.DELETE("/:id", h.User.Delete)
				users.POST("/:id/reset-password", h.User.ResetPassword)
			}

			// 以下均为租户内资源
			tenant := authorized.Group("", middleware.TenantRequired())
			{
				// 客户模块 — 公司账号
				customers := tenant.Group("/customers", middleware.RoleAuth(model.RoleCompany))
				{
					customers.POST("", h.Customer.Create)
					customers.GET("", h.Customer.List)
					customers.GET("/:id", h.Customer.Get)
					customers.PUT("/:id", h.Customer.Update)
					customers.DELETE("/:id", h.Customer.Delete)
				}

				// 团队模块 — 公司账号
				teams := tenant.Group("/teams", middleware.RoleAuth(model.RoleCompany))
				{
					teams.POST("", h.Team.Create)
					teams.GET("", h.Team.List)
					teams.GET("/:id", h.Team.Get)
					teams.PUT("/:id", h.Team.Update)
					teams.PUT("/:id/members", h.Team.SetMembers)
					teams.DELETE("/:id", h.Team.Delete)
				}

				// 预约模块
				appointments := tenant.Group("/appointments")
				{
					appointments.GET("/my", middleware.RoleAuth(model.RoleProfessional), h.Appointment.ListMy)

					companyOnly := middleware.RoleAuth(model.RoleCompany)
					appointments.POST("", companyOnly, h.Appointment.Create)
					appointments.POST("/import", companyOnly, h.Appointment.Import)
					appointments.GET("", companyOnly, h.Appointment.List)
					appointments.GET("/:id", companyOnly, h.Appointment.Get)
					appointments.PUT("/:id", companyOnly, h.Appointment.Update)
					appointments.POST("/:id/cancel", companyOnly, h.Appointment.Cancel)
					appointments.DELETE("/:id", companyOnly, h.Appointment.Delete)
				}

				// 打卡记录模块
				checkRecords := tenant.Group("/check-records")
				{
					professionalOnly := middleware.RoleAuth(model.RoleProfessional)
					checkRecords.POST("/check-in", professionalOnly, h.Check.CheckIn)
					checkRecords.POST("/:id/check-out", professionalOnly, h.Check.CheckOut)
					checkRecords.GET("/current", professionalOnly, h.Check.GetCurrent)
					checkRecords.GET("/my", professionalOnly, h.Check.ListMy)

					// 照片对公司与保洁员都可见
					checkRecords.GET("/photos/:hash", h.Check.GetPhoto)

					companyOnly := middleware.RoleAuth(model.RoleCompany)
					checkRecords.POST("", companyOnly, h.Check.Create)
					checkRecords.GET("", companyOnly, h.Check.List)
					checkRecords.GET("/:id", companyOnly, h.Check.Get)
					checkRecords.PUT("/:id", companyOnly, h.Check.Update)
					checkRecords.POST("/:id/cancel", companyOnly, h.Check.Cancel)
					checkRecords.DELETE("/:id", companyOnly, h.Check.Delete)
				}

				// 导出模块 — 公司账号
				export := tenant.Group("/export", middleware.RoleAuth(model.RoleCompany))
				{
					export.GET("/check-records", h.Export.ExportCheckRecords)
				}
			}
		}
	}

	return r
}
