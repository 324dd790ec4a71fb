package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/opsroster/scheduler/config"
	"github.com/opsroster/scheduler/internal/api/handler"
	"github.com/opsroster/scheduler/internal/api/middleware"
	"github.com/opsroster/scheduler/pkg/jwt"
	"github.com/opsroster/scheduler/pkg/redis"
)

// Setup builds and returns the Gin engine with every route wired.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxRequestBodyBytes))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, cfg.Server.RateLimit.LoginLimit, cfg.Server.RateLimit.LoginWindow))
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			members := authorized.Group("/members")
			{
				members.GET("", h.Member.List)
				members.POST("", middleware.RoleAuth("admin"), h.Member.Create)
				members.GET("/:id", h.Member.Get)
				members.PUT("/:id", middleware.RoleAuth("admin"), h.Member.Update)
				members.DELETE("/:id", middleware.RoleAuth("admin"), h.Member.Deactivate)
				members.GET("/:id/unavailable-periods", h.Unavailability.ListByMember)
				members.GET("/:id/fairness", h.Fairness.ListByMember)
			}

			unavailablePeriods := authorized.Group("/unavailable-periods")
			{
				unavailablePeriods.POST("", h.Unavailability.Create)
				unavailablePeriods.DELETE("/:id", h.Unavailability.Delete)
			}

			schedules := authorized.Group("/schedules")
			{
				schedules.POST("", middleware.RoleAuth("admin"), h.Schedule.Generate)
				schedules.GET("", h.Schedule.List)
				schedules.GET("/:id", h.Schedule.Get)
				schedules.GET("/:id/audit-log", h.Schedule.AuditLog)
				schedules.POST("/:id/publish", middleware.RoleAuth("admin"), h.Schedule.Publish)
				schedules.POST("/:id/archive", middleware.RoleAuth("admin"), h.Schedule.Archive)
			}

			swaps := authorized.Group("/swaps")
			{
				swaps.POST("", h.Swap.Create)
				swaps.GET("", middleware.RoleAuth("admin"), h.Swap.ListPending)
				swaps.POST("/:id/peer-decision", h.Swap.DecideAsPeer)
				swaps.POST("/:id/admin-decision", middleware.RoleAuth("admin"), h.Swap.DecideAsAdmin)
			}

			fairness := authorized.Group("/fairness")
			{
				fairness.POST("/recompute", middleware.RoleAuth("admin"), h.Fairness.Recompute)
			}

			export := authorized.Group("/export")
			{
				export.GET("/schedules/:id.xlsx", middleware.RoleAuth("admin"), h.Export.ExportExcel)
				export.GET("/schedules/:id.csv", middleware.RoleAuth("admin"), h.Export.ExportCSV)
				export.GET("/members/:id/calendar", h.Export.ExportMemberCalendar)
			}
		}
	}

	return r
}
