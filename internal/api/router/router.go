package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/config"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/api/handler"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/api/middleware"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/model"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/pkg/jwt"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(2 << 20)) // 2MB，够容纳整份评估提交与 Excel 导入

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
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetCurrentUser)
				users.GET("", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.User.ListUsers)
				users.GET("/:id", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.User.GetUser)
				users.POST("", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.User.CreateUser)
				users.PUT("/:id", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.User.UpdateUser)
				users.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.User.DeleteUser)
				users.POST("/import", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.User.ImportUsers)
			}

			// 轨道模块
			tracks := authorized.Group("/tracks")
			{
				tracks.GET("", h.Track.ListTracks)
				tracks.GET("/:id", h.Track.GetTrack)
				tracks.POST("", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.Track.CreateTrack)
				tracks.PUT("/:id", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.Track.UpdateTrack)
				tracks.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Track.DeleteTrack)
			}

			// 支柱/标准/标签模块
			pillars := authorized.Group("/pillars")
			{
				pillars.GET("", h.Criteria.ListPillars)
				pillars.POST("", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.Criteria.CreatePillar)
				pillars.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.Criteria.DeletePillar)
			}
			criteria := authorized.Group("/criteria")
			{
				criteria.GET("", h.Criteria.ListCriteria)
				criteria.GET("/:id", h.Criteria.GetCriterion)
				criteria.POST("", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.Criteria.CreateCriterion)
				criteria.PUT("/:id", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.Criteria.UpdateCriterion)
				criteria.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.Criteria.DeleteCriterion)
			}
			tags := authorized.Group("/tags")
			{
				tags.GET("", h.Criteria.ListTags)
				tags.POST("", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.Criteria.CreateTag)
				tags.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.Criteria.DeleteTag)
			}

			// 标准-轨道草稿配置
			trackConfigs := authorized.Group("/track-configs")
			{
				trackConfigs.GET("/:trackId", h.Criteria.GetTrackConfigs)
				trackConfigs.PUT("", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.Criteria.UpdateTrackConfigs)
			}

			// 周期模块
			cycles := authorized.Group("/cycles")
			{
				cycles.GET("", h.Cycle.ListCycles)
				cycles.GET("/current", h.Cycle.GetCurrentCycle)
				cycles.GET("/:id", h.Cycle.GetCycle)
				cycles.POST("", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.Cycle.CreateCycle)
				cycles.PUT("/:id", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.Cycle.UpdateCycle)
				cycles.PUT("/:id/extend", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.Cycle.ExtendCycle)
				cycles.PUT("/:id/finalize", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.Cycle.FinalizeCycle)
				cycles.PUT("/:id/activate", middleware.RoleAuth(model.RoleAdmin, model.RoleRH), h.Cycle.ActivateCycle)
				cycles.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Cycle.CancelCycle)
			}

			// 评估模块
			evaluations := authorized.Group("/evaluations")
			{
				evaluations.POST("", h.Evaluation.Submit)
				evaluations.GET("/me", h.Evaluation.GetMine)
				evaluations.GET("", middleware.RoleAuth(model.RoleAdmin, model.RoleRH, model.RoleCommittee), h.Evaluation.ListByCycle)
				evaluations.GET("/:id", middleware.RoleAuth(model.RoleAdmin, model.RoleRH, model.RoleCommittee), h.Evaluation.GetEvaluation)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/evaluations", middleware.RoleAuth(model.RoleAdmin, model.RoleRH, model.RoleCommittee), h.Export.ExportEvaluations)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
