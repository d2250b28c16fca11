package app

import (
	"language_gems_backend/internal/config"
	"language_gems_backend/internal/controller"
	"language_gems_backend/internal/middleware"
	"language_gems_backend/internal/model"
	"language_gems_backend/pkg/monitoring"
	"language_gems_backend/pkg/security"
	"language_gems_backend/pkg/tracing"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Controllers struct {
	Auth       *controller.AuthController
	Vocabulary *controller.VocabularyController
	Assignment *controller.AssignmentController
	Activity   *controller.ActivityController
	Analytics  *controller.AnalyticsController
	Health     *controller.HealthController
}

func NewRouter(cfg *config.Config, ctrls *Controllers) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(security.CORS(cfg.CORS.AllowedOrigins))
	r.Use(security.Secure())
	r.Use(monitoring.MetricsMiddleware())
	if cfg.Tracing.Enabled {
		r.Use(tracing.GinMiddleware())
	}
	if cfg.RateLimit.MaxRequests > 0 {
		r.Use(security.RateLimiter(cfg.RateLimit.MaxRequests,
			time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))
	}

	r.GET("/health", ctrls.Health.Check)
	r.GET("/metrics", monitoring.PrometheusHandler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", ctrls.Auth.Register)
			auth.POST("/login", ctrls.Auth.Login)
			auth.GET("/profile", middleware.AuthMiddleware(cfg), ctrls.Auth.Profile)
		}

		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(cfg))
		{
			vocab := authed.Group("/vocabulary")
			{
				vocab.GET("/items", ctrls.Vocabulary.ListItems)
				vocab.POST("/items", middleware.RoleMiddleware(model.Teacher, model.Admin), ctrls.Vocabulary.CreateItem)
				vocab.POST("/lists", middleware.RoleMiddleware(model.Teacher, model.Admin), ctrls.Vocabulary.CreateList)
				vocab.GET("/lists/:id", ctrls.Vocabulary.GetList)
			}

			assignments := authed.Group("/assignments")
			{
				assignments.POST("", middleware.RoleMiddleware(model.Teacher, model.Admin), ctrls.Assignment.Create)
				assignments.GET("", middleware.RoleMiddleware(model.Teacher, model.Admin), ctrls.Assignment.ListMine)
				assignments.GET("/:id", ctrls.Assignment.Get)

				assignments.POST("/:id/activities/:activityId/sessions", ctrls.Activity.SubmitSession)
				assignments.GET("/:id/activities/:activityId/completion", ctrls.Activity.GetCompletion)

				analytics := assignments.Group("/:id/analytics")
				analytics.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
				{
					analytics.GET("/overview", ctrls.Analytics.Overview)
					analytics.GET("/words", ctrls.Analytics.WordDifficulty)
					analytics.GET("/roster", ctrls.Analytics.Roster)
					analytics.POST("/roster/export", ctrls.Analytics.ExportRoster)
				}
			}

			authed.GET("/classes/:classId/assignments", ctrls.Assignment.ListByClass)
		}
	}

	return r
}
