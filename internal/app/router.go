package app

import (
	"course_enrich_backend/docs"
	"course_enrich_backend/internal/config"
	"course_enrich_backend/internal/middleware"
	"course_enrich_backend/internal/util"
	"course_enrich_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共只读路由（内容平台渲染路径调用，无需令牌）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/lessons/:id/meta", c.enrichment.GetLessonMeta)
		public.GET("/lessons/:id/chapters", c.enrichment.GetLessonChapters)
		public.GET("/courses/:id/duration", c.enrichment.GetCourseDuration)
	}

	// 2. 管理路由（运营后台，服务令牌 + admin角色）
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(util.RoleAdmin))
	{
		admin.POST("/courses", c.admin.CreateCourse)
		admin.POST("/courses/:id/sections", c.admin.CreateSection)
		admin.POST("/courses/:id/recalculate", c.admin.RecalculateCourse)
		admin.POST("/sections/:id/lessons", c.admin.CreateLesson)
		admin.PUT("/lessons/:id", c.admin.UpdateLesson)
		admin.POST("/lessons/:id/publish", c.admin.PublishLesson)
	}
}
