package app

import (
	"deep_card_backend/docs"
	"deep_card_backend/internal/config"
	"deep_card_backend/internal/util"
	"deep_card_backend/pkg/monitoring"
	"path/filepath"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 游戏接口
	a.registerGameRoutes(router, c)

	// 2. 前端页面
	a.registerStaticRoutes(router, cfg)

	router.NoRoute(util.NotFound)
}

func (a *App) registerGameRoutes(router *gin.Engine, c *controllers) {
	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)
		api.POST("/start", c.game.Start)
		api.POST("/question", c.game.Question)
	}
}

func (a *App) registerStaticRoutes(router *gin.Engine, cfg *config.Config) {
	dir := cfg.Game.StaticDir
	if dir == "" {
		return
	}
	router.StaticFile("/", filepath.Join(dir, "index.html"))
	router.Static("/static", dir)
}
