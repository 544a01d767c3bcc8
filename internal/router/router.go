package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"fm-configurator/internal/handlers"
	"fm-configurator/internal/logger"
	"fm-configurator/internal/middleware"
)

type Deps struct {
	Logger    *zap.Logger
	Transform *handlers.TransformHandler
	Generate  *handlers.GenerateHandler
	// Artifacts may be nil, in which case /uploads is not routed.
	Artifacts handlers.ArtifactServer
}

func New(d Deps) *gin.Engine {
	log := logger.OrNop(d.Logger)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))

	r.GET("/health", handlers.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.POST("/transform-gemini", d.Transform.Transform)
	api.POST("/generate-gemini", d.Generate.GenerateGemini)
	api.POST("/generate", d.Generate.Generate)

	if d.Artifacts != nil {
		r.GET("/uploads/:name", d.Artifacts.Serve)
		r.HEAD("/uploads/:name", d.Artifacts.Serve)
	}

	return r
}
