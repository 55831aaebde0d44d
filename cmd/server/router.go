package main

import (
	"html/template"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ZanzyTHEbar/emotion-detector/docs"
	"github.com/ZanzyTHEbar/emotion-detector/internal/errors"
	"github.com/ZanzyTHEbar/emotion-detector/internal/frontend"
	"github.com/ZanzyTHEbar/emotion-detector/internal/monitoring"
	"github.com/ZanzyTHEbar/emotion-detector/internal/security"
)

const version = "1.0.0"

// routerDeps holds everything the HTTP layer needs. All of it is built once
// in main and shared read-only by request handlers.
type routerDeps struct {
	analyzer      textAnalyzer
	upstream      statsProvider
	metrics       *monitoring.Metrics
	logger        *monitoring.Logger
	security      security.SecurityConfig
	indexTemplate *template.Template
}

func newRouter(deps routerDeps) *gin.Engine {
	r := gin.New()

	sm := security.NewSecurityMiddleware(deps.security)

	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(deps.metrics, deps.logger))
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())
	r.Use(sm.CORS())
	r.Use(sm.SecurityHeaders)
	r.Use(sm.LimitBody)

	r.GET("/", security.CSPMiddleware(), frontend.NewIndexHandler(deps.indexTemplate))
	r.GET("/info", infoHandler)

	detect := detectEmotionHandler(deps.analyzer)
	r.POST("/detect_emotion", detect)
	r.POST("/analyze", detect)

	r.GET("/health", healthHandler)
	r.GET("/metrics", metricsHandler(deps.metrics, deps.upstream))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
