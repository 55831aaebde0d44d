package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/emotion-detector/internal/adapters"
	"github.com/ZanzyTHEbar/emotion-detector/internal/config"
	"github.com/ZanzyTHEbar/emotion-detector/internal/emotion"
	"github.com/ZanzyTHEbar/emotion-detector/internal/errors"
	"github.com/ZanzyTHEbar/emotion-detector/internal/frontend"
	"github.com/ZanzyTHEbar/emotion-detector/internal/monitoring"
	"github.com/ZanzyTHEbar/emotion-detector/internal/security"
)

func main() {
	// JSON logs in release mode, colorized text otherwise
	var appLogger *monitoring.Logger
	if gin.Mode() == gin.ReleaseMode {
		appLogger = monitoring.NewLogger(os.Stdout, slog.LevelInfo)
	} else {
		appLogger = monitoring.NewDevLogger(os.Stdout, slog.LevelDebug)
	}
	slog.SetDefault(appLogger.Logger)

	cfg := config.Load(".env")

	templates, err := frontend.GetTemplatesFS()
	if err != nil {
		slog.Error("Failed to open embedded templates", "error", err)
		os.Exit(1)
	}
	indexTemplate, err := frontend.LoadIndexTemplate(templates)
	if err != nil {
		slog.Error("Failed to load landing page template", "error", err)
		os.Exit(1)
	}

	appMetrics := monitoring.NewMetrics()
	watson := adapters.NewWatsonAdapter(cfg)
	gateway := emotion.NewService(watson, watson.Endpoint(), appLogger, appMetrics)

	securityConfig := security.DefaultSecurityConfig()
	securityConfig.MaxBodyBytes = cfg.MaxBodyBytes

	r := newRouter(routerDeps{
		analyzer:      gateway,
		upstream:      watson,
		metrics:       appMetrics,
		logger:        appLogger,
		security:      securityConfig,
		indexTemplate: indexTemplate,
	})

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port, "endpoint", watson.Endpoint(), "timeout", cfg.Timeout)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	// Long enough for an in-flight upstream call to finish
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	errors.SafeClose(watson, "watson adapter")
	slog.Info("Server exited")
}
