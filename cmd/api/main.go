package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/member-matcher/app/config"
	"github.com/member-matcher/app/controllers"
	"github.com/member-matcher/app/services"
	"github.com/member-matcher/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	if cfg.App.Env == "development" {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("starting member matcher service",
		zap.String("env", cfg.App.Env),
		zap.String("region", cfg.Region.Name))

	analysisService := services.NewAnalysisService(cfg, logger)
	retentionService := services.NewRetentionService(analysisService, cfg.Analysis, logger)
	analysisController := controllers.NewAnalysisController(analysisService, retentionService, logger)

	if cfg.App.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.SetupAllRoutes(router, analysisController)

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	go func() {
		logger.Info("http server listening", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown incomplete", zap.Error(err))
	}
	logger.Info("server exited")
}
