package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"funding-application-api/config"
	"funding-application-api/middleware"
	"funding-application-api/models"
	"funding-application-api/monitor"
	"funding-application-api/routes"
	"funding-application-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ ", err)
	}

	logger, logFile := config.InitLogging(cfg.Log)
	defer func() {
		_ = logger.Sync()
		if logFile != nil {
			_ = logFile.Close()
		}
	}()

	db, err := config.OpenDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := config.CloseDB(db); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(&models.User{}, &models.ApplicationSection{}, &models.ApplicationSubmission{}); err != nil {
			logger.Fatal("auto migration failed", zap.Error(err))
		}
		logger.Info("database schema migrated")
	}

	users := services.NewUserService(db)
	storeOpts := []services.StoreOption{}
	mailer := config.NewMailer(cfg.SMTP)
	if mailer.Configured() {
		storeOpts = append(storeOpts, services.WithNotifier(
			services.NewMailNotifier(users, mailer, cfg.AppBaseURL, logger.Named("mail")),
		))
	} else {
		logger.Info("smtp not configured, submission emails disabled")
	}
	store := services.NewSectionStore(db, logger.Named("sections"), storeOpts...)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(logger.Named("http")))
	router.Use(gin.Recovery())
	router.Use(monitor.RequestMetrics())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware(cfg.AllowOrigins))

	routes.SetupRoutes(router, routes.Dependencies{
		Store:     store,
		Users:     users,
		JWTSecret: cfg.JWT.Secret,
		JWTExpire: cfg.JWT.ExpireHours,
		LogPath:   cfg.Log.File,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("🚀 server starting",
			zap.String("port", cfg.ServerPort),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("❌ failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
}
