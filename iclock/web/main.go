package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"axiapac.com/adms/iclock/bootstrap"
	"axiapac.com/adms/iclock/core"
	"axiapac.com/adms/iclock/web/handlers/device"
	"axiapac.com/adms/iclock/web/handlers/hooks"
	"axiapac.com/adms/iclock/web/handlers/machines"
	"axiapac.com/adms/iclock/web/handlers/users"
	"axiapac.com/adms/iclock/webhook"
	"axiapac.com/adms/infrastructure/filesystem"
	"axiapac.com/adms/security"
	"axiapac.com/adms/web/middlewares"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", os.Getenv("ADMS_CONFIG"), "optional YAML config file")
	flag.Parse()

	cfg, logger, err := bootstrap.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	canonical, err := cfg.Location()
	if err != nil {
		logger.Fatal("invalid canonical timezone", zap.Error(err))
	}

	s, dm, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer dm.Close()

	if err := s.Migrate(ctx); err != nil {
		logger.Fatal("failed to migrate", zap.Error(err))
	}

	dispatcher := webhook.NewDispatcher(s, webhook.Config{
		Timeout:     cfg.Webhook.Timeout,
		Concurrency: cfg.Webhook.Concurrency,
	}, bootstrap.Notifier(ctx, cfg, logger), logger.Named("webhook"))
	defer dispatcher.Close()

	if cfg.Webhook.BackfillOnStart {
		if _, err := dispatcher.Backfill(ctx); err != nil {
			logger.Error("backfill failed", zap.Error(err))
		}
	}

	registry := core.NewRegistry(s, cfg.Device.DefaultTimezone, logger.Named("registry"))
	pipeline := core.NewPipeline(s, core.PipelineConfig{
		DefaultTimezone: cfg.Device.DefaultTimezone,
		Canonical:       canonical,
	}, dispatcher, logger.Named("ingest"))

	var archiver device.Archiver
	if cfg.Archive.Bucket != "" {
		archive, err := filesystem.NewS3Archive(ctx, cfg.Archive.Bucket, cfg.Archive.Prefix)
		if err != nil {
			logger.Fatal("failed to configure archive", zap.Error(err))
		}
		archiver = archive
		logger.Info("archiving pushes", zap.String("bucket", cfg.Archive.Bucket))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middlewares.Logger(logger.Named("http")), gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	device.Register(r, device.Options{
		Registry: registry,
		Pipeline: pipeline,
		Archiver: archiver,
		Log:      logger.Named("device"),
	})

	if cfg.Security.SigningSecret != "" {
		jwtSecret, err := security.DecodeSecret(cfg.Security.SigningSecret)
		if err != nil {
			logger.Fatal("failed to decode JWT secret", zap.Error(err))
		}

		protected := r.Group("/api")
		protected.Use(middlewares.Authentication(jwtSecret))
		{
			hooks.Register(protected, s, logger.Named("admin"))
			machines.Register(protected, s, logger.Named("admin"))
			users.Register(protected, s, logger.Named("admin"))
		}
	} else {
		logger.Warn("ADMS_SIGNING_SECRET not set, admin API disabled")
	}

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()
	logger.Info("gateway started",
		zap.String("addr", cfg.HTTP.Addr),
		zap.Int("defaultTimezone", cfg.Device.DefaultTimezone),
		zap.String("canonicalTimezone", canonical.String()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("gateway is shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	// in-flight pushes finish their commits before deliveries are abandoned
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	dispatcher.Close()

	logger.Info("gateway exited")
}
