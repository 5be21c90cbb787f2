package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dkrysak/chemviz/internal/application"
	appanalysis "github.com/dkrysak/chemviz/internal/application/analysis"
	appusers "github.com/dkrysak/chemviz/internal/application/users"
	"github.com/dkrysak/chemviz/internal/config"
	domanalysis "github.com/dkrysak/chemviz/internal/domain/analysis"
	aiclient "github.com/dkrysak/chemviz/internal/infra/ai/openai"
	"github.com/dkrysak/chemviz/internal/infra/db/sqlstore"
	"github.com/dkrysak/chemviz/internal/infra/httpserver"
	"github.com/dkrysak/chemviz/internal/infra/storage"
	"github.com/dkrysak/chemviz/internal/middleware"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalw("config load error", "err", err)
	}

	ctx := context.Background()

	db, err := sqlstore.Connect(ctx, cfg.Database.Driver, cfg.DSN())
	if err != nil {
		log.Fatalw("database connect error", "err", err)
	}
	defer db.Close()

	usersSvc := &appusers.Service{
		Users:  sqlstore.NewUserRepository(db),
		Tokens: sqlstore.NewTokenRepository(db),
		Clock:  application.SystemClock{},
		Log:    log,
	}

	var archive domanalysis.ReportArchive
	if cfg.Minio.Enabled {
		store, err := storage.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalw("minio init error", "err", err)
		}
		archive = store
	}

	var insights domanalysis.InsightGenerator
	if cfg.OpenAI.APIKey != "" {
		insights = aiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}

	analysisSvc := &appanalysis.Service{
		Repo:     sqlstore.NewRecordRepository(db),
		Archive:  archive,
		Insights: insights,
		Log:      log,
	}

	handler := httpserver.NewRouter(analysisSvc, usersSvc, log, httpserver.Options{
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		RateLimitCapacity: cfg.RateLimit.Capacity,
		RateLimitRefill:   cfg.RateLimit.RefillRate,
		HealthCheckers: map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: db},
		},
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server error", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Errorw("shutdown error", "err", err)
	}
}
