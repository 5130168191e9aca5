package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"anoa.com/municipalservices/internal/bootstrap"
	"anoa.com/municipalservices/internal/config"
	"anoa.com/municipalservices/internal/middleware"
	"anoa.com/municipalservices/internal/server"
	"anoa.com/municipalservices/pkg/database"
	"anoa.com/municipalservices/pkg/logger"
	"anoa.com/municipalservices/pkg/token"
	"anoa.com/municipalservices/pkg/validator"
	"github.com/meilisearch/meilisearch-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tokenIssuer = "municipal-services"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(logger.Options{
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	if err := validator.RegisterCustomValidations(); err != nil {
		zl.Fatal("failed to register validations", zap.Error(err))
	}

	db, err := database.Connect(database.Options{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
		LogQueries:      cfg.IsDevelopment() && cfg.LogLevel == "debug",
	})
	if err != nil {
		zl.Fatal("failed to connect database", zap.Error(err))
	}
	if err := prepareDatabase(db, cfg, zl); err != nil {
		zl.Fatal("failed to prepare database", zap.Error(err))
	}

	redisClient := connectRedis(cfg.RedisURL, zl)
	if redisClient != nil {
		defer redisClient.Close()
	}

	maker, err := token.NewJWTMaker(cfg.JWTSecret, tokenIssuer)
	if err != nil {
		zl.Fatal("failed to build token maker", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := server.NewServer(server.Deps{
		Config:   cfg,
		DB:       db,
		Redis:    redisClient,
		Search:   connectSearch(cfg.MeiliSearchHost, cfg.MeiliMasterKey, zl),
		Maker:    maker,
		Gatherer: registry,
		Metrics:  middleware.NewMetrics(registry),
		Log:      zl,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zl.Info("server listening", zap.String("addr", httpServer.Addr), zap.String("env", cfg.AppEnv))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server exited with error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutdown signal received, stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func prepareDatabase(db *gorm.DB, cfg *config.Config, zl *zap.Logger) error {
	if err := bootstrap.Migrate(db); err != nil {
		return err
	}
	if err := bootstrap.SeedBuildingTypes(db); err != nil {
		return err
	}
	if err := bootstrap.SeedDepartments(db); err != nil {
		return err
	}
	return bootstrap.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword, zl)
}

// connectRedis returns nil when REDIS_URL is unset or unreachable; the server
// then runs without lockout and live notifications.
func connectRedis(url string, zl *zap.Logger) *redis.Client {
	if url == "" {
		zl.Warn("REDIS_URL not set, login lockout and live notifications disabled")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		zl.Warn("invalid REDIS_URL, continuing without redis", zap.Error(err))
		return nil
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zl.Warn("redis unreachable, continuing without redis", zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}

func connectSearch(host, key string, zl *zap.Logger) meilisearch.ServiceManager {
	if host == "" {
		zl.Info("MEILISEARCH_HOST not set, citizen search uses the database")
		return nil
	}
	if !strings.HasPrefix(host, "http") {
		host = "http://" + host + ":7700"
	}
	return meilisearch.New(host, meilisearch.WithAPIKey(key))
}
