package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"pilot-pulse/internal/config"
	"pilot-pulse/internal/db"
	apihttp "pilot-pulse/internal/http"
	"pilot-pulse/internal/repository"
	"pilot-pulse/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Sin DATABASE_URL el servicio corre solo con el store en memoria.
	var primary repository.PulseRepository
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()

		ctxSchema, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := db.EnsureSchema(ctxSchema, pool); err != nil {
			logger.Warn("pulse schema bootstrap failed", zap.Error(err))
		}
		cancel()
		primary = repository.NewPgPulseRepository(pool)
	} else {
		logger.Warn("database not configured, using in-memory store")
	}
	pulseRepo := repository.NewFallbackPulseRepository(logger, primary, repository.NewMemoryPulseRepository())

	var (
		trendCache  service.TrendCache
		limiter     service.SubmissionRateLimiter
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			trendCache = service.NewRedisTrendCache(redisClient, cfg.TrendCacheTTL)
			limiter = service.NewRedisSubmissionRateLimiter(redisClient, cfg.SubmitRateWindow, cfg.SubmitRateMax)
		}
		cancel()
	}
	if trendCache == nil {
		trendCache = service.NewMemoryTrendCache(cfg.TrendCacheTTL)
	}
	if limiter == nil {
		limiter = service.NewSubmissionRateLimiter(cfg.SubmitRateWindow, cfg.SubmitRateMax)
	}

	var jwtSvc *service.JWTService
	if cfg.JWTSecret != "" {
		jwtSvc = service.NewJWTService(cfg.JWTSecret, cfg.JWTAccessTTL)
	} else {
		logger.Warn("jwt secret not configured, trends endpoint is public")
	}

	pulseSvc := service.NewPulseService(logger, pulseRepo, trendCache, limiter)
	pulseHandler := apihttp.NewPulseHandler(logger, pulseSvc)
	router := apihttp.NewRouter(logger, pulseHandler, jwtSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
