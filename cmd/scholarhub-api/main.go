package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/scholarhub-api/api/swagger"
	"github.com/noah-isme/scholarhub-api/internal/handler"
	"github.com/noah-isme/scholarhub-api/internal/middleware"
	"github.com/noah-isme/scholarhub-api/internal/repository"
	"github.com/noah-isme/scholarhub-api/internal/service"
	"github.com/noah-isme/scholarhub-api/pkg/cache"
	"github.com/noah-isme/scholarhub-api/pkg/config"
	"github.com/noah-isme/scholarhub-api/pkg/database"
	"github.com/noah-isme/scholarhub-api/pkg/logger"
	"github.com/noah-isme/scholarhub-api/pkg/payment"
)

// @title ScholarHub API
// @version 1.0.0
// @description Scholarship listings, applications, reviews and platform analytics
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logr); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, "scholarhub:", logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Analytics.CacheTTL, logr, cfg.Analytics.CacheEnabled)

	userRepo := repository.NewUserRepository(db)
	scholarshipRepo := repository.NewScholarshipRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	tokens := service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	}, validate)
	users := service.NewUserService(userRepo, auditRepo, validate, logr)
	scholarships := service.NewScholarshipService(scholarshipRepo, validate, logr)
	applications := service.NewApplicationService(applicationRepo, scholarshipRepo, auditRepo, validate, logr,
		service.WithApplicationCache(cacheSvc),
		service.WithApplicationMetrics(metrics),
	)
	reviews := service.NewReviewService(reviewRepo, scholarshipRepo, users, validate, logr)
	analytics := service.NewAnalyticsService(analyticsRepo, cacheSvc, cfg.Analytics.CacheTTL, metrics, logr)
	payments := service.NewPaymentService(newPaymentProvider(cfg.Payment, logr), cfg.Payment.Currency, metrics, logr)

	router := handler.NewRouter(handler.RouterConfig{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		TokenRate:      cfg.JWT.RatePerMinute,
		Logger:         logr,
		Metrics:        metrics,
		Gate:           middleware.NewGate(tokens, users, metrics),
		Health:         handler.NewHealthHandler(db, metrics, logr),
		Auth:           handler.NewAuthHandler(tokens),
		Users:          handler.NewUserHandler(users),
		Scholarships:   handler.NewScholarshipHandler(scholarships),
		Applications:   handler.NewApplicationHandler(applications),
		Reviews:        handler.NewReviewHandler(reviews),
		Analytics:      handler.NewAnalyticsHandler(analytics),
		Payments:       handler.NewPaymentHandler(payments),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newPaymentProvider(cfg config.PaymentConfig, logr *zap.Logger) payment.Provider {
	if cfg.StripeSecretKey == "" {
		logr.Warn("STRIPE_SECRET_KEY not set, using mock payment provider")
		return payment.NewMockProvider()
	}
	return payment.NewStripeProvider(payment.StripeConfig{
		SecretKey: cfg.StripeSecretKey,
		BaseURL:   cfg.StripeAPIURL,
		Timeout:   cfg.Timeout,
	}, logr)
}
