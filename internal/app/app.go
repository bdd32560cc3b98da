package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rescuelink/api/internal/config"
	"github.com/rescuelink/api/internal/db"
	"github.com/rescuelink/api/internal/middleware"
	"github.com/rescuelink/api/internal/repository"
	"github.com/rescuelink/api/internal/service"
	"github.com/rescuelink/api/internal/storage"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	Redis             *redis.Client
	AuthLimiter       middleware.Limiter
	AuthService       *service.AuthService
	UserService       *service.UserService
	RescueCaseService *service.RescueCaseService
	DonationService   *service.DonationService
	ImageService      *service.ImageService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a := &App{Cfg: cfg, DB: database}

	// Rate limit counters
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		a.Redis = redis.NewClient(opts)
		a.AuthLimiter = middleware.NewRedisLimiter(a.Redis, "ratelimit:auth", cfg.AuthRateLimit, cfg.AuthRateWindow)
	} else {
		memory := middleware.NewMemoryLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
		go memory.Run(ctx)
		a.AuthLimiter = memory
	}

	// Storage
	imageStorage, err := storage.New(ctx, cfg)
	switch {
	case errors.Is(err, storage.ErrDisabled):
		slog.Info("S3_BUCKET not set, case image uploads disabled")
	case err != nil:
		_ = a.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	rescueCaseRepository := repository.NewRescueCaseRepository(database)
	donationRepository := repository.NewDonationRepository(database)

	// Services
	a.AuthService = service.NewAuthService(userRepository, cfg.JWTSecret, cfg.JWTExpiry)
	a.UserService = service.NewUserService(userRepository)
	a.RescueCaseService = service.NewRescueCaseService(rescueCaseRepository)
	a.DonationService = service.NewDonationService(donationRepository)
	a.ImageService = service.NewImageService(imageStorage)

	return a, nil
}

// HealthChecks lists the dependencies /healthz probes.
func (a *App) HealthChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{
		"database": a.DB.PingContext,
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		}
	}
	return checks
}

func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	errs = append(errs, db.Close(a.DB))
	return errors.Join(errs...)
}
