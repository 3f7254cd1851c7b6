package setup

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-cashback-service/internal/config"
	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config    *config.CashbackConfig
	Logger    *slog.Logger
	DB        *gorm.DB
	Store     *repository.Store
	Publisher *kafka.DefaultKafkaPublisher
	Redis     *redis.Client
	Limiter   domain.ContributionLimiter
	Metrics   *metrics.ConsensusMetrics
}

// InitializeDependencies opens the store and, when configured, the event
// publisher and the shared rate limiter. reg may be nil for the default
// prometheus registerer.
func InitializeDependencies(cfg *config.CashbackConfig, logger *slog.Logger, reg prometheus.Registerer) (*Dependencies, error) {
	db, err := postgres.InitDB(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	consensusMetrics := metrics.NewConsensusMetrics(reg)
	store := repository.NewStore(db,
		repository.WithMaxRetries(cfg.Database.MaxTxRetries),
		repository.WithLogger(logger),
		repository.WithConflictObserver(consensusMetrics.RecordTxConflict),
	)

	deps := &Dependencies{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Store:   store,
		Metrics: consensusMetrics,
	}

	if cfg.KafkaService.Enabled {
		deps.Publisher, err = kafka.NewDefaultKafkaPublisher(cfg.KafkaService)
		if err != nil {
			return nil, fmt.Errorf("event publisher: %w", err)
		}
	}

	if cfg.Redis.Addr != "" {
		deps.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		deps.Limiter = ratelimit.NewRedisLimiter(deps.Redis, cfg.RateLimits.Window, logger)
	} else {
		deps.Limiter = ratelimit.NewInMemoryLimiter(cfg.RateLimits.Window)
	}

	return deps, nil
}

// Close releases every connection the dependencies opened.
func (d *Dependencies) Close() error {
	var errs []error
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if sqlDB, err := d.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close dependencies: %w", errors.Join(errs...))
	}
	return nil
}
