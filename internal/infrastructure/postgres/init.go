package postgres

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/LavaJover/shvark-cashback-service/internal/config"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/models"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// InitDB opens the configured store. SQLite databases get their schema from
// the gorm models; postgres schema comes from the SQL migrations.
func InitDB(cfg config.Database, logger *slog.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres, "":
		dialector = postgres.Open(cfg.Dsn)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.Dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("failed to enable tracing: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// one writer at a time; transactions queue on the pool
		sqlDB.SetMaxOpenConns(1)
		for _, model := range models.MigrateModels {
			logger.Debug("creating table", "model", fmt.Sprintf("%T", model))
			if err := db.AutoMigrate(model); err != nil {
				return nil, fmt.Errorf("failed to migrate %T: %w", model, err)
			}
		}
		for _, stmt := range models.PartialIndexes {
			if err := db.Exec(stmt).Error; err != nil {
				return nil, fmt.Errorf("failed to create index: %w", err)
			}
		}
	} else if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	logger.Info("database ready", "driver", db.Dialector.Name())
	return db, nil
}
