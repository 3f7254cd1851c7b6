package migrate

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
)

// RunMigrations applies every pending migration under migrationPath.
// Only postgres is migrated this way; sqlite stores are built from the models.
func RunMigrations(db *gorm.DB, migrationPath string, logger *slog.Logger) error {
	m, err := newMigrator(db, migrationPath)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("schema is up to date")
			return nil
		}
		return fmt.Errorf("applying migrations: %w", err)
	}
	return logVersion(m, logger, "migrations applied")
}

// RollbackMigrations reverts the last steps migrations.
func RollbackMigrations(db *gorm.DB, migrationPath string, steps int, logger *slog.Logger) error {
	if steps <= 0 {
		return fmt.Errorf("rollback steps must be positive, got %d", steps)
	}
	m, err := newMigrator(db, migrationPath)
	if err != nil {
		return err
	}

	if err := m.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("nothing to roll back")
			return nil
		}
		return fmt.Errorf("rolling back %d migrations: %w", steps, err)
	}
	return logVersion(m, logger, "migrations rolled back")
}

func newMigrator(db *gorm.DB, migrationPath string) (*migrate.Migrate, error) {
	if name := db.Dialector.Name(); name != "postgres" {
		return nil, fmt.Errorf("sql migrations need postgres, got %s", name)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("creating postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("creating migrate instance: %w", err)
	}
	return m, nil
}

func logVersion(m *migrate.Migrate, logger *slog.Logger, msg string) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		logger.Info(msg, "version", "none")
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	logger.Info(msg, "version", version, "dirty", dirty)
	return nil
}
