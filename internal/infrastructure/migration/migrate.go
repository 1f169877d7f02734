package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator applies schema migrations using golang-migrate
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// New creates a Migrator over an open database connection
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"postgres",
		driver,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &Migrator{
		migrate: m,
		logger:  logger,
	}, nil
}

// Up applies all pending migrations
func (m *Migrator) Up() error {
	m.logger.Info("Running migrations up")

	err := m.migrate.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("No migrations to apply")
		return nil
	}

	version, dirty, err := m.migrate.Version()
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	m.logger.Info("Migrations completed",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Down rolls back all migrations
func (m *Migrator) Down() error {
	m.logger.Info("Running migrations down")

	err := m.migrate.Down()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("No migrations to roll back")
		return nil
	}

	m.logger.Info("All migrations rolled back")
	return nil
}

// Steps applies n migrations (positive = up, negative = down)
func (m *Migrator) Steps(n int) error {
	m.logger.Info("Running migration steps", zap.Int("steps", n))

	err := m.migrate.Steps(n)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration steps failed: %w", err)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("No migrations to apply")
		return nil
	}

	version, dirty, err := m.migrate.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	m.logger.Info("Migration steps completed",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Version returns the current migration version
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force sets the migration version without running migrations.
// Only for repairing a dirty database state.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing migration version", zap.Int("version", version))

	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}

	m.logger.Info("Migration version forced", zap.Int("version", version))
	return nil
}

// Close closes the migrator and releases resources
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}
	return nil
}
