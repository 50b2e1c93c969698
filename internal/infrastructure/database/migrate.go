package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

const migrationsTable = "schema_migrations"

// MigrationConfig points at the numbered *.up.sql / *.down.sql files.
type MigrationConfig struct {
	MigrationsPath string
	MigrationsFS   fs.FS
}

// Migrator applies the embedded schema with golang-migrate.
type Migrator struct {
	config MigrationConfig
	pool   *pgxpool.Pool
}

func NewMigrator(config MigrationConfig, pool *pgxpool.Pool) *Migrator {
	if config.MigrationsPath == "" {
		config.MigrationsPath = "."
	}
	return &Migrator{
		config: config,
		pool:   pool,
	}
}

// Up applies every pending migration. Already up to date is not an error.
func (m *Migrator) Up(ctx context.Context) error {
	migrator, err := m.createMigrator()
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := versionOf(migrator)
	if err != nil {
		return err
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("[DATABASE] Migrations applied")
	return nil
}

// Down rolls back every migration.
func (m *Migrator) Down(ctx context.Context) error {
	migrator, err := m.createMigrator()
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer migrator.Close()

	if err := migrator.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to rollback migrations: %w", err)
	}

	log.Info().Msg("[DATABASE] Migrations rolled back")
	return nil
}

// Version reports the applied schema version; 0 when nothing is applied.
func (m *Migrator) Version(ctx context.Context) (uint, bool, error) {
	migrator, err := m.createMigrator()
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrator: %w", err)
	}
	defer migrator.Close()

	return versionOf(migrator)
}

func versionOf(migrator *migrate.Migrate) (uint, bool, error) {
	version, dirty, err := migrator.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

func (m *Migrator) sourceDriver() (source.Driver, error) {
	if m.config.MigrationsFS == nil {
		return nil, fmt.Errorf("migrations filesystem is not set")
	}
	src, err := iofs.New(m.config.MigrationsFS, m.config.MigrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}
	return src, nil
}

func (m *Migrator) createMigrator() (*migrate.Migrate, error) {
	if m.pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	src, err := m.sourceDriver()
	if err != nil {
		return nil, err
	}

	// idle connections stay in the pgx pool
	db := stdlib.OpenDBFromPool(m.pool)

	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: migrationsTable,
	})
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	migrator.LockTimeout = 30 * time.Second

	return migrator, nil
}
