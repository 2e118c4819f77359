package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var (
	errDBPathIsEmpty = errors.New("database path is empty")
	errDBInit        = errors.New("database init error")
)

type Config struct {
	Url            string
	MigrationsPath string
	MaxConns       int32
}

func NewDatabase(ctx context.Context, cfg Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	if cfg.Url == "" {
		return nil, errDBPathIsEmpty
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errDBInit, err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errDBInit, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", errDBInit, err)
	}

	if err := RunMigrations(cfg.Url, cfg.MigrationsPath, logger); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// RunMigrations применяет все новые миграции, предварительно сбрасывая dirty версию
func RunMigrations(dbUrl, sourceUrl string, logger *zap.Logger) error {
	mg, err := newMigrate(dbUrl, sourceUrl)
	if err != nil {
		return err
	}
	defer mg.Close()

	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration version check: %w", err)
	}

	if dirty {
		logger.Warn("database is in dirty state, forcing version", zap.Uint("version", version))
		if err := mg.Force(int(version)); err != nil {
			return fmt.Errorf("force migration version: %w", err)
		}
	}

	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration run: %w", err)
	}

	logger.Debug("migration run ok")
	return nil
}

// RollbackMigrations откатывает steps миграций, все при steps равном нулю
func RollbackMigrations(dbUrl, sourceUrl string, steps int, logger *zap.Logger) error {
	mg, err := newMigrate(dbUrl, sourceUrl)
	if err != nil {
		return err
	}
	defer mg.Close()

	if steps > 0 {
		err = mg.Steps(-steps)
	} else {
		err = mg.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration rollback: %w", err)
	}

	logger.Info("migration rollback ok", zap.Int("steps", steps))
	return nil
}

func newMigrate(dbUrl, sourceUrl string) (*migrate.Migrate, error) {
	if dbUrl == "" {
		return nil, errDBPathIsEmpty
	}
	if sourceUrl == "" {
		sourceUrl = "file://migrations"
	}

	mg, err := migrate.New(sourceUrl, dbUrl)
	if err != nil {
		return nil, fmt.Errorf("migration init: %w", err)
	}
	return mg, nil
}
