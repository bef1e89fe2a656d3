package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

// RunMigrations applies the embedded documents and resume_scores migrations.
// A nil database is a no-op so in-memory deployments can call it unconditionally.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	if err := prepareGoose(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, database, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// CurrentVersion reports the latest applied migration version.
func CurrentVersion(database *sql.DB) (int64, error) {
	if database == nil {
		return 0, nil
	}
	if err := prepareGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(database)
}

func prepareGoose() error {
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return nil
}
