// Package db opens the PostgreSQL connection and applies embedded goose
// migrations at startup.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/lexdraft/lexdraft/internal/server/migrations"
)

// Open connects to PostgreSQL using the pgx stdlib driver, verifies the
// connection and runs pending migrations.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := RunMigrations(ctx, conn); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return conn, nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, conn *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, conn, ".")
}
