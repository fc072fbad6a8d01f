package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate brings the certificates schema up to date by applying any pending
// goose migrations from dir. It uses its own short-lived database/sql
// connection; the pgx pool serving requests is opened separately.
func Migrate(ctx context.Context, databaseURL, dir string) error {
	conn, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer conn.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, conn, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
