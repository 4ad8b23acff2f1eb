package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the plants and users tables. Idempotent.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS plants (
			id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			owner_username TEXT NOT NULL,
			is_public      BOOLEAN NOT NULL DEFAULT FALSE,
			doc            JSONB NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_plants_owner
			ON plants (owner_username);

		CREATE INDEX IF NOT EXISTS idx_plants_public
			ON plants (is_public) WHERE is_public;

		CREATE TABLE IF NOT EXISTS users (
			username   TEXT PRIMARY KEY,
			password   TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
