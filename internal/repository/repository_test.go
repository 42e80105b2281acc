package repository_test

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const migrationsGlob = "../migrations/*.up.sql"

// startPostgres runs a throwaway Postgres with every up migration applied in file name order.
func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	migrations, err := filepath.Glob(migrationsGlob)
	if err != nil {
		return nil, "", fmt.Errorf("filepath.Glob: %w", err)
	}
	if len(migrations) == 0 {
		return nil, "", fmt.Errorf("no migrations match %s", migrationsGlob)
	}

	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.WithDatabase("storefront_cart"),
		postgres.WithInitScripts(migrations...),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("postgresContainer.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}
