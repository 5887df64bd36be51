// Package dbtest starts throwaway containers for integration tests.
package dbtest

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nikolayk812/surplus/internal/db"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

const (
	postgresImage = "postgres:17-alpine"
	redisImage    = "redis:7-alpine"
)

// StartPostgres runs a Postgres container with the schema applied and returns its connection string.
func StartPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("surplus"),
		postgres.WithUsername("surplus"),
		postgres.WithPassword("surplus"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	if err := applySchema(ctx, connStr); err != nil {
		return container, "", fmt.Errorf("applySchema: %w", err)
	}

	return container, connStr, nil
}

func applySchema(ctx context.Context, connStr string) error {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return fmt.Errorf("pgx.Connect: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, db.Schema); err != nil {
		return fmt.Errorf("conn.Exec: %w", err)
	}

	return nil
}

// StartRedis runs a Redis container and returns its redis:// URL.
func StartRedis(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := tcredis.Run(ctx, redisImage)
	if err != nil {
		return nil, "", fmt.Errorf("redis.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx)
	if err != nil {
		return container, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	return container, connStr, nil
}
