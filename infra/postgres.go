package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const MAX_CONNECTIONS = 20

type PgConfig struct {
	Hostname string
	Port     string
	User     string
	Password string
	Database string
	SslMode  string
}

func (c PgConfig) ConnectionString() string {
	sslMode := c.SslMode
	if sslMode == "" {
		sslMode = "prefer"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s database=%s sslmode=%s",
		c.Hostname, c.Port, c.User, c.Password, c.Database, sslMode)
}

func NewPostgresConnectionPool(ctx context.Context, conf PgConfig) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(conf.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	cfg.MaxConns = MAX_CONNECTIONS

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return pool, nil
}
