package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// OpenPool connects to Postgres and verifies the connection.
func OpenPool(ctx context.Context, dsn string, development bool, logger zerolog.Logger) (*pgxpool.Pool, error) {
	dsn = tuneDSN(dsn, development)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB connection string: %w", err)
	}
	poolCfg.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	logger.Info().Str("host", poolCfg.ConnConfig.Host).Msg("Database connection successful")
	return pool, nil
}

// tuneDSN disables SSL for local development and switches to the simple
// query protocol elsewhere so transaction poolers such as pgbouncer work.
func tuneDSN(dsn string, development bool) string {
	url := strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
	add := func(param string) {
		switch {
		case !url:
			dsn += " " + param
		case strings.Contains(dsn, "?"):
			dsn += "&" + param
		default:
			dsn += "?" + param
		}
	}
	if development && !strings.Contains(dsn, "sslmode") {
		add("sslmode=disable")
	}
	if !development && !strings.Contains(dsn, "default_query_exec_mode") {
		add("default_query_exec_mode=simple_protocol")
	}
	return dsn
}
