package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
)

// NewPool opens a pgx pool and pings it. traceLevel is a tracelog level name
// ("none", "error", "info", "debug", ...); "none" or "" disables tracing.
func NewPool(ctx context.Context, dsn, traceLevel string, logger *zap.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	if traceLevel != "" && traceLevel != "none" {
		level, err := tracelog.LogLevelFromString(traceLevel)
		if err != nil {
			return nil, fmt.Errorf("trace level: %w", err)
		}
		cfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   newZapTracer(logger),
			LogLevel: level,
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}
