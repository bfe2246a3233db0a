// Package postgres wraps the pgx connection pool shared by the staging
// writer, the promotion engine and the validation service.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/congress-network/congressx/pkg/retry"
	"github.com/congress-network/congressx/pkg/utils"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Executor is satisfied by both *pgxpool.Pool and pgx.Tx, so store methods
// run unchanged inside or outside a transaction.
type Executor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Client wraps a PostgreSQL connection pool.
type Client struct {
	Logger *zap.Logger
	Pool   *pgxpool.Pool
}

// PoolConfig sizes the pool per component.
type PoolConfig struct {
	MinConns        int32
	MaxConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	Component       string
}

// GetPoolConfigForComponent returns deterministic pool settings per binary.
func GetPoolConfigForComponent(component string) *PoolConfig {
	var minConns, maxConns int32
	switch component {
	case "ingestor":
		minConns, maxConns = 2, 20
	case "valsvc":
		minConns, maxConns = 2, 10
	case "cli":
		minConns, maxConns = 1, 4
	default:
		minConns, maxConns = 2, 10
	}
	return &PoolConfig{
		MinConns:        minConns,
		MaxConns:        maxConns,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
		Component:       component,
	}
}

// New connects to the database named by DATABASE_URL (or the passed URL
// when non-empty), retrying with backoff until the server answers a ping.
func New(ctx context.Context, logger *zap.Logger, databaseURL string, poolConfig ...*PoolConfig) (Client, error) {
	connCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	client := Client{Logger: logger}

	if databaseURL == "" {
		databaseURL = utils.Env("DATABASE_URL", "")
	}
	if databaseURL == "" {
		return Client{}, fmt.Errorf("DATABASE_URL is required")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return Client{}, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}

	poolConf := PoolConfig{MinConns: 2, MaxConns: 10, ConnMaxLifetime: time.Hour, ConnMaxIdleTime: 30 * time.Minute, Component: "unknown"}
	if len(poolConfig) > 0 && poolConfig[0] != nil {
		poolConf = *poolConfig[0]
	}
	config.MinConns = poolConf.MinConns
	config.MaxConns = poolConf.MaxConns
	config.MaxConnLifetime = poolConf.ConnMaxLifetime
	config.MaxConnIdleTime = poolConf.ConnMaxIdleTime

	retryErr := retry.WithBackoff(connCtx, retry.DefaultConfig(), logger, "postgres_connection", func() error {
		pool, openErr := pgxpool.NewWithConfig(connCtx, config)
		if openErr != nil {
			return fmt.Errorf("failed to create connection pool: %w", openErr)
		}
		if pingErr := pool.Ping(connCtx); pingErr != nil {
			pool.Close()
			return fmt.Errorf("failed to ping postgres: %w", pingErr)
		}
		client.Pool = pool

		logger.Info("PostgreSQL connection pool configured",
			zap.String("component", poolConf.Component),
			zap.Int32("min_conns", poolConf.MinConns),
			zap.Int32("max_conns", poolConf.MaxConns))
		return nil
	})
	if retryErr != nil {
		return Client{}, retryErr
	}

	return client, nil
}

// Exec executes a query without returning rows.
func (c *Client) Exec(ctx context.Context, query string, args ...any) error {
	_, err := c.Pool.Exec(ctx, query, args...)
	return err
}

// Query executes a query that returns rows. Callers must close the rows.
func (c *Client) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return c.Pool.Query(ctx, query, args...)
}

// QueryRow executes a query expected to return at most one row.
func (c *Client) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return c.Pool.QueryRow(ctx, query, args...)
}

// Begin starts a transaction.
func (c *Client) Begin(ctx context.Context) (pgx.Tx, error) {
	return c.Pool.Begin(ctx)
}

// BeginFunc runs fn inside a transaction, rolling back on error.
func (c *Client) BeginFunc(ctx context.Context, fn func(pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, c.Pool, fn)
}

// Close closes the pool.
func (c *Client) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

type ctxKey string

const txKey ctxKey = "pgx_tx"

// WithTx embeds a transaction in the context so store methods running
// under GetExecutor join it automatically.
func (c *Client) WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// InTx reports whether the context carries a transaction.
func (c *Client) InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey).(pgx.Tx)
	return ok
}

// GetExecutor returns the context transaction when present, else the pool.
func (c *Client) GetExecutor(ctx context.Context) Executor {
	if tx, ok := ctx.Value(txKey).(pgx.Tx); ok {
		return tx
	}
	return c.Pool
}

// TableExists checks for a table in the given schema.
func (c *Client) TableExists(ctx context.Context, schema, table string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = $1
			AND table_name = $2
		)
	`
	var exists bool
	err := c.Pool.QueryRow(ctx, query, schema, table).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check if table exists %s.%s: %w", schema, table, err)
	}
	return exists, nil
}

// IsNoRows reports whether err is a pgx no-rows error.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
