// Package database owns the PostgreSQL connection pool and the statements the
// importer runs: the release lookup and the two inserts.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig holds pool sizing and timeouts.
type PoolConfig struct {
	MaxConns       int
	MinConns       int
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
}

type dbPool interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Manager manages the PostgreSQL connection pool.
type Manager struct {
	pool         dbPool
	queryTimeout time.Duration
}

type options struct {
	newPool func(ctx context.Context, cfg *pgxpool.Config) (dbPool, error)
}

// Option overrides Manager defaults, mostly for tests.
type Option func(*options)

// WithNewPool replaces the pool constructor.
func WithNewPool(fn func(ctx context.Context, cfg *pgxpool.Config) (dbPool, error)) Option {
	return func(o *options) {
		o.newPool = fn
	}
}

// Connect creates a pool for uri, applies cfg and pings the server.
func Connect(ctx context.Context, uri string, cfg PoolConfig, args ...Option) (*Manager, error) {
	opts := options{
		newPool: func(ctx context.Context, cfg *pgxpool.Config) (dbPool, error) {
			return pgxpool.NewWithConfig(ctx, cfg)
		},
	}
	for _, opt := range args {
		opt(&opts)
	}

	poolConfig, err := pgxpool.ParseConfig(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URI: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	poolConfig.MinConns = int32(cfg.MinConns)

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	queryTimeout := cfg.QueryTimeout
	if queryTimeout <= 0 {
		queryTimeout = 10 * time.Second
	}

	pool, err := opts.newPool(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create database connection pool: %w", err)
	}

	slog.Debug("Testing database connection", "host", poolConfig.ConnConfig.Host, "port", poolConfig.ConnConfig.Port)
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	slog.Info("connected to database",
		"host", poolConfig.ConnConfig.Host,
		"database", poolConfig.ConnConfig.Database,
		"user", poolConfig.ConnConfig.User,
	)
	return &Manager{pool: pool, queryTimeout: queryTimeout}, nil
}

// WithTx runs fn inside one transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
func (m *Manager) WithTx(ctx context.Context, fn func(Querier) error) error {
	if m.pool == nil {
		return errors.New("database not initialized")
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op once committed

	if err := fn(timedQueries{q: New(tx), timeout: m.queryTimeout}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the pool. It is safe to call more than once.
func (m *Manager) Close() {
	if m.pool == nil {
		return
	}
	m.pool.Close()
	m.pool = nil
}

// timedQueries bounds every statement with the configured query timeout.
type timedQueries struct {
	q       *Queries
	timeout time.Duration
}

func (t timedQueries) GetReleaseID(ctx context.Context, arg GetReleaseIDParams) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.q.GetReleaseID(ctx, arg)
}

func (t timedQueries) InsertTransmission(ctx context.Context, arg InsertTransmissionParams) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.q.InsertTransmission(ctx, arg)
}

func (t timedQueries) InsertPermission(ctx context.Context, arg InsertPermissionParams) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.q.InsertPermission(ctx, arg)
}
