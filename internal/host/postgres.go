package host

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// advisoryLockKey derives the pg_advisory_xact_lock key that serializes all
// contract invocations against the same factory instance.
const advisoryLockName = "tokenfactory.contract_storage"

// PostgresHost implements Host on top of PostgreSQL. Each Atomic scope is one
// database transaction holding an advisory lock, so the database provides
// both the rollback guarantee and the serialization of concurrent calls.
type PostgresHost struct {
	pool    *pgxpool.Pool
	lockKey int64
}

// NewPostgresHost creates a connection pool and verifies connectivity
func NewPostgresHost(ctx context.Context, databaseURL string) (*PostgresHost, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	h := fnv.New64a()
	h.Write([]byte(advisoryLockName))

	return &PostgresHost{
		pool:    pool,
		lockKey: int64(h.Sum64()),
	}, nil
}

// EnsureSchema creates the contract storage table if it does not exist
func (h *PostgresHost) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS contract_storage (
			namespace  TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (namespace, key)
		)
	`

	if _, err := h.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create contract_storage table: %w", err)
	}

	return nil
}

// Atomic runs fn inside a database transaction with the factory advisory lock
func (h *PostgresHost) Atomic(ctx context.Context, fn func(Store) error) error {
	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize concurrent invocations against this contract instance.
	// The lock is released automatically at commit or rollback.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, h.lockKey); err != nil {
		return fmt.Errorf("failed to acquire invocation lock: %w", err)
	}

	if err := fn(&postgresTxn{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Ping checks if the database connection is alive
func (h *PostgresHost) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// Close closes the database connection pool
func (h *PostgresHost) Close() error {
	h.pool.Close()
	return nil
}

// postgresTxn is the Store view bound to one transaction
type postgresTxn struct {
	tx pgx.Tx
}

func (t *postgresTxn) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	query := `SELECT value FROM contract_storage WHERE namespace = $1 AND key = $2`

	var value []byte
	err := t.tx.QueryRow(ctx, query, namespace, key).Scan(&value)
	if err == pgx.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get storage entry: %w", err)
	}

	return value, true, nil
}

func (t *postgresTxn) Put(ctx context.Context, namespace, key string, value []byte) error {
	query := `
		INSERT INTO contract_storage (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = now()
	`

	if _, err := t.tx.Exec(ctx, query, namespace, key, value); err != nil {
		return fmt.Errorf("failed to put storage entry: %w", err)
	}

	return nil
}

func (t *postgresTxn) Has(ctx context.Context, namespace, key string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM contract_storage WHERE namespace = $1 AND key = $2)`

	var exists bool
	if err := t.tx.QueryRow(ctx, query, namespace, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check storage entry: %w", err)
	}

	return exists, nil
}
