package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pingTimeout bounds the connectivity check at startup so a wrong DSN
// fails fast instead of hanging on the pool's default dial behavior.
const pingTimeout = 5 * time.Second

// DB is the Postgres repository for program state: templates, cycles,
// training maxes, linear states, lift logs, overrides, and the
// historical set archive. All methods operate on the embedded pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New opens a connection pool against dsn and verifies connectivity
// before returning it.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// Close releases the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// RunMigrations applies pending migrations from migrationsPath and
// refuses to proceed on a dirty schema left by an interrupted run.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if _, dirty, err := m.Version(); err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("reading schema version: %w", err)
	} else if dirty {
		return fmt.Errorf("schema is dirty, resolve the failed migration before starting")
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
