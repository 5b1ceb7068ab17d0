// Package repomanager provides concrete RepositoryManagers for PostgreSQL
// and the JSON vault registry, wiring together repository constructors and
// database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/storjvault/internal/dbx"
	"github.com/dmitrijs2005/storjvault/internal/server/migrations"
	"github.com/dmitrijs2005/storjvault/internal/server/repositories/vaults"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct {
	db *sql.DB
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// openDB is a seam for tests that cannot reach a real server.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

// Vaults returns a vaults.Repository bound to the connection pool.
func (m *PostgresRepositoryManager) Vaults() vaults.Repository {
	return vaults.NewPostgresRepository(m.db)
}

// WithinTx runs fn inside a database transaction.
func (m *PostgresRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repo vaults.Repository) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, vaults.NewPostgresRepository(tx))
	})
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the managed connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

// Close releases the connection pool.
func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

// NewPostgresRepositoryManager opens dsn with the pgx driver and checks the
// connection.
func NewPostgresRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresRepositoryManager{db: db}, nil
}
