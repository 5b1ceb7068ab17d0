package repomanager

import (
	"context"

	"github.com/dmitrijs2005/storjvault/internal/server/repositories/vaults"
)

// RepositoryManager vends the vault repository for the configured backend.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Vaults() vaults.Repository
	// WithinTx runs fn atomically: its writes are kept only when it returns nil.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo vaults.Repository) error) error
	Close() error
}
