package repomanager

import (
	"context"

	"github.com/dmitrijs2005/storjvault/internal/server/repositories/vaults"
)

// FileRepositoryManager serves vaults from the JSON registry file.
type FileRepositoryManager struct {
	repo *vaults.FileRepository
}

// NewFileRepositoryManager loads the registry at path.
func NewFileRepositoryManager(path string) (RepositoryManager, error) {
	repo, err := vaults.NewFileRepository(path)
	if err != nil {
		return nil, err
	}
	return &FileRepositoryManager{repo: repo}, nil
}

// RunMigrations is a no-op: the file format has no schema.
func (m *FileRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *FileRepositoryManager) Vaults() vaults.Repository { return m.repo }

func (m *FileRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repo vaults.Repository) error) error {
	return m.repo.WithinTx(ctx, fn)
}

func (m *FileRepositoryManager) Close() error { return nil }
